// Package lockfile provides an exclusive, reference-counted advisory lock
// for one on-disk tree root, backed by a sentinel lock file and an OS-level
// flock. Nested acquisitions within one logical operation are cheap; only
// the outermost release gives up the OS-level lock.
package lockfile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sys/unix"
)

// SentinelName is the name of the sentinel lock file, created as a sibling
// of the guarded root.
const SentinelName = ".lock"

const sentinelPerm = 0o644

// Manager is the advisory lock of one tree root. It is shared by reference
// between every node derived from the same load and is not safe for
// concurrent use by multiple goroutines; it guards cross-process access to
// the root, not in-process state.
type Manager struct {
	path string
	file *os.File
	held int
}

// NewManager returns a [Manager] guarding the given root path. The sentinel
// file lives in the root's parent directory; it is created lazily on first
// [Manager.Lock].
func NewManager(root string) *Manager {
	return &Manager{
		path: filepath.Join(filepath.Dir(filepath.Clean(root)), SentinelName),
	}
}

// Path returns the location of the sentinel lock file.
func (m *Manager) Path() string {
	return m.path
}

// Held returns the current acquisition count.
func (m *Manager) Held() int {
	return m.held
}

// Lock takes the OS-level exclusive advisory lock on the sentinel file,
// blocking until it is available, and increments the acquisition count. The
// sentinel file is created once if absent, holding a creation timestamp.
func (m *Manager) Lock() error {
	if m.file == nil {
		if err := m.ensureSentinel(); err != nil {
			return err
		}

		file, err := os.OpenFile(m.path, os.O_RDWR, 0)
		if err != nil {
			return fmt.Errorf("(lock) failed to open sentinel: %w", err)
		}
		m.file = file
	}

	if err := unix.Flock(int(m.file.Fd()), unix.LOCK_EX); err != nil {
		return fmt.Errorf("(lock) failed to flock: %w", err)
	}

	m.held++

	return nil
}

// Unlock decrements the acquisition count and releases the OS-level lock
// once it reaches zero; it returns the new count. Without a prior [Lock] it
// is a no-op.
func (m *Manager) Unlock() (int, error) {
	if m.file == nil {
		return 0, nil
	}

	if m.held > 0 {
		m.held--
	}

	if m.held == 0 {
		if err := unix.Flock(int(m.file.Fd()), unix.LOCK_UN); err != nil {
			return m.held, fmt.Errorf("(lock) failed to unlock: %w", err)
		}
	}

	return m.held, nil
}

// Close releases the sentinel file handle; a still-held OS-level lock is
// given up implicitly with it.
func (m *Manager) Close() error {
	if m.file == nil {
		return nil
	}

	file := m.file
	m.file = nil
	m.held = 0

	if err := file.Close(); err != nil {
		return fmt.Errorf("(lock) failed to close sentinel: %w", err)
	}

	return nil
}

// ensureSentinel creates the sentinel file with a creation timestamp if it
// does not exist yet; a concurrent creator winning the race is fine.
func (m *Manager) ensureSentinel() error {
	if _, err := os.Stat(m.path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("(lock) failed to stat sentinel: %w", err)
	}

	file, err := os.OpenFile(m.path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, sentinelPerm)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return nil
		}

		return fmt.Errorf("(lock) failed to create sentinel: %w", err)
	}
	defer file.Close()

	if _, err := fmt.Fprintf(file, "%d\n", time.Now().Unix()); err != nil {
		return fmt.Errorf("(lock) failed to write sentinel: %w", err)
	}

	return nil
}
