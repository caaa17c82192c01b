package treefile

import (
	"fmt"
	"log/slog"
	"path/filepath"
)

const dirPerm = 0o755

// Write serializes the node's sub-tree back to the tree's base directory,
// converting each branch to its effective on-disk representation: the
// explicit [Node.Type] override when one is set, otherwise a directory if
// one currently exists at the branch's path, otherwise a single file.
//
// The stale on-disk shape of a converted branch is removed first; a failure
// mid-write can therefore leave a branch deleted and not yet recreated.
func (n *Node) Write() error {
	return n.write("")
}

// WriteTo behaves like [Node.Write], but resolves every on-disk path against
// the given base directory instead of the tree's own.
func (n *Node) WriteTo(base string) error {
	return n.write(base)
}

func (n *Node) write(base string) (err error) {
	path := n.ctx.diskPath(n.location, base)

	// Forcing the full data first guarantees no pending child references
	// on-disk content that is about to be replaced.
	data, err := n.Data()
	if err != nil {
		return fmt.Errorf("(write) %w", err)
	}

	if err := n.ctx.lock.Lock(); err != nil {
		return fmt.Errorf("(write) %w", err)
	}
	defer func() {
		if _, uerr := n.ctx.lock.Unlock(); uerr != nil && err == nil {
			err = fmt.Errorf("(write) %w", uerr)
		}
	}()

	effType := n.repType
	if effType == RepUnset {
		effType = RepFile
		if info, err := n.ctx.osOps.Stat(path); err == nil && info.IsDir() {
			effType = RepDir
		}
	}

	if effType == RepDir {
		return n.writeDir(path, base)
	}

	return n.writeFile(path, data)
}

// writeDir emits the branch as a fresh directory with one entry per child,
// recursing into sub-branches and codec-encoding leaves.
func (n *Node) writeDir(path, base string) error {
	if err := n.ctx.osOps.RemoveAll(path); err != nil {
		return fmt.Errorf("(write) failed to remove stale shape: %w", err)
	}
	if err := n.ctx.osOps.MkdirAll(path, dirPerm); err != nil {
		return fmt.Errorf("(write) failed to mkdir: %w", err)
	}

	for _, name := range n.NodeNames() {
		value, err := n.children[name].resolve()
		if err != nil {
			return fmt.Errorf("(write) %w", err)
		}

		if branch, ok := value.(*Node); ok {
			if err := branch.write(base); err != nil {
				return err
			}

			continue
		}

		if err := n.ctx.codec.WriteFile(filepath.Join(path, name), value); err != nil {
			return fmt.Errorf("(write) %w", err)
		}
	}

	slog.Debug("Wrote directory branch", "path", path, "entries", len(n.children))

	return nil
}

// writeFile emits the branch as one codec-encoded file holding its entire
// materialized sub-tree.
func (n *Node) writeFile(path string, data map[string]any) error {
	if info, err := n.ctx.osOps.Stat(path); err == nil && info.IsDir() {
		if err := n.ctx.osOps.RemoveAll(path); err != nil {
			return fmt.Errorf("(write) failed to remove stale shape: %w", err)
		}
	}

	if err := n.ctx.codec.WriteFile(path, data); err != nil {
		return fmt.Errorf("(write) %w", err)
	}

	slog.Debug("Wrote file branch", "path", path)

	return nil
}
