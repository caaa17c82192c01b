package treefile

import "os"

type osProvider interface {
	Stat(name string) (os.FileInfo, error)
	ReadDir(name string) ([]os.DirEntry, error)
	MkdirAll(path string, perm os.FileMode) error
	RemoveAll(path string) error
}

// RealOS is an [osProvider] implementation calling the actual operating
// system functions.
type RealOS struct{}

func (RealOS) Stat(name string) (os.FileInfo, error) {
	return os.Stat(name)
}

func (RealOS) ReadDir(name string) ([]os.DirEntry, error) {
	return os.ReadDir(name)
}

func (RealOS) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

func (RealOS) RemoveAll(path string) error {
	return os.RemoveAll(path)
}
