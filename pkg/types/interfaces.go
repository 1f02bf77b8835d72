package types

import (
	"io/fs"
)

// FS is the filesystem interface required for fgroup operations
type FS interface {
	// File operations
	Stat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error

	// Directory operations
	MkdirAll(path string, perm fs.FileMode) error
	ReadDir(name string) ([]fs.DirEntry, error)

	// Lstat does not follow symlinks. Filesystems without symlink
	// support may fall back to Stat.
	Lstat(name string) (fs.FileInfo, error)
}
