package fsys

import (
	"io"
	"os"
)

// FileSystem abstracts the filesystem operations the acquisition core
// depends on, to improve testability.
type FileSystem interface {
	// Exists reports whether path names an existing regular file.
	Exists(path string) bool
	// Size returns the byte length of the regular file at path, or 0 when
	// the file is absent or not regular.
	Size(path string) int64
	Remove(path string) error
	MkdirAll(path string, perm os.FileMode) error
	Stat(path string) (os.FileInfo, error)
	Open(path string) (io.ReadCloser, error)
	Create(path string) (io.WriteCloser, error)
}

// OS implements FileSystem using the local OS.
type OS struct{}

func (OS) Exists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func (OS) Size(path string) int64 {
	if path == "" {
		return 0
	}
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return 0
	}
	return info.Size()
}

func (OS) Remove(path string) error {
	return os.Remove(path)
}

func (OS) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

func (OS) Stat(path string) (os.FileInfo, error) {
	return os.Stat(path)
}

func (OS) Open(path string) (io.ReadCloser, error) {
	return os.Open(path)
}

func (OS) Create(path string) (io.WriteCloser, error) {
	return os.Create(path)
}
