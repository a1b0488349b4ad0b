package integrity

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/samir-abis/facefusion/internal/fsys"
)

// Checker reports whether the content of a file matches its expected hash.
type Checker interface {
	IsValid(path string) bool
}

// HashPath returns the companion record path for an asset: the sibling file
// with the same stem and a .hash extension.
func HashPath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + ".hash"
}

// FileChecker validates files against companion .hash records on a
// FileSystem. The zero value uses the real filesystem.
type FileChecker struct {
	fs fsys.FileSystem
}

// NewFileChecker returns a FileChecker backed by the provided filesystem.
// A nil filesystem falls back to the OS implementation.
func NewFileChecker(fs fsys.FileSystem) *FileChecker {
	if fs == nil {
		fs = fsys.OS{}
	}
	return &FileChecker{fs: fs}
}

// IsValid reports whether path exists and its SHA256 digest matches the one
// stored in its companion record. Any read failure counts as invalid.
func (c *FileChecker) IsValid(path string) bool {
	fs := c.filesystem()
	if !fs.Exists(path) {
		return false
	}

	expected, err := readRecord(fs, HashPath(path))
	if err != nil {
		return false
	}

	actual, err := ComputeFileHash(fs, path)
	if err != nil {
		return false
	}
	return actual == expected
}

func (c *FileChecker) filesystem() fsys.FileSystem {
	if c.fs == nil {
		return fsys.OS{}
	}
	return c.fs
}

// readRecord parses the digest out of a companion record. Records follow the
// sha256sum layout, so only the first whitespace-separated field matters.
func readRecord(fs fsys.FileSystem, recordPath string) (string, error) {
	file, err := fs.Open(recordPath)
	if err != nil {
		return "", errors.Wrapf(err, "failed to open hash record: %s", recordPath)
	}
	defer file.Close()

	body, err := io.ReadAll(file)
	if err != nil {
		return "", errors.Wrapf(err, "failed to read hash record: %s", recordPath)
	}

	fields := strings.Fields(string(body))
	if len(fields) == 0 {
		return "", errors.Errorf("hash record is empty: %s", recordPath)
	}
	return strings.ToLower(fields[0]), nil
}

// WriteRecord computes the digest of path and stores it in the companion
// record, returning the record path.
func WriteRecord(fs fsys.FileSystem, path string) (string, error) {
	if fs == nil {
		fs = fsys.OS{}
	}

	digest, err := ComputeFileHash(fs, path)
	if err != nil {
		return "", err
	}

	recordPath := HashPath(path)
	file, err := fs.Create(recordPath)
	if err != nil {
		return "", errors.Wrapf(err, "failed to create hash record: %s", recordPath)
	}
	defer file.Close()

	if _, err := fmt.Fprintf(file, "%s  %s\n", digest, filepath.Base(path)); err != nil {
		return "", errors.Wrapf(err, "failed to write hash record: %s", recordPath)
	}
	return recordPath, nil
}
