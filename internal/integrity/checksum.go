package integrity

import (
	"crypto/sha256"
	"fmt"
	"io"

	"github.com/pkg/errors"

	"github.com/samir-abis/facefusion/internal/fsys"
)

// ComputeHash returns the SHA256 digest for the provided reader as a
// lowercase hex string.
func ComputeHash(r io.Reader) (string, error) {
	hasher := sha256.New()
	if _, err := io.Copy(hasher, r); err != nil {
		return "", errors.Wrap(err, "failed to read data for content hash")
	}
	return fmt.Sprintf("%x", hasher.Sum(nil)), nil
}

// ComputeFileHash opens the supplied path via the provided filesystem and
// returns its SHA256 digest.
func ComputeFileHash(fs fsys.FileSystem, path string) (string, error) {
	file, err := fs.Open(path)
	if err != nil {
		return "", errors.Wrapf(err, "failed to open file: %s", path)
	}
	defer file.Close()

	return ComputeHash(file)
}
