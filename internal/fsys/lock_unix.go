//go:build !windows

package fsys

import (
	"os"
	"path/filepath"
	"syscall"
	"time"

	"github.com/pkg/errors"
)

const lockFileName = ".facefusion-assets.lock"

// DirLock holds an exclusive advisory lock on an asset directory so that
// only one acquisition run mutates it at a time.
type DirLock struct {
	file   *os.File
	locked bool
}

// LockDir acquires an exclusive lock for dir, polling until the lock is
// held or timeout expires. The lock file is created inside dir.
func LockDir(dir string, timeout time.Duration) (*DirLock, error) {
	file, err := os.OpenFile(filepath.Join(dir, lockFileName), os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, errors.Wrap(err, "open lock file")
	}

	deadline := time.Now().Add(timeout)
	sleep := 10 * time.Millisecond

	for {
		err := syscall.Flock(int(file.Fd()), syscall.LOCK_EX|syscall.LOCK_NB)
		if err == nil {
			return &DirLock{file: file, locked: true}, nil
		}

		if time.Now().After(deadline) {
			file.Close()
			return nil, errors.Errorf("lock timeout after %v: %s", timeout, dir)
		}

		time.Sleep(sleep)
		if sleep < 100*time.Millisecond {
			sleep *= 2
		}
	}
}

// Unlock releases the lock. Safe to call multiple times.
func (l *DirLock) Unlock() error {
	if l == nil || l.file == nil {
		return nil
	}

	var unlockErr error
	if l.locked {
		unlockErr = syscall.Flock(int(l.file.Fd()), syscall.LOCK_UN)
		l.locked = false
	}
	l.file.Close()
	l.file = nil

	return unlockErr
}
