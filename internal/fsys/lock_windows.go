//go:build windows

package fsys

import (
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sys/windows"
)

const lockFileName = ".facefusion-assets.lock"

// DirLock holds an exclusive lock on an asset directory so that only one
// acquisition run mutates it at a time.
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
		err := windows.LockFileEx(
			windows.Handle(file.Fd()),
			windows.LOCKFILE_EXCLUSIVE_LOCK|windows.LOCKFILE_FAIL_IMMEDIATELY,
			0,
			1, 0,
			&windows.Overlapped{},
		)
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
		unlockErr = windows.UnlockFileEx(
			windows.Handle(l.file.Fd()),
			0,
			1, 0,
			&windows.Overlapped{},
		)
		l.locked = false
	}
	l.file.Close()
	l.file = nil

	return unlockErr
}
