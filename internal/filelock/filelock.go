// Package filelock provides advisory locking and atomic replacement of
// output files.
package filelock

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrLocked is returned when another process holds the lock
var ErrLocked = errors.New("file is locked by another process")

// FileLock wraps a flock file lock for coordinating access to files
type FileLock struct {
	flock *flock.Flock
	path  string
}

// NewFileLock creates a new file lock for the given path
func NewFileLock(path string) *FileLock {
	return &FileLock{
		flock: flock.New(path),
		path:  path,
	}
}

// TryLock attempts to acquire the lock without blocking. It reports false
// when another process holds it.
func (fl *FileLock) TryLock() (bool, error) {
	acquired, err := fl.flock.TryLock()
	if err != nil {
		return false, fmt.Errorf("failed to try lock on %s: %w", fl.path, err)
	}
	return acquired, nil
}

// Unlock releases the lock
func (fl *FileLock) Unlock() error {
	if err := fl.flock.Unlock(); err != nil {
		return fmt.Errorf("failed to release lock on %s: %w", fl.path, err)
	}
	return nil
}

// Path returns the lock file path
func (fl *FileLock) Path() string {
	return fl.path
}

// AtomicWriteFunc streams content produced by write into a temporary file
// next to path and renames it over path once everything is flushed. The
// parent directory must already exist. On any failure the temporary file is
// removed and an existing file at path is left untouched.
func AtomicWriteFunc(path string, write func(w io.Writer) error) error {
	dir := filepath.Dir(path)

	// Same directory keeps the rename on one filesystem
	tempFile, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tempPath := tempFile.Name()

	defer func() {
		if tempFile != nil {
			tempFile.Close()
			os.Remove(tempPath)
		}
	}()

	if err := write(tempFile); err != nil {
		return err
	}

	if err := tempFile.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	// CreateTemp uses 0600
	if err := os.Chmod(tempPath, 0644); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file to %s: %w", path, err)
	}

	tempFile = nil
	return nil
}

// LockAndWrite holds "<path>.lock" while atomically replacing path. It
// returns ErrLocked without waiting if another writer holds the lock.
func LockAndWrite(path string, write func(w io.Writer) error) error {
	lock := NewFileLock(path + ".lock")

	acquired, err := lock.TryLock()
	if err != nil {
		return err
	}
	if !acquired {
		return fmt.Errorf("%s: %w", lock.Path(), ErrLocked)
	}
	defer func() {
		lock.Unlock()
		// Advisory and best-effort: a writer that opened the old lock file
		// before this unlink can still lock it alongside a new one
		os.Remove(lock.Path())
	}()

	return AtomicWriteFunc(path, write)
}
