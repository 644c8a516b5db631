// Package filelock provides advisory whole-file locks used to keep two
// processes from rewriting the same profile collection at once.
package filelock

import (
	"fmt"
	"os"
	"path/filepath"
)

// Lock is a held advisory lock on a lock file
type Lock struct {
	f         *os.File
	exclusive bool
}

// Acquire blocks until the lock on path is held. Shared locks may be held
// by several processes at once; an exclusive lock excludes all others.
func Acquire(path string, exclusive bool) (*Lock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating lock directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("opening lock file: %w", err)
	}
	if err := lockFile(f, exclusive); err != nil {
		f.Close()
		return nil, fmt.Errorf("locking %s: %w", path, err)
	}
	return &Lock{f: f, exclusive: exclusive}, nil
}

// Exclusive reports whether the lock is exclusive
func (l *Lock) Exclusive() bool {
	return l != nil && l.exclusive
}

// Release drops the lock. Releasing a nil Lock is a no-op.
func (l *Lock) Release() error {
	if l == nil || l.f == nil {
		return nil
	}
	err := unlockFile(l.f)
	if cerr := l.f.Close(); err == nil {
		err = cerr
	}
	l.f = nil
	return err
}
