package storage

import (
	"fmt"
	"os"
	"time"
)

const (
	lockTimeout = 5 * time.Second
	lockRetry   = 20 * time.Millisecond
)

// Lock is a directory-based lock shared between myterm processes writing
// the same history file.
type Lock struct {
	dir string
}

// NewLock creates a lock at the given directory path.
func NewLock(dir string) *Lock {
	return &Lock{dir: dir}
}

// Acquire creates the lock directory, retrying until it succeeds or the
// timeout elapses.
func (l *Lock) Acquire() error {
	start := time.Now()
	for {
		err := os.Mkdir(l.dir, 0700)
		if err == nil {
			return nil
		}
		if !os.IsExist(err) {
			return fmt.Errorf("create lock directory: %w", err)
		}
		if time.Since(start) > lockTimeout {
			return fmt.Errorf("lock %s held for more than %s", l.dir, lockTimeout)
		}
		time.Sleep(lockRetry)
	}
}

// Release removes the lock directory.
func (l *Lock) Release() error {
	return os.Remove(l.dir)
}

// WithLock executes fn while holding the lock at dir.
func WithLock(dir string, fn func() error) error {
	lock := NewLock(dir)
	if err := lock.Acquire(); err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	defer lock.Release()
	return fn()
}
