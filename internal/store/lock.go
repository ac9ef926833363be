package store

import (
	"context"
	"fmt"
	"time"

	"github.com/gofrs/flock"
)

// DefaultLockTimeout bounds how long a state update waits for another process.
const DefaultLockTimeout = 5 * time.Second

const lockRetryDelay = 50 * time.Millisecond

func withLock(path string, timeout time.Duration, fn func() error) error {
	return lockAnd(path, timeout, false, fn)
}

func withReadLock(path string, timeout time.Duration, fn func() error) error {
	return lockAnd(path, timeout, true, fn)
}

func lockAnd(path string, timeout time.Duration, shared bool, fn func() error) error {
	if timeout <= 0 {
		timeout = DefaultLockTimeout
	}
	lockPath := path + ".lock"
	fl := flock.New(lockPath)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var (
		locked bool
		err    error
	)
	if shared {
		locked, err = fl.TryRLockContext(ctx, lockRetryDelay)
	} else {
		locked, err = fl.TryLockContext(ctx, lockRetryDelay)
	}
	if err != nil {
		return fmt.Errorf("locking %s: %w", lockPath, err)
	}
	if !locked {
		return fmt.Errorf("timed out locking %s", lockPath)
	}
	defer fl.Unlock()

	return fn()
}
