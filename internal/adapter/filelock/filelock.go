// Package filelock serialises add runs on one host with an advisory file lock.
package filelock

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

const retryDelay = 100 * time.Millisecond

// ErrLocked is returned when the lock is still held after the timeout.
var ErrLocked = errors.New("another progress run holds the lock")

// Locker acquires an exclusive lock on a file path.
type Locker struct {
	path    string
	timeout time.Duration
}

// New returns a Locker for path. A non-positive timeout means a single attempt.
func New(path string, timeout time.Duration) *Locker {
	return &Locker{path: path, timeout: timeout}
}

// Lock blocks until the lock is held, the timeout passes or ctx is done.
func (l *Locker) Lock(ctx context.Context) (func() error, error) {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}
	fl := flock.New(l.path)

	var ok bool
	var err error
	if l.timeout > 0 {
		lockCtx, cancel := context.WithTimeout(ctx, l.timeout)
		defer cancel()
		ok, err = fl.TryLockContext(lockCtx, retryDelay)
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return nil, fmt.Errorf("%w: %s", ErrLocked, l.path)
		}
	} else {
		ok, err = fl.TryLock()
	}
	if err != nil {
		return nil, fmt.Errorf("acquire lock %s: %w", l.path, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLocked, l.path)
	}
	return fl.Unlock, nil
}
