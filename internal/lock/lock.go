// Package lock provides per-source run locks so that two deployments never
// crawl the same source at the same time.
package lock

import (
	"context"
	"errors"
)

// ErrHeld is returned by Acquire when another holder owns the lock.
var ErrHeld = errors.New("lock held")

// Release gives up a lock. It is safe to call after the lock expired.
type Release func(ctx context.Context) error

// Locker acquires named locks.
type Locker interface {
	Acquire(ctx context.Context, name string) (Release, error)
}

// Noop grants every lock.
type Noop struct{}

// Acquire implements Locker.
func (Noop) Acquire(context.Context, string) (Release, error) {
	return func(context.Context) error { return nil }, nil
}
