// Package lock serializes mutation of a single registration across
// processes. The reconciliation engine computes against a snapshot it
// assumes is exclusive; this is where that exclusivity comes from.
package lock

import "context"

// Release frees an acquired lock. Safe to call once.
type Release func(ctx context.Context) error

type Locker interface {
	// Acquire blocks the key for the caller or fails when it is already
	// held elsewhere.
	Acquire(ctx context.Context, key string) (Release, error)
}

// Noop grants every acquisition. Used when no Redis is configured and in
// single-process deployments where the database row lock suffices.
type Noop struct{}

func (Noop) Acquire(context.Context, string) (Release, error) {
	return func(context.Context) error { return nil }, nil
}
