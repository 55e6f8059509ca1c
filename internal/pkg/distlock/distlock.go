// Package distlock guards snapshot writes that must not run twice at once,
// either within one process or across server instances sharing Redis.
package distlock

import (
	"context"
	"errors"
	"sync"
)

// ErrNotAcquired is returned by Run when another holder owns the lock.
var ErrNotAcquired = errors.New("lock held by another holder")

// DistLock is a non-blocking, owner-checked lock.
type DistLock interface {
	// Acquire tries to acquire the lock. Returns true if successful.
	Acquire(ctx context.Context) (bool, error)
	// Release releases the lock if we still own it.
	Release(ctx context.Context) error
}

// Run calls fn while holding l. It fails fast with ErrNotAcquired rather
// than waiting.
func Run(ctx context.Context, l DistLock, fn func(ctx context.Context) error) error {
	ok, err := l.Acquire(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotAcquired
	}
	defer l.Release(context.WithoutCancel(ctx))
	return fn(ctx)
}

// LocalLock is an in-process lock for single-instance deployments.
type LocalLock struct {
	mu sync.Mutex
}

// NewLocalLock returns an unlocked LocalLock.
func NewLocalLock() *LocalLock { return &LocalLock{} }

func (l *LocalLock) Acquire(context.Context) (bool, error) {
	return l.mu.TryLock(), nil
}

func (l *LocalLock) Release(context.Context) error {
	l.mu.Unlock()
	return nil
}
