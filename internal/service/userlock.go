package service

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/semaphore"
)

// userLock pairs a user's semaphore with a reference count so the entry can
// be evicted once nobody holds or waits for it.
type userLock struct {
	sem  *semaphore.Weighted
	refs int
}

// UserLocks serializes cart mutations and checkouts per user. One instance is
// shared between CartService and CheckoutService so that a cart mutation can
// never race an in-flight checkout's read-then-clear sequence. Entries are
// created on demand and removed when the last holder or waiter is gone, so
// the map stays proportional to in-flight users, not to users ever seen.
type UserLocks struct {
	mu    sync.Mutex
	users map[string]*userLock
}

func NewUserLocks() *UserLocks {
	return &UserLocks{
		users: make(map[string]*userLock),
	}
}

func (l *UserLocks) retain(ownerID string) *userLock {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.users[ownerID]
	if !ok {
		entry = &userLock{sem: semaphore.NewWeighted(1)}
		l.users[ownerID] = entry
	}
	entry.refs++

	return entry
}

func (l *UserLocks) drop(ownerID string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.users[ownerID]
	if !ok {
		return
	}

	entry.refs--
	if entry.refs == 0 {
		delete(l.users, ownerID)
	}
}

// TryAcquire takes the user's lock without blocking. Checkout uses this to
// fail fast instead of queueing behind another attempt.
func (l *UserLocks) TryAcquire(ownerID string) bool {
	entry := l.retain(ownerID)
	if !entry.sem.TryAcquire(1) {
		l.drop(ownerID)
		return false
	}

	return true
}

// Acquire blocks until the lock is free or ctx is done. Cart mutations use
// this: a checkout is short, so a brief wait beats a spurious failure.
func (l *UserLocks) Acquire(ctx context.Context, ownerID string) error {
	entry := l.retain(ownerID)
	if err := entry.sem.Acquire(ctx, 1); err != nil {
		l.drop(ownerID)
		return fmt.Errorf("sem.Acquire: %w", err)
	}

	return nil
}

func (l *UserLocks) Release(ownerID string) {
	l.mu.Lock()
	entry := l.users[ownerID]
	l.mu.Unlock()

	if entry == nil {
		return
	}

	entry.sem.Release(1)
	l.drop(ownerID)
}
