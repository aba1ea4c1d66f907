package service

import "sync"

// userLocks serializes state transitions per user. The lock is held only
// around short mutation windows, never across a provider call, so the table
// stays small and uncontended.
type userLocks struct {
	mu    sync.Mutex
	locks map[int64]*userLock
}

type userLock struct {
	mu   sync.Mutex
	refs int
}

func newUserLocks() *userLocks {
	return &userLocks{locks: make(map[int64]*userLock)}
}

// Lock acquires the mutex for the given user, creating it on first use.
func (ul *userLocks) Lock(userID int64) {
	ul.mu.Lock()
	l, ok := ul.locks[userID]
	if !ok {
		l = &userLock{}
		ul.locks[userID] = l
	}
	l.refs++
	ul.mu.Unlock()

	l.mu.Lock()
}

// Unlock releases the user's mutex and drops the table entry once no
// goroutine holds or waits on it.
func (ul *userLocks) Unlock(userID int64) {
	ul.mu.Lock()
	l := ul.locks[userID]
	l.refs--
	if l.refs == 0 {
		delete(ul.locks, userID)
	}
	ul.mu.Unlock()

	l.mu.Unlock()
}
