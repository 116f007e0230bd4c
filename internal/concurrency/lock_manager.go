package concurrency

import (
	"sync"
)

// LockManager hands out one mutex per key so callers can serialize work on a
// fine-grained identifier, such as an idempotency key, without a global lock.
// Mutexes are created on first use and retained for the manager's lifetime.
type LockManager struct {
	locks sync.Map
}

// NewLockManager creates an empty LockManager
func NewLockManager() *LockManager {
	return &LockManager{}
}

// GetLock returns the mutex for key, creating it on first request. Concurrent
// first requests race on LoadOrStore and all receive the same mutex.
func (lm *LockManager) GetLock(key string) *sync.Mutex {
	lock, _ := lm.locks.LoadOrStore(key, &sync.Mutex{})
	return lock.(*sync.Mutex)
}
