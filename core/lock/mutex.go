package lock

import "sync"

// Locker is the common lock contract of Mutex and RecursiveMutex.
type Locker interface {
	Lock()
	Unlock()
}

// Mutex is a non-reentrant mutual-exclusion lock guarding an object's own state.
// The zero value is an unlocked mutex.
type Mutex struct {
	mu sync.Mutex
}

// Lock acquires the mutex, blocking until it is available.
func (m *Mutex) Lock() {
	m.mu.Lock()
}

// Unlock releases the mutex.
func (m *Mutex) Unlock() {
	m.mu.Unlock()
}

// TryLock tries to acquire the mutex without blocking and reports whether it succeeded.
func (m *Mutex) TryLock() bool {
	return m.mu.TryLock()
}

// Do runs fn while holding the mutex.
func (m *Mutex) Do(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	fn()
}

// With runs fn while holding l and returns its result.
func With[T any](l Locker, fn func() T) T {
	l.Lock()
	defer l.Unlock()
	return fn()
}
