package lock

import (
	"sync"
	"sync/atomic"

	"github.com/petermattis/goid"
)

// RecursiveMutex is a mutual-exclusion lock that may be acquired repeatedly by the
// goroutine that already holds it. The zero value is an unlocked mutex.
type RecursiveMutex struct {
	mu    sync.Mutex
	owner atomic.Int64
	depth int
}

// Lock acquires the mutex. If the calling goroutine already owns it, the depth counter
// is incremented and Lock returns immediately.
func (m *RecursiveMutex) Lock() {
	id := goid.Get()
	if m.owner.Load() == id {
		m.depth++
		return
	}

	m.mu.Lock()
	m.owner.Store(id)
	m.depth = 1
}

// Unlock releases one level of ownership. The mutex becomes available to other
// goroutines once every Lock has been matched by an Unlock.
func (m *RecursiveMutex) Unlock() {
	if m.owner.Load() != goid.Get() {
		panic(ErrNotOwner)
	}

	m.depth--
	if m.depth > 0 {
		return
	}

	m.owner.Store(0)
	m.mu.Unlock()
}

// Do runs fn while holding the mutex.
func (m *RecursiveMutex) Do(fn func()) {
	m.Lock()
	defer m.Unlock()
	fn()
}

// HeldByCurrent reports whether the calling goroutine owns the mutex.
func (m *RecursiveMutex) HeldByCurrent() bool {
	return m.owner.Load() == goid.Get()
}
