package stream

import (
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// AnyCancellable wraps a cancel function and guarantees it runs at most once.
//
// If an AnyCancellable becomes unreachable while still active, its cancel function runs
// automatically after the garbage collector reclaims it. Deterministic teardown is done
// with Cancel or by storing the cancellable in a Bag owned by the consumer.
type AnyCancellable struct {
	id    uuid.UUID
	state *cancelState
}

type cancelState struct {
	once      sync.Once
	cancelled atomic.Bool
	fn        func()
}

func (s *cancelState) cancel() {
	s.once.Do(func() {
		s.cancelled.Store(true)
		fn := s.fn
		s.fn = nil
		if fn != nil {
			fn()
		}
	})
}

// NewAnyCancellable returns a cancellable that runs fn on the first Cancel.
func NewAnyCancellable(fn func()) *AnyCancellable {
	c := &AnyCancellable{
		id:    uuid.New(),
		state: &cancelState{fn: fn},
	}
	runtime.AddCleanup(c, func(s *cancelState) { s.cancel() }, c.state)
	return c
}

// AsAnyCancellable wraps c, returning it unchanged when it already is an *AnyCancellable.
func AsAnyCancellable(c Cancellable) *AnyCancellable {
	if ac, ok := c.(*AnyCancellable); ok {
		return ac
	}
	return NewAnyCancellable(c.Cancel)
}

// ID returns the identity of the cancellable.
func (c *AnyCancellable) ID() uuid.UUID {
	return c.id
}

// Cancel runs the wrapped cancel function. Subsequent calls are no-ops.
func (c *AnyCancellable) Cancel() {
	c.state.cancel()
}

// IsCancelled reports whether Cancel has run.
func (c *AnyCancellable) IsCancelled() bool {
	return c.state.cancelled.Load()
}

// Store adds c to bag and returns c.
func (c *AnyCancellable) Store(bag *Bag) *AnyCancellable {
	bag.Add(c)
	return c
}

// Bag holds cancellables for the lifetime of their owner. Cancel tears all of them down.
// The zero value is an empty, usable bag.
type Bag struct {
	mu        sync.Mutex
	items     map[uuid.UUID]*AnyCancellable
	cancelled bool
}

// Add stores c. Adding to a bag that was already cancelled cancels c immediately.
func (b *Bag) Add(c *AnyCancellable) {
	b.mu.Lock()
	if b.cancelled {
		b.mu.Unlock()
		c.Cancel()
		return
	}
	if b.items == nil {
		b.items = make(map[uuid.UUID]*AnyCancellable)
	}
	b.items[c.ID()] = c
	b.mu.Unlock()
}

// Remove cancels and forgets the cancellable with the given id. It reports whether it was present.
func (b *Bag) Remove(id uuid.UUID) bool {
	b.mu.Lock()
	c, ok := b.items[id]
	delete(b.items, id)
	b.mu.Unlock()

	if ok {
		c.Cancel()
	}
	return ok
}

// Len returns the number of stored cancellables.
func (b *Bag) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.items)
}

// Cancel cancels every stored cancellable and marks the bag as cancelled.
func (b *Bag) Cancel() {
	b.mu.Lock()
	items := b.items
	b.items = nil
	b.cancelled = true
	b.mu.Unlock()

	for _, c := range items {
		c.Cancel()
	}
}
