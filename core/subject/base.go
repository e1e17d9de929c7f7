package subject

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/dmitrymomot/streamkit/core/lock"
	"github.com/dmitrymomot/streamkit/core/logger"
	"github.com/dmitrymomot/streamkit/core/stream"
)

// base is the shared broadcast machinery of all subjects.
//
// Downstream subscriptions live in a slab indexed by slot. A cancelled conduit frees its slot
// for reuse, and delivery always iterates a snapshot taken under mu, so removals during
// delivery never invalidate the iteration.
type base[T any] struct {
	mu         sync.Mutex
	slots      []*conduit[T]
	free       []int
	live       int
	upstreams  []stream.Subscription
	completed  bool
	completion stream.Completion

	retain bool
	value  T

	log       *slog.Logger
	component string
}

func newBase[T any](component string, retain bool, initial T, opts []Option) *base[T] {
	o := newOptions(opts)
	return &base[T]{
		retain:    retain,
		value:     initial,
		log:       o.logger,
		component: component,
	}
}

func (b *base[T]) subscribe(s stream.Subscriber[T]) {
	b.mu.Lock()
	if b.completed {
		c := b.completion
		b.mu.Unlock()

		s.ReceiveSubscription(stream.EmptySubscription())
		s.ReceiveCompletion(c)
		return
	}

	c := &conduit[T]{owner: b, id: uuid.New(), downstream: s, pending: b.retain}
	if n := len(b.free); n > 0 {
		c.index = b.free[n-1]
		b.free = b.free[:n-1]
		b.slots[c.index] = c
	} else {
		c.index = len(b.slots)
		b.slots = append(b.slots, c)
	}
	b.live++
	live := b.live
	b.mu.Unlock()

	b.log.Debug("subscriber attached",
		logger.Component(b.component),
		logger.SubscriptionID(c.id),
		logger.Subscribers(live),
	)

	c.downstreamMu.Lock()
	s.ReceiveSubscription(c)
	c.downstreamMu.Unlock()
}

func (b *base[T]) remove(c *conduit[T]) {
	b.mu.Lock()
	if c.index >= len(b.slots) || b.slots[c.index] != c {
		b.mu.Unlock()
		return
	}
	b.slots[c.index] = nil
	b.free = append(b.free, c.index)
	b.live--
	live := b.live
	b.mu.Unlock()

	b.log.Debug("subscriber detached",
		logger.Component(b.component),
		logger.SubscriptionID(c.id),
		logger.Subscribers(live),
	)
}

// snapshot returns the live conduits. mu must be held.
func (b *base[T]) snapshot() []*conduit[T] {
	out := make([]*conduit[T], 0, b.live)
	for _, c := range b.slots {
		if c != nil {
			out = append(out, c)
		}
	}
	return out
}

func (b *base[T]) send(v T) {
	b.mu.Lock()
	if b.completed {
		b.mu.Unlock()
		return
	}
	if b.retain {
		b.value = v
	}
	conduits := b.snapshot()
	b.mu.Unlock()

	for _, c := range conduits {
		c.offer(v)
	}
}

func (b *base[T]) sendCompletion(comp stream.Completion) {
	b.mu.Lock()
	if b.completed {
		b.mu.Unlock()
		return
	}
	b.completed = true
	b.completion = comp
	conduits := b.snapshot()
	b.slots, b.free, b.live = nil, nil, 0
	ups := b.upstreams
	b.upstreams = nil
	b.mu.Unlock()

	b.log.Debug("subject completed",
		logger.Component(b.component),
		logger.Completion(comp),
		logger.Error(comp.Err()),
		logger.Subscribers(len(conduits)),
	)

	for _, c := range conduits {
		c.complete(comp)
	}
	for _, up := range ups {
		up.Cancel()
	}
}

func (b *base[T]) sendSubscription(s stream.Subscription) {
	b.mu.Lock()
	if b.completed {
		b.mu.Unlock()
		s.Cancel()
		return
	}
	b.upstreams = append(b.upstreams, s)
	b.mu.Unlock()

	s.Request(stream.Unlimited)
}

func (b *base[T]) current() T {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.value
}

func (b *base[T]) subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.live
}

// conduit is the subscription a subject hands to one downstream.
//
// For subjects that retain a value, pending records that an update was skipped for lack of
// demand (or that the subscriber has not seen any value yet); the next Request then delivers
// the value current at that moment.
//
// closed is guarded by downstreamMu. It is set before the completion is delivered, so a
// value that lost the race for downstreamMu is dropped instead of following the completion.
type conduit[T any] struct {
	owner *base[T]
	index int
	id    uuid.UUID

	mu           sync.Mutex
	downstreamMu lock.RecursiveMutex
	closed       bool
	downstream   stream.Subscriber[T]
	demand       stream.Demand
	pending      bool
	terminated   bool
}

func (c *conduit[T]) offer(v T) {
	c.mu.Lock()
	if c.terminated {
		c.mu.Unlock()
		return
	}
	if c.demand == stream.None {
		if c.owner.retain {
			c.pending = true
		}
		c.mu.Unlock()
		return
	}
	c.demand = c.demand.Dec()
	c.pending = false
	ds := c.downstream
	c.mu.Unlock()

	c.deliver(ds, func() T { return v })
}

func (c *conduit[T]) deliver(ds stream.Subscriber[T], value func() T) {
	c.downstreamMu.Lock()
	if c.closed {
		c.downstreamMu.Unlock()
		return
	}
	more := ds.Receive(value())
	c.downstreamMu.Unlock()

	if more > stream.None {
		c.mu.Lock()
		if !c.terminated {
			c.demand = c.demand.Add(more)
		}
		c.mu.Unlock()
	}
}

func (c *conduit[T]) Request(d stream.Demand) {
	if d <= stream.None {
		return
	}
	c.mu.Lock()
	if c.terminated {
		c.mu.Unlock()
		return
	}
	c.demand = c.demand.Add(d)
	replay := c.pending
	if replay {
		c.pending = false
		c.demand = c.demand.Dec()
	}
	ds := c.downstream
	c.mu.Unlock()

	if replay {
		c.deliver(ds, c.owner.current)
	}
}

func (c *conduit[T]) Cancel() {
	c.mu.Lock()
	if c.terminated {
		c.mu.Unlock()
		return
	}
	c.terminated = true
	c.downstream = nil
	c.mu.Unlock()

	c.owner.remove(c)
}

func (c *conduit[T]) complete(comp stream.Completion) {
	c.mu.Lock()
	if c.terminated {
		c.mu.Unlock()
		return
	}
	c.terminated = true
	ds := c.downstream
	c.downstream = nil
	c.mu.Unlock()

	c.downstreamMu.Lock()
	c.closed = true
	ds.ReceiveCompletion(comp)
	c.downstreamMu.Unlock()
}
