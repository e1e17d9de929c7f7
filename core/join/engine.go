package join

import (
	"github.com/dmitrymomot/streamkit/core/lock"
	"github.com/dmitrymomot/streamkit/core/stream"
)

// buffer decides when the joined upstreams can produce a tuple. All methods run with the
// engine's state mutex held.
type buffer interface {
	store(i int, v any)
	ready() bool
	take() []any
	exhausted(finished []bool) bool
}

// slots is the side of the engine that upstream adapters talk to.
type slots interface {
	receiveSubscription(i int, s stream.Subscription)
	receive(i int, v any)
	receiveCompletion(i int, c stream.Completion)
}

// input subscribes one upstream to slot i of the engine.
type input func(s slots, i int)

func from[T any](p stream.Publisher[T]) input {
	return func(s slots, i int) {
		p.Subscribe(side[T]{slots: s, index: i})
	}
}

type side[T any] struct {
	slots slots
	index int
}

func (s side[T]) ReceiveSubscription(sub stream.Subscription) {
	s.slots.receiveSubscription(s.index, sub)
}

func (s side[T]) Receive(v T) stream.Demand {
	s.slots.receive(s.index, v)
	return stream.None
}

func (s side[T]) ReceiveCompletion(c stream.Completion) {
	s.slots.receiveCompletion(s.index, c)
}

// as converts a slot value back to its static type; nil interface values become the zero value.
func as[T any](v any) T {
	t, _ := v.(T)
	return t
}

type publisher[Out any] struct {
	inputs    []input
	newBuffer func(n int) buffer
	combine   func([]any) Out
}

func (p *publisher[Out]) Subscribe(s stream.Subscriber[Out]) {
	n := len(p.inputs)
	e := &engine[Out]{
		downstream: s,
		buf:        p.newBuffer(n),
		combine:    p.combine,
		upstreams:  make([]stream.Subscription, n),
		finished:   make([]bool, n),
	}
	s.ReceiveSubscription(e)
	for i, in := range p.inputs {
		in(e, i)
	}
}

// engine joins n upstreams into one downstream.
//
// mu guards the engine state and is never held while calling out. downstreamMu serializes
// every call into the downstream; it is reentrant so a failure raised synchronously from
// inside a downstream Receive does not deadlock. active marks a delivery in progress: any
// other drain attempt returns immediately and the running loop picks up the new state.
// Only drain calls the downstream, so a failure raised while a value is being delivered is
// parked in failure and delivered once that Receive returns.
type engine[Out any] struct {
	mu           lock.Mutex
	downstreamMu lock.RecursiveMutex

	downstream stream.Subscriber[Out]
	buf        buffer
	combine    func([]any) Out

	upstreams  []stream.Subscription
	finished   []bool
	demand     stream.Demand
	requested  stream.Demand
	failure    error
	terminated bool
	active     bool
}

func (e *engine[Out]) receiveSubscription(i int, s stream.Subscription) {
	e.mu.Lock()
	if e.terminated || e.finished[i] || e.upstreams[i] != nil {
		e.mu.Unlock()
		s.Cancel()
		return
	}
	e.upstreams[i] = s
	requested := e.requested
	e.mu.Unlock()

	if requested > stream.None {
		s.Request(requested)
	}
}

func (e *engine[Out]) receive(i int, v any) {
	e.mu.Lock()
	if e.terminated || e.failure != nil || e.finished[i] {
		e.mu.Unlock()
		return
	}
	e.buf.store(i, v)
	e.mu.Unlock()

	e.drain()
}

func (e *engine[Out]) receiveCompletion(i int, c stream.Completion) {
	if !c.IsFinished() {
		e.fail(i, c.Err())
		return
	}

	e.mu.Lock()
	if e.terminated || e.failure != nil || e.finished[i] {
		e.mu.Unlock()
		return
	}
	e.finished[i] = true
	e.upstreams[i] = nil
	e.mu.Unlock()

	e.drain()
}

func (e *engine[Out]) Request(d stream.Demand) {
	if d <= stream.None {
		return
	}
	e.mu.Lock()
	if e.terminated || e.failure != nil {
		e.mu.Unlock()
		return
	}
	e.demand = e.demand.Add(d)
	e.requested = e.requested.Add(d)
	ups := e.live()
	e.mu.Unlock()

	for _, up := range ups {
		up.Request(d)
	}
	e.drain()
}

func (e *engine[Out]) Cancel() {
	e.mu.Lock()
	if e.terminated {
		e.mu.Unlock()
		return
	}
	e.terminated = true
	ups := e.live()
	clear(e.upstreams)
	e.downstream = nil
	e.mu.Unlock()

	for _, up := range ups {
		up.Cancel()
	}
}

// live returns the subscriptions of upstreams that have not finished. mu must be held.
func (e *engine[Out]) live() []stream.Subscription {
	ups := make([]stream.Subscription, 0, len(e.upstreams))
	for _, up := range e.upstreams {
		if up != nil {
			ups = append(ups, up)
		}
	}
	return ups
}

func (e *engine[Out]) drain() {
	for {
		e.mu.Lock()
		if e.terminated || e.active {
			e.mu.Unlock()
			return
		}

		if e.failure != nil {
			err := e.failure
			e.terminated = true
			ds := e.downstream
			e.downstream = nil
			e.mu.Unlock()

			e.downstreamMu.Lock()
			ds.ReceiveCompletion(stream.Failure(err))
			e.downstreamMu.Unlock()
			return
		}

		if e.demand > stream.None && e.buf.ready() {
			vals := e.buf.take()
			e.demand = e.demand.Dec()
			e.active = true
			ds := e.downstream
			e.mu.Unlock()

			e.downstreamMu.Lock()
			more := ds.Receive(e.combine(vals))
			e.downstreamMu.Unlock()

			e.mu.Lock()
			e.active = false
			var ups []stream.Subscription
			if more > stream.None && !e.terminated && e.failure == nil {
				e.demand = e.demand.Add(more)
				e.requested = e.requested.Add(more)
				ups = e.live()
			}
			e.mu.Unlock()

			for _, up := range ups {
				up.Request(more)
			}
			continue
		}

		if !e.buf.exhausted(e.finished) {
			e.mu.Unlock()
			return
		}

		e.terminated = true
		ups := e.live()
		clear(e.upstreams)
		ds := e.downstream
		e.downstream = nil
		e.mu.Unlock()

		for _, up := range ups {
			up.Cancel()
		}
		e.downstreamMu.Lock()
		ds.ReceiveCompletion(stream.Finished)
		e.downstreamMu.Unlock()
		return
	}
}

// fail terminates the join with err and cancels every other upstream. The failure is
// delivered by drain, after any Receive already in progress has returned.
func (e *engine[Out]) fail(i int, err error) {
	e.mu.Lock()
	if e.terminated || e.failure != nil {
		e.mu.Unlock()
		return
	}
	e.failure = err
	e.upstreams[i] = nil
	ups := e.live()
	clear(e.upstreams)
	e.mu.Unlock()

	for _, up := range ups {
		up.Cancel()
	}
	e.drain()
}
