package stream

import "sync"

// Catch replaces a failed upstream with the publisher returned by handler. Outstanding
// demand carries over to the replacement. A failure of the replacement passes through.
func Catch[T any](upstream Publisher[T], handler func(error) Publisher[T]) Publisher[T] {
	return &recoverer[T]{upstream: upstream, next: func(attempt int, err error) (Publisher[T], error) {
		if attempt > 1 {
			return nil, nil
		}
		return handler(err), nil
	}}
}

// TryCatch is Catch with a handler that may fail. The handler's error replaces the
// upstream failure.
func TryCatch[T any](upstream Publisher[T], handler func(error) (Publisher[T], error)) Publisher[T] {
	return &recoverer[T]{upstream: upstream, next: func(attempt int, err error) (Publisher[T], error) {
		if attempt > 1 {
			return nil, nil
		}
		return handler(err)
	}}
}

// ReplaceError turns a failure into v followed by a normal finish. v waits for demand like
// any other value.
func ReplaceError[T any](upstream Publisher[T], v T) Publisher[T] {
	return Catch(upstream, func(error) Publisher[T] { return Just(v) })
}

// Retry resubscribes to upstream after a failure, at most n times. A negative n retries
// without limit. Values delivered before a failure are not replayed.
func Retry[T any](upstream Publisher[T], n int) Publisher[T] {
	return &recoverer[T]{upstream: upstream, next: func(attempt int, _ error) (Publisher[T], error) {
		if n >= 0 && attempt > n {
			return nil, nil
		}
		return upstream, nil
	}}
}

// recoverer chains upstream subscriptions behind one downstream subscription. next is asked
// for a replacement after every failure; attempt counts failures so far. A nil publisher
// ends the chain with the returned error, or with the upstream failure when that is nil.
type recoverer[T any] struct {
	upstream Publisher[T]
	next     func(attempt int, err error) (Publisher[T], error)
}

func (r *recoverer[T]) Subscribe(s Subscriber[T]) {
	rs := &recoverSubscription[T]{downstream: s, next: r.next}
	s.ReceiveSubscription(rs)
	r.upstream.Subscribe(&recoverLink[T]{parent: rs})
}

// recoverSubscription is the subscription handed to the downstream. gen identifies the
// current upstream; signals from an upstream that was replaced or cancelled are dropped.
// demand is what the downstream asked for and has not received yet, so a replacement
// upstream is asked for exactly that.
type recoverSubscription[T any] struct {
	mu         sync.Mutex
	downstream Subscriber[T]
	next       func(attempt int, err error) (Publisher[T], error)
	current    Subscription
	gen        int
	attempt    int
	demand     Demand
	terminated bool
}

func (r *recoverSubscription[T]) Request(d Demand) {
	if d <= None {
		return
	}
	r.mu.Lock()
	if r.terminated {
		r.mu.Unlock()
		return
	}
	r.demand = r.demand.Add(d)
	up := r.current
	r.mu.Unlock()

	if up != nil {
		up.Request(d)
	}
}

func (r *recoverSubscription[T]) Cancel() {
	r.mu.Lock()
	if r.terminated {
		r.mu.Unlock()
		return
	}
	r.terminated = true
	up := r.current
	r.current = nil
	r.downstream = nil
	r.mu.Unlock()

	if up != nil {
		up.Cancel()
	}
}

// finish terminates the chain. mu must be held; it is released before calling out.
func (r *recoverSubscription[T]) finish(c Completion) {
	r.terminated = true
	r.current = nil
	ds := r.downstream
	r.downstream = nil
	r.mu.Unlock()

	ds.ReceiveCompletion(c)
}

type recoverLink[T any] struct {
	parent *recoverSubscription[T]
	gen    int
}

func (l *recoverLink[T]) live() bool {
	return !l.parent.terminated && l.parent.gen == l.gen
}

func (l *recoverLink[T]) ReceiveSubscription(up Subscription) {
	r := l.parent
	r.mu.Lock()
	if !l.live() || r.current != nil {
		r.mu.Unlock()
		up.Cancel()
		return
	}
	r.current = up
	d := r.demand
	r.mu.Unlock()

	if d > None {
		up.Request(d)
	}
}

func (l *recoverLink[T]) Receive(v T) Demand {
	r := l.parent
	r.mu.Lock()
	if !l.live() {
		r.mu.Unlock()
		return None
	}
	r.demand = r.demand.Dec()
	ds := r.downstream
	r.mu.Unlock()

	more := ds.Receive(v)
	if more > None {
		r.mu.Lock()
		if l.live() {
			r.demand = r.demand.Add(more)
		}
		r.mu.Unlock()
	}
	return more
}

func (l *recoverLink[T]) ReceiveCompletion(c Completion) {
	r := l.parent
	r.mu.Lock()
	if !l.live() {
		r.mu.Unlock()
		return
	}
	if c.IsFinished() {
		r.finish(c)
		return
	}
	r.attempt++
	attempt := r.attempt
	r.current = nil
	r.mu.Unlock()

	p, err := r.next(attempt, c.Err())

	r.mu.Lock()
	if !l.live() {
		r.mu.Unlock()
		return
	}
	if err != nil {
		r.finish(Failure(err))
		return
	}
	if p == nil {
		r.finish(c)
		return
	}
	r.gen++
	gen := r.gen
	r.mu.Unlock()

	p.Subscribe(&recoverLink[T]{parent: r, gen: gen})
}
