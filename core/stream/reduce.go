package stream

import "sync"

// ReduceFunc folds one upstream value into the accumulator. ok reports whether acc holds a
// value yet.
//
// The returned step drives the fold: Emit replaces the accumulator, Skip keeps it, Finish
// resolves the result early with the current accumulator, FinishWith resolves it early with
// the given value and Fail ends the stream with an error.
type ReduceFunc[In, Out any] func(acc Out, ok bool, v In) Step[Out]

// Fold builds a publisher that consumes the whole upstream and emits at most one value.
// The accumulator starts empty; when the upstream finishes without the fold ever storing a
// value, the result is a completion with no value.
func Fold[In, Out any](upstream Publisher[In], fn ReduceFunc[In, Out]) Publisher[Out] {
	return &reducer[In, Out]{upstream: upstream, fn: fn}
}

// FoldFrom is Fold with the accumulator seeded by initial.
func FoldFrom[In, Out any](upstream Publisher[In], initial Out, fn ReduceFunc[In, Out]) Publisher[Out] {
	return &reducer[In, Out]{upstream: upstream, fn: fn, initial: initial, seeded: true}
}

type reducer[In, Out any] struct {
	upstream Publisher[In]
	fn       ReduceFunc[In, Out]
	initial  Out
	seeded   bool
}

func (r *reducer[In, Out]) Subscribe(s Subscriber[Out]) {
	r.upstream.Subscribe(&reduceSubscription[In, Out]{
		downstream: s,
		fn:         r.fn,
		acc:        r.initial,
		ok:         r.seeded,
	})
}

// reduceSubscription requests everything from the upstream and holds the result until the
// downstream asks for it. Once resolved the upstream is released and status.upstream is nil.
type reduceSubscription[In, Out any] struct {
	mu         sync.Mutex
	status     status
	downstream Subscriber[Out]
	fn         ReduceFunc[In, Out]
	acc        Out
	ok         bool
	demand     Demand
	resolved   bool
}

func (r *reduceSubscription[In, Out]) ReceiveSubscription(up Subscription) {
	r.mu.Lock()
	if !r.status.subscribe(up) {
		r.mu.Unlock()
		up.Cancel()
		return
	}
	ds := r.downstream
	r.mu.Unlock()

	ds.ReceiveSubscription(r)
	up.Request(Unlimited)
}

func (r *reduceSubscription[In, Out]) Receive(v In) Demand {
	r.mu.Lock()
	if !r.status.isSubscribed() || r.resolved {
		r.mu.Unlock()
		return None
	}
	acc, ok := r.acc, r.ok
	r.mu.Unlock()

	st := r.fn(acc, ok, v)
	switch st.kind {
	case stepEmit:
		r.mu.Lock()
		r.acc, r.ok = st.value, true
		r.mu.Unlock()
		return None
	case stepSkip:
		return None
	case stepFail:
		r.fail(st.err)
		return None
	}

	r.mu.Lock()
	if !r.status.isSubscribed() || r.resolved {
		r.mu.Unlock()
		return None
	}
	if st.kind == stepFinishWith {
		r.acc, r.ok = st.value, true
	}
	r.resolved = true
	up := r.status.upstream
	r.status.upstream = nil
	r.mu.Unlock()

	up.Cancel()

	r.mu.Lock()
	r.deliverLocked()
	return None
}

func (r *reduceSubscription[In, Out]) ReceiveCompletion(c Completion) {
	r.mu.Lock()
	if !r.status.isSubscribed() || r.resolved {
		r.mu.Unlock()
		return
	}
	if !c.IsFinished() {
		r.mu.Unlock()
		r.fail(c.Err())
		return
	}
	r.resolved = true
	r.status.upstream = nil
	r.deliverLocked()
}

func (r *reduceSubscription[In, Out]) Request(d Demand) {
	if d <= None {
		return
	}
	r.mu.Lock()
	if !r.status.isSubscribed() {
		r.mu.Unlock()
		return
	}
	r.demand = r.demand.Add(d)
	r.deliverLocked()
}

func (r *reduceSubscription[In, Out]) Cancel() {
	r.mu.Lock()
	up := r.status.terminate()
	r.downstream = nil
	r.mu.Unlock()

	if up != nil {
		up.Cancel()
	}
}

// deliverLocked must be called with mu held and releases it. The result goes out once it is
// resolved and the downstream has demand; an empty result needs no demand.
func (r *reduceSubscription[In, Out]) deliverLocked() {
	if !r.status.isSubscribed() || !r.resolved || (r.ok && r.demand == None) {
		r.mu.Unlock()
		return
	}
	r.status.terminate()
	ds := r.downstream
	r.downstream = nil
	acc, ok := r.acc, r.ok
	r.mu.Unlock()

	if ok {
		ds.Receive(acc)
	}
	ds.ReceiveCompletion(Finished)
}

func (r *reduceSubscription[In, Out]) fail(err error) {
	r.mu.Lock()
	if !r.status.isSubscribed() {
		r.mu.Unlock()
		return
	}
	up := r.status.terminate()
	ds := r.downstream
	r.downstream = nil
	r.mu.Unlock()

	if up != nil {
		up.Cancel()
	}
	ds.ReceiveCompletion(Failure(err))
}
