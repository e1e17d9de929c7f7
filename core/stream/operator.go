package stream

import "sync"

// StepFunc maps one upstream value to a Step.
type StepFunc[In, Out any] func(v In) Step[Out]

// Lift builds a publisher that feeds every upstream value through a StepFunc.
//
// newStep is called once per subscription, so stateful steps (counters, previous values)
// never leak between subscribers. Demand passes through to the upstream unchanged; every
// skipped value is replenished by requesting one more. A terminal step cancels the
// upstream and delivers exactly one completion downstream.
func Lift[In, Out any](upstream Publisher[In], newStep func() StepFunc[In, Out]) Publisher[Out] {
	return &operator[In, Out]{upstream: upstream, newStep: newStep}
}

// Relay forwards every value and the completion of upstream unchanged.
func Relay[T any](upstream Publisher[T]) Publisher[T] {
	return Lift(upstream, identityStep[T])
}

func identityStep[T any]() StepFunc[T, T] {
	return Emit[T]
}

type operator[In, Out any] struct {
	upstream      Publisher[In]
	newStep       func() StepFunc[In, Out]
	mapCompletion func(Completion) Completion
}

func (o *operator[In, Out]) Subscribe(s Subscriber[Out]) {
	o.upstream.Subscribe(&operatorSubscription[In, Out]{
		downstream:    s,
		step:          o.newStep(),
		mapCompletion: o.mapCompletion,
	})
}

// operatorSubscription is both the subscriber of the upstream and the subscription handed
// to the downstream. The mutex guards status and downstream only; it is never held while
// calling out.
type operatorSubscription[In, Out any] struct {
	mu            sync.Mutex
	status        status
	downstream    Subscriber[Out]
	step          StepFunc[In, Out]
	mapCompletion func(Completion) Completion
}

func (o *operatorSubscription[In, Out]) ReceiveSubscription(up Subscription) {
	o.mu.Lock()
	if !o.status.subscribe(up) {
		o.mu.Unlock()
		up.Cancel()
		return
	}
	ds := o.downstream
	o.mu.Unlock()

	ds.ReceiveSubscription(o)
}

func (o *operatorSubscription[In, Out]) Receive(v In) Demand {
	o.mu.Lock()
	if !o.status.isSubscribed() {
		o.mu.Unlock()
		return None
	}
	ds := o.downstream
	o.mu.Unlock()

	st := o.step(v)
	switch st.kind {
	case stepEmit:
		return ds.Receive(st.value)
	case stepSkip:
		return Max(1)
	}

	o.mu.Lock()
	if !o.status.isSubscribed() {
		o.mu.Unlock()
		return None
	}
	up := o.status.terminate()
	o.downstream = nil
	o.mu.Unlock()

	up.Cancel()
	if st.kind == stepFinishWith {
		ds.Receive(st.value)
	}
	ds.ReceiveCompletion(st.completion())
	return None
}

func (o *operatorSubscription[In, Out]) ReceiveCompletion(c Completion) {
	o.mu.Lock()
	if !o.status.isSubscribed() {
		o.mu.Unlock()
		return
	}
	o.status.terminate()
	ds := o.downstream
	o.downstream = nil
	o.mu.Unlock()

	if o.mapCompletion != nil {
		c = o.mapCompletion(c)
	}
	ds.ReceiveCompletion(c)
}

func (o *operatorSubscription[In, Out]) Request(d Demand) {
	if d <= None {
		return
	}
	o.mu.Lock()
	if !o.status.isSubscribed() {
		o.mu.Unlock()
		return
	}
	up := o.status.upstream
	o.mu.Unlock()

	up.Request(d)
}

func (o *operatorSubscription[In, Out]) Cancel() {
	o.mu.Lock()
	if !o.status.isSubscribed() {
		o.status.terminate()
		o.mu.Unlock()
		return
	}
	up := o.status.terminate()
	o.downstream = nil
	o.mu.Unlock()

	up.Cancel()
}
