package stream

import "sync"

// Sink is a terminal subscriber that hands values and the completion to callbacks.
//
// By default it requests Unlimited on subscription. Cancel is best effort: a value whose
// delivery already started on another goroutine may still reach onValue while Cancel
// returns, but nothing delivered after Cancel returns reaches a callback. The completion
// callback runs at most once.
type Sink[T any] struct {
	mu           sync.Mutex
	status       status
	onValue      func(T)
	onCompletion func(Completion)
	initial      Demand
	perValue     Demand
}

// SinkOption configures a Sink.
type SinkOption func(*sinkOptions)

type sinkOptions struct {
	initial  Demand
	perValue Demand
}

// WithSinkDemand sets the demand requested on subscription and the demand added after
// every received value.
func WithSinkDemand(initial, perValue Demand) SinkOption {
	return func(o *sinkOptions) {
		o.initial = initial
		o.perValue = perValue
	}
}

// NewSink creates a sink. Either callback may be nil.
func NewSink[T any](onValue func(T), onCompletion func(Completion), opts ...SinkOption) *Sink[T] {
	o := sinkOptions{initial: Unlimited}
	for _, opt := range opts {
		opt(&o)
	}
	return &Sink[T]{
		onValue:      onValue,
		onCompletion: onCompletion,
		initial:      o.initial,
		perValue:     o.perValue,
	}
}

// SinkFunc subscribes a new sink to p and returns the cancellable that tears it down.
func SinkFunc[T any](p Publisher[T], onValue func(T), onCompletion func(Completion), opts ...SinkOption) *AnyCancellable {
	s := NewSink(onValue, onCompletion, opts...)
	p.Subscribe(s)
	return NewAnyCancellable(s.Cancel)
}

func (s *Sink[T]) ReceiveSubscription(sub Subscription) {
	s.mu.Lock()
	if !s.status.subscribe(sub) {
		s.mu.Unlock()
		sub.Cancel()
		return
	}
	s.mu.Unlock()

	if s.initial > None {
		sub.Request(s.initial)
	}
}

func (s *Sink[T]) Receive(v T) Demand {
	s.mu.Lock()
	active := s.status.isSubscribed()
	s.mu.Unlock()
	if !active {
		return None
	}

	if s.onValue != nil {
		s.onValue(v)
	}
	return s.perValue
}

func (s *Sink[T]) ReceiveCompletion(c Completion) {
	s.mu.Lock()
	if !s.status.isSubscribed() {
		s.mu.Unlock()
		return
	}
	s.status.terminate()
	s.mu.Unlock()

	if s.onCompletion != nil {
		s.onCompletion(c)
	}
}

// Request asks the upstream for more values.
func (s *Sink[T]) Request(d Demand) {
	s.mu.Lock()
	if !s.status.isSubscribed() {
		s.mu.Unlock()
		return
	}
	up := s.status.upstream
	s.mu.Unlock()

	up.Request(d)
}

// Cancel cancels the upstream subscription. A sink cancelled before subscribing cancels
// the subscription it later receives.
func (s *Sink[T]) Cancel() {
	s.mu.Lock()
	up := s.status.terminate()
	s.mu.Unlock()

	if up != nil {
		up.Cancel()
	}
}
