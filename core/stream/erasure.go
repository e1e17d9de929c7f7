package stream

// AnySubscriber forwards the three subscriber capabilities through stored functions.
// It lets a component hold a downstream without parameterizing over its concrete type.
type AnySubscriber[T any] struct {
	receiveSubscription func(Subscription)
	receiveValue        func(T) Demand
	receiveCompletion   func(Completion)
}

// NewAnySubscriber builds a subscriber from functions. Nil functions are treated as no-ops;
// a nil value function accepts no additional demand.
func NewAnySubscriber[T any](
	onSubscription func(Subscription),
	onValue func(T) Demand,
	onCompletion func(Completion),
) AnySubscriber[T] {
	return AnySubscriber[T]{
		receiveSubscription: onSubscription,
		receiveValue:        onValue,
		receiveCompletion:   onCompletion,
	}
}

// EraseSubscriber wraps s. An AnySubscriber is returned unchanged.
func EraseSubscriber[T any](s Subscriber[T]) AnySubscriber[T] {
	if as, ok := s.(AnySubscriber[T]); ok {
		return as
	}
	return AnySubscriber[T]{
		receiveSubscription: s.ReceiveSubscription,
		receiveValue:        s.Receive,
		receiveCompletion:   s.ReceiveCompletion,
	}
}

func (s AnySubscriber[T]) ReceiveSubscription(sub Subscription) {
	if s.receiveSubscription != nil {
		s.receiveSubscription(sub)
	}
}

func (s AnySubscriber[T]) Receive(v T) Demand {
	if s.receiveValue == nil {
		return None
	}
	return s.receiveValue(v)
}

func (s AnySubscriber[T]) ReceiveCompletion(c Completion) {
	if s.receiveCompletion != nil {
		s.receiveCompletion(c)
	}
}

// AnyPublisher wraps a publisher behind a stored subscribe function.
// The zero value behaves like Empty: it completes every subscriber immediately.
type AnyPublisher[T any] struct {
	subscribe func(Subscriber[T])
}

// ErasePublisher wraps p. An AnyPublisher is returned unchanged.
func ErasePublisher[T any](p Publisher[T]) AnyPublisher[T] {
	if ap, ok := p.(AnyPublisher[T]); ok {
		return ap
	}
	return AnyPublisher[T]{subscribe: p.Subscribe}
}

func (p AnyPublisher[T]) Subscribe(s Subscriber[T]) {
	if p.subscribe == nil {
		s.ReceiveSubscription(EmptySubscription())
		s.ReceiveCompletion(Finished)
		return
	}
	p.subscribe(s)
}
