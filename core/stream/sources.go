package stream

// Just emits v once and finishes.
func Just[T any](v T) Publisher[T] {
	return FromSlice(v)
}

// Empty finishes every subscriber immediately without emitting values.
func Empty[T any]() Publisher[T] {
	return PublisherFunc[T](func(s Subscriber[T]) {
		s.ReceiveSubscription(EmptySubscription())
		s.ReceiveCompletion(Finished)
	})
}

// Failed fails every subscriber immediately with err.
func Failed[T any](err error) Publisher[T] {
	return PublisherFunc[T](func(s Subscriber[T]) {
		s.ReceiveSubscription(EmptySubscription())
		s.ReceiveCompletion(Failure(err))
	})
}

// Deferred calls factory for every subscriber and subscribes it to the result.
func Deferred[T any](factory func() Publisher[T]) Publisher[T] {
	return PublisherFunc[T](func(s Subscriber[T]) {
		factory().Subscribe(s)
	})
}
