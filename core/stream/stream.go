package stream

// Cancellable is anything whose activity can be stopped with a single call.
type Cancellable interface {
	Cancel()
}

// Subscription mediates demand and value flow between one publisher and one subscriber.
//
// Request calls are additive: each call adds to the outstanding demand and never replaces
// it. Request and Cancel may be called from any goroutine at any time, including from
// within a Receive call the subscription itself triggered. Calls after the subscription
// has terminated are ignored.
type Subscription interface {
	Cancellable

	// Request asks the publisher for up to d more values.
	Request(d Demand)
}

// Subscriber consumes values from a publisher.
//
// A subscriber observes a strictly serial sequence of calls: exactly one
// ReceiveSubscription, then any number of Receive calls bounded by the demand it
// requested, then at most one ReceiveCompletion.
type Subscriber[T any] interface {
	// ReceiveSubscription hands the subscriber the subscription through which it requests values.
	ReceiveSubscription(s Subscription)

	// Receive delivers one value and returns the additional demand the subscriber is now willing to accept.
	Receive(v T) Demand

	// ReceiveCompletion delivers the terminal signal of the stream.
	ReceiveCompletion(c Completion)
}

// Publisher describes a source of values. Subscribe constructs a fresh subscription per
// call, hands it to the subscriber and starts producing only after demand is requested.
type Publisher[T any] interface {
	Subscribe(s Subscriber[T])
}

// PublisherFunc adapts a function to the Publisher interface.
type PublisherFunc[T any] func(Subscriber[T])

// Subscribe calls f(s).
func (f PublisherFunc[T]) Subscribe(s Subscriber[T]) {
	f(s)
}
