package stream

import "sync"

// Events holds optional hooks observed by HandleEvents. Nil hooks are skipped.
type Events[T any] struct {
	Subscription func(Subscription)
	Output       func(T)
	Completion   func(Completion)
	Cancel       func()
	Request      func(Demand)
}

// HandleEvents runs the hooks in ev as the corresponding protocol events pass through,
// without altering values, demand or completion.
func HandleEvents[T any](upstream Publisher[T], ev Events[T]) Publisher[T] {
	return PublisherFunc[T](func(s Subscriber[T]) {
		Relay(upstream).Subscribe(&eventsSubscriber[T]{downstream: s, ev: ev})
	})
}

type eventsSubscriber[T any] struct {
	downstream Subscriber[T]
	ev         Events[T]
}

func (e *eventsSubscriber[T]) ReceiveSubscription(s Subscription) {
	if e.ev.Subscription != nil {
		e.ev.Subscription(s)
	}
	e.downstream.ReceiveSubscription(&eventsSubscription{upstream: s, onCancel: e.ev.Cancel, onRequest: e.ev.Request})
}

func (e *eventsSubscriber[T]) Receive(v T) Demand {
	if e.ev.Output != nil {
		e.ev.Output(v)
	}
	return e.downstream.Receive(v)
}

func (e *eventsSubscriber[T]) ReceiveCompletion(c Completion) {
	if e.ev.Completion != nil {
		e.ev.Completion(c)
	}
	e.downstream.ReceiveCompletion(c)
}

type eventsSubscription struct {
	upstream  Subscription
	onCancel  func()
	onRequest func(Demand)
	once      sync.Once
}

func (e *eventsSubscription) Request(d Demand) {
	if e.onRequest != nil {
		e.onRequest(d)
	}
	e.upstream.Request(d)
}

func (e *eventsSubscription) Cancel() {
	e.once.Do(func() {
		if e.onCancel != nil {
			e.onCancel()
		}
	})
	e.upstream.Cancel()
}
