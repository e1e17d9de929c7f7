package timing

import (
	"github.com/dmitrymomot/streamkit/core/scheduler"
	"github.com/dmitrymomot/streamkit/core/stream"
)

// ReceiveOn delivers the values and the completion of upstream through sched.Schedule.
// Subscription and demand stay on the caller's goroutine.
func ReceiveOn[T any](upstream stream.Publisher[T], sched scheduler.Scheduler) stream.Publisher[T] {
	return stream.PublisherFunc[T](func(s stream.Subscriber[T]) {
		upstream.Subscribe(&receiveOnSubscription[T]{out: outlet[T]{down: s}, sched: sched})
	})
}

type receiveOnSubscription[T any] struct {
	link
	out   outlet[T]
	sched scheduler.Scheduler
}

func (x *receiveOnSubscription[T]) ReceiveSubscription(up stream.Subscription) {
	if !x.attach(up) {
		up.Cancel()
		return
	}
	x.out.subscribe(x)
}

func (x *receiveOnSubscription[T]) Receive(v T) stream.Demand {
	if _, ok := x.current(); !ok {
		return stream.None
	}
	x.sched.Schedule(func() {
		x.request(x.out.send(v))
	})
	return stream.None
}

func (x *receiveOnSubscription[T]) ReceiveCompletion(c stream.Completion) {
	if _, ok := x.detach(); !ok {
		return
	}
	x.sched.Schedule(func() {
		x.out.finish(c)
	})
}

func (x *receiveOnSubscription[T]) Request(d stream.Demand) {
	x.request(d)
}

func (x *receiveOnSubscription[T]) Cancel() {
	up, ok := x.detach()
	x.out.close()
	if ok {
		up.Cancel()
	}
}
