package timing

import (
	"time"

	"github.com/dmitrymomot/streamkit/core/scheduler"
	"github.com/dmitrymomot/streamkit/core/stream"
)

// Delay shifts every value and the completion of upstream by d on sched.
//
// Demand passes through to the upstream. The demand a downstream returns from a delayed
// Receive is requested from the upstream when the value is delivered.
func Delay[T any](upstream stream.Publisher[T], d time.Duration, sched scheduler.Scheduler) stream.Publisher[T] {
	return stream.PublisherFunc[T](func(s stream.Subscriber[T]) {
		upstream.Subscribe(&delaySubscription[T]{out: outlet[T]{down: s}, delay: d, sched: sched})
	})
}

type delaySubscription[T any] struct {
	link
	out   outlet[T]
	delay time.Duration
	sched scheduler.Scheduler
}

func (x *delaySubscription[T]) ReceiveSubscription(up stream.Subscription) {
	if !x.attach(up) {
		up.Cancel()
		return
	}
	x.out.subscribe(x)
}

func (x *delaySubscription[T]) Receive(v T) stream.Demand {
	if _, ok := x.current(); !ok {
		return stream.None
	}
	x.sched.ScheduleAfter(x.delay, func() {
		x.request(x.out.send(v))
	})
	return stream.None
}

func (x *delaySubscription[T]) ReceiveCompletion(c stream.Completion) {
	if _, ok := x.detach(); !ok {
		return
	}
	x.sched.ScheduleAfter(x.delay, func() {
		x.out.finish(c)
	})
}

func (x *delaySubscription[T]) Request(d stream.Demand) {
	x.request(d)
}

func (x *delaySubscription[T]) Cancel() {
	up, ok := x.detach()
	x.out.close()
	if ok {
		up.Cancel()
	}
}
