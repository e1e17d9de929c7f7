package timing

import (
	"time"

	"github.com/dmitrymomot/streamkit/core/lock"
	"github.com/dmitrymomot/streamkit/core/scheduler"
	"github.com/dmitrymomot/streamkit/core/stream"
)

// Timeout terminates the stream when upstream produces nothing for interval, measured
// from the subscription and restarted by every value.
//
// On timeout the upstream is cancelled and the downstream receives Finished, or a
// failure built by customErr when it is not nil. Values and the completion are delivered
// through sched.
func Timeout[T any](upstream stream.Publisher[T], interval time.Duration, sched scheduler.Scheduler, customErr func() error) stream.Publisher[T] {
	return stream.PublisherFunc[T](func(s stream.Subscriber[T]) {
		upstream.Subscribe(&timeoutSubscription[T]{
			out:       outlet[T]{down: s},
			interval:  interval,
			sched:     sched,
			customErr: customErr,
		})
	})
}

type timeoutSubscription[T any] struct {
	link
	out       outlet[T]
	interval  time.Duration
	sched     scheduler.Scheduler
	customErr func() error

	stateMu lock.Mutex
	gen     uint64
	timer   stream.Cancellable
}

func (x *timeoutSubscription[T]) ReceiveSubscription(up stream.Subscription) {
	if !x.attach(up) {
		up.Cancel()
		return
	}
	x.arm()
	x.out.subscribe(x)
}

func (x *timeoutSubscription[T]) Receive(v T) stream.Demand {
	if _, ok := x.current(); !ok {
		return stream.None
	}
	x.arm()
	x.sched.Schedule(func() {
		x.request(x.out.send(v))
	})
	return stream.None
}

func (x *timeoutSubscription[T]) ReceiveCompletion(c stream.Completion) {
	if _, ok := x.detach(); !ok {
		return
	}
	x.disarm()
	x.sched.Schedule(func() {
		x.out.finish(c)
	})
}

func (x *timeoutSubscription[T]) Request(d stream.Demand) {
	x.request(d)
}

func (x *timeoutSubscription[T]) Cancel() {
	up, ok := x.detach()
	x.out.close()
	x.disarm()
	if ok {
		up.Cancel()
	}
}

// arm restarts the timeout clock.
func (x *timeoutSubscription[T]) arm() {
	x.stateMu.Lock()
	x.gen++
	id := x.gen
	prev := x.timer
	x.timer = nil
	x.stateMu.Unlock()

	if prev != nil {
		prev.Cancel()
	}

	t := x.sched.ScheduleAfter(x.interval, func() { x.expire(id) })

	x.stateMu.Lock()
	if x.gen == id {
		x.timer = t
	}
	x.stateMu.Unlock()
}

func (x *timeoutSubscription[T]) disarm() {
	x.stateMu.Lock()
	x.gen++
	t := x.timer
	x.timer = nil
	x.stateMu.Unlock()

	if t != nil {
		t.Cancel()
	}
}

func (x *timeoutSubscription[T]) expire(id uint64) {
	x.stateMu.Lock()
	stale := x.gen != id
	x.stateMu.Unlock()
	if stale {
		return
	}

	up, ok := x.detach()
	if !ok {
		return
	}
	up.Cancel()

	c := stream.Finished
	if x.customErr != nil {
		c = stream.Failure(x.customErr())
	}
	x.sched.Schedule(func() {
		x.out.finish(c)
	})
}
