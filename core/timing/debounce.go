package timing

import (
	"time"

	"github.com/dmitrymomot/streamkit/core/lock"
	"github.com/dmitrymomot/streamkit/core/scheduler"
	"github.com/dmitrymomot/streamkit/core/stream"
)

// Debounce emits a value only after upstream has been quiet for due.
//
// The upstream is drained with unlimited demand. A value whose quiet period ends while
// the downstream has no outstanding demand is dropped. Completion cancels the pending
// value and is delivered through sched.
func Debounce[T any](upstream stream.Publisher[T], due time.Duration, sched scheduler.Scheduler) stream.Publisher[T] {
	return stream.PublisherFunc[T](func(s stream.Subscriber[T]) {
		upstream.Subscribe(&debounceSubscription[T]{out: outlet[T]{down: s}, due: due, sched: sched})
	})
}

type debounceSubscription[T any] struct {
	link
	out   outlet[T]
	due   time.Duration
	sched scheduler.Scheduler

	stateMu lock.Mutex
	demand  stream.Demand
	gen     uint64
	latest  T
	timer   stream.Cancellable
}

func (x *debounceSubscription[T]) ReceiveSubscription(up stream.Subscription) {
	if !x.attach(up) {
		up.Cancel()
		return
	}
	x.out.subscribe(x)
	up.Request(stream.Unlimited)
}

func (x *debounceSubscription[T]) Receive(v T) stream.Demand {
	if _, ok := x.current(); !ok {
		return stream.None
	}

	x.stateMu.Lock()
	x.gen++
	id := x.gen
	x.latest = v
	prev := x.timer
	x.timer = nil
	x.stateMu.Unlock()

	if prev != nil {
		prev.Cancel()
	}

	t := x.sched.ScheduleAfter(x.due, func() { x.fire(id) })

	x.stateMu.Lock()
	if x.gen == id {
		x.timer = t
	}
	x.stateMu.Unlock()
	return stream.None
}

func (x *debounceSubscription[T]) fire(id uint64) {
	if _, ok := x.current(); !ok {
		return
	}

	x.stateMu.Lock()
	if x.gen != id {
		x.stateMu.Unlock()
		return
	}
	x.gen++
	v := x.latest
	var zero T
	x.latest = zero
	x.timer = nil
	if x.demand == stream.None {
		x.stateMu.Unlock()
		return
	}
	x.demand = x.demand.Dec()
	x.stateMu.Unlock()

	if more := x.out.send(v); more > stream.None {
		x.Request(more)
	}
}

func (x *debounceSubscription[T]) ReceiveCompletion(c stream.Completion) {
	if _, ok := x.detach(); !ok {
		return
	}
	x.stopTimer()
	x.sched.Schedule(func() {
		x.out.finish(c)
	})
}

func (x *debounceSubscription[T]) Request(d stream.Demand) {
	if d <= stream.None {
		return
	}
	x.stateMu.Lock()
	x.demand = x.demand.Add(d)
	x.stateMu.Unlock()
}

func (x *debounceSubscription[T]) Cancel() {
	up, ok := x.detach()
	x.out.close()
	x.stopTimer()
	if ok {
		up.Cancel()
	}
}

func (x *debounceSubscription[T]) stopTimer() {
	x.stateMu.Lock()
	x.gen++
	t := x.timer
	x.timer = nil
	x.stateMu.Unlock()

	if t != nil {
		t.Cancel()
	}
}
