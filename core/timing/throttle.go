package timing

import (
	"time"

	"github.com/dmitrymomot/streamkit/core/lock"
	"github.com/dmitrymomot/streamkit/core/scheduler"
	"github.com/dmitrymomot/streamkit/core/stream"
)

// Throttle emits at most one value per interval: the most recent value received during
// the interval when latest is true, the first one otherwise.
//
// The first value goes out on the next turn of sched; later values wait until interval has
// passed since the previous emission. The upstream is drained with unlimited demand and a
// value due while the downstream has no outstanding demand is dropped. Completion flushes
// the held value, then finishes.
func Throttle[T any](upstream stream.Publisher[T], interval time.Duration, sched scheduler.Scheduler, latest bool) stream.Publisher[T] {
	return stream.PublisherFunc[T](func(s stream.Subscriber[T]) {
		upstream.Subscribe(&throttleSubscription[T]{
			out:      outlet[T]{down: s},
			interval: interval,
			sched:    sched,
			latest:   latest,
		})
	})
}

type throttleSubscription[T any] struct {
	link
	out      outlet[T]
	interval time.Duration
	sched    scheduler.Scheduler
	latest   bool

	stateMu  lock.Mutex
	demand   stream.Demand
	held     T
	holding  bool
	armed    bool
	lastSent time.Time
	sent     bool
	gen      uint64
	timer    stream.Cancellable
}

func (x *throttleSubscription[T]) ReceiveSubscription(up stream.Subscription) {
	if !x.attach(up) {
		up.Cancel()
		return
	}
	x.out.subscribe(x)
	up.Request(stream.Unlimited)
}

func (x *throttleSubscription[T]) Receive(v T) stream.Demand {
	if _, ok := x.current(); !ok {
		return stream.None
	}

	x.stateMu.Lock()
	if x.latest || !x.holding {
		x.held, x.holding = v, true
	}
	if x.armed {
		x.stateMu.Unlock()
		return stream.None
	}
	x.armed = true
	x.gen++
	id := x.gen
	var wait time.Duration
	if x.sent {
		wait = max(x.interval-x.sched.Now().Sub(x.lastSent), 0)
	}
	x.stateMu.Unlock()

	t := x.sched.ScheduleAfter(wait, func() { x.fire(id) })

	x.stateMu.Lock()
	if x.gen == id && x.armed {
		x.timer = t
	}
	x.stateMu.Unlock()
	return stream.None
}

func (x *throttleSubscription[T]) fire(id uint64) {
	if _, ok := x.current(); !ok {
		return
	}

	x.stateMu.Lock()
	if x.gen != id {
		x.stateMu.Unlock()
		return
	}
	x.gen++
	x.armed = false
	x.timer = nil
	v, ok := x.take()
	x.stateMu.Unlock()

	if ok {
		x.emit(v)
	}
}

// take hands out the held value if the downstream can accept it. stateMu must be held.
func (x *throttleSubscription[T]) take() (T, bool) {
	var zero T
	v, ok := x.held, x.holding
	x.held, x.holding = zero, false
	if !ok || x.demand == stream.None {
		return zero, false
	}
	x.demand = x.demand.Dec()
	x.lastSent, x.sent = x.sched.Now(), true
	return v, true
}

func (x *throttleSubscription[T]) emit(v T) {
	if more := x.out.send(v); more > stream.None {
		x.Request(more)
	}
}

func (x *throttleSubscription[T]) ReceiveCompletion(c stream.Completion) {
	if _, ok := x.detach(); !ok {
		return
	}
	x.stopTimer()
	x.sched.Schedule(func() {
		x.stateMu.Lock()
		v, ok := x.take()
		x.stateMu.Unlock()

		if ok {
			x.emit(v)
		}
		x.out.finish(c)
	})
}

func (x *throttleSubscription[T]) Request(d stream.Demand) {
	if d <= stream.None {
		return
	}
	x.stateMu.Lock()
	x.demand = x.demand.Add(d)
	x.stateMu.Unlock()
}

func (x *throttleSubscription[T]) Cancel() {
	up, ok := x.detach()
	x.out.close()
	x.stopTimer()
	if ok {
		up.Cancel()
	}
}

func (x *throttleSubscription[T]) stopTimer() {
	x.stateMu.Lock()
	x.gen++
	x.armed = false
	t := x.timer
	x.timer = nil
	x.stateMu.Unlock()

	if t != nil {
		t.Cancel()
	}
}
