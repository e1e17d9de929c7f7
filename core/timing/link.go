package timing

import (
	"sync/atomic"

	"github.com/dmitrymomot/streamkit/core/lock"
	"github.com/dmitrymomot/streamkit/core/stream"
)

type state uint8

const (
	awaiting state = iota
	subscribed
	terminated
)

// link holds the upstream subscription of an operator through
// awaiting → subscribed → terminated.
type link struct {
	mu    lock.Mutex
	state state
	up    stream.Subscription
}

func (l *link) attach(up stream.Subscription) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state != awaiting {
		return false
	}
	l.state, l.up = subscribed, up
	return true
}

func (l *link) current() (stream.Subscription, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.up, l.state == subscribed
}

// detach terminates the link and returns the upstream it held, if any.
func (l *link) detach() (stream.Subscription, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	up, ok := l.up, l.state == subscribed
	l.state, l.up = terminated, nil
	return up, ok
}

func (l *link) request(d stream.Demand) {
	if d <= stream.None {
		return
	}
	if up, ok := l.current(); ok {
		up.Request(d)
	}
}

// outlet serializes calls into the downstream and drops everything after the terminal
// signal. Scheduled actions may fire on any goroutine, so every downstream call goes
// through the recursive mutex.
type outlet[T any] struct {
	mu     lock.RecursiveMutex
	down   stream.Subscriber[T]
	closed atomic.Bool
}

func (o *outlet[T]) subscribe(s stream.Subscription) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.down.ReceiveSubscription(s)
}

func (o *outlet[T]) send(v T) stream.Demand {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed.Load() {
		return stream.None
	}
	return o.down.Receive(v)
}

func (o *outlet[T]) finish(c stream.Completion) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed.Swap(true) {
		return
	}
	o.down.ReceiveCompletion(c)
}

func (o *outlet[T]) close() {
	o.closed.Store(true)
}
