package async

import (
	"sync"
	"time"

	"github.com/dmitrymomot/streamkit/core/stream"
)

// Future represents the eventual result of an asynchronous computation.
//
// A Future resolves exactly once. It is also a stream.Publisher: every subscriber
// receives the value followed by Finished, or a failure carrying the error, as soon as
// the future resolves and the subscriber has requested demand.
type Future[T any] struct {
	mu        sync.Mutex
	done      chan struct{}
	value     T
	err       error
	callbacks []func()
}

// NewFuture calls fn synchronously with a promise that resolves the future. The promise
// may be called later from any goroutine; calls after the first are ignored.
func NewFuture[T any](fn func(promise func(T, error))) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}
	fn(f.resolve)
	return f
}

func (f *Future[T]) resolve(v T, err error) {
	f.mu.Lock()
	select {
	case <-f.done:
		f.mu.Unlock()
		return
	default:
	}
	f.value, f.err = v, err
	callbacks := f.callbacks
	f.callbacks = nil
	close(f.done)
	f.mu.Unlock()

	for _, cb := range callbacks {
		cb()
	}
}

// onResolve runs fn once the future has resolved, immediately when it already has.
func (f *Future[T]) onResolve(fn func()) {
	f.mu.Lock()
	select {
	case <-f.done:
		f.mu.Unlock()
		fn()
		return
	default:
	}
	f.callbacks = append(f.callbacks, fn)
	f.mu.Unlock()
}

// Await blocks until the future resolves and returns its result.
func (f *Future[T]) Await() (T, error) {
	<-f.done
	return f.value, f.err
}

// AwaitWithTimeout waits for the future for at most timeout.
// If the timeout occurs before completion, returns ErrTimeout.
func (f *Future[T]) AwaitWithTimeout(timeout time.Duration) (T, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-f.done:
		return f.value, f.err
	case <-timer.C:
		var zero T
		return zero, ErrTimeout
	}
}

// IsComplete checks if the future has resolved without blocking.
func (f *Future[T]) IsComplete() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Done returns a channel closed when the future resolves.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

func (f *Future[T]) Subscribe(s stream.Subscriber[T]) {
	sub := &futureSubscription[T]{future: f, downstream: s}
	s.ReceiveSubscription(sub)
}

type futureSubscription[T any] struct {
	mu         sync.Mutex
	future     *Future[T]
	downstream stream.Subscriber[T]
	requested  bool
}

func (s *futureSubscription[T]) Request(d stream.Demand) {
	if d <= stream.None {
		return
	}
	s.mu.Lock()
	if s.requested || s.downstream == nil {
		s.mu.Unlock()
		return
	}
	s.requested = true
	s.mu.Unlock()

	s.future.onResolve(s.deliver)
}

func (s *futureSubscription[T]) Cancel() {
	s.mu.Lock()
	s.downstream = nil
	s.mu.Unlock()
}

func (s *futureSubscription[T]) deliver() {
	s.mu.Lock()
	ds := s.downstream
	s.downstream = nil
	s.mu.Unlock()
	if ds == nil {
		return
	}

	v, err := s.future.Await()
	if err != nil {
		ds.ReceiveCompletion(stream.Failure(err))
		return
	}
	ds.Receive(v)
	ds.ReceiveCompletion(stream.Finished)
}
