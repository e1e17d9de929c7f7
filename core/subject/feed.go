package subject

import (
	"sync"

	"github.com/dmitrymomot/streamkit/core/stream"
)

// Feed subscribes subj to upstream: every value, and the completion, is sent into the
// subject. The returned cancellable detaches the subject from upstream without completing it.
func Feed[T any](upstream stream.Publisher[T], subj Subject[T]) *stream.AnyCancellable {
	f := &feeder[T]{subject: subj}
	c := stream.NewAnyCancellable(f.Cancel)
	upstream.Subscribe(f)
	return c
}

type feeder[T any] struct {
	subject Subject[T]

	mu        sync.Mutex
	upstream  stream.Subscription
	cancelled bool
}

func (f *feeder[T]) ReceiveSubscription(s stream.Subscription) {
	f.mu.Lock()
	if f.cancelled || f.upstream != nil {
		f.mu.Unlock()
		s.Cancel()
		return
	}
	f.upstream = s
	f.mu.Unlock()

	f.subject.SendSubscription(s)
}

func (f *feeder[T]) Receive(v T) stream.Demand {
	f.mu.Lock()
	cancelled := f.cancelled
	f.mu.Unlock()

	if !cancelled {
		f.subject.Send(v)
	}
	return stream.None
}

func (f *feeder[T]) ReceiveCompletion(c stream.Completion) {
	f.mu.Lock()
	cancelled := f.cancelled
	f.cancelled = true
	f.mu.Unlock()

	if !cancelled {
		f.subject.SendCompletion(c)
	}
}

func (f *feeder[T]) Cancel() {
	f.mu.Lock()
	if f.cancelled {
		f.mu.Unlock()
		return
	}
	f.cancelled = true
	up := f.upstream
	f.mu.Unlock()

	if up != nil {
		up.Cancel()
	}
}
