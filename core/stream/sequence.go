package stream

import (
	"iter"
	"sync"
)

// sequenceSubscription emits values pulled from next, one per unit of demand.
//
// Delivery is an iterative drain guarded by the emitting flag: a Request made from inside
// Receive only adds demand and the running loop picks it up. Once primed, one value is
// always pulled ahead so the completion can be delivered right after the last value without
// waiting for more demand. Lazy sequences are primed by the first request, so next is not
// called before the downstream asks for something.
type sequenceSubscription[T any] struct {
	mu         sync.Mutex
	downstream Subscriber[T]
	next       func() (T, bool)
	stop       func()
	stopOnce   sync.Once
	demand     Demand
	pending    T
	hasPending bool
	primed     bool
	emitting   bool
	done       bool
}

func subscribeSequence[T any](s Subscriber[T], next func() (T, bool), stop func(), eager bool) {
	sub := &sequenceSubscription[T]{downstream: s, next: next, stop: stop}
	if eager {
		sub.pending, sub.hasPending = next()
		sub.primed = true
	}
	s.ReceiveSubscription(sub)
	sub.kick()
}

func (s *sequenceSubscription[T]) Request(d Demand) {
	if d <= None {
		return
	}
	s.mu.Lock()
	if s.done {
		s.mu.Unlock()
		return
	}
	s.demand = s.demand.Add(d)
	s.mu.Unlock()
	s.kick()
}

func (s *sequenceSubscription[T]) Cancel() {
	s.mu.Lock()
	if s.done {
		s.mu.Unlock()
		return
	}
	s.done = true
	s.downstream = nil
	idle := !s.emitting
	s.mu.Unlock()

	if idle {
		s.release()
	}
}

func (s *sequenceSubscription[T]) kick() {
	s.mu.Lock()
	if s.emitting || s.done {
		s.mu.Unlock()
		return
	}
	s.emitting = true
	s.mu.Unlock()
	s.drain()
}

func (s *sequenceSubscription[T]) drain() {
	for {
		s.mu.Lock()
		if s.done {
			s.emitting = false
			s.mu.Unlock()
			s.release()
			return
		}
		if !s.primed {
			if s.demand == None {
				s.emitting = false
				s.mu.Unlock()
				return
			}
			s.mu.Unlock()

			nv, ok := s.next()

			s.mu.Lock()
			if !s.done {
				s.pending, s.hasPending = nv, ok
				s.primed = true
			}
			s.mu.Unlock()
			continue
		}
		if !s.hasPending {
			s.done = true
			s.emitting = false
			ds := s.downstream
			s.downstream = nil
			s.mu.Unlock()

			s.release()
			ds.ReceiveCompletion(Finished)
			return
		}
		if s.demand == None {
			s.emitting = false
			s.mu.Unlock()
			return
		}
		s.demand = s.demand.Dec()
		v := s.pending
		var zero T
		s.pending, s.hasPending = zero, false
		ds := s.downstream
		s.mu.Unlock()

		more := ds.Receive(v)

		s.mu.Lock()
		if s.done {
			s.mu.Unlock()
			continue
		}
		s.demand = s.demand.Add(more)
		s.mu.Unlock()

		nv, ok := s.next()

		s.mu.Lock()
		if !s.done {
			s.pending, s.hasPending = nv, ok
		}
		s.mu.Unlock()
	}
}

func (s *sequenceSubscription[T]) release() {
	s.stopOnce.Do(func() {
		if s.stop != nil {
			s.stop()
		}
	})
}

// FromSlice emits values in order and then finishes.
func FromSlice[T any](values ...T) Publisher[T] {
	return PublisherFunc[T](func(s Subscriber[T]) {
		i := 0
		subscribeSequence(s, func() (T, bool) {
			if i >= len(values) {
				var zero T
				return zero, false
			}
			v := values[i]
			i++
			return v, true
		}, nil, true)
	})
}

// FromSeq emits the values of seq on demand and then finishes. The iterator is not pulled
// before the first request; after that it runs one value ahead of the downstream. It is
// stopped on cancellation.
func FromSeq[T any](seq iter.Seq[T]) Publisher[T] {
	return PublisherFunc[T](func(s Subscriber[T]) {
		next, stop := iter.Pull(seq)
		subscribeSequence(s, next, stop, false)
	})
}
