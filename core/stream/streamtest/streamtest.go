// Package streamtest provides utilities for testing publishers and subscribers.
package streamtest

import (
	"sync"

	"github.com/dmitrymomot/streamkit/core/stream"
)

// Recorder is a subscriber that records everything it receives.
//
// Initial is requested on subscription. OnValue, when set, decides the demand returned from
// every Receive; otherwise PerValue is returned.
type Recorder[T any] struct {
	Initial  stream.Demand
	PerValue stream.Demand
	OnValue  func(v T) stream.Demand

	mu            sync.Mutex
	subscription  stream.Subscription
	subscriptions int
	values        []T
	completions   []stream.Completion
	late          int
}

// NewRecorder returns a recorder that requests initial on subscription.
func NewRecorder[T any](initial stream.Demand) *Recorder[T] {
	return &Recorder[T]{Initial: initial}
}

func (r *Recorder[T]) ReceiveSubscription(s stream.Subscription) {
	r.mu.Lock()
	r.subscription = s
	r.subscriptions++
	initial := r.Initial
	r.mu.Unlock()

	if initial > stream.None {
		s.Request(initial)
	}
}

func (r *Recorder[T]) Receive(v T) stream.Demand {
	r.mu.Lock()
	if len(r.completions) > 0 {
		r.late++
	}
	r.values = append(r.values, v)
	onValue := r.OnValue
	perValue := r.PerValue
	r.mu.Unlock()

	if onValue != nil {
		return onValue(v)
	}
	return perValue
}

func (r *Recorder[T]) ReceiveCompletion(c stream.Completion) {
	r.mu.Lock()
	r.completions = append(r.completions, c)
	r.mu.Unlock()
}

// Request requests d from the recorded subscription.
func (r *Recorder[T]) Request(d stream.Demand) {
	r.Subscription().Request(d)
}

// Cancel cancels the recorded subscription.
func (r *Recorder[T]) Cancel() {
	r.Subscription().Cancel()
}

// Subscription returns the last subscription received.
func (r *Recorder[T]) Subscription() stream.Subscription {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.subscription
}

// Subscriptions returns how many times ReceiveSubscription was called.
func (r *Recorder[T]) Subscriptions() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.subscriptions
}

// Values returns a copy of the received values.
func (r *Recorder[T]) Values() []T {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]T, len(r.values))
	copy(out, r.values)
	return out
}

// Completions returns every completion received. A well-behaved publisher delivers at most one.
func (r *Recorder[T]) Completions() []stream.Completion {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]stream.Completion, len(r.completions))
	copy(out, r.completions)
	return out
}

// Late returns how many values arrived after a completion. A well-behaved publisher
// delivers none.
func (r *Recorder[T]) Late() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.late
}

// Completion returns the first completion received.
func (r *Recorder[T]) Completion() (stream.Completion, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.completions) == 0 {
		return stream.Completion{}, false
	}
	return r.completions[0], true
}

// Source is a manually driven publisher. Every Subscribe creates a SourceSubscription that
// records requests and cancellations; Send and Complete drive the most recent one.
// Source does not enforce demand, so tests can check how subscribers handle misbehaving
// upstreams.
type Source[T any] struct {
	mu   sync.Mutex
	subs []*SourceSubscription[T]
}

// NewSource returns a source without subscribers.
func NewSource[T any]() *Source[T] {
	return &Source[T]{}
}

func (s *Source[T]) Subscribe(sub stream.Subscriber[T]) {
	ss := &SourceSubscription[T]{downstream: sub}
	s.mu.Lock()
	s.subs = append(s.subs, ss)
	s.mu.Unlock()
	sub.ReceiveSubscription(ss)
}

// Last returns the most recent subscription, or nil.
func (s *Source[T]) Last() *SourceSubscription[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.subs) == 0 {
		return nil
	}
	return s.subs[len(s.subs)-1]
}

// Subscriptions returns how many subscribers subscribed.
func (s *Source[T]) Subscriptions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

// Send delivers v to the most recent subscriber and returns the demand it added.
func (s *Source[T]) Send(v T) stream.Demand {
	return s.Last().Send(v)
}

// Complete delivers c to the most recent subscriber.
func (s *Source[T]) Complete(c stream.Completion) {
	s.Last().Complete(c)
}

// Requested returns the cumulative demand requested through the most recent subscription.
func (s *Source[T]) Requested() stream.Demand {
	return s.Last().Requested()
}

// Cancels returns how many times the most recent subscription was cancelled.
func (s *Source[T]) Cancels() int {
	return s.Last().Cancels()
}

// SourceSubscription is the subscription created by Source.
type SourceSubscription[T any] struct {
	mu         sync.Mutex
	downstream stream.Subscriber[T]
	requested  stream.Demand
	demand     stream.Demand
	cancels    int
}

func (ss *SourceSubscription[T]) Request(d stream.Demand) {
	ss.mu.Lock()
	ss.requested = ss.requested.Add(d)
	ss.demand = ss.demand.Add(d)
	ss.mu.Unlock()
}

func (ss *SourceSubscription[T]) Cancel() {
	ss.mu.Lock()
	ss.cancels++
	ss.mu.Unlock()
}

// Send delivers v and returns the demand the subscriber added.
func (ss *SourceSubscription[T]) Send(v T) stream.Demand {
	ss.mu.Lock()
	ss.demand = ss.demand.Dec()
	ds := ss.downstream
	ss.mu.Unlock()

	more := ds.Receive(v)

	ss.mu.Lock()
	ss.requested = ss.requested.Add(more)
	ss.demand = ss.demand.Add(more)
	ss.mu.Unlock()
	return more
}

// Complete delivers c.
func (ss *SourceSubscription[T]) Complete(c stream.Completion) {
	ss.downstream.ReceiveCompletion(c)
}

// Requested returns the cumulative demand requested, including demand returned from Receive.
func (ss *SourceSubscription[T]) Requested() stream.Demand {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return ss.requested
}

// Outstanding returns the demand not yet satisfied by Send.
func (ss *SourceSubscription[T]) Outstanding() stream.Demand {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return ss.demand
}

// Cancels returns how many times Cancel was called.
func (ss *SourceSubscription[T]) Cancels() int {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return ss.cancels
}
