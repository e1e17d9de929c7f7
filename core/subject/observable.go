package subject

import "github.com/dmitrymomot/streamkit/core/stream"

// ObservableField is a value with a getter and setter whose changes are published.
//
// Every Set first calls the notify hook, if any, and then publishes the new value to
// subscribers. Subscribers receive the current value on their first request.
type ObservableField[T any] struct {
	subject *CurrentValue[T]
	notify  func(T)
}

// NewObservableField creates a field holding initial. notify may be nil.
func NewObservableField[T any](initial T, notify func(T), opts ...Option) *ObservableField[T] {
	return &ObservableField[T]{
		subject: NewCurrentValue(initial, opts...),
		notify:  notify,
	}
}

// Get returns the current value.
func (f *ObservableField[T]) Get() T {
	return f.subject.Value()
}

// Set stores v and publishes it.
func (f *ObservableField[T]) Set(v T) {
	if f.notify != nil {
		f.notify(v)
	}
	f.subject.Send(v)
}

// Update sets the field to fn applied to its current value.
func (f *ObservableField[T]) Update(fn func(T) T) {
	f.Set(fn(f.Get()))
}

// Subscribe attaches s to the stream of values of the field.
func (f *ObservableField[T]) Subscribe(s stream.Subscriber[T]) {
	f.subject.Subscribe(s)
}

// Close finishes the stream of values. Later Set calls still run notify but publish nothing.
func (f *ObservableField[T]) Close() {
	f.subject.SendCompletion(stream.Finished)
}
