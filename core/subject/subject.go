package subject

import "github.com/dmitrymomot/streamkit/core/stream"

// Subject is a publisher that values can be pushed into imperatively. Every subscriber
// receives the values sent after it subscribed, subject to its own demand.
type Subject[T any] interface {
	stream.Publisher[T]

	// Send delivers v to every subscriber that has demand.
	Send(v T)

	// SendCompletion ends the subject. Subscribers, current and future, receive c.
	SendCompletion(c stream.Completion)

	// SendSubscription retains an upstream subscription feeding the subject and requests
	// Unlimited from it, or cancels it when the subject has already completed.
	SendSubscription(s stream.Subscription)
}

// Passthrough broadcasts values to its current subscribers without buffering. Subscribers
// without outstanding demand miss the value.
type Passthrough[T any] struct {
	b *base[T]
}

// NewPassthrough creates a passthrough subject.
func NewPassthrough[T any](opts ...Option) *Passthrough[T] {
	var zero T
	return &Passthrough[T]{b: newBase("subject.passthrough", false, zero, opts)}
}

func (p *Passthrough[T]) Subscribe(s stream.Subscriber[T])       { p.b.subscribe(s) }
func (p *Passthrough[T]) Send(v T)                               { p.b.send(v) }
func (p *Passthrough[T]) SendCompletion(c stream.Completion)     { p.b.sendCompletion(c) }
func (p *Passthrough[T]) SendSubscription(s stream.Subscription) { p.b.sendSubscription(s) }

// Subscribers returns the number of live subscribers.
func (p *Passthrough[T]) Subscribers() int { return p.b.subscribers() }

// CurrentValue broadcasts values like Passthrough and retains the latest one. A subscriber
// receives the current value on its first request, and after missing updates for lack of
// demand it receives the value current at its next request.
type CurrentValue[T any] struct {
	b *base[T]
}

// NewCurrentValue creates a subject holding initial.
func NewCurrentValue[T any](initial T, opts ...Option) *CurrentValue[T] {
	return &CurrentValue[T]{b: newBase("subject.current_value", true, initial, opts)}
}

func (c *CurrentValue[T]) Subscribe(s stream.Subscriber[T])       { c.b.subscribe(s) }
func (c *CurrentValue[T]) Send(v T)                               { c.b.send(v) }
func (c *CurrentValue[T]) SendCompletion(comp stream.Completion)  { c.b.sendCompletion(comp) }
func (c *CurrentValue[T]) SendSubscription(s stream.Subscription) { c.b.sendSubscription(s) }

// Value returns the latest value.
func (c *CurrentValue[T]) Value() T { return c.b.current() }

// Subscribers returns the number of live subscribers.
func (c *CurrentValue[T]) Subscribers() int { return c.b.subscribers() }
