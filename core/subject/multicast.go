package subject

import (
	"sync"

	"github.com/dmitrymomot/streamkit/core/stream"
)

// Connectable shares one upstream subscription between many subscribers through a subject.
// Subscribers attach to the subject; the upstream is subscribed only on Connect.
type Connectable[T any] struct {
	upstream stream.Publisher[T]
	subject  Subject[T]

	mu         sync.Mutex
	connection *stream.AnyCancellable
}

// Multicast creates a connectable publisher relaying upstream through subj.
func Multicast[T any](upstream stream.Publisher[T], subj Subject[T]) *Connectable[T] {
	return &Connectable[T]{upstream: upstream, subject: subj}
}

func (c *Connectable[T]) Subscribe(s stream.Subscriber[T]) {
	c.subject.Subscribe(s)
}

// Connect subscribes the subject to the upstream. While a connection is active, further
// calls return it unchanged; after it is cancelled, Connect subscribes again.
func (c *Connectable[T]) Connect() *stream.AnyCancellable {
	c.mu.Lock()
	if c.connection != nil && !c.connection.IsCancelled() {
		conn := c.connection
		c.mu.Unlock()
		return conn
	}
	f := &feeder[T]{subject: c.subject}
	conn := stream.NewAnyCancellable(f.Cancel)
	c.connection = conn
	c.mu.Unlock()

	c.upstream.Subscribe(f)
	return conn
}

// Autoconnect returns a publisher that connects on its first subscriber.
func (c *Connectable[T]) Autoconnect() stream.Publisher[T] {
	return &autoconnect[T]{c: c}
}

type autoconnect[T any] struct {
	c    *Connectable[T]
	once sync.Once
}

func (a *autoconnect[T]) Subscribe(s stream.Subscriber[T]) {
	a.c.Subscribe(s)
	a.once.Do(func() { a.c.Connect() })
}

// Share relays upstream to every subscriber through one shared subscription. The upstream
// is subscribed when the first subscriber attaches; values sent before a subscriber
// attaches are not replayed to it.
func Share[T any](upstream stream.Publisher[T], opts ...Option) stream.Publisher[T] {
	return Multicast(upstream, NewPassthrough[T](opts...)).Autoconnect()
}
