package stream

import "sync"

// FromChannel emits the values received from ch and finishes when ch is closed.
//
// Each subscription runs one goroutine, started on the first request, that reads from ch and
// delivers while the downstream has demand. At most one value is read ahead of demand.
// Cancel stops the goroutine; values read afterwards are dropped.
func FromChannel[T any](ch <-chan T) Publisher[T] {
	return PublisherFunc[T](func(s Subscriber[T]) {
		sub := &channelSubscription[T]{
			ch:         ch,
			downstream: s,
			wake:       make(chan struct{}, 1),
			quit:       make(chan struct{}),
		}
		s.ReceiveSubscription(sub)
	})
}

type channelSubscription[T any] struct {
	ch         <-chan T
	mu         sync.Mutex
	downstream Subscriber[T]
	demand     Demand
	started    bool
	done       bool
	wake       chan struct{}
	quit       chan struct{}
}

func (c *channelSubscription[T]) Request(d Demand) {
	if d <= None {
		return
	}
	c.mu.Lock()
	if c.done {
		c.mu.Unlock()
		return
	}
	c.demand = c.demand.Add(d)
	start := !c.started
	c.started = true
	c.mu.Unlock()

	if start {
		go c.pump()
		return
	}
	c.signal()
}

func (c *channelSubscription[T]) Cancel() {
	c.mu.Lock()
	if c.done {
		c.mu.Unlock()
		return
	}
	c.done = true
	c.downstream = nil
	c.mu.Unlock()
	close(c.quit)
}

func (c *channelSubscription[T]) signal() {
	select {
	case c.wake <- struct{}{}:
	default:
	}
}

func (c *channelSubscription[T]) pump() {
	for {
		var v T
		select {
		case <-c.quit:
			return
		case next, ok := <-c.ch:
			if !ok {
				c.finish()
				return
			}
			v = next
		}

		ds, ok := c.awaitDemand()
		if !ok {
			return
		}
		more := ds.Receive(v)

		c.mu.Lock()
		if !c.done {
			c.demand = c.demand.Add(more)
		}
		c.mu.Unlock()
	}
}

// awaitDemand blocks until one unit of demand is available and consumes it.
func (c *channelSubscription[T]) awaitDemand() (Subscriber[T], bool) {
	for {
		c.mu.Lock()
		if c.done {
			c.mu.Unlock()
			return nil, false
		}
		if c.demand > None {
			c.demand = c.demand.Dec()
			ds := c.downstream
			c.mu.Unlock()
			return ds, true
		}
		c.mu.Unlock()

		select {
		case <-c.wake:
		case <-c.quit:
			return nil, false
		}
	}
}

func (c *channelSubscription[T]) finish() {
	c.mu.Lock()
	if c.done {
		c.mu.Unlock()
		return
	}
	c.done = true
	ds := c.downstream
	c.downstream = nil
	c.mu.Unlock()

	ds.ReceiveCompletion(Finished)
}
