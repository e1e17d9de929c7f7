package redis

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/streamkit/core/logger"
	"github.com/dmitrymomot/streamkit/core/stream"
)

// Channel returns a publisher of the messages published to the given Redis channels.
//
// Every subscriber opens its own Redis subscription, confirmed before any value flows; a
// failed subscription fails the stream with ErrSubscribeFailed. Cancelling the stream,
// or cancelling ctx, closes the Redis subscription, after which the stream finishes.
func Channel(ctx context.Context, client redis.UniversalClient, channels []string, opts ...Option) stream.Publisher[*redis.Message] {
	o := newOptions(opts)
	names := strings.Join(channels, ",")

	return stream.Deferred(func() stream.Publisher[*redis.Message] {
		ps := client.Subscribe(ctx, channels...)
		if _, err := ps.Receive(ctx); err != nil {
			_ = ps.Close()
			o.logger.ErrorContext(ctx, "redis subscription failed",
				logger.Component("redis.channel"),
				logger.Key("channels", names),
				logger.Error(err))
			return stream.Failed[*redis.Message](fmt.Errorf("%w: %w", ErrSubscribeFailed, err))
		}

		o.logger.DebugContext(ctx, "redis subscription opened",
			logger.Component("redis.channel"),
			logger.Key("channels", names))

		var once sync.Once
		stop := context.AfterFunc(ctx, func() { _ = ps.Close() })
		release := func() {
			once.Do(func() {
				stop()
				_ = ps.Close()
				o.logger.DebugContext(ctx, "redis subscription closed",
					logger.Component("redis.channel"),
					logger.Key("channels", names))
			})
		}

		messages := ps.Channel(redis.WithChannelSize(o.channelSize))
		return stream.HandleEvents(stream.FromChannel(messages), stream.Events[*redis.Message]{
			Cancel:     release,
			Completion: func(stream.Completion) { release() },
		})
	})
}

// Publisher is a subscriber that publishes every value it receives to one Redis channel.
//
// It requests one value at a time and publishes synchronously, so a slow Redis slows the
// upstream down. The first publish error cancels the upstream; Err reports it once Done
// is closed.
type Publisher[T any] struct {
	ctx     context.Context
	client  redis.UniversalClient
	channel string
	opts    *options

	mu   sync.Mutex
	sub  stream.Subscription
	err  error
	done chan struct{}
	once sync.Once
}

// NewPublisher creates a Publisher for channel. Values are passed to go-redis as is, so T
// should be a string, a []byte, a number or an encoding.BinaryMarshaler.
func NewPublisher[T any](ctx context.Context, client redis.UniversalClient, channel string, opts ...Option) *Publisher[T] {
	return &Publisher[T]{
		ctx:     ctx,
		client:  client,
		channel: channel,
		opts:    newOptions(opts),
		done:    make(chan struct{}),
	}
}

func (p *Publisher[T]) ReceiveSubscription(s stream.Subscription) {
	p.mu.Lock()
	if p.sub != nil || p.isDone() {
		p.mu.Unlock()
		s.Cancel()
		return
	}
	p.sub = s
	p.mu.Unlock()

	s.Request(stream.Max(1))
}

func (p *Publisher[T]) Receive(v T) stream.Demand {
	if p.isDone() {
		return stream.None
	}
	if err := p.client.Publish(p.ctx, p.channel, v).Err(); err != nil {
		p.opts.logger.ErrorContext(p.ctx, "redis publish failed",
			logger.Component("redis.publisher"),
			logger.Key("channel", p.channel),
			logger.Error(err))

		p.mu.Lock()
		sub := p.sub
		p.mu.Unlock()
		if sub != nil {
			sub.Cancel()
		}
		p.finish(fmt.Errorf("%w: %w", ErrPublishFailed, err))
		return stream.None
	}
	return stream.Max(1)
}

func (p *Publisher[T]) ReceiveCompletion(c stream.Completion) {
	p.finish(c.Err())
}

// Cancel stops publishing and cancels the upstream.
func (p *Publisher[T]) Cancel() {
	p.mu.Lock()
	sub := p.sub
	p.mu.Unlock()
	if sub != nil {
		sub.Cancel()
	}
	p.finish(nil)
}

// Done is closed once the upstream completes, a publish fails or Cancel is called.
func (p *Publisher[T]) Done() <-chan struct{} {
	return p.done
}

// Err returns the upstream failure or the publish error that stopped the publisher.
func (p *Publisher[T]) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

func (p *Publisher[T]) finish(err error) {
	p.once.Do(func() {
		p.mu.Lock()
		p.err = err
		p.mu.Unlock()
		close(p.done)
	})
}

func (p *Publisher[T]) isDone() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}
