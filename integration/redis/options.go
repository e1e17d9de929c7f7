package redis

import (
	"log/slog"

	"github.com/dmitrymomot/streamkit/core/logger"
)

// Option configures Channel and NewPublisher.
type Option func(*options)

type options struct {
	logger      *slog.Logger
	channelSize int
}

// WithLogger configures structured logging for subscription and publish events.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithChannelSize sets the buffer of the go-redis message channel behind Channel.
func WithChannelSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.channelSize = n
		}
	}
}

func newOptions(opts []Option) *options {
	o := &options{logger: logger.Discard(), channelSize: 100}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
