package websocket

import (
	"log/slog"
	"time"

	"github.com/dmitrymomot/streamkit/core/logger"
)

// Option configures Messages and NewWriter.
type Option func(*options)

type options struct {
	logger       *slog.Logger
	readLimit    int64
	writeTimeout time.Duration
	buffer       int
}

// WithLogger configures structured logging for connection events.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithReadLimit sets the maximum size in bytes of an inbound message.
func WithReadLimit(n int64) Option {
	return func(o *options) {
		if n > 0 {
			o.readLimit = n
		}
	}
}

// WithWriteTimeout sets the deadline applied to every outbound message.
func WithWriteTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.writeTimeout = d
		}
	}
}

// WithBuffer sets how many inbound messages are read ahead of downstream demand.
func WithBuffer(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.buffer = n
		}
	}
}

// FromConfig applies every connection setting of cfg.
func FromConfig(cfg Config) Option {
	return func(o *options) {
		WithReadLimit(cfg.ReadLimit)(o)
		WithWriteTimeout(cfg.WriteTimeout)(o)
		WithBuffer(cfg.Buffer)(o)
	}
}

func newOptions(opts []Option) *options {
	o := &options{
		logger:       logger.Discard(),
		writeTimeout: 10 * time.Second,
		buffer:       16,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
