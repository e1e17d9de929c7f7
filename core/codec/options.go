package codec

import (
	"log/slog"

	"github.com/dmitrymomot/streamkit/core/logger"
)

// Option configures the Decode and Encode operators.
type Option func(*options)

type options struct {
	logger *slog.Logger
}

// WithLogger logs every payload that fails to decode or encode at debug level.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func newOptions(opts []Option) *options {
	o := &options{logger: logger.Discard()}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
