package subject

import (
	"log/slog"

	"github.com/dmitrymomot/streamkit/core/logger"
)

// Option configures a subject.
type Option func(*options)

type options struct {
	logger *slog.Logger
}

// WithLogger sets the logger used for subscription lifecycle events.
// Events are logged at debug level.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func newOptions(opts []Option) options {
	o := options{logger: logger.Discard()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
