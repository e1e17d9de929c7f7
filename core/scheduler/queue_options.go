package scheduler

import (
	"log/slog"
	"time"
)

// QueueOption is a functional option for configuring a Queue.
type QueueOption func(*queueOptions)

type queueOptions struct {
	shutdownTimeout time.Duration
	backlog         int
	logger          *slog.Logger
}

// WithShutdownTimeout configures how long Stop waits for the running action to return.
func WithShutdownTimeout(d time.Duration) QueueOption {
	return func(o *queueOptions) {
		if d > 0 {
			o.shutdownTimeout = d
		}
	}
}

// WithBacklog sets the initial capacity of the pending action buffer.
func WithBacklog(n int) QueueOption {
	return func(o *queueOptions) {
		if n > 0 {
			o.backlog = n
		}
	}
}

// WithLogger configures structured logging for queue operations.
func WithLogger(logger *slog.Logger) QueueOption {
	return func(o *queueOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}
