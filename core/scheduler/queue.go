package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sourcegraph/conc/panics"

	"github.com/dmitrymomot/streamkit/core/logger"
	"github.com/dmitrymomot/streamkit/core/stream"
)

// Queue runs actions one at a time, in submission order, on a single executor goroutine.
// Delayed and repeating actions are armed with timers and enqueued when they fire.
//
// Actions submitted before Start are kept and run once the queue starts. A panicking
// action is recovered and logged; the queue keeps running.
type Queue struct {
	mu      sync.Mutex
	pending []func()
	wake    chan struct{}
	logger  *slog.Logger

	shutdownTimeout time.Duration

	// State management
	cancel  context.CancelFunc
	done    chan struct{}
	running atomic.Bool

	// Observability metrics
	executed atomic.Int64
	panicked atomic.Int64
}

// Stats provides observability metrics for monitoring and debugging.
type Stats struct {
	Executed  int64 // Actions run, including the ones that panicked
	Panics    int64 // Actions that panicked
	Pending   int   // Actions waiting to run
	IsRunning bool  // Whether the executor goroutine is running
}

// NewQueue creates a stopped queue scheduler.
func NewQueue(opts ...QueueOption) *Queue {
	options := &queueOptions{
		shutdownTimeout: 30 * time.Second,
		backlog:         64,
		logger:          logger.Discard(),
	}
	for _, opt := range opts {
		opt(options)
	}

	return &Queue{
		pending:         make([]func(), 0, options.backlog),
		wake:            make(chan struct{}, 1),
		logger:          options.logger,
		shutdownTimeout: options.shutdownTimeout,
	}
}

// NewQueueFromConfig creates a Queue from configuration. Additional options override
// config values.
func NewQueueFromConfig(cfg Config, opts ...QueueOption) *Queue {
	allOpts := append([]QueueOption{
		WithShutdownTimeout(cfg.ShutdownTimeout),
		WithBacklog(cfg.Backlog),
	}, opts...)

	return NewQueue(allOpts...)
}

func (q *Queue) Now() time.Time { return time.Now() }

func (q *Queue) Schedule(action func()) {
	q.mu.Lock()
	q.pending = append(q.pending, action)
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
}

func (q *Queue) ScheduleAfter(d time.Duration, action func()) stream.Cancellable {
	return q.arm(d, 0, action)
}

func (q *Queue) ScheduleEvery(after, interval time.Duration, action func()) stream.Cancellable {
	return q.arm(after, interval, action)
}

// timer is the cancellable handle of a delayed or repeating action.
type timer struct {
	mu        sync.Mutex
	t         *time.Timer
	cancelled bool
}

func (t *timer) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cancelled = true
	if t.t != nil {
		t.t.Stop()
	}
}

func (t *timer) isCancelled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cancelled
}

func (q *Queue) arm(after, interval time.Duration, action func()) *timer {
	tm := &timer{}
	guarded := func() {
		if !tm.isCancelled() {
			action()
		}
	}
	fire := func() {
		tm.mu.Lock()
		if tm.cancelled {
			tm.mu.Unlock()
			return
		}
		if interval > 0 {
			tm.t.Reset(interval)
		}
		tm.mu.Unlock()
		q.Schedule(guarded)
	}

	tm.mu.Lock()
	tm.t = time.AfterFunc(after, fire)
	tm.mu.Unlock()
	return tm
}

// Start runs the executor loop. This is a blocking operation that runs until the context
// is cancelled or Stop is called. Use Run() for errgroup pattern or call this in a goroutine.
func (q *Queue) Start(ctx context.Context) error {
	q.mu.Lock()
	if q.cancel != nil {
		q.mu.Unlock()
		return ErrAlreadyStarted
	}
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	q.cancel, q.done = cancel, done
	q.mu.Unlock()

	q.running.Store(true)
	defer func() {
		q.running.Store(false)
		q.mu.Lock()
		if q.done == done {
			q.cancel, q.done = nil, nil
		}
		q.mu.Unlock()
		cancel()
		close(done)
	}()

	q.logger.DebugContext(ctx, "scheduler started", logger.Component("scheduler.queue"))

	q.drain(ctx)
	for {
		select {
		case <-ctx.Done():
			q.logger.DebugContext(context.Background(), "scheduler stopping", logger.Component("scheduler.queue"))
			return ctx.Err()
		case <-q.wake:
			q.drain(ctx)
		}
	}
}

// Stop cancels the executor loop and waits for the running action to return.
// Returns an error if the shutdown timeout is exceeded.
func (q *Queue) Stop() error {
	q.mu.Lock()
	if q.cancel == nil {
		q.mu.Unlock()
		return ErrNotStarted
	}
	cancel, done := q.cancel, q.done
	q.cancel, q.done = nil, nil
	q.mu.Unlock()

	cancel()

	timeout := time.NewTimer(q.shutdownTimeout)
	defer timeout.Stop()

	select {
	case <-done:
		q.logger.Debug("scheduler stopped cleanly", logger.Component("scheduler.queue"))
		return nil
	case <-timeout.C:
		q.logger.Warn("scheduler shutdown timeout exceeded",
			logger.Component("scheduler.queue"),
			logger.Duration(q.shutdownTimeout))
		return fmt.Errorf("%w after %s", ErrShutdownTimeout, q.shutdownTimeout)
	}
}

// Run provides errgroup compatibility for coordinated lifecycle management.
// Returns a function that starts the queue, monitors context cancellation,
// and performs graceful shutdown when the context is cancelled.
func (q *Queue) Run(ctx context.Context) func() error {
	return func() error {
		errCh := make(chan error, 1)
		go func() {
			errCh <- q.Start(ctx)
		}()

		select {
		case <-ctx.Done():
			_ = q.Stop()
			<-errCh
			return nil
		case err := <-errCh:
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return err
		}
	}
}

// Stats returns current scheduler statistics.
func (q *Queue) Stats() Stats {
	q.mu.Lock()
	pending := len(q.pending)
	q.mu.Unlock()

	return Stats{
		Executed:  q.executed.Load(),
		Panics:    q.panicked.Load(),
		Pending:   pending,
		IsRunning: q.running.Load(),
	}
}

func (q *Queue) drain(ctx context.Context) {
	for ctx.Err() == nil {
		q.mu.Lock()
		if len(q.pending) == 0 {
			q.mu.Unlock()
			return
		}
		action := q.pending[0]
		q.pending[0] = nil
		q.pending = q.pending[1:]
		q.mu.Unlock()

		q.execute(action)
	}
}

func (q *Queue) execute(action func()) {
	r := panics.Try(action)
	q.executed.Add(1)

	if r != nil {
		q.panicked.Add(1)
		q.logger.Error("scheduled action panicked",
			logger.Component("scheduler.queue"),
			logger.Panic(r.Value),
			slog.String("stack", string(r.Stack)))
	}
}
