package scheduler

import (
	"time"

	"github.com/dmitrymomot/streamkit/core/stream"
)

// Scheduler decides where and when actions run. Time-based operators depend only on this
// interface.
type Scheduler interface {
	// Now returns the scheduler's notion of the current time.
	Now() time.Time

	// Schedule runs action as soon as possible.
	Schedule(action func())

	// ScheduleAfter runs action once d has elapsed. Cancelling the result before the
	// action starts prevents it from running.
	ScheduleAfter(d time.Duration, action func()) stream.Cancellable

	// ScheduleEvery runs action after the first delay and then every interval until the
	// result is cancelled.
	ScheduleEvery(after, interval time.Duration, action func()) stream.Cancellable
}

type noop struct{}

func (noop) Cancel() {}

// Immediate runs every action synchronously on the calling goroutine.
//
// ScheduleAfter ignores the delay and ScheduleEvery runs the action exactly once, so the
// returned cancellables have nothing left to cancel.
type Immediate struct{}

func (Immediate) Now() time.Time { return time.Now() }

func (Immediate) Schedule(action func()) { action() }

func (Immediate) ScheduleAfter(_ time.Duration, action func()) stream.Cancellable {
	action()
	return noop{}
}

func (Immediate) ScheduleEvery(_, _ time.Duration, action func()) stream.Cancellable {
	action()
	return noop{}
}
