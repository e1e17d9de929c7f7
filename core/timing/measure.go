package timing

import (
	"time"

	"github.com/dmitrymomot/streamkit/core/scheduler"
	"github.com/dmitrymomot/streamkit/core/stream"
)

// MeasureInterval replaces every value with the time elapsed since the previous one,
// as read from sched. The first interval is measured from the subscription.
func MeasureInterval[T any](upstream stream.Publisher[T], sched scheduler.Scheduler) stream.Publisher[time.Duration] {
	return stream.Lift(upstream, func() stream.StepFunc[T, time.Duration] {
		last := sched.Now()
		return func(T) stream.Step[time.Duration] {
			now := sched.Now()
			d := now.Sub(last)
			last = now
			return stream.Emit(d)
		}
	})
}
