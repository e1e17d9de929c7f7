// Package timing provides time-based stream operators that run on a scheduler.Scheduler.
//
// Every operator reads the clock and arms timers only through the scheduler it is given,
// so the same pipeline runs on a scheduler.Queue in production and on a
// scheduler.Virtual in tests:
//
//	v := scheduler.NewVirtual(time.Unix(0, 0))
//	p := timing.Debounce(input, 300*time.Millisecond, v)
//	v.Advance(300 * time.Millisecond)
//
// Operators:
//
//   - Delay shifts values and completion by a fixed duration.
//   - Debounce emits the latest value once the upstream has been quiet.
//   - Throttle emits at most one value per interval, the first or the latest.
//   - Timeout ends the stream when the upstream stalls.
//   - MeasureInterval reports the time between consecutive values.
//   - ReceiveOn moves delivery onto the scheduler.
//
// Downstream calls are serialized with a lock.RecursiveMutex, so a scheduler may fire
// actions on any goroutine.
package timing
