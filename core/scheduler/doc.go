// Package scheduler provides the execution contexts used by time-based stream operators.
//
// Three schedulers implement the Scheduler interface:
//
//   - Immediate runs actions synchronously on the caller's goroutine.
//   - Queue runs actions serially on one executor goroutine with Start/Stop lifecycle,
//     panic recovery and Stats.
//   - Virtual runs actions against a manual clock advanced by the caller, for tests.
//
// Basic usage:
//
//	q := scheduler.NewQueue(scheduler.WithLogger(log))
//	g, ctx := errgroup.WithContext(ctx)
//	g.Go(q.Run(ctx))
//
//	q.ScheduleAfter(time.Second, func() { fmt.Println("tick") })
//
// Deterministic tests:
//
//	v := scheduler.NewVirtual(time.Unix(0, 0))
//	v.ScheduleAfter(time.Minute, fire)
//	v.Advance(time.Minute) // fire runs here
package scheduler
