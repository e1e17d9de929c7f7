// Package stream provides a demand-driven reactive stream engine: publishers produce
// values only when their subscribers ask for them, and every stream ends with at most one
// completion.
//
// # Protocol
//
// A Publisher accepts a Subscriber and hands it a Subscription. The subscriber requests
// values through the subscription with a Demand (None, Max(n) or Unlimited), receives at
// most that many values, and may return extra demand from every Receive call. A stream
// ends with exactly one Completion (Finished or Failure(err)) unless it is cancelled first.
//
//	src := stream.FromSlice(1, 2, 3, 4, 5)
//	even := stream.Filter(src, func(v int) bool { return v%2 == 0 })
//	squares := stream.Map(even, func(v int) int { return v * v })
//
//	c := stream.SinkFunc(squares,
//		func(v int) { fmt.Println(v) },
//		func(c stream.Completion) { fmt.Println(c) },
//	)
//	defer c.Cancel()
//
// # Operators
//
// Operators are built on two machines. Lift feeds every upstream value through a StepFunc
// that returns a Step: Emit, Skip, Finish, FinishWith or Fail. Demand passes through to the
// upstream unchanged and skipped values are replenished. Fold consumes the whole upstream
// with unlimited demand and emits a single result once the downstream asks for it.
//
//	firstBig := stream.Lift(src, func() stream.StepFunc[int, int] {
//		return func(v int) stream.Step[int] {
//			if v > 3 {
//				return stream.FinishWith(v)
//			}
//			return stream.Skip[int]()
//		}
//	})
//
// # Failures
//
// Catch, TryCatch, ReplaceError and Retry recover from a failed upstream by switching to
// another publisher. The downstream keeps its subscription and the demand it has not been
// served yet moves to the replacement.
//
//	prices := stream.Retry(fetch, 3)
//	safe := stream.ReplaceError(prices, 0)
//
// # Cancellation
//
// AnyCancellable runs its cancel function at most once and also when it is garbage
// collected while still active. A Bag collects cancellables for the lifetime of their
// owner and cancels them together.
//
// # Concurrency
//
// Subscriptions guard their own state with a mutex that is never held while calling into
// another component. Request and Cancel may be called from any goroutine, including from
// within Receive; reentrant requests only add demand to the running delivery loop.
package stream
