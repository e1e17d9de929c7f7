// Package async provides futures with Go generics.
//
// Future[T] represents the result of an asynchronous computation. It provides methods
// to wait for completion (Await), check status without blocking (IsComplete), and
// handle timeouts (AwaitWithTimeout). A Future is also a stream.Publisher[T], so its
// result can be fed into any stream pipeline.
//
// # Usage
//
// Basic asynchronous operation:
//
//	future := async.Async(ctx, 123, fetchUser)
//
//	// Do other work...
//
//	user, err := future.Await()
//
// Using timeout:
//
//	user, err := future.AwaitWithTimeout(50 * time.Millisecond)
//	if errors.Is(err, async.ErrTimeout) {
//		log.Println("Operation timed out")
//	}
//
// Promise style, for callback based APIs:
//
//	f := async.NewFuture(func(promise func(Reply, error)) {
//		client.Call(req, func(r Reply, err error) { promise(r, err) })
//	})
//
// As a publisher:
//
//	names := stream.Map(async.Async(ctx, 7, fetchUser), func(u User) string { return u.Name })
//
// # Coordination Utilities
//
// WaitAll waits for all futures and returns their results; WaitAny returns as soon as
// one resolves.
//
// # Error Handling
//
//   - ErrTimeout: returned when AwaitWithTimeout exceeds its duration
//   - ErrNoFutures: returned when WaitAny is called with no futures
//   - ErrPanic: wrapped when the computation passed to Async or Exec panics
//
// If a context is cancelled before the computation begins, the future resolves with
// the context's error.
package async
