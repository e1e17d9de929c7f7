package async

import (
	"context"
	"fmt"

	"github.com/sourcegraph/conc/panics"
)

// Async executes fn on a new goroutine and returns a future of its result.
// A panic inside fn resolves the future with an error wrapping ErrPanic.
func Async[P, T any](ctx context.Context, param P, fn func(context.Context, P) (T, error)) *Future[T] {
	return NewFuture(func(promise func(T, error)) {
		go func() {
			// Early exit prevents work when context is pre-canceled
			if err := ctx.Err(); err != nil {
				var zero T
				promise(zero, err)
				return
			}

			var (
				v   T
				err error
			)
			if r := panics.Try(func() { v, err = fn(ctx, param) }); r != nil {
				var zero T
				promise(zero, fmt.Errorf("%w: %w", ErrPanic, r.AsError()))
				return
			}
			promise(v, err)
		}()
	})
}

// Exec executes a function asynchronously that only returns an error.
func Exec[P any](ctx context.Context, param P, fn func(context.Context, P) error) *Future[struct{}] {
	return Async(ctx, param, func(ctx context.Context, p P) (struct{}, error) {
		return struct{}{}, fn(ctx, p)
	})
}

// WaitAll waits for all futures and returns their values in order. It returns the first
// error in argument order.
func WaitAll[T any](futures ...*Future[T]) ([]T, error) {
	out := make([]T, 0, len(futures))
	for _, future := range futures {
		v, err := future.Await()
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// WaitAny waits for the first future to resolve and returns its index and result.
// No goroutines are spawned; waiting is registered on each future.
func WaitAny[T any](futures ...*Future[T]) (int, T, error) {
	if len(futures) == 0 {
		var zero T
		return -1, zero, ErrNoFutures
	}

	first := make(chan int, 1)
	for i, future := range futures {
		future.onResolve(func() {
			select {
			case first <- i:
			default:
			}
		})
	}

	i := <-first
	v, err := futures[i].Await()
	return i, v, err
}
