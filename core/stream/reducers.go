package stream

import "cmp"

// Reduce folds all values into one, starting from initial, and emits it when the upstream
// finishes.
func Reduce[T, Acc any](upstream Publisher[T], initial Acc, fn func(Acc, T) Acc) Publisher[Acc] {
	return FoldFrom(upstream, initial, func(acc Acc, _ bool, v T) Step[Acc] {
		return Emit(fn(acc, v))
	})
}

// TryReduce is Reduce with an accumulator function that may fail the stream.
func TryReduce[T, Acc any](upstream Publisher[T], initial Acc, fn func(Acc, T) (Acc, error)) Publisher[Acc] {
	return FoldFrom(upstream, initial, func(acc Acc, _ bool, v T) Step[Acc] {
		next, err := fn(acc, v)
		if err != nil {
			return Fail[Acc](err)
		}
		return Emit(next)
	})
}

// Count emits the number of values the upstream produced.
func Count[T any](upstream Publisher[T]) Publisher[int] {
	return FoldFrom(upstream, 0, func(n int, _ bool, _ T) Step[int] {
		return Emit(n + 1)
	})
}

// Collect emits every value of the upstream as one slice. An empty upstream yields an
// empty, non-nil slice.
func Collect[T any](upstream Publisher[T]) Publisher[[]T] {
	return FoldFrom(upstream, []T{}, func(acc []T, _ bool, v T) Step[[]T] {
		return Emit(append(acc, v))
	})
}

// First emits the first value and finishes.
func First[T any](upstream Publisher[T]) Publisher[T] {
	return Fold(upstream, func(_ T, _ bool, v T) Step[T] {
		return FinishWith(v)
	})
}

// FirstWhere emits the first value satisfying pred and finishes.
func FirstWhere[T any](upstream Publisher[T], pred func(T) bool) Publisher[T] {
	return Fold(upstream, func(_ T, _ bool, v T) Step[T] {
		if pred(v) {
			return FinishWith(v)
		}
		return Skip[T]()
	})
}

// TryFirstWhere is FirstWhere with a predicate that may fail the stream.
func TryFirstWhere[T any](upstream Publisher[T], pred func(T) (bool, error)) Publisher[T] {
	return Fold(upstream, func(_ T, _ bool, v T) Step[T] {
		match, err := pred(v)
		switch {
		case err != nil:
			return Fail[T](err)
		case match:
			return FinishWith(v)
		default:
			return Skip[T]()
		}
	})
}

// Last emits the final value once the upstream finishes.
func Last[T any](upstream Publisher[T]) Publisher[T] {
	return Fold(upstream, func(_ T, _ bool, v T) Step[T] {
		return Emit(v)
	})
}

// LastWhere emits the final value satisfying pred once the upstream finishes.
func LastWhere[T any](upstream Publisher[T], pred func(T) bool) Publisher[T] {
	return Fold(upstream, func(_ T, _ bool, v T) Step[T] {
		if pred(v) {
			return Emit(v)
		}
		return Skip[T]()
	})
}

// Contains emits true as soon as target is seen, or false when the upstream finishes
// without it.
func Contains[T comparable](upstream Publisher[T], target T) Publisher[bool] {
	return ContainsWhere(upstream, func(v T) bool { return v == target })
}

// ContainsWhere emits true as soon as a value satisfies pred, or false when none does.
func ContainsWhere[T any](upstream Publisher[T], pred func(T) bool) Publisher[bool] {
	return FoldFrom(upstream, false, func(_ bool, _ bool, v T) Step[bool] {
		if pred(v) {
			return FinishWith(true)
		}
		return Skip[bool]()
	})
}

// AllSatisfy emits false as soon as a value fails pred, or true when the upstream finishes.
func AllSatisfy[T any](upstream Publisher[T], pred func(T) bool) Publisher[bool] {
	return FoldFrom(upstream, true, func(_ bool, _ bool, v T) Step[bool] {
		if pred(v) {
			return Skip[bool]()
		}
		return FinishWith(false)
	})
}

// TryAllSatisfy is AllSatisfy with a predicate that may fail the stream.
func TryAllSatisfy[T any](upstream Publisher[T], pred func(T) (bool, error)) Publisher[bool] {
	return FoldFrom(upstream, true, func(_ bool, _ bool, v T) Step[bool] {
		ok, err := pred(v)
		switch {
		case err != nil:
			return Fail[bool](err)
		case ok:
			return Skip[bool]()
		default:
			return FinishWith(false)
		}
	})
}

// Minimum emits the smallest value once the upstream finishes.
func Minimum[T cmp.Ordered](upstream Publisher[T]) Publisher[T] {
	return Fold(upstream, func(acc T, ok bool, v T) Step[T] {
		if !ok || v < acc {
			return Emit(v)
		}
		return Skip[T]()
	})
}

// Maximum emits the largest value once the upstream finishes.
func Maximum[T cmp.Ordered](upstream Publisher[T]) Publisher[T] {
	return Fold(upstream, func(acc T, ok bool, v T) Step[T] {
		if !ok || v > acc {
			return Emit(v)
		}
		return Skip[T]()
	})
}
