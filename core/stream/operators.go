package stream

// Map transforms every value with fn.
func Map[In, Out any](upstream Publisher[In], fn func(In) Out) Publisher[Out] {
	return Lift(upstream, func() StepFunc[In, Out] {
		return func(v In) Step[Out] { return Emit(fn(v)) }
	})
}

// TryMap transforms every value with fn and fails the stream on the first error.
func TryMap[In, Out any](upstream Publisher[In], fn func(In) (Out, error)) Publisher[Out] {
	return Lift(upstream, func() StepFunc[In, Out] {
		return func(v In) Step[Out] {
			out, err := fn(v)
			if err != nil {
				return Fail[Out](err)
			}
			return Emit(out)
		}
	})
}

// Filter passes only the values for which pred returns true.
func Filter[T any](upstream Publisher[T], pred func(T) bool) Publisher[T] {
	return Lift(upstream, func() StepFunc[T, T] {
		return func(v T) Step[T] {
			if pred(v) {
				return Emit(v)
			}
			return Skip[T]()
		}
	})
}

// TryFilter is Filter with a predicate that may fail the stream.
func TryFilter[T any](upstream Publisher[T], pred func(T) (bool, error)) Publisher[T] {
	return Lift(upstream, func() StepFunc[T, T] {
		return func(v T) Step[T] {
			keep, err := pred(v)
			switch {
			case err != nil:
				return Fail[T](err)
			case keep:
				return Emit(v)
			default:
				return Skip[T]()
			}
		}
	})
}

// CompactMap transforms values with fn and drops those for which fn reports false.
func CompactMap[In, Out any](upstream Publisher[In], fn func(In) (Out, bool)) Publisher[Out] {
	return Lift(upstream, func() StepFunc[In, Out] {
		return func(v In) Step[Out] {
			if out, ok := fn(v); ok {
				return Emit(out)
			}
			return Skip[Out]()
		}
	})
}

// TryCompactMap is CompactMap with a transform that may fail the stream.
func TryCompactMap[In, Out any](upstream Publisher[In], fn func(In) (Out, bool, error)) Publisher[Out] {
	return Lift(upstream, func() StepFunc[In, Out] {
		return func(v In) Step[Out] {
			out, ok, err := fn(v)
			switch {
			case err != nil:
				return Fail[Out](err)
			case ok:
				return Emit(out)
			default:
				return Skip[Out]()
			}
		}
	})
}

// PrefixWhile passes values while pred holds and finishes on the first value that fails it.
func PrefixWhile[T any](upstream Publisher[T], pred func(T) bool) Publisher[T] {
	return Lift(upstream, func() StepFunc[T, T] {
		return func(v T) Step[T] {
			if pred(v) {
				return Emit(v)
			}
			return Finish[T]()
		}
	})
}

// TryPrefixWhile is PrefixWhile with a predicate that may fail the stream.
func TryPrefixWhile[T any](upstream Publisher[T], pred func(T) (bool, error)) Publisher[T] {
	return Lift(upstream, func() StepFunc[T, T] {
		return func(v T) Step[T] {
			keep, err := pred(v)
			switch {
			case err != nil:
				return Fail[T](err)
			case keep:
				return Emit(v)
			default:
				return Finish[T]()
			}
		}
	})
}

// DropWhile drops values while pred holds and passes everything from the first value that
// fails it.
func DropWhile[T any](upstream Publisher[T], pred func(T) bool) Publisher[T] {
	return Lift(upstream, func() StepFunc[T, T] {
		dropping := true
		return func(v T) Step[T] {
			if dropping && pred(v) {
				return Skip[T]()
			}
			dropping = false
			return Emit(v)
		}
	})
}

// TryDropWhile is DropWhile with a predicate that may fail the stream.
func TryDropWhile[T any](upstream Publisher[T], pred func(T) (bool, error)) Publisher[T] {
	return Lift(upstream, func() StepFunc[T, T] {
		dropping := true
		return func(v T) Step[T] {
			if dropping {
				drop, err := pred(v)
				if err != nil {
					return Fail[T](err)
				}
				if drop {
					return Skip[T]()
				}
				dropping = false
			}
			return Emit(v)
		}
	})
}

// Prefix passes at most n values and then finishes.
func Prefix[T any](upstream Publisher[T], n int) Publisher[T] {
	return Lift(upstream, func() StepFunc[T, T] {
		seen := 0
		return func(v T) Step[T] {
			if n <= 0 {
				return Finish[T]()
			}
			seen++
			if seen < n {
				return Emit(v)
			}
			return FinishWith(v)
		}
	})
}

// Drop skips the first n values.
func Drop[T any](upstream Publisher[T], n int) Publisher[T] {
	return Lift(upstream, func() StepFunc[T, T] {
		seen := 0
		return func(v T) Step[T] {
			if seen < n {
				seen++
				return Skip[T]()
			}
			return Emit(v)
		}
	})
}

// Output passes only the value at the zero-based index and then finishes.
func Output[T any](upstream Publisher[T], index int) Publisher[T] {
	return Lift(upstream, func() StepFunc[T, T] {
		seen := 0
		return func(v T) Step[T] {
			if seen < index {
				seen++
				return Skip[T]()
			}
			return FinishWith(v)
		}
	})
}

// Scan emits every intermediate accumulator, starting from initial.
func Scan[T, Acc any](upstream Publisher[T], initial Acc, fn func(Acc, T) Acc) Publisher[Acc] {
	return Lift(upstream, func() StepFunc[T, Acc] {
		acc := initial
		return func(v T) Step[Acc] {
			acc = fn(acc, v)
			return Emit(acc)
		}
	})
}

// TryScan is Scan with an accumulator function that may fail the stream.
func TryScan[T, Acc any](upstream Publisher[T], initial Acc, fn func(Acc, T) (Acc, error)) Publisher[Acc] {
	return Lift(upstream, func() StepFunc[T, Acc] {
		acc := initial
		return func(v T) Step[Acc] {
			next, err := fn(acc, v)
			if err != nil {
				return Fail[Acc](err)
			}
			acc = next
			return Emit(acc)
		}
	})
}

// RemoveDuplicates drops values equal to the value passed just before them.
func RemoveDuplicates[T comparable](upstream Publisher[T]) Publisher[T] {
	return RemoveDuplicatesBy(upstream, func(a, b T) bool { return a == b })
}

// RemoveDuplicatesBy drops values for which equal(previous, current) holds.
func RemoveDuplicatesBy[T any](upstream Publisher[T], equal func(prev, cur T) bool) Publisher[T] {
	return Lift(upstream, func() StepFunc[T, T] {
		var prev T
		hasPrev := false
		return func(v T) Step[T] {
			if hasPrev && equal(prev, v) {
				return Skip[T]()
			}
			prev, hasPrev = v, true
			return Emit(v)
		}
	})
}

// IgnoreOutput drops every value and forwards only the completion. The upstream is
// drained with unlimited demand regardless of what the downstream requests.
func IgnoreOutput[T any](upstream Publisher[T]) Publisher[T] {
	return Fold(upstream, func(T, bool, T) Step[T] { return Skip[T]() })
}

// MapError rewrites the failure of upstream with fn. A nil result finishes the stream
// normally.
func MapError[T any](upstream Publisher[T], fn func(error) error) Publisher[T] {
	return &operator[T, T]{
		upstream: upstream,
		newStep:  identityStep[T],
		mapCompletion: func(c Completion) Completion {
			if c.IsFinished() {
				return c
			}
			return Failure(fn(c.Err()))
		},
	}
}
