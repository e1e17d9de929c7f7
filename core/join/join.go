package join

import "github.com/dmitrymomot/streamkit/core/stream"

func combineLatest[Out any](combine func([]any) Out, inputs ...input) stream.Publisher[Out] {
	return &publisher[Out]{inputs: inputs, newBuffer: newLatest, combine: combine}
}

func zip[Out any](combine func([]any) Out, inputs ...input) stream.Publisher[Out] {
	return &publisher[Out]{inputs: inputs, newBuffer: newQueues, combine: combine}
}

// CombineLatest2 emits the latest values of a and b every time either produces, once both
// have produced at least once. It finishes when both finish.
func CombineLatest2[A, B any](a stream.Publisher[A], b stream.Publisher[B]) stream.Publisher[Tuple2[A, B]] {
	return combineLatest(tuple2[A, B], from(a), from(b))
}

// CombineLatest3 is CombineLatest2 for three upstreams.
func CombineLatest3[A, B, C any](a stream.Publisher[A], b stream.Publisher[B], c stream.Publisher[C]) stream.Publisher[Tuple3[A, B, C]] {
	return combineLatest(tuple3[A, B, C], from(a), from(b), from(c))
}

// CombineLatest4 is CombineLatest2 for four upstreams.
func CombineLatest4[A, B, C, D any](
	a stream.Publisher[A], b stream.Publisher[B], c stream.Publisher[C], d stream.Publisher[D],
) stream.Publisher[Tuple4[A, B, C, D]] {
	return combineLatest(tuple4[A, B, C, D], from(a), from(b), from(c), from(d))
}

// CombineLatest5 is CombineLatest2 for five upstreams.
func CombineLatest5[A, B, C, D, E any](
	a stream.Publisher[A], b stream.Publisher[B], c stream.Publisher[C], d stream.Publisher[D], e stream.Publisher[E],
) stream.Publisher[Tuple5[A, B, C, D, E]] {
	return combineLatest(tuple5[A, B, C, D, E], from(a), from(b), from(c), from(d), from(e))
}

// CombineLatestAll joins any number of upstreams of the same type. Without upstreams it
// finishes immediately.
func CombineLatestAll[T any](ps ...stream.Publisher[T]) stream.Publisher[[]T] {
	if len(ps) == 0 {
		return stream.Empty[[]T]()
	}
	return combineLatest(slice[T], inputs(ps)...)
}

// Zip2 pairs the values of a and b index for index. It finishes as soon as a finished
// upstream has no buffered values left to pair.
func Zip2[A, B any](a stream.Publisher[A], b stream.Publisher[B]) stream.Publisher[Tuple2[A, B]] {
	return zip(tuple2[A, B], from(a), from(b))
}

// Zip3 is Zip2 for three upstreams.
func Zip3[A, B, C any](a stream.Publisher[A], b stream.Publisher[B], c stream.Publisher[C]) stream.Publisher[Tuple3[A, B, C]] {
	return zip(tuple3[A, B, C], from(a), from(b), from(c))
}

// Zip4 is Zip2 for four upstreams.
func Zip4[A, B, C, D any](
	a stream.Publisher[A], b stream.Publisher[B], c stream.Publisher[C], d stream.Publisher[D],
) stream.Publisher[Tuple4[A, B, C, D]] {
	return zip(tuple4[A, B, C, D], from(a), from(b), from(c), from(d))
}

// Zip5 is Zip2 for five upstreams.
func Zip5[A, B, C, D, E any](
	a stream.Publisher[A], b stream.Publisher[B], c stream.Publisher[C], d stream.Publisher[D], e stream.Publisher[E],
) stream.Publisher[Tuple5[A, B, C, D, E]] {
	return zip(tuple5[A, B, C, D, E], from(a), from(b), from(c), from(d), from(e))
}

// ZipAll zips any number of upstreams of the same type. Without upstreams it finishes
// immediately.
func ZipAll[T any](ps ...stream.Publisher[T]) stream.Publisher[[]T] {
	if len(ps) == 0 {
		return stream.Empty[[]T]()
	}
	return zip(slice[T], inputs(ps)...)
}

// Merge interleaves the values of every upstream in the order they arrive. Demand is
// requested from every upstream; values beyond the downstream demand are buffered. It
// finishes when every upstream finished and fails as soon as one fails. Without upstreams
// it finishes immediately.
func Merge[T any](ps ...stream.Publisher[T]) stream.Publisher[T] {
	if len(ps) == 0 {
		return stream.Empty[T]()
	}
	return &publisher[T]{inputs: inputs(ps), newBuffer: newFifo, combine: first[T]}
}

func first[T any](vals []any) T {
	return as[T](vals[0])
}

func inputs[T any](ps []stream.Publisher[T]) []input {
	out := make([]input, len(ps))
	for i, p := range ps {
		out[i] = from(p)
	}
	return out
}
