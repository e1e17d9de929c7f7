package join

// Tuple2 is the value emitted by joins of two upstreams.
type Tuple2[A, B any] struct {
	First  A
	Second B
}

// Tuple3 is the value emitted by joins of three upstreams.
type Tuple3[A, B, C any] struct {
	First  A
	Second B
	Third  C
}

// Tuple4 is the value emitted by joins of four upstreams.
type Tuple4[A, B, C, D any] struct {
	First  A
	Second B
	Third  C
	Fourth D
}

// Tuple5 is the value emitted by joins of five upstreams.
type Tuple5[A, B, C, D, E any] struct {
	First  A
	Second B
	Third  C
	Fourth D
	Fifth  E
}

func tuple2[A, B any](v []any) Tuple2[A, B] {
	return Tuple2[A, B]{as[A](v[0]), as[B](v[1])}
}

func tuple3[A, B, C any](v []any) Tuple3[A, B, C] {
	return Tuple3[A, B, C]{as[A](v[0]), as[B](v[1]), as[C](v[2])}
}

func tuple4[A, B, C, D any](v []any) Tuple4[A, B, C, D] {
	return Tuple4[A, B, C, D]{as[A](v[0]), as[B](v[1]), as[C](v[2]), as[D](v[3])}
}

func tuple5[A, B, C, D, E any](v []any) Tuple5[A, B, C, D, E] {
	return Tuple5[A, B, C, D, E]{as[A](v[0]), as[B](v[1]), as[C](v[2]), as[D](v[3]), as[E](v[4])}
}

func slice[T any](v []any) []T {
	out := make([]T, len(v))
	for i, x := range v {
		out[i] = as[T](x)
	}
	return out
}
