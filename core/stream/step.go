package stream

type stepKind uint8

const (
	stepEmit stepKind = iota
	stepSkip
	stepFinish
	stepFinishWith
	stepFail
)

// Step is the outcome of feeding one upstream value through an operator:
// continue with an optional value, finish the stream, or fail it.
type Step[T any] struct {
	kind  stepKind
	value T
	err   error
}

// Emit continues the stream and passes v downstream.
func Emit[T any](v T) Step[T] {
	return Step[T]{kind: stepEmit, value: v}
}

// Skip continues the stream without passing anything downstream.
func Skip[T any]() Step[T] {
	return Step[T]{kind: stepSkip}
}

// Finish ends the stream normally.
func Finish[T any]() Step[T] {
	return Step[T]{kind: stepFinish}
}

// FinishWith passes v downstream and then ends the stream normally.
func FinishWith[T any](v T) Step[T] {
	return Step[T]{kind: stepFinishWith, value: v}
}

// Fail ends the stream with err. A nil error finishes normally.
func Fail[T any](err error) Step[T] {
	if err == nil {
		return Finish[T]()
	}
	return Step[T]{kind: stepFail, err: err}
}

// Value returns the value carried by Emit and FinishWith.
func (s Step[T]) Value() (T, bool) {
	return s.value, s.kind == stepEmit || s.kind == stepFinishWith
}

// Err returns the error carried by Fail.
func (s Step[T]) Err() error {
	return s.err
}

// IsTerminal reports whether the step ends the stream.
func (s Step[T]) IsTerminal() bool {
	return s.kind == stepFinish || s.kind == stepFinishWith || s.kind == stepFail
}

func (s Step[T]) completion() Completion {
	return Failure(s.err)
}
