package async

import "errors"

var (
	ErrTimeout   = errors.New("async: timeout waiting for future")
	ErrNoFutures = errors.New("async: no futures provided")
	ErrPanic     = errors.New("async: computation panicked")
)
