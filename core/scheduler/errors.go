package scheduler

import "errors"

var (
	ErrAlreadyStarted  = errors.New("scheduler: already started")
	ErrNotStarted      = errors.New("scheduler: not started")
	ErrShutdownTimeout = errors.New("scheduler: shutdown timeout exceeded")
)
