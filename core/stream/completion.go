package stream

// Completion is the terminal signal of a stream: either finished or a failure carrying
// an error. A subscription delivers at most one completion to each downstream.
type Completion struct {
	err error
}

// Finished is the completion of a stream that ended normally.
var Finished = Completion{}

// Failure returns a completion carrying err. A nil error yields Finished.
func Failure(err error) Completion {
	return Completion{err: err}
}

// Err returns the failure, or nil when the stream finished normally.
func (c Completion) Err() error {
	return c.err
}

// IsFinished reports whether the stream ended without an error.
func (c Completion) IsFinished() bool {
	return c.err == nil
}

func (c Completion) String() string {
	if c.err == nil {
		return "finished"
	}
	return "failure(" + c.err.Error() + ")"
}
