package stream

import "errors"

// ErrNegativeDemand is the panic value raised by Max for negative counts.
var ErrNegativeDemand = errors.New("stream: demand cannot be negative")
