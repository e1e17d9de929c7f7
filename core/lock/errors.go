package lock

import "errors"

// ErrNotOwner is the panic value raised when a RecursiveMutex is unlocked by a goroutine
// that does not hold it.
var ErrNotOwner = errors.New("lock: unlock of recursive mutex not owned by calling goroutine")
