// Package lock provides the mutual-exclusion primitives used by the stream engine.
//
// Two lock roles are kept distinct throughout the engine. An own-state lock protects
// demand counters, buffers and state enums; it is a plain, non-reentrant Mutex and must
// always be released before calling into a downstream or upstream. A downstream-call lock
// serializes deliveries to a single subscriber; it is a RecursiveMutex because a
// delivery may synchronously re-enter the same object (for example a subject feeding
// itself through an operator) on the same goroutine.
//
// # Usage
//
//	var state lock.Mutex
//	var downstream lock.RecursiveMutex
//
//	state.Do(func() {
//		demand = demand.Add(n)
//	})
//
//	downstream.Lock()
//	more := subscriber.Receive(value)
//	downstream.Unlock()
//
// # Recursive locking
//
// RecursiveMutex records the owning goroutine and a depth counter. A goroutine that already
// owns the lock may acquire it again; the lock is released when Unlock has been called as
// many times as Lock. Unlocking from a goroutine that does not own the lock is a programming
// error and panics.
package lock
