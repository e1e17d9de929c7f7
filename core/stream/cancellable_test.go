package stream_test

import (
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/streamkit/core/stream"
)

func TestAnyCancellable_CancelRunsOnce(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	c := stream.NewAnyCancellable(func() { calls.Add(1) })
	assert.False(t, c.IsCancelled())

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Cancel()
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	assert.True(t, c.IsCancelled())
}

func TestAnyCancellable_Identity(t *testing.T) {
	t.Parallel()

	a := stream.NewAnyCancellable(func() {})
	b := stream.NewAnyCancellable(func() {})
	assert.NotEqual(t, a.ID(), b.ID())
	assert.Same(t, a, stream.AsAnyCancellable(a))

	var cancelled bool
	wrapped := stream.AsAnyCancellable(cancelFunc(func() { cancelled = true }))
	wrapped.Cancel()
	assert.True(t, cancelled)
}

type cancelFunc func()

func (f cancelFunc) Cancel() { f() }

func TestAnyCancellable_CancelsWhenCollected(t *testing.T) {
	t.Parallel()

	var cancelled atomic.Bool
	func() {
		stream.NewAnyCancellable(func() { cancelled.Store(true) })
	}()

	require.Eventually(t, func() bool {
		runtime.GC()
		return cancelled.Load()
	}, 2*time.Second, 10*time.Millisecond)
}

func TestBag(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	var bag stream.Bag

	a := stream.NewAnyCancellable(func() { calls.Add(1) }).Store(&bag)
	stream.NewAnyCancellable(func() { calls.Add(1) }).Store(&bag)
	stream.NewAnyCancellable(func() { calls.Add(1) }).Store(&bag)
	assert.Equal(t, 3, bag.Len())

	assert.True(t, bag.Remove(a.ID()))
	assert.False(t, bag.Remove(a.ID()))
	assert.True(t, a.IsCancelled())
	assert.Equal(t, 2, bag.Len())

	bag.Cancel()
	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, 0, bag.Len())

	late := stream.NewAnyCancellable(func() { calls.Add(1) }).Store(&bag)
	assert.True(t, late.IsCancelled())
	assert.Equal(t, int32(4), calls.Load())
}
