package lock_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/streamkit/core/lock"
)

func TestMutex_Do(t *testing.T) {
	t.Parallel()

	var mu lock.Mutex
	var wg sync.WaitGroup
	counter := 0

	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				mu.Do(func() { counter++ })
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 5000, counter)
}

func TestMutex_TryLock(t *testing.T) {
	t.Parallel()

	var mu lock.Mutex
	require.True(t, mu.TryLock())
	assert.False(t, mu.TryLock())
	mu.Unlock()
	assert.True(t, mu.TryLock())
	mu.Unlock()
}

func TestWith(t *testing.T) {
	t.Parallel()

	var mu lock.Mutex
	got := lock.With(&mu, func() int { return 42 })
	assert.Equal(t, 42, got)
	assert.True(t, mu.TryLock(), "With must release the lock")
	mu.Unlock()
}

func TestRecursiveMutex_Reentrant(t *testing.T) {
	t.Parallel()

	var mu lock.RecursiveMutex
	depth := 0

	var enter func(n int)
	enter = func(n int) {
		mu.Lock()
		defer mu.Unlock()
		depth++
		if n > 0 {
			enter(n - 1)
		}
	}

	enter(5)
	assert.Equal(t, 6, depth)
	assert.False(t, mu.HeldByCurrent())
}

func TestRecursiveMutex_ExcludesOtherGoroutines(t *testing.T) {
	t.Parallel()

	var mu lock.RecursiveMutex
	mu.Lock()
	mu.Lock()

	acquired := make(chan struct{})
	go func() {
		mu.Lock()
		close(acquired)
		mu.Unlock()
	}()

	mu.Unlock()
	select {
	case <-acquired:
		t.Fatal("lock acquired by another goroutine while still held")
	case <-time.After(50 * time.Millisecond):
	}

	mu.Unlock()
	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("lock was not released")
	}
}

func TestRecursiveMutex_UnlockByNonOwnerPanics(t *testing.T) {
	t.Parallel()

	var mu lock.RecursiveMutex
	assert.PanicsWithValue(t, lock.ErrNotOwner, func() {
		mu.Unlock()
	})

	mu.Lock()
	defer mu.Unlock()

	panicked := make(chan any, 1)
	go func() {
		defer func() { panicked <- recover() }()
		mu.Unlock()
	}()
	assert.Equal(t, lock.ErrNotOwner, <-panicked)
}

func TestRecursiveMutex_Counter(t *testing.T) {
	t.Parallel()

	var mu lock.RecursiveMutex
	var wg sync.WaitGroup
	counter := 0

	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 200 {
				mu.Do(func() {
					mu.Do(func() { counter++ })
				})
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 4000, counter)
}
