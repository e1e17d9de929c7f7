package stream_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/streamkit/core/stream"
)

func TestDemand_Add(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a, b stream.Demand
		want stream.Demand
	}{
		{"finite", stream.Max(3), stream.Max(4), stream.Max(7)},
		{"none", stream.None, stream.None, stream.None},
		{"unlimited left", stream.Unlimited, stream.Max(1), stream.Unlimited},
		{"unlimited right", stream.Max(1), stream.Unlimited, stream.Unlimited},
		{"overflow saturates", stream.Unlimited - 1, stream.Max(5), stream.Unlimited},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.a.Add(tt.b))
		})
	}
}

func TestDemand_Sub(t *testing.T) {
	t.Parallel()

	assert.Equal(t, stream.Max(3), stream.Max(5).Sub(stream.Max(2)))
	assert.Equal(t, stream.None, stream.Max(3).Sub(stream.Max(5)))
	assert.Equal(t, stream.Unlimited, stream.Unlimited.Sub(stream.Max(5)))
	assert.Equal(t, stream.None, stream.Max(3).Sub(stream.Unlimited))
	assert.Equal(t, stream.Unlimited, stream.Unlimited.Sub(stream.Unlimited))
	assert.Equal(t, stream.None, stream.None.Dec())
	assert.Equal(t, stream.Unlimited, stream.Unlimited.Dec())
	assert.Equal(t, stream.Max(1), stream.Max(2).Dec())
}

func TestDemand_Ordering(t *testing.T) {
	t.Parallel()

	assert.Greater(t, stream.Unlimited, stream.Max(1<<40))
	assert.Less(t, stream.None, stream.Max(1))
	assert.Equal(t, stream.None, stream.Max(0))
}

func TestDemand_Max(t *testing.T) {
	t.Parallel()

	n, ok := stream.Max(4).Max()
	assert.True(t, ok)
	assert.Equal(t, 4, n)

	_, ok = stream.Unlimited.Max()
	assert.False(t, ok)
	assert.True(t, stream.Unlimited.IsUnlimited())

	assert.PanicsWithValue(t, stream.ErrNegativeDemand, func() { stream.Max(-1) })
}

func TestDemand_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "unlimited", stream.Unlimited.String())
	assert.Equal(t, "max(3)", stream.Max(3).String())
}

func TestCompletion(t *testing.T) {
	t.Parallel()

	assert.True(t, stream.Finished.IsFinished())
	assert.NoError(t, stream.Finished.Err())
	assert.Equal(t, "finished", stream.Finished.String())
	assert.Equal(t, stream.Finished, stream.Failure(nil))

	c := stream.Failure(assert.AnError)
	assert.False(t, c.IsFinished())
	assert.ErrorIs(t, c.Err(), assert.AnError)
	assert.Contains(t, c.String(), "failure(")
}
