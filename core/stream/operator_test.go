package stream_test

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/streamkit/core/stream"
	"github.com/dmitrymomot/streamkit/core/stream/streamtest"
)

func ints(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

func TestMap(t *testing.T) {
	t.Parallel()

	rec := streamtest.NewRecorder[string](stream.Unlimited)
	stream.Map(stream.FromSlice(1, 2, 3), strconv.Itoa).Subscribe(rec)

	assert.Equal(t, []string{"1", "2", "3"}, rec.Values())
	assert.Equal(t, []stream.Completion{stream.Finished}, rec.Completions())
}

func TestOperator_DemandPassesThrough(t *testing.T) {
	t.Parallel()

	rec := streamtest.NewRecorder[int](stream.Max(2))
	stream.Map(stream.FromSlice(ints(5)...), func(v int) int { return v * 10 }).Subscribe(rec)

	assert.Equal(t, []int{10, 20}, rec.Values())
	assert.Empty(t, rec.Completions())

	rec.Request(stream.Max(1))
	assert.Equal(t, []int{10, 20, 30}, rec.Values())
	assert.Empty(t, rec.Completions())

	rec.Request(stream.Unlimited)
	assert.Equal(t, []int{10, 20, 30, 40, 50}, rec.Values())
	assert.Equal(t, []stream.Completion{stream.Finished}, rec.Completions())
}

func TestFilter_SkippedValuesReplenishDemand(t *testing.T) {
	t.Parallel()

	src := streamtest.NewSource[int]()
	rec := streamtest.NewRecorder[int](stream.Max(1))
	stream.Filter[int](src, func(v int) bool { return v%2 == 0 }).Subscribe(rec)

	require.Equal(t, stream.Max(1), src.Requested())

	assert.Equal(t, stream.Max(1), src.Send(1))
	assert.Equal(t, stream.Max(2), src.Requested())
	assert.Empty(t, rec.Values())

	assert.Equal(t, stream.None, src.Send(2))
	assert.Equal(t, []int{2}, rec.Values())
	assert.Equal(t, stream.None, src.Last().Outstanding())
}

func TestTryMap_FailsOnError(t *testing.T) {
	t.Parallel()

	errBoom := errors.New("boom")
	src := streamtest.NewSource[int]()
	rec := streamtest.NewRecorder[int](stream.Unlimited)
	stream.TryMap[int](src, func(v int) (int, error) {
		if v == 2 {
			return 0, errBoom
		}
		return v, nil
	}).Subscribe(rec)

	src.Send(1)
	src.Send(2)
	src.Send(3)

	assert.Equal(t, []int{1}, rec.Values())
	require.Len(t, rec.Completions(), 1)
	c, _ := rec.Completion()
	assert.ErrorIs(t, c.Err(), errBoom)
	assert.Equal(t, 1, src.Cancels())
}

func TestOperator_TerminalStepDeliversOneCompletion(t *testing.T) {
	t.Parallel()

	src := streamtest.NewSource[int]()
	rec := streamtest.NewRecorder[int](stream.Unlimited)
	stream.Prefix[int](src, 2).Subscribe(rec)

	src.Send(1)
	src.Send(2)
	assert.Equal(t, stream.None, src.Send(3))
	src.Complete(stream.Finished)

	assert.Equal(t, []int{1, 2}, rec.Values())
	assert.Equal(t, []stream.Completion{stream.Finished}, rec.Completions())
	assert.Equal(t, 1, src.Cancels())
}

func TestOperator_CancelIsIdempotent(t *testing.T) {
	t.Parallel()

	src := streamtest.NewSource[int]()
	rec := streamtest.NewRecorder[int](stream.Unlimited)
	stream.Relay[int](src).Subscribe(rec)

	rec.Cancel()
	rec.Cancel()
	rec.Request(stream.Max(5))

	assert.Equal(t, 1, src.Cancels())
	assert.Equal(t, stream.Unlimited, src.Requested())

	assert.Equal(t, stream.None, src.Send(1))
	src.Complete(stream.Finished)
	assert.Empty(t, rec.Values())
	assert.Empty(t, rec.Completions())
}

func TestOperator_DuplicateSubscriptionIsCancelled(t *testing.T) {
	t.Parallel()

	first := &streamtest.SourceSubscription[int]{}
	second := &streamtest.SourceSubscription[int]{}
	upstream := stream.PublisherFunc[int](func(s stream.Subscriber[int]) {
		s.ReceiveSubscription(first)
		s.ReceiveSubscription(second)
	})

	rec := streamtest.NewRecorder[int](stream.Max(3))
	stream.Relay[int](upstream).Subscribe(rec)

	assert.Equal(t, 1, rec.Subscriptions())
	assert.Equal(t, stream.Max(3), first.Requested())
	assert.Equal(t, 0, first.Cancels())
	assert.Equal(t, 1, second.Cancels())
}

func TestOperator_ReentrantRequest(t *testing.T) {
	t.Parallel()

	rec := streamtest.NewRecorder[int](stream.Max(1))
	rec.OnValue = func(int) stream.Demand {
		rec.Request(stream.Max(1))
		return stream.None
	}
	stream.Map(stream.FromSlice(ints(1000)...), func(v int) int { return v }).Subscribe(rec)

	assert.Len(t, rec.Values(), 1000)
	assert.Equal(t, []stream.Completion{stream.Finished}, rec.Completions())
}

func TestOperator_StatePerSubscription(t *testing.T) {
	t.Parallel()

	p := stream.Drop(stream.FromSlice(1, 2, 3), 1)

	first := streamtest.NewRecorder[int](stream.Unlimited)
	second := streamtest.NewRecorder[int](stream.Unlimited)
	p.Subscribe(first)
	p.Subscribe(second)

	assert.Equal(t, []int{2, 3}, first.Values())
	assert.Equal(t, []int{2, 3}, second.Values())
}

func TestOperators(t *testing.T) {
	t.Parallel()

	errBad := errors.New("bad")
	tests := []struct {
		name    string
		build   func(stream.Publisher[int]) stream.Publisher[int]
		want    []int
		wantErr error
	}{
		{
			name: "filter",
			build: func(p stream.Publisher[int]) stream.Publisher[int] {
				return stream.Filter(p, func(v int) bool { return v > 3 })
			},
			want: []int{4, 5, 6},
		},
		{
			name: "try filter",
			build: func(p stream.Publisher[int]) stream.Publisher[int] {
				return stream.TryFilter(p, func(v int) (bool, error) {
					if v == 4 {
						return false, errBad
					}
					return v%2 == 1, nil
				})
			},
			want:    []int{1, 3},
			wantErr: errBad,
		},
		{
			name: "compact map",
			build: func(p stream.Publisher[int]) stream.Publisher[int] {
				return stream.CompactMap(p, func(v int) (int, bool) { return v * 2, v%3 == 0 })
			},
			want: []int{6, 12},
		},
		{
			name: "try compact map",
			build: func(p stream.Publisher[int]) stream.Publisher[int] {
				return stream.TryCompactMap(p, func(v int) (int, bool, error) {
					if v == 5 {
						return 0, false, errBad
					}
					return v, v > 2, nil
				})
			},
			want:    []int{3, 4},
			wantErr: errBad,
		},
		{
			name: "prefix while",
			build: func(p stream.Publisher[int]) stream.Publisher[int] {
				return stream.PrefixWhile(p, func(v int) bool { return v < 3 })
			},
			want: []int{1, 2},
		},
		{
			name: "try prefix while",
			build: func(p stream.Publisher[int]) stream.Publisher[int] {
				return stream.TryPrefixWhile(p, func(v int) (bool, error) {
					if v == 2 {
						return false, errBad
					}
					return true, nil
				})
			},
			want:    []int{1},
			wantErr: errBad,
		},
		{
			name: "drop while",
			build: func(p stream.Publisher[int]) stream.Publisher[int] {
				return stream.DropWhile(p, func(v int) bool { return v%4 != 0 })
			},
			want: []int{4, 5, 6},
		},
		{
			name: "try drop while",
			build: func(p stream.Publisher[int]) stream.Publisher[int] {
				return stream.TryDropWhile(p, func(v int) (bool, error) {
					if v == 3 {
						return false, errBad
					}
					return true, nil
				})
			},
			wantErr: errBad,
		},
		{
			name:  "prefix",
			build: func(p stream.Publisher[int]) stream.Publisher[int] { return stream.Prefix(p, 4) },
			want:  []int{1, 2, 3, 4},
		},
		{
			name:  "prefix zero",
			build: func(p stream.Publisher[int]) stream.Publisher[int] { return stream.Prefix(p, 0) },
		},
		{
			name:  "drop",
			build: func(p stream.Publisher[int]) stream.Publisher[int] { return stream.Drop(p, 4) },
			want:  []int{5, 6},
		},
		{
			name:  "output",
			build: func(p stream.Publisher[int]) stream.Publisher[int] { return stream.Output(p, 2) },
			want:  []int{3},
		},
		{
			name:  "output past end",
			build: func(p stream.Publisher[int]) stream.Publisher[int] { return stream.Output(p, 10) },
		},
		{
			name: "scan",
			build: func(p stream.Publisher[int]) stream.Publisher[int] {
				return stream.Scan(p, 0, func(acc, v int) int { return acc + v })
			},
			want: []int{1, 3, 6, 10, 15, 21},
		},
		{
			name: "try scan",
			build: func(p stream.Publisher[int]) stream.Publisher[int] {
				return stream.TryScan(p, 100, func(acc, v int) (int, error) {
					if v == 3 {
						return 0, errBad
					}
					return acc - v, nil
				})
			},
			want:    []int{99, 97},
			wantErr: errBad,
		},
		{
			name:  "ignore output",
			build: stream.IgnoreOutput[int],
		},
		{
			name:  "relay",
			build: stream.Relay[int],
			want:  []int{1, 2, 3, 4, 5, 6},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := streamtest.NewRecorder[int](stream.Unlimited)
			tt.build(stream.FromSlice(ints(6)...)).Subscribe(rec)

			if tt.want == nil {
				assert.Empty(t, rec.Values())
			} else {
				assert.Equal(t, tt.want, rec.Values())
			}
			require.Len(t, rec.Completions(), 1)
			c, _ := rec.Completion()
			if tt.wantErr != nil {
				assert.ErrorIs(t, c.Err(), tt.wantErr)
			} else {
				assert.True(t, c.IsFinished())
			}
		})
	}
}

func TestRemoveDuplicates(t *testing.T) {
	t.Parallel()

	rec := streamtest.NewRecorder[int](stream.Unlimited)
	stream.RemoveDuplicates(stream.FromSlice(1, 1, 2, 2, 2, 1, 3, 3)).Subscribe(rec)

	assert.Equal(t, []int{1, 2, 1, 3}, rec.Values())
}

func TestMapError(t *testing.T) {
	t.Parallel()

	errLow := errors.New("low level")
	errHigh := errors.New("high level")

	rec := streamtest.NewRecorder[int](stream.Unlimited)
	stream.MapError(stream.Failed[int](errLow), func(err error) error {
		return errors.Join(errHigh, err)
	}).Subscribe(rec)

	c, ok := rec.Completion()
	require.True(t, ok)
	assert.ErrorIs(t, c.Err(), errHigh)
	assert.ErrorIs(t, c.Err(), errLow)

	rec = streamtest.NewRecorder[int](stream.Unlimited)
	stream.MapError(stream.Just(1), func(error) error { return errHigh }).Subscribe(rec)
	assert.Equal(t, []int{1}, rec.Values())
	assert.Equal(t, []stream.Completion{stream.Finished}, rec.Completions())
}

func TestHandleEvents(t *testing.T) {
	t.Parallel()

	var (
		subscriptions int
		outputs       []int
		completions   int
		cancels       int
		requests      []stream.Demand
	)
	p := stream.HandleEvents(stream.FromSlice(1, 2, 3), stream.Events[int]{
		Subscription: func(stream.Subscription) { subscriptions++ },
		Output:       func(v int) { outputs = append(outputs, v) },
		Completion:   func(stream.Completion) { completions++ },
		Cancel:       func() { cancels++ },
		Request:      func(d stream.Demand) { requests = append(requests, d) },
	})

	rec := streamtest.NewRecorder[int](stream.Max(2))
	p.Subscribe(rec)
	rec.Cancel()
	rec.Cancel()

	assert.Equal(t, 1, subscriptions)
	assert.Equal(t, []int{1, 2}, outputs)
	assert.Equal(t, []int{1, 2}, rec.Values())
	assert.Equal(t, 0, completions)
	assert.Equal(t, 1, cancels)
	assert.Equal(t, []stream.Demand{stream.Max(2)}, requests)
}

func TestLift_CustomStep(t *testing.T) {
	t.Parallel()

	firstBig := stream.Lift(stream.FromSlice(1, 5, 2, 8), func() stream.StepFunc[int, string] {
		return func(v int) stream.Step[string] {
			if v > 3 {
				return stream.FinishWith(strconv.Itoa(v))
			}
			return stream.Skip[string]()
		}
	})

	rec := streamtest.NewRecorder[string](stream.Max(1))
	firstBig.Subscribe(rec)

	assert.Equal(t, []string{"5"}, rec.Values())
	assert.Equal(t, []stream.Completion{stream.Finished}, rec.Completions())
}

func TestStep(t *testing.T) {
	t.Parallel()

	v, ok := stream.Emit(3).Value()
	assert.True(t, ok)
	assert.Equal(t, 3, v)
	assert.False(t, stream.Emit(3).IsTerminal())

	_, ok = stream.Skip[int]().Value()
	assert.False(t, ok)

	v, ok = stream.FinishWith(4).Value()
	assert.True(t, ok)
	assert.Equal(t, 4, v)
	assert.True(t, stream.FinishWith(4).IsTerminal())

	assert.True(t, stream.Finish[int]().IsTerminal())
	assert.ErrorIs(t, stream.Fail[int](assert.AnError).Err(), assert.AnError)
	assert.NoError(t, stream.Fail[int](nil).Err())
	assert.True(t, stream.Fail[int](nil).IsTerminal())
}
