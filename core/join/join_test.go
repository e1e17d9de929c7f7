package join_test

import (
	"errors"
	"testing"
	"time"

	"github.com/sourcegraph/conc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/dmitrymomot/streamkit/core/join"
	"github.com/dmitrymomot/streamkit/core/stream"
	"github.com/dmitrymomot/streamkit/core/stream/streamtest"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type pair = join.Tuple2[int, int]

func TestCombineLatest2(t *testing.T) {
	t.Parallel()

	a := streamtest.NewSource[int]()
	b := streamtest.NewSource[int]()
	rec := streamtest.NewRecorder[pair](stream.Unlimited)
	join.CombineLatest2[int, int](a, b).Subscribe(rec)

	a.Send(1)
	assert.Empty(t, rec.Values())

	b.Send(10)
	a.Send(2)
	a.Complete(stream.Finished)
	assert.Empty(t, rec.Completions())

	b.Send(20)
	b.Send(30)
	b.Complete(stream.Finished)

	assert.Equal(t, []pair{{1, 10}, {2, 10}, {2, 20}, {2, 30}}, rec.Values())
	assert.Equal(t, []stream.Completion{stream.Finished}, rec.Completions())
	assert.Equal(t, 0, a.Cancels())
	assert.Equal(t, 0, b.Cancels())
}

func TestCombineLatest2_Sequences(t *testing.T) {
	t.Parallel()

	rec := streamtest.NewRecorder[pair](stream.Unlimited)
	join.CombineLatest2(stream.FromSlice(1, 2), stream.FromSlice(10, 20, 30)).Subscribe(rec)

	assert.Equal(t, []pair{{2, 10}, {2, 20}, {2, 30}}, rec.Values())
	assert.Equal(t, []stream.Completion{stream.Finished}, rec.Completions())
}

func TestCombineLatest_BroadcastsDemand(t *testing.T) {
	t.Parallel()

	a := streamtest.NewSource[int]()
	b := streamtest.NewSource[int]()
	rec := streamtest.NewRecorder[pair](stream.Max(1))
	join.CombineLatest2[int, int](a, b).Subscribe(rec)

	assert.Equal(t, stream.Max(1), a.Requested())
	assert.Equal(t, stream.Max(1), b.Requested())

	a.Send(1)
	b.Send(2)
	a.Send(5)
	assert.Equal(t, []pair{{1, 2}}, rec.Values())

	rec.Request(stream.Max(1))
	assert.Equal(t, stream.Max(2), a.Requested())
	assert.Equal(t, stream.Max(2), b.Requested())
	assert.Equal(t, []pair{{1, 2}, {5, 2}}, rec.Values())

	rec.Request(stream.Max(1))
	assert.Len(t, rec.Values(), 2)
	b.Send(6)
	assert.Equal(t, []pair{{1, 2}, {5, 2}, {5, 6}}, rec.Values())
}

func TestCombineLatest3_FailFast(t *testing.T) {
	t.Parallel()

	errUpstream := errors.New("upstream failed")
	s1 := streamtest.NewSource[int]()
	s2 := streamtest.NewSource[string]()
	s3 := streamtest.NewSource[bool]()
	rec := streamtest.NewRecorder[join.Tuple3[int, string, bool]](stream.Unlimited)
	join.CombineLatest3[int, string, bool](s1, s2, s3).Subscribe(rec)

	s1.Send(1)
	s3.Send(true)
	s2.Complete(stream.Failure(errUpstream))

	s1.Send(2)
	s3.Complete(stream.Finished)
	s1.Complete(stream.Failure(errors.New("late")))

	assert.Empty(t, rec.Values())
	require.Len(t, rec.Completions(), 1)
	c, _ := rec.Completion()
	assert.ErrorIs(t, c.Err(), errUpstream)
	assert.Equal(t, 1, s1.Cancels())
	assert.Equal(t, 0, s2.Cancels())
	assert.Equal(t, 1, s3.Cancels())
}

func TestCombineLatest_Cancel(t *testing.T) {
	t.Parallel()

	a := streamtest.NewSource[int]()
	b := streamtest.NewSource[int]()
	rec := streamtest.NewRecorder[pair](stream.Unlimited)
	join.CombineLatest2[int, int](a, b).Subscribe(rec)

	a.Send(1)
	rec.Cancel()
	rec.Cancel()
	b.Send(2)

	assert.Empty(t, rec.Values())
	assert.Equal(t, 1, a.Cancels())
	assert.Equal(t, 1, b.Cancels())
}

func TestCombineLatest_CancelledBeforeUpstreamsSubscribe(t *testing.T) {
	t.Parallel()

	a := streamtest.NewSource[int]()
	b := streamtest.NewSource[int]()
	join.CombineLatest2[int, int](a, b).Subscribe(stream.NewAnySubscriber[pair](
		func(s stream.Subscription) { s.Cancel() },
		nil,
		nil,
	))

	assert.Equal(t, 1, a.Cancels())
	assert.Equal(t, 1, b.Cancels())
}

func TestCombineLatestAll(t *testing.T) {
	t.Parallel()

	rec := streamtest.NewRecorder[[]int](stream.Unlimited)
	join.CombineLatestAll(stream.Just(1), stream.Just(2), stream.FromSlice(3, 4)).Subscribe(rec)
	assert.Equal(t, [][]int{{1, 2, 3}, {1, 2, 4}}, rec.Values())
	assert.Equal(t, []stream.Completion{stream.Finished}, rec.Completions())

	rec = streamtest.NewRecorder[[]int](stream.Unlimited)
	join.CombineLatestAll[int]().Subscribe(rec)
	assert.Empty(t, rec.Values())
	assert.Equal(t, []stream.Completion{stream.Finished}, rec.Completions())
}

func TestZip2(t *testing.T) {
	t.Parallel()

	a := streamtest.NewSource[int]()
	b := streamtest.NewSource[int]()
	rec := streamtest.NewRecorder[pair](stream.Unlimited)
	join.Zip2[int, int](a, b).Subscribe(rec)

	a.Send(1)
	a.Send(2)
	a.Send(3)
	b.Send(10)
	b.Send(20)
	assert.Empty(t, rec.Completions())

	b.Complete(stream.Finished)

	assert.Equal(t, []pair{{1, 10}, {2, 20}}, rec.Values())
	assert.Equal(t, []stream.Completion{stream.Finished}, rec.Completions())
	assert.Equal(t, 1, a.Cancels())
	assert.Equal(t, 0, b.Cancels())
}

func TestZip2_FinishedUpstreamWithBufferedValues(t *testing.T) {
	t.Parallel()

	a := streamtest.NewSource[int]()
	b := streamtest.NewSource[int]()
	rec := streamtest.NewRecorder[pair](stream.Unlimited)
	join.Zip2[int, int](a, b).Subscribe(rec)

	a.Send(1)
	a.Send(2)
	a.Complete(stream.Finished)
	assert.Empty(t, rec.Completions())

	b.Send(10)
	assert.Empty(t, rec.Completions())
	b.Send(20)

	assert.Equal(t, []pair{{1, 10}, {2, 20}}, rec.Values())
	assert.Equal(t, []stream.Completion{stream.Finished}, rec.Completions())
	assert.Equal(t, 1, b.Cancels())
}

func TestZip2_Sequences(t *testing.T) {
	t.Parallel()

	rec := streamtest.NewRecorder[pair](stream.Unlimited)
	join.Zip2(stream.FromSlice(1, 2, 3), stream.FromSlice(10, 20)).Subscribe(rec)

	assert.Equal(t, []pair{{1, 10}, {2, 20}}, rec.Values())
	assert.Equal(t, []stream.Completion{stream.Finished}, rec.Completions())
}

func TestZip_DemandCountsEmittedTuples(t *testing.T) {
	t.Parallel()

	a := streamtest.NewSource[int]()
	b := streamtest.NewSource[int]()
	rec := streamtest.NewRecorder[pair](stream.Max(1))
	join.Zip2[int, int](a, b).Subscribe(rec)

	a.Send(1)
	a.Send(2)
	b.Send(10)
	b.Send(20)
	assert.Equal(t, []pair{{1, 10}}, rec.Values())

	rec.Request(stream.Max(1))
	assert.Equal(t, []pair{{1, 10}, {2, 20}}, rec.Values())
}

func TestZip_ReentrantRequest(t *testing.T) {
	t.Parallel()

	const n = 500
	values := make([]int, n)
	for i := range values {
		values[i] = i
	}

	rec := streamtest.NewRecorder[pair](stream.Max(1))
	rec.OnValue = func(pair) stream.Demand {
		rec.Request(stream.Max(1))
		return stream.None
	}
	join.Zip2(stream.FromSlice(values...), stream.FromSlice(values...)).Subscribe(rec)

	got := rec.Values()
	require.Len(t, got, n)
	for i, p := range got {
		assert.Equal(t, pair{i, i}, p)
	}
	assert.Equal(t, []stream.Completion{stream.Finished}, rec.Completions())
}

func TestZip3_Failure(t *testing.T) {
	t.Parallel()

	a := streamtest.NewSource[int]()
	b := streamtest.NewSource[int]()
	c := streamtest.NewSource[int]()
	rec := streamtest.NewRecorder[join.Tuple3[int, int, int]](stream.Unlimited)
	join.Zip3[int, int, int](a, b, c).Subscribe(rec)

	a.Send(1)
	b.Complete(stream.Failure(assert.AnError))

	comp, ok := rec.Completion()
	require.True(t, ok)
	assert.ErrorIs(t, comp.Err(), assert.AnError)
	assert.Equal(t, 1, a.Cancels())
	assert.Equal(t, 0, b.Cancels())
	assert.Equal(t, 1, c.Cancels())
}

func TestZipAll(t *testing.T) {
	t.Parallel()

	rec := streamtest.NewRecorder[[]string](stream.Unlimited)
	join.ZipAll(
		stream.FromSlice("a", "b", "c"),
		stream.FromSlice("1", "2"),
		stream.FromSlice("x", "y", "z"),
	).Subscribe(rec)

	assert.Equal(t, [][]string{{"a", "1", "x"}, {"b", "2", "y"}}, rec.Values())
	assert.Equal(t, []stream.Completion{stream.Finished}, rec.Completions())
}

func TestZip4AndZip5(t *testing.T) {
	t.Parallel()

	rec4 := streamtest.NewRecorder[join.Tuple4[int, string, bool, float64]](stream.Unlimited)
	join.Zip4(stream.Just(1), stream.Just("a"), stream.Just(true), stream.Just(1.5)).Subscribe(rec4)
	assert.Equal(t, []join.Tuple4[int, string, bool, float64]{{1, "a", true, 1.5}}, rec4.Values())

	rec5 := streamtest.NewRecorder[join.Tuple5[int, int, int, int, error]](stream.Unlimited)
	join.Zip5(stream.Just(1), stream.Just(2), stream.Just(3), stream.Just(4), stream.Just[error](nil)).Subscribe(rec5)
	assert.Equal(t, []join.Tuple5[int, int, int, int, error]{{1, 2, 3, 4, nil}}, rec5.Values())
}

func TestCombineLatest4AndCombineLatest5(t *testing.T) {
	t.Parallel()

	rec4 := streamtest.NewRecorder[join.Tuple4[int, int, int, int]](stream.Unlimited)
	join.CombineLatest4(stream.Just(1), stream.Just(2), stream.Just(3), stream.FromSlice(4, 5)).Subscribe(rec4)
	assert.Equal(t, []join.Tuple4[int, int, int, int]{{1, 2, 3, 4}, {1, 2, 3, 5}}, rec4.Values())

	rec5 := streamtest.NewRecorder[join.Tuple5[int, int, int, int, int]](stream.Unlimited)
	join.CombineLatest5(stream.Just(1), stream.Just(2), stream.Just(3), stream.Just(4), stream.Just(5)).Subscribe(rec5)
	assert.Equal(t, []join.Tuple5[int, int, int, int, int]{{1, 2, 3, 4, 5}}, rec5.Values())
	assert.Len(t, rec5.Completions(), 1)
}

func TestZip_ConcurrentUpstreams(t *testing.T) {
	t.Parallel()

	const n = 1000
	left := make(chan int, n)
	right := make(chan int, n)

	var wg conc.WaitGroup
	wg.Go(func() {
		for i := range n {
			left <- i
		}
		close(left)
	})
	wg.Go(func() {
		for i := range n {
			right <- i * 2
		}
		close(right)
	})
	wg.Wait()

	rec := streamtest.NewRecorder[pair](stream.Unlimited)
	join.Zip2(stream.FromChannel(left), stream.FromChannel(right)).Subscribe(rec)

	require.Eventually(t, func() bool { return len(rec.Completions()) == 1 }, 5*time.Second, 5*time.Millisecond)
	got := rec.Values()
	require.Len(t, got, n)
	for i, p := range got {
		assert.Equal(t, pair{i, i * 2}, p)
	}
}

func TestCombineLatest_ConcurrentUpstreams(t *testing.T) {
	t.Parallel()

	const n = 500
	a := streamtest.NewSource[int]()
	b := streamtest.NewSource[int]()
	rec := streamtest.NewRecorder[pair](stream.Unlimited)
	join.CombineLatest2[int, int](a, b).Subscribe(rec)

	var wg conc.WaitGroup
	wg.Go(func() {
		for i := 1; i <= n; i++ {
			a.Send(i)
		}
		a.Complete(stream.Finished)
	})
	wg.Go(func() {
		for i := 1; i <= n; i++ {
			b.Send(-i)
		}
		b.Complete(stream.Finished)
	})
	wg.Wait()

	assert.Equal(t, []stream.Completion{stream.Finished}, rec.Completions())
	got := rec.Values()
	require.NotEmpty(t, got)
	assert.LessOrEqual(t, len(got), 2*n)
	assert.Equal(t, pair{n, -n}, got[len(got)-1])
}

func TestCombineLatest_NoValueAfterFailure(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	for range 2000 {
		a := streamtest.NewSource[int]()
		b := streamtest.NewSource[int]()
		rec := streamtest.NewRecorder[pair](stream.Unlimited)
		join.CombineLatest2[int, int](a, b).Subscribe(rec)
		a.Send(0)
		b.Send(0)

		var wg conc.WaitGroup
		wg.Go(func() { a.Send(1) })
		wg.Go(func() { b.Complete(stream.Failure(boom)) })
		wg.Wait()

		require.Zero(t, rec.Late())
		require.Equal(t, []stream.Completion{stream.Failure(boom)}, rec.Completions())
	}
}

func TestZip_NoValueAfterFailure(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	for range 2000 {
		a := streamtest.NewSource[int]()
		b := streamtest.NewSource[int]()
		c := streamtest.NewSource[int]()
		rec := streamtest.NewRecorder[join.Tuple3[int, int, int]](stream.Unlimited)
		join.Zip3[int, int, int](a, b, c).Subscribe(rec)
		a.Send(1)
		b.Send(1)

		var wg conc.WaitGroup
		wg.Go(func() { c.Send(1) })
		wg.Go(func() { a.Complete(stream.Failure(boom)) })
		wg.Wait()

		require.Zero(t, rec.Late())
		require.Len(t, rec.Completions(), 1)
	}
}

func TestZip_FailureDuringReceiveIsDeferred(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	a := streamtest.NewSource[int]()
	b := streamtest.NewSource[int]()
	rec := streamtest.NewRecorder[pair](stream.Unlimited)
	rec.OnValue = func(pair) stream.Demand {
		b.Complete(stream.Failure(boom))
		assert.Empty(t, rec.Completions())
		return stream.None
	}
	join.Zip2[int, int](a, b).Subscribe(rec)

	a.Send(1)
	b.Send(2)

	assert.Equal(t, []pair{{1, 2}}, rec.Values())
	assert.Equal(t, []stream.Completion{stream.Failure(boom)}, rec.Completions())
	assert.Equal(t, 1, a.Cancels())
}

func TestMerge(t *testing.T) {
	t.Parallel()

	t.Run("interleaves in arrival order", func(t *testing.T) {
		t.Parallel()
		a := streamtest.NewSource[int]()
		b := streamtest.NewSource[int]()
		rec := streamtest.NewRecorder[int](stream.Unlimited)
		join.Merge[int](a, b).Subscribe(rec)

		a.Send(1)
		b.Send(10)
		a.Send(2)
		a.Complete(stream.Finished)
		b.Send(20)
		assert.Empty(t, rec.Completions())

		b.Complete(stream.Finished)
		assert.Equal(t, []int{1, 10, 2, 20}, rec.Values())
		assert.Equal(t, []stream.Completion{stream.Finished}, rec.Completions())
	})

	t.Run("buffers values beyond demand", func(t *testing.T) {
		t.Parallel()
		rec := streamtest.NewRecorder[int](stream.Max(1))
		join.Merge(stream.FromSlice(1, 2), stream.FromSlice(3, 4)).Subscribe(rec)
		assert.Equal(t, []int{1}, rec.Values())
		assert.Empty(t, rec.Completions())

		rec.Request(stream.Max(10))
		assert.ElementsMatch(t, []int{1, 2, 3, 4}, rec.Values())
		assert.Equal(t, []stream.Completion{stream.Finished}, rec.Completions())
	})

	t.Run("fails fast", func(t *testing.T) {
		t.Parallel()
		boom := errors.New("boom")
		a := streamtest.NewSource[int]()
		b := streamtest.NewSource[int]()
		rec := streamtest.NewRecorder[int](stream.Unlimited)
		join.Merge[int](a, b).Subscribe(rec)

		a.Send(1)
		b.Complete(stream.Failure(boom))
		a.Send(2)

		assert.Equal(t, []int{1}, rec.Values())
		assert.Equal(t, []stream.Completion{stream.Failure(boom)}, rec.Completions())
		assert.Equal(t, 1, a.Cancels())
	})

	t.Run("no upstreams", func(t *testing.T) {
		t.Parallel()
		rec := streamtest.NewRecorder[int](stream.Unlimited)
		join.Merge[int]().Subscribe(rec)
		assert.Equal(t, []stream.Completion{stream.Finished}, rec.Completions())
	})
}
