package scheduler

import (
	"cmp"
	"sync"
	"sync/atomic"
	"time"

	"github.com/emirpasic/gods/queues/priorityqueue"

	"github.com/dmitrymomot/streamkit/core/stream"
)

// Virtual is a scheduler driven by a manual clock. Nothing runs until Advance or Run is
// called, which makes time-based operators deterministic under test.
type Virtual struct {
	mu    sync.Mutex
	now   time.Time
	seq   uint64
	tasks *priorityqueue.Queue
}

type virtualTask struct {
	due       time.Time
	seq       uint64
	interval  time.Duration
	action    func()
	cancelled atomic.Bool
}

func (t *virtualTask) Cancel() { t.cancelled.Store(true) }

func byDue(a, b any) int {
	x, y := a.(*virtualTask), b.(*virtualTask)
	if c := x.due.Compare(y.due); c != 0 {
		return c
	}
	return cmp.Compare(x.seq, y.seq)
}

// NewVirtual creates a virtual scheduler whose clock starts at start.
func NewVirtual(start time.Time) *Virtual {
	return &Virtual{now: start, tasks: priorityqueue.NewWith(byDue)}
}

func (v *Virtual) Now() time.Time {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.now
}

func (v *Virtual) Schedule(action func()) {
	v.push(0, 0, action)
}

func (v *Virtual) ScheduleAfter(d time.Duration, action func()) stream.Cancellable {
	return v.push(d, 0, action)
}

func (v *Virtual) ScheduleEvery(after, interval time.Duration, action func()) stream.Cancellable {
	return v.push(after, interval, action)
}

func (v *Virtual) push(after, interval time.Duration, action func()) *virtualTask {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.seq++
	t := &virtualTask{due: v.now.Add(max(after, 0)), seq: v.seq, interval: interval, action: action}
	v.tasks.Enqueue(t)
	return t
}

// Advance moves the clock forward by d, running every action that becomes due on the way
// in due order. The clock reads each action's due time while it runs.
func (v *Virtual) Advance(d time.Duration) {
	v.mu.Lock()
	target := v.now.Add(d)
	v.mu.Unlock()

	v.runUntil(target)
}

// Run executes every action that is already due without moving the clock.
func (v *Virtual) Run() {
	v.runUntil(v.Now())
}

// Pending returns the number of scheduled actions, including cancelled ones not yet discarded.
func (v *Virtual) Pending() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.tasks.Size()
}

func (v *Virtual) runUntil(target time.Time) {
	for {
		v.mu.Lock()
		head, ok := v.tasks.Peek()
		if !ok || head.(*virtualTask).due.After(target) {
			if target.After(v.now) {
				v.now = target
			}
			v.mu.Unlock()
			return
		}
		v.tasks.Dequeue()
		t := head.(*virtualTask)
		if t.due.After(v.now) {
			v.now = t.due
		}
		if t.cancelled.Load() {
			v.mu.Unlock()
			continue
		}
		if t.interval > 0 {
			v.seq++
			t.due = t.due.Add(t.interval)
			t.seq = v.seq
			v.tasks.Enqueue(t)
		}
		v.mu.Unlock()

		t.action()
	}
}
