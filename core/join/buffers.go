package join

// latest keeps the most recent value of every slot. A tuple is pending when every slot is
// filled and a slot changed since the last emission.
type latest struct {
	values  []any
	filled  []bool
	count   int
	pending bool
}

func newLatest(n int) buffer {
	return &latest{values: make([]any, n), filled: make([]bool, n)}
}

func (l *latest) store(i int, v any) {
	l.values[i] = v
	if !l.filled[i] {
		l.filled[i] = true
		l.count++
	}
	if l.count == len(l.values) {
		l.pending = true
	}
}

func (l *latest) ready() bool {
	return l.pending
}

func (l *latest) take() []any {
	l.pending = false
	out := make([]any, len(l.values))
	copy(out, l.values)
	return out
}

func (l *latest) exhausted(finished []bool) bool {
	for _, f := range finished {
		if !f {
			return false
		}
	}
	return true
}

// queues buffers every slot in FIFO order and pairs values index for index.
type queues struct {
	items [][]any
}

func newQueues(n int) buffer {
	return &queues{items: make([][]any, n)}
}

func (q *queues) store(i int, v any) {
	q.items[i] = append(q.items[i], v)
}

func (q *queues) ready() bool {
	for _, items := range q.items {
		if len(items) == 0 {
			return false
		}
	}
	return true
}

func (q *queues) take() []any {
	out := make([]any, len(q.items))
	for i, items := range q.items {
		out[i] = items[0]
		items[0] = nil
		q.items[i] = items[1:]
	}
	return out
}

// exhausted reports whether a finished slot has nothing left to pair.
func (q *queues) exhausted(finished []bool) bool {
	for i, f := range finished {
		if f && len(q.items[i]) == 0 {
			return true
		}
	}
	return false
}

// fifo interleaves the values of all slots in arrival order.
type fifo struct {
	items []any
}

func newFifo(int) buffer {
	return &fifo{}
}

func (f *fifo) store(_ int, v any) {
	f.items = append(f.items, v)
}

func (f *fifo) ready() bool {
	return len(f.items) > 0
}

func (f *fifo) take() []any {
	v := f.items[0]
	f.items[0] = nil
	f.items = f.items[1:]
	return []any{v}
}

// exhausted reports whether every slot finished and nothing is left to emit.
func (f *fifo) exhausted(finished []bool) bool {
	if len(f.items) > 0 {
		return false
	}
	for _, done := range finished {
		if !done {
			return false
		}
	}
	return true
}
