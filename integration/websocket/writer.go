package websocket

import (
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/dmitrymomot/streamkit/core/logger"
	"github.com/dmitrymomot/streamkit/core/stream"
)

// maxCloseReason is the room left for the reason in a close frame payload.
const maxCloseReason = 123

// Writer is a subscriber that writes every message it receives to a websocket connection.
//
// It requests one message at a time and writes synchronously. When the upstream
// finishes, Writer sends a normal close frame; when it fails, the close frame carries
// the error text with an internal-error code. The first write error cancels the upstream.
type Writer struct {
	conn *websocket.Conn
	opts *options

	mu   sync.Mutex
	sub  stream.Subscription
	err  error
	done chan struct{}
	once sync.Once
}

// NewWriter creates a Writer for conn. A connection supports one writer.
func NewWriter(conn *websocket.Conn, opts ...Option) *Writer {
	return &Writer{
		conn: conn,
		opts: newOptions(opts),
		done: make(chan struct{}),
	}
}

func (w *Writer) ReceiveSubscription(s stream.Subscription) {
	w.mu.Lock()
	if w.sub != nil || w.isDone() {
		w.mu.Unlock()
		s.Cancel()
		return
	}
	w.sub = s
	w.mu.Unlock()

	s.Request(stream.Max(1))
}

func (w *Writer) Receive(m Message) stream.Demand {
	if w.isDone() {
		return stream.None
	}

	if w.opts.writeTimeout > 0 {
		_ = w.conn.SetWriteDeadline(time.Now().Add(w.opts.writeTimeout))
	}
	if err := w.conn.WriteMessage(m.Type, m.Data); err != nil {
		w.opts.logger.Warn("websocket write failed",
			logger.Component("websocket.writer"),
			logger.Error(err))
		w.cancelUpstream()
		w.finish(fmt.Errorf("%w: %w", ErrWrite, err))
		return stream.None
	}
	return stream.Max(1)
}

func (w *Writer) ReceiveCompletion(c stream.Completion) {
	if w.isDone() {
		return
	}

	code, reason := websocket.CloseNormalClosure, ""
	if err := c.Err(); err != nil {
		code, reason = websocket.CloseInternalServerErr, err.Error()
		if len(reason) > maxCloseReason {
			reason = reason[:maxCloseReason]
		}
	}

	deadline := time.Now().Add(w.opts.writeTimeout)
	if err := w.conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason), deadline); err != nil {
		w.opts.logger.Debug("websocket close frame not sent",
			logger.Component("websocket.writer"),
			logger.Error(err))
	}
	w.finish(c.Err())
}

// Cancel stops writing and cancels the upstream without closing the connection.
func (w *Writer) Cancel() {
	w.cancelUpstream()
	w.finish(nil)
}

// Done is closed once the upstream completes, a write fails or Cancel is called.
func (w *Writer) Done() <-chan struct{} {
	return w.done
}

// Err returns the upstream failure or the write error that stopped the writer.
func (w *Writer) Err() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.err
}

func (w *Writer) cancelUpstream() {
	w.mu.Lock()
	sub := w.sub
	w.mu.Unlock()
	if sub != nil {
		sub.Cancel()
	}
}

func (w *Writer) finish(err error) {
	w.once.Do(func() {
		w.mu.Lock()
		w.err = err
		w.mu.Unlock()
		close(w.done)
	})
}

func (w *Writer) isDone() bool {
	select {
	case <-w.done:
		return true
	default:
		return false
	}
}
