package websocket

import (
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/dmitrymomot/streamkit/core/logger"
	"github.com/dmitrymomot/streamkit/core/stream"
)

// Message is one websocket frame. Type is websocket.TextMessage or websocket.BinaryMessage.
type Message struct {
	Type int
	Data []byte
}

// Text returns a text message.
func Text(s string) Message {
	return Message{Type: websocket.TextMessage, Data: []byte(s)}
}

// Binary returns a binary message.
func Binary(b []byte) Message {
	return Message{Type: websocket.BinaryMessage, Data: b}
}

type frame struct {
	msg Message
	err error
}

// Messages returns a publisher of the messages read from conn.
//
// A connection supports one reader, so Messages must be subscribed at most once. The
// read loop starts on subscription and reads ahead of demand up to the configured buffer.
// A normal or going-away close finishes the stream; any other read error fails it with
// ErrRead. Cancelling stops the read loop but leaves the connection open.
func Messages(conn *websocket.Conn, opts ...Option) stream.Publisher[Message] {
	o := newOptions(opts)

	return stream.Deferred(func() stream.Publisher[Message] {
		if o.readLimit > 0 {
			conn.SetReadLimit(o.readLimit)
		}

		frames := make(chan frame, o.buffer)
		quit := make(chan struct{})
		var once sync.Once
		stop := func() {
			once.Do(func() {
				close(quit)
				_ = conn.SetReadDeadline(time.Now())
			})
		}

		go readLoop(conn, frames, quit, o)

		p := stream.TryMap(stream.FromChannel(frames), func(f frame) (Message, error) {
			return f.msg, f.err
		})
		return stream.HandleEvents(p, stream.Events[Message]{
			Cancel:     stop,
			Completion: func(stream.Completion) { stop() },
		})
	})
}

func readLoop(conn *websocket.Conn, frames chan<- frame, quit <-chan struct{}, o *options) {
	defer close(frames)

	for {
		typ, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				o.logger.Debug("websocket closed by peer",
					logger.Component("websocket.messages"),
					logger.Key("remote", conn.RemoteAddr().String()))
				return
			}
			select {
			case <-quit:
				return
			default:
			}
			o.logger.Warn("websocket read failed",
				logger.Component("websocket.messages"),
				logger.Error(err))
			select {
			case frames <- frame{err: fmt.Errorf("%w: %w", ErrRead, err)}:
			case <-quit:
			}
			return
		}

		select {
		case frames <- frame{msg: Message{Type: typ, Data: data}}:
		case <-quit:
			return
		}
	}
}
