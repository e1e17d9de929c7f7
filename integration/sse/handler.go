package sse

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dmitrymomot/streamkit/core/logger"
	"github.com/dmitrymomot/streamkit/core/stream"
)

// Handler serves the stream returned by source as Server-Sent Events.
//
// source is called once per request. Values are requested one at a time: the next value
// is requested only after the previous event has been written and flushed, so a slow
// client slows the publisher down. A failure is written as an "error" event before the
// response ends. The subscription is cancelled when the client goes away.
func Handler[T any](source func(*http.Request) stream.Publisher[T], opts ...Option[T]) http.Handler {
	o := newOptions(opts)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("X-Accel-Buffering", "no")
		w.WriteHeader(http.StatusOK)

		_, _ = fmt.Fprintf(w, ": connected\n\n")
		if o.reconnect > 0 {
			_, _ = fmt.Fprintf(w, "retry: %d\n\n", o.reconnect.Milliseconds())
		}
		flusher.Flush()

		quit := make(chan struct{})
		defer close(quit)
		values := make(chan T, 1)
		done := make(chan stream.Completion, 1)

		sink := stream.NewSink(
			func(v T) {
				select {
				case values <- v:
				case <-quit:
				}
			},
			func(c stream.Completion) { done <- c },
			stream.WithSinkDemand(stream.Max(1), stream.None),
		)
		defer sink.Cancel()
		source(r).Subscribe(sink)

		var keepAliveTicker *time.Ticker
		var keepAliveChan <-chan time.Time
		if !o.noKeepAlive && o.keepAlive > 0 {
			keepAliveTicker = time.NewTicker(o.keepAlive)
			keepAliveChan = keepAliveTicker.C
			defer keepAliveTicker.Stop()
		}

		write := func(v T) bool {
			if keepAliveTicker != nil {
				keepAliveTicker.Reset(o.keepAlive)
			}
			if err := o.writeEvent(w, v); err != nil {
				o.logger.DebugContext(r.Context(), "sse write failed",
					logger.Component("sse"),
					logger.Error(err))
				return false
			}
			flusher.Flush()
			return true
		}

		for {
			select {
			case <-r.Context().Done():
				return

			case <-keepAliveChan:
				if _, err := fmt.Fprintf(w, ": keepalive\n\n"); err != nil {
					return
				}
				flusher.Flush()

			case v := <-values:
				if !write(v) {
					return
				}
				sink.Request(stream.Max(1))

			case c := <-done:
				select {
				case v := <-values:
					if !write(v) {
						return
					}
				default:
				}
				if err := c.Err(); err != nil {
					_ = writeFields(w, "error", "", []byte(err.Error()))
					flusher.Flush()
				}
				return
			}
		}
	})
}

func (o *handlerOptions[T]) writeEvent(w io.Writer, v T) error {
	var data []byte
	switch x := any(v).(type) {
	case string:
		data = []byte(x)
	case []byte:
		data = x
	default:
		encoded, err := o.encoder.Encode(v)
		if err != nil {
			return err
		}
		data = encoded
	}

	var id string
	if o.idGen != nil {
		id = o.idGen(v)
	}
	return writeFields(w, o.eventName, id, data)
}

// writeFields writes one event. Every line of data gets its own data field.
func writeFields(w io.Writer, event, id string, data []byte) error {
	var buf bytes.Buffer
	if event != "" {
		fmt.Fprintf(&buf, "event: %s\n", event)
	}
	if id != "" {
		fmt.Fprintf(&buf, "id: %s\n", id)
	}
	data = bytes.TrimRight(data, "\n")
	if len(data) == 0 {
		buf.WriteString("data: \n")
	}
	for line := range bytes.Lines(data) {
		buf.WriteString("data: ")
		buf.Write(bytes.TrimRight(line, "\r\n"))
		buf.WriteByte('\n')
	}
	buf.WriteByte('\n')

	_, err := w.Write(buf.Bytes())
	return err
}
