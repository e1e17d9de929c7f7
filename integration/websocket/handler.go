package websocket

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/dmitrymomot/streamkit/core/stream"
)

type handlerConfig struct {
	upgrader       *websocket.Upgrader
	responseHeader http.Header
	session        func(context.Context, *websocket.Conn) error
	onConnect      func(context.Context, *websocket.Conn) error
	onDisconnect   func(context.Context, *websocket.Conn)
	onError        func(context.Context, error)
}

// HandlerOption configures Handler.
type HandlerOption func(*handlerConfig)

func WithReadBuffer(size int) HandlerOption {
	return func(c *handlerConfig) {
		c.upgrader.ReadBufferSize = size
	}
}

func WithWriteBuffer(size int) HandlerOption {
	return func(c *handlerConfig) {
		c.upgrader.WriteBufferSize = size
	}
}

func WithHandshakeTimeout(timeout time.Duration) HandlerOption {
	return func(c *handlerConfig) {
		c.upgrader.HandshakeTimeout = timeout
	}
}

func WithOriginCheck(fn func(r *http.Request) bool) HandlerOption {
	return func(c *handlerConfig) {
		c.upgrader.CheckOrigin = fn
	}
}

func WithAllowAnyOrigin() HandlerOption {
	return func(c *handlerConfig) {
		c.upgrader.CheckOrigin = func(r *http.Request) bool {
			return true
		}
	}
}

func WithSubprotocols(protocols ...string) HandlerOption {
	return func(c *handlerConfig) {
		c.upgrader.Subprotocols = protocols
	}
}

func WithUpgradeHeaders(header http.Header) HandlerOption {
	return func(c *handlerConfig) {
		c.responseHeader = header
	}
}

func WithOnConnect(fn func(context.Context, *websocket.Conn) error) HandlerOption {
	return func(c *handlerConfig) {
		c.onConnect = fn
	}
}

func WithOnDisconnect(fn func(context.Context, *websocket.Conn)) HandlerOption {
	return func(c *handlerConfig) {
		c.onDisconnect = fn
	}
}

func WithErrorHandler(fn func(context.Context, error)) HandlerOption {
	return func(c *handlerConfig) {
		c.onError = fn
	}
}

// Handler upgrades every request to a websocket connection and runs session on it.
// The connection is closed when session returns.
func Handler(session func(context.Context, *websocket.Conn) error, opts ...HandlerOption) http.Handler {
	cfg := &handlerConfig{
		upgrader: &websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		session: session,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := cfg.upgrader.Upgrade(w, r, cfg.responseHeader)
		if err != nil {
			cfg.reportError(r.Context(), err)
			return
		}
		defer func() {
			_ = conn.Close()
			if cfg.onDisconnect != nil {
				cfg.onDisconnect(r.Context(), conn)
			}
		}()

		if cfg.onConnect != nil {
			if err := cfg.onConnect(r.Context(), conn); err != nil {
				cfg.reportError(r.Context(), err)
				return
			}
		}

		if err := cfg.session(r.Context(), conn); err != nil {
			cfg.reportError(r.Context(), err)
		}
	})
}

// HandlerFromConfig creates a Handler with the upgrader settings of cfg. Additional
// options override config values.
func HandlerFromConfig(cfg Config, session func(context.Context, *websocket.Conn) error, opts ...HandlerOption) http.Handler {
	allOpts := append([]HandlerOption{
		WithReadBuffer(cfg.ReadBufferSize),
		WithWriteBuffer(cfg.WriteBufferSize),
		WithHandshakeTimeout(cfg.HandshakeTimeout),
	}, opts...)

	return Handler(session, allOpts...)
}

// Pipe runs a stream session: the messages read from conn are passed to transform and
// the result is written back to conn. It blocks until the output completes and returns
// the failure that ended it, if any.
func Pipe(ctx context.Context, conn *websocket.Conn, transform func(stream.Publisher[Message]) stream.Publisher[Message], opts ...Option) error {
	w := NewWriter(conn, opts...)
	transform(Messages(conn, opts...)).Subscribe(w)

	select {
	case <-w.Done():
		return w.Err()
	case <-ctx.Done():
		w.Cancel()
		return ctx.Err()
	}
}

func (c *handlerConfig) reportError(ctx context.Context, err error) {
	if c.onError != nil {
		c.onError(ctx, err)
	}
}
