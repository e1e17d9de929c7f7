package websocket_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	gorilla "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/streamkit/core/codec"
	"github.com/dmitrymomot/streamkit/core/stream"
	"github.com/dmitrymomot/streamkit/integration/websocket"
)

func serve(t *testing.T, session func(context.Context, *gorilla.Conn) error, opts ...websocket.HandlerOption) *gorilla.Conn {
	t.Helper()
	srv := httptest.NewServer(websocket.Handler(session, opts...))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, resp, err := gorilla.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	_ = resp.Body.Close()
	t.Cleanup(func() { _ = conn.Close() })
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	return conn
}

func echo(ctx context.Context, conn *gorilla.Conn) error {
	return websocket.Pipe(ctx, conn, func(in stream.Publisher[websocket.Message]) stream.Publisher[websocket.Message] {
		return in
	})
}

func TestEcho(t *testing.T) {
	t.Parallel()
	conn := serve(t, echo)

	require.NoError(t, conn.WriteMessage(gorilla.TextMessage, []byte("one")))
	require.NoError(t, conn.WriteMessage(gorilla.BinaryMessage, []byte{0x01, 0x02}))
	require.NoError(t, conn.WriteMessage(gorilla.TextMessage, []byte("three")))

	typ, data, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, gorilla.TextMessage, typ)
	assert.Equal(t, "one", string(data))

	typ, data, err = conn.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, gorilla.BinaryMessage, typ)
	assert.Equal(t, []byte{0x01, 0x02}, data)

	_, data, err = conn.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, "three", string(data))

	require.NoError(t, conn.WriteMessage(gorilla.CloseMessage, gorilla.FormatCloseMessage(gorilla.CloseNormalClosure, "")))
	_, _, err = conn.ReadMessage()
	assert.True(t, gorilla.IsCloseError(err, gorilla.CloseNormalClosure), "unexpected error: %v", err)
}

type request struct {
	N int `json:"n"`
}

type reply struct {
	Square int `json:"square"`
}

func TestPipelineWithCodec(t *testing.T) {
	t.Parallel()

	conn := serve(t, func(ctx context.Context, conn *gorilla.Conn) error {
		return websocket.Pipe(ctx, conn, func(in stream.Publisher[websocket.Message]) stream.Publisher[websocket.Message] {
			payloads := stream.Map(in, func(m websocket.Message) []byte { return m.Data })
			requests := codec.Decode[request](payloads, codec.JSON)
			replies := stream.Map(requests, func(r request) reply { return reply{Square: r.N * r.N} })
			return stream.Map(codec.Encode(replies, codec.JSON), func(b []byte) websocket.Message {
				return websocket.Text(string(b))
			})
		})
	})

	for _, n := range []int{2, 3} {
		require.NoError(t, conn.WriteJSON(request{N: n}))
		var r reply
		require.NoError(t, conn.ReadJSON(&r))
		assert.Equal(t, n*n, r.Square)
	}

	// An undecodable payload fails the server pipeline, which closes with an internal error.
	require.NoError(t, conn.WriteMessage(gorilla.TextMessage, []byte("garbage")))
	_, _, err := conn.ReadMessage()
	var closeErr *gorilla.CloseError
	require.True(t, errors.As(err, &closeErr), "unexpected error: %v", err)
	assert.Equal(t, gorilla.CloseInternalServerErr, closeErr.Code)
	assert.Contains(t, closeErr.Text, "codec: decode failed")
}

func TestWriterStream(t *testing.T) {
	t.Parallel()

	conn := serve(t, func(_ context.Context, conn *gorilla.Conn) error {
		w := websocket.NewWriter(conn)
		stream.FromSlice(websocket.Text("a"), websocket.Text("b")).Subscribe(w)
		<-w.Done()
		return w.Err()
	})

	for _, want := range []string{"a", "b"} {
		_, data, err := conn.ReadMessage()
		require.NoError(t, err)
		assert.Equal(t, want, string(data))
	}
	_, _, err := conn.ReadMessage()
	assert.True(t, gorilla.IsCloseError(err, gorilla.CloseNormalClosure), "unexpected error: %v", err)
}

func TestHandlerHooks(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	var events []string
	record := func(e string) {
		mu.Lock()
		defer mu.Unlock()
		events = append(events, e)
	}
	disconnected := make(chan struct{})

	conn := serve(t, echo,
		websocket.WithOnConnect(func(context.Context, *gorilla.Conn) error {
			record("connect")
			return nil
		}),
		websocket.WithOnDisconnect(func(context.Context, *gorilla.Conn) {
			record("disconnect")
			close(disconnected)
		}),
	)

	require.NoError(t, conn.WriteMessage(gorilla.CloseMessage, gorilla.FormatCloseMessage(gorilla.CloseNormalClosure, "")))

	select {
	case <-disconnected:
	case <-time.After(5 * time.Second):
		t.Fatal("session did not end")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"connect", "disconnect"}, events)
}

func TestHandlerUpgradeError(t *testing.T) {
	t.Parallel()

	errCh := make(chan error, 1)
	srv := httptest.NewServer(websocket.Handler(echo, websocket.WithErrorHandler(func(_ context.Context, err error) {
		errCh <- err
	})))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Error(t, <-errCh)
}

func TestConfig(t *testing.T) {
	t.Parallel()
	cfg := websocket.DefaultConfig()
	assert.Equal(t, int64(65536), cfg.ReadLimit)
	assert.Equal(t, 10*time.Second, cfg.WriteTimeout)

	srv := httptest.NewServer(websocket.HandlerFromConfig(cfg, echo))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, resp, err := gorilla.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	_ = resp.Body.Close()
	defer conn.Close()

	require.NoError(t, conn.WriteMessage(gorilla.TextMessage, []byte("ping")))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, "ping", string(data))
}
