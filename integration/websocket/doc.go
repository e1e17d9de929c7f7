// Package websocket connects streams to gorilla/websocket connections.
//
// Messages turns the inbound side of a connection into a stream.Publisher[Message] and
// Writer is a stream.Subscriber that writes messages back. Both respect backpressure:
// Messages reads ahead of demand only up to its buffer, and Writer requests one message
// at a time.
//
// Handler upgrades HTTP requests and runs a session per connection; Pipe wires the two
// directions of a connection through a transform:
//
//	http.Handle("/ws", websocket.Handler(func(ctx context.Context, conn *gorilla.Conn) error {
//		return websocket.Pipe(ctx, conn, func(in stream.Publisher[websocket.Message]) stream.Publisher[websocket.Message] {
//			return stream.Filter(in, func(m websocket.Message) bool { return m.Type == gorilla.TextMessage })
//		})
//	}, websocket.WithAllowAnyOrigin()))
//
// A peer close (normal or going away) finishes the inbound stream. When the outbound
// stream finishes, Writer sends a normal close frame; when it fails, the close frame
// carries code 1011 and the error text.
package websocket
