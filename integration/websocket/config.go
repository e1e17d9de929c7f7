package websocket

import "time"

// Config holds websocket connection settings with environment variable mapping.
type Config struct {
	ReadBufferSize   int           `env:"WS_READ_BUFFER_SIZE" envDefault:"1024"`
	WriteBufferSize  int           `env:"WS_WRITE_BUFFER_SIZE" envDefault:"1024"`
	HandshakeTimeout time.Duration `env:"WS_HANDSHAKE_TIMEOUT" envDefault:"10s"`
	ReadLimit        int64         `env:"WS_READ_LIMIT" envDefault:"65536"`
	WriteTimeout     time.Duration `env:"WS_WRITE_TIMEOUT" envDefault:"10s"`
	Buffer           int           `env:"WS_BUFFER" envDefault:"16"`
}

// DefaultConfig returns sensible defaults for production use.
func DefaultConfig() Config {
	return Config{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		HandshakeTimeout: 10 * time.Second,
		ReadLimit:        65536,
		WriteTimeout:     10 * time.Second,
		Buffer:           16,
	}
}
