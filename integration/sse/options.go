package sse

import (
	"log/slog"
	"time"

	"github.com/dmitrymomot/streamkit/core/codec"
	"github.com/dmitrymomot/streamkit/core/logger"
)

type handlerOptions[T any] struct {
	eventName   string
	idGen       func(T) string
	reconnect   time.Duration
	keepAlive   time.Duration
	noKeepAlive bool
	encoder     codec.Encoder
	logger      *slog.Logger
}

// Option configures Handler.
type Option[T any] func(*handlerOptions[T])

// WithEventName sets the event field of every event.
func WithEventName[T any](name string) Option[T] {
	return func(o *handlerOptions[T]) {
		o.eventName = name
	}
}

// WithEventIDGenerator derives the id field of every event from its value.
func WithEventIDGenerator[T any](fn func(T) string) Option[T] {
	return func(o *handlerOptions[T]) {
		o.idGen = fn
	}
}

// WithReconnectTime tells the client how long to wait before reconnecting.
func WithReconnectTime[T any](d time.Duration) Option[T] {
	return func(o *handlerOptions[T]) {
		o.reconnect = d
	}
}

// WithKeepAlive sets the interval of comment lines sent while the stream is idle.
func WithKeepAlive[T any](interval time.Duration) Option[T] {
	return func(o *handlerOptions[T]) {
		o.keepAlive = interval
	}
}

func WithoutKeepAlive[T any]() Option[T] {
	return func(o *handlerOptions[T]) {
		o.noKeepAlive = true
	}
}

// WithEncoder sets the encoder for values that are neither strings nor byte slices.
// Defaults to codec.JSON.
func WithEncoder[T any](enc codec.Encoder) Option[T] {
	return func(o *handlerOptions[T]) {
		if enc != nil {
			o.encoder = enc
		}
	}
}

func WithLogger[T any](l *slog.Logger) Option[T] {
	return func(o *handlerOptions[T]) {
		if l != nil {
			o.logger = l
		}
	}
}

func newOptions[T any](opts []Option[T]) *handlerOptions[T] {
	o := &handlerOptions[T]{
		keepAlive: 30 * time.Second,
		encoder:   codec.JSON,
		logger:    logger.Discard(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
