package codec

import (
	"fmt"
	"log/slog"

	"github.com/tidwall/gjson"

	"github.com/dmitrymomot/streamkit/core/logger"
	"github.com/dmitrymomot/streamkit/core/stream"
)

// Decode decodes every payload of upstream into a T. The first payload that fails to
// decode cancels the upstream and fails the stream with an error wrapping ErrDecode.
func Decode[T any](upstream stream.Publisher[[]byte], dec Decoder, opts ...Option) stream.Publisher[T] {
	o := newOptions(opts)
	return stream.TryMap(upstream, func(data []byte) (T, error) {
		var v T
		if err := dec.Decode(data, &v); err != nil {
			o.logger.Debug("payload decode failed",
				logger.Component("codec"),
				slog.Int("size", len(data)),
				logger.Error(err))
			return v, fmt.Errorf("%w: %w", ErrDecode, err)
		}
		return v, nil
	})
}

// Encode encodes every value of upstream. The first value that fails to encode cancels
// the upstream and fails the stream with an error wrapping ErrEncode.
func Encode[T any](upstream stream.Publisher[T], enc Encoder, opts ...Option) stream.Publisher[[]byte] {
	o := newOptions(opts)
	return stream.TryMap(upstream, func(v T) ([]byte, error) {
		data, err := enc.Encode(v)
		if err != nil {
			o.logger.Debug("value encode failed",
				logger.Component("codec"),
				logger.Error(err))
			return nil, fmt.Errorf("%w: %w", ErrEncode, err)
		}
		return data, nil
	})
}

// Extract selects the value at a gjson path from every JSON payload and emits its raw
// JSON. Payloads without a match are skipped.
func Extract(upstream stream.Publisher[[]byte], path string) stream.Publisher[[]byte] {
	return stream.CompactMap(upstream, func(data []byte) ([]byte, bool) {
		r := gjson.GetBytes(data, path)
		if !r.Exists() {
			return nil, false
		}
		return []byte(r.Raw), true
	})
}
