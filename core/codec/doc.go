// Package codec provides stream operators that decode and encode payloads.
//
// Decode and Encode take any Decoder or Encoder; JSON and YAML are built in. A payload
// that cannot be converted fails the stream with an error wrapping ErrDecode or
// ErrEncode, and the upstream is cancelled.
//
//	events := codec.Decode[Event](frames, codec.JSON)
//	out := codec.Encode(events, codec.YAML)
//
// Extract pulls one field out of JSON payloads by gjson path without decoding the rest.
package codec
