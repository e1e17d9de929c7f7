package codec

import "errors"

var (
	ErrDecode = errors.New("codec: decode failed")
	ErrEncode = errors.New("codec: encode failed")
)
