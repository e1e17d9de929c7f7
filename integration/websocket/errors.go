package websocket

import "errors"

var (
	ErrRead  = errors.New("websocket: read failed")
	ErrWrite = errors.New("websocket: write failed")
)
