package nats

import "errors"

var ErrSinkClosed = errors.New("sink closed")
