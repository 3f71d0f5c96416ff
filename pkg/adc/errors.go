package adc

import "errors"

var (
	ErrNotConnected     = errors.New("not connected")
	ErrAlreadyConnected = errors.New("already connected")
	ErrChannelMismatch  = errors.New("reply for unexpected channel")
	ErrTimeout          = errors.New("conversion timeout")
)
