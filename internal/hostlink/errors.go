package hostlink

import "errors"

// Configuration errors
var (
	ErrUnknownDriver = errors.New("unknown host link driver")
	ErrMissingPort   = errors.New("serial port must be set")
	ErrInvalidBaud   = errors.New("baud rate must be non-zero")
)

// Transport errors
var (
	ErrPortOpenFailed = errors.New("failed to open serial port")
	ErrWriteFailed    = errors.New("failed to write to host")
)
