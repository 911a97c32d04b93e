package hostmon

import "errors"

// Configuration errors
var (
	ErrConfigNotFound   = errors.New("config file not found")
	ErrInvalidBaud      = errors.New("baud rate must be positive")
	ErrNegativeDuration = errors.New("durations must not be negative")
	ErrInvalidConfig    = errors.New("invalid config type for joymon")
)

// Runtime errors
var (
	ErrNoPort      = errors.New("no serial port found")
	ErrOpenFailed  = errors.New("failed to open serial port")
	ErrLinkClosed  = errors.New("serial link closed")
	ErrWriteFailed = errors.New("failed to write to device")
)
