package joyled

import "errors"

// Configuration errors
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrInvalidInterval = errors.New("interval must be positive")
	ErrInvalidPort     = errors.New("invalid listen port")
	ErrInvalidConfig   = errors.New("invalid config type")
)
