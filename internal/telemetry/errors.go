package telemetry

import "errors"

var (
	ErrDisplayOpen = errors.New("failed to initialize display")
)
