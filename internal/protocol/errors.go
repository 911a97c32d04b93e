package protocol

import "errors"

// Telemetry parsing errors
var (
	ErrNotTelemetry   = errors.New("not a telemetry line")
	ErrMalformedField = errors.New("malformed telemetry field")
)
