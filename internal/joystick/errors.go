package joystick

import "errors"

var (
	ErrUnknownDirection = errors.New("unknown direction")
)
