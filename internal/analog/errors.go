package analog

import "errors"

// Configuration errors
var (
	ErrUnknownDriver    = errors.New("unknown analog driver")
	ErrInvalidChannel   = errors.New("invalid ADC channel")
	ErrInvalidReference = errors.New("reference voltage must be positive")
)

// Hardware errors
var (
	ErrPeriphInitFailed = errors.New("failed to initialize periph.io")
	ErrBusOpenFailed    = errors.New("failed to open I2C bus")
	ErrDeviceOpenFailed = errors.New("failed to open ADC")
	ErrReadFailed       = errors.New("failed to read ADC")
)
