package indicator

import "errors"

// Configuration errors
var (
	ErrPinCount       = errors.New("indicator bank must have exactly four pins")
	ErrInvalidPinName = errors.New("invalid GPIO pin")
	ErrUnknownDriver  = errors.New("unknown output driver")
)

// Hardware initialization errors
var (
	ErrChipOpenFailed    = errors.New("failed to open GPIO chip")
	ErrLineRequestFailed = errors.New("failed to request GPIO line")
	ErrPeriphInitFailed  = errors.New("failed to initialize periph.io")
	ErrPinNotFound       = errors.New("failed to find pin")
)

// Indicator operation errors
var (
	ErrInvalidChannel = errors.New("invalid indicator channel")
	ErrTurnOn         = errors.New("failed to turn on indicator")
	ErrTurnOff        = errors.New("failed to turn off indicator")
	ErrReadLevel      = errors.New("failed to read pin level")
)
