package indicator

import (
	"fmt"
	"strconv"
	"strings"
)

// Output driver names
const (
	DriverGPIOCDev = "gpiocdev"
	DriverPeriph   = "periph"
	DriverDummy    = "dummy"
)

// Config selects the output driver and assigns a pin to each channel.
type Config struct {
	Driver string `mapstructure:"driver"`
	Chip   string `mapstructure:"chip"`
	Up     string `mapstructure:"up"`
	Down   string `mapstructure:"down"`
	Left   string `mapstructure:"left"`
	Right  string `mapstructure:"right"`
}

// PinNames returns the configured pins in Channel order.
func (c Config) PinNames() []string {
	return []string{c.Up, c.Down, c.Left, c.Right}
}

// Validate checks that the driver is known and every channel has a pin.
func (c Config) Validate() error {
	switch c.Driver {
	case DriverGPIOCDev, DriverPeriph, DriverDummy:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDriver, c.Driver)
	}
	if c.Driver == DriverDummy {
		return nil
	}
	for i, name := range c.PinNames() {
		if name == "" {
			return fmt.Errorf("%w: no pin for %s", ErrInvalidPinName, Channel(i))
		}
		if c.Driver == DriverGPIOCDev {
			if _, err := ParsePinNumber(name); err != nil {
				return err
			}
		}
	}
	return nil
}

// OpenBank opens the configured bank with every pin at the "off" level for
// polarity.
func OpenBank(c Config, polarity Polarity) (Bank, error) {
	off := polarity.Level(false)
	switch c.Driver {
	case DriverGPIOCDev:
		return NewGPIOCDevBank(c.Chip, c.PinNames(), off)
	case DriverPeriph:
		return NewPeriphBank(c.PinNames(), off)
	case DriverDummy:
		return NewDummyBank(NumChannels, off), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, c.Driver)
}

// ParsePinNumber parses a GPIO pin name (e.g., "GPIO16") and returns the line number
// Supports both "GPIO<number>" and "<number>" formats
func ParsePinNumber(pinName string) (int, error) {
	if lineNum, err := strconv.Atoi(pinName); err == nil && lineNum >= 0 {
		return lineNum, nil
	}

	upper := strings.ToUpper(strings.TrimSpace(pinName))
	if numStr, ok := strings.CutPrefix(upper, "GPIO"); ok {
		if lineNum, err := strconv.Atoi(numStr); err == nil && lineNum >= 0 {
			return lineNum, nil
		}
	}

	return 0, fmt.Errorf("%w: %s (expected format: GPIO<number> or <number>)", ErrInvalidPinName, pinName)
}
