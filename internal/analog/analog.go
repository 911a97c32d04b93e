// Package analog reads the two joystick axes from an ADC and reports them on
// the 10-bit scale used by the classifier.
package analog

import (
	"fmt"
	"math"
	"sync"

	"github.com/larsks/joyled/internal/joystick"
)

// Source produces joystick samples.
type Source interface {
	Read() (joystick.Sample, error)
	Close() error
	String() string
}

// Input driver names
const (
	DriverADS1115 = "ads1115"
	DriverFixed   = "fixed"
)

// Config selects the analog source.
type Config struct {
	Driver           string  `mapstructure:"driver"`
	I2CBus           string  `mapstructure:"i2c_bus"`
	I2CAddress       uint16  `mapstructure:"i2c_address"`
	XChannel         int     `mapstructure:"x_channel"`
	YChannel         int     `mapstructure:"y_channel"`
	ReferenceVoltage float64 `mapstructure:"reference_voltage"`
	FixedX           int     `mapstructure:"fixed_x"`
	FixedY           int     `mapstructure:"fixed_y"`
}

// Validate checks the driver name and channel assignments.
func (c Config) Validate() error {
	switch c.Driver {
	case DriverFixed:
		return nil
	case DriverADS1115:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDriver, c.Driver)
	}
	for _, ch := range []int{c.XChannel, c.YChannel} {
		if ch < 0 || ch > 3 {
			return fmt.Errorf("%w: %d", ErrInvalidChannel, ch)
		}
	}
	if c.XChannel == c.YChannel {
		return fmt.Errorf("%w: x and y both use channel %d", ErrInvalidChannel, c.XChannel)
	}
	if c.ReferenceVoltage <= 0 {
		return fmt.Errorf("%w: %v", ErrInvalidReference, c.ReferenceVoltage)
	}
	return nil
}

// Open creates the configured source.
func Open(c Config) (Source, error) {
	switch c.Driver {
	case DriverADS1115:
		return NewADS1115(c)
	case DriverFixed:
		return NewFixed(joystick.Sample{X: c.FixedX, Y: c.FixedY}), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, c.Driver)
}

// Scale maps volts in [0, reference] onto [0, joystick.MaxRaw], rounding to
// the nearest step and clamping out-of-range input.
func Scale(volts, reference float64) int {
	raw := int(math.Round(volts / reference * joystick.MaxRaw))
	return joystick.Sample{X: raw}.Clamp().X
}

// Fixed returns the same sample on every read until changed with Set.
type Fixed struct {
	sample joystick.Sample
	mutex  sync.RWMutex
}

func NewFixed(s joystick.Sample) *Fixed {
	return &Fixed{sample: s.Clamp()}
}

func (f *Fixed) Read() (joystick.Sample, error) {
	f.mutex.RLock()
	defer f.mutex.RUnlock()
	return f.sample, nil
}

// Set replaces the sample returned by Read.
func (f *Fixed) Set(s joystick.Sample) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.sample = s.Clamp()
}

func (f *Fixed) Close() error {
	return nil
}

func (f *Fixed) String() string {
	return fmt.Sprintf("fixed source %s", f.sample)
}
