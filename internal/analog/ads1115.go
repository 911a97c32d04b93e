package analog

import (
	"fmt"
	"log"

	"github.com/larsks/joyled/internal/joystick"
	"periph.io/x/conn/v3/analog"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/devices/v3/ads1x15"
	"periph.io/x/host/v3"
)

var adsChannels = [...]ads1x15.Channel{
	ads1x15.Channel0,
	ads1x15.Channel1,
	ads1x15.Channel2,
	ads1x15.Channel3,
}

// ADS1115 reads both axes from single-ended channels of an ADS1115.
type ADS1115 struct {
	bus       i2c.BusCloser
	dev       *ads1x15.Dev
	x, y      analog.PinADC
	reference float64
}

// NewADS1115 opens the I2C bus and prepares one pin per axis.
func NewADS1115(c Config) (*ADS1115, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPeriphInitFailed, err)
	}

	bus, err := i2creg.Open(c.I2CBus)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrBusOpenFailed, c.I2CBus, err)
	}

	opts := ads1x15.DefaultOpts
	if c.I2CAddress != 0 {
		opts.I2cAddress = c.I2CAddress
	}

	dev, err := ads1x15.NewADS1115(bus, &opts)
	if err != nil {
		bus.Close() //nolint:errcheck
		return nil, fmt.Errorf("%w: %v", ErrDeviceOpenFailed, err)
	}

	maxVoltage := physic.ElectricPotential(c.ReferenceVoltage * float64(physic.Volt))

	// 860 samples/s is the fastest data rate the part supports.
	x, err := dev.PinForChannel(adsChannels[c.XChannel], maxVoltage, 860*physic.Hertz, ads1x15.SaveEnergy)
	if err != nil {
		bus.Close() //nolint:errcheck
		return nil, fmt.Errorf("%w: x channel: %v", ErrDeviceOpenFailed, err)
	}
	y, err := dev.PinForChannel(adsChannels[c.YChannel], maxVoltage, 860*physic.Hertz, ads1x15.SaveEnergy)
	if err != nil {
		bus.Close() //nolint:errcheck
		return nil, fmt.Errorf("%w: y channel: %v", ErrDeviceOpenFailed, err)
	}

	log.Printf("opened ADS1115 on bus %q (x=A%d, y=A%d)", c.I2CBus, c.XChannel, c.YChannel)

	return &ADS1115{
		bus:       bus,
		dev:       dev,
		x:         x,
		y:         y,
		reference: c.ReferenceVoltage,
	}, nil
}

func (a *ADS1115) Read() (joystick.Sample, error) {
	xs, err := a.x.Read()
	if err != nil {
		return joystick.Sample{}, fmt.Errorf("%w: x: %v", ErrReadFailed, err)
	}
	ys, err := a.y.Read()
	if err != nil {
		return joystick.Sample{}, fmt.Errorf("%w: y: %v", ErrReadFailed, err)
	}

	return joystick.Sample{
		X: Scale(toVolts(xs.V), a.reference),
		Y: Scale(toVolts(ys.V), a.reference),
	}, nil
}

func (a *ADS1115) Close() error {
	if err := a.dev.Halt(); err != nil {
		log.Printf("failed to halt ADC: %v", err)
	}
	return a.bus.Close()
}

func (a *ADS1115) String() string {
	return fmt.Sprintf("ads1115 on %s", a.bus)
}

func toVolts(v physic.ElectricPotential) float64 {
	return float64(v) / float64(physic.Volt)
}
