package indicator

import (
	"fmt"
	"log"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

type (
	periphPin struct {
		pin gpio.PinIO
	}

	// PeriphBank drives indicators through periph.io's GPIO registry.
	PeriphBank struct {
		pins []*periphPin
	}
)

// NewPeriphBank looks up each pin by name and configures it as an output at
// level initial.
func NewPeriphBank(pinNames []string, initial Level) (*PeriphBank, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPeriphInitFailed, err)
	}

	bank := &PeriphBank{}
	for _, name := range pinNames {
		pin := gpioreg.ByName(name)
		if pin == nil {
			return nil, fmt.Errorf("%w %s", ErrPinNotFound, name)
		}
		p := &periphPin{pin: pin}
		if err := p.Out(initial); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrLineRequestFailed, name, err)
		}
		bank.pins = append(bank.pins, p)
	}

	return bank, nil
}

func (b *PeriphBank) Pins() []Pin {
	pins := make([]Pin, len(b.pins))
	for i, p := range b.pins {
		pins[i] = p
	}
	return pins
}

// Close is a no-op; periph pins stay configured after the process exits.
func (b *PeriphBank) Close() error {
	log.Printf("closing periph bank")
	return nil
}

func (b *PeriphBank) String() string {
	return fmt.Sprintf("periph bank with %d pins", len(b.pins))
}

func (p *periphPin) Out(level Level) error {
	l := gpio.Low
	if level {
		l = gpio.High
	}
	return p.pin.Out(l)
}

func (p *periphPin) Read() (Level, error) {
	return p.pin.Read() == gpio.High, nil
}

func (p *periphPin) String() string {
	return p.pin.Name()
}
