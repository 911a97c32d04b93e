package indicator

import (
	"fmt"
	"log"

	"github.com/warthog618/go-gpiocdev"
)

type (
	cdevPin struct {
		line    *gpiocdev.Line
		lineNum int
	}

	// GPIOCDevBank drives indicators through the Linux GPIO character device.
	GPIOCDevBank struct {
		chip     *gpiocdev.Chip
		chipName string
		pins     []*cdevPin
	}
)

// NewGPIOCDevBank requests each named line on chipName as an output at level
// initial.
func NewGPIOCDevBank(chipName string, pinNames []string, initial Level) (*GPIOCDevBank, error) {
	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %v", ErrChipOpenFailed, chipName, err)
	}

	bank := &GPIOCDevBank{
		chip:     chip,
		chipName: chipName,
	}

	for _, name := range pinNames {
		lineNum, err := ParsePinNumber(name)
		if err != nil {
			bank.Close() //nolint:errcheck
			return nil, err
		}

		line, err := chip.RequestLine(lineNum, gpiocdev.AsOutput(levelValue(initial)))
		if err != nil {
			bank.Close() //nolint:errcheck
			return nil, fmt.Errorf("%w: line %d: %v", ErrLineRequestFailed, lineNum, err)
		}

		bank.pins = append(bank.pins, &cdevPin{line: line, lineNum: lineNum})
	}

	return bank, nil
}

func (b *GPIOCDevBank) Pins() []Pin {
	pins := make([]Pin, len(b.pins))
	for i, p := range b.pins {
		pins[i] = p
	}
	return pins
}

func (b *GPIOCDevBank) Close() error {
	log.Printf("closing gpiocdev bank on %s", b.chipName)
	for _, p := range b.pins {
		if err := p.line.Close(); err != nil {
			log.Printf("failed to close GPIO line %d: %s", p.lineNum, err)
		}
	}
	if err := b.chip.Close(); err != nil {
		log.Printf("failed to close GPIO chip: %s", err)
	}
	return nil
}

func (b *GPIOCDevBank) String() string {
	return fmt.Sprintf("%s with %d lines", b.chipName, len(b.pins))
}

func (p *cdevPin) Out(level Level) error {
	return p.line.SetValue(levelValue(level))
}

func (p *cdevPin) Read() (Level, error) {
	v, err := p.line.Value()
	if err != nil {
		return Low, err
	}
	return v != 0, nil
}

func (p *cdevPin) String() string {
	return fmt.Sprintf("GPIO%d", p.lineNum)
}

func levelValue(l Level) int {
	if l {
		return 1
	}
	return 0
}
