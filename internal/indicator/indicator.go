// Package indicator drives the four direction indicators. Callers work in
// logical on/off terms; the Driver converts intent into physical levels using
// a single polarity chosen at construction.
package indicator

import (
	"errors"
	"fmt"
	"log"

	"github.com/larsks/joyled/internal/joystick"
)

type (
	// Level is a physical signal level.
	Level bool

	Polarity int

	Channel int

	// Pin is one physical output line.
	Pin interface {
		Out(level Level) error
		Read() (Level, error)
		String() string
	}

	// Bank is an ordered set of pins, one per Channel, in Channel order.
	Bank interface {
		Pins() []Pin
		Close() error
		String() string
	}

	// OutputSet is the logical state of the indicators.
	OutputSet struct {
		Up    bool `json:"up"`
		Down  bool `json:"down"`
		Left  bool `json:"left"`
		Right bool `json:"right"`
	}

	// Driver maps logical indicator state onto a Bank.
	Driver struct {
		bank     Bank
		pins     []Pin
		polarity Polarity
		state    [NumChannels]bool
	}
)

const (
	Low  Level = false
	High Level = true
)

const (
	ActiveHigh Polarity = iota
	ActiveLow
)

const (
	Up Channel = iota
	Down
	Left
	Right

	NumChannels = 4
)

var channelNames = [...]string{Up: "up", Down: "down", Left: "left", Right: "right"}

func (l Level) String() string {
	if l {
		return "high"
	}
	return "low"
}

// PolarityFor returns ActiveLow when activeLow is set and ActiveHigh otherwise.
func PolarityFor(activeLow bool) Polarity {
	if activeLow {
		return ActiveLow
	}
	return ActiveHigh
}

// Level returns the physical level that expresses the logical state on.
func (p Polarity) Level(on bool) Level {
	if p == ActiveLow {
		return Level(!on)
	}
	return Level(on)
}

// IsOn reports whether the physical level l means "on" under p.
func (p Polarity) IsOn(l Level) bool {
	return l == p.Level(true)
}

func (p Polarity) String() string {
	switch p {
	case ActiveHigh:
		return "active-high"
	case ActiveLow:
		return "active-low"
	default:
		return "unknown"
	}
}

func (c Channel) String() string {
	if c < 0 || c >= NumChannels {
		return fmt.Sprintf("channel(%d)", int(c))
	}
	return channelNames[c]
}

// ChannelFor returns the indicator lit for d. Center lights nothing.
func ChannelFor(d joystick.Direction) (Channel, bool) {
	switch d {
	case joystick.Up:
		return Up, true
	case joystick.Down:
		return Down, true
	case joystick.Left:
		return Left, true
	case joystick.Right:
		return Right, true
	}
	return 0, false
}

// NewDriver wraps bank and turns every indicator off.
func NewDriver(bank Bank, polarity Polarity) (*Driver, error) {
	pins := bank.Pins()
	if len(pins) != NumChannels {
		return nil, fmt.Errorf("%w: %s has %d pins", ErrPinCount, bank, len(pins))
	}

	d := &Driver{
		bank:     bank,
		pins:     pins,
		polarity: polarity,
	}

	log.Printf("initializing indicators on %s (%s)", bank, polarity)
	if err := d.AllOff(); err != nil {
		return nil, err
	}
	return d, nil
}

// Polarity returns the polarity fixed at construction.
func (d *Driver) Polarity() Polarity {
	return d.polarity
}

// TurnOn drives ch to its "on" level.
func (d *Driver) TurnOn(ch Channel) error {
	return d.set(ch, true)
}

// TurnOff drives ch to its "off" level.
func (d *Driver) TurnOff(ch Channel) error {
	return d.set(ch, false)
}

func (d *Driver) set(ch Channel, on bool) error {
	if ch < 0 || ch >= NumChannels {
		return fmt.Errorf("%w: %d", ErrInvalidChannel, ch)
	}

	pin := d.pins[ch]
	if err := pin.Out(d.polarity.Level(on)); err != nil {
		sentinel := ErrTurnOff
		if on {
			sentinel = ErrTurnOn
		}
		return fmt.Errorf("%w %s (%s): %v", sentinel, ch, pin, err)
	}
	d.state[ch] = on
	return nil
}

// AllOff turns every indicator off. It attempts all channels even when one
// fails and returns the combined error.
func (d *Driver) AllOff() error {
	var errs []error
	for ch := Channel(0); ch < NumChannels; ch++ {
		if err := d.TurnOff(ch); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Show clears all indicators and then lights the one for dir, if any.
func (d *Driver) Show(dir joystick.Direction) error {
	if err := d.AllOff(); err != nil {
		return err
	}
	if ch, ok := ChannelFor(dir); ok {
		return d.TurnOn(ch)
	}
	return nil
}

// State returns the logical state last written to the indicators.
func (d *Driver) State() OutputSet {
	return OutputSet{
		Up:    d.state[Up],
		Down:  d.state[Down],
		Left:  d.state[Left],
		Right: d.state[Right],
	}
}

// Levels reads the physical level of every pin, in Channel order.
func (d *Driver) Levels() ([]Level, error) {
	levels := make([]Level, len(d.pins))
	for i, pin := range d.pins {
		l, err := pin.Read()
		if err != nil {
			return nil, fmt.Errorf("%w %s: %v", ErrReadLevel, pin, err)
		}
		levels[i] = l
	}
	return levels, nil
}

// Close turns everything off and releases the bank.
func (d *Driver) Close() error {
	log.Printf("closing indicators on %s", d.bank)
	if err := d.AllOff(); err != nil {
		log.Printf("failed to reset indicators: %v", err)
	}
	return d.bank.Close()
}

func (d *Driver) String() string {
	return fmt.Sprintf("indicators on %s (%s)", d.bank, d.polarity)
}

// Any reports whether any indicator is on.
func (s OutputSet) Any() bool {
	return s.Up || s.Down || s.Left || s.Right
}
