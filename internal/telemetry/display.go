package telemetry

import (
	"fmt"
	"log"

	"github.com/larsks/display1306/v2/display"
	"github.com/larsks/display1306/v2/display/fakedriver"
)

// Screen is the subset of the SSD1306 display used here.
type Screen interface {
	Init() error
	ClearScreen() error
	PrintLines(start int, lines []string) error
	Update() error
	Close() error
}

// OpenDisplay opens the OLED display, or a fake one when dryRun is set.
func OpenDisplay(dryRun bool) (*display.Display, error) {
	var d *display.Display
	var err error

	if dryRun {
		d, err = display.NewDisplay().WithDriver(fakedriver.NewFakeSSD1306()).Build()
	} else {
		d, err = display.NewDisplay().Build()
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDisplayOpen, err)
	}
	if err := d.Init(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDisplayOpen, err)
	}
	return d, nil
}

// DisplayLines renders an event as screen lines.
func DisplayLines(ev Event) []string {
	if ev.Telemetry == nil {
		return []string{"joyled", "state: " + ev.State.String()}
	}
	t := ev.Telemetry
	return []string{
		"joyled",
		"state: " + ev.State.String(),
		fmt.Sprintf("x: %.2f V", t.XVolts),
		fmt.Sprintf("y: %.2f V", t.YVolts),
		"dir: " + t.Direction.String(),
	}
}

// NewDisplayObserver shows the run state and latest sample on screen. An
// event still waiting when a newer one arrives is never drawn.
func NewDisplayObserver(screen Screen) *Async {
	return NewLatest("display", func(ev Event) {
		if err := screen.ClearScreen(); err != nil {
			log.Printf("display clear failed: %v", err)
			return
		}
		if err := screen.PrintLines(0, DisplayLines(ev)); err != nil {
			log.Printf("display print failed: %v", err)
			return
		}
		if err := screen.Update(); err != nil {
			log.Printf("display update failed: %v", err)
		}
	})
}
