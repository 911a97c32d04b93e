// Package protocol defines the line-oriented text protocol spoken between the
// joystick controller and its host.
//
// Host to device:
//
//	START
//	STOP
//
// Device to host:
//
//	SYSTEM READY
//	STATE=RUNNING | STATE=STOPPED
//	x=<volts>,y=<volts>,dir=<CENTER|UP|DOWN|LEFT|RIGHT>
package protocol

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/larsks/joyled/internal/joystick"
)

// Command is a recognized host command.
type Command int

const (
	CommandNone Command = iota
	CommandStart
	CommandStop
)

const (
	StartCommand = "START"
	StopCommand  = "STOP"

	ReadyLine   = "SYSTEM READY"
	RunningLine = "STATE=RUNNING"
	StoppedLine = "STATE=STOPPED"

	statePrefix  = "STATE="
	systemPrefix = "SYSTEM"
)

func (c Command) String() string {
	switch c {
	case CommandStart:
		return StartCommand
	case CommandStop:
		return StopCommand
	}
	return "NONE"
}

// ParseCommand trims line and matches it exactly (case-sensitive) against the
// known commands. Unrecognized input returns CommandNone and false.
func ParseCommand(line string) (Command, bool) {
	switch strings.TrimSpace(line) {
	case StartCommand:
		return CommandStart, true
	case StopCommand:
		return CommandStop, true
	}
	return CommandNone, false
}

// StateLine returns the acknowledgement emitted after a mode change.
func StateLine(running bool) string {
	if running {
		return RunningLine
	}
	return StoppedLine
}

// Telemetry is the content of one telemetry line.
type Telemetry struct {
	XVolts    float64
	YVolts    float64
	Direction joystick.Direction
}

// FormatTelemetry renders t as a telemetry line without the terminator.
func FormatTelemetry(t Telemetry) string {
	return fmt.Sprintf("x=%.2f,y=%.2f,dir=%s", t.XVolts, t.YVolts, t.Direction)
}

// IsStatus reports whether line is a boot or mode change message rather than
// telemetry.
func IsStatus(line string) bool {
	line = strings.TrimSpace(line)
	return strings.HasPrefix(line, systemPrefix) || strings.HasPrefix(line, statePrefix)
}

// ParseTelemetry parses a telemetry line. Status lines and anything that is
// not three key=value fields return ErrNotTelemetry.
func ParseTelemetry(line string) (Telemetry, error) {
	line = strings.TrimSpace(line)
	if line == "" || IsStatus(line) {
		return Telemetry{}, ErrNotTelemetry
	}

	parts := strings.Split(line, ",")
	if len(parts) != 3 {
		return Telemetry{}, fmt.Errorf("%w: expected 3 fields, got %d", ErrNotTelemetry, len(parts))
	}

	values := make([]string, len(parts))
	for i, part := range parts {
		_, v, ok := strings.Cut(part, "=")
		if !ok {
			return Telemetry{}, fmt.Errorf("%w: field %q", ErrMalformedField, part)
		}
		values[i] = strings.TrimSpace(v)
	}

	x, err := strconv.ParseFloat(values[0], 64)
	if err != nil {
		return Telemetry{}, fmt.Errorf("%w: x: %v", ErrMalformedField, err)
	}
	y, err := strconv.ParseFloat(values[1], 64)
	if err != nil {
		return Telemetry{}, fmt.Errorf("%w: y: %v", ErrMalformedField, err)
	}
	dir, err := joystick.ParseDirection(values[2])
	if err != nil {
		return Telemetry{}, fmt.Errorf("%w: %v", ErrMalformedField, err)
	}

	return Telemetry{XVolts: x, YVolts: y, Direction: dir}, nil
}
