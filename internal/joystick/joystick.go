// Package joystick turns raw two-axis joystick samples into voltages and
// discrete directions.
package joystick

import (
	"fmt"
	"strings"
)

const (
	// MaxRaw is the full-scale reading of a 10-bit ADC.
	MaxRaw = 1023

	// FullScaleVolts is the voltage represented by MaxRaw.
	FullScaleVolts = 5.0
)

// Sample is one pair of raw axis readings, each in [0, MaxRaw].
type Sample struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Clamp returns s with both axes forced into [0, MaxRaw].
func (s Sample) Clamp() Sample {
	return Sample{X: clampRaw(s.X), Y: clampRaw(s.Y)}
}

func (s Sample) String() string {
	return fmt.Sprintf("(x=%d,y=%d)", s.X, s.Y)
}

func clampRaw(v int) int {
	switch {
	case v < 0:
		return 0
	case v > MaxRaw:
		return MaxRaw
	}
	return v
}

// Volts converts a raw reading to volts. The result is only reported; it
// plays no part in classification.
func Volts(raw int) float64 {
	return float64(raw) * FullScaleVolts / float64(MaxRaw)
}

// Direction is the classified joystick position.
type Direction int

const (
	Center Direction = iota
	Up
	Down
	Left
	Right
)

var directionNames = [...]string{
	Center: "CENTER",
	Up:     "UP",
	Down:   "DOWN",
	Left:   "LEFT",
	Right:  "RIGHT",
}

func (d Direction) String() string {
	if d < 0 || int(d) >= len(directionNames) {
		return fmt.Sprintf("Direction(%d)", int(d))
	}
	return directionNames[d]
}

// MarshalText encodes d as its name.
func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText decodes a direction name.
func (d *Direction) UnmarshalText(text []byte) error {
	v, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// ParseDirection converts the text form of a direction back into a Direction.
// Matching ignores case and surrounding space.
func ParseDirection(s string) (Direction, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for i, n := range directionNames {
		if n == name {
			return Direction(i), nil
		}
	}
	return Center, fmt.Errorf("%w: %q", ErrUnknownDirection, s)
}
