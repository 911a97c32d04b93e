package joystick

import "slices"

// Rule maps a sample to a direction when its predicate holds.
type Rule struct {
	Name      string
	Direction Direction
	Match     func(Sample) bool
}

// rules is the classification table, evaluated in order; the first match wins.
//
//	y <= 510  UP
//	y >= 525  DOWN
//	x <= 505  LEFT
//	x >= 515  RIGHT
//	otherwise CENTER
//
// The vertical rules come first, so a diagonal position always reports the
// vertical direction. The deadbands are not centred on 512 and differ between
// axes. Both properties are deliberate and must not be "fixed" here.
var rules = []Rule{
	{Name: "y<=510", Direction: Up, Match: func(s Sample) bool { return s.Y <= 510 }},
	{Name: "y>=525", Direction: Down, Match: func(s Sample) bool { return s.Y >= 525 }},
	{Name: "x<=505", Direction: Left, Match: func(s Sample) bool { return s.X <= 505 }},
	{Name: "x>=515", Direction: Right, Match: func(s Sample) bool { return s.X >= 515 }},
}

// Rules returns a copy of the classification table in evaluation order.
func Rules() []Rule {
	return slices.Clone(rules)
}

// Classify returns the direction for s according to the rules above.
func Classify(s Sample) Direction {
	for _, r := range rules {
		if r.Match(s) {
			return r.Direction
		}
	}
	return Center
}
