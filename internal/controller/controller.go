// Package controller runs the joystick control loop: it listens for START and
// STOP from the host, samples the joystick at a fixed cadence while running,
// drives the indicators and reports telemetry.
//
// The loop is single threaded. Each call to Step runs one pass to completion
// without blocking.
package controller

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/larsks/joyled/internal/analog"
	"github.com/larsks/joyled/internal/indicator"
	"github.com/larsks/joyled/internal/joystick"
	"github.com/larsks/joyled/internal/protocol"
)

// DefaultSampleInterval gives a 20 Hz telemetry rate.
const DefaultSampleInterval = 50 * time.Millisecond

// DefaultPollInterval is how long Run yields between passes.
const DefaultPollInterval = time.Millisecond

// RunState is the loop's mode.
type RunState int

const (
	Idle RunState = iota
	Running
)

func (s RunState) String() string {
	if s == Running {
		return "RUNNING"
	}
	return "IDLE"
}

type (
	// CommandSource hands out complete inbound lines without blocking.
	CommandSource interface {
		Poll() (string, bool)
	}

	// Reporter delivers outbound status lines. Delivery is best effort.
	Reporter interface {
		WriteLine(line string) error
	}

	// Outputs is the logical view of the indicators.
	Outputs interface {
		AllOff() error
		Show(dir joystick.Direction) error
		State() indicator.OutputSet
	}

	// Clock returns the time elapsed since some fixed origin. It must never
	// go backwards.
	Clock interface {
		Now() time.Duration
	}

	// Observer is told about mode changes and samples. Observers run on
	// the loop goroutine and must not block.
	Observer interface {
		StateChanged(state RunState)
		Sampled(t Telemetry)
	}

	Logger interface {
		Printf(format string, v ...any)
		Println(v ...any)
	}
)

// Telemetry describes one sampling tick.
type Telemetry struct {
	At        time.Duration       `json:"at"`
	Sample    joystick.Sample     `json:"sample"`
	XVolts    float64             `json:"x_volts"`
	YVolts    float64             `json:"y_volts"`
	Direction joystick.Direction  `json:"direction"`
	Outputs   indicator.OutputSet `json:"outputs"`
}

// Line renders t in the wire format.
func (t Telemetry) Line() string {
	return protocol.FormatTelemetry(protocol.Telemetry{
		XVolts:    t.XVolts,
		YVolts:    t.YVolts,
		Direction: t.Direction,
	})
}

// Options tunes a Loop. Zero values select the defaults.
type Options struct {
	SampleInterval time.Duration
	PollInterval   time.Duration
	Clock          Clock
	Logger         Logger
	Observers      []Observer
}

// Loop owns the run state and the cadence timestamp.
type Loop struct {
	commands CommandSource
	reporter Reporter
	source   analog.Source
	outputs  Outputs

	interval     time.Duration
	pollInterval time.Duration
	clock        Clock
	logger       Logger
	observers    []Observer

	state      RunState
	lastSample time.Duration
	idleFailed bool
}

// New creates a Loop in the Idle state.
func New(commands CommandSource, reporter Reporter, source analog.Source, outputs Outputs, opts Options) *Loop {
	l := &Loop{
		commands:     commands,
		reporter:     reporter,
		source:       source,
		outputs:      outputs,
		interval:     opts.SampleInterval,
		pollInterval: opts.PollInterval,
		clock:        opts.Clock,
		logger:       opts.Logger,
		observers:    opts.Observers,
	}

	if l.interval <= 0 {
		l.interval = DefaultSampleInterval
	}
	if l.pollInterval <= 0 {
		l.pollInterval = DefaultPollInterval
	}
	if l.clock == nil {
		l.clock = NewSystemClock()
	}
	if l.logger == nil {
		l.logger = &RealLogger{}
	}

	return l
}

// State returns the current mode.
func (l *Loop) State() RunState {
	return l.state
}

// Boot clears the indicators and announces readiness to the host.
func (l *Loop) Boot() error {
	if err := l.outputs.AllOff(); err != nil {
		return errors.Join(ErrBootFailed, err)
	}
	l.emit(protocol.ReadyLine)
	for _, o := range l.observers {
		o.StateChanged(l.state)
	}
	return nil
}

// Step runs one pass: handle at most one command, then either hold the
// indicators off (idle) or take a sample if the cadence gate allows it.
func (l *Loop) Step() {
	l.listen()

	if l.state != Running {
		l.holdOff()
		return
	}

	now := l.clock.Now()
	if now-l.lastSample < l.interval {
		return
	}
	l.lastSample = now

	l.sample(now)
}

// Run boots the loop and calls Step until ctx is cancelled. The indicators
// are turned off before it returns.
func (l *Loop) Run(ctx context.Context) error {
	if err := l.Boot(); err != nil {
		return err
	}

	l.logger.Printf("control loop started (sample interval %s)", l.interval)

	ticker := time.NewTicker(l.pollInterval)
	defer ticker.Stop()

	for {
		l.Step()

		select {
		case <-ctx.Done():
			l.logger.Println("control loop stopped")
			if err := l.outputs.AllOff(); err != nil {
				l.logger.Printf("failed to clear indicators: %v", err)
			}
			return nil
		case <-ticker.C:
		}
	}
}

func (l *Loop) listen() {
	line, ok := l.commands.Poll()
	if !ok {
		return
	}

	cmd, ok := protocol.ParseCommand(line)
	if !ok {
		return
	}

	switch cmd {
	case protocol.CommandStart:
		l.state = Running
	case protocol.CommandStop:
		l.state = Idle
		l.holdOff()
	}

	l.emit(protocol.StateLine(l.state == Running))
	for _, o := range l.observers {
		o.StateChanged(l.state)
	}
}

func (l *Loop) holdOff() {
	err := l.outputs.AllOff()
	switch {
	case err != nil && !l.idleFailed:
		l.logger.Printf("failed to clear indicators: %v", err)
		l.idleFailed = true
	case err == nil:
		l.idleFailed = false
	}
}

func (l *Loop) sample(now time.Duration) {
	s, err := l.source.Read()
	if err != nil {
		l.logger.Printf("failed to read joystick from %s: %v", l.source, err)
		return
	}
	s = s.Clamp()

	dir := joystick.Classify(s)
	if err := l.outputs.Show(dir); err != nil {
		l.logger.Printf("failed to show %s: %v", dir, err)
	}

	t := Telemetry{
		At:        now,
		Sample:    s,
		XVolts:    joystick.Volts(s.X),
		YVolts:    joystick.Volts(s.Y),
		Direction: dir,
		Outputs:   l.outputs.State(),
	}

	l.emit(t.Line())
	for _, o := range l.observers {
		o.Sampled(t)
	}
}

func (l *Loop) emit(line string) {
	if err := l.reporter.WriteLine(line); err != nil {
		l.logger.Printf("dropped status %q: %v", line, err)
	}
}

// SystemClock measures time since it was created using the runtime's
// monotonic clock.
type SystemClock struct {
	start time.Time
}

func NewSystemClock() *SystemClock {
	return &SystemClock{start: time.Now()}
}

func (c *SystemClock) Now() time.Duration {
	return time.Since(c.start)
}

// RealLogger implements Logger using the standard log package
type RealLogger struct{}

func (r *RealLogger) Printf(format string, v ...any) {
	log.Printf(format, v...)
}

func (r *RealLogger) Println(v ...any) {
	log.Println(v...)
}
