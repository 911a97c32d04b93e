package hostmon

import (
	"fmt"
	"io"
	"log"
	"time"

	"github.com/larsks/joyled/internal/hostlink"
	"github.com/larsks/joyled/internal/protocol"
)

// PortOpener abstracts opening the serial port for testing
type PortOpener interface {
	Open(port string, baud uint) (io.ReadWriteCloser, error)
}

// Logger interface abstracts logging for testing
type Logger interface {
	Printf(format string, v ...any)
	Println(v ...any)
}

// Reporter receives every telemetry line read from the device
type Reporter interface {
	Report(r Reading)
}

// Clock abstracts the wall clock for testing
type Clock interface {
	Now() time.Time
}

// Reading is one parsed telemetry line plus the rate observed since the
// previous one.
type Reading struct {
	protocol.Telemetry
	At time.Time
	// Rate is in Hz, zero for the first reading.
	Rate float64
}

func (r Reading) String() string {
	rate := "-"
	if r.Rate > 0 {
		rate = fmt.Sprintf("%.1f", r.Rate)
	}
	return fmt.Sprintf("dir=%s x=%.2fV y=%.2fV hz=%s", r.Direction, r.XVolts, r.YVolts, rate)
}

// RealPortOpener opens a serial port in 8N1 mode
type RealPortOpener struct{}

func (r *RealPortOpener) Open(port string, baud uint) (io.ReadWriteCloser, error) {
	return hostlink.OpenPort(port, baud)
}

// RealLogger implements Logger using the standard log package
type RealLogger struct{}

func (r *RealLogger) Printf(format string, v ...any) {
	log.Printf(format, v...)
}

func (r *RealLogger) Println(v ...any) {
	log.Println(v...)
}

// LogReporter logs each reading
type LogReporter struct {
	Logger Logger
}

func (r *LogReporter) Report(reading Reading) {
	r.Logger.Println(reading.String())
}

// RealClock implements Clock using time.Now
type RealClock struct{}

func (r *RealClock) Now() time.Time {
	return time.Now()
}
