// Package hostmon is the host side of the joystick link: it opens the
// device's serial port, waits for the boot banner, starts telemetry and
// reports each reading along with the observed sample rate.
package hostmon

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/larsks/joyled/internal/hostlink"
	"github.com/larsks/joyled/internal/protocol"
)

// DefaultPortPatterns are searched, in order, when no port is configured.
var DefaultPortPatterns = []string{"/dev/ttyACM*", "/dev/ttyUSB*"}

// Monitor drives one session with the device
type Monitor struct {
	config Config

	// Injected dependencies for testability
	opener   PortOpener
	logger   Logger
	reporter Reporter
	clock    Clock

	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewMonitor creates a Monitor with the given configuration and dependencies
func NewMonitor(config Config, opener PortOpener, logger Logger, reporter Reporter, clock Clock) (*Monitor, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &Monitor{
		config:   config,
		opener:   opener,
		logger:   logger,
		reporter: reporter,
		clock:    clock,
		stopCh:   make(chan struct{}),
	}, nil
}

// NewMonitorWithDefaults creates a Monitor with the real serial port, logger
// and clock
func NewMonitorWithDefaults(config Config) (*Monitor, error) {
	logger := &RealLogger{}
	return NewMonitor(config, &RealPortOpener{}, logger, &LogReporter{Logger: logger}, &RealClock{})
}

// DetectPort returns the first existing path matching patterns.
func DetectPort(patterns []string) (string, error) {
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return "", err
		}
		if len(matches) > 0 {
			return matches[0], nil
		}
	}
	return "", fmt.Errorf("%w (tried %s)", ErrNoPort, strings.Join(patterns, ", "))
}

// Start runs a session until ctx is cancelled, Stop is called, the
// configured duration elapses or the device goes away. STOP is sent to the
// device before Start returns.
func (m *Monitor) Start(ctx context.Context) error {
	port := m.config.Port
	if port == "" {
		var err error
		if port, err = DetectPort(DefaultPortPatterns); err != nil {
			return err
		}
	}

	conn, err := m.opener.Open(port, m.config.Baud)
	if err != nil {
		return fmt.Errorf("%w %s: %v", ErrOpenFailed, port, err)
	}
	defer conn.Close() //nolint:errcheck
	m.logger.Printf("opened %s at %d baud", port, m.config.Baud)

	// Opening the port usually resets the board.
	if !m.wait(ctx, m.config.ResetDelay) {
		return nil
	}

	done := make(chan struct{})
	defer close(done)
	lines := readLines(conn, done)

	if m.waitReady(ctx, lines) {
		m.logger.Println("device is ready")
	} else {
		m.logger.Printf("no %q within %s, starting anyway", protocol.ReadyLine, m.config.ReadyTimeout)
	}

	// Boot chatter still queued is not telemetry from this session.
	if n := drainLines(lines); n > 0 {
		m.logger.Printf("discarded %d stale lines", n)
	}

	if err := m.send(conn, protocol.StartCommand); err != nil {
		return err
	}
	m.logger.Printf("connected on %s, %s sent", port, protocol.StartCommand)

	defer func() {
		if err := m.send(conn, protocol.StopCommand); err != nil {
			m.logger.Printf("failed to stop device: %v", err)
		}
	}()

	return m.monitor(ctx, lines)
}

// Stop ends a running session
func (m *Monitor) Stop() {
	m.stopOnce.Do(func() {
		close(m.stopCh)
	})
}

func (m *Monitor) wait(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	select {
	case <-ctx.Done():
		return false
	case <-m.stopCh:
		return false
	case <-time.After(d):
		return true
	}
}

func (m *Monitor) waitReady(ctx context.Context, lines <-chan string) bool {
	timeout := time.After(m.config.ReadyTimeout)
	for {
		select {
		case <-ctx.Done():
			return false
		case <-m.stopCh:
			return false
		case <-timeout:
			return false
		case line, ok := <-lines:
			if !ok {
				return false
			}
			if strings.Contains(line, protocol.ReadyLine) {
				return true
			}
		}
	}
}

func (m *Monitor) monitor(ctx context.Context, lines <-chan string) error {
	var deadline <-chan time.Time
	if m.config.Duration > 0 {
		deadline = time.After(m.config.Duration)
	}

	var last time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-m.stopCh:
			return nil
		case <-deadline:
			m.logger.Printf("stopping after %s", m.config.Duration)
			return nil
		case line, ok := <-lines:
			if !ok {
				return ErrLinkClosed
			}

			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			if protocol.IsStatus(line) {
				m.logger.Printf("device: %s", line)
				continue
			}

			t, err := protocol.ParseTelemetry(line)
			if err != nil {
				m.logger.Printf("ignoring line %q: %v", line, err)
				continue
			}

			now := m.clock.Now()
			reading := Reading{Telemetry: t, At: now}
			if !last.IsZero() {
				if elapsed := now.Sub(last); elapsed > 0 {
					reading.Rate = 1 / elapsed.Seconds()
				}
			}
			last = now
			m.reporter.Report(reading)
		}
	}
}

func (m *Monitor) send(w io.Writer, line string) error {
	if _, err := io.WriteString(w, line+"\n"); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	return nil
}

// readLines delivers lines from r until it fails or done is closed, then
// closes the channel.
func readLines(r io.Reader, done <-chan struct{}) <-chan string {
	lines := make(chan string, 16)
	go func() {
		defer close(lines)
		lr := hostlink.NewLineReader(r, hostlink.MaxLineLength)
		for {
			line, err := lr.Next()
			if err != nil {
				return
			}
			select {
			case lines <- line:
			case <-done:
				return
			}
		}
	}()
	return lines
}

// drainLines discards whatever is already queued on lines without waiting
// for more, and returns how many lines it dropped.
func drainLines(lines <-chan string) int {
	n := 0
	for {
		select {
		case _, ok := <-lines:
			if !ok {
				return n
			}
			n++
		default:
			return n
		}
	}
}
