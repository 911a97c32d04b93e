// Package hostlink carries newline-terminated text lines between the
// controller and its host over a byte stream.
package hostlink

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"sync"

	serial "github.com/jacobsa/go-serial/serial"
)

// Host link driver names
const (
	DriverSerial = "serial"
	DriverStdio  = "stdio"
)

// queueDepth bounds how many unread lines the background reader holds.
const queueDepth = 8

// Config selects and configures the host channel.
type Config struct {
	Driver string `mapstructure:"driver"`
	Port   string `mapstructure:"port"`
	Baud   uint   `mapstructure:"baud"`
}

// Validate checks the driver name and serial settings.
func (c Config) Validate() error {
	switch c.Driver {
	case DriverStdio:
		return nil
	case DriverSerial:
		if c.Port == "" {
			return ErrMissingPort
		}
		if c.Baud == 0 {
			return ErrInvalidBaud
		}
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownDriver, c.Driver)
}

// Link is a line-oriented host channel. Inbound lines are read on a
// background goroutine and handed out one at a time by Poll, which never
// blocks.
type Link struct {
	w      io.Writer
	closer io.Closer
	name   string

	lines chan string
	done  chan struct{}

	writeMutex sync.Mutex
	closeOnce  sync.Once
}

// New starts reading lines from r. Writes go to w. closer, when not nil, is
// closed by Close.
func New(name string, r io.Reader, w io.Writer, closer io.Closer) *Link {
	l := &Link{
		w:      w,
		closer: closer,
		name:   name,
		lines:  make(chan string, queueDepth),
		done:   make(chan struct{}),
	}
	go l.readLoop(r)
	return l
}

// Open opens the configured host channel.
func Open(c Config) (*Link, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	switch c.Driver {
	case DriverSerial:
		return OpenSerial(c.Port, c.Baud)
	default:
		return NewStdio(), nil
	}
}

// OpenSerial opens port as 8N1 at baud.
func OpenSerial(port string, baud uint) (*Link, error) {
	rwc, err := OpenPort(port, baud)
	if err != nil {
		return nil, err
	}
	log.Printf("host link on %s at %d baud", port, baud)
	return New(port, rwc, rwc, rwc), nil
}

// OpenPort opens a serial port as 8N1 at baud.
func OpenPort(port string, baud uint) (io.ReadWriteCloser, error) {
	rwc, err := serial.Open(serial.OpenOptions{
		PortName:        port,
		BaudRate:        baud,
		DataBits:        8,
		StopBits:        1,
		ParityMode:      serial.PARITY_NONE,
		MinimumReadSize: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("%w %s: %v", ErrPortOpenFailed, port, err)
	}
	return rwc, nil
}

// NewStdio uses the process's stdin and stdout as the host channel.
func NewStdio() *Link {
	log.Printf("host link on stdio")
	return New("stdio", os.Stdin, os.Stdout, nil)
}

func (l *Link) readLoop(r io.Reader) {
	defer close(l.lines)

	lr := NewLineReader(r, MaxLineLength)
	for {
		line, err := lr.Next()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				log.Printf("host link %s: read failed: %v", l.name, err)
			}
			return
		}
		select {
		case l.lines <- line:
		case <-l.done:
			return
		}
	}
}

// Poll returns the next complete inbound line if one is waiting.
func (l *Link) Poll() (string, bool) {
	select {
	case line, ok := <-l.lines:
		return line, ok
	default:
		return "", false
	}
}

// WriteLine writes s followed by a newline.
func (l *Link) WriteLine(s string) error {
	l.writeMutex.Lock()
	defer l.writeMutex.Unlock()

	if _, err := io.WriteString(l.w, s+"\n"); err != nil {
		return fmt.Errorf("%w %s: %v", ErrWriteFailed, l.name, err)
	}
	return nil
}

// Close stops the reader and closes the underlying stream.
func (l *Link) Close() error {
	var err error
	l.closeOnce.Do(func() {
		close(l.done)
		if l.closer != nil {
			err = l.closer.Close()
		}
	})
	return err
}

func (l *Link) String() string {
	return fmt.Sprintf("host link %s", l.name)
}
