package indicator

import (
	"fmt"
	"log"
	"sync"
)

// DummyPin is an in-memory output used for dry runs and tests.
type DummyPin struct {
	name   string
	level  Level
	writes int
	err    error
	mutex  sync.RWMutex
}

// DummyBank implements Bank with DummyPins.
type DummyBank struct {
	pins   []*DummyPin
	closed bool
}

// NewDummyBank creates a bank of count virtual pins, all at level initial.
func NewDummyBank(count int, initial Level) *DummyBank {
	pins := make([]*DummyPin, count)
	for i := range pins {
		pins[i] = &DummyPin{
			name:  fmt.Sprintf("dummy:%d", i),
			level: initial,
		}
	}
	return &DummyBank{pins: pins}
}

func (db *DummyBank) Pins() []Pin {
	pins := make([]Pin, len(db.pins))
	for i, p := range db.pins {
		pins[i] = p
	}
	return pins
}

// Pin returns the concrete pin for ch, so tests can inspect it.
func (db *DummyBank) Pin(ch Channel) *DummyPin {
	return db.pins[ch]
}

// Close closes the dummy bank (no-op for dummy)
func (db *DummyBank) Close() error {
	log.Printf("closing dummy indicator bank")
	db.closed = true
	return nil
}

// Closed reports whether Close has been called.
func (db *DummyBank) Closed() bool {
	return db.closed
}

func (db *DummyBank) String() string {
	return fmt.Sprintf("dummy bank with %d pins", len(db.pins))
}

func (dp *DummyPin) Out(level Level) error {
	dp.mutex.Lock()
	defer dp.mutex.Unlock()

	if dp.err != nil {
		return dp.err
	}
	dp.level = level
	dp.writes++
	return nil
}

func (dp *DummyPin) Read() (Level, error) {
	dp.mutex.RLock()
	defer dp.mutex.RUnlock()
	return dp.level, nil
}

// Level returns the current level without an error, for tests.
func (dp *DummyPin) Level() Level {
	l, _ := dp.Read()
	return l
}

// Writes returns the number of successful writes.
func (dp *DummyPin) Writes() int {
	dp.mutex.RLock()
	defer dp.mutex.RUnlock()
	return dp.writes
}

// FailWith makes subsequent writes return err. A nil err clears the failure.
func (dp *DummyPin) FailWith(err error) {
	dp.mutex.Lock()
	defer dp.mutex.Unlock()
	dp.err = err
}

func (dp *DummyPin) String() string {
	return dp.name
}
