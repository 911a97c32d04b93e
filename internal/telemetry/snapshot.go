package telemetry

import (
	"sync"
	"time"

	"github.com/larsks/joyled/internal/controller"
)

// Status is a point-in-time view of the controller.
type Status struct {
	State   string                `json:"state"`
	Samples uint64                `json:"samples"`
	Last    *controller.Telemetry `json:"last,omitempty"`
	Updated time.Time             `json:"updated"`
}

// Snapshot keeps the latest controller status for readers on other
// goroutines and forwards samples to subscribers.
type Snapshot struct {
	mutex       sync.RWMutex
	state       controller.RunState
	samples     uint64
	last        *controller.Telemetry
	updated     time.Time
	subscribers map[chan controller.Telemetry]struct{}
	now         func() time.Time
}

func NewSnapshot() *Snapshot {
	return &Snapshot{
		subscribers: make(map[chan controller.Telemetry]struct{}),
		now:         time.Now,
	}
}

func (s *Snapshot) StateChanged(state controller.RunState) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.state = state
	if state == controller.Idle {
		s.last = nil
	}
	s.updated = s.now()
}

func (s *Snapshot) Sampled(t controller.Telemetry) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.samples++
	s.last = &t
	s.updated = s.now()

	for ch := range s.subscribers {
		select {
		case ch <- t:
		default:
		}
	}
}

// Status returns a copy of the current status.
func (s *Snapshot) Status() Status {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	st := Status{
		State:   s.state.String(),
		Samples: s.samples,
		Updated: s.updated,
	}
	if s.last != nil {
		last := *s.last
		st.Last = &last
	}
	return st
}

// Subscribe returns a channel receiving every sample taken from now on, and
// a function that cancels the subscription. A subscriber that falls behind
// misses samples.
func (s *Snapshot) Subscribe(depth int) (<-chan controller.Telemetry, func()) {
	ch := make(chan controller.Telemetry, depth)

	s.mutex.Lock()
	s.subscribers[ch] = struct{}{}
	s.mutex.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mutex.Lock()
			delete(s.subscribers, ch)
			s.mutex.Unlock()
			close(ch)
		})
	}
}
