package telemetry

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/larsks/joyled/internal/controller"
	"github.com/larsks/joyled/internal/indicator"
	"github.com/larsks/joyled/internal/joystick"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTelemetry() controller.Telemetry {
	s := joystick.Sample{X: 520, Y: 518}
	return controller.Telemetry{
		At:        150 * time.Millisecond,
		Sample:    s,
		XVolts:    joystick.Volts(s.X),
		YVolts:    joystick.Volts(s.Y),
		Direction: joystick.Right,
		Outputs:   indicator.OutputSet{Right: true},
	}
}

type published struct {
	topic    string
	retained bool
	payload  any
}

type MockPublisher struct {
	mutex    sync.Mutex
	messages []published
	err      error
}

func (m *MockPublisher) PublishJSON(topic string, retained bool, v any) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.messages = append(m.messages, published{topic, retained, v})
	return m.err
}

func (m *MockPublisher) Messages() []published {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return append([]published(nil), m.messages...)
}

func TestMQTTPublisher(t *testing.T) {
	client := &MockPublisher{}
	pub := NewMQTTPublisher(client, "joyled")

	pub.StateChanged(controller.Running)
	pub.Sampled(sampleTelemetry())
	pub.Close()

	msgs := client.Messages()
	require.Len(t, msgs, 2)

	assert.Equal(t, "joyled/state", msgs[0].topic)
	assert.True(t, msgs[0].retained)
	assert.Equal(t, stateMessage{State: "RUNNING"}, msgs[0].payload)

	assert.Equal(t, "joyled/telemetry", msgs[1].topic)
	assert.False(t, msgs[1].retained)
	tel, ok := msgs[1].payload.(*controller.Telemetry)
	require.True(t, ok)
	assert.Equal(t, joystick.Right, tel.Direction)
}

// gatedPublisher holds every publish until gate is closed
type gatedPublisher struct {
	MockPublisher
	started chan struct{}
	gate    chan struct{}
	once    sync.Once
}

func (g *gatedPublisher) PublishJSON(topic string, retained bool, v any) error {
	g.once.Do(func() { close(g.started) })
	<-g.gate
	return g.MockPublisher.PublishJSON(topic, retained, v)
}

func TestMQTTPublisherKeepsStateBehindBacklog(t *testing.T) {
	client := &gatedPublisher{started: make(chan struct{}), gate: make(chan struct{})}
	pub := NewMQTTPublisher(client, "joyled")

	pub.StateChanged(controller.Running)
	<-client.started
	for i := 0; i < 100; i++ {
		pub.Sampled(sampleTelemetry())
	}
	pub.StateChanged(controller.Idle)
	assert.NotZero(t, pub.Dropped())

	close(client.gate)
	pub.Close()

	msgs := client.Messages()
	require.NotEmpty(t, msgs)
	last := msgs[len(msgs)-1]
	assert.Equal(t, "joyled/state", last.topic)
	assert.True(t, last.retained)
	assert.Equal(t, stateMessage{State: "IDLE"}, last.payload)
}

func TestMQTTPublisherErrorsAreLogged(t *testing.T) {
	client := &MockPublisher{err: errors.New("not connected")}
	pub := NewMQTTPublisher(client, "joyled")
	pub.StateChanged(controller.Idle)
	pub.Close()
	assert.Len(t, client.Messages(), 1)
}

// blockingHandler records events, holding the worker on the first one until
// release is closed.
type blockingHandler struct {
	mutex   sync.Mutex
	handled []Event
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func newBlockingHandler() *blockingHandler {
	return &blockingHandler{
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
}

func (h *blockingHandler) handle(ev Event) {
	h.once.Do(func() {
		close(h.started)
		<-h.release
	})
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.handled = append(h.handled, ev)
}

func (h *blockingHandler) waitStarted(t *testing.T) {
	t.Helper()
	select {
	case <-h.started:
	case <-time.After(time.Second):
		t.Fatal("worker did not pick up the first event")
	}
}

func (h *blockingHandler) Handled() []Event {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return append([]Event(nil), h.handled...)
}

func TestAsyncDropsSamplesWhenFull(t *testing.T) {
	h := newBlockingHandler()
	a := NewAsync("test", 2, h.handle)

	a.StateChanged(controller.Running)
	h.waitStarted(t)

	first, second, third := sampleTelemetry(), sampleTelemetry(), sampleTelemetry()
	first.At, second.At, third.At = 1, 2, 3
	a.Sampled(first)
	a.Sampled(second)
	a.Sampled(third)
	assert.Equal(t, uint64(1), a.Dropped())

	close(h.release)
	a.Close()

	handled := h.Handled()
	require.Len(t, handled, 3)
	assert.Equal(t, time.Duration(1), handled[1].Telemetry.At)
	assert.Equal(t, time.Duration(2), handled[2].Telemetry.At)

	// events after Close are ignored
	a.StateChanged(controller.Idle)
	a.Close()
}

func TestAsyncStopBehindQueuedSamples(t *testing.T) {
	h := newBlockingHandler()
	a := NewAsync("test", 2, h.handle)

	a.StateChanged(controller.Running)
	h.waitStarted(t)

	first, second := sampleTelemetry(), sampleTelemetry()
	first.At, second.At = 1, 2
	a.Sampled(first)
	a.Sampled(second)
	a.StateChanged(controller.Idle)

	close(h.release)
	a.Close()

	handled := h.Handled()
	require.Len(t, handled, 3)
	assert.Equal(t, time.Duration(2), handled[1].Telemetry.At)
	assert.Nil(t, handled[2].Telemetry)
	assert.Equal(t, controller.Idle, handled[2].State)
	assert.Equal(t, uint64(1), a.Dropped())
}

func TestAsyncStateChangesSupersede(t *testing.T) {
	h := newBlockingHandler()
	a := NewAsync("test", 1, h.handle)

	a.StateChanged(controller.Running)
	h.waitStarted(t)
	a.StateChanged(controller.Idle)
	a.StateChanged(controller.Running)
	a.StateChanged(controller.Idle)

	close(h.release)
	a.Close()

	handled := h.Handled()
	require.Len(t, handled, 2)
	assert.Equal(t, controller.Running, handled[0].State)
	assert.Equal(t, controller.Idle, handled[1].State)
	assert.Equal(t, uint64(2), a.Dropped())
}

func TestLatestReplacesPendingEvent(t *testing.T) {
	h := newBlockingHandler()
	a := NewLatest("test", h.handle)

	a.StateChanged(controller.Running)
	h.waitStarted(t)
	a.Sampled(sampleTelemetry())
	a.StateChanged(controller.Idle)

	close(h.release)
	a.Close()

	handled := h.Handled()
	require.Len(t, handled, 2)
	assert.Equal(t, controller.Running, handled[0].State)
	assert.Equal(t, controller.Idle, handled[1].State)
	assert.Nil(t, handled[1].Telemetry)
	assert.Equal(t, uint64(1), a.Dropped())
}

func TestSnapshot(t *testing.T) {
	s := NewSnapshot()
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	st := s.Status()
	assert.Equal(t, "IDLE", st.State)
	assert.Nil(t, st.Last)

	s.StateChanged(controller.Running)
	s.Sampled(sampleTelemetry())

	st = s.Status()
	assert.Equal(t, "RUNNING", st.State)
	assert.Equal(t, uint64(1), st.Samples)
	require.NotNil(t, st.Last)
	assert.Equal(t, joystick.Right, st.Last.Direction)
	assert.Equal(t, fixed, st.Updated)

	s.StateChanged(controller.Idle)
	st = s.Status()
	assert.Equal(t, "IDLE", st.State)
	assert.Nil(t, st.Last)
	assert.Equal(t, uint64(1), st.Samples)
}

func TestSnapshotSubscribe(t *testing.T) {
	s := NewSnapshot()
	ch, cancel := s.Subscribe(4)

	s.Sampled(sampleTelemetry())
	select {
	case got := <-ch:
		assert.Equal(t, joystick.Right, got.Direction)
	case <-time.After(time.Second):
		t.Fatal("no sample delivered")
	}

	cancel()
	cancel()
	_, ok := <-ch
	assert.False(t, ok)

	// no panic sending after cancel
	s.Sampled(sampleTelemetry())
}

type MockScreen struct {
	mutex   sync.Mutex
	lines   []string
	updates int
}

func (m *MockScreen) Init() error        { return nil }
func (m *MockScreen) ClearScreen() error { return nil }
func (m *MockScreen) Close() error       { return nil }
func (m *MockScreen) PrintLines(start int, lines []string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.lines = lines
	return nil
}
func (m *MockScreen) Update() error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.updates++
	return nil
}

func TestDisplayObserver(t *testing.T) {
	screen := &MockScreen{}
	obs := NewDisplayObserver(screen)
	obs.Sampled(sampleTelemetry())
	obs.Close()

	screen.mutex.Lock()
	defer screen.mutex.Unlock()
	assert.Equal(t, 1, screen.updates)
	assert.Equal(t, []string{"joyled", "state: RUNNING", "x: 2.54 V", "y: 2.53 V", "dir: RIGHT"}, screen.lines)
}

type slowScreen struct {
	MockScreen
	started chan struct{}
	gate    chan struct{}
	once    sync.Once
}

func (s *slowScreen) ClearScreen() error {
	s.once.Do(func() {
		close(s.started)
		<-s.gate
	})
	return nil
}

func TestDisplayShowsIdleAfterStop(t *testing.T) {
	screen := &slowScreen{started: make(chan struct{}), gate: make(chan struct{})}
	obs := NewDisplayObserver(screen)

	obs.StateChanged(controller.Running)
	<-screen.started
	obs.Sampled(sampleTelemetry())
	obs.StateChanged(controller.Idle)

	close(screen.gate)
	obs.Close()

	screen.mutex.Lock()
	defer screen.mutex.Unlock()
	assert.Equal(t, []string{"joyled", "state: IDLE"}, screen.lines)
	assert.Equal(t, 2, screen.updates)
}

func TestDisplayLinesIdle(t *testing.T) {
	assert.Equal(t, []string{"joyled", "state: IDLE"}, DisplayLines(Event{State: controller.Idle}))
}

func TestOpenFakeDisplay(t *testing.T) {
	d, err := OpenDisplay(true)
	require.NoError(t, err)
	defer d.Close()

	obs := NewDisplayObserver(d)
	obs.StateChanged(controller.Running)
	obs.Close()
}
