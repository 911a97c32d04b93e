// Package telemetry fans controller events out to consumers that live outside
// the control loop: the status API, MQTT and the OLED display.
package telemetry

import (
	"log"
	"sync"

	"github.com/larsks/joyled/internal/controller"
)

// Event is either a mode change or a sample.
type Event struct {
	State     controller.RunState
	Telemetry *controller.Telemetry
}

// Async runs handler on its own goroutine so that slow consumers never stall
// the control loop. When the queue is full a new sample is dropped, while a
// new state change evicts the oldest queued sample instead. A state change
// is only ever displaced by a later one.
type Async struct {
	name    string
	handler func(Event)
	events  chan Event
	done    chan struct{}
	latest  bool

	mutex   sync.Mutex
	dropped uint64
	closed  bool
}

// NewAsync starts a worker that feeds events to handler.
func NewAsync(name string, depth int, handler func(Event)) *Async {
	return newAsync(name, depth, false, handler)
}

// NewLatest starts a worker that only ever has the newest event pending: a
// new event replaces one that has not been handled yet. Use it for sinks
// that render current state, where every event carries the whole picture.
func NewLatest(name string, handler func(Event)) *Async {
	return newAsync(name, 1, true, handler)
}

func newAsync(name string, depth int, latest bool, handler func(Event)) *Async {
	if depth < 1 {
		depth = 1
	}
	a := &Async{
		name:    name,
		handler: handler,
		events:  make(chan Event, depth),
		done:    make(chan struct{}),
		latest:  latest,
	}
	go a.run()
	return a
}

func (a *Async) run() {
	defer close(a.done)
	for ev := range a.events {
		a.handler(ev)
	}
}

func (a *Async) StateChanged(state controller.RunState) {
	a.offer(Event{State: state})
}

func (a *Async) Sampled(t controller.Telemetry) {
	a.offer(Event{State: controller.Running, Telemetry: &t})
}

func (a *Async) offer(ev Event) {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	if a.closed {
		return
	}
	select {
	case a.events <- ev:
		return
	default:
	}

	switch {
	case a.latest:
		a.evict(func(Event) bool { return true })
	case ev.Telemetry != nil:
		a.drop()
		return
	default:
		a.evict(isSample)
	}

	// offer is the only sender and holds the mutex, so evict left room.
	a.events <- ev
}

func isSample(ev Event) bool {
	return ev.Telemetry != nil
}

// evict removes one queued event, the oldest one matching prefer if there
// is any, otherwise the oldest. Must be called with the mutex held.
func (a *Async) evict(prefer func(Event) bool) {
	var pending []Event
drain:
	for len(pending) < cap(a.events) {
		select {
		case ev := <-a.events:
			pending = append(pending, ev)
		default:
			break drain
		}
	}
	if len(pending) == 0 {
		// the worker emptied the queue meanwhile
		return
	}

	victim := 0
	for i, ev := range pending {
		if prefer(ev) {
			victim = i
			break
		}
	}
	a.drop()

	for i, ev := range pending {
		if i != victim {
			a.events <- ev
		}
	}
}

func (a *Async) drop() {
	a.dropped++
	if a.dropped == 1 || a.dropped%1000 == 0 {
		log.Printf("%s: dropped %d events", a.name, a.dropped)
	}
}

// Dropped returns how many events were discarded.
func (a *Async) Dropped() uint64 {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	return a.dropped
}

// Close stops accepting events and waits for queued ones to be handled.
func (a *Async) Close() {
	a.mutex.Lock()
	if a.closed {
		a.mutex.Unlock()
		return
	}
	a.closed = true
	close(a.events)
	a.mutex.Unlock()

	<-a.done
}
