package telemetry

import (
	"log"

	"github.com/larsks/joyled/internal/controller"
)

// Publisher is the subset of the MQTT client used here.
type Publisher interface {
	PublishJSON(topic string, retained bool, v any) error
}

type stateMessage struct {
	State string `json:"state"`
}

// NewMQTTPublisher publishes the run state (retained) to <prefix>/state and
// each sample to <prefix>/telemetry.
func NewMQTTPublisher(client Publisher, prefix string) *Async {
	stateTopic := prefix + "/state"
	telemetryTopic := prefix + "/telemetry"

	return NewAsync("mqtt publisher", 64, func(ev Event) {
		var err error
		if ev.Telemetry != nil {
			err = client.PublishJSON(telemetryTopic, false, ev.Telemetry)
		} else {
			err = client.PublishJSON(stateTopic, true, stateMessage{State: ev.State.String()})
		}
		if err != nil {
			log.Printf("mqtt publish failed: %v", err)
		}
	})
}

var _ controller.Observer = (*Async)(nil)
var _ controller.Observer = (*Snapshot)(nil)
