package mqtt

import "errors"

var (
	ErrInvalidURL    = errors.New("invalid MQTT server URL")
	ErrNotConnected  = errors.New("MQTT client is not connected")
	ErrPublishFailed = errors.New("failed to publish MQTT message")
)
