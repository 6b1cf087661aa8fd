package mqtt

import "errors"

// Domain-specific errors for MQTT operations.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrNoCredentials is returned when a Publisher is created without the
	// account username or AIO key.
	ErrNoCredentials = errors.New("mqtt: adafruit username and key required")

	// ErrConnectionFailed is returned when the broker handshake fails or
	// times out.
	ErrConnectionFailed = errors.New("mqtt: connection failed")

	// ErrPublishFailed is returned when a publish is rejected, oversized,
	// or not acknowledged in time.
	ErrPublishFailed = errors.New("mqtt: publish failed")

	// ErrInvalidQoS is returned when the configured QoS is outside 0-1.
	// Adafruit IO does not support QoS 2.
	ErrInvalidQoS = errors.New("mqtt: invalid QoS level (must be 0 or 1)")

	// ErrInvalidTopic is returned when an empty topic is provided.
	ErrInvalidTopic = errors.New("mqtt: topic cannot be empty")
)
