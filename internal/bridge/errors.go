package bridge

import "errors"

// Domain-specific errors for bridge operations.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrEmptyCommand is returned when a command is sent without a payload.
	ErrEmptyCommand = errors.New("bridge: command payload is required")

	// ErrNoStatus is returned when the device has never reported, or the
	// status feed holds an empty value.
	ErrNoStatus = errors.New("bridge: no status recorded for device")

	// ErrMalformedStatus is returned when the stored status value is not a
	// JSON object. The raw value is logged server-side, never returned.
	ErrMalformedStatus = errors.New("bridge: malformed status data")
)
