package adafruit

import (
	"errors"
	"fmt"
)

// Domain-specific errors for Data API operations.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrNoCredentials is returned when a Client is created without the
	// account username or AIO key.
	ErrNoCredentials = errors.New("adafruit: username and key required")

	// ErrNoData is returned when a feed has no recorded data or the feed
	// itself is unknown. The Data API reports both as 404.
	ErrNoData = errors.New("adafruit: no data recorded for feed")

	// ErrRemoteAPI classifies every other upstream failure: transport
	// errors, non-2xx responses, undecodable bodies.
	ErrRemoteAPI = errors.New("adafruit: request failed")
)

// APIError carries the status code and trimmed body of a failed Data API
// response. It wraps ErrRemoteAPI, so errors.Is matches the class while the
// concrete type keeps the upstream detail.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("adafruit: api responded %d", e.StatusCode)
	}
	return fmt.Sprintf("adafruit: api responded %d: %s", e.StatusCode, e.Body)
}

func (e *APIError) Unwrap() error { return ErrRemoteAPI }
