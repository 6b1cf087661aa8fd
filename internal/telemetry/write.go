package telemetry

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// Request outcomes recorded as the `outcome` tag on bridge_request points.
//
// Keeping these as constants prevents tag-value drift between the API
// layer and dashboards querying the bucket.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
	OutcomeNoData  = "no_data"
)

// RecordRequest writes one audit point for a completed bridge request.
//
// This is the primary method for recording request telemetry. The write
// is non-blocking; data is batched and sent asynchronously. Calls on a
// nil or disconnected client are silently dropped.
//
// Parameters:
//   - action: The dispatch action (e.g., "send_motor_command")
//   - outcome: One of OutcomeSuccess, OutcomeError, OutcomeNoData
//   - status: The HTTP status code returned to the caller
//   - duration: Wall-clock time spent handling the request
//
// Example:
//
//	client.RecordRequest("get_device_status", telemetry.OutcomeNoData, 404, elapsed)
func (c *Client) RecordRequest(action, outcome string, status int, duration time.Duration) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"bridge_request",
		map[string]string{
			"action":  action,
			"outcome": outcome,
		},
		map[string]interface{}{
			"duration_ms": duration.Seconds() * millisecondsPerSecond,
			"http_status": status,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// RecordLifecycle writes a service lifecycle marker.
//
// Used at startup and shutdown so dashboards can correlate request
// gaps with restarts.
//
// Parameters:
//   - event: Lifecycle event name ("startup" or "shutdown")
//   - version: The running build version
func (c *Client) RecordLifecycle(event, version string) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"bridge_lifecycle",
		map[string]string{
			"event": event,
		},
		map[string]interface{}{
			"version": version,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}
