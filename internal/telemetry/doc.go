// Package telemetry provides an optional InfluxDB audit sink for the bridge.
//
// It wraps the official influxdb-client-go v2 library with connection
// management, batched point writes, and health monitoring.
//
// # Purpose
//
// Every completed bridge request can be recorded as a time-series point:
//   - bridge_request: per-request audit (action, outcome, duration, status)
//   - bridge_lifecycle: startup/shutdown markers
//
// The sink is write-only from the bridge's perspective. Request handling
// never reads these points back, and a failed or disabled sink never
// affects request outcomes.
//
// # Usage
//
//	sink, err := telemetry.Connect(cfg.Telemetry)
//	if errors.Is(err, telemetry.ErrDisabled) {
//	    sink = nil // nil is a valid no-op sink
//	}
//	defer sink.Close()
//
//	sink.RecordRequest("send_motor_command", telemetry.OutcomeSuccess, 200, elapsed)
//
// # Thread Safety
//
// All methods are safe for concurrent use from multiple goroutines, and
// all recording methods are safe on a nil *Client. The underlying write
// API uses non-blocking batched writes.
//
// # Error Handling
//
// Write operations are non-blocking; batch errors are delivered through
// the SetOnError callback. Connection and health check errors are
// returned directly.
//
// # Performance
//
// Writes are batched according to config.yaml settings (batch_size,
// flush_interval). A dropped point costs one lost audit row, never a
// failed request.
package telemetry
