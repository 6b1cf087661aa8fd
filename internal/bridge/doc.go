// Package bridge implements the core request paths between the dashboard
// and the motor controller.
//
// Two operations exist, one per direction:
//
//   - SendCommand wraps an opaque dashboard payload as
//     {"command": ..., "keepalive": true} and publishes it to the control
//     feed over MQTT.
//   - DeviceStatus reads the latest datum from the status feed over REST,
//     parses the stored value as a JSON object, and merges the broker's
//     created_at timestamp into the result.
//
// The service is stateless. It never caches a status, queues a command, or
// remembers a request; Adafruit IO's feed history is the only persistence in
// the system.
//
// Dependencies arrive as small interfaces (Publisher, DataFetcher) so tests
// can drive both paths without a broker or a live API.
package bridge
