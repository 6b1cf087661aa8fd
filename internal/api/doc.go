// Package api implements the HTTP surface of motorbridge.
//
// This package provides:
//   - The motor dispatch endpoint (POST /api/v1/motor)
//   - Health and metrics endpoints for monitoring
//   - Middleware stack (request ID, logging, recovery, CORS, body limit)
//
// # Architecture
//
// The API server sits between the dashboard (a browser client) and the
// bridge service. A dispatch request names one of two actions:
// send_motor_command publishes the payload to the device's control feed
// over MQTT, get_device_status reads the device's last report from the
// Adafruit IO Data API. Every response uses the same envelope:
//
//	{"status": "success", "data": {...}}
//	{"status": "error", "details": "..."}
//
// # Graceful Degradation
//
// The server operates without Adafruit credentials: health and metrics
// still serve, and the dispatch endpoint answers 500 with an explanatory
// envelope instead of refusing to start. The telemetry sink is likewise
// optional; a nil sink drops audit points silently.
//
// # Security
//
// There is no authentication layer here. The service is designed to sit
// behind the deployment platform's access controls; the account key only
// ever travels on outbound connections. CORS and a 1 MiB body cap guard
// the browser-facing surface.
package api
