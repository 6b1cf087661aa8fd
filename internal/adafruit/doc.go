// Package adafruit talks to the Adafruit IO Data API over REST.
//
// This package manages:
//   - Reading the most recent datum of a feed (GET .../data/last)
//   - Appending data to a feed (POST .../data)
//   - Mapping upstream failures onto a small error vocabulary
//
// # Architecture
//
// Device status flows the opposite way from commands. The ESP32 publishes
// its state to a feed over MQTT; Adafruit IO stores each message as a datum;
// the bridge reads the latest one back over REST when the dashboard asks:
//
//	ESP32 → Adafruit IO feed → GET /api/v2/{user}/feeds/{key}/data/last → bridge
//
// Polling REST instead of holding an MQTT subscription keeps the service
// stateless; the broker is the only component that remembers anything.
//
// # Error Mapping
//
//   - 404 → ErrNoData (feed empty or unknown; the API reports both the same)
//   - other non-2xx → *APIError carrying the status code, wrapping ErrRemoteAPI
//   - transport and decode failures → wrapped ErrRemoteAPI
//
// # Usage
//
//	client, err := adafruit.New(cfg.Adafruit)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	datum, err := client.LastData(ctx, "esp32-status")
//	if errors.Is(err, adafruit.ErrNoData) {
//	    // device has never reported
//	}
package adafruit
