// Package mqtt publishes motor commands to the Adafruit IO broker.
//
// This package manages:
//   - One-shot TLS connections to io.adafruit.com:8883
//   - Message publishing with QoS 0 or 1 (the broker rejects QoS 2)
//   - Topic construction for the {username}/feeds/{feed_key} namespace
//
// # Architecture
//
// The bridge owns no resident broker session. Every publish dials a fresh
// connection under a unique client ID, delivers one message, waits for the
// acknowledgment, and disconnects:
//
//	Dashboard → HTTP API → one-shot publish → Adafruit IO → ESP32
//
// Command traffic is a handful of messages a day, and Adafruit IO closes the
// older of two sessions sharing a client ID. Dialling per publish keeps every
// request independent and leaves no session state to reconcile after a
// network drop.
//
// # Security Considerations
//
//   - TLS is required against io.adafruit.com (port 8883)
//   - The AIO key authenticates the session; treat it as a password
//   - Plaintext (tcp://) is only for a local development broker
//
// # Performance Characteristics
//
//   - Connect + publish + disconnect: typically under a second against
//     Adafruit IO, bounded by the configured timeouts
//   - Payloads over 100KB are rejected before dialling
//
// # Usage
//
//	pub, err := mqtt.NewPublisher(cfg.MQTT, cfg.Adafruit.Username, cfg.Adafruit.Key)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	topic := mqtt.Topics{}.Feed("testuser", "motor-control")
//	err = pub.Publish(ctx, topic, []byte(`{"command":"forward","keepalive":true}`))
package mqtt
