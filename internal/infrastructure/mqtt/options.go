package mqtt

import (
	"crypto/tls"
	"fmt"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/nerrad567/motorbridge/internal/infrastructure/config"
)

// Connection constants.
const (
	// defaultConnectTimeout is the maximum time to wait for the broker handshake.
	defaultConnectTimeout = 10 * time.Second

	// defaultPublishTimeout is the maximum time to wait for publish acknowledgment.
	defaultPublishTimeout = 5 * time.Second

	// disconnectQuiesce is the time allowed for in-flight traffic on disconnect.
	// Short: by the time Publish disconnects, the ack has already arrived.
	disconnectQuiesce = 250 // milliseconds

	// keepAlive is the PING interval while a connection is held. One-shot
	// connections rarely live long enough to send one.
	keepAlive = 30 * time.Second

	// maxPayloadSize is the largest accepted payload. Adafruit IO drops
	// messages over 100KB and may throttle the offending client.
	maxPayloadSize = 100 << 10 // 100KB

	// tlsMinVersion is the minimum TLS version for secure connections.
	tlsMinVersion = tls.VersionTLS12
)

// buildClientOptions creates paho options for a single-publish session.
//
// This configures:
//   - Broker URL (ssl:// or tcp:// based on TLS setting)
//   - A unique client ID for this connection
//   - Account username and AIO key authentication
//   - Clean session, no auto-reconnect, no connect retry
//   - TLS configuration (if enabled)
func buildClientOptions(cfg config.MQTTConfig, username, key, clientID string) *pahomqtt.ClientOptions {
	opts := pahomqtt.NewClientOptions()

	// Broker URL
	scheme := "tcp"
	if cfg.TLS {
		scheme = "ssl"
	}
	brokerURL := fmt.Sprintf("%s://%s:%d", scheme, cfg.Host, cfg.Port)
	opts.AddBroker(brokerURL)

	// Client identification
	opts.SetClientID(clientID)

	// Authentication: the AIO key rides in the password slot
	opts.SetUsername(username)
	opts.SetPassword(key)

	// Clean session - nothing survives this connection
	opts.SetCleanSession(true)

	// One connection per publish. The paho background machinery must never
	// redial on its own; failure surfaces to the caller instead.
	opts.SetAutoReconnect(false)
	opts.SetConnectRetry(false)

	// Connection timeout
	if cfg.ConnectTimeout > 0 {
		opts.SetConnectTimeout(cfg.GetConnectTimeout())
	} else {
		opts.SetConnectTimeout(defaultConnectTimeout)
	}

	opts.SetKeepAlive(keepAlive)

	// TLS configuration if enabled
	if cfg.TLS {
		opts.SetTLSConfig(&tls.Config{
			MinVersion: tlsMinVersion,
		})
	}

	return opts
}
