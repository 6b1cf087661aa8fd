package mqtt

import (
	"context"
	"fmt"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/nerrad567/motorbridge/internal/infrastructure/config"
)

// Publisher delivers messages to the Adafruit IO broker one connection at a time.
//
// It holds no resident broker session: each Publish dials under a fresh client
// ID, pushes a single message, waits for the acknowledgment, and disconnects.
// Adafruit IO closes the older of two sessions sharing a client ID, so every
// connection gets a unique ID and nothing is left behind to collide with.
//
// Thread Safety:
//   - All methods are safe for concurrent use. Concurrent publishes hold
//     independent broker connections.
type Publisher struct {
	cfg      config.MQTTConfig
	username string
	key      string

	// newClient constructs the underlying paho client. Tests substitute a
	// fake here to observe the connect/publish/disconnect sequence.
	newClient func(*pahomqtt.ClientOptions) pahomqtt.Client
}

// NewPublisher creates a Publisher for the given broker and account.
//
// Adafruit IO authenticates MQTT sessions with the account username and the
// AIO key in the password slot. Both are required.
//
// Parameters:
//   - cfg: MQTT configuration from config.yaml
//   - username: Adafruit IO account username
//   - key: AIO key for the account
//
// Returns:
//   - *Publisher: Publisher ready for use (no connection is made yet)
//   - error: ErrNoCredentials if username or key is empty
func NewPublisher(cfg config.MQTTConfig, username, key string) (*Publisher, error) {
	if username == "" || key == "" {
		return nil, ErrNoCredentials
	}

	return &Publisher{
		cfg:       cfg,
		username:  username,
		key:       key,
		newClient: pahomqtt.NewClient,
	}, nil
}

// Publish delivers a single message to the given topic.
//
// The full lifecycle happens inside this call: connect, publish, wait for the
// acknowledgment, disconnect. The connection is torn down on every path that
// opened it, success or failure.
//
// Messages are never retained; the control feed carries commands, not state,
// and a reconnecting device must not replay the last command.
//
// Parameters:
//   - ctx: Context checked before dialling and again before publishing
//   - topic: The topic to publish to (e.g. "testuser/feeds/motor-control")
//   - payload: The message payload (JSON, max 100KB)
//
// Returns:
//   - error: nil on acknowledged delivery, or a wrapped sentinel:
//     ErrInvalidTopic, ErrInvalidQoS, ErrConnectionFailed, ErrPublishFailed
func (p *Publisher) Publish(ctx context.Context, topic string, payload []byte) error {
	// Validate inputs before paying for a connection
	if topic == "" {
		return ErrInvalidTopic
	}
	if p.cfg.QoS < 0 || p.cfg.QoS > 1 {
		return ErrInvalidQoS
	}
	if len(payload) > maxPayloadSize {
		return fmt.Errorf("%w: payload size %d exceeds maximum %d bytes", ErrPublishFailed, len(payload), maxPayloadSize)
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}

	client := p.newClient(buildClientOptions(p.cfg, p.username, p.key, p.clientID()))
	defer client.Disconnect(disconnectQuiesce)

	token := client.Connect()
	if !token.WaitTimeout(p.connectTimeout()) {
		return fmt.Errorf("%w: timeout after %v", ErrConnectionFailed, p.connectTimeout())
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrPublishFailed, err)
	}

	pub := client.Publish(topic, byte(p.cfg.QoS), false, payload)
	if !pub.WaitTimeout(p.publishTimeout()) {
		return fmt.Errorf("%w: timeout after %v", ErrPublishFailed, p.publishTimeout())
	}
	if err := pub.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrPublishFailed, err)
	}

	return nil
}

// PublishString is a convenience method that publishes a string payload.
//
// This is equivalent to calling Publish with []byte(payload).
func (p *Publisher) PublishString(ctx context.Context, topic string, payload string) error {
	return p.Publish(ctx, topic, []byte(payload))
}

// clientID returns a fresh broker client ID for one connection.
//
// Example: motorbridge-1b4e28ba-2fa1-11d2-883f-0016d3cca427
func (p *Publisher) clientID() string {
	return fmt.Sprintf("%s-%s", p.cfg.ClientIDPrefix, uuid.New().String())
}

// connectTimeout returns the configured connect timeout, or the default when
// the config carries no value.
func (p *Publisher) connectTimeout() time.Duration {
	if p.cfg.ConnectTimeout > 0 {
		return p.cfg.GetConnectTimeout()
	}
	return defaultConnectTimeout
}

// publishTimeout returns the configured acknowledgment timeout, or the
// default when the config carries no value.
func (p *Publisher) publishTimeout() time.Duration {
	if p.cfg.PublishTimeout > 0 {
		return p.cfg.GetPublishTimeout()
	}
	return defaultPublishTimeout
}
