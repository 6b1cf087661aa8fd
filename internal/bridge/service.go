package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nerrad567/motorbridge/internal/adafruit"
	"github.com/nerrad567/motorbridge/internal/infrastructure/logging"
	"github.com/nerrad567/motorbridge/internal/infrastructure/mqtt"
)

// Publisher delivers one message to a broker topic.
type Publisher interface {
	Publish(ctx context.Context, topic string, payload []byte) error
}

// DataFetcher reads the most recent datum recorded on a feed.
type DataFetcher interface {
	LastData(ctx context.Context, feedKey string) (*adafruit.Datum, error)
}

// Service carries dashboard requests across to the device's feeds.
//
// Commands travel out over MQTT to the control feed; status comes back over
// REST from the status feed. The service holds no state of its own: every
// call is complete in itself.
type Service struct {
	publisher    Publisher
	data         DataFetcher
	controlTopic string
	statusTopic  string
	logger       *logging.Logger
}

// Deps contains the dependencies for creating a Service.
type Deps struct {
	Publisher    Publisher
	Data         DataFetcher
	ControlTopic string
	StatusTopic  string
	Logger       *logging.Logger
}

// commandEnvelope is the wire format published to the control feed.
//
// The keepalive flag lets firmware watchdogs distinguish bridge-originated
// traffic from stray publishes on the feed.
type commandEnvelope struct {
	Command   json.RawMessage `json:"command"`
	Keepalive bool            `json:"keepalive"`
}

// New creates a bridge Service with the given dependencies.
//
// Returns:
//   - *Service: Service ready for use
//   - error: If any required dependency is missing
func New(deps Deps) (*Service, error) {
	if deps.Publisher == nil {
		return nil, errors.New("bridge: publisher is required")
	}
	if deps.Data == nil {
		return nil, errors.New("bridge: data fetcher is required")
	}
	if deps.ControlTopic == "" {
		return nil, errors.New("bridge: control topic is required")
	}
	if deps.StatusTopic == "" {
		return nil, errors.New("bridge: status topic is required")
	}
	if deps.Logger == nil {
		return nil, errors.New("bridge: logger is required")
	}

	return &Service{
		publisher:    deps.Publisher,
		data:         deps.Data,
		controlTopic: deps.ControlTopic,
		statusTopic:  deps.StatusTopic,
		logger:       deps.Logger,
	}, nil
}

// SendCommand wraps a dashboard payload and publishes it to the control feed.
//
// The payload is opaque: whatever JSON the dashboard sent rides through
// unchanged inside the envelope's command field. The firmware defines what
// it means.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - payload: Raw command JSON from the dashboard
//
// Returns:
//   - error: ErrEmptyCommand for a missing payload, or the publisher's
//     wrapped error (mqtt.ErrConnectionFailed, mqtt.ErrPublishFailed)
func (s *Service) SendCommand(ctx context.Context, payload json.RawMessage) error {
	if len(payload) == 0 || string(payload) == "null" {
		return ErrEmptyCommand
	}

	envelope, err := json.Marshal(commandEnvelope{Command: payload, Keepalive: true})
	if err != nil {
		return fmt.Errorf("bridge: encoding command: %w", err)
	}

	if err := s.publisher.Publish(ctx, s.controlTopic, envelope); err != nil {
		return fmt.Errorf("bridge: publishing command: %w", err)
	}

	s.logger.Info("command published",
		"topic", s.controlTopic,
		"bytes", len(envelope),
	)

	return nil
}

// DeviceStatus returns the device's last reported status.
//
// The feed key is the final segment of the configured status topic. The
// stored value must be a JSON object as published by the firmware; the
// datum's broker timestamp is merged in as created_at so the dashboard can
// show staleness. A created_at key reported by the device itself is
// overwritten, the broker clock being the authoritative one.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//
// Returns:
//   - map[string]any: Parsed status object with created_at merged in
//   - error: ErrNoStatus if nothing is recorded, ErrMalformedStatus if the
//     value does not parse, or the fetcher's wrapped upstream error
func (s *Service) DeviceStatus(ctx context.Context) (map[string]any, error) {
	feedKey := mqtt.FeedKey(s.statusTopic)

	datum, err := s.data.LastData(ctx, feedKey)
	if err != nil {
		if errors.Is(err, adafruit.ErrNoData) {
			return nil, fmt.Errorf("%w: feed %q", ErrNoStatus, feedKey)
		}
		return nil, fmt.Errorf("bridge: fetching status: %w", err)
	}

	if datum.Value == "" {
		return nil, fmt.Errorf("%w: feed %q holds an empty value", ErrNoStatus, feedKey)
	}

	var status map[string]any
	err = json.Unmarshal([]byte(datum.Value), &status)
	if err != nil || status == nil {
		// The raw value stays in the logs; clients get the sentinel only.
		s.logger.Error("malformed status value on feed",
			"feed", feedKey,
			"raw_value", datum.Value,
			"error", err,
		)
		return nil, ErrMalformedStatus
	}

	if !datum.CreatedAt.IsZero() {
		status["created_at"] = datum.CreatedAt.UTC().Format(time.RFC3339)
	}

	return status, nil
}

// ControlTopic returns the topic commands are published to.
func (s *Service) ControlTopic() string {
	return s.controlTopic
}

// StatusFeed returns the feed key status is read from.
func (s *Service) StatusFeed() string {
	return mqtt.FeedKey(s.statusTopic)
}
