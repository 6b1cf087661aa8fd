package adafruit

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/nerrad567/motorbridge/internal/infrastructure/config"
)

const (
	// defaultTimeout bounds Data API requests when config carries no value.
	defaultTimeout = 10 * time.Second

	// maxErrorBody caps how much of a failed response body is kept for the
	// error message.
	maxErrorBody = 512
)

// Client is a minimal Adafruit IO Data API client.
//
// It covers the two operations the bridge needs: reading the most recent
// datum of a feed and appending a new one. Authentication uses the X-AIO-Key
// header; the username forms part of every path.
//
// Thread Safety:
//   - All methods are safe for concurrent use.
type Client struct {
	baseURL  string
	username string
	key      string
	client   *http.Client
}

// Datum is one record on an Adafruit IO feed.
//
// Value always arrives as a string regardless of what was published; callers
// decide how to interpret it.
type Datum struct {
	ID           string    `json:"id"`
	Value        string    `json:"value"`
	FeedID       int64     `json:"feed_id"`
	FeedKey      string    `json:"feed_key"`
	CreatedAt    time.Time `json:"created_at"`
	CreatedEpoch float64   `json:"created_epoch"`
	Expiration   string    `json:"expiration"`
}

// New creates a Data API client for the given account.
//
// Parameters:
//   - cfg: Adafruit configuration (endpoint, credentials, timeout)
//
// Returns:
//   - *Client: Client ready for use
//   - error: ErrNoCredentials if username or key is empty, or a
//     description of an invalid endpoint
func New(cfg config.AdafruitConfig) (*Client, error) {
	if cfg.APIURL == "" {
		return nil, errors.New("adafruit: empty api url")
	}
	if !cfg.HasCredentials() {
		return nil, ErrNoCredentials
	}

	timeout := cfg.GetTimeout()
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		baseURL:  strings.TrimRight(cfg.APIURL, "/"),
		username: cfg.Username,
		key:      cfg.Key,
		client:   &http.Client{Timeout: timeout},
	}, nil
}

// LastData returns the most recent datum recorded on a feed.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - feedKey: The feed key (e.g. "esp32-status")
//
// Returns:
//   - *Datum: The latest record
//   - error: ErrNoData if the feed is empty or unknown, *APIError (wrapping
//     ErrRemoteAPI) for other upstream failures
func (c *Client) LastData(ctx context.Context, feedKey string) (*Datum, error) {
	if feedKey == "" {
		return nil, errors.New("adafruit: empty feed key")
	}

	path := fmt.Sprintf("/api/v2/%s/feeds/%s/data/last", c.username, feedKey)

	var datum Datum
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &datum); err != nil {
		return nil, err
	}

	return &datum, nil
}

// CreateData appends a value to a feed.
//
// Adafruit IO fans the new datum out to MQTT subscribers of the feed, so
// this is also a publish path, just a slower one than MQTT.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - feedKey: The feed key to append to
//   - value: The value to record (marshalled to JSON)
//
// Returns:
//   - *Datum: The stored record as the API reports it
//   - error: *APIError (wrapping ErrRemoteAPI) on upstream failure
func (c *Client) CreateData(ctx context.Context, feedKey string, value any) (*Datum, error) {
	if feedKey == "" {
		return nil, errors.New("adafruit: empty feed key")
	}

	path := fmt.Sprintf("/api/v2/%s/feeds/%s/data", c.username, feedKey)
	body := map[string]any{"value": value}

	var datum Datum
	if err := c.doJSON(ctx, http.MethodPost, path, body, &datum); err != nil {
		return nil, err
	}

	return &datum, nil
}

// doJSON performs one authenticated request and decodes the JSON response.
//
// Status mapping: 404 becomes ErrNoData, any other non-2xx becomes *APIError
// with a trimmed copy of the body.
func (c *Client) doJSON(ctx context.Context, method, path string, body any, out any) error {
	var reqBody *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("adafruit: encoding request: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("adafruit: building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-AIO-Key", c.key)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRemoteAPI, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNoData
	}
	if resp.StatusCode >= 300 {
		trimmed, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &APIError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(trimmed)),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decoding response: %w", ErrRemoteAPI, err)
	}

	return nil
}
