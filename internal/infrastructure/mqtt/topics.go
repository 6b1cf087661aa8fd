package mqtt

import (
	"fmt"
	"strings"
)

// Topics provides builders for the Adafruit IO MQTT namespace.
// Using these helpers keeps topic naming consistent across the codebase.
//
// All account topics live under the username:
//
//	{username}/feeds/{feed_key}         plain feed values
//	{username}/feeds/{feed_key}/json    datum with metadata
//	{username}/errors                   broker error reports
//	{username}/throttle                 rate limit warnings
//
// Example:
//
//	topics := mqtt.Topics{}
//	controlTopic := topics.Feed("testuser", "motor-control")
//	// Returns: "testuser/feeds/motor-control"
type Topics struct{}

// Feed returns the plain value topic for a feed.
//
// Example: testuser/feeds/motor-control
func (Topics) Feed(username, feedKey string) string {
	return fmt.Sprintf("%s/feeds/%s", username, feedKey)
}

// FeedJSON returns the JSON datum topic for a feed. Messages here carry the
// full datum including identifiers and timestamps, not just the value.
//
// Example: testuser/feeds/motor-control/json
func (Topics) FeedJSON(username, feedKey string) string {
	return fmt.Sprintf("%s/feeds/%s/json", username, feedKey)
}

// Errors returns the account error topic. The broker publishes a description
// here whenever it rejects a message.
//
// Example: testuser/errors
func (Topics) Errors(username string) string {
	return fmt.Sprintf("%s/errors", username)
}

// Throttle returns the account throttle topic, where the broker warns before
// dropping traffic from a client exceeding its rate limit.
//
// Example: testuser/throttle
func (Topics) Throttle(username string) string {
	return fmt.Sprintf("%s/throttle", username)
}

// AllFeeds returns a pattern matching every feed under the account.
//
// Pattern: testuser/feeds/+
func (Topics) AllFeeds(username string) string {
	return fmt.Sprintf("%s/feeds/+", username)
}

// FeedKey extracts the feed key from a feed topic: the segment after the
// final slash. A bare feed key passes through unchanged, so callers may hold
// either form.
//
// Example: FeedKey("testuser/feeds/esp32-status") = "esp32-status"
func FeedKey(topic string) string {
	if i := strings.LastIndex(topic, "/"); i >= 0 {
		return topic[i+1:]
	}
	return topic
}
