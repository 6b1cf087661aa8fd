package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for motorbridge.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Adafruit  AdafruitConfig  `yaml:"adafruit"`
	MQTT      MQTTConfig      `yaml:"mqtt"`
	Feeds     FeedsConfig     `yaml:"feeds"`
	API       APIConfig       `yaml:"api"`
	Logging   LoggingConfig   `yaml:"logging"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// AdafruitConfig contains the Adafruit IO account credentials and REST endpoint.
// The same username/key pair authenticates both the MQTT broker session and the
// Data API. Credentials are deliberately not validated at load time: the service
// starts without them and reports the gap per request instead.
type AdafruitConfig struct {
	Username string `yaml:"username"`
	Key      string `yaml:"key"`
	APIURL   string `yaml:"api_url"`
	Timeout  int    `yaml:"timeout"`
}

// MQTTConfig contains broker connection settings for the one-shot publish path.
type MQTTConfig struct {
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	TLS            bool   `yaml:"tls"`
	QoS            int    `yaml:"qos"`
	ClientIDPrefix string `yaml:"client_id_prefix"`
	ConnectTimeout int    `yaml:"connect_timeout"`
	PublishTimeout int    `yaml:"publish_timeout"`
}

// FeedsConfig names the Adafruit IO feeds the bridge talks to.
// Keys must be valid feed slugs (lowercase letters, digits, dashes).
type FeedsConfig struct {
	Control string `yaml:"control"`
	Status  string `yaml:"status"`
}

// APIConfig contains HTTP API server settings.
type APIConfig struct {
	Host     string           `yaml:"host"`
	Port     int              `yaml:"port"`
	Timeouts APITimeoutConfig `yaml:"timeouts"`
	CORS     CORSConfig       `yaml:"cors"`
}

// APITimeoutConfig contains HTTP timeout settings.
type APITimeoutConfig struct {
	Read  int `yaml:"read"`
	Write int `yaml:"write"`
	Idle  int `yaml:"idle"`
}

// CORSConfig contains Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
	AllowedMethods []string `yaml:"allowed_methods"`
	AllowedHeaders []string `yaml:"allowed_headers"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// TelemetryConfig contains InfluxDB request-audit settings.
// Disabled by default; the bridge never reads these points back.
type TelemetryConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// feedKeyPattern matches Adafruit IO feed keys: the slugified form of a feed
// name, lowercase letters, digits, and dashes only.
var feedKeyPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: MOTORBRIDGE_SECTION_KEY
// For example: MOTORBRIDGE_ADAFRUIT_KEY, MOTORBRIDGE_API_PORT
//
// Parameters:
//   - path: Path to the YAML configuration file
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If file cannot be read, parsed, or validation fails
func Load(path string) (*Config, error) {
	// Start with defaults
	cfg := defaultConfig()

	// Read and parse YAML file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Apply environment variable overrides
	applyEnvOverrides(cfg)

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// FromEnv builds configuration from defaults and environment variables alone,
// for deployments that ship no config file (secrets injected into the
// environment, everything else on defaults).
//
// Returns:
//   - *Config: Validated configuration
//   - error: If validation fails
func FromEnv() (*Config, error) {
	cfg := defaultConfig()
	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults.
// Broker and API endpoints default to Adafruit IO's production hosts.
func defaultConfig() *Config {
	return &Config{
		Adafruit: AdafruitConfig{
			APIURL:  "https://io.adafruit.com",
			Timeout: 10,
		},
		MQTT: MQTTConfig{
			Host:           "io.adafruit.com",
			Port:           8883,
			TLS:            true,
			QoS:            1,
			ClientIDPrefix: "motorbridge",
			ConnectTimeout: 10,
			PublishTimeout: 5,
		},
		Feeds: FeedsConfig{
			Control: "motor-control",
			Status:  "esp32-status",
		},
		API: APIConfig{
			Host: "0.0.0.0",
			Port: 8080,
			Timeouts: APITimeoutConfig{
				Read:  30,
				Write: 30,
				Idle:  60,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
		Telemetry: TelemetryConfig{
			BatchSize:     100,
			FlushInterval: 10,
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: MOTORBRIDGE_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	// Adafruit account (secrets usually arrive this way)
	if v := os.Getenv("MOTORBRIDGE_ADAFRUIT_USERNAME"); v != "" {
		cfg.Adafruit.Username = v
	}
	if v := os.Getenv("MOTORBRIDGE_ADAFRUIT_KEY"); v != "" {
		cfg.Adafruit.Key = v
	}
	if v := os.Getenv("MOTORBRIDGE_ADAFRUIT_API_URL"); v != "" {
		cfg.Adafruit.APIURL = v
	}

	// MQTT
	if v := os.Getenv("MOTORBRIDGE_MQTT_HOST"); v != "" {
		cfg.MQTT.Host = v
	}
	if v := os.Getenv("MOTORBRIDGE_MQTT_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.MQTT.Port = p
		}
	}

	// Feeds
	if v := os.Getenv("MOTORBRIDGE_FEEDS_CONTROL"); v != "" {
		cfg.Feeds.Control = v
	}
	if v := os.Getenv("MOTORBRIDGE_FEEDS_STATUS"); v != "" {
		cfg.Feeds.Status = v
	}

	// API
	if v := os.Getenv("MOTORBRIDGE_API_HOST"); v != "" {
		cfg.API.Host = v
	}
	if v := os.Getenv("MOTORBRIDGE_API_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.API.Port = p
		}
	}

	// Logging
	if v := os.Getenv("MOTORBRIDGE_LOGGING_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}

	// Telemetry
	if v := os.Getenv("MOTORBRIDGE_TELEMETRY_URL"); v != "" {
		cfg.Telemetry.URL = v
	}
	if v := os.Getenv("MOTORBRIDGE_TELEMETRY_TOKEN"); v != "" {
		cfg.Telemetry.Token = v
	}
}

// Validate checks the configuration for errors.
//
// Credential presence is intentionally not checked here: a bridge without an
// AIO key still serves health and metrics, and reports the missing credentials
// on the command endpoint itself.
//
// Returns:
//   - error: Description of validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	// Adafruit validation
	if c.Adafruit.APIURL == "" {
		errs = append(errs, "adafruit.api_url is required")
	}
	if c.Adafruit.Timeout < 1 {
		errs = append(errs, "adafruit.timeout must be at least 1 second")
	}

	// MQTT validation
	if c.MQTT.Host == "" {
		errs = append(errs, "mqtt.host is required")
	}
	if c.MQTT.Port < 1 || c.MQTT.Port > 65535 {
		errs = append(errs, "mqtt.port must be between 1 and 65535")
	}
	// Adafruit IO's broker rejects QoS 2 subscriptions and publishes.
	if c.MQTT.QoS < 0 || c.MQTT.QoS > 1 {
		errs = append(errs, "mqtt.qos must be 0 or 1")
	}
	if c.MQTT.ClientIDPrefix == "" {
		errs = append(errs, "mqtt.client_id_prefix is required")
	}

	// Feed validation
	if !feedKeyPattern.MatchString(c.Feeds.Control) {
		errs = append(errs, "feeds.control must be a feed key (lowercase letters, digits, dashes)")
	}
	if !feedKeyPattern.MatchString(c.Feeds.Status) {
		errs = append(errs, "feeds.status must be a feed key (lowercase letters, digits, dashes)")
	}

	// API validation
	if c.API.Port < 1 || c.API.Port > 65535 {
		errs = append(errs, "api.port must be between 1 and 65535")
	}

	// Telemetry validation (only when enabled)
	if c.Telemetry.Enabled {
		if c.Telemetry.URL == "" {
			errs = append(errs, "telemetry.url is required when telemetry is enabled")
		}
		if c.Telemetry.Org == "" {
			errs = append(errs, "telemetry.org is required when telemetry is enabled")
		}
		if c.Telemetry.Bucket == "" {
			errs = append(errs, "telemetry.bucket is required when telemetry is enabled")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// HasCredentials reports whether both the account username and the AIO key
// are present. Publishing and status fetches require both.
func (a AdafruitConfig) HasCredentials() bool {
	return a.Username != "" && a.Key != ""
}

// GetTimeout returns the Data API request timeout as a Duration.
func (a AdafruitConfig) GetTimeout() time.Duration {
	return time.Duration(a.Timeout) * time.Second
}

// GetConnectTimeout returns the broker connect timeout as a Duration.
func (m MQTTConfig) GetConnectTimeout() time.Duration {
	return time.Duration(m.ConnectTimeout) * time.Second
}

// GetPublishTimeout returns the publish acknowledgment timeout as a Duration.
func (m MQTTConfig) GetPublishTimeout() time.Duration {
	return time.Duration(m.PublishTimeout) * time.Second
}

// GetReadTimeout returns the API read timeout as a Duration.
func (c *Config) GetReadTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Read) * time.Second
}

// GetWriteTimeout returns the API write timeout as a Duration.
func (c *Config) GetWriteTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Write) * time.Second
}

// GetIdleTimeout returns the API idle timeout as a Duration.
func (c *Config) GetIdleTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Idle) * time.Second
}
