// motorbridge - Adafruit IO motor control bridge
//
// This is the main entry point for the motorbridge service. It carries a
// dashboard's HTTP requests across to an ESP32 motor controller:
//   - Commands are published one-shot over TLS MQTT to the control feed
//   - Status reads pass through to the Adafruit IO Data API
//
// The service is stateless between requests; everything it needs comes
// from configuration read once at startup.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/nerrad567/motorbridge/internal/adafruit"
	"github.com/nerrad567/motorbridge/internal/api"
	"github.com/nerrad567/motorbridge/internal/bridge"
	"github.com/nerrad567/motorbridge/internal/infrastructure/config"
	"github.com/nerrad567/motorbridge/internal/infrastructure/logging"
	"github.com/nerrad567/motorbridge/internal/infrastructure/mqtt"
	"github.com/nerrad567/motorbridge/internal/telemetry"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	// Create a context that cancels on interrupt signals (Ctrl+C, SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
//
// Parameters:
//   - ctx: Context for cancellation and shutdown signals
//
// Returns:
//   - error: nil on clean shutdown, or error describing failure
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting motorbridge",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	cfg, err := loadConfig(log)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Wire the bridge when credentials are present. Without them the
	// service still serves health and metrics, and the dispatch endpoint
	// answers 500 with an explanatory envelope.
	var dispatcher api.Bridge
	if cfg.Adafruit.HasCredentials() {
		svc, buildErr := buildBridge(cfg, log)
		if buildErr != nil {
			return buildErr
		}
		dispatcher = svc
		log.Info("bridge wired",
			"username", cfg.Adafruit.Username,
			"control_topic", svc.ControlTopic(),
			"status_feed", svc.StatusFeed(),
		)
	} else {
		log.Warn("adafruit credentials not configured, dispatch requests will be rejected")
	}

	// Connect to the telemetry sink (optional)
	var sink *telemetry.Client
	if cfg.Telemetry.Enabled {
		sink, err = telemetry.Connect(cfg.Telemetry)
		if err != nil {
			return fmt.Errorf("connecting telemetry: %w", err)
		}
		defer func() {
			log.Info("closing telemetry sink")
			sink.RecordLifecycle("shutdown", version)
			if closeErr := sink.Close(); closeErr != nil {
				log.Error("error closing telemetry", "error", closeErr)
			}
		}()
		sink.SetOnError(func(err error) {
			log.Error("telemetry write error", "error", err)
		})
		sink.RecordLifecycle("startup", version)
		log.Info("telemetry connected",
			"url", cfg.Telemetry.URL,
			"org", cfg.Telemetry.Org,
			"bucket", cfg.Telemetry.Bucket,
		)
	} else {
		log.Info("telemetry disabled")
	}

	// Start the API server
	server, err := api.New(api.Deps{
		Config:    cfg.API,
		Logger:    log,
		Bridge:    dispatcher,
		Telemetry: sink,
		Version:   version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if startErr := server.Start(ctx); startErr != nil {
		return fmt.Errorf("starting API server: %w", startErr)
	}
	defer func() {
		if closeErr := server.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()
	log.Info("API server listening", "host", cfg.API.Host, "port", cfg.API.Port)

	// Verify everything that should be up is up
	if err := healthCheck(ctx, server, sink); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("all health checks passed")

	log.Info("initialisation complete, waiting for shutdown signal")

	// Wait for shutdown signal
	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")

	// Deferred Close() calls will run in reverse order:
	// 1. API server
	// 2. Telemetry (if enabled)

	log.Info("motorbridge stopped")
	return nil
}

// loadConfig resolves and loads the configuration.
//
// An explicit MOTORBRIDGE_CONFIG path must exist. Otherwise the default
// file is used when present, falling back to environment-only
// configuration for fileless deployments.
func loadConfig(log *logging.Logger) (*config.Config, error) {
	configPath := getConfigPath()

	cfg, err := config.Load(configPath)
	if err != nil && configPath == defaultConfigPath && errors.Is(err, fs.ErrNotExist) {
		log.Info("no config file found, using environment configuration")
		return config.FromEnv()
	}
	if err != nil {
		return nil, err
	}

	log.Info("configuration loaded", "path", configPath)
	return cfg, nil
}

// getConfigPath returns the configuration file path.
// Uses MOTORBRIDGE_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("MOTORBRIDGE_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// buildBridge constructs the publish and fetch sides of the bridge and
// joins them into the dispatch service.
//
// Parameters:
//   - cfg: Application configuration (credentials already verified present)
//   - log: Logger instance
//
// Returns:
//   - *bridge.Service: Ready dispatch service
//   - error: If any component rejects its configuration
func buildBridge(cfg *config.Config, log *logging.Logger) (*bridge.Service, error) {
	publisher, err := mqtt.NewPublisher(cfg.MQTT, cfg.Adafruit.Username, cfg.Adafruit.Key)
	if err != nil {
		return nil, fmt.Errorf("creating MQTT publisher: %w", err)
	}

	dataClient, err := adafruit.New(cfg.Adafruit)
	if err != nil {
		return nil, fmt.Errorf("creating adafruit client: %w", err)
	}

	topics := mqtt.Topics{}
	svc, err := bridge.New(bridge.Deps{
		Publisher:    publisher,
		Data:         dataClient,
		ControlTopic: topics.Feed(cfg.Adafruit.Username, cfg.Feeds.Control),
		StatusTopic:  topics.Feed(cfg.Adafruit.Username, cfg.Feeds.Status),
		Logger:       log,
	})
	if err != nil {
		return nil, fmt.Errorf("creating bridge service: %w", err)
	}

	return svc, nil
}

// healthCheck verifies the started components are healthy.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - server: API server to check
//   - sink: Telemetry client to check (may be nil if disabled)
//
// Returns:
//   - error: First health check failure, or nil if all healthy
func healthCheck(ctx context.Context, server *api.Server, sink *telemetry.Client) error {
	if err := server.HealthCheck(ctx); err != nil {
		return fmt.Errorf("api: %w", err)
	}

	if sink != nil {
		if err := sink.HealthCheck(ctx); err != nil {
			return fmt.Errorf("telemetry: %w", err)
		}
	}

	// The MQTT broker and Data API are deliberately not probed here:
	// connections to them are opened per request, so startup succeeds
	// even while Adafruit IO is unreachable.

	return nil
}
