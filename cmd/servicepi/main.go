// ServicePi Core - IoT Device & Sensor API
//
// This is the main entry point for the ServicePi Core service. It exposes
// an HTTP API over an in-memory telemetry store:
//   - Sensor reading ingestion (HTTP and, optionally, MQTT)
//   - Device status listing and updates
//   - System information and peer communication checks
//   - A WebSocket feed of store mutations for dashboards
//
// State lives for the lifetime of the process and is discarded on exit.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/servicepi/servicepi-core/internal/api"
	"github.com/servicepi/servicepi-core/internal/infrastructure/config"
	"github.com/servicepi/servicepi-core/internal/infrastructure/logging"
	"github.com/servicepi/servicepi-core/internal/infrastructure/mqtt"
	"github.com/servicepi/servicepi-core/internal/peer"
	"github.com/servicepi/servicepi-core/internal/telemetry"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.1"
var version = "1.0.0"

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
	// A .env file, when present, seeds process environment before the
	// config cascade runs. Absence is not an error.
	//nolint:errcheck // Missing .env is the common case
	godotenv.Load()

	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting ServicePi Core", "version", version)

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Telemetry store: seeded device set, empty reading sequence
	store := telemetry.NewStore()
	store.SetLogger(log)
	log.Info("telemetry store initialised", "devices", store.DeviceCount())

	// Connect to MQTT broker (optional ingest path)
	var mqttClient *mqtt.Client
	if cfg.MQTT.Enabled {
		mqttClient, err = mqtt.Connect(cfg.MQTT)
		if err != nil {
			return fmt.Errorf("connecting to MQTT: %w", err)
		}
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		mqttClient.SetLogger(log)
		log.Info("MQTT connected",
			"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
			"client_id", cfg.MQTT.Broker.ClientID,
		)
	} else {
		log.Info("MQTT disabled, HTTP ingest only")
	}

	// Peer probe client for /api/system/communicate
	peerClient := peer.New(cfg.Peer, log.With("component", "peer").Logger)
	log.Info("peer probe configured", "url", cfg.Peer.HealthURL, "timeout_s", cfg.Peer.Timeout)

	// API server
	server, err := api.New(api.Deps{
		Config:      cfg.API,
		WS:          cfg.WebSocket,
		ServiceName: cfg.Service.Name,
		Logger:      log,
		Store:       store,
		Peer:        peerClient,
		MQTT:        mqttClient,
		Version:     version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("starting API server: %w", err)
	}
	defer func() {
		if closeErr := server.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()
	log.Info("API server listening",
		"address", fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port),
		"ssl_enabled", config.SSLEnabled(),
	)

	// Verify all connections are healthy
	if err := healthCheck(ctx, server, mqttClient); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("all health checks passed")

	log.Info("initialisation complete, waiting for shutdown signal")

	// Wait for shutdown signal
	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")

	// Deferred Close() calls run in reverse order:
	// 1. API server (drains in-flight requests)
	// 2. MQTT (if enabled)

	log.Info("ServicePi Core stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses SERVICEPI_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("SERVICEPI_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// healthCheck verifies infrastructure components are healthy.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - server: API server to check
//   - mqttClient: MQTT client to check (may be nil if disabled)
//
// Returns:
//   - error: First health check failure, or nil if all healthy
func healthCheck(ctx context.Context, server *api.Server, mqttClient *mqtt.Client) error {
	if err := server.HealthCheck(ctx); err != nil {
		return fmt.Errorf("api: %w", err)
	}

	if mqttClient != nil {
		if err := mqttClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("mqtt: %w", err)
		}
	}

	// The peer service is probed on demand by /api/system/communicate;
	// its availability is not a startup requirement.

	return nil
}
