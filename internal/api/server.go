// Package api provides the HTTP REST API and WebSocket server for ServicePi Core.
//
// It exposes sensor and device state from the in-memory telemetry store,
// system information, and an outbound peer communication check, plus a
// WebSocket feed of store mutations for dashboards.
//
// The server follows the same lifecycle pattern as other infrastructure components:
//
//	server, err := api.New(deps)
//	server.Start(ctx)
//	defer server.Close()
//
// Thread Safety: All methods are safe for concurrent use from multiple goroutines.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/servicepi/servicepi-core/internal/infrastructure/config"
	"github.com/servicepi/servicepi-core/internal/infrastructure/logging"
	"github.com/servicepi/servicepi-core/internal/infrastructure/mqtt"
	"github.com/servicepi/servicepi-core/internal/peer"
	"github.com/servicepi/servicepi-core/internal/telemetry"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight requests
// to complete during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// Deps holds the dependencies required by the API server.
type Deps struct {
	Config      config.APIConfig
	WS          config.WebSocketConfig
	ServiceName string
	Logger      *logging.Logger
	Store       *telemetry.Store
	Peer        *peer.Client
	MQTT        *mqtt.Client // optional; enables the broker ingest path
	Version     string
}

// Server is the HTTP API server for ServicePi Core.
//
// It manages the HTTP listener, routes, middleware, and WebSocket hub.
// The server is created with New() and started with Start().
type Server struct {
	cfg         config.APIConfig
	wsCfg       config.WebSocketConfig
	serviceName string
	logger      *logging.Logger
	store       *telemetry.Store
	peer        *peer.Client
	mqtt        *mqtt.Client
	version     string
	server      *http.Server
	hub         *Hub
	cancel      context.CancelFunc // cancels background goroutines on Close()
}

// New creates a new API server with the given dependencies.
//
// The server is not started until Start() is called.
//
// Parameters:
//   - deps: Required dependencies (config, logger, store, peer client)
//
// Returns:
//   - *Server: Configured server ready to start
//   - error: If required dependencies are missing
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.Store == nil {
		return nil, fmt.Errorf("telemetry store is required")
	}
	if deps.Peer == nil {
		return nil, fmt.Errorf("peer client is required")
	}
	// MQTT is optional — HTTP ingest and reads work without a broker

	return &Server{
		cfg:         deps.Config,
		wsCfg:       deps.WS,
		serviceName: deps.ServiceName,
		logger:      deps.Logger,
		store:       deps.Store,
		peer:        deps.Peer,
		mqtt:        deps.MQTT,
		version:     deps.Version,
	}, nil
}

// Start begins listening for HTTP connections.
//
// It starts the WebSocket hub, wires store mutations into the hub for
// live broadcast, subscribes to MQTT sensor topics when a broker client
// is present, and launches the HTTP listener in a background goroutine.
// The server can be stopped with Close().
//
// Parameters:
//   - ctx: Context for cancellation (not used for listener lifetime)
//
// Returns:
//   - error: If the server fails to start (port in use, etc.)
func (s *Server) Start(ctx context.Context) error {
	// Create internal context so Close() can stop background goroutines
	// independently of the parent context.
	var srvCtx context.Context
	srvCtx, s.cancel = context.WithCancel(ctx)

	s.hub = NewHub(s.wsCfg, s.logger)
	go s.hub.Run(srvCtx)

	// Every store mutation becomes a WebSocket event, whichever path
	// (HTTP or MQTT) produced it. Device updates are also mirrored to
	// the broker when one is connected.
	s.store.SetChangeListener(&storeEvents{hub: s.hub, mqtt: s.mqtt, logger: s.logger})

	if err := s.subscribeReadings(); err != nil {
		s.logger.Warn("failed to subscribe to sensor readings", "error", err)
	}

	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:           s.buildRouter(),
		ReadTimeout:       time.Duration(s.cfg.Timeouts.Read) * time.Second,
		ReadHeaderTimeout: time.Duration(s.cfg.Timeouts.Read) * time.Second,
		WriteTimeout:      time.Duration(s.cfg.Timeouts.Write) * time.Second,
		IdleTimeout:       time.Duration(s.cfg.Timeouts.Idle) * time.Second,
	}

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server error", "error", err)
		}
	}()

	return nil
}

// Close gracefully shuts down the API server.
//
// It waits up to 10 seconds for in-flight requests to complete,
// then forcefully closes remaining connections.
//
// Returns:
//   - error: If shutdown encounters an error
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}

	// Stop broadcasting before tearing down the hub.
	s.store.SetChangeListener(nil)

	if s.mqtt != nil {
		if err := s.mqtt.Unsubscribe(mqtt.Topics{}.AllSensorReadings()); err != nil {
			s.logger.Warn("failed to unsubscribe sensor readings", "error", err)
		}
	}

	if s.cancel != nil {
		s.cancel()
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info("API server shutting down")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down API server: %w", err)
	}
	return nil
}

// HealthCheck verifies the API server is running and responsive.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//
// Returns:
//   - error: nil if healthy, error describing the issue otherwise
func (s *Server) HealthCheck(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("api health check: %w", ctx.Err())
	default:
	}

	if s.server == nil {
		return fmt.Errorf("api server not started")
	}

	return nil
}
