package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/servicepi/servicepi-core/internal/telemetry"
)

// rootEndpoints is the static endpoint list advertised by GET /.
var rootEndpoints = []string{
	"/health",
	"/api/sensors",
	"/api/sensors/data",
	"/api/devices",
	"/api/system/info",
}

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	r.Get("/", s.handleRoot)
	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Route("/sensors", func(r chi.Router) {
			r.Get("/", s.handleListSensors)
			r.Get("/data", s.handleGetSensorData)
			r.Post("/data", s.handlePostSensorData)
		})

		r.Route("/devices", func(r chi.Router) {
			r.Get("/", s.handleListDevices)
			r.Get("/{id}", s.handleGetDevice)
			r.Put("/{id}", s.handleUpdateDevice)
		})

		r.Route("/system", func(r chi.Router) {
			r.Get("/info", s.handleSystemInfo)
			r.Post("/communicate", s.handleCommunicate)
		})
	})

	// Live event feed for dashboards
	r.Get("/ws", s.handleWebSocket)

	return r
}

// handleRoot returns service metadata and the available endpoint paths.
func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"service":   s.serviceName,
		"version":   s.version,
		"timestamp": telemetry.Timestamp(),
		"endpoints": rootEndpoints,
	})
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"service":   s.serviceName,
		"timestamp": telemetry.Timestamp(),
	})
}
