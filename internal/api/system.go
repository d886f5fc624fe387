package api

import (
	"net/http"

	"github.com/servicepi/servicepi-core/internal/infrastructure/config"
	"github.com/servicepi/servicepi-core/internal/telemetry"
)

// handleSystemInfo returns service identity and store statistics.
//
// uptime carries the literal "Running"; dashboards key off the string,
// not a duration.
//
// GET /api/system/info
func (s *Server) handleSystemInfo(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"system": map[string]any{
			"service":     s.serviceName,
			"uptime":      "Running",
			"version":     s.version,
			"api_port":    s.cfg.Port,
			"ssl_enabled": config.SSLEnabled(),
		},
		"statistics": map[string]any{
			"total_sensor_readings": s.store.ReadingCount(),
			"total_devices":         s.store.DeviceCount(),
			"online_devices":        s.store.OnlineDeviceCount(),
		},
		"timestamp": telemetry.Timestamp(),
	})
}

// handleCommunicate probes the configured peer service's health
// endpoint and reports the outcome.
//
// The probe runs with the peer client's hard timeout and never holds
// store locks. Transport failures return a sanitized 500; the raw
// cause goes to the log only.
//
// POST /api/system/communicate
func (s *Server) handleCommunicate(w http.ResponseWriter, r *http.Request) {
	result, err := s.peer.Check(r.Context())
	if err != nil {
		s.logger.Error("peer communication failed",
			"url", s.peer.URL(),
			"error", err,
			"request_id", r.Context().Value(ctxKeyRequestID),
		)
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"error":     errCommunicationFailed,
			"details":   "peer service did not respond",
			"timestamp": telemetry.Timestamp(),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"service_communication": map[string]any{
			"web_backend": map[string]any{
				"status":        result.Status,
				"response_time": result.ResponseTime,
			},
			// portainer status is a hardcoded placeholder.
			"portainer": map[string]any{
				"status": "accessible",
			},
		},
		"timestamp": telemetry.Timestamp(),
	})
}
