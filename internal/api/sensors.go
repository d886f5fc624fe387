package api

import (
	"net/http"

	"github.com/servicepi/servicepi-core/internal/telemetry"
)

// handleListSensors returns the full device-status mapping.
//
// GET /api/sensors
func (s *Server) handleListSensors(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"sensors":   s.store.Devices(),
		"timestamp": telemetry.Timestamp(),
	})
}

// handleGetSensorData returns the most recent readings in insertion
// order. count reports the total ever stored, which can exceed the
// number of entries returned.
//
// GET /api/sensors/data
func (s *Server) handleGetSensorData(w http.ResponseWriter, _ *http.Request) {
	readings, total := s.store.Readings(telemetry.DefaultRecentLimit)
	writeJSON(w, http.StatusOK, map[string]any{
		"data":      readings,
		"count":     total,
		"timestamp": telemetry.Timestamp(),
	})
}

// handlePostSensorData ingests one sensor reading.
//
// POST /api/sensors/data
func (s *Server) handlePostSensorData(w http.ResponseWriter, r *http.Request) {
	body, ok := decodeBody(r)
	if !ok {
		writeError(w, http.StatusBadRequest, errNoData)
		return
	}

	stored, err := s.store.AppendReading(telemetry.Reading(body))
	if err != nil {
		writeError(w, http.StatusBadRequest, errNoData)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"success":   true,
		"data":      stored,
		"timestamp": telemetry.Timestamp(),
	})
}
