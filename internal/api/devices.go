package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/servicepi/servicepi-core/internal/telemetry"
)

// handleListDevices returns the device map with totals.
//
// GET /api/devices
func (s *Server) handleListDevices(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"devices":        s.store.Devices(),
		"total_devices":  s.store.DeviceCount(),
		"online_devices": s.store.OnlineDeviceCount(),
		"timestamp":      telemetry.Timestamp(),
	})
}

// handleGetDevice returns one device's status record.
//
// GET /api/devices/{id}
func (s *Server) handleGetDevice(w http.ResponseWriter, r *http.Request) {
	deviceID := chi.URLParam(r, "id")

	device, err := s.store.Device(deviceID)
	if err != nil {
		writeError(w, http.StatusNotFound, errDeviceNotFound)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"device_id": deviceID,
		"device":    device,
		"timestamp": telemetry.Timestamp(),
	})
}

// handleUpdateDevice merges supplied fields into an existing device
// record. Unknown identifiers 404 before the body is considered, and
// no field value is validated, so repeated applies converge.
//
// PUT /api/devices/{id}
func (s *Server) handleUpdateDevice(w http.ResponseWriter, r *http.Request) {
	deviceID := chi.URLParam(r, "id")

	if _, err := s.store.Device(deviceID); err != nil {
		writeError(w, http.StatusNotFound, errDeviceNotFound)
		return
	}

	body, ok := decodeBody(r)
	if !ok {
		writeError(w, http.StatusBadRequest, errNoData)
		return
	}

	device, err := s.store.MergeDevice(deviceID, body)
	if err != nil {
		if errors.Is(err, telemetry.ErrDeviceNotFound) {
			writeError(w, http.StatusNotFound, errDeviceNotFound)
			return
		}
		writeError(w, http.StatusBadRequest, errNoData)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"device_id": deviceID,
		"device":    device,
		"timestamp": telemetry.Timestamp(),
	})
}
