package api

import (
	"encoding/json"
	"net/http"

	"github.com/servicepi/servicepi-core/internal/telemetry"
)

// Wire error messages. These are part of the public contract and must
// not change.
const (
	errNoData              = "No data provided"
	errDeviceNotFound      = "Device not found"
	errCommunicationFailed = "Communication failed"
)

// writeJSON writes a JSON response with the given status code and payload.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		//nolint:errcheck // Best-effort write to response; connection may be closed
		json.NewEncoder(w).Encode(v)
	}
}

// writeError writes an error response in the service's wire shape:
// {"error": <message>, "timestamp": <now>}.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{
		"error":     message,
		"timestamp": telemetry.Timestamp(),
	})
}

// decodeBody decodes a JSON object request body.
//
// Absent bodies, invalid JSON, JSON null, and the empty object all
// report false: the contract treats them identically as "no data".
func decodeBody(r *http.Request) (map[string]any, bool) {
	if r.Body == nil {
		return nil, false
	}

	var m map[string]any
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		return nil, false
	}
	if len(m) == 0 {
		return nil, false
	}
	return m, true
}
