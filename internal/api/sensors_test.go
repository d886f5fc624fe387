package api

import (
	"fmt"
	"net/http"
	"testing"
)

// ─── GET /api/sensors ────────────────────────────────────────────────────────

func TestListSensors(t *testing.T) {
	srv, _ := testServer(t, "")

	code, resp := doRequest(t, srv, http.MethodGet, "/api/sensors", nil)
	if code != http.StatusOK {
		t.Fatalf("status = %d, want 200", code)
	}

	sensors, ok := resp["sensors"].(map[string]any)
	if !ok {
		t.Fatalf("sensors = %T, want object", resp["sensors"])
	}
	if len(sensors) != 3 {
		t.Errorf("sensor count = %d, want 3", len(sensors))
	}
	temp, ok := sensors["temperature_sensor"].(map[string]any)
	if !ok {
		t.Fatal("temperature_sensor missing")
	}
	if temp["unit"] != "°C" {
		t.Errorf("unit = %v, want °C", temp["unit"])
	}
	assertTimestamp(t, resp)
}

// ─── GET /api/sensors/data ───────────────────────────────────────────────────

func TestGetSensorData_Empty(t *testing.T) {
	srv, _ := testServer(t, "")

	code, resp := doRequest(t, srv, http.MethodGet, "/api/sensors/data", nil)
	if code != http.StatusOK {
		t.Fatalf("status = %d, want 200", code)
	}
	data, ok := resp["data"].([]any)
	if !ok {
		t.Fatalf("data = %T, want array", resp["data"])
	}
	if len(data) != 0 {
		t.Errorf("data length = %d, want 0", len(data))
	}
	if resp["count"] != float64(0) {
		t.Errorf("count = %v, want 0", resp["count"])
	}
	assertTimestamp(t, resp)
}

func TestGetSensorData_WindowAndCount(t *testing.T) {
	srv, store := testServer(t, "")

	for i := 0; i < 150; i++ {
		body := fmt.Sprintf(`{"sensor_type": "temperature_sensor", "value": %d}`, i)
		if code, _ := doRequest(t, srv, http.MethodPost, "/api/sensors/data", &body); code != http.StatusCreated {
			t.Fatalf("post %d status = %d, want 201", i, code)
		}
	}
	if store.ReadingCount() != 150 {
		t.Fatalf("stored = %d, want 150", store.ReadingCount())
	}

	code, resp := doRequest(t, srv, http.MethodGet, "/api/sensors/data", nil)
	if code != http.StatusOK {
		t.Fatalf("status = %d, want 200", code)
	}
	data := resp["data"].([]any)
	if len(data) != 100 {
		t.Fatalf("data length = %d, want 100", len(data))
	}
	if resp["count"] != float64(150) {
		t.Errorf("count = %v, want 150", resp["count"])
	}

	// Insertion order preserved: window holds readings 50..149.
	first := data[0].(map[string]any)
	last := data[99].(map[string]any)
	if first["value"] != float64(50) {
		t.Errorf("first value = %v, want 50", first["value"])
	}
	if last["value"] != float64(149) {
		t.Errorf("last value = %v, want 149", last["value"])
	}
}

// ─── POST /api/sensors/data ──────────────────────────────────────────────────

func TestPostSensorData(t *testing.T) {
	srv, store := testServer(t, "")

	body := `{"sensor_type": "temperature_sensor", "value": 30.1}`
	code, resp := doRequest(t, srv, http.MethodPost, "/api/sensors/data", &body)
	if code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", code)
	}
	if resp["success"] != true {
		t.Errorf("success = %v, want true", resp["success"])
	}

	data, ok := resp["data"].(map[string]any)
	if !ok {
		t.Fatalf("data = %T, want object", resp["data"])
	}
	if data["value"] != 30.1 {
		t.Errorf("echoed value = %v, want 30.1", data["value"])
	}
	ts, _ := data["timestamp"].(string)
	if !validTimestamp(ts) {
		t.Errorf("stamped timestamp %q not in service format", ts)
	}

	// Side effect: device record follows the reading.
	device, err := store.Device("temperature_sensor")
	if err != nil {
		t.Fatalf("Device() error: %v", err)
	}
	if device["last_reading"] != 30.1 {
		t.Errorf("last_reading = %v, want 30.1", device["last_reading"])
	}
	if device["status"] != "online" {
		t.Errorf("status = %v, want online", device["status"])
	}
}

func TestPostSensorData_ClientTimestampKept(t *testing.T) {
	srv, _ := testServer(t, "")

	body := `{"sensor_type": "humidity_sensor", "value": 50, "timestamp": "2024-01-15T10:30:00.000000"}`
	code, resp := doRequest(t, srv, http.MethodPost, "/api/sensors/data", &body)
	if code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", code)
	}
	data := resp["data"].(map[string]any)
	if data["timestamp"] != "2024-01-15T10:30:00.000000" {
		t.Errorf("client timestamp rewritten to %v", data["timestamp"])
	}
}

func TestPostSensorData_NoBody(t *testing.T) {
	srv, store := testServer(t, "")

	tests := []struct {
		name string
		body *string
	}{
		{"absent", nil},
		{"invalid json", ptr(`{not json`)},
		{"empty object", ptr(`{}`)},
		{"json null", ptr(`null`)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, resp := doRequest(t, srv, http.MethodPost, "/api/sensors/data", tt.body)
			if code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", code)
			}
			if resp["error"] != "No data provided" {
				t.Errorf("error = %v, want No data provided", resp["error"])
			}
			assertTimestamp(t, resp)
		})
	}

	if store.ReadingCount() != 0 {
		t.Errorf("rejected posts were stored, count = %d", store.ReadingCount())
	}
}

func TestPostSensorData_UnknownSensorType(t *testing.T) {
	srv, store := testServer(t, "")

	body := `{"sensor_type": "pressure_sensor", "value": 1013.2}`
	code, _ := doRequest(t, srv, http.MethodPost, "/api/sensors/data", &body)
	if code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", code)
	}

	// Stored, but no device record appears or changes.
	if store.ReadingCount() != 1 {
		t.Errorf("reading count = %d, want 1", store.ReadingCount())
	}
	if store.DeviceCount() != 3 {
		t.Errorf("device count = %d, want 3", store.DeviceCount())
	}
}

func ptr(s string) *string { return &s }
