package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// ─── GET /api/system/info ────────────────────────────────────────────────────

func TestSystemInfo(t *testing.T) {
	srv, _ := testServer(t, "")

	body := `{"sensor_type": "temperature_sensor", "value": 21.0}`
	doRequest(t, srv, http.MethodPost, "/api/sensors/data", &body)

	code, resp := doRequest(t, srv, http.MethodGet, "/api/system/info", nil)
	if code != http.StatusOK {
		t.Fatalf("status = %d, want 200", code)
	}

	system, ok := resp["system"].(map[string]any)
	if !ok {
		t.Fatalf("system = %T, want object", resp["system"])
	}
	if system["service"] != "ServicePi IoT" {
		t.Errorf("service = %v", system["service"])
	}
	if system["uptime"] != "Running" {
		t.Errorf("uptime = %v, want literal Running", system["uptime"])
	}
	if system["version"] != "test" {
		t.Errorf("version = %v", system["version"])
	}
	if system["api_port"] != float64(8080) {
		t.Errorf("api_port = %v, want 8080", system["api_port"])
	}
	if system["ssl_enabled"] != false {
		t.Errorf("ssl_enabled = %v, want false", system["ssl_enabled"])
	}

	stats, ok := resp["statistics"].(map[string]any)
	if !ok {
		t.Fatalf("statistics = %T, want object", resp["statistics"])
	}
	if stats["total_sensor_readings"] != float64(1) {
		t.Errorf("total_sensor_readings = %v, want 1", stats["total_sensor_readings"])
	}
	if stats["total_devices"] != float64(3) {
		t.Errorf("total_devices = %v, want 3", stats["total_devices"])
	}
	if stats["online_devices"] != float64(3) {
		t.Errorf("online_devices = %v, want 3", stats["online_devices"])
	}
	assertTimestamp(t, resp)
}

func TestSystemInfo_SSLEnabledFlag(t *testing.T) {
	t.Setenv("SSL_ENABLED", "TRUE")
	srv, _ := testServer(t, "")

	_, resp := doRequest(t, srv, http.MethodGet, "/api/system/info", nil)
	system := resp["system"].(map[string]any)
	if system["ssl_enabled"] != true {
		t.Errorf("ssl_enabled = %v, want true", system["ssl_enabled"])
	}
}

// ─── POST /api/system/communicate ────────────────────────────────────────────

func TestCommunicate_HealthyPeer(t *testing.T) {
	peerSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer peerSrv.Close()

	srv, _ := testServer(t, peerSrv.URL+"/health")

	code, resp := doRequest(t, srv, http.MethodPost, "/api/system/communicate", nil)
	if code != http.StatusOK {
		t.Fatalf("status = %d, want 200", code)
	}

	comm, ok := resp["service_communication"].(map[string]any)
	if !ok {
		t.Fatalf("service_communication = %T, want object", resp["service_communication"])
	}
	backend := comm["web_backend"].(map[string]any)
	if backend["status"] != "healthy" {
		t.Errorf("web_backend status = %v, want healthy", backend["status"])
	}
	if rt, ok := backend["response_time"].(float64); !ok || rt <= 0 {
		t.Errorf("response_time = %v, want positive seconds", backend["response_time"])
	}
	portainer := comm["portainer"].(map[string]any)
	if portainer["status"] != "accessible" {
		t.Errorf("portainer status = %v, want accessible", portainer["status"])
	}
	assertTimestamp(t, resp)
}

func TestCommunicate_UnhealthyPeer(t *testing.T) {
	peerSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer peerSrv.Close()

	srv, _ := testServer(t, peerSrv.URL+"/health")

	code, resp := doRequest(t, srv, http.MethodPost, "/api/system/communicate", nil)
	if code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (non-2xx peer is not a failure)", code)
	}
	backend := resp["service_communication"].(map[string]any)["web_backend"].(map[string]any)
	if backend["status"] != "unhealthy" {
		t.Errorf("web_backend status = %v, want unhealthy", backend["status"])
	}
}

func TestCommunicate_UnreachablePeer(t *testing.T) {
	srv, _ := testServer(t, "") // default peer URL points at nothing

	start := time.Now()
	code, resp := doRequest(t, srv, http.MethodPost, "/api/system/communicate", nil)
	elapsed := time.Since(start)

	if code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", code)
	}
	if resp["error"] != "Communication failed" {
		t.Errorf("error = %v, want Communication failed", resp["error"])
	}
	// Sanitized details only: no raw dial error leaks to the client.
	details, _ := resp["details"].(string)
	if details == "" {
		t.Error("details missing")
	}
	for _, leak := range []string{"dial tcp", "connection refused", "127.0.0.1"} {
		if strings.Contains(details, leak) {
			t.Errorf("details %q leaks transport error text", details)
		}
	}
	assertTimestamp(t, resp)

	// The 1s test timeout bounds the request; it must not hang.
	if elapsed > 3*time.Second {
		t.Errorf("communicate took %v, should respect the probe timeout", elapsed)
	}
}
