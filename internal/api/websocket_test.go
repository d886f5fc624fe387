package api

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/servicepi/servicepi-core/internal/telemetry"
)

// dialWS connects a real WebSocket client to the server's /ws endpoint.
func dialWS(t *testing.T, srv *Server) (*websocket.Conn, func()) {
	t.Helper()

	ts := httptest.NewServer(srv.buildRouter())
	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		ts.Close()
		t.Fatalf("dial %s: %v", wsURL, err)
	}

	return conn, func() {
		conn.Close()
		ts.Close()
	}
}

// subscribe sends a subscribe message and waits for the acknowledgement.
func subscribe(t *testing.T, conn *websocket.Conn, channels ...string) {
	t.Helper()

	msg := WSMessage{
		Type:    WSTypeSubscribe,
		ID:      "sub-1",
		Payload: WSSubscribePayload{Channels: channels},
	}
	if err := conn.WriteJSON(msg); err != nil {
		t.Fatalf("write subscribe: %v", err)
	}

	var resp WSMessage
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatalf("read subscribe ack: %v", err)
	}
	if resp.Type != WSTypeResponse {
		t.Fatalf("ack type = %q, want response", resp.Type)
	}
}

// readEvent reads the next event message within the deadline.
func readEvent(t *testing.T, conn *websocket.Conn) WSMessage {
	t.Helper()

	var msg WSMessage
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read event: %v", err)
	}
	return msg
}

// ─── Event feed ──────────────────────────────────────────────────────────────

func TestWebSocket_ReadingCreated(t *testing.T) {
	srv, store := testServer(t, "")
	conn, cleanup := dialWS(t, srv)
	defer cleanup()

	subscribe(t, conn, ChannelReadingCreated)

	if _, err := store.AppendReading(telemetry.Reading{"sensor_type": "temperature_sensor", "value": 25.5}); err != nil {
		t.Fatalf("AppendReading: %v", err)
	}

	msg := readEvent(t, conn)
	if msg.Type != WSTypeEvent {
		t.Errorf("type = %q, want event", msg.Type)
	}
	if msg.EventType != ChannelReadingCreated {
		t.Errorf("event_type = %q, want %s", msg.EventType, ChannelReadingCreated)
	}
	payload, ok := msg.Payload.(map[string]any)
	if !ok {
		t.Fatalf("payload = %T, want object", msg.Payload)
	}
	if payload["value"] != 25.5 {
		t.Errorf("payload value = %v, want 25.5", payload["value"])
	}
	if !validTimestamp(msg.Timestamp) {
		t.Errorf("event timestamp %q not in service format", msg.Timestamp)
	}
}

func TestWebSocket_DeviceUpdatedOnly(t *testing.T) {
	srv, store := testServer(t, "")
	conn, cleanup := dialWS(t, srv)
	defer cleanup()

	// Subscribed to device updates only: the reading event is filtered out.
	subscribe(t, conn, ChannelDeviceUpdated)

	if _, err := store.AppendReading(telemetry.Reading{"sensor_type": "motion_sensor", "value": true}); err != nil {
		t.Fatalf("AppendReading: %v", err)
	}

	msg := readEvent(t, conn)
	if msg.EventType != ChannelDeviceUpdated {
		t.Fatalf("event_type = %q, want %s", msg.EventType, ChannelDeviceUpdated)
	}
	payload := msg.Payload.(map[string]any)
	if payload["device_id"] != "motion_sensor" {
		t.Errorf("device_id = %v, want motion_sensor", payload["device_id"])
	}
	device, ok := payload["device"].(map[string]any)
	if !ok {
		t.Fatalf("device = %T, want object", payload["device"])
	}
	if device["last_reading"] != true {
		t.Errorf("device last_reading = %v, want true", device["last_reading"])
	}
}

func TestWebSocket_DeviceUpdatedOnMerge(t *testing.T) {
	srv, store := testServer(t, "")
	conn, cleanup := dialWS(t, srv)
	defer cleanup()

	subscribe(t, conn, ChannelDeviceUpdated)

	if _, err := store.MergeDevice("humidity_sensor", map[string]any{"status": "offline"}); err != nil {
		t.Fatalf("MergeDevice: %v", err)
	}

	msg := readEvent(t, conn)
	payload := msg.Payload.(map[string]any)
	if payload["device_id"] != "humidity_sensor" {
		t.Errorf("device_id = %v", payload["device_id"])
	}
	device := payload["device"].(map[string]any)
	if device["status"] != "offline" {
		t.Errorf("status = %v, want offline", device["status"])
	}
}

// ─── Protocol ────────────────────────────────────────────────────────────────

func TestWebSocket_Ping(t *testing.T) {
	srv, _ := testServer(t, "")
	conn, cleanup := dialWS(t, srv)
	defer cleanup()

	if err := conn.WriteJSON(WSMessage{Type: WSTypePing, ID: "p1"}); err != nil {
		t.Fatalf("write ping: %v", err)
	}

	var resp WSMessage
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatalf("read pong: %v", err)
	}
	if resp.Type != WSTypePong {
		t.Errorf("type = %q, want pong", resp.Type)
	}
	if resp.ID != "p1" {
		t.Errorf("id = %q, want p1", resp.ID)
	}
}

func TestWebSocket_UnknownMessageType(t *testing.T) {
	srv, _ := testServer(t, "")
	conn, cleanup := dialWS(t, srv)
	defer cleanup()

	if err := conn.WriteJSON(WSMessage{Type: "bogus", ID: "x"}); err != nil {
		t.Fatalf("write: %v", err)
	}

	var resp WSMessage
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatalf("read: %v", err)
	}
	if resp.Type != WSTypeError {
		t.Errorf("type = %q, want error", resp.Type)
	}
}

// ─── Hub bookkeeping ─────────────────────────────────────────────────────────

func TestHub_ClientCount(t *testing.T) {
	srv, _ := testServer(t, "")

	if srv.hub.ClientCount() != 0 {
		t.Fatalf("initial count = %d, want 0", srv.hub.ClientCount())
	}

	conn, cleanup := dialWS(t, srv)
	defer cleanup()

	// Registration happens in the upgrade handler; poll briefly.
	deadline := time.Now().Add(2 * time.Second)
	for srv.hub.ClientCount() != 1 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if srv.hub.ClientCount() != 1 {
		t.Errorf("count after connect = %d, want 1", srv.hub.ClientCount())
	}

	conn.Close()
	deadline = time.Now().Add(2 * time.Second)
	for srv.hub.ClientCount() != 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if srv.hub.ClientCount() != 0 {
		t.Errorf("count after close = %d, want 0", srv.hub.ClientCount())
	}
}

func TestHub_BroadcastSkipsUnsubscribed(t *testing.T) {
	srv, _ := testServer(t, "")
	conn, cleanup := dialWS(t, srv)
	defer cleanup()

	// No subscriptions: a broadcast must not reach this client.
	srv.hub.Broadcast(ChannelReadingCreated, map[string]any{"value": 1})

	conn.SetReadDeadline(time.Now().Add(300 * time.Millisecond))
	var msg json.RawMessage
	if err := conn.ReadJSON(&msg); err == nil {
		t.Errorf("unsubscribed client received %s", msg)
	}
}
