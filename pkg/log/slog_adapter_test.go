package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
	"time"
)

func logOne(t *testing.T, event Event) map[string]any {
	t.Helper()
	var buf bytes.Buffer
	handler := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	NewSlogAdapter(slog.New(handler)).Log(event)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse log output %q: %v", buf.String(), err)
	}
	return entry
}

func TestSlogAdapterFrameEvent(t *testing.T) {
	entry := logOne(t, Event{
		Timestamp:    time.Now(),
		ConnectionID: "conn-123",
		Direction:    DirectionIn,
		Layer:        LayerTransport,
		RemoteAddr:   "198.51.100.1:8883",
		Frame:        &FrameEvent{Size: 12, Requested: 64},
	})

	want := map[string]any{
		"msg":       "capture",
		"conn_id":   "conn-123",
		"direction": "IN",
		"layer":     "TRANSPORT",
		"remote":    "198.51.100.1:8883",
		"size":      float64(12),
		"requested": float64(64),
		"truncated": false,
	}
	for k, v := range want {
		if entry[k] != v {
			t.Errorf("%s: got %v, want %v", k, entry[k], v)
		}
	}
}

func TestSlogAdapterDocumentEvent(t *testing.T) {
	entry := logOne(t, Event{
		ConnectionID: "conn-1",
		Layer:        LayerCodec,
		ClientID:     "dev",
		Document:     &DocumentEvent{Kind: DocumentUpdate, ClientToken: "dev-4", Size: 40, Version: 2},
	})

	if entry["doc_kind"] != "UPDATE" {
		t.Errorf("doc_kind: got %v", entry["doc_kind"])
	}
	if entry["client_token"] != "dev-4" {
		t.Errorf("client_token: got %v", entry["client_token"])
	}
	if entry["client_id"] != "dev" {
		t.Errorf("client_id: got %v", entry["client_id"])
	}
	if entry["version"] != float64(2) {
		t.Errorf("version: got %v", entry["version"])
	}
}

func TestSlogAdapterStateAndError(t *testing.T) {
	entry := logOne(t, Event{
		Category:    CategoryState,
		StateChange: &StateChangeEvent{OldState: "CONNECTED", NewState: "DISCONNECTED", Reason: "peer closed"},
	})
	if entry["new_state"] != "DISCONNECTED" || entry["reason"] != "peer closed" {
		t.Errorf("state attrs: %v", entry)
	}

	entry = logOne(t, Event{
		Category: CategoryError,
		Error:    &ErrorEventData{Layer: LayerTransport, Message: "boom", Code: "TLS_READ_ERROR", Context: "read"},
	})
	if entry["error_code"] != "TLS_READ_ERROR" || entry["error_context"] != "read" {
		t.Errorf("error attrs: %v", entry)
	}
}

func TestSlogAdapterRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})
	NewSlogAdapter(slog.New(handler)).Log(Event{ConnectionID: "quiet"})

	if buf.Len() != 0 {
		t.Errorf("expected no output at Info level, got %q", buf.String())
	}
}
