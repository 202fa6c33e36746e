package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shadowlink/shadowlink-go/pkg/log"
)

func createTestCapture(t *testing.T, events []log.Event) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test"+log.FileExt)

	logger, err := log.NewFileLogger(path)
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}
	for _, e := range events {
		logger.Log(e)
	}
	logger.Close()

	return path
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

const thermostatProps = `{
	// living room unit
	"clientId": "thermostat-7",
	"desired": [
		{"key": "temp", "type": "int32", "value": 42},
	],
	"reported": [
		{"key": "mode", "type": "string", "value": "heat"},
		{"key": "on", "type": "bool", "value": true},
	],
}`

// eventRecorder keeps events in memory.
type eventRecorder struct {
	events []log.Event
}

func (r *eventRecorder) Log(e log.Event) { r.events = append(r.events, e) }
