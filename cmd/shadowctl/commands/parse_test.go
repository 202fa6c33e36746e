package commands

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shadowlink/shadowlink-go/pkg/log"
)

func TestParseReportsTokenVersionAndValues(t *testing.T) {
	doc := writeFile(t, "accepted.json",
		`{"state":{"desired":{"temp":40},"reported":{"mode":"cool"}},"version":12,"clientToken":"thermostat-7-3"}`)
	props := writeFile(t, "props.jsonc", thermostatProps)
	rec := &eventRecorder{}

	var buf bytes.Buffer
	if err := RunParse(ParseOptions{Doc: doc, Props: props, Capture: rec}, &buf); err != nil {
		t.Fatalf("RunParse failed: %v", err)
	}
	output := buf.String()

	for _, want := range []string{
		"Tokens:      15 of 120",
		"ClientToken: thermostat-7-3",
		"Version:     12",
		"desired.temp (int32): 40",
		`reported.mode (string): "cool"`,
		"reported.on (bool): not found",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output:\n%s", want, output)
		}
	}

	if len(rec.events) != 1 {
		t.Fatalf("expected 1 capture event, got %d", len(rec.events))
	}
	e := rec.events[0]
	if e.Direction != log.DirectionIn || e.Document.Kind != log.DocumentResponse {
		t.Errorf("unexpected event %s %s", e.Direction, e.Document.Kind)
	}
	if e.Document.Version != 12 || e.Document.ClientToken != "thermostat-7-3" {
		t.Errorf("unexpected document event %+v", e.Document)
	}
	if e.ClientID != "thermostat-7" {
		t.Errorf("unexpected client id %q", e.ClientID)
	}
}

func TestParseDeltaLooksUpWholeDocument(t *testing.T) {
	doc := writeFile(t, "delta.json", `{"version":5,"timestamp":1700000000,"state":{"temp":44}}`)
	props := writeFile(t, "props.jsonc", thermostatProps)

	var buf bytes.Buffer
	if err := RunParse(ParseOptions{Doc: doc, Props: props}, &buf); err != nil {
		t.Fatalf("RunParse failed: %v", err)
	}
	output := buf.String()

	if !strings.Contains(output, "ClientToken: not found") {
		t.Errorf("expected missing token, got:\n%s", output)
	}
	if !strings.Contains(output, "desired.temp (int32): 44") {
		t.Errorf("expected delta value, got:\n%s", output)
	}
}

func TestParseWithoutProperties(t *testing.T) {
	doc := writeFile(t, "doc.json", `{"clientToken":"dev-0"}`)

	var buf bytes.Buffer
	if err := RunParse(ParseOptions{Doc: doc}, &buf); err != nil {
		t.Fatalf("RunParse failed: %v", err)
	}
	if !strings.Contains(buf.String(), "Version:     not found") {
		t.Errorf("unexpected output:\n%s", buf.String())
	}
}

func TestParseRejectsMalformedDocument(t *testing.T) {
	doc := writeFile(t, "bad.json", `{"state":{"temp":}`)

	var buf bytes.Buffer
	if err := RunParse(ParseOptions{Doc: doc}, &buf); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestParseTokenCapacity(t *testing.T) {
	doc := writeFile(t, "doc.json", `{"a":1,"b":2}`)

	var buf bytes.Buffer
	if err := RunParse(ParseOptions{Doc: doc, Capacity: 4}, &buf); err == nil {
		t.Fatal("expected table-full error")
	}
	buf.Reset()
	if err := RunParse(ParseOptions{Doc: doc, Capacity: 5}, &buf); err != nil {
		t.Fatalf("RunParse failed: %v", err)
	}
	if !strings.Contains(buf.String(), "Tokens:      5 of 5") {
		t.Errorf("unexpected output:\n%s", buf.String())
	}
}
