package commands

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shadowlink/shadowlink-go/pkg/log"
)

// run feeds lines to a fresh shell and returns the output of the last one.
func run(t *testing.T, s *Shell, out *bytes.Buffer, lines ...string) string {
	t.Helper()
	for _, line := range lines {
		out.Reset()
		require.True(t, s.Exec(line), "shell exited on %q", line)
	}
	return out.String()
}

func TestShellComposesUpdate(t *testing.T) {
	var out bytes.Buffer
	rec := &eventRecorder{}
	s := NewShell("dev", 128, &out, rec)

	got := run(t, s, &out, "init", "reported temp int32 42", "finalize")
	assert.Equal(t, `{"state":{"reported":{"temp":42}},"clientToken":"dev-0"}`+"\n", got)

	require.Len(t, rec.events, 1)
	assert.Equal(t, log.DocumentUpdate, rec.events[0].Document.Kind)
	assert.Equal(t, "dev-0", rec.events[0].Document.ClientToken)

	got = run(t, s, &out, "show")
	assert.Contains(t, got, "finalized, next token dev-1")
}

func TestShellStringValuesKeepSpaces(t *testing.T) {
	var out bytes.Buffer
	s := NewShell("dev", 128, &out, nil)

	got := run(t, s, &out, "init", "desired name string living room", "finalize")
	assert.Contains(t, got, `{"desired":{"name":"living room"}}`)
}

func TestShellRequestsAndSequence(t *testing.T) {
	var out bytes.Buffer
	s := NewShell("dev", 64, &out, nil)

	assert.Equal(t, "{\"clientToken\":\"dev-0\"}\n", run(t, s, &out, "get"))
	assert.Equal(t, "{\"clientToken\":\"dev-1\"}\n", run(t, s, &out, "delete"))

	assert.Contains(t, run(t, s, &out, "reset-seq"), "Next token: dev-0")
	assert.Equal(t, "{\"clientToken\":\"dev-0\"}\n", run(t, s, &out, "get"))
}

func TestShellReportsBuilderErrors(t *testing.T) {
	var out bytes.Buffer
	s := NewShell("dev", 24, &out, nil)

	assert.Contains(t, run(t, s, &out, "desired temp int32 1"), "Error:")
	assert.Contains(t, run(t, s, &out, "init"), "OK (10/24 bytes)")
	assert.Contains(t, run(t, s, &out, "desired temperature int32 100"), "Error:")
	assert.Contains(t, run(t, s, &out, "show"), `{"state":{`)

	assert.Contains(t, run(t, s, &out, "desired temp int8 300"), "Error:")
	assert.Contains(t, run(t, s, &out, "desired temp"), "Usage:")
	assert.Contains(t, run(t, s, &out, "desired temp int64 1"), "unknown type")
}

func TestShellParseAndFind(t *testing.T) {
	var out bytes.Buffer
	s := NewShell("dev", 128, &out, nil)

	assert.Contains(t, run(t, s, &out, "find temp int32"), "nothing parsed")

	got := run(t, s, &out, `parse {"state":{"temp": 44},"version":7}`)
	assert.Contains(t, got, "Version:     7")
	assert.Contains(t, got, "ClientToken: not found")

	assert.Contains(t, run(t, s, &out, "find temp int32"), "temp = 44 (bytes 18..20)")
	assert.Contains(t, run(t, s, &out, "find mode string"), "mode: not found")

	// building a document must not disturb the parsed tokens
	run(t, s, &out, "get")
	assert.Contains(t, run(t, s, &out, "find temp int32"), "temp = 44")

	assert.Contains(t, run(t, s, &out, "parse {oops"), "Error:")
	assert.Contains(t, run(t, s, &out, "find temp int32"), "nothing parsed")
}

func TestShellParsesCurrentDocument(t *testing.T) {
	var out bytes.Buffer
	s := NewShell("dev", 128, &out, nil)

	got := run(t, s, &out, "init", "desired on bool true", "finalize", "parse")
	assert.Contains(t, got, "ClientToken: dev-0")
	assert.Contains(t, run(t, s, &out, "find on bool"), "on = true")
}

func TestShellMisc(t *testing.T) {
	var out bytes.Buffer
	s := NewShell("dev", 64, &out, nil)

	assert.Contains(t, run(t, s, &out, "help"), "reset-seq")
	assert.Contains(t, run(t, s, &out, "bogus"), "Unknown command: bogus")
	assert.Equal(t, "", run(t, s, &out, "   "))
	assert.Contains(t, run(t, s, &out, "init", "reset"), "Document cleared")
	assert.True(t, strings.HasPrefix(run(t, s, &out, "show"), "\n(0/64 bytes, open"))

	assert.False(t, s.Exec("quit"))
}
