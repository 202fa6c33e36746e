package log

// Logger receives capture events.
type Logger interface {
	// Log records an event. Implementations must be safe for concurrent use
	// and should return quickly; Log is called inline with session I/O.
	Log(event Event)
}

// NoopLogger discards all events. The zero value is ready to use.
type NoopLogger struct{}

// Log discards the event.
func (NoopLogger) Log(Event) {}

var _ Logger = NoopLogger{}

// MaxCaptureData bounds the payload bytes stored per event.
const MaxCaptureData = 4096

// Clip returns b limited to MaxCaptureData bytes and whether it was cut.
func Clip(b []byte) ([]byte, bool) {
	if len(b) <= MaxCaptureData {
		return b, false
	}
	return b[:MaxCaptureData], true
}
