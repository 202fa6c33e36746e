// Package log captures transport and codec events for offline analysis.
//
// It is separate from operational logging (slog): a capture is a complete,
// machine-readable trace of what passed through a TLS session and which
// shadow documents were built or parsed.
//
//	// Console, for development
//	capture := log.NewSlogAdapter(slog.Default())
//
//	// Binary capture file
//	fl, _ := log.NewFileLogger("device" + log.FileExt)
//
//	// Both
//	capture = log.NewMultiLogger(log.NewSlogAdapter(slog.Default()), fl)
//
// Events are recorded at two layers:
//   - Transport: bytes read and written (FrameEvent) and connection state
//     changes (StateChangeEvent)
//   - Codec: shadow documents (DocumentEvent)
//
// Errors at either layer use ErrorEventData.
//
// # File Format
//
// Capture files are a stream of CBOR-encoded events with integer keys. The
// shadowctl log command reads and filters them.
package log
