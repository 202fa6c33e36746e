// Package status defines the error kinds shared by the transport and the
// shadow JSON codec.
//
// A Code is itself an error, so call sites return it directly or wrap it
// with context:
//
//	return status.Wrap(status.TLSConnect, err)
//
// and callers branch with errors.Is:
//
//	if errors.Is(err, status.TLSReadTimeout) { ... }
package status

import (
	"errors"
	"fmt"
)

// Code identifies an error kind.
type Code uint8

const (
	// OK is the zero code. It is never returned as an error.
	OK Code = 0

	// NullValue indicates a required argument was missing or empty.
	NullValue Code = 1

	// BufferTruncated indicates a document append did not fit the buffer.
	BufferTruncated Code = 2

	// JSONParse indicates malformed JSON or an undecodable value.
	JSONParse Code = 3

	// JSONGeneric indicates a codec failure not covered by another code.
	JSONGeneric Code = 4

	// TLSInit indicates the TLS context could not be created.
	TLSInit Code = 5

	// TLSCert indicates a credential file could not be loaded.
	TLSCert Code = 6

	// TLSConnect indicates the TLS handshake failed.
	TLSConnect Code = 7

	// TLSConnectTimeout indicates the handshake ran out of time.
	TLSConnectTimeout Code = 8

	// TLSRead indicates a terminal read failure.
	TLSRead Code = 9

	// TLSReadTimeout indicates the read budget was exhausted.
	TLSReadTimeout Code = 10

	// TLSWrite indicates a terminal write failure.
	TLSWrite Code = 11

	// TLSWriteTimeout indicates the write budget was exhausted.
	TLSWriteTimeout Code = 12

	// TCPSetup indicates the destination could not be resolved.
	TCPSetup Code = 13

	// TCPConnect indicates the TCP connection could not be established.
	TCPConnect Code = 14

	// NotFound indicates a requested JSON field is absent.
	NotFound Code = 15

	// Unsupported indicates the transport backend is not available.
	Unsupported Code = 16
)

// String returns the code name.
func (c Code) String() string {
	switch c {
	case OK:
		return "OK"
	case NullValue:
		return "NULL_VALUE"
	case BufferTruncated:
		return "BUFFER_TRUNCATED"
	case JSONParse:
		return "JSON_PARSE_ERROR"
	case JSONGeneric:
		return "JSON_GENERIC_ERROR"
	case TLSInit:
		return "TLS_INIT_ERROR"
	case TLSCert:
		return "TLS_CERT_ERROR"
	case TLSConnect:
		return "TLS_CONNECT_ERROR"
	case TLSConnectTimeout:
		return "TLS_CONNECT_TIMEOUT_ERROR"
	case TLSRead:
		return "TLS_READ_ERROR"
	case TLSReadTimeout:
		return "TLS_READ_TIMEOUT_ERROR"
	case TLSWrite:
		return "TLS_WRITE_ERROR"
	case TLSWriteTimeout:
		return "TLS_WRITE_TIMEOUT_ERROR"
	case TCPSetup:
		return "TCP_SETUP_ERROR"
	case TCPConnect:
		return "TCP_CONNECT_ERROR"
	case NotFound:
		return "NOT_FOUND"
	case Unsupported:
		return "UNSUPPORTED"
	default:
		return "UNKNOWN"
	}
}

// Error implements the error interface.
func (c Code) Error() string {
	return c.String()
}

// Timeout reports whether the code is one of the timeout kinds.
func (c Code) Timeout() bool {
	return c == TLSConnectTimeout || c == TLSReadTimeout || c == TLSWriteTimeout
}

// Wrap annotates a code with its underlying cause.
// A nil cause returns the bare code.
func Wrap(c Code, cause error) error {
	if cause == nil {
		return c
	}
	return fmt.Errorf("%w: %v", c, cause)
}

// Errorf annotates a code with a formatted message.
func Errorf(c Code, format string, args ...any) error {
	return fmt.Errorf("%w: %s", c, fmt.Sprintf(format, args...))
}

// Of extracts the code carried by err.
// The second result is false when err is nil or carries no code.
func Of(err error) (Code, bool) {
	var c Code
	if err == nil || !errors.As(err, &c) {
		return OK, false
	}
	return c, true
}
