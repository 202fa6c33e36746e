package log

import "time"

// Event represents a capture event recorded by the transport or the
// document codec. CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// ConnectionID uniquely identifies the connection (UUID).
	ConnectionID string `cbor:"2,keyasint"`

	// Direction indicates data flow.
	Direction Direction `cbor:"3,keyasint"`

	// Layer where the event was captured.
	Layer Layer `cbor:"4,keyasint"`

	// Category classifies the event type.
	Category Category `cbor:"5,keyasint"`

	// RemoteAddr is the peer address (host:port).
	RemoteAddr string `cbor:"6,keyasint,omitempty"`

	// ClientID is the shadow client id, when known.
	ClientID string `cbor:"7,keyasint,omitempty"`

	// Type-specific payload (one of these will be set).
	Frame       *FrameEvent       `cbor:"10,keyasint,omitempty"` // Transport layer
	Document    *DocumentEvent    `cbor:"11,keyasint,omitempty"` // Codec layer
	StateChange *StateChangeEvent `cbor:"12,keyasint,omitempty"` // Connection state
	Error       *ErrorEventData   `cbor:"14,keyasint,omitempty"` // Errors at any layer
}

// Direction indicates the direction of data flow.
type Direction uint8

const (
	// DirectionIn indicates incoming data.
	DirectionIn Direction = 0
	// DirectionOut indicates outgoing data.
	DirectionOut Direction = 1
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirectionIn:
		return "IN"
	case DirectionOut:
		return "OUT"
	default:
		return "UNKNOWN"
	}
}

// Layer indicates which layer captured the event.
type Layer uint8

const (
	// LayerTransport is the TLS session layer (raw bytes).
	LayerTransport Layer = 0
	// LayerCodec is the shadow document layer.
	LayerCodec Layer = 1
)

// String returns the layer name.
func (l Layer) String() string {
	switch l {
	case LayerTransport:
		return "TRANSPORT"
	case LayerCodec:
		return "CODEC"
	default:
		return "UNKNOWN"
	}
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryMessage indicates application data or a shadow document.
	CategoryMessage Category = 0
	// CategoryState indicates a state change.
	CategoryState Category = 2
	// CategoryError indicates an error event.
	CategoryError Category = 3
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryMessage:
		return "MESSAGE"
	case CategoryState:
		return "STATE"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLayer returns the Layer named s, as printed by String.
func ParseLayer(s string) (Layer, bool) {
	for _, l := range []Layer{LayerTransport, LayerCodec} {
		if l.String() == s {
			return l, true
		}
	}
	return 0, false
}

// ParseCategory returns the Category named s, as printed by String.
func ParseCategory(s string) (Category, bool) {
	for _, c := range []Category{CategoryMessage, CategoryState, CategoryError} {
		if c.String() == s {
			return c, true
		}
	}
	return 0, false
}

// FrameEvent captures bytes passed through the TLS session.
type FrameEvent struct {
	// Size is the number of bytes transferred.
	Size int `cbor:"1,keyasint"`

	// Data is the transferred bytes (may be truncated for large transfers).
	Data []byte `cbor:"2,keyasint,omitempty"`

	// Truncated indicates if Data was truncated.
	Truncated bool `cbor:"3,keyasint,omitempty"`

	// Requested is the size of the caller's buffer.
	Requested int `cbor:"4,keyasint,omitempty"`
}

// DocumentEvent captures a shadow document built or parsed by the codec.
type DocumentEvent struct {
	// Kind distinguishes the document shape.
	Kind DocumentKind `cbor:"1,keyasint"`

	// ClientToken is the document's clientToken, if any.
	ClientToken string `cbor:"2,keyasint,omitempty"`

	// Version is the shadow version of a response (0 when absent).
	Version uint32 `cbor:"3,keyasint,omitempty"`

	// Size is the document length in bytes.
	Size int `cbor:"4,keyasint"`

	// Capacity is the buffer capacity the document was built into.
	Capacity int `cbor:"5,keyasint,omitempty"`

	// Text is the document (may be truncated).
	Text string `cbor:"6,keyasint,omitempty"`
}

// DocumentKind distinguishes shadow documents.
type DocumentKind uint8

const (
	// DocumentGet is a get request.
	DocumentGet DocumentKind = 0
	// DocumentDelete is a delete request.
	DocumentDelete DocumentKind = 1
	// DocumentUpdate is an update request.
	DocumentUpdate DocumentKind = 2
	// DocumentResponse is a received response or delta.
	DocumentResponse DocumentKind = 3
)

// String returns the document kind name.
func (k DocumentKind) String() string {
	switch k {
	case DocumentGet:
		return "GET"
	case DocumentDelete:
		return "DELETE"
	case DocumentUpdate:
		return "UPDATE"
	case DocumentResponse:
		return "RESPONSE"
	default:
		return "UNKNOWN"
	}
}

// StateChangeEvent captures connection lifecycle events.
type StateChangeEvent struct {
	// OldState is the previous state (may be empty).
	OldState string `cbor:"2,keyasint,omitempty"`

	// NewState is the new state.
	NewState string `cbor:"3,keyasint"`

	// Reason for the change (if available).
	Reason string `cbor:"4,keyasint,omitempty"`
}

// ErrorEventData captures errors at any layer.
type ErrorEventData struct {
	// Layer where the error occurred.
	Layer Layer `cbor:"1,keyasint"`

	// Message is the error message.
	Message string `cbor:"2,keyasint"`

	// Code is the status code name (if applicable).
	Code string `cbor:"3,keyasint,omitempty"`

	// Context describes what operation was being performed.
	Context string `cbor:"4,keyasint,omitempty"`
}
