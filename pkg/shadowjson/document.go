package shadowjson

import (
	"math"
	"strconv"

	"github.com/shadowlink/shadowlink-go/pkg/status"
)

// floatPrecision is the number of fractional digits written for float and
// double values.
const floatPrecision = 6

// maxFloatText bounds the text of a float64 formatted with floatPrecision:
// sign, 309 integer digits, point, fraction.
const maxFloatText = 1 + 309 + 1 + floatPrecision

// Document is a shadow document under construction inside a caller-owned
// buffer. The buffer is never grown or retained beyond the Document.
type Document struct {
	buf       []byte
	n         int
	finalized bool
}

// NewDocument wraps buf. The capacity of the document is len(buf),
// including the NUL terminator.
func NewDocument(buf []byte) *Document {
	d := &Document{buf: buf}
	if len(buf) > 0 {
		buf[0] = 0
	}
	return d
}

// Cap returns the buffer capacity.
func (d *Document) Cap() int { return len(d.buf) }

// Len returns the content length, excluding the terminator.
func (d *Document) Len() int { return d.n }

// Bytes returns the content. The slice aliases the caller's buffer.
func (d *Document) Bytes() []byte { return d.buf[:d.n] }

// String returns a copy of the content.
func (d *Document) String() string { return string(d.buf[:d.n]) }

// Finalized reports whether the document is complete.
func (d *Document) Finalized() bool { return d.finalized }

// Reset empties the document.
func (d *Document) Reset() {
	d.n = 0
	d.finalized = false
	if len(d.buf) > 0 {
		d.buf[0] = 0
	}
}

// room is the number of content bytes that still fit before the terminator.
func (d *Document) room() int {
	return len(d.buf) - d.n - 1
}

// appendBytes copies b if it fits in the remaining room, or reports
// BufferTruncated without writing anything.
func (d *Document) appendBytes(b []byte) error {
	if len(b) > d.room() {
		return status.BufferTruncated
	}
	d.n += copy(d.buf[d.n:], b)
	d.buf[d.n] = 0
	return nil
}

// appendString is appendBytes for string input.
func (d *Document) appendString(s string) error {
	if len(s) > d.room() {
		return status.BufferTruncated
	}
	d.n += copy(d.buf[d.n:], s)
	d.buf[d.n] = 0
	return nil
}

func (d *Document) appendInt(v int64) error {
	var scratch [20]byte
	return d.appendBytes(strconv.AppendInt(scratch[:0], v, 10))
}

func (d *Document) appendUint(v uint64) error {
	var scratch [20]byte
	return d.appendBytes(strconv.AppendUint(scratch[:0], v, 10))
}

func (d *Document) appendFloat(v float64, bitSize int) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return status.Errorf(status.JSONGeneric, "%v is not representable in JSON", v)
	}
	var scratch [maxFloatText]byte
	return d.appendBytes(strconv.AppendFloat(scratch[:0], v, 'f', floatPrecision, bitSize))
}

// appendValue renders the value behind p. p must have passed validate.
func (d *Document) appendValue(p Property) error {
	switch v := p.Value.(type) {
	case *bool:
		if *v {
			return d.appendString("true")
		}
		return d.appendString("false")
	case *int8:
		return d.appendInt(int64(*v))
	case *int16:
		return d.appendInt(int64(*v))
	case *int32:
		return d.appendInt(int64(*v))
	case *uint8:
		return d.appendUint(uint64(*v))
	case *uint16:
		return d.appendUint(uint64(*v))
	case *uint32:
		return d.appendUint(uint64(*v))
	case *float32:
		return d.appendFloat(float64(*v), 32)
	case *float64:
		return d.appendFloat(*v, 64)
	case *string:
		if err := d.appendString(`"`); err != nil {
			return err
		}
		if err := d.appendString(*v); err != nil {
			return err
		}
		return d.appendString(`"`)
	default:
		return status.Errorf(status.JSONGeneric, "property %q: unsupported value %T", p.Key, p.Value)
	}
}

// mark records the document state a failed builder call rolls back to.
type mark struct {
	n    int
	last byte
}

func (d *Document) mark() mark {
	m := mark{n: d.n}
	if d.n > 0 {
		m.last = d.buf[d.n-1]
	}
	return m
}

func (d *Document) rollback(m mark) {
	d.n = m.n
	if m.n > 0 {
		d.buf[m.n-1] = m.last
	}
	d.buf[m.n] = 0
}

// lastByte returns the final content byte, or 0 when empty.
func (d *Document) lastByte() byte {
	if d.n == 0 {
		return 0
	}
	return d.buf[d.n-1]
}
