package commands

import (
	"fmt"
	"strconv"

	"github.com/shadowlink/shadowlink-go/pkg/shadowjson"
)

// newSlot allocates zeroed storage for a value of type t.
func newSlot(t shadowjson.Type) (any, error) {
	switch t {
	case shadowjson.TypeBool:
		return new(bool), nil
	case shadowjson.TypeInt8:
		return new(int8), nil
	case shadowjson.TypeInt16:
		return new(int16), nil
	case shadowjson.TypeInt32:
		return new(int32), nil
	case shadowjson.TypeUint8:
		return new(uint8), nil
	case shadowjson.TypeUint16:
		return new(uint16), nil
	case shadowjson.TypeUint32:
		return new(uint32), nil
	case shadowjson.TypeFloat:
		return new(float32), nil
	case shadowjson.TypeDouble:
		return new(float64), nil
	case shadowjson.TypeString:
		return new(string), nil
	default:
		return nil, fmt.Errorf("unsupported type %s", t)
	}
}

// setValue parses text into the storage behind ptr.
func setValue(ptr any, text string) error {
	var err error
	switch v := ptr.(type) {
	case *bool:
		*v, err = strconv.ParseBool(text)
	case *int8:
		var n int64
		n, err = strconv.ParseInt(text, 10, 8)
		*v = int8(n)
	case *int16:
		var n int64
		n, err = strconv.ParseInt(text, 10, 16)
		*v = int16(n)
	case *int32:
		var n int64
		n, err = strconv.ParseInt(text, 10, 32)
		*v = int32(n)
	case *uint8:
		var n uint64
		n, err = strconv.ParseUint(text, 10, 8)
		*v = uint8(n)
	case *uint16:
		var n uint64
		n, err = strconv.ParseUint(text, 10, 16)
		*v = uint16(n)
	case *uint32:
		var n uint64
		n, err = strconv.ParseUint(text, 10, 32)
		*v = uint32(n)
	case *float32:
		var f float64
		f, err = strconv.ParseFloat(text, 32)
		*v = float32(f)
	case *float64:
		*v, err = strconv.ParseFloat(text, 64)
	case *string:
		*v = text
	default:
		return fmt.Errorf("unsupported value %T", ptr)
	}
	if err != nil {
		return fmt.Errorf("invalid value %q: %w", text, err)
	}
	return nil
}

// formatValue renders the value behind ptr for display.
func formatValue(ptr any) string {
	switch v := ptr.(type) {
	case *bool:
		return strconv.FormatBool(*v)
	case *int8:
		return strconv.FormatInt(int64(*v), 10)
	case *int16:
		return strconv.FormatInt(int64(*v), 10)
	case *int32:
		return strconv.FormatInt(int64(*v), 10)
	case *uint8:
		return strconv.FormatUint(uint64(*v), 10)
	case *uint16:
		return strconv.FormatUint(uint64(*v), 10)
	case *uint32:
		return strconv.FormatUint(uint64(*v), 10)
	case *float32:
		return strconv.FormatFloat(float64(*v), 'g', -1, 32)
	case *float64:
		return strconv.FormatFloat(*v, 'g', -1, 64)
	case *string:
		return strconv.Quote(*v)
	default:
		return fmt.Sprintf("%v", ptr)
	}
}

// newProperty builds a property of the named type holding text.
func newProperty(key, typeName, text string) (shadowjson.Property, error) {
	t, ok := shadowjson.ParseType(typeName)
	if !ok {
		return shadowjson.Property{}, fmt.Errorf("unknown type %q", typeName)
	}
	ptr, err := newSlot(t)
	if err != nil {
		return shadowjson.Property{}, err
	}
	if err := setValue(ptr, text); err != nil {
		return shadowjson.Property{}, fmt.Errorf("property %q: %w", key, err)
	}
	return shadowjson.Property{Key: key, Type: t, Value: ptr}, nil
}
