package shadowjson

import "github.com/shadowlink/shadowlink-go/pkg/status"

// Type is the primitive type of a shadow property.
type Type uint8

const (
	TypeInvalid Type = iota
	TypeBool
	TypeInt8
	TypeInt16
	TypeInt32
	TypeUint8
	TypeUint16
	TypeUint32
	TypeFloat
	TypeDouble
	TypeString
)

// String returns the type name.
func (t Type) String() string {
	switch t {
	case TypeBool:
		return "bool"
	case TypeInt8:
		return "int8"
	case TypeInt16:
		return "int16"
	case TypeInt32:
		return "int32"
	case TypeUint8:
		return "uint8"
	case TypeUint16:
		return "uint16"
	case TypeUint32:
		return "uint32"
	case TypeFloat:
		return "float"
	case TypeDouble:
		return "double"
	case TypeString:
		return "string"
	default:
		return "invalid"
	}
}

// ParseType returns the Type named s, as printed by String.
func ParseType(s string) (Type, bool) {
	for t := TypeBool; t <= TypeString; t++ {
		if t.String() == s {
			return t, true
		}
	}
	return TypeInvalid, false
}

// Property binds a JSON key to caller-owned storage.
//
// Value must be a non-nil pointer whose element type matches Type:
// *bool, *int8, *int16, *int32, *uint8, *uint16, *uint32, *float32,
// *float64 or *string. The builder reads through it; the parser writes
// through it.
type Property struct {
	Key   string
	Type  Type
	Value any
}

// Field creates a Property whose Type is inferred from ptr.
// Unsupported pointer types yield TypeInvalid, which builder and parser
// calls reject.
func Field(key string, ptr any) Property {
	return Property{Key: key, Type: typeOf(ptr), Value: ptr}
}

func typeOf(ptr any) Type {
	switch ptr.(type) {
	case *bool:
		return TypeBool
	case *int8:
		return TypeInt8
	case *int16:
		return TypeInt16
	case *int32:
		return TypeInt32
	case *uint8:
		return TypeUint8
	case *uint16:
		return TypeUint16
	case *uint32:
		return TypeUint32
	case *float32:
		return TypeFloat
	case *float64:
		return TypeDouble
	case *string:
		return TypeString
	default:
		return TypeInvalid
	}
}

// validate checks the key and that Value is a non-nil pointer of Type.
func (p Property) validate() error {
	if p.Key == "" || p.Value == nil {
		return status.Errorf(status.NullValue, "property %q has no key or value", p.Key)
	}
	if typeOf(p.Value) != p.Type || p.Type == TypeInvalid {
		return status.Errorf(status.JSONGeneric, "property %q: %T does not hold %s", p.Key, p.Value, p.Type)
	}
	if isNilPointer(p.Value) {
		return status.Errorf(status.NullValue, "property %q has a nil value pointer", p.Key)
	}
	return nil
}

func isNilPointer(v any) bool {
	switch ptr := v.(type) {
	case *bool:
		return ptr == nil
	case *int8:
		return ptr == nil
	case *int16:
		return ptr == nil
	case *int32:
		return ptr == nil
	case *uint8:
		return ptr == nil
	case *uint16:
		return ptr == nil
	case *uint32:
		return ptr == nil
	case *float32:
		return ptr == nil
	case *float64:
		return ptr == nil
	case *string:
		return ptr == nil
	}
	return false
}
