package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/tidwall/jsonc"

	"github.com/shadowlink/shadowlink-go/pkg/shadowjson"
)

// PropertyFile describes shadow properties in JSONC:
//
//	{
//	  // living room unit
//	  "clientId": "thermostat-7",
//	  "desired":  [{"key": "temp", "type": "int32", "value": 42}],
//	  "reported": [{"key": "mode", "type": "string", "value": "heat"}],
//	}
//
// Values are optional when the file only names properties to look up.
type PropertyFile struct {
	ClientID string         `json:"clientId"`
	Desired  []PropertyEntry `json:"desired"`
	Reported []PropertyEntry `json:"reported"`
}

// PropertyEntry is one typed property in a property file.
type PropertyEntry struct {
	Key   string          `json:"key"`
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value,omitempty"`
}

// ParsePropertyFile decodes a JSONC property file.
func ParsePropertyFile(data []byte) (*PropertyFile, error) {
	dec := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
	dec.DisallowUnknownFields()

	var f PropertyFile
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("invalid property file: %w", err)
	}
	return &f, nil
}

// LoadPropertyFile reads and decodes the property file at path.
func LoadPropertyFile(path string) (*PropertyFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read property file: %w", err)
	}
	f, err := ParsePropertyFile(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Property converts the entry into a shadow property holding its value.
// A missing value leaves the zero value in place.
func (s PropertyEntry) Property() (shadowjson.Property, error) {
	if s.Key == "" {
		return shadowjson.Property{}, fmt.Errorf("property without key")
	}
	t, ok := shadowjson.ParseType(s.Type)
	if !ok {
		return shadowjson.Property{}, fmt.Errorf("property %q: unknown type %q", s.Key, s.Type)
	}
	ptr, err := newSlot(t)
	if err != nil {
		return shadowjson.Property{}, err
	}

	if len(s.Value) > 0 {
		text := strings.TrimSpace(string(s.Value))
		if t == shadowjson.TypeString {
			if err := json.Unmarshal(s.Value, &text); err != nil {
				return shadowjson.Property{}, fmt.Errorf("property %q: value is not a string", s.Key)
			}
		}
		if err := setValue(ptr, text); err != nil {
			return shadowjson.Property{}, fmt.Errorf("property %q: %w", s.Key, err)
		}
	}
	return shadowjson.Property{Key: s.Key, Type: t, Value: ptr}, nil
}

func convert(entries []PropertyEntry) ([]shadowjson.Property, error) {
	props := make([]shadowjson.Property, 0, len(entries))
	for _, s := range entries {
		p, err := s.Property()
		if err != nil {
			return nil, err
		}
		props = append(props, p)
	}
	return props, nil
}

// Properties returns the desired and reported properties in file order.
func (f *PropertyFile) Properties() (desired, reported []shadowjson.Property, err error) {
	if desired, err = convert(f.Desired); err != nil {
		return nil, nil, err
	}
	if reported, err = convert(f.Reported); err != nil {
		return nil, nil, err
	}
	return desired, reported, nil
}
