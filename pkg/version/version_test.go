package version

import (
	"testing"
)

func TestParse_Valid(t *testing.T) {
	tests := []struct {
		input string
		want  SDKVersion
	}{
		{"1.0.0", SDKVersion{1, 0, 0, ""}},
		{"1.1.0", SDKVersion{1, 1, 0, ""}},
		{"2.0.3-beta", SDKVersion{2, 0, 3, "beta"}},
		{"10.23.7-rc.1", SDKVersion{10, 23, 7, "rc.1"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			v, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q) returned error: %v", tt.input, err)
			}
			if v != tt.want {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.input, v, tt.want)
			}
			if v.String() != tt.input {
				t.Errorf("String() = %q, want %q", v.String(), tt.input)
			}
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []string{
		"",
		"1",
		"1.0",
		"abc",
		"1.0.0.0",
		"1.x.0",
		"-1.0.0",
		"1.0.0-",
		"1..0",
	}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			if _, err := Parse(input); err == nil {
				t.Errorf("Parse(%q) should return error", input)
			}
		})
	}
}

func TestCurrentParses(t *testing.T) {
	v, err := Parse(Current)
	if err != nil {
		t.Fatalf("Current %q does not parse: %v", Current, err)
	}
	if String() != Name+"/"+v.String() {
		t.Errorf("String() = %q", String())
	}
}

func TestCompatibleAndLess(t *testing.T) {
	a, _ := Parse("1.2.3")
	b, _ := Parse("1.4.0")
	c, _ := Parse("2.0.0")
	pre, _ := Parse("1.2.3-rc1")

	if !a.Compatible(b) {
		t.Error("1.2.3 should be compatible with 1.4.0")
	}
	if a.Compatible(c) {
		t.Error("1.2.3 should not be compatible with 2.0.0")
	}
	if !a.Less(b) || b.Less(a) {
		t.Error("1.2.3 should sort before 1.4.0")
	}
	if !b.Less(c) {
		t.Error("1.4.0 should sort before 2.0.0")
	}
	if !pre.Less(a) || a.Less(pre) {
		t.Error("1.2.3-rc1 should sort before 1.2.3")
	}
}
