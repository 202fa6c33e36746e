package log

import "testing"

func TestDirectionString(t *testing.T) {
	tests := []struct {
		d    Direction
		want string
	}{
		{DirectionIn, "IN"},
		{DirectionOut, "OUT"},
		{Direction(9), "UNKNOWN"},
	}
	for _, tt := range tests {
		if got := tt.d.String(); got != tt.want {
			t.Errorf("Direction(%d).String() = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestLayerAndCategoryNames(t *testing.T) {
	for _, l := range []Layer{LayerTransport, LayerCodec} {
		got, ok := ParseLayer(l.String())
		if !ok || got != l {
			t.Errorf("ParseLayer(%q) = %v, %v", l.String(), got, ok)
		}
	}
	if _, ok := ParseLayer("WIRE"); ok {
		t.Error("ParseLayer accepted an unknown layer")
	}

	for _, c := range []Category{CategoryMessage, CategoryState, CategoryError} {
		got, ok := ParseCategory(c.String())
		if !ok || got != c {
			t.Errorf("ParseCategory(%q) = %v, %v", c.String(), got, ok)
		}
	}
	if Category(1).String() != "UNKNOWN" {
		t.Errorf("Category(1).String() = %q", Category(1).String())
	}
}

func TestDocumentKindString(t *testing.T) {
	want := map[DocumentKind]string{
		DocumentGet:      "GET",
		DocumentDelete:   "DELETE",
		DocumentUpdate:   "UPDATE",
		DocumentResponse: "RESPONSE",
		DocumentKind(42): "UNKNOWN",
	}
	for k, s := range want {
		if k.String() != s {
			t.Errorf("DocumentKind(%d).String() = %q, want %q", k, k.String(), s)
		}
	}
}

func TestClip(t *testing.T) {
	small := make([]byte, 10)
	if got, cut := Clip(small); cut || len(got) != 10 {
		t.Errorf("Clip(10 bytes) = %d, %v", len(got), cut)
	}

	big := make([]byte, MaxCaptureData+1)
	if got, cut := Clip(big); !cut || len(got) != MaxCaptureData {
		t.Errorf("Clip(%d bytes) = %d, %v", len(big), len(got), cut)
	}
}
