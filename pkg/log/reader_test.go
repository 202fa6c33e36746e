package log

import (
	"io"
	"testing"
	"time"
)

func TestReaderFilters(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	events := []Event{
		{Timestamp: base, ConnectionID: "a", ClientID: "dev", Direction: DirectionOut, Layer: LayerTransport, Category: CategoryMessage},
		{Timestamp: base.Add(time.Second), ConnectionID: "a", ClientID: "dev", Direction: DirectionIn, Layer: LayerCodec, Category: CategoryMessage},
		{Timestamp: base.Add(2 * time.Second), ConnectionID: "b", Layer: LayerTransport, Category: CategoryState},
		{Timestamp: base.Add(3 * time.Second), ConnectionID: "b", Layer: LayerTransport, Category: CategoryError},
	}
	path := createTestCapture(t, events)

	in := DirectionIn
	codec := LayerCodec
	state := CategoryState
	start := base.Add(time.Second)
	end := base.Add(3 * time.Second)

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"all", Filter{}, []string{"a", "a", "b", "b"}},
		{"connection", Filter{ConnectionID: "b"}, []string{"b", "b"}},
		{"client", Filter{ClientID: "dev"}, []string{"a", "a"}},
		{"direction", Filter{Direction: &in}, []string{"a", "b", "b"}},
		{"layer", Filter{Layer: &codec}, []string{"a"}},
		{"category", Filter{Category: &state}, []string{"b"}},
		{"time window", Filter{TimeStart: &start, TimeEnd: &end}, []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewFilteredReader(path, tt.filter)
			if err != nil {
				t.Fatalf("NewFilteredReader failed: %v", err)
			}
			defer r.Close()

			var got []string
			for {
				e, err := r.Next()
				if err == io.EOF {
					break
				}
				if err != nil {
					t.Fatalf("Next failed: %v", err)
				}
				got = append(got, e.ConnectionID)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("event %d: got %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestReaderMissingFile(t *testing.T) {
	if _, err := NewReader("/nonexistent/capture.scap"); err == nil {
		t.Error("expected error for missing file")
	}
}
