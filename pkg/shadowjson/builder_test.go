package shadowjson

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shadowlink/shadowlink-go/pkg/status"
	"github.com/shadowlink/shadowlink-go/pkg/token"
)

func TestUpdateReportedTemperature(t *testing.T) {
	gen := token.New("dev")
	doc := NewDocument(make([]byte, 256))
	temp := int32(42)

	require.NoError(t, doc.Init())
	require.NoError(t, doc.AddReported(Field("temp", &temp)))
	require.NoError(t, doc.Finalize(gen))

	assert.Equal(t, `{"state":{"reported":{"temp":42}},"clientToken":"dev-0"}`, doc.String())
	assert.True(t, doc.Finalized())
	assert.Equal(t, uint64(1), gen.Next())
}

func TestUpdateDesiredAndReported(t *testing.T) {
	gen := token.New("lamp")
	doc := NewDocument(make([]byte, 256))

	on := true
	level := uint8(200)
	temp := float32(21.5)
	name := "kitchen"

	err := doc.UpdateRequest(gen,
		[]Property{Field("on", &on), Field("level", &level)},
		[]Property{Field("temp", &temp), Field("name", &name)},
	)
	require.NoError(t, err)

	want := `{"state":{"desired":{"on":true,"level":200},` +
		`"reported":{"temp":21.500000,"name":"kitchen"}},"clientToken":"lamp-0"}`
	assert.Equal(t, want, doc.String())
}

func TestValueRendering(t *testing.T) {
	i8 := int8(-128)
	i16 := int16(-3000)
	i32 := int32(math.MinInt32)
	u16 := uint16(65535)
	u32 := uint32(math.MaxUint32)
	f64 := 0.1
	off := false

	tests := []struct {
		name string
		prop Property
		want string
	}{
		{"int8", Field("v", &i8), `"v":-128`},
		{"int16", Field("v", &i16), `"v":-3000`},
		{"int32", Field("v", &i32), `"v":-2147483648`},
		{"uint16", Field("v", &u16), `"v":65535`},
		{"uint32", Field("v", &u32), `"v":4294967295`},
		{"double", Field("v", &f64), `"v":0.100000`},
		{"bool", Field("v", &off), `"v":false`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := NewDocument(make([]byte, 128))
			require.NoError(t, doc.Init())
			require.NoError(t, doc.AddDesired(tt.prop))
			assert.Equal(t, `{"state":{"desired":{`+tt.want+`},`, doc.String())
		})
	}
}

func TestEmptySections(t *testing.T) {
	gen := token.New("dev")

	t.Run("no sections", func(t *testing.T) {
		doc := NewDocument(make([]byte, 64))
		require.NoError(t, doc.Init())
		require.NoError(t, doc.Finalize(gen))
		assert.Equal(t, `{"state":{},"clientToken":"dev-0"}`, doc.String())
	})

	t.Run("empty reported", func(t *testing.T) {
		doc := NewDocument(make([]byte, 64))
		require.NoError(t, doc.Init())
		require.NoError(t, doc.AddReported())
		require.NoError(t, doc.Finalize(gen))
		assert.Equal(t, `{"state":{"reported":{}},"clientToken":"dev-1"}`, doc.String())
	})
}

func TestGetAndDeleteRequests(t *testing.T) {
	gen := token.New("dev")
	doc := NewDocument(make([]byte, 64))

	require.NoError(t, doc.GetRequest(gen))
	assert.Equal(t, `{"clientToken":"dev-0"}`, doc.String())

	require.NoError(t, doc.DeleteRequest(gen))
	assert.Equal(t, `{"clientToken":"dev-1"}`, doc.String())
	assert.True(t, doc.Finalized())
}

func TestBuilderMisuse(t *testing.T) {
	gen := token.New("dev")
	v := int32(1)

	t.Run("nil buffer", func(t *testing.T) {
		doc := NewDocument(nil)
		assert.ErrorIs(t, doc.Init(), status.NullValue)
		assert.ErrorIs(t, doc.GetRequest(gen), status.NullValue)
	})

	t.Run("add before init", func(t *testing.T) {
		doc := NewDocument(make([]byte, 64))
		assert.ErrorIs(t, doc.AddReported(Field("v", &v)), status.JSONGeneric)
	})

	t.Run("add after finalize", func(t *testing.T) {
		doc := NewDocument(make([]byte, 64))
		require.NoError(t, doc.Init())
		require.NoError(t, doc.Finalize(gen))
		assert.ErrorIs(t, doc.AddReported(Field("v", &v)), status.JSONGeneric)
		assert.ErrorIs(t, doc.Finalize(gen), status.JSONGeneric)
	})

	t.Run("nil generator", func(t *testing.T) {
		doc := NewDocument(make([]byte, 64))
		require.NoError(t, doc.Init())
		assert.ErrorIs(t, doc.Finalize(nil), status.NullValue)
		assert.ErrorIs(t, doc.DeleteRequest(nil), status.NullValue)
	})

	t.Run("bad properties", func(t *testing.T) {
		doc := NewDocument(make([]byte, 64))
		require.NoError(t, doc.Init())

		var nilPtr *int32
		assert.ErrorIs(t, doc.AddReported(Field("", &v)), status.NullValue)
		assert.ErrorIs(t, doc.AddReported(Property{Key: "v", Type: TypeInt32}), status.NullValue)
		assert.ErrorIs(t, doc.AddReported(Field("v", nilPtr)), status.NullValue)
		assert.ErrorIs(t, doc.AddReported(Property{Key: "v", Type: TypeString, Value: &v}), status.JSONGeneric)
		assert.ErrorIs(t, doc.AddReported(Field("v", &[]int{})), status.JSONGeneric)
		assert.Equal(t, `{"state":{`, doc.String())
	})

	t.Run("non-finite float", func(t *testing.T) {
		doc := NewDocument(make([]byte, 64))
		require.NoError(t, doc.Init())
		ok := int32(1)
		nan := math.NaN()
		err := doc.AddReported(Field("ok", &ok), Field("bad", &nan))
		assert.ErrorIs(t, err, status.JSONGeneric)
		assert.Equal(t, `{"state":{`, doc.String())
	})
}

func TestTruncationRollsBack(t *testing.T) {
	doc := NewDocument(make([]byte, 64))
	require.NoError(t, doc.Init())

	long := strings.Repeat("x", 40)
	err := doc.AddReported(Field("name", &long))
	require.ErrorIs(t, err, status.BufferTruncated)
	assert.Equal(t, `{"state":{`, doc.String())

	short := "ok"
	require.NoError(t, doc.AddReported(Field("s", &short)))
	assert.Equal(t, `{"state":{"reported":{"s":"ok"},`, doc.String())

	require.NoError(t, doc.Finalize(token.New("dev")))
	assert.Equal(t, `{"state":{"reported":{"s":"ok"}},"clientToken":"dev-0"}`, doc.String())

	p := NewParser(16)
	assert.True(t, p.Valid(doc.Bytes()))
	tok, err := p.ExtractClientToken(doc.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "dev-0", tok)
}

func TestFinalizeTruncationConsumesToken(t *testing.T) {
	gen := token.New("dev")
	doc := NewDocument(make([]byte, 16))
	require.NoError(t, doc.Init())

	err := doc.Finalize(gen)
	require.ErrorIs(t, err, status.BufferTruncated)
	assert.Equal(t, `{"state":{`, doc.String())
	assert.False(t, doc.Finalized())
	assert.Equal(t, uint64(1), gen.Next())
}

// Every capacity either yields the complete document or reports truncation,
// and the content never reaches the end of the buffer.
func TestNoOverflowAtAnyCapacity(t *testing.T) {
	on := true
	temp := float64(-12.25)
	name := "sensor-a"
	count := uint32(123456)

	desired := []Property{Field("on", &on)}
	reported := []Property{Field("temp", &temp), Field("name", &name), Field("count", &count)}

	full := NewDocument(make([]byte, 512))
	require.NoError(t, full.UpdateRequest(token.New("dev"), desired, reported))
	want := full.String()

	for capacity := 1; capacity <= len(want)+4; capacity++ {
		buf := make([]byte, capacity)
		for i := range buf {
			buf[i] = 0xAA
		}
		doc := NewDocument(buf)

		err := doc.UpdateRequest(token.New("dev"), desired, reported)
		if err != nil {
			require.True(t, errors.Is(err, status.BufferTruncated), "capacity %d: %v", capacity, err)
		} else {
			require.Equal(t, want, doc.String(), "capacity %d", capacity)
		}

		require.Less(t, doc.Len(), doc.Cap(), "capacity %d", capacity)
		require.Equal(t, byte(0), buf[doc.Len()], "capacity %d", capacity)
	}
}
