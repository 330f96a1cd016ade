package serializer

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/kjk/flintdb/require"
)

type point struct {
	X, Y int
	Name string
}

func init() {
	Register(point{})
}

var testSerializers = map[string]func() Serializer{
	"gob":  NewGob,
	"json": NewJSON,
}

func TestRoundTripJSONValues(t *testing.T) {
	// values that survive a JSON round-trip unchanged
	values := []any{
		"john",
		"new\nline",
		"with = separator",
		float64(1),
		true,
		nil,
		[]any{"a", float64(2), false},
		map[string]any{"foo": "new\nline", "n": float64(3)},
	}
	for name, factory := range testSerializers {
		t.Run(name, func(t *testing.T) {
			s := factory()
			for _, v := range values {
				enc, err := s.Encode(v)
				require.NoError(t, err)
				require.False(t, strings.ContainsAny(enc, "\r\n"), "encoded %v contains a newline: %q", v, enc)
				got, err := s.Decode(enc)
				require.NoError(t, err)
				require.Equal(t, v, got)
			}
		})
	}
}

func TestGobKeepsTypes(t *testing.T) {
	s := NewGob()
	values := []any{
		1,
		int64(-5),
		uint8(7),
		[]byte("bytes\n"),
		[]string{"a", "b"},
		point{X: 1, Y: 2, Name: "p"},
		map[string]any{"p": point{X: 3}, "i": 4},
	}
	for _, v := range values {
		enc, err := s.Encode(v)
		require.NoError(t, err)
		got, err := s.Decode(enc)
		require.NoError(t, err)
		require.Equal(t, v, got)
	}
}

func TestEncodeErrors(t *testing.T) {
	type unregistered struct{ A int }
	_, err := NewGob().Encode(unregistered{A: 1})
	require.True(t, errors.Is(err, ErrSerialization), "got %v", err)

	_, err = NewJSON().Encode(math.NaN())
	require.True(t, errors.Is(err, ErrSerialization), "got %v", err)

	_, err = NewJSON().Encode(func() {})
	require.True(t, errors.Is(err, ErrSerialization), "got %v", err)
}

func TestDecodeErrors(t *testing.T) {
	tests := map[string][]string{
		"gob":  {"not base64!", "aGVsbG8"},
		"json": {"{", "1 2", "nope", "1 ]", "{\"a\":1}}", "[1]]", ""},
	}
	for name, inputs := range tests {
		s := testSerializers[name]()
		for _, in := range inputs {
			_, err := s.Decode(in)
			require.True(t, errors.Is(err, ErrSerialization), "%s: Decode(%q) returned %v", name, in, err)
		}
	}
}

func TestJSONDecodeAllowsSurroundingSpace(t *testing.T) {
	v, err := NewJSON().Decode(" 1 ")
	require.NoError(t, err)
	require.Equal(t, float64(1), v)
}

func TestByName(t *testing.T) {
	for _, name := range []string{"gob", "native", "json", "JSON"} {
		s, err := ByName(name)
		require.NoError(t, err)
		s2, err := ByName(Name(s))
		require.NoError(t, err)
		require.Equal(t, Name(s), Name(s2))
	}
	_, err := ByName("php")
	require.Error(t, err)
}
