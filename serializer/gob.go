package serializer

import (
	"bytes"
	"encoding/base64"
	"encoding/gob"
)

func init() {
	Register(map[string]any{})
	Register([]any{})
}

// Register records a concrete type so that it can be stored by the gob
// serializer as a value of type any. Basic types, []byte, []string etc.
// are known to gob already.
func Register(v any) {
	gob.Register(v)
}

// envelope is needed because gob only encodes the dynamic type
// of an interface value when it's a field
type envelope struct {
	V any
}

type gobSerializer struct{}

// NewGob returns the native serializer. Values round-trip with their
// exact Go types, as long as the types are registered.
func NewGob() Serializer {
	return &gobSerializer{}
}

func (g *gobSerializer) Encode(v any) (string, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(&envelope{V: v}); err != nil {
		return "", errorf("gob encode of %T: %s", v, err)
	}
	return base64.RawStdEncoding.EncodeToString(buf.Bytes()), nil
}

func (g *gobSerializer) Decode(s string) (any, error) {
	d, err := base64.RawStdEncoding.DecodeString(s)
	if err != nil {
		return nil, errorf("invalid base64: %s", err)
	}
	var e envelope
	if err := gob.NewDecoder(bytes.NewReader(d)).Decode(&e); err != nil {
		return nil, errorf("gob decode: %s", err)
	}
	return e.V, nil
}
