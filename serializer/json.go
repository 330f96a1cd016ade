package serializer

import (
	"encoding/json"
	"strings"
)

type jsonSerializer struct{}

// NewJSON returns a serializer that stores values as compact JSON.
// Decoded values use encoding/json's generic types: map[string]any, []any,
// float64, string, bool and nil.
func NewJSON() Serializer {
	return &jsonSerializer{}
}

func (j *jsonSerializer) Encode(v any) (string, error) {
	var sb strings.Builder
	enc := json.NewEncoder(&sb)
	// avoid unnecessary escaping
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", errorf("json encode of %T: %s", v, err)
	}
	// Encode adds a newline
	return strings.TrimSuffix(sb.String(), "\n"), nil
}

// Decode rejects anything after the value, including a stray ']' or '}'
func (j *jsonSerializer) Decode(s string) (any, error) {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, errorf("json decode: %s", err)
	}
	return v, nil
}
