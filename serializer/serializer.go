package serializer

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSerialization is returned (wrapped) when a value can't be encoded
// or a stored string can't be decoded
var ErrSerialization = errors.New("serialization error")

// Serializer converts a value to a single line of text and back.
// Encode must never return a string containing '\n' or '\r'.
type Serializer interface {
	Encode(v any) (string, error)
	Decode(s string) (any, error)
}

// ByName returns a serializer for a name used in config files and flags:
// "gob" (or "native") and "json"
func ByName(name string) (Serializer, error) {
	switch strings.ToLower(name) {
	case "gob", "native", "":
		return NewGob(), nil
	case "json":
		return NewJSON(), nil
	}
	return nil, fmt.Errorf("unknown serializer '%s', must be one of: gob, json", name)
}

// Name returns the name under which s can be re-created with ByName
func Name(s Serializer) string {
	switch s.(type) {
	case *gobSerializer:
		return "gob"
	case *jsonSerializer:
		return "json"
	}
	return fmt.Sprintf("%T", s)
}

func errorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrSerialization, fmt.Sprintf(format, args...))
}
