// Package serializer converts values stored in a flintdb database to
// a single line of text and back.
//
// A database only depends on the Serializer interface. Two implementations
// are provided:
//
//   - NewGob: Go's gob encoding, base64 encoded so that the result is
//     line-safe. Values come back with their exact Go types. Custom struct
//     types must be registered with Register before they are stored.
//
//   - NewJSON: compact JSON. Human-readable data files, but numbers decode
//     as float64 and objects as map[string]any.
//
// Both are stateless and safe for concurrent use.
package serializer
