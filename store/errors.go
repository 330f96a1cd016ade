package store

import (
	"errors"
	"fmt"

	"github.com/kjk/flintdb/serializer"
)

// Errors returned by Database. They are wrapped with details, check them with errors.Is.
var (
	// ErrInvalidName is returned by New for a database name that doesn't match ^[\w-]+$
	ErrInvalidName = errors.New("invalid database name")

	// ErrInvalidKey is returned for an empty key or a key that contains
	// the separator or a newline
	ErrInvalidKey = errors.New("invalid key")

	// ErrIO is returned when creating, reading, writing or replacing the data file fails
	ErrIO = errors.New("i/o error")

	// ErrPermission is returned when the data file can't be opened for reading and writing
	ErrPermission = errors.New("data file is not readable and writable")

	// ErrLock is returned when the advisory lock can't be acquired or released.
	// Locks are never waited for.
	ErrLock = errors.New("could not lock data file")

	// ErrCorruptRecord is returned when a line in the data file has no separator
	ErrCorruptRecord = errors.New("corrupt record")

	// ErrSerialization is returned when a value can't be encoded or decoded
	ErrSerialization = serializer.ErrSerialization
)

func ioError(what string, path string, err error) error {
	return fmt.Errorf("%w: %s '%s': %w", ErrIO, what, path, err)
}
