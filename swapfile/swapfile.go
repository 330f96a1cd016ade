// Package swapfile provides a scratch buffer that keeps data in memory
// up to a limit and moves it to a temporary file when it grows beyond it.
package swapfile

import (
	"bytes"
	"errors"
	"io"
	"os"
)

// DefaultMemoryLimit is used when a limit <= 0 is given
const DefaultMemoryLimit = 2 * 1024 * 1024

var (
	// ErrClosed is returned when using a File after Close
	ErrClosed = errors.New("swapfile: closed")

	_ io.Writer = &File{}
	_ io.Closer = &File{}
)

// File is a write-then-read scratch buffer. Data written to it is kept in
// memory until it exceeds the memory limit, then everything is moved to
// a temporary file on disk. It has no name visible to the user and is
// removed on Close.
type File struct {
	limit int64
	mem   bytes.Buffer
	disk  *os.File
	size  int64
	// Dir is where the temporary file is created, os.TempDir() if empty
	Dir string

	closed bool
}

// New creates a File that spills to disk after limit bytes
func New(limit int64) *File {
	if limit <= 0 {
		limit = DefaultMemoryLimit
	}
	return &File{
		limit: limit,
	}
}

// Size returns number of bytes written so far
func (f *File) Size() int64 {
	return f.size
}

// OnDisk returns true if the data was moved to a temporary file
func (f *File) OnDisk() bool {
	return f.disk != nil
}

// Path returns the path of the temporary file or "" if data is in memory
func (f *File) Path() string {
	if f.disk == nil {
		return ""
	}
	return f.disk.Name()
}

func (f *File) spill() error {
	tmp, err := os.CreateTemp(f.Dir, "swapfile-*.tmp")
	if err != nil {
		return err
	}
	if _, err = tmp.Write(f.mem.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	f.disk = tmp
	f.mem = bytes.Buffer{}
	return nil
}

// Write appends d
func (f *File) Write(d []byte) (int, error) {
	if f.closed {
		return 0, ErrClosed
	}
	if f.disk == nil && f.size+int64(len(d)) > f.limit {
		if err := f.spill(); err != nil {
			return 0, err
		}
	}
	var n int
	var err error
	if f.disk != nil {
		n, err = f.disk.Write(d)
	} else {
		n, err = f.mem.Write(d)
	}
	f.size += int64(n)
	return n, err
}

// WriteString appends s
func (f *File) WriteString(s string) (int, error) {
	return f.Write([]byte(s))
}

// Reader returns a reader over everything written so far.
// Writing after calling Reader is not supported.
func (f *File) Reader() (io.Reader, error) {
	if f.closed {
		return nil, ErrClosed
	}
	if f.disk == nil {
		return bytes.NewReader(f.mem.Bytes()), nil
	}
	if _, err := f.disk.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	return io.LimitReader(f.disk, f.size), nil
}

// WriteTo copies the content to w
func (f *File) WriteTo(w io.Writer) (int64, error) {
	r, err := f.Reader()
	if err != nil {
		return 0, err
	}
	return io.Copy(w, r)
}

// Close releases memory and removes the temporary file, if any.
// Can be called multiple times.
func (f *File) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true
	f.mem = bytes.Buffer{}
	if f.disk == nil {
		return nil
	}
	path := f.disk.Name()
	err := f.disk.Close()
	f.disk = nil
	if errRemove := os.Remove(path); err == nil {
		err = errRemove
	}
	return err
}
