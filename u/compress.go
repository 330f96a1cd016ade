package u

import (
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
)

// implement io.ReadCloser over os.File wrapped with io.Reader.
// io.Closer goes to os.File, io.Reader goes to wrapping reader
type readerWrappedFile struct {
	f *os.File
	r io.Reader
}

func (rc *readerWrappedFile) Close() error {
	return rc.f.Close()
}

func (rc *readerWrappedFile) Read(p []byte) (int, error) {
	return rc.r.Read(p)
}

// GzipReader returns a reader that decompresses f.
// Closing it closes f. An empty file is treated as an empty stream
// (gzip.NewReader would return io.EOF).
func GzipReader(f *os.File) (io.ReadCloser, error) {
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if st.Size() == 0 {
		return f, nil
	}
	r, err := gzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &readerWrappedFile{
		f: f,
		r: r,
	}, nil
}

// implement io.WriteCloser that compresses data written to w.
// Close() flushes gzip stream and closes w if it's an io.Closer
type gzipWrappedWriter struct {
	w  io.Writer
	gz *gzip.Writer
}

func (wc *gzipWrappedWriter) Write(p []byte) (int, error) {
	return wc.gz.Write(p)
}

func (wc *gzipWrappedWriter) Close() error {
	errGz := wc.gz.Close()
	var errClose error
	if c, ok := wc.w.(io.Closer); ok {
		errClose = c.Close()
	}
	return FirstError(errGz, errClose)
}

// GzipWriter returns a writer that compresses data into w.
// Closing it closes w.
func GzipWriter(w io.Writer) io.WriteCloser {
	return &gzipWrappedWriter{
		w:  w,
		gz: gzip.NewWriter(w),
	}
}

// ReadFileMaybeGzipped reads file, ungzipping it when gzipped is true
func ReadFileMaybeGzipped(path string, gzipped bool) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if !gzipped {
		defer f.Close()
		return io.ReadAll(f)
	}
	r, err := GzipReader(f)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}
