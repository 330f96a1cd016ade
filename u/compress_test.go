package u

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kjk/flintdb/require"
)

func TestGzipRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.dat.gz")
	f, err := os.Create(path)
	require.NoError(t, err)
	w := GzipWriter(f)
	d := strings.Repeat("foo=1\nbar=2\n", 100)
	_, err = w.Write([]byte(d))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	require.True(t, FileSize(path) < int64(len(d)), "expected compressed file")
	got, err := ReadFileMaybeGzipped(path, true)
	require.NoError(t, err)
	require.Equal(t, d, string(got))
}

func TestGzipReaderEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.gz")
	require.NoError(t, CreateFileIfNotExists(path, 0644))
	got, err := ReadFileMaybeGzipped(path, true)
	require.NoError(t, err)
	require.Equal(t, 0, len(got))
}
