package swapfile

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/kjk/flintdb/require"
)

func readAll(t *testing.T, f *File) string {
	r, err := f.Reader()
	require.NoError(t, err)
	d, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(d)
}

func TestStaysInMemory(t *testing.T) {
	f := New(64)
	defer f.Close()
	_, err := f.WriteString("foo=1\n")
	require.NoError(t, err)
	_, err = f.WriteString("bar=2\n")
	require.NoError(t, err)
	require.False(t, f.OnDisk())
	require.Equal(t, "", f.Path())
	require.Equal(t, int64(12), f.Size())
	require.Equal(t, "foo=1\nbar=2\n", readAll(t, f))
}

func TestSpillsToDisk(t *testing.T) {
	f := New(16)
	f.Dir = t.TempDir()
	var exp strings.Builder
	for i := 0; i < 10; i++ {
		line := "key" + string(rune('a'+i)) + "=value\n"
		exp.WriteString(line)
		_, err := f.WriteString(line)
		require.NoError(t, err)
	}
	require.True(t, f.OnDisk())
	path := f.Path()
	_, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, exp.String(), readAll(t, f))

	var buf bytes.Buffer
	n, err := f.WriteTo(&buf)
	require.NoError(t, err)
	require.Equal(t, int64(exp.Len()), n)
	require.Equal(t, exp.String(), buf.String())

	require.NoError(t, f.Close())
	_, err = os.Stat(path)
	require.True(t, os.IsNotExist(err), "temp file %s should be removed", path)
	// closing twice is a no-op
	require.NoError(t, f.Close())
}

func TestSingleWriteOverLimit(t *testing.T) {
	f := New(4)
	f.Dir = t.TempDir()
	defer f.Close()
	_, err := f.WriteString("0123456789")
	require.NoError(t, err)
	require.True(t, f.OnDisk())
	require.Equal(t, "0123456789", readAll(t, f))
}

func TestUseAfterClose(t *testing.T) {
	f := New(0)
	require.NoError(t, f.Close())
	_, err := f.WriteString("x")
	require.Equal(t, ErrClosed, err)
	_, err = f.Reader()
	require.Equal(t, ErrClosed, err)
}
