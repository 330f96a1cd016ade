package atomicfile

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kjk/flintdb/require"
)

func assertFileExists(t *testing.T, path string) {
	st, err := os.Stat(path)
	if err != nil {
		t.Fatalf("file '%s' doesn't exist, os.Stat() failed with '%s'", path, err)
	}
	if !st.Mode().IsRegular() {
		t.Fatalf("Path '%s' exists but is not a file (mode: %d)", path, int(st.Mode()))
	}
}

func assertFileNotExists(t *testing.T, path string) {
	_, err := os.Stat(path)
	if err == nil {
		t.Fatalf("file '%s' exist, expected to not exist", path)
	}
}

func assertFileContent(t *testing.T, path string, exp string) {
	d, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, exp, string(d))
}

func TestSimulateError(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "db.dat")
	f, err := New(dst)
	require.NoError(t, err)
	assertFileExists(t, f.tmpPath)
	_, err = f.Write([]byte("foo"))
	require.NoError(t, err)
	// simulate an error
	errSimulated := errors.New("simulated")
	f.err = errSimulated
	err = f.Close()
	require.Equal(t, errSimulated, err)
	assertFileNotExists(t, f.tmpPath)
	assertFileNotExists(t, dst)
	// on second Close() should get the same error
	require.Equal(t, errSimulated, f.Close())
}

func TestFailedWriteKeepsDestination(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "db.dat")
	require.NoError(t, os.WriteFile(dst, []byte("a=1\n"), 0644))

	f, err := New(dst)
	require.NoError(t, err)
	_, err = f.WriteString("a=2\n")
	require.NoError(t, err)
	f.RemoveIfNotClosed()
	assertFileNotExists(t, f.tmpPath)
	assertFileContent(t, dst, "a=1\n")

	_, err = f.WriteString("b=3\n")
	require.Equal(t, ErrCancelled, err)
	require.Equal(t, ErrCancelled, f.Close())
	assertFileContent(t, dst, "a=1\n")
}

func TestReplace(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "db.dat")
	{
		f, err := New(dst)
		require.NoError(t, err)
		assertFileExists(t, f.tmpPath)
		require.NoError(t, f.Close())
		assertFileExists(t, dst)
		assertFileContent(t, dst, "")
		assertFileNotExists(t, f.tmpPath)
	}

	{
		f, err := New(dst)
		require.NoError(t, err)
		require.Equal(t, dst, f.Path())
		n, err := f.ReadFrom(strings.NewReader("foo=1\nbar=2\n"))
		require.NoError(t, err)
		require.Equal(t, int64(12), n)
		require.NoError(t, f.Close())
		assertFileNotExists(t, f.tmpPath)
		assertFileContent(t, dst, "foo=1\nbar=2\n")
		// calling Close twice is a no-op
		require.NoError(t, f.Close())
	}

	// only the destination is left in the directory
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Equal(t, 1, len(entries))
}

func TestKeepsMode(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "db.dat")
	require.NoError(t, os.WriteFile(dst, nil, 0600))
	require.NoError(t, os.Chmod(dst, 0600))

	f, err := New(dst)
	require.NoError(t, err)
	_, err = f.WriteString("x=1\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	st, err := os.Stat(dst)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0600), st.Mode().Perm())
}

func TestMissingDirectory(t *testing.T) {
	// we can't create files in directories that don't exist
	// so verify we do an early check (no point writing to a file
	// if it couldn't be created at the end)
	dst := filepath.Join(t.TempDir(), "foo", "bar.txt")
	f, err := New(dst)
	require.Error(t, err)
	require.Nil(t, f)
}
