package u

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kjk/flintdb/require"
)

func TestCreateFileIfNotExists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.dat")
	require.False(t, PathExists(path))
	require.Equal(t, int64(-1), FileSize(path))
	require.NoError(t, CreateFileIfNotExists(path, 0644))
	require.True(t, FileExists(path))
	require.Equal(t, int64(0), FileSize(path))
	require.NoError(t, CheckReadWrite(path))

	// doesn't truncate existing files
	require.NoError(t, os.WriteFile(path, []byte("a=1\nb=2\n"), 0644))
	require.NoError(t, CreateFileIfNotExists(path, 0644))
	d, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "a=1\nb=2\n", string(d))
}

func TestCreateFileInMissingDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "test.dat")
	require.Error(t, CreateFileIfNotExists(path, 0644))
	require.Error(t, CheckReadWrite(path))
}
