package flintdb

import (
	"path/filepath"
	"slices"
	"testing"

	"github.com/kjk/flintdb/require"
	"github.com/kjk/flintdb/store"
)

func TestLoadReturnsSameInstance(t *testing.T) {
	dir := t.TempDir()
	conf := &store.Config{Dir: dir, Cache: true}
	db, err := Load("test", conf)
	require.NoError(t, err)
	defer Unload("test", conf)

	require.NoError(t, db.Set("foo", "bar"))

	// a different config for the same file still returns the first instance
	db2, err := Load("test", &store.Config{Dir: dir})
	require.NoError(t, err)
	require.True(t, db == db2, "expected the same instance")
	require.True(t, db2.Config().Cache)

	path, err := filepath.Abs(db.Path())
	require.NoError(t, err)
	require.True(t, slices.Contains(Loaded(), path), "%s not in %v", path, Loaded())

	other, err := Load("other", conf)
	require.NoError(t, err)
	defer Unload("other", conf)
	require.True(t, db != other, "expected different instances")
}

func TestUnload(t *testing.T) {
	conf := &store.Config{Dir: t.TempDir()}
	db, err := Load("unload", conf)
	require.NoError(t, err)
	require.NoError(t, Unload("unload", conf))
	db2, err := Load("unload", conf)
	require.NoError(t, err)
	defer Unload("unload", conf)
	require.True(t, db != db2, "expected a new instance after Unload")
}

func TestLoadInvalidName(t *testing.T) {
	_, err := Load("test!123", &store.Config{Dir: t.TempDir()})
	require.ErrorIs(t, err, store.ErrInvalidName)
	require.ErrorIs(t, Unload("", nil), store.ErrInvalidName)
}
