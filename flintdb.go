// Package flintdb keeps one store.Database per data file so that all
// code in a process shares the same instance (and its cache and lock).
//
//	db, err := flintdb.Load("users", &store.Config{Dir: "./data", Cache: true})
//	if err != nil {
//	    return err
//	}
//	err = db.Set("john", map[string]any{"age": 30})
package flintdb

import (
	"path/filepath"
	"sort"

	"github.com/kjk/flintdb/store"
	"github.com/puzpuzpuz/xsync/v3"
)

var databases = xsync.NewMapOf[string, *store.Database]()

// registry key is the absolute path of the data file
func dbKey(db *store.Database) string {
	path, err := filepath.Abs(db.Path())
	if err != nil {
		return db.Path()
	}
	return path
}

// Load returns the database name stored as described by conf (DefaultConfig() if nil).
// The first Load of a data file creates the database, later calls return
// the same instance and conf only matters for locating the file.
func Load(name string, conf *store.Config) (*store.Database, error) {
	db, err := store.New(name, conf)
	if err != nil {
		return nil, err
	}
	res, _ := databases.LoadOrStore(dbKey(db), db)
	return res, nil
}

// Unload forgets the database so that the next Load creates a new instance
func Unload(name string, conf *store.Config) error {
	db, err := store.New(name, conf)
	if err != nil {
		return err
	}
	databases.Delete(dbKey(db))
	return nil
}

// Loaded returns paths of data files of loaded databases, sorted
func Loaded() []string {
	var res []string
	databases.Range(func(path string, _ *store.Database) bool {
		res = append(res, path)
		return true
	})
	sort.Strings(res)
	return res
}
