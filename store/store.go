package store

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/kjk/flintdb/atomicfile"
	"github.com/kjk/flintdb/log"
	"github.com/kjk/flintdb/u"
)

// Database is a named key/value store backed by a single file.
// It's safe for concurrent use from multiple goroutines.
// For use from multiple processes see package docs.
type Database struct {
	name string
	conf Config
	path string

	// advisory lock on <path>.lock, nil with gzip
	flock   *flock.Flock
	cache   *cache
	metrics dbMetrics

	mu sync.Mutex
}

// New creates a database named name. The data file <Dir>/<name><Ext>
// is created on first access. conf can be nil for DefaultConfig().
func New(name string, conf *Config) (*Database, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	c, err := conf.resolve()
	if err != nil {
		return nil, err
	}
	db := &Database{
		name:    name,
		conf:    c,
		path:    filepath.Join(c.Dir, name+c.Ext),
		metrics: dbMetrics{db: name},
	}
	if !c.Gzip {
		db.flock = flock.New(db.path + ".lock")
	}
	if c.Cache {
		db.cache = newCache()
	}
	return db, nil
}

// Name returns the name of the database
func (db *Database) Name() string {
	return db.name
}

// Path returns the path of the data file
func (db *Database) Path() string {
	return db.path
}

// Config returns a copy of the resolved configuration
func (db *Database) Config() Config {
	return db.conf
}

func (db *Database) cacheLoaded() bool {
	return db.cache != nil && db.cache.loaded
}

// forEachRecord calls fn for records in file order under a shared lock,
// until fn returns false
func (db *Database) forEachRecord(fn func(rec *record) (bool, error)) (err error) {
	h, err := db.openFile(modeRead)
	if err != nil {
		return err
	}
	defer func() {
		errClose := db.closeFile(h)
		if err == nil {
			err = errClose
		} else {
			log.IfErrf(errClose)
		}
	}()
	err = scanRecords(h.r, db.conf.Separator, fn)
	if err != nil && !isKnownError(err) {
		err = ioError("read", db.path, err)
	}
	return err
}

func isKnownError(err error) bool {
	for _, known := range []error{ErrCorruptRecord, ErrSerialization, ErrLock, ErrIO, ErrPermission} {
		if errors.Is(err, known) {
			return true
		}
	}
	return false
}

func (db *Database) decode(rec *record) (any, error) {
	v, err := db.conf.Serializer.Decode(rec.value)
	if err == nil {
		return v, nil
	}
	if rec.lineNo > 0 {
		return nil, fmt.Errorf("key '%s' at line %d of '%s': %w", rec.key, rec.lineNo, db.path, err)
	}
	return nil, fmt.Errorf("key '%s' in '%s': %w", rec.key, db.path, err)
}

// readRecords reads every record without decoding values.
// If a key appears more than once, the last record wins
// and the key keeps its first position.
func (db *Database) readRecords() ([]string, map[string]record, error) {
	var keys []string
	records := map[string]record{}
	err := db.forEachRecord(func(rec *record) (bool, error) {
		if _, ok := records[rec.key]; !ok {
			keys = append(keys, rec.key)
		}
		records[rec.key] = *rec
		return true, nil
	})
	if err != nil {
		return nil, nil, err
	}
	return keys, records, nil
}

// decodeAll decodes records, calling fn in order of keys until it returns false
func (db *Database) decodeAll(keys []string, records map[string]record, fn func(key string, v any) bool) error {
	for _, k := range keys {
		rec := records[k]
		v, err := db.decode(&rec)
		if err != nil {
			return err
		}
		if !fn(k, v) {
			return nil
		}
	}
	return nil
}

// readAll returns keys in file order and their records,
// from the cache if it's enabled
func (db *Database) readAll() ([]string, map[string]record, error) {
	if db.cache == nil {
		return db.readRecords()
	}
	if err := db.loadCache(); err != nil {
		return nil, nil, err
	}
	return db.cache.keys, db.cache.records, nil
}

// must be called with db.mu held
func (db *Database) loadCache() error {
	if db.cache == nil || db.cache.loaded {
		return nil
	}
	keys, records, err := db.readRecords()
	if err != nil {
		return err
	}
	// line numbers change with every rewrite
	for k, rec := range records {
		rec.lineNo = 0
		records[k] = rec
	}
	db.cache.set(keys, records)
	return nil
}

// Get returns the value for key. ok is false if key doesn't exist,
// which is not an error.
func (db *Database) Get(key string) (v any, ok bool, err error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	v, ok, err = db.get(key)
	return v, ok, db.metrics.done("get", err)
}

func (db *Database) get(key string) (any, bool, error) {
	if err := validateKey(key, db.conf.Separator); err != nil {
		return nil, false, err
	}
	if db.cache != nil {
		if db.cache.loaded {
			db.metrics.cacheHit()
		}
		if err := db.loadCache(); err != nil {
			return nil, false, err
		}
		rec, ok := db.cache.get(key)
		if !ok {
			return nil, false, nil
		}
		v, err := db.decode(&rec)
		if err != nil {
			return nil, false, err
		}
		return v, true, nil
	}

	var v any
	found := false
	err := db.forEachRecord(func(rec *record) (bool, error) {
		if rec.key != key {
			return true, nil
		}
		var err error
		v, err = db.decode(rec)
		found = err == nil
		return false, err
	})
	if err != nil {
		return nil, false, err
	}
	return v, found, nil
}

// Has returns true if key exists
func (db *Database) Has(key string) (bool, error) {
	_, ok, err := db.Get(key)
	return ok, err
}

// Keys returns all keys in file order
func (db *Database) Keys() ([]string, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	keys, err := db.keys()
	return keys, db.metrics.done("keys", err)
}

func (db *Database) keys() ([]string, error) {
	if db.cache != nil {
		if err := db.loadCache(); err != nil {
			return nil, err
		}
		if len(db.cache.keys) == 0 {
			return nil, nil
		}
		return append([]string{}, db.cache.keys...), nil
	}
	var keys []string
	seen := map[string]bool{}
	err := db.forEachRecord(func(rec *record) (bool, error) {
		if !seen[rec.key] {
			seen[rec.key] = true
			keys = append(keys, rec.key)
		}
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return keys, nil
}

// All returns all keys and values. Use Keys or Range for file order.
func (db *Database) All() (map[string]any, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	res, err := db.all()
	return res, db.metrics.done("all", err)
}

func (db *Database) all() (map[string]any, error) {
	keys, records, err := db.readAll()
	if err != nil {
		return nil, err
	}
	res := make(map[string]any, len(keys))
	err = db.decodeAll(keys, records, func(key string, v any) bool {
		res[key] = v
		return true
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Range calls fn for every key and value in file order until fn returns false.
// fn must not call other methods of db.
func (db *Database) Range(fn func(key string, value any) bool) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.metrics.done("range", db.rangeRecords(fn))
}

func (db *Database) rangeRecords(fn func(key string, value any) bool) error {
	keys, records, err := db.readAll()
	if err != nil {
		return err
	}
	return db.decodeAll(keys, records, fn)
}

// Set stores value under key. A new key is added at the end of the file,
// an existing key keeps its position.
func (db *Database) Set(key string, value any) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.metrics.done("set", db.set(key, value))
}

func (db *Database) set(key string, value any) error {
	if err := validateKey(key, db.conf.Separator); err != nil {
		return err
	}
	encoded, err := db.conf.Serializer.Encode(value)
	if err != nil {
		return fmt.Errorf("key '%s': %w", key, err)
	}
	if strings.ContainsAny(encoded, "\r\n") {
		return fmt.Errorf("%w: encoded value of key '%s' contains a newline", ErrSerialization, key)
	}
	// a value that can't be read back must not reach the file
	if _, err = db.conf.Serializer.Decode(encoded); err != nil {
		return fmt.Errorf("key '%s': %w", key, err)
	}
	line := formatRecordLine(key, db.conf.Separator, encoded)
	if err := db.rewrite("set", key, line); err != nil {
		return err
	}
	if db.cacheLoaded() {
		db.cache.put(record{key: key, value: encoded, line: strings.TrimSuffix(line, "\n")})
	}
	return nil
}

// Delete removes key. Deleting a key that doesn't exist is not an error.
func (db *Database) Delete(key string) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.metrics.done("delete", db.delete(key))
}

func (db *Database) delete(key string) error {
	if err := validateKey(key, db.conf.Separator); err != nil {
		return err
	}
	if err := db.rewrite("delete", key, ""); err != nil {
		return err
	}
	if db.cacheLoaded() {
		db.cache.remove(key)
	}
	return nil
}

// Flush deletes all records
func (db *Database) Flush() error {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.metrics.done("flush", db.flush())
}

func (db *Database) flush() error {
	h, err := db.openFile(modeWrite)
	if err != nil {
		return err
	}
	if err = db.closeFile(h); err != nil {
		return err
	}
	if db.cache != nil {
		db.cache.clear()
	}
	log.Verbosef("flintdb: flushed '%s'\n", db.path)
	log.Event("flush", "db", db.name)
	return nil
}

// rewrite copies the data file through a scratch buffer, replacing the
// record for key with newLine (or dropping it if newLine is ""), appending
// newLine if key wasn't found. The data file is atomically replaced only
// after everything was written.
func (db *Database) rewrite(op string, key string, newLine string) (err error) {
	start := time.Now()
	unlock, err := db.lockFile(modeWrite)
	if err != nil {
		return err
	}
	defer func() {
		errUnlock := unlock()
		if err == nil {
			err = errUnlock
		} else {
			log.IfErrf(errUnlock)
		}
	}()

	tmp := db.openTemp()
	defer u.CloseNoError(tmp)

	nRecords, err := db.copyRecords(tmp, key, newLine)
	if err != nil {
		return err
	}
	if err = db.replaceWith(tmp); err != nil {
		return err
	}

	dur := time.Since(start)
	db.metrics.rewrite(start)
	log.Verbosef("flintdb: %s '%s' in '%s', %d records, swap on disk: %v, took %s\n", op, key, db.path, nRecords, tmp.OnDisk(), dur)
	log.EventWithDuration("rewrite", dur, "db", db.name, "op", op, "key", key, "records", nRecords)
	return nil
}

// copyRecords writes records of the data file to w, transformed as
// described in rewrite. Returns number of records written.
func (db *Database) copyRecords(w io.Writer, key string, newLine string) (n int, err error) {
	h, err := db.openStream(modeRead)
	if err != nil {
		return 0, err
	}
	defer func() {
		errClose := db.closeFile(h)
		if err == nil {
			err = errClose
		}
	}()

	bw := bufio.NewWriter(w)
	found := false
	write := func(s string) error {
		if _, err := bw.WriteString(s); err != nil {
			return ioError("write temp for", db.path, err)
		}
		n++
		return nil
	}
	err = scanRecords(h.r, db.conf.Separator, func(rec *record) (bool, error) {
		if rec.key != key {
			return true, write(rec.line + "\n")
		}
		// later duplicates of key are dropped
		if found || newLine == "" {
			found = true
			return true, nil
		}
		found = true
		return true, write(newLine)
	})
	if err != nil {
		if !isKnownError(err) {
			err = ioError("read", db.path, err)
		}
		return 0, err
	}
	if !found && newLine != "" {
		if err = write(newLine); err != nil {
			return 0, err
		}
	}
	if err = bw.Flush(); err != nil {
		return 0, ioError("write temp for", db.path, err)
	}
	return n, nil
}

// replaceWith atomically replaces the data file with content of tmp
func (db *Database) replaceWith(tmp io.WriterTo) error {
	af, err := atomicfile.New(db.path)
	if err != nil {
		return ioError("create temp file for", db.path, err)
	}
	defer af.RemoveIfNotClosed()

	var w io.WriteCloser = af
	if db.conf.Gzip {
		w = u.GzipWriter(af)
	}
	if _, err = tmp.WriteTo(w); err != nil {
		return ioError("write", db.path, err)
	}
	if err = w.Close(); err != nil {
		return ioError("replace", db.path, err)
	}
	return nil
}
