// Package store implements a key/value database stored in a single text file.
//
// Each record is one line:
//
//	<key><separator><encoded value>\n
//
// Values are encoded with a serializer.Serializer (gob by default, or JSON).
//
// # Basic Usage
//
//	db, err := store.New("users", &store.Config{
//	    Dir:        "./data",
//	    Cache:      true,
//	    Serializer: serializer.NewJSON(),
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	err = db.Set("john", map[string]any{"age": 30})
//	v, ok, err := db.Get("john")
//	keys, err := db.Keys()
//
// # Reading and Writing
//
// Reads scan the file from the beginning. Set and Delete copy every line to a
// scratch buffer (in memory up to Config.SwapMemoryLimit, then in a temp file),
// replacing or dropping the line of the key, and then atomically replace the
// data file with the result. A failure at any point leaves the previous file
// intact. New keys are added at the end of the file, updated keys keep their
// position.
//
// With Config.Cache, all records are read on the first read and kept in
// memory in encoded form. Values are decoded on every read, so cached reads
// return the same values as reads from the file. The cache is updated by
// writes done through the same Database; changes made by other processes
// are not seen.
//
// # Locking
//
// Every operation takes an advisory lock (flock) on <data file>.lock and
// releases it before returning: shared for reads, exclusive for writes.
// Locks are never waited for; if another process holds a conflicting lock,
// the operation fails with ErrLock and the caller can retry.
//
// With Config.Gzip there's no locking. Don't use gzip with multiple
// processes writing the same database.
//
// # Thread Safety
//
// A Database is safe for concurrent use, operations are serialized with a mutex.
// Don't create two Database values for the same file in one process
// (flintdb.Load takes care of that); their locks would conflict with each other.
package store
