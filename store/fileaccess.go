package store

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/kjk/flintdb/log"
	"github.com/kjk/flintdb/swapfile"
	"github.com/kjk/flintdb/u"
)

type accessMode int

const (
	// shared lock, read-only
	modeRead accessMode = iota + 1
	// exclusive lock, truncate on open
	modeWrite
	// exclusive lock, append on open
	modeAppend
)

func (m accessMode) String() string {
	switch m {
	case modeRead:
		return "read"
	case modeWrite:
		return "write"
	case modeAppend:
		return "append"
	}
	return fmt.Sprintf("accessMode(%d)", int(m))
}

func (m accessMode) openFlags() int {
	switch m {
	case modeRead:
		return os.O_RDONLY
	case modeWrite:
		return os.O_WRONLY | os.O_TRUNC
	case modeAppend:
		return os.O_WRONLY | os.O_APPEND
	}
	u.PanicIf(true, "invalid access mode %d", int(m))
	return 0
}

// fileHandle is an open data file. Exactly one of r, w is set.
// A handle must be closed with closeFile.
type fileHandle struct {
	mode accessMode
	r    io.ReadCloser
	w    io.WriteCloser
	// releases the lock, nil if not locked
	unlock func() error
}

// lockFile acquires the advisory lock for mode without waiting.
// Returns a function that releases it. With gzip there's no locking.
func (db *Database) lockFile(mode accessMode) (func() error, error) {
	if db.flock == nil {
		return func() error { return nil }, nil
	}
	var ok bool
	var err error
	if mode == modeRead {
		ok, err = db.flock.TryRLock()
	} else {
		ok, err = db.flock.TryLock()
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s lock on '%s': %w", ErrLock, mode, db.flock.Path(), err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s lock on '%s' is held by another process", ErrLock, mode, db.flock.Path())
	}
	unlock := func() error {
		if err := db.flock.Unlock(); err != nil {
			return fmt.Errorf("%w: unlock '%s': %w", ErrLock, db.flock.Path(), err)
		}
		return nil
	}
	return unlock, nil
}

// openStream opens the data file for mode, creating it if it doesn't exist.
// It doesn't lock.
func (db *Database) openStream(mode accessMode) (*fileHandle, error) {
	path := db.path
	if !u.FileExists(path) {
		if err := u.CreateFileIfNotExists(path, 0644); err != nil {
			return nil, ioError("could not create file", path, err)
		}
	}
	if err := u.CheckReadWrite(path); err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return nil, fmt.Errorf("%w: '%s': %w", ErrPermission, path, err)
		}
		return nil, ioError("open", path, err)
	}

	f, err := os.OpenFile(path, mode.openFlags(), 0644)
	if err != nil {
		return nil, ioError("open", path, err)
	}
	h := &fileHandle{mode: mode}
	if mode == modeRead {
		h.r = f
		if db.conf.Gzip {
			if h.r, err = u.GzipReader(f); err != nil {
				return nil, ioError("gzip open", path, err)
			}
		}
		return h, nil
	}
	h.w = f
	if db.conf.Gzip {
		h.w = u.GzipWriter(f)
	}
	return h, nil
}

// openFile locks and opens the data file for mode
func (db *Database) openFile(mode accessMode) (*fileHandle, error) {
	unlock, err := db.lockFile(mode)
	if err != nil {
		return nil, err
	}
	h, err := db.openStream(mode)
	if err != nil {
		log.IfErrf(unlock())
		return nil, err
	}
	h.unlock = unlock
	return h, nil
}

// closeFile closes the file and releases the lock.
// The handle can't be used afterwards, even if an error is returned.
func (db *Database) closeFile(h *fileHandle) error {
	if h == nil {
		return nil
	}
	var errClose error
	if h.r != nil {
		errClose = h.r.Close()
	} else if h.w != nil {
		errClose = h.w.Close()
	}
	h.r = nil
	h.w = nil
	if errClose != nil {
		errClose = ioError("close", db.path, errClose)
	}

	var errUnlock error
	if h.unlock != nil {
		errUnlock = h.unlock()
		h.unlock = nil
	}
	return u.FirstError(errClose, errUnlock)
}

// openTemp returns a scratch buffer for rewriting the data file
func (db *Database) openTemp() *swapfile.File {
	return swapfile.New(db.conf.SwapMemoryLimit)
}
