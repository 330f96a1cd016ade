package store

import (
	"fmt"
	"os"

	"github.com/kjk/flintdb/serializer"
	"github.com/kjk/flintdb/swapfile"
)

const (
	DefaultExt             = ".dat"
	DefaultGzipExt         = ".dat.gz"
	DefaultSeparator       = '='
	DefaultSwapMemoryLimit = swapfile.DefaultMemoryLimit
)

// Config describes where and how a database is stored.
// Zero values are replaced with defaults when a Database is created,
// except Cache and Gzip which are off unless set.
type Config struct {
	// directory of the data file, "." if empty. Must exist.
	Dir string
	// extension of the data file, ".dat" (".dat.gz" with Gzip) if empty
	Ext string
	// store the data file gzip-compressed. Disables advisory locking.
	Gzip bool
	// keep all records in memory after the first read
	Cache bool
	// rewrites buffer up to this many bytes in memory before using a temp file
	SwapMemoryLimit int64
	// encodes values, gob if nil
	Serializer serializer.Serializer
	// separates key from value in a line, '=' if 0
	Separator byte
}

// DefaultConfig returns config with cache enabled and everything else
// set to defaults
func DefaultConfig() *Config {
	return &Config{
		Dir:             ".",
		Ext:             DefaultExt,
		Cache:           true,
		SwapMemoryLimit: DefaultSwapMemoryLimit,
		Serializer:      serializer.NewGob(),
		Separator:       DefaultSeparator,
	}
}

// resolve returns a copy of c with defaults filled in.
// The copy is what a Database uses, later changes to c have no effect.
func (c *Config) resolve() (Config, error) {
	if c == nil {
		c = DefaultConfig()
	}
	res := *c
	if res.Dir == "" {
		res.Dir = "."
	}
	if res.Ext == "" {
		res.Ext = DefaultExt
		if res.Gzip {
			res.Ext = DefaultGzipExt
		}
	}
	if res.SwapMemoryLimit <= 0 {
		res.SwapMemoryLimit = DefaultSwapMemoryLimit
	}
	if res.Serializer == nil {
		res.Serializer = serializer.NewGob()
	}
	if res.Separator == 0 {
		res.Separator = DefaultSeparator
	}
	if res.Separator == '\n' || res.Separator == '\r' {
		return res, fmt.Errorf("invalid separator %q", res.Separator)
	}
	st, err := os.Stat(res.Dir)
	if err != nil {
		return res, ioError("stat dir", res.Dir, err)
	}
	if !st.IsDir() {
		return res, fmt.Errorf("%w: '%s' is not a directory", ErrIO, res.Dir)
	}
	return res, nil
}
