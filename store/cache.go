package store

import "slices"

// cache is an in-memory mirror of all records, in file order.
// It holds encoded values, decoded again on every read.
type cache struct {
	loaded  bool
	keys    []string
	records map[string]record
}

func newCache() *cache {
	return &cache{
		records: map[string]record{},
	}
}

func (c *cache) get(key string) (record, bool) {
	rec, ok := c.records[key]
	return rec, ok
}

// set replaces content with records read from the data file
func (c *cache) set(keys []string, records map[string]record) {
	c.keys = keys
	c.records = records
	c.loaded = true
}

func (c *cache) put(rec record) {
	if _, ok := c.records[rec.key]; !ok {
		c.keys = append(c.keys, rec.key)
	}
	c.records[rec.key] = rec
}

func (c *cache) remove(key string) {
	if _, ok := c.records[key]; !ok {
		return
	}
	delete(c.records, key)
	if idx := slices.Index(c.keys, key); idx >= 0 {
		c.keys = slices.Delete(c.keys, idx, idx+1)
	}
}

func (c *cache) clear() {
	c.set(nil, map[string]record{})
}
