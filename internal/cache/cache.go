// Package cache memoizes loaded tables. Entries are keyed by absolute path and
// load options, and are reloaded whenever the file's mtime or size changes.
package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/Proxpekt/EDA-Projects/internal/table"
)

// Loader reads a table from disk.
type Loader func(path string, opt table.Options) (*table.Table, error)

// Stats counts cache activity since creation.
type Stats struct {
	Hits          int
	Misses        int
	Reloads       int
	Invalidations int
}

type key struct {
	path string
	opts string
}

type entry struct {
	t       *table.Table
	modTime time.Time
	size    int64
}

// Cache is safe for concurrent use.
type Cache struct {
	load Loader

	mu      sync.Mutex
	entries map[key]*entry
	stats   Stats
}

// New returns an empty cache. A nil loader means table.Load.
func New(load Loader) *Cache {
	if load == nil {
		load = table.Load
	}
	return &Cache{load: load, entries: make(map[key]*entry)}
}

// Load returns the cached table for path, reading it on first use and again
// whenever the file changed on disk since it was cached.
func (c *Cache) Load(path string, opt table.Options) (*table.Table, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve path: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		c.Invalidate(abs)
		return nil, fmt.Errorf("open csv: %w", err)
	}
	k := key{path: abs, opts: opt.Fingerprint()}

	c.mu.Lock()
	e, ok := c.entries[k]
	if ok && e.modTime.Equal(info.ModTime()) && e.size == info.Size() {
		c.stats.Hits++
		c.mu.Unlock()
		return e.t, nil
	}
	if ok {
		c.stats.Reloads++
	} else {
		c.stats.Misses++
	}
	c.mu.Unlock()

	t, err := c.load(abs, opt)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[k] = &entry{t: t, modTime: info.ModTime(), size: info.Size()}
	c.mu.Unlock()
	return t, nil
}

// LoadPair loads the raw and cleaned variants of a dataset. Declared time
// columns apply to the cleaned file only; the raw file keeps its text.
func (c *Cache) LoadPair(rawPath, cleanPath string, opt table.Options) (raw, clean *table.Table, err error) {
	rawOpt := opt
	rawOpt.TimeColumns = nil
	raw, err = c.Load(rawPath, rawOpt)
	if err != nil {
		return nil, nil, fmt.Errorf("load raw: %w", err)
	}
	clean, err = c.Load(cleanPath, opt)
	if err != nil {
		return nil, nil, fmt.Errorf("load cleaned: %w", err)
	}
	return raw, clean, nil
}

// Invalidate drops every entry for path and returns how many were dropped.
func (c *Cache) Invalidate(path string) int {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for k := range c.entries {
		if k.path == abs {
			delete(c.entries, k)
			n++
		}
	}
	c.stats.Invalidations += n
	return n
}

// Purge drops all entries.
func (c *Cache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stats.Invalidations += len(c.entries)
	c.entries = make(map[key]*entry)
}

// Len returns the number of cached tables.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats returns a snapshot of the counters.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}
