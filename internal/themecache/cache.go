// Package themecache caches generated themes keyed by image fingerprint.
package themecache

import (
	"crypto/md5" // #nosec G501 - Used as a cache key, not for security
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/jmylchreest/tinctd/internal/colour"
)

// Fingerprint identifies an image version by path and modification time.
// It is a proxy for content change: a copy that preserves mtime collides,
// a rewrite that bumps mtime never does.
type Fingerprint struct {
	Path    string
	ModTime int64 // Unix nanoseconds
}

// NewFingerprint builds a fingerprint from a path and modification time.
func NewFingerprint(path string, modTime time.Time) Fingerprint {
	return Fingerprint{Path: path, ModTime: modTime.UnixNano()}
}

// FingerprintFile stats path and returns its fingerprint.
// The path is made absolute so relative and absolute references share an entry.
func FingerprintFile(path string) (Fingerprint, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return Fingerprint{}, fmt.Errorf("failed to get absolute path: %w", err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return Fingerprint{}, fmt.Errorf("failed to stat image: %w", err)
	}
	if info.IsDir() {
		return Fingerprint{}, fmt.Errorf("path is a directory, not a file: %s", absPath)
	}

	return NewFingerprint(absPath, info.ModTime()), nil
}

// Digest returns a stable hex key for the fingerprint, used in snapshots.
func (f Fingerprint) Digest() string {
	sum := md5.Sum([]byte(fmt.Sprintf("%s-%d", f.Path, f.ModTime/int64(time.Millisecond)))) // #nosec G401
	return fmt.Sprintf("%x", sum)
}

// String implements fmt.Stringer.
func (f Fingerprint) String() string {
	return fmt.Sprintf("%s@%s", f.Path, time.Unix(0, f.ModTime).UTC().Format(time.RFC3339Nano))
}

// Option configures a Cache.
type Option func(*Cache)

// WithMaxEntries bounds the cache; the oldest inserted entry is evicted first.
// Zero or negative means unbounded.
func WithMaxEntries(n int) Option {
	return func(c *Cache) {
		c.maxEntries = n
	}
}

// Cache maps fingerprints to themes. It is unbounded by default: the
// population is the set of wallpapers seen in one run.
//
// Lookup and Store are individually safe for concurrent use but are not a
// single atomic operation; two callers missing on the same fingerprint both
// compute and the last Store wins. Themes are values, so this only costs time.
type Cache struct {
	mu         sync.Mutex
	entries    map[Fingerprint]colour.Theme
	order      []Fingerprint
	maxEntries int
}

// New creates an empty cache.
func New(opts ...Option) *Cache {
	c := &Cache{
		entries: make(map[Fingerprint]colour.Theme),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Lookup returns the theme stored for fp.
func (c *Cache) Lookup(fp Fingerprint) (colour.Theme, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	theme, ok := c.entries[fp]
	return theme, ok
}

// Store records theme for fp, replacing any previous value.
func (c *Cache) Store(fp Fingerprint, theme colour.Theme) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[fp]; !exists {
		c.order = append(c.order, fp)
	}
	c.entries[fp] = theme

	if c.maxEntries > 0 && len(c.order) > c.maxEntries {
		n := len(c.order) - c.maxEntries
		for _, fp := range c.order[:n] {
			delete(c.entries, fp)
		}
		c.order = slices.Delete(c.order, 0, n)
	}
}

// Len returns the number of cached themes.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Clear removes every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[Fingerprint]colour.Theme)
	c.order = nil
}

// Entry is a fingerprint/theme pair.
type Entry struct {
	Fingerprint Fingerprint
	Theme       colour.Theme
}

// Entries returns a snapshot of the cache in insertion order.
func (c *Cache) Entries() []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Entry, 0, len(c.order))
	for _, fp := range c.order {
		out = append(out, Entry{Fingerprint: fp, Theme: c.entries[fp]})
	}
	return out
}
