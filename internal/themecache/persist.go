package themecache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ulikunitz/xz"

	"github.com/jmylchreest/tinctd/internal/colour"
)

const snapshotVersion = 2

type snapshotEntry struct {
	Key     string       `json:"key"`
	Path    string       `json:"path"`
	ModTime int64        `json:"mtime"`
	Theme   colour.Theme `json:"theme"`
}

type snapshot struct {
	Version int             `json:"version"`
	Entries []snapshotEntry `json:"entries"` // oldest first
}

// Save writes an xz-compressed JSON snapshot of the cache to w.
func (c *Cache) Save(w io.Writer) error {
	entries := c.Entries()
	snap := snapshot{
		Version: snapshotVersion,
		Entries: make([]snapshotEntry, 0, len(entries)),
	}
	for _, e := range entries {
		snap.Entries = append(snap.Entries, snapshotEntry{
			Key:     e.Fingerprint.Digest(),
			Path:    e.Fingerprint.Path,
			ModTime: e.Fingerprint.ModTime,
			Theme:   e.Theme,
		})
	}

	xw, err := xz.NewWriter(w)
	if err != nil {
		return fmt.Errorf("failed to create xz writer: %w", err)
	}
	if err := json.NewEncoder(xw).Encode(snap); err != nil {
		xw.Close()
		return fmt.Errorf("failed to encode cache snapshot: %w", err)
	}
	if err := xw.Close(); err != nil {
		return fmt.Errorf("failed to finish xz stream: %w", err)
	}
	return nil
}

// Load merges a snapshot written by Save into the cache. Entries are
// restored in their saved insertion order, so eviction order survives a restart.
func (c *Cache) Load(r io.Reader) error {
	xr, err := xz.NewReader(r)
	if err != nil {
		return fmt.Errorf("failed to open xz stream: %w", err)
	}

	var snap snapshot
	if err := json.NewDecoder(xr).Decode(&snap); err != nil {
		return fmt.Errorf("failed to decode cache snapshot: %w", err)
	}
	if snap.Version != snapshotVersion {
		return fmt.Errorf("unsupported cache snapshot version %d", snap.Version)
	}

	for _, e := range snap.Entries {
		c.Store(Fingerprint{Path: e.Path, ModTime: e.ModTime}, e.Theme)
	}
	return nil
}

// SaveFile writes the snapshot to path atomically.
func (c *Cache) SaveFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil { // #nosec G301 - Cache directory needs standard permissions
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".themes-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := c.Save(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace cache snapshot: %w", err)
	}
	return nil
}

// LoadFile merges the snapshot at path. A missing file is not an error.
func (c *Cache) LoadFile(path string) error {
	f, err := os.Open(path) // #nosec G304 - Configured cache path
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to open cache snapshot: %w", err)
	}
	defer f.Close()

	return c.Load(f)
}
