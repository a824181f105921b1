package adapter

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"cruft.dev/pkg/cruft/pkg/atom"
	"github.com/vmihailenco/msgpack/v5"
)

// metadataCacheSchema is bumped whenever CacheEntry changes shape.
const metadataCacheSchema uint16 = 1

// CacheEntry is the cached metadata of one recipe plus the inputs it was
// generated from.
type CacheEntry struct {
	Schema uint16
	// Hash is the recipe fingerprint at generation time.
	Hash string
	// Eclasses maps each inherited eclass to its fingerprint.
	Eclasses map[string]string
	Pkg      Pkg
}

// MetadataCache stores generated metadata between runs.
type MetadataCache interface {
	Get(repo string, cpv atom.Cpv) (*CacheEntry, bool, error)
	Put(repo string, cpv atom.Cpv, entry *CacheEntry) error
}

// DiskCache is a MetadataCache writing one msgpack file per recipe.
// Safe for concurrent use.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// DefaultCacheDir returns $XDG_CACHE_HOME/cruft, falling back to ~/.cache/cruft.
func DefaultCacheDir() (string, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}

		base = filepath.Join(home, ".cache")
	}

	return filepath.Join(base, "cruft"), nil
}

// OpenDiskCache opens a cache rooted at dir, using DefaultCacheDir when dir is empty.
func OpenDiskCache(dir string) (*DiskCache, error) {
	if dir == "" {
		var err error
		if dir, err = DefaultCacheDir(); err != nil {
			return nil, fmt.Errorf("resolve cache dir: %w", err)
		}
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}

	return &DiskCache{dir: dir}, nil
}

// Dir returns the cache root.
func (c *DiskCache) Dir() string {
	return c.dir
}

func (c *DiskCache) pathFor(repo string, cpv atom.Cpv) string {
	return filepath.Join(c.dir, repo, cpv.Category, cpv.P()+".mp")
}

// Put atomically writes an entry.
func (c *DiskCache) Put(repo string, cpv atom.Cpv, entry *CacheEntry) error {
	if c == nil {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(repo, cpv)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}

	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}

	defer func() {
		if rmErr := os.Remove(f.Name()); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			slog.Warn("failed to remove temp cache file", "path", f.Name(), "error", rmErr)
		}
	}()

	entry.Schema = metadataCacheSchema
	if err := msgpack.NewEncoder(f).Encode(entry); err != nil {
		_ = f.Close()
		return err
	}

	if err := f.Close(); err != nil {
		return err
	}

	return os.Rename(f.Name(), p)
}

// Get reads an entry. Missing entries and entries written with another
// schema are reported as absent.
func (c *DiskCache) Get(repo string, cpv atom.Cpv) (*CacheEntry, bool, error) {
	if c == nil {
		return nil, false, nil
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(repo, cpv))
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}

	if err != nil {
		return nil, false, err
	}

	defer func() {
		_ = f.Close()
	}()

	var entry CacheEntry
	if err := msgpack.NewDecoder(f).Decode(&entry); err != nil {
		return nil, false, fmt.Errorf("decode cache entry for %s: %w", cpv, err)
	}

	if entry.Schema != metadataCacheSchema {
		return nil, false, nil
	}

	entry.Pkg.Cpv = cpv
	entry.Pkg.Repo = repo

	return &entry, true, nil
}
