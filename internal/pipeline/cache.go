package pipeline

import (
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"
)

// Cache stores validation reports on disk keyed by source hash, so
// re-checking a byte-identical candidate skips the whole front half of
// the pipeline. Entries carry the report schema version; a version
// mismatch reads as a miss. Thread-safe for concurrent access.
type Cache struct {
	mu  sync.RWMutex
	dir string
}

// DefaultCacheDir is the XDG cache location for reports.
func DefaultCacheDir() (string, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".cache")
	}
	return filepath.Join(base, "diagen"), nil
}

// OpenCache initializes a report cache rooted at dir.
func OpenCache(dir string) (*Cache, error) {
	if err := os.MkdirAll(filepath.Join(dir, "reports"), 0o755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir}, nil
}

func (c *Cache) pathFor(hash string) string {
	return filepath.Join(c.dir, "reports", hash+".mp")
}

// Put writes a report atomically: encode to a temp file, then rename.
func (c *Cache) Put(hash string, r *Report) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(hash)
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())

	if err := msgpack.NewEncoder(f).Encode(r); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}

// Get reads the report for hash. A missing entry or a schema mismatch
// is a miss, not an error.
func (c *Cache) Get(hash string, out *Report) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(hash))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()

	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, err
	}
	if out.Schema != ReportSchema {
		return false, nil
	}
	return true, nil
}

// DropAll discards every cached report.
func (c *Cache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := os.RemoveAll(filepath.Join(c.dir, "reports")); err != nil {
		return err
	}
	return os.MkdirAll(filepath.Join(c.dir, "reports"), 0o755)
}
