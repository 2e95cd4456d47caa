package pages

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const (
	cacheMaxAge = 30 * 24 * time.Hour // 30 days
	pageExt     = ".png"
)

// Cache stores split pages on disk, one directory per source image and
// viewport size. A nil *Cache is valid and caches nothing.
type Cache struct {
	dir string
}

// NewCache creates the cache directory if needed and prunes stale entries
// in the background.
func NewCache(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	c := &Cache{dir: dir}

	// Prune old entries in background
	go c.pruneOldEntries(cacheMaxAge)

	return c, nil
}

// Dir returns the cache directory.
func (c *Cache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

// cacheKey identifies a source file version at specific viewport dimensions.
func cacheKey(path string, modTime time.Time, size int64, width, height int) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	data := fmt.Sprintf("%s:%d:%d:%d:%d", path, modTime.UnixNano(), size, width, height)
	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}

func pageName(i int) string {
	return fmt.Sprintf("%04d%s", i, pageExt)
}

// Get returns the cached pages for key, or nil if not cached.
func (c *Cache) Get(key string) [][]byte {
	if c == nil {
		return nil
	}

	entryDir := filepath.Join(c.dir, key)
	entries, err := os.ReadDir(entryDir)
	if err != nil {
		return nil
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), pageExt) {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return nil
	}
	sort.Strings(names)

	pages := make([][]byte, len(names))
	for i, name := range names {
		if name != pageName(i) {
			return nil
		}
		data, err := os.ReadFile(filepath.Join(entryDir, name))
		if err != nil {
			return nil
		}
		pages[i] = data
	}

	// Touch the entry to update mtime (keeps frequently used entries fresh)
	now := time.Now()
	_ = os.Chtimes(entryDir, now, now) //nolint:errcheck // best-effort

	return pages
}

// Put stores pages under key. The entry becomes visible atomically.
func (c *Cache) Put(key string, pages [][]byte) error {
	if c == nil || len(pages) == 0 {
		return nil
	}

	tmp, err := os.MkdirTemp(c.dir, ".tmp-")
	if err != nil {
		return err
	}
	for i, data := range pages {
		if err := os.WriteFile(filepath.Join(tmp, pageName(i)), data, 0o600); err != nil {
			_ = os.RemoveAll(tmp) //nolint:errcheck // best-effort cleanup
			return err
		}
	}

	entryDir := filepath.Join(c.dir, key)
	_ = os.RemoveAll(entryDir) //nolint:errcheck // replaced below
	if err := os.Rename(tmp, entryDir); err != nil {
		_ = os.RemoveAll(tmp) //nolint:errcheck // best-effort cleanup
		return err
	}
	return nil
}

// pruneOldEntries removes cache entries not used within maxAge.
func (c *Cache) pruneOldEntries(maxAge time.Duration) {
	if c == nil {
		return
	}

	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return
	}

	cutoff := time.Now().Add(-maxAge)

	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			continue
		}

		if info.ModTime().Before(cutoff) {
			_ = os.RemoveAll(filepath.Join(c.dir, entry.Name())) //nolint:errcheck // best-effort cleanup
		}
	}
}
