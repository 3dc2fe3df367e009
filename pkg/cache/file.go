package cache

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// FileCache stores each entry as a JSON file below a directory.
// Entries are spread over 256 subdirectories by key hash.
type FileCache struct {
	dir string
}

// NewFileCache creates a file-based cache in dir, creating it if needed.
func NewFileCache(dir string) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileCache{dir: dir}, nil
}

// Dir returns the cache directory.
func (c *FileCache) Dir() string { return c.dir }

type fileEntry struct {
	Data      []byte    `json:"data"`
	ExpiresAt time.Time `json:"expires_at,omitzero"`
}

// Get retrieves a value from the cache.
// Corrupt and expired entries are removed and reported as misses.
func (c *FileCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	path := c.path(key)

	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var entry fileEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		_ = os.Remove(path)
		return nil, false, nil
	}
	if !entry.ExpiresAt.IsZero() && time.Now().After(entry.ExpiresAt) {
		_ = os.Remove(path)
		return nil, false, nil
	}
	return entry.Data, true, nil
}

// Set stores a value in the cache. The entry is written to a temporary file
// and renamed so concurrent readers never see a partial entry.
func (c *FileCache) Set(_ context.Context, key string, data []byte, ttl time.Duration) error {
	entry := fileEntry{Data: data}
	if ttl > 0 {
		entry.ExpiresAt = time.Now().Add(ttl)
	}
	raw, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	path := c.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Delete removes a value from the cache.
func (c *FileCache) Delete(_ context.Context, key string) error {
	err := os.Remove(c.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// Clear removes every entry and returns how many were deleted.
// Empty subdirectories are removed as well; the cache directory itself stays.
func (c *FileCache) Clear() (int, error) {
	entries, err := os.ReadDir(c.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	count := 0
	for _, sub := range entries {
		subdir := filepath.Join(c.dir, sub.Name())
		if !sub.IsDir() {
			if os.Remove(subdir) == nil {
				count++
			}
			continue
		}
		files, err := os.ReadDir(subdir)
		if err != nil {
			continue
		}
		for _, f := range files {
			if os.Remove(filepath.Join(subdir, f.Name())) == nil {
				count++
			}
		}
		_ = os.Remove(subdir)
	}
	return count, nil
}

// Close does nothing for file cache.
func (c *FileCache) Close() error {
	return nil
}

// path converts a cache key to a file path.
func (c *FileCache) path(key string) string {
	hash := Hash([]byte(key))
	return filepath.Join(c.dir, hash[:2], hash[2:]+".json")
}

// Ensure FileCache implements Cache.
var _ Cache = (*FileCache)(nil)
