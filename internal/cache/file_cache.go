// Package cache provides the local key-value store used for offline reads:
// one JSON blob file per key under the data directory.
package cache

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/menupilot/menupilot/internal/schema"
)

// FileCache stores each key as <dir>/<key>.json. Writes are serialised with
// a mutex; the cache is a single process-wide namespace with no transactions,
// so concurrent logical writers are last-write-wins.
type FileCache struct {
	dir string
	mu  sync.Mutex
}

// New creates a FileCache rooted at dir, creating it if necessary.
func New(dir string) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &FileCache{dir: dir}, nil
}

// Get returns the blob stored under key, or ("", nil) when the key is absent.
func (c *FileCache) Get(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := os.ReadFile(c.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", &schema.StoreError{Op: "cache read " + key, Err: err}
	}
	return string(data), nil
}

// Set stores value under key, replacing any previous blob.
func (c *FileCache) Set(_ context.Context, key, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := os.WriteFile(c.path(key), []byte(value), 0o644); err != nil {
		return &schema.StoreError{Op: "cache write " + key, Err: err}
	}
	return nil
}

// Clear removes every stored key. Used on sign-out.
func (c *FileCache) Clear(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	entries, err := filepath.Glob(filepath.Join(c.dir, "*.json"))
	if err != nil {
		return &schema.StoreError{Op: "cache clear", Err: err}
	}
	for _, p := range entries {
		if err := os.Remove(p); err != nil {
			return &schema.StoreError{Op: "cache clear", Err: err}
		}
	}
	return nil
}

// path maps a key to its blob file. Keys are fixed short names; path
// separators are stripped defensively all the same.
func (c *FileCache) path(key string) string {
	key = strings.NewReplacer("/", "_", "\\", "_", "..", "_").Replace(key)
	return filepath.Join(c.dir, key+".json")
}
