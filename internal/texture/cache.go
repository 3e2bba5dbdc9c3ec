package texture

import (
	"fmt"
	"image"
	"os"
	"sync"
	"time"
)

// Cache is a concurrency-safe texture cache keyed by path. An entry is
// reloaded when the file's size or modification time changes.
type Cache struct {
	mu    sync.RWMutex
	items map[string]*cacheEntry
}

type cacheEntry struct {
	img     *image.NRGBA
	size    int64
	modTime time.Time
}

// NewCache creates an empty texture cache.
func NewCache() *Cache {
	return &Cache{items: make(map[string]*cacheEntry)}
}

// Load returns the decoded texture at path, reading the file only when it is
// not cached or has changed on disk.
func (c *Cache) Load(path string) (*image.NRGBA, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("texture: stat %s: %w", path, err)
	}

	// Fast path: read lock
	c.mu.RLock()
	if e, ok := c.items[path]; ok && e.size == info.Size() && e.modTime.Equal(info.ModTime()) {
		c.mu.RUnlock()
		return e.img, nil
	}
	c.mu.RUnlock()

	// Slow path: load from disk
	img, err := Load(path)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.items[path] = &cacheEntry{img: img, size: info.Size(), modTime: info.ModTime()}
	c.mu.Unlock()

	return img, nil
}

// Len returns the number of cached textures.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
