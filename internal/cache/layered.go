package cache

import "time"

// LayeredCache fronts the disk cache with a memory cache.
type LayeredCache struct {
	memory Cache
	disk   *DiskCache
}

// NewLayeredCache creates a new layered cache.
func NewLayeredCache(memoryTTL time.Duration, diskDir string, diskTTL time.Duration) *LayeredCache {
	return &LayeredCache{
		memory: NewMemoryCache(memoryTTL, 10*time.Minute),
		disk:   NewDiskCache(diskDir, diskTTL),
	}
}

// Get retrieves a value, checking memory first, then disk. A disk hit is
// promoted to memory.
func (c *LayeredCache) Get(key string) ([]byte, bool) {
	if val, found := c.memory.Get(key); found {
		return val, true
	}

	if val, found := c.disk.Get(key); found {
		_ = c.memory.Set(key, val)
		return val, true
	}

	return nil, false
}

// Set stores a value in both layers.
func (c *LayeredCache) Set(key string, value []byte) error {
	if err := c.memory.Set(key, value); err != nil {
		return err
	}
	return c.disk.Set(key, value)
}

// Delete removes a value from both layers.
func (c *LayeredCache) Delete(key string) error {
	_ = c.memory.Delete(key)
	return c.disk.Delete(key)
}

// Clear removes all values from both layers.
func (c *LayeredCache) Clear() error {
	_ = c.memory.Clear()
	return c.disk.Clear()
}

// Evict removes disk entries older than maxAge.
func (c *LayeredCache) Evict(maxAge time.Duration) error {
	return c.disk.Evict(maxAge)
}
