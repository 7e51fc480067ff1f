package cache

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"adspend/domain/dataset"
	"adspend/internal"
	"adspend/internal/errors"
	"adspend/ports"

	"golang.org/x/sync/singleflight"
)

// DatasetCache memoizes loaded datasets keyed by file path plus modification time.
// A cached dataset is shared read-only by every caller.
type DatasetCache struct {
	loader ports.DatasetLoader
	logger *internal.Logger

	mu      sync.RWMutex
	entries map[string]cacheEntry
	stats   CacheStats

	group singleflight.Group
}

type cacheEntry struct {
	dataset  *dataset.Dataset
	modTime  time.Time
	size     int64
	loadedAt time.Time
}

// CacheStats counts cache activity
type CacheStats struct {
	Hits          int `json:"hits"`
	Misses        int `json:"misses"`
	Invalidations int `json:"invalidations"`
}

// NewDatasetCache creates an empty cache in front of loader
func NewDatasetCache(loader ports.DatasetLoader, logger *internal.Logger) *DatasetCache {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &DatasetCache{
		loader:  loader,
		logger:  logger,
		entries: make(map[string]cacheEntry),
	}
}

// Get returns the dataset for path, reloading only when the file's mtime or size changed.
// Concurrent misses for the same file version share one load.
func (c *DatasetCache) Get(ctx context.Context, path string) (*dataset.Dataset, error) {
	key := normalizePath(path)

	info, err := os.Stat(key)
	if err != nil {
		c.Invalidate(key)
		return nil, errors.DataUnavailable(path, err)
	}

	c.mu.Lock()
	if entry, ok := c.entries[key]; ok && entry.matches(info) {
		c.stats.Hits++
		c.mu.Unlock()
		return entry.dataset, nil
	}
	c.stats.Misses++
	c.mu.Unlock()

	// The shared load outlives any single caller; each caller still honours its own ctx.
	flightKey := fmt.Sprintf("%s|%d|%d", key, info.ModTime().UnixNano(), info.Size())
	loadCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(flightKey, func() (interface{}, error) {
		ds, err := c.loader.Load(loadCtx, path)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.entries[key] = cacheEntry{
			dataset:  ds,
			modTime:  info.ModTime(),
			size:     info.Size(),
			loadedAt: time.Now(),
		}
		c.mu.Unlock()

		c.logger.Debug("[DatasetCache] Cached %s (%d rows, mtime %s)", key, ds.Len(), info.ModTime().Format(time.RFC3339))
		return ds, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			c.logger.Trace("[DatasetCache] Shared in-flight load for %s", key)
		}
		return res.Val.(*dataset.Dataset), nil
	}
}

// Invalidate drops the cached dataset for path
func (c *DatasetCache) Invalidate(path string) {
	key := normalizePath(path)

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[key]; ok {
		delete(c.entries, key)
		c.stats.Invalidations++
		c.logger.Debug("[DatasetCache] Invalidated %s", key)
	}
}

// Clear drops every cached dataset
func (c *DatasetCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stats.Invalidations += len(c.entries)
	c.entries = make(map[string]cacheEntry)
}

// Cached reports whether path currently has an entry
func (c *DatasetCache) Cached(path string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.entries[normalizePath(path)]
	return ok
}

// Stats returns a snapshot of the counters
func (c *DatasetCache) Stats() CacheStats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stats
}

func (e cacheEntry) matches(info os.FileInfo) bool {
	return e.modTime.Equal(info.ModTime()) && e.size == info.Size()
}

func normalizePath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}
