// Package image rasterizes pictures into terminal escape sequences
// (Kitty, iTerm2, Sixel or 24-bit halfblocks), probes their natural size,
// and keeps rendered output in a bounded LRU cache.
package image

import (
	"container/list"
	"fmt"
	"sync"
	"sync/atomic"
)

// CacheKey identifies one rendered output: which picture, through which
// protocol, at which cell size.
type CacheKey struct {
	Source   string // stable identity of the source picture
	Protocol string
	Cols     int
	Rows     int
}

// String returns a human-readable key for debugging.
func (k CacheKey) String() string {
	return fmt.Sprintf("%s:%dx%d:%s", k.Protocol, k.Cols, k.Rows, k.Source)
}

// CacheStats reports hit/miss counts for observability.
type CacheStats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
	Entries   int
	SizeBytes int64
}

type cacheEntry struct {
	key       CacheKey
	rendered  string
	sizeBytes int64
}

// Cache is a thread-safe LRU of rendered strings bounded by total bytes.
type Cache struct {
	mu        sync.Mutex
	items     map[CacheKey]*list.Element
	order     *list.List // front = most recent
	maxBytes  int64
	usedBytes int64

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

// NewCache creates a new LRU cache with the given maximum size in megabytes.
// If maxMB is <= 0, a default of 32 MB is used.
func NewCache(maxMB int) *Cache {
	if maxMB <= 0 {
		maxMB = 32
	}
	return &Cache{
		items:    make(map[CacheKey]*list.Element),
		order:    list.New(),
		maxBytes: int64(maxMB) * 1024 * 1024,
	}
}

// Get returns the cached string for key and promotes it.
func (c *Cache) Get(key CacheKey) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		c.misses.Add(1)
		return "", false
	}
	c.order.MoveToFront(elem)
	c.hits.Add(1)
	return elem.Value.(*cacheEntry).rendered, true
}

// Put stores rendered under key, evicting least recently used entries
// until the cache fits its budget. An entry larger than the whole budget
// is not stored.
func (c *Cache) Put(key CacheKey, rendered string) {
	size := int64(len(rendered))

	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		c.removeLocked(elem)
	}
	if size > c.maxBytes {
		return
	}
	for c.usedBytes+size > c.maxBytes && c.order.Len() > 0 {
		c.removeLocked(c.order.Back())
		c.evictions.Add(1)
	}

	c.items[key] = c.order.PushFront(&cacheEntry{key: key, rendered: rendered, sizeBytes: size})
	c.usedBytes += size
}

// Invalidate clears all cache entries.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[CacheKey]*list.Element)
	c.order.Init()
	c.usedBytes = 0
}

// Stats returns current cache statistics.
func (c *Cache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return CacheStats{
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
		Entries:   c.order.Len(),
		SizeBytes: c.usedBytes,
	}
}

// removeLocked unlinks elem. Caller must hold c.mu.
func (c *Cache) removeLocked(elem *list.Element) {
	entry := c.order.Remove(elem).(*cacheEntry)
	delete(c.items, entry.key)
	c.usedBytes -= entry.sizeBytes
}
