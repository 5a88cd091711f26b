package cache

import (
	"container/list"
	"log"
	"sync"

	"github.com/fitpulse/showcase/internal/domain/entities"
	"github.com/fitpulse/showcase/internal/domain/ports"
)

// LRUCache is a bounded in-memory cache for decoded scene resources.
// Eviction order is true access recency: Get moves an entry to the front,
// so the list back is always the least recently used entry.
//
// The cache owns every resident resource. Callers receive counted borrows
// and must never dispose a resource directly; a resource evicted while
// borrowed is disposed when its last borrow is released.
type LRUCache struct {
	mu       sync.Mutex
	capacity int
	ll       *list.List               // front = most recently used
	entries  map[string]*list.Element // key -> element whose Value is *cacheEntry
	stats    entities.CacheStats
}

type cacheEntry struct {
	key      string
	resource *entities.SceneResource
	borrows  int
	evicted  bool
}

// NewLRUCache creates a cache holding at most capacity resources.
// Non-positive capacities fall back to the default of 10.
func NewLRUCache(capacity int) *LRUCache {
	if capacity <= 0 {
		capacity = 10
	}
	return &LRUCache{
		capacity: capacity,
		ll:       list.New(),
		entries:  make(map[string]*list.Element, capacity),
		stats:    entities.CacheStats{MaxSize: capacity},
	}
}

// Get retrieves a cached resource and marks it most recently used.
func (c *LRUCache) Get(key string) (ports.ModelBorrow, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[key]
	if !ok {
		c.stats.Misses++
		return nil, false
	}

	c.ll.MoveToFront(elem)
	c.stats.Hits++

	entry := elem.Value.(*cacheEntry)
	entry.borrows++
	return &borrow{cache: c, entry: entry}, true
}

// Put inserts or overwrites a resource. After insertion, if the cache is
// over capacity, exactly one entry is evicted: the least recently used.
// An overwritten resource is treated as evicted.
func (c *LRUCache) Put(key string, resource *entities.SceneResource) ports.ModelBorrow {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[key]; ok {
		old := elem.Value.(*cacheEntry)
		c.ll.Remove(elem)
		delete(c.entries, key)
		c.retire(old)
	}

	entry := &cacheEntry{key: key, resource: resource, borrows: 1}
	c.entries[key] = c.ll.PushFront(entry)
	c.stats.Size = len(c.entries)

	if c.ll.Len() > c.capacity {
		c.evictOldest()
	}

	return &borrow{cache: c, entry: entry}
}

// Len returns the number of resident resources.
func (c *LRUCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Purge evicts and disposes every resident resource.
func (c *LRUCache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for c.ll.Len() > 0 {
		c.evictOldest()
	}
}

// Stats returns cache statistics.
func (c *LRUCache) Stats() entities.CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := c.stats
	stats.Size = len(c.entries)
	total := stats.Hits + stats.Misses
	if total > 0 {
		stats.HitRate = float64(stats.Hits) / float64(total) * 100
	}
	return stats
}

// evictOldest removes the back of the list. Caller holds the lock.
func (c *LRUCache) evictOldest() {
	back := c.ll.Back()
	if back == nil {
		return
	}
	entry := back.Value.(*cacheEntry)
	c.ll.Remove(back)
	delete(c.entries, entry.key)
	c.stats.Evictions++
	c.stats.Size = len(c.entries)
	c.retire(entry)
}

// retire disposes an entry removed from the mapping, or defers disposal
// to the last borrow. Disposal failures are logged and swallowed; the
// entry is gone from the mapping either way. Caller holds the lock.
func (c *LRUCache) retire(entry *cacheEntry) {
	entry.evicted = true
	if entry.borrows > 0 {
		return
	}
	if err := entry.resource.Dispose(); err != nil {
		log.Printf("[WARN] [cache] disposing evicted model %q: %v", entry.key, err)
	}
}

// borrow is a counted reference handed to cache consumers.
type borrow struct {
	cache    *LRUCache
	entry    *cacheEntry
	released bool
}

// Resource returns the borrowed scene resource.
func (b *borrow) Resource() *entities.SceneResource {
	return b.entry.resource
}

// Release returns the borrow. The resource is disposed here only when it
// was evicted while still borrowed and this was the last borrow.
func (b *borrow) Release() {
	b.cache.mu.Lock()
	defer b.cache.mu.Unlock()

	if b.released {
		return
	}
	b.released = true
	b.entry.borrows--

	if b.entry.evicted && b.entry.borrows == 0 {
		if err := b.entry.resource.Dispose(); err != nil {
			log.Printf("[WARN] [cache] disposing released model %q: %v", b.entry.key, err)
		}
	}
}

// Ensure LRUCache implements ModelCache
var _ ports.ModelCache = (*LRUCache)(nil)
