package ports

import (
	"github.com/fitpulse/showcase/internal/domain/entities"
)

// ModelBorrow is a counted reference to a cached scene resource. The
// cache owns the resource; borrowers must call Release exactly once and
// never dispose the resource themselves. A resource evicted while
// borrowed is disposed when its last borrow is released.
type ModelBorrow interface {
	// Resource returns the borrowed scene resource.
	Resource() *entities.SceneResource

	// Release returns the borrow to the cache. Idempotent.
	Release()
}

// ModelCache caches decoded scene resources with LRU eviction.
type ModelCache interface {
	// Get retrieves a cached resource and marks it most recently used.
	Get(key string) (ModelBorrow, bool)

	// Put inserts or overwrites a resource, evicting the least recently
	// used entry when the cache exceeds capacity. Returns a borrow on
	// the inserted resource.
	Put(key string, resource *entities.SceneResource) ModelBorrow

	// Len returns the number of resident resources.
	Len() int

	// Purge evicts and disposes every resident resource.
	Purge()

	// Stats returns cache statistics.
	Stats() entities.CacheStats
}
