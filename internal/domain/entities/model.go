package entities

import (
	"errors"
	"time"
)

// SceneResource is a decoded 3D model ready to be served to the page.
// It holds the two GLB chunks separately so the structured scene
// description and the raw geometry buffers can be released together
// on disposal.
type SceneResource struct {
	// Name is the logical asset name (graph, goalpost, trophy, ...).
	Name string

	// SourcePath is the resolved path or URL the asset was fetched from.
	SourcePath string

	// Document is the JSON chunk of the GLB container (scene description).
	Document []byte

	// Buffer is the binary chunk (geometry, animation and texture data).
	// Nil for GLB files that embed everything in the JSON chunk.
	Buffer []byte

	// ByteSize is the total size of the container as fetched.
	ByteSize int64

	// LoadedAt records when the asset was decoded.
	LoadedAt time.Time

	disposed bool
}

// ErrResourceDisposed is returned when a resource is disposed twice or
// used after disposal.
var ErrResourceDisposed = errors.New("scene resource already disposed")

// Dispose releases the decoded buffers. It is safe to call exactly once;
// a second call reports ErrResourceDisposed.
func (r *SceneResource) Dispose() error {
	if r.disposed {
		return ErrResourceDisposed
	}
	r.disposed = true
	r.Document = nil
	r.Buffer = nil
	return nil
}

// Disposed reports whether the resource buffers have been released.
func (r *SceneResource) Disposed() bool {
	return r.disposed
}

// CacheStats represents model cache statistics
type CacheStats struct {
	// Hits is the number of cache hits
	Hits int64 `json:"hits"`

	// Misses is the number of cache misses
	Misses int64 `json:"misses"`

	// Evictions is the number of cache evictions
	Evictions int64 `json:"evictions"`

	// Size is the current number of resident resources
	Size int `json:"size"`

	// MaxSize is the configured capacity
	MaxSize int `json:"max_size"`

	// HitRate is the percentage of cache hits
	HitRate float64 `json:"hit_rate"`
}
