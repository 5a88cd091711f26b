package ports

import (
	"context"

	"github.com/fitpulse/showcase/internal/domain/entities"
)

// AssetFetcher retrieves raw model bytes from a resolved location
// (a filesystem path or an http(s) URL).
type AssetFetcher interface {
	// Fetch reads the asset at the resolved path.
	Fetch(ctx context.Context, path string) ([]byte, error)
}

// ModelDecoder turns fetched bytes into a scene resource.
type ModelDecoder interface {
	// Decode parses a binary glTF container.
	Decode(name, sourcePath string, data []byte) (*entities.SceneResource, error)
}

// ModelService loads scene resources, consulting the model cache before
// issuing any I/O.
type ModelService interface {
	// Load returns a borrowed resource for the logical asset name.
	// Concurrent loads of the same name coalesce onto a single fetch.
	Load(ctx context.Context, name string) (ModelBorrow, error)

	// CacheStats exposes the underlying cache statistics.
	CacheStats() entities.CacheStats

	// Close purges the cache, disposing every resident resource.
	Close()
}
