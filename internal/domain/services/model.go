package services

import (
	"context"
	"log/slog"
	"sync"

	"github.com/fitpulse/showcase/internal/domain/entities"
	"github.com/fitpulse/showcase/internal/domain/ports"
)

// ModelService loads 3D model assets, consulting the model cache before
// issuing any I/O. Logical names (graph, goalpost, trophy) are resolved
// to their configured locations through the injected assets config; the
// cache is always keyed by the original logical name.
type ModelService struct {
	cache   ports.ModelCache
	fetcher ports.AssetFetcher
	decoder ports.ModelDecoder
	assets  entities.AssetsConfig
	logger  *slog.Logger

	mu       sync.Mutex
	inflight map[string]*inflightLoad
}

// inflightLoad coalesces concurrent loads of the same logical name onto
// a single fetch. Waiters take their own borrow from the cache once the
// leader has stored the resource.
type inflightLoad struct {
	done chan struct{}
	err  error
}

// NewModelService creates a model service.
func NewModelService(
	cache ports.ModelCache,
	fetcher ports.AssetFetcher,
	decoder ports.ModelDecoder,
	assets entities.AssetsConfig,
	logger *slog.Logger,
) *ModelService {
	if logger == nil {
		logger = slog.Default()
	}

	return &ModelService{
		cache:    cache,
		fetcher:  fetcher,
		decoder:  decoder,
		assets:   assets,
		logger:   logger.With("service", "models"),
		inflight: make(map[string]*inflightLoad),
	}
}

// Load returns a borrowed resource for the logical asset name. On a cache
// hit no I/O happens. On a miss the asset is fetched and decoded, stored
// under the original name, and returned. A failed load leaves the cache
// untouched.
func (s *ModelService) Load(ctx context.Context, name string) (ports.ModelBorrow, error) {
	for {
		if borrow, ok := s.cache.Get(name); ok {
			return borrow, nil
		}

		s.mu.Lock()
		if load, ok := s.inflight[name]; ok {
			s.mu.Unlock()

			select {
			case <-load.done:
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			if load.err != nil {
				return nil, load.err
			}
			// The leader stored the resource; loop back for our own
			// borrow. A re-fetch only happens if it was already evicted.
			continue
		}

		load := &inflightLoad{done: make(chan struct{})}
		s.inflight[name] = load
		s.mu.Unlock()

		borrow, err := s.fetchAndStore(ctx, name)

		load.err = err
		s.mu.Lock()
		delete(s.inflight, name)
		s.mu.Unlock()
		close(load.done)

		return borrow, err
	}
}

// fetchAndStore resolves, fetches and decodes the asset, then stores it
// under the original logical name.
func (s *ModelService) fetchAndStore(ctx context.Context, name string) (ports.ModelBorrow, error) {
	path := s.assets.ResolvePath(name)

	data, err := s.fetcher.Fetch(ctx, path)
	if err != nil {
		s.logger.Warn("model fetch failed", "name", name, "path", path, "error", err)
		return nil, entities.NewLoadError(name, path, err)
	}

	resource, err := s.decoder.Decode(name, path, data)
	if err != nil {
		s.logger.Warn("model decode failed", "name", name, "path", path, "error", err)
		return nil, entities.NewLoadError(name, path, err)
	}

	s.logger.Debug("model loaded", "name", name, "path", path, "bytes", resource.ByteSize)
	return s.cache.Put(name, resource), nil
}

// CacheStats exposes the underlying cache statistics.
func (s *ModelService) CacheStats() entities.CacheStats {
	return s.cache.Stats()
}

// Close purges the cache, disposing every resident resource.
func (s *ModelService) Close() {
	s.cache.Purge()
}

// Ensure ModelService implements the port
var _ ports.ModelService = (*ModelService)(nil)
