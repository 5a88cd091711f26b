package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/fitpulse/showcase/internal/adapters/secondary/cache"
	"github.com/fitpulse/showcase/internal/domain/entities"
)

// Mock implementations
type MockFetcher struct {
	mock.Mock
}

func (m *MockFetcher) Fetch(ctx context.Context, path string) ([]byte, error) {
	args := m.Called(ctx, path)
	if data := args.Get(0); data != nil {
		return data.([]byte), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockDecoder struct {
	mock.Mock
}

func (m *MockDecoder) Decode(name, sourcePath string, data []byte) (*entities.SceneResource, error) {
	args := m.Called(name, sourcePath, data)
	if res := args.Get(0); res != nil {
		return res.(*entities.SceneResource), args.Error(1)
	}
	return nil, args.Error(1)
}

func decodedResource(name, path string) *entities.SceneResource {
	return &entities.SceneResource{
		Name:       name,
		SourcePath: path,
		Document:   []byte(`{"scene":0}`),
		Buffer:     []byte{0x01},
		ByteSize:   32,
		LoadedAt:   time.Now(),
	}
}

func testAssetsConfig() entities.AssetsConfig {
	return entities.AssetsConfig{
		Dir:          "/models",
		GraphPath:    "/overrides/weekly-graph.glb",
		GoalpostPath: "https://cdn.example.com/goalpost.glb",
	}
}

func TestModelService_LoadMissFetchesAndCaches(t *testing.T) {
	fetcher := new(MockFetcher)
	decoder := new(MockDecoder)
	svc := NewModelService(cache.NewLRUCache(10), fetcher, decoder, testAssetsConfig(), nil)

	raw := []byte("glb-bytes")
	res := decodedResource("graph", "/overrides/weekly-graph.glb")

	// The graph override path is used for I/O, the logical name for the cache.
	fetcher.On("Fetch", mock.Anything, "/overrides/weekly-graph.glb").Return(raw, nil).Once()
	decoder.On("Decode", "graph", "/overrides/weekly-graph.glb", raw).Return(res, nil).Once()

	borrow, err := svc.Load(context.Background(), "graph")
	require.NoError(t, err)
	assert.Same(t, res, borrow.Resource())
	borrow.Release()

	fetcher.AssertExpectations(t)
	decoder.AssertExpectations(t)
}

func TestModelService_LoadHitSkipsIO(t *testing.T) {
	fetcher := new(MockFetcher)
	decoder := new(MockDecoder)
	svc := NewModelService(cache.NewLRUCache(10), fetcher, decoder, testAssetsConfig(), nil)

	raw := []byte("glb-bytes")
	res := decodedResource("trophy", "/models/trophy.glb")
	fetcher.On("Fetch", mock.Anything, "/models/trophy.glb").Return(raw, nil).Once()
	decoder.On("Decode", "trophy", "/models/trophy.glb", raw).Return(res, nil).Once()

	first, err := svc.Load(context.Background(), "trophy")
	require.NoError(t, err)
	first.Release()

	// Second load must come from the cache: Fetch/Decode are Once().
	second, err := svc.Load(context.Background(), "trophy")
	require.NoError(t, err)
	assert.Same(t, res, second.Resource())
	second.Release()

	fetcher.AssertExpectations(t)
	decoder.AssertExpectations(t)
	assert.Equal(t, int64(1), svc.CacheStats().Hits)
}

func TestModelService_CapacityOneEvictsPrevious(t *testing.T) {
	fetcher := new(MockFetcher)
	decoder := new(MockDecoder)
	svc := NewModelService(cache.NewLRUCache(1), fetcher, decoder, testAssetsConfig(), nil)

	resA := decodedResource("graph", "/overrides/weekly-graph.glb")
	resB := decodedResource("trophy", "/models/trophy.glb")

	fetcher.On("Fetch", mock.Anything, "/overrides/weekly-graph.glb").Return([]byte("a"), nil).Once()
	decoder.On("Decode", "graph", mock.Anything, []byte("a")).Return(resA, nil).Once()
	fetcher.On("Fetch", mock.Anything, "/models/trophy.glb").Return([]byte("b"), nil).Once()
	decoder.On("Decode", "trophy", mock.Anything, []byte("b")).Return(resB, nil).Once()

	a, err := svc.Load(context.Background(), "graph")
	require.NoError(t, err)
	a.Release()

	b, err := svc.Load(context.Background(), "trophy")
	require.NoError(t, err)
	b.Release()

	assert.True(t, resA.Disposed(), "evicted resource must be disposed")
	assert.False(t, resB.Disposed())
	assert.Equal(t, 1, svc.CacheStats().Size)
}

func TestModelService_FetchFailureLeavesCacheUntouched(t *testing.T) {
	fetcher := new(MockFetcher)
	decoder := new(MockDecoder)
	svc := NewModelService(cache.NewLRUCache(10), fetcher, decoder, testAssetsConfig(), nil)

	fetcher.On("Fetch", mock.Anything, mock.Anything).Return(nil, errors.New("connection refused"))

	_, err := svc.Load(context.Background(), "goalpost")
	require.Error(t, err)
	assert.True(t, entities.IsLoadError(err))
	assert.Equal(t, 0, svc.CacheStats().Size)
}

func TestModelService_DecodeFailureLeavesCacheUntouched(t *testing.T) {
	fetcher := new(MockFetcher)
	decoder := new(MockDecoder)
	svc := NewModelService(cache.NewLRUCache(10), fetcher, decoder, testAssetsConfig(), nil)

	fetcher.On("Fetch", mock.Anything, mock.Anything).Return([]byte("junk"), nil)
	decoder.On("Decode", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("not a binary glTF container"))

	_, err := svc.Load(context.Background(), "graph")
	require.Error(t, err)
	assert.True(t, entities.IsLoadError(err))
	assert.Equal(t, 0, svc.CacheStats().Size)

	var le *entities.LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, "graph", le.Name)
}

func TestModelService_ConcurrentLoadsCoalesce(t *testing.T) {
	fetcher := new(MockFetcher)
	decoder := new(MockDecoder)
	svc := NewModelService(cache.NewLRUCache(10), fetcher, decoder, testAssetsConfig(), nil)

	release := make(chan struct{})
	res := decodedResource("graph", "/overrides/weekly-graph.glb")

	fetcher.On("Fetch", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { <-release }).
		Return([]byte("a"), nil).Once()
	decoder.On("Decode", mock.Anything, mock.Anything, mock.Anything).Return(res, nil).Once()

	const loaders = 8
	var wg sync.WaitGroup
	errs := make([]error, loaders)
	for i := 0; i < loaders; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			borrow, err := svc.Load(context.Background(), "graph")
			errs[i] = err
			if err == nil {
				borrow.Release()
			}
		}(i)
	}

	// Let the goroutines pile up on the single in-flight fetch.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	for i, err := range errs {
		assert.NoError(t, err, "loader %d", i)
	}
	fetcher.AssertNumberOfCalls(t, "Fetch", 1)
}

func TestModelService_UnknownNameFallsBackToDir(t *testing.T) {
	fetcher := new(MockFetcher)
	decoder := new(MockDecoder)
	svc := NewModelService(cache.NewLRUCache(10), fetcher, decoder, testAssetsConfig(), nil)

	res := decodedResource("confetti", "/models/confetti.glb")
	fetcher.On("Fetch", mock.Anything, "/models/confetti.glb").Return([]byte("c"), nil).Once()
	decoder.On("Decode", "confetti", "/models/confetti.glb", []byte("c")).Return(res, nil).Once()

	borrow, err := svc.Load(context.Background(), "confetti")
	require.NoError(t, err)
	borrow.Release()

	fetcher.AssertExpectations(t)
}

func TestModelService_Close(t *testing.T) {
	fetcher := new(MockFetcher)
	decoder := new(MockDecoder)
	svc := NewModelService(cache.NewLRUCache(10), fetcher, decoder, testAssetsConfig(), nil)

	res := decodedResource("graph", "/overrides/weekly-graph.glb")
	fetcher.On("Fetch", mock.Anything, mock.Anything).Return([]byte("a"), nil).Once()
	decoder.On("Decode", mock.Anything, mock.Anything, mock.Anything).Return(res, nil).Once()

	borrow, err := svc.Load(context.Background(), "graph")
	require.NoError(t, err)
	borrow.Release()

	svc.Close()
	assert.True(t, res.Disposed())
}
