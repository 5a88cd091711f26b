package assets

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/fitpulse/showcase/internal/domain/ports"
)

// maxAssetSize caps a single fetched model at 64 MiB.
const maxAssetSize = 64 << 20

// Fetcher retrieves raw model bytes from the local filesystem or over
// http(s), depending on the resolved path.
type Fetcher struct {
	client *http.Client
}

// NewFetcher creates a fetcher with a shared HTTP client.
func NewFetcher() *Fetcher {
	return &Fetcher{
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Fetch reads the asset at the resolved path.
func (f *Fetcher) Fetch(ctx context.Context, path string) ([]byte, error) {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return f.fetchURL(ctx, path)
	}
	return f.fetchFile(path)
}

func (f *Fetcher) fetchFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.Size() > maxAssetSize {
		return nil, fmt.Errorf("asset %s exceeds size limit (%d bytes)", path, info.Size())
	}

	data, err := os.ReadFile(path) // #nosec G304 - path comes from validated config
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}

func (f *Fetcher) fetchURL(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", url, err)
	}
	req.Header.Set("Accept", "model/gltf-binary")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: unexpected status %d", url, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxAssetSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading response from %s: %w", url, err)
	}
	if len(data) > maxAssetSize {
		return nil, fmt.Errorf("asset %s exceeds size limit", url)
	}
	return data, nil
}

// Ensure Fetcher implements AssetFetcher
var _ ports.AssetFetcher = (*Fetcher)(nil)
