package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/fitpulse/showcase/internal/domain/entities"
	"github.com/fitpulse/showcase/internal/domain/ports"
)

// ContentService owns the page content currently being served and
// re-reads it when the content file changes.
type ContentService struct {
	loader ports.ContentLoader
	path   string
	logger *slog.Logger

	mu   sync.RWMutex
	page *entities.Page
}

// NewContentService loads the initial page content from path.
func NewContentService(ctx context.Context, loader ports.ContentLoader, path string, logger *slog.Logger) (*ContentService, error) {
	if logger == nil {
		logger = slog.Default()
	}

	page, err := loader.Load(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("loading content: %w", err)
	}

	return &ContentService{
		loader: loader,
		path:   path,
		logger: logger.With("service", "content"),
		page:   page,
	}, nil
}

// Current returns the page currently being served.
func (s *ContentService) Current() *entities.Page {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.page
}

// Path returns the content file location.
func (s *ContentService) Path() string {
	return s.path
}

// Reload re-reads the content file and swaps the current page. On
// failure the previous page keeps being served.
func (s *ContentService) Reload(ctx context.Context) error {
	page, err := s.loader.Load(ctx, s.path)
	if err != nil {
		s.logger.Warn("content reload failed, keeping previous page", "path", s.path, "error", err)
		return err
	}

	s.mu.Lock()
	s.page = page
	s.mu.Unlock()

	s.logger.Info("content reloaded", "path", s.path,
		"features", len(page.Features), "visualizations", len(page.Visualizations))
	return nil
}

// Ensure ContentService implements the port
var _ ports.ContentService = (*ContentService)(nil)
