package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/fitpulse/showcase/internal/domain/ports"
)

// LiveReloadService coordinates content file watching with WebSocket
// notifications: a change re-reads the page and tells clients to reload.
type LiveReloadService struct {
	watcher ports.FileWatcher
	server  ports.HTTPServer
	content ports.ContentService
	logger  *slog.Logger

	mu          sync.Mutex
	watching    bool
	watchCancel context.CancelFunc
}

// NewLiveReloadService creates a new live reload service
func NewLiveReloadService(
	watcher ports.FileWatcher,
	server ports.HTTPServer,
	content ports.ContentService,
	logger *slog.Logger,
) *LiveReloadService {
	if logger == nil {
		logger = slog.Default()
	}

	return &LiveReloadService{
		watcher: watcher,
		server:  server,
		content: content,
		logger:  logger.With("service", "live_reload"),
	}
}

// Start starts watching the content file.
func (s *LiveReloadService) Start(ctx context.Context, filePath string) error {
	s.mu.Lock()
	if s.watching {
		s.mu.Unlock()
		return errors.New("already watching")
	}
	s.watching = true
	s.mu.Unlock()

	watchCtx, cancel := context.WithCancel(ctx)
	s.mu.Lock()
	s.watchCancel = cancel
	s.mu.Unlock()

	events, err := s.watcher.Watch(watchCtx, filePath)
	if err != nil {
		s.mu.Lock()
		s.watching = false
		s.watchCancel = nil
		s.mu.Unlock()
		cancel()
		return fmt.Errorf("starting watcher: %w", err)
	}

	go s.handleEvents(watchCtx, events)

	return nil
}

// Stop stops the live reload service.
func (s *LiveReloadService) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.watching {
		return nil
	}

	if s.watchCancel != nil {
		s.watchCancel()
		s.watchCancel = nil
	}

	s.watching = false
	return nil
}

// IsWatching returns whether the service is currently watching.
func (s *LiveReloadService) IsWatching() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.watching
}

// handleEvents processes file change events.
func (s *LiveReloadService) handleEvents(ctx context.Context, events <-chan ports.FileChangeEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			s.handleChange(ctx, event)
		}
	}
}

func (s *LiveReloadService) handleChange(ctx context.Context, event ports.FileChangeEvent) {
	s.logger.Debug("content file changed", "path", event.Path, "type", event.Type.String())

	if event.Type == ports.Deleted {
		// Keep serving the last good page; tell clients what happened.
		s.notify(ports.UpdateEvent{
			Type:      ports.EventTypeError,
			Timestamp: time.Now(),
			Data:      map[string]string{"message": "content file deleted, serving last good version"},
		})
		return
	}

	if err := s.content.Reload(ctx); err != nil {
		s.notify(ports.UpdateEvent{
			Type:      ports.EventTypeError,
			Timestamp: time.Now(),
			Data:      map[string]string{"message": fmt.Sprintf("content reload failed: %v", err)},
		})
		return
	}

	s.notify(ports.UpdateEvent{
		Type:      ports.EventTypeReload,
		Timestamp: time.Now(),
		Data:      map[string]string{"message": "content updated"},
	})
}

func (s *LiveReloadService) notify(event ports.UpdateEvent) {
	if err := s.server.NotifyClients(event); err != nil {
		s.logger.Warn("notifying clients failed", "error", err)
	}
}
