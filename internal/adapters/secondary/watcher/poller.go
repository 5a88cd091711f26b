package watcher

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fitpulse/showcase/internal/domain/ports"
)

// PollingWatcher watches a single file for changes by polling. A cheap
// size+mtime pre-check gates the sha256 comparison so unchanged files
// cost one stat per tick.
type PollingWatcher struct {
	interval time.Duration
	debounce time.Duration

	mu          sync.Mutex
	fingerprint *fingerprint // nil when the file is absent
	events      chan ports.FileChangeEvent
	stopOnce    sync.Once
	stopCh      chan struct{}
	wg          sync.WaitGroup
}

type fingerprint struct {
	size     int64
	modTime  time.Time
	checksum string
}

// NewPollingWatcher creates a polling watcher with the given cadence.
func NewPollingWatcher(interval, debounce time.Duration) *PollingWatcher {
	return &PollingWatcher{
		interval: interval,
		debounce: debounce,
		events:   make(chan ports.FileChangeEvent, 10),
		stopCh:   make(chan struct{}),
	}
}

// Watch starts watching a file for changes.
func (w *PollingWatcher) Watch(ctx context.Context, path string) (<-chan ports.FileChangeEvent, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	fp, err := w.snapshot(absPath)
	if err != nil {
		return nil, fmt.Errorf("initial scan: %w", err)
	}
	w.mu.Lock()
	w.fingerprint = fp
	w.mu.Unlock()

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.pollLoop(ctx, absPath)
	}()

	return w.events, nil
}

// Stop stops the watcher and closes the event channel.
func (w *PollingWatcher) Stop() error {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		w.wg.Wait()
		close(w.events)
	})
	return nil
}

func (w *PollingWatcher) pollLoop(ctx context.Context, path string) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	var lastEvent time.Time

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case <-ticker.C:
			change, ok := w.detectChange(path)
			if !ok {
				continue
			}
			if time.Since(lastEvent) < w.debounce {
				continue
			}

			select {
			case w.events <- change:
				lastEvent = time.Now()
			case <-ctx.Done():
				return
			case <-w.stopCh:
				return
			}
		}
	}
}

// detectChange compares the current file state against the stored
// fingerprint and reports an event when it differs.
func (w *PollingWatcher) detectChange(path string) (ports.FileChangeEvent, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) && w.fingerprint != nil {
			w.fingerprint = nil
			return w.event(path, ports.Deleted), true
		}
		if !os.IsNotExist(err) {
			log.Printf("[WARN] [watcher] stat %s: %v", path, err)
		}
		return ports.FileChangeEvent{}, false
	}

	prev := w.fingerprint
	if prev != nil && prev.size == info.Size() && prev.modTime.Equal(info.ModTime()) {
		return ports.FileChangeEvent{}, false
	}

	fp, err := w.snapshot(path)
	if err != nil {
		log.Printf("[WARN] [watcher] checksum %s: %v", path, err)
		return ports.FileChangeEvent{}, false
	}

	switch {
	case prev == nil:
		w.fingerprint = fp
		return w.event(path, ports.Created), true
	case prev.checksum != fp.checksum:
		w.fingerprint = fp
		return w.event(path, ports.Modified), true
	default:
		// Touched but content unchanged; remember the new mtime.
		w.fingerprint = fp
		return ports.FileChangeEvent{}, false
	}
}

func (w *PollingWatcher) event(path string, t ports.ChangeType) ports.FileChangeEvent {
	return ports.FileChangeEvent{Path: path, Type: t, Timestamp: time.Now()}
}

// snapshot captures the current fingerprint of the file.
func (w *PollingWatcher) snapshot(path string) (*fingerprint, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path) // #nosec G304 - path is validated by caller
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, file); err != nil {
		return nil, err
	}

	return &fingerprint{
		size:     info.Size(),
		modTime:  info.ModTime(),
		checksum: hex.EncodeToString(hasher.Sum(nil)),
	}, nil
}

// Ensure PollingWatcher implements FileWatcher
var _ ports.FileWatcher = (*PollingWatcher)(nil)
