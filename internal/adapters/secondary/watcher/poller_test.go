package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitpulse/showcase/internal/domain/ports"
)

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func waitForEvent(t *testing.T, events <-chan ports.FileChangeEvent, timeout time.Duration) (ports.FileChangeEvent, bool) {
	t.Helper()
	select {
	case ev := <-events:
		return ev, true
	case <-time.After(timeout):
		return ports.FileChangeEvent{}, false
	}
}

func TestPollingWatcher_DetectsModification(t *testing.T) {
	path := filepath.Join(t.TempDir(), "content.yaml")
	writeFile(t, path, "hero:\n  title: A\n")

	w := NewPollingWatcher(20*time.Millisecond, 10*time.Millisecond)
	defer func() { _ = w.Stop() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := w.Watch(ctx, path)
	require.NoError(t, err)

	// Sleep past mtime granularity, then change content.
	time.Sleep(50 * time.Millisecond)
	writeFile(t, path, "hero:\n  title: B\n")

	ev, ok := waitForEvent(t, events, 2*time.Second)
	require.True(t, ok, "expected a change event")
	assert.Equal(t, ports.Modified, ev.Type)
}

func TestPollingWatcher_DetectsDeletion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "content.yaml")
	writeFile(t, path, "hero:\n  title: A\n")

	w := NewPollingWatcher(20*time.Millisecond, 10*time.Millisecond)
	defer func() { _ = w.Stop() }()

	events, err := w.Watch(context.Background(), path)
	require.NoError(t, err)

	require.NoError(t, os.Remove(path))

	ev, ok := waitForEvent(t, events, 2*time.Second)
	require.True(t, ok)
	assert.Equal(t, ports.Deleted, ev.Type)
}

func TestPollingWatcher_NoEventWithoutChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "content.yaml")
	writeFile(t, path, "hero:\n  title: A\n")

	w := NewPollingWatcher(20*time.Millisecond, 10*time.Millisecond)
	defer func() { _ = w.Stop() }()

	events, err := w.Watch(context.Background(), path)
	require.NoError(t, err)

	_, ok := waitForEvent(t, events, 200*time.Millisecond)
	assert.False(t, ok, "unchanged file must not emit events")
}

func TestPollingWatcher_WatchMissingFile(t *testing.T) {
	w := NewPollingWatcher(20*time.Millisecond, 10*time.Millisecond)

	_, err := w.Watch(context.Background(), filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestPollingWatcher_StopIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "content.yaml")
	writeFile(t, path, "x")

	w := NewPollingWatcher(20*time.Millisecond, 10*time.Millisecond)
	_, err := w.Watch(context.Background(), path)
	require.NoError(t, err)

	assert.NoError(t, w.Stop())
	assert.NoError(t, w.Stop())
}
