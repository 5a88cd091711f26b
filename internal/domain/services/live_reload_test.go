package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/fitpulse/showcase/internal/domain/entities"
	"github.com/fitpulse/showcase/internal/domain/ports"
)

// Mock implementations
type MockFileWatcher struct {
	mock.Mock
}

func (m *MockFileWatcher) Watch(ctx context.Context, path string) (<-chan ports.FileChangeEvent, error) {
	args := m.Called(ctx, path)
	if ch := args.Get(0); ch != nil {
		return ch.(<-chan ports.FileChangeEvent), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockFileWatcher) Stop() error {
	args := m.Called()
	return args.Error(0)
}

type MockHTTPServer struct {
	mock.Mock
}

func (m *MockHTTPServer) Start(ctx context.Context, port int, host string) error {
	args := m.Called(ctx, port, host)
	return args.Error(0)
}

func (m *MockHTTPServer) Stop(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockHTTPServer) NotifyClients(event ports.UpdateEvent) error {
	args := m.Called(event)
	return args.Error(0)
}

func (m *MockHTTPServer) IsRunning() bool {
	args := m.Called()
	return args.Bool(0)
}

type MockContentService struct {
	mock.Mock
}

func (m *MockContentService) Current() *entities.Page {
	args := m.Called()
	if p := args.Get(0); p != nil {
		return p.(*entities.Page)
	}
	return nil
}

func (m *MockContentService) Reload(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func TestLiveReloadService_Start(t *testing.T) {
	t.Run("starts watching", func(t *testing.T) {
		watcher := new(MockFileWatcher)
		server := new(MockHTTPServer)
		content := new(MockContentService)

		events := make(chan ports.FileChangeEvent)
		watcher.On("Watch", mock.Anything, "content.yaml").
			Return((<-chan ports.FileChangeEvent)(events), nil)

		svc := NewLiveReloadService(watcher, server, content, nil)

		err := svc.Start(context.Background(), "content.yaml")
		require.NoError(t, err)
		assert.True(t, svc.IsWatching())

		watcher.AssertExpectations(t)
	})

	t.Run("rejects double start", func(t *testing.T) {
		watcher := new(MockFileWatcher)
		server := new(MockHTTPServer)
		content := new(MockContentService)

		events := make(chan ports.FileChangeEvent)
		watcher.On("Watch", mock.Anything, mock.Anything).
			Return((<-chan ports.FileChangeEvent)(events), nil)

		svc := NewLiveReloadService(watcher, server, content, nil)
		require.NoError(t, svc.Start(context.Background(), "content.yaml"))

		err := svc.Start(context.Background(), "content.yaml")
		assert.Error(t, err)
	})

	t.Run("watcher failure resets state", func(t *testing.T) {
		watcher := new(MockFileWatcher)
		server := new(MockHTTPServer)
		content := new(MockContentService)

		watcher.On("Watch", mock.Anything, mock.Anything).
			Return(nil, errors.New("no such file"))

		svc := NewLiveReloadService(watcher, server, content, nil)

		err := svc.Start(context.Background(), "content.yaml")
		require.Error(t, err)
		assert.False(t, svc.IsWatching())
	})
}

func TestLiveReloadService_HandleChange(t *testing.T) {
	t.Run("modification reloads content and notifies reload", func(t *testing.T) {
		watcher := new(MockFileWatcher)
		server := new(MockHTTPServer)
		content := new(MockContentService)

		events := make(chan ports.FileChangeEvent, 1)
		watcher.On("Watch", mock.Anything, mock.Anything).
			Return((<-chan ports.FileChangeEvent)(events), nil)
		content.On("Reload", mock.Anything).Return(nil)

		notified := make(chan ports.UpdateEvent, 1)
		server.On("NotifyClients", mock.Anything).Run(func(args mock.Arguments) {
			notified <- args.Get(0).(ports.UpdateEvent)
		}).Return(nil)

		svc := NewLiveReloadService(watcher, server, content, nil)
		require.NoError(t, svc.Start(context.Background(), "content.yaml"))

		events <- ports.FileChangeEvent{Path: "content.yaml", Type: ports.Modified, Timestamp: time.Now()}

		select {
		case event := <-notified:
			assert.Equal(t, ports.EventTypeReload, event.Type)
		case <-time.After(time.Second):
			t.Fatal("no reload notification")
		}

		content.AssertExpectations(t)
	})

	t.Run("reload failure notifies error and keeps serving", func(t *testing.T) {
		watcher := new(MockFileWatcher)
		server := new(MockHTTPServer)
		content := new(MockContentService)

		events := make(chan ports.FileChangeEvent, 1)
		watcher.On("Watch", mock.Anything, mock.Anything).
			Return((<-chan ports.FileChangeEvent)(events), nil)
		content.On("Reload", mock.Anything).Return(errors.New("yaml: bad indentation"))

		notified := make(chan ports.UpdateEvent, 1)
		server.On("NotifyClients", mock.Anything).Run(func(args mock.Arguments) {
			notified <- args.Get(0).(ports.UpdateEvent)
		}).Return(nil)

		svc := NewLiveReloadService(watcher, server, content, nil)
		require.NoError(t, svc.Start(context.Background(), "content.yaml"))

		events <- ports.FileChangeEvent{Path: "content.yaml", Type: ports.Modified, Timestamp: time.Now()}

		select {
		case event := <-notified:
			assert.Equal(t, ports.EventTypeError, event.Type)
		case <-time.After(time.Second):
			t.Fatal("no error notification")
		}
	})

	t.Run("deletion notifies error without reloading", func(t *testing.T) {
		watcher := new(MockFileWatcher)
		server := new(MockHTTPServer)
		content := new(MockContentService)

		events := make(chan ports.FileChangeEvent, 1)
		watcher.On("Watch", mock.Anything, mock.Anything).
			Return((<-chan ports.FileChangeEvent)(events), nil)

		notified := make(chan ports.UpdateEvent, 1)
		server.On("NotifyClients", mock.Anything).Run(func(args mock.Arguments) {
			notified <- args.Get(0).(ports.UpdateEvent)
		}).Return(nil)

		svc := NewLiveReloadService(watcher, server, content, nil)
		require.NoError(t, svc.Start(context.Background(), "content.yaml"))

		events <- ports.FileChangeEvent{Path: "content.yaml", Type: ports.Deleted, Timestamp: time.Now()}

		select {
		case event := <-notified:
			assert.Equal(t, ports.EventTypeError, event.Type)
		case <-time.After(time.Second):
			t.Fatal("no deletion notification")
		}

		content.AssertNotCalled(t, "Reload", mock.Anything)
	})
}

func TestLiveReloadService_Stop(t *testing.T) {
	watcher := new(MockFileWatcher)
	server := new(MockHTTPServer)
	content := new(MockContentService)

	events := make(chan ports.FileChangeEvent)
	watcher.On("Watch", mock.Anything, mock.Anything).
		Return((<-chan ports.FileChangeEvent)(events), nil)

	svc := NewLiveReloadService(watcher, server, content, nil)
	require.NoError(t, svc.Start(context.Background(), "content.yaml"))

	require.NoError(t, svc.Stop())
	assert.False(t, svc.IsWatching())

	// Stop is idempotent.
	assert.NoError(t, svc.Stop())
}
