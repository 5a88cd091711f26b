package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/fitpulse/showcase/internal/domain/entities"
)

type MockContentLoader struct {
	mock.Mock
}

func (m *MockContentLoader) Load(ctx context.Context, path string) (*entities.Page, error) {
	args := m.Called(ctx, path)
	if p := args.Get(0); p != nil {
		return p.(*entities.Page), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestContentService_New(t *testing.T) {
	t.Run("loads initial page", func(t *testing.T) {
		loader := new(MockContentLoader)
		page := &entities.Page{Hero: entities.Hero{Title: "Stride"}}
		loader.On("Load", mock.Anything, "content.yaml").Return(page, nil)

		svc, err := NewContentService(context.Background(), loader, "content.yaml", nil)
		require.NoError(t, err)

		assert.Equal(t, page, svc.Current())
		assert.Equal(t, "content.yaml", svc.Path())
	})

	t.Run("initial load failure is fatal", func(t *testing.T) {
		loader := new(MockContentLoader)
		loader.On("Load", mock.Anything, mock.Anything).Return(nil, errors.New("no such file"))

		_, err := NewContentService(context.Background(), loader, "missing.yaml", nil)
		require.Error(t, err)
	})
}

func TestContentService_Reload(t *testing.T) {
	t.Run("swaps the page", func(t *testing.T) {
		loader := new(MockContentLoader)
		first := &entities.Page{Hero: entities.Hero{Title: "v1"}}
		second := &entities.Page{Hero: entities.Hero{Title: "v2"}}
		loader.On("Load", mock.Anything, "content.yaml").Return(first, nil).Once()
		loader.On("Load", mock.Anything, "content.yaml").Return(second, nil).Once()

		svc, err := NewContentService(context.Background(), loader, "content.yaml", nil)
		require.NoError(t, err)

		require.NoError(t, svc.Reload(context.Background()))
		assert.Equal(t, "v2", svc.Current().Hero.Title)
	})

	t.Run("failure keeps the previous page", func(t *testing.T) {
		loader := new(MockContentLoader)
		first := &entities.Page{Hero: entities.Hero{Title: "v1"}}
		loader.On("Load", mock.Anything, "content.yaml").Return(first, nil).Once()
		loader.On("Load", mock.Anything, "content.yaml").Return(nil, errors.New("yaml: bad indentation")).Once()

		svc, err := NewContentService(context.Background(), loader, "content.yaml", nil)
		require.NoError(t, err)

		require.Error(t, svc.Reload(context.Background()))
		assert.Equal(t, "v1", svc.Current().Hero.Title)
	})
}
