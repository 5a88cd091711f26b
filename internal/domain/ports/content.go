package ports

import (
	"context"

	"github.com/fitpulse/showcase/internal/domain/entities"
)

// ContentLoader parses the landing page content file into a page entity
// with rendered, sanitized section bodies.
type ContentLoader interface {
	// Load reads and renders the content file at path.
	Load(ctx context.Context, path string) (*entities.Page, error)
}

// PageRenderer renders the landing page to HTML.
type PageRenderer interface {
	// RenderPage renders the complete landing page.
	RenderPage(ctx context.Context, page *entities.Page) ([]byte, error)
}

// ContentService owns the current page content and its reloading.
type ContentService interface {
	// Current returns the page currently being served.
	Current() *entities.Page

	// Reload re-reads the content file and swaps the current page.
	Reload(ctx context.Context) error
}

// BrowserLauncher opens the served page in a local browser.
type BrowserLauncher interface {
	// Launch opens the URL unless noOpen is set.
	Launch(url string, noOpen bool) error
}
