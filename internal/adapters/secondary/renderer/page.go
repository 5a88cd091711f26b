package renderer

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/fitpulse/showcase/internal/domain/entities"
	"github.com/fitpulse/showcase/internal/domain/ports"
)

// PageRenderer renders the landing page with Go templates.
type PageRenderer struct {
	templates *template.Template
}

// NewPageRenderer creates a template-based page renderer.
func NewPageRenderer() (*PageRenderer, error) {
	tmpl := template.New("page")

	tmpl = tmpl.Funcs(template.FuncMap{
		"pct": func(v float64) string {
			return fmt.Sprintf("%.0f", v)
		},
	})

	if _, err := tmpl.Parse(defaultPageTemplate); err != nil {
		return nil, fmt.Errorf("parsing page template: %w", err)
	}

	return &PageRenderer{templates: tmpl}, nil
}

// RenderPage renders the complete landing page.
func (r *PageRenderer) RenderPage(ctx context.Context, page *entities.Page) ([]byte, error) {
	if page == nil {
		return nil, fmt.Errorf("page cannot be nil")
	}

	var buf bytes.Buffer
	if err := r.templates.Execute(&buf, page); err != nil {
		return nil, fmt.Errorf("executing page template: %w", err)
	}
	return buf.Bytes(), nil
}

// Ensure PageRenderer implements the port
var _ ports.PageRenderer = (*PageRenderer)(nil)
