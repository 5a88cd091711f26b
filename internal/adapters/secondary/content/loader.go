package content

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log"
	"os"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/fitpulse/showcase/internal/domain/entities"
	"github.com/fitpulse/showcase/internal/domain/ports"
)

// YAMLLoader reads the landing page content file, renders the markdown
// section bodies and sanitizes the resulting HTML.
type YAMLLoader struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
	titler cases.Caser
}

// NewYAMLLoader creates a content loader.
func NewYAMLLoader() *YAMLLoader {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Typographer,
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
	)

	return &YAMLLoader{
		md:     md,
		policy: bluemonday.UGCPolicy(),
		titler: cases.Title(language.English),
	}
}

// Load reads and renders the content file at path.
func (l *YAMLLoader) Load(ctx context.Context, path string) (*entities.Page, error) {
	data, err := os.ReadFile(path) // #nosec G304 - path comes from validated config
	if err != nil {
		return nil, fmt.Errorf("reading content file %s: %w", path, err)
	}

	var page entities.Page
	if err := yaml.Unmarshal(data, &page); err != nil {
		return nil, fmt.Errorf("parsing YAML from %s: %w", path, err)
	}

	if err := page.Validate(); err != nil {
		return nil, fmt.Errorf("invalid content in %s: %w", path, err)
	}

	if err := l.renderSections(&page); err != nil {
		return nil, err
	}
	l.normalizeVisualizations(&page)

	return &page, nil
}

// renderSections converts the markdown bodies to sanitized HTML.
func (l *YAMLLoader) renderSections(page *entities.Page) error {
	html, err := l.renderMarkdown(page.Hero.Body)
	if err != nil {
		return fmt.Errorf("rendering hero body: %w", err)
	}
	page.Hero.BodyHTML = html

	for i := range page.Features {
		html, err := l.renderMarkdown(page.Features[i].Body)
		if err != nil {
			return fmt.Errorf("rendering feature %d: %w", i, err)
		}
		page.Features[i].BodyHTML = html
	}

	return nil
}

// normalizeVisualizations clamps out-of-range progress values and fills
// empty titles with a title-cased kind name. Corrections are logged,
// never surfaced to the page.
func (l *YAMLLoader) normalizeVisualizations(page *entities.Page) {
	for i := range page.Visualizations {
		v := &page.Visualizations[i]
		if original, adjusted := v.ClampProgress(); adjusted {
			log.Printf("[DEBUG] [content] visualization %q: progress %v clamped to %v", v.Kind, original, v.Progress)
		}
		if strings.TrimSpace(v.Title) == "" {
			v.Title = l.titler.String(string(v.Kind))
		}
	}
}

func (l *YAMLLoader) renderMarkdown(source string) (template.HTML, error) {
	if strings.TrimSpace(source) == "" {
		return "", nil
	}

	var buf bytes.Buffer
	if err := l.md.Convert([]byte(source), &buf); err != nil {
		return "", err
	}

	sanitized := l.policy.SanitizeBytes(buf.Bytes())
	return template.HTML(sanitized), nil // #nosec G203 - sanitized by bluemonday
}

// Ensure YAMLLoader implements ContentLoader
var _ ports.ContentLoader = (*YAMLLoader)(nil)
