package entities

import (
	"errors"
	"fmt"
	"html/template"
	"math"
	"strings"
)

// VisualizationKind identifies one of the page's interactive 3D scenes.
type VisualizationKind string

const (
	// VisualizationGraph is the animated weekly-activity bar graph.
	VisualizationGraph VisualizationKind = "graph"
	// VisualizationGoalpost is the goal-tracking goalpost scene.
	VisualizationGoalpost VisualizationKind = "goalpost"
	// VisualizationTrophy is the achievement trophy scene.
	VisualizationTrophy VisualizationKind = "trophy"
)

// KnownVisualizationKinds lists every kind the page can mount, in display order.
var KnownVisualizationKinds = []VisualizationKind{
	VisualizationGraph,
	VisualizationGoalpost,
	VisualizationTrophy,
}

// Valid reports whether the kind is one of the known scenes.
func (k VisualizationKind) Valid() bool {
	switch k {
	case VisualizationGraph, VisualizationGoalpost, VisualizationTrophy:
		return true
	default:
		return false
	}
}

// Hero is the top section of the landing page.
type Hero struct {
	Title    string        `yaml:"title"`
	Tagline  string        `yaml:"tagline"`
	Body     string        `yaml:"body"` // markdown source
	BodyHTML template.HTML `yaml:"-"`    // rendered and sanitized
	CTALabel string        `yaml:"cta_label"`
	CTALink  string        `yaml:"cta_link"`
}

// Feature is a single entry of the feature section.
type Feature struct {
	Icon     string        `yaml:"icon"`
	Title    string        `yaml:"title"`
	Body     string        `yaml:"body"` // markdown source
	BodyHTML template.HTML `yaml:"-"`    // rendered and sanitized
}

// Visualization describes one 3D scene mount: which model it renders and
// the progress value driving its animation.
type Visualization struct {
	Kind    VisualizationKind `yaml:"kind"`
	Title   string            `yaml:"title"`
	Caption string            `yaml:"caption"`

	// Model is the logical asset name served from /api/models/{name}.
	// Defaults to the kind when empty.
	Model string `yaml:"model"`

	// Progress drives the scene animation (bar heights, goal fill,
	// trophy shine). Percent, clamped to [0, 100].
	Progress float64 `yaml:"progress"`
}

// ModelName returns the logical asset name for the scene.
func (v Visualization) ModelName() string {
	if v.Model != "" {
		return v.Model
	}
	return string(v.Kind)
}

// ClampProgress normalizes the progress value to [0, 100]. Non-finite
// values default to 0. Returns the original value and whether an
// adjustment was made so callers can log the correction.
func (v *Visualization) ClampProgress() (original float64, adjusted bool) {
	original = v.Progress
	switch {
	case math.IsNaN(original) || math.IsInf(original, 0):
		v.Progress = 0
	case original < 0:
		v.Progress = 0
	case original > 100:
		v.Progress = 100
	default:
		return original, false
	}
	return original, true
}

// Page is the complete landing page content.
type Page struct {
	Hero           Hero            `yaml:"hero"`
	Features       []Feature       `yaml:"features"`
	Visualizations []Visualization `yaml:"visualizations"`
}

// Validate checks structural requirements of the page content.
func (p *Page) Validate() error {
	if strings.TrimSpace(p.Hero.Title) == "" {
		return errors.New("hero title is required")
	}

	for i, f := range p.Features {
		if strings.TrimSpace(f.Title) == "" {
			return fmt.Errorf("feature %d: title is required", i)
		}
	}

	for i, v := range p.Visualizations {
		if !v.Kind.Valid() {
			return fmt.Errorf("visualization %d: unknown kind %q", i, v.Kind)
		}
	}

	return nil
}
