// Package pipeline turns a roadmap into a rendered diagram.
//
// This package implements the layout → render pipeline shared by the CLI, the
// TUI and the HTTP API. By centralizing it, every surface draws the same
// picture for the same roadmap and expanded set, and shares one cache.
//
// # Architecture
//
// The pipeline consists of two stages:
//
//  1. Layout: position the visible nodes and compute edge curves
//  2. Render: draw the layout as SVG, JSON, DOT, Graphviz SVG, PDF, or PNG
//
// Both stages are cached. Keys are derived from the roadmap content hash, the
// canonical expanded set, and the options, so editing a roadmap or toggling a
// node never serves a stale diagram.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, logger)
//	res, err := runner.Execute(ctx, rm, pipeline.Options{
//	    Expanded: layout.NewExpanded("j1", "j1.1"),
//	    Format:   render.FormatSVG,
//	})
//	if err != nil {
//	    return err
//	}
//	os.WriteFile("roadmap.svg", res.Artifact, 0o644)
package pipeline

import (
	"net/url"
	"strings"
	"time"

	"github.com/matzehuels/waymark/pkg/layout"
	"github.com/matzehuels/waymark/pkg/render"
	"github.com/matzehuels/waymark/pkg/render/svg"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultFormat is the default output format.
	DefaultFormat = render.FormatSVG

	// DefaultTheme is the default SVG palette.
	DefaultTheme = ThemeDark

	// DefaultScale is the PNG scale factor.
	DefaultScale = 2.0
)

// Theme names.
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// ExpandPlaceholder is replaced in Options.LinkTemplate by the query-escaped
// expanded set obtained by toggling the linked node.
const ExpandPlaceholder = "{expand}"

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one diagram.
type Options struct {
	// Layout options
	Expanded layout.Expanded `json:"-"`
	Layout   layout.Options  `json:"layout"`

	// Render options
	Format   string  `json:"format"`
	Theme    string  `json:"theme,omitempty"`
	Detailed bool    `json:"detailed,omitempty"` // descriptions in DOT labels
	Scale    float64 `json:"scale,omitempty"`    // PNG only

	// LinkTemplate, when set, makes expandable SVG nodes links. Every
	// ExpandPlaceholder is replaced by the toggled expanded set.
	LinkTemplate string `json:"link_template,omitempty"`

	// Refresh bypasses cache reads; results are still written.
	Refresh bool `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// ContentHash identifies the roadmap content that was drawn.
	ContentHash string

	// Layout is the computed layout.
	Layout layout.Result

	// Artifact is the rendered output in Options.Format.
	Artifact []byte

	// ContentType is the MIME type of Artifact.
	ContentType string

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the layout came from cache
	RenderHit bool // Whether the artifact came from cache
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks the options and applies defaults.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Format == "" {
		o.Format = DefaultFormat
	}
	if o.Theme == "" {
		o.Theme = DefaultTheme
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	o.Layout.SetDefaults()

	if err := render.ValidateFormat(o.Format); err != nil {
		return err
	}
	if err := ValidateTheme(o.Theme); err != nil {
		return err
	}
	if err := o.Layout.Validate(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SVGOptions returns the svg renderer options for a roadmap titled title.
func (o *Options) SVGOptions(title string) []svg.Option {
	opts := []svg.Option{svg.WithTitle(title), svg.WithTheme(themes[o.Theme])}
	if o.LinkTemplate != "" {
		exp, tmpl := o.Expanded, o.LinkTemplate
		opts = append(opts, svg.WithNodeLink(func(n layout.Placed) string {
			return strings.ReplaceAll(tmpl, ExpandPlaceholder, url.QueryEscape(exp.Toggle(n.ID).String()))
		}))
	}
	return opts
}

var themes = map[string]svg.Theme{
	ThemeDark:  svg.DarkTheme,
	ThemeLight: svg.LightTheme,
}
