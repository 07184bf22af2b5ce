// Package pipeline provides the parse → layout → render pipeline shared by
// the CLI and the HTTP service.
//
// By centralizing this logic, both entry points apply the same defaults,
// validation and caching.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Parse: decode and validate a JSON or TOML diagram
//  2. Layout: compute node boxes and edge routes with [graph.Compute]
//  3. Render: write the layout in one or more output formats
//
// Each stage can be run independently or as part of the complete pipeline,
// and each stage result is cached under a content-derived key.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, source, pipeline.Options{
//	    InputFormat: "json",
//	    Formats:     []string{"svg", "png"},
//	})
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	d, err := runner.Parse(ctx, source, opts)
//	l, err := runner.ComputeLayout(ctx, d, opts)
//	artifacts, err := runner.Render(ctx, l, opts)
//
// [graph.Compute]: github.com/matzehuels/erdlayout/pkg/graph.Compute
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/erdlayout/pkg/cache"
	"github.com/matzehuels/erdlayout/pkg/errors"
	"github.com/matzehuels/erdlayout/pkg/graph"
	"github.com/matzehuels/erdlayout/pkg/layout"
	"github.com/matzehuels/erdlayout/pkg/render"
	"github.com/matzehuels/erdlayout/pkg/render/styles"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultInputFormat is assumed when no input format is given.
	DefaultInputFormat = graph.FormatJSON

	// DefaultScale is the PNG scale factor.
	DefaultScale = 2.0

	// MaxScale bounds the PNG scale factor.
	MaxScale = 8.0
)

// DefaultStyle is the default visual style.
const DefaultStyle = styles.DefaultName

// DefaultFormats are rendered when no format is requested.
var DefaultFormats = []string{render.FormatSVG}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Parse options
	InputFormat string `json:"input_format,omitempty"`
	Source      string `json:"source,omitempty"` // Name used in logs and hooks

	// Layout options
	HorizontalGap      float64        `json:"horizontal_gap,omitempty"`
	VerticalGap        float64        `json:"vertical_gap,omitempty"`
	OrderingIterations int            `json:"ordering_iterations,omitempty"`
	Insets             *layout.Insets `json:"insets,omitempty"`

	// Render options
	Formats     []string `json:"formats,omitempty"`
	Style       string   `json:"style,omitempty"`
	Scale       float64  `json:"scale,omitempty"`
	Detailed    bool     `json:"detailed,omitempty"`
	EdgeLabels  bool     `json:"edge_labels,omitempty"`
	Interactive bool     `json:"interactive,omitempty"`

	// Refresh bypasses cached results and overwrites them.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Diagram is the parsed input.
	Diagram graph.Diagram

	// DiagramHash is the content hash of the canonical diagram.
	DiagramHash string

	// Layout is the computed placement.
	Layout graph.Layout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	ParseTime  time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	ParseHit  bool // Whether the diagram came from cache
	LayoutHit bool // Whether the layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormats checks that all formats are valid output formats.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := render.ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateStyle checks that a style is valid.
func ValidateStyle(style string) error {
	if _, ok := styles.ByName(style); !ok {
		return errors.New(errors.ErrCodeInvalidInput, "invalid style %q (must be one of: %v)", style, styles.Names())
	}
	return nil
}

// ValidateInputFormat checks that a diagram format is valid.
func ValidateInputFormat(format string) error {
	return errors.ValidateFormat(format, []string{graph.FormatJSON, graph.FormatTOML})
}

// =============================================================================
// Options Methods
// =============================================================================

// SetParseDefaults sets default values for parsing.
func (o *Options) SetParseDefaults() {
	if o.InputFormat == "" {
		o.InputFormat = DefaultInputFormat
	}
	if o.Source == "" {
		o.Source = "<input>"
	}
	o.setLogger()
}

// ValidateForParse validates and sets defaults for parsing.
func (o *Options) ValidateForParse() error {
	o.SetParseDefaults()
	return ValidateInputFormat(o.InputFormat)
}

// SetLayoutDefaults sets default values for layout computation. Gaps and
// iterations are left to [layout.Config.WithDefaults].
func (o *Options) SetLayoutDefaults() {
	if o.Insets == nil {
		insets := graph.DefaultInsets
		o.Insets = &insets
	}
	o.setLogger()
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if o.HorizontalGap < 0 || o.VerticalGap < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "gaps cannot be negative")
	}
	if o.OrderingIterations < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "ordering_iterations cannot be negative")
	}
	in := *o.Insets
	if in.Top < 0 || in.Bottom < 0 || in.Left < 0 || in.Right < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "insets cannot be negative")
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = append([]string(nil), DefaultFormats...)
	}
	if o.Style == "" {
		o.Style = DefaultStyle
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	o.setLogger()
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Scale < 0 || o.Scale > MaxScale {
		return errors.New(errors.ErrCodeInvalidConfig, "scale must be between 0 and %.0f", MaxScale)
	}
	return ValidateStyle(o.Style)
}

// ValidateAndSetDefaults checks and defaults the options of every stage.
// It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if err := o.ValidateForParse(); err != nil {
		return err
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	return o.ValidateForRender()
}

func (o *Options) setLogger() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// BuildOptions converts the layout options for [graph.NewModel].
func (o *Options) BuildOptions() graph.BuildOptions {
	o.SetLayoutDefaults()
	return graph.BuildOptions{
		Layout: layout.Config{
			HorizontalGap:      o.HorizontalGap,
			VerticalGap:        o.VerticalGap,
			OrderingIterations: o.OrderingIterations,
		}.WithDefaults(),
		Insets: *o.Insets,
		Logger: o.Logger,
	}
}

// RenderOptions converts the render options for [render.Render].
func (o *Options) RenderOptions() render.Options {
	return render.Options{
		Style:       o.Style,
		Scale:       o.Scale,
		Detailed:    o.Detailed,
		EdgeLabels:  o.EdgeLabels,
		Interactive: o.Interactive,
	}
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	b := o.BuildOptions()
	return cache.LayoutKeyOpts{
		HorizontalGap:      b.Layout.HorizontalGap,
		VerticalGap:        b.Layout.VerticalGap,
		OrderingIterations: b.Layout.OrderingIterations,
		Insets:             [4]float64{b.Insets.Top, b.Insets.Bottom, b.Insets.Left, b.Insets.Right},
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format, Theme: o.Style}
	switch format {
	case render.FormatPNG:
		k.Scale, k.Detailed = o.Scale, o.Detailed
	case render.FormatDOT:
		k.Detailed = o.Detailed
	case render.FormatSVG:
		k.EdgeLabels, k.Interactive = o.EdgeLabels, o.Interactive
	}
	return k
}
