// Package pipeline provides the complete layout pipeline for regionmap.
//
// This package implements the parse → layout → color → render pipeline used
// by the CLI and the API server, so both entry points behave the same way.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Parse: Read a diagram from JSON, TOML or the text DSL
//  2. Layout: Merge duplicates, build the overlap graph, resolve margins,
//     gaps, row heights and pixel placement
//  3. Color: Assign palette colors with the configured strategy
//  4. Render: Generate outputs (SVG, PNG, PDF, JSON, DOT, graph SVG)
//
// Layout and color results are cached together as one [document.Document].
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Source:      data,
//	    Format:      "dsl",
//	    ShowHeaders: true,
//	    Formats:     []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"slices"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/regionmap/pkg/cache"
	"github.com/matzehuels/regionmap/pkg/color"
	"github.com/matzehuels/regionmap/pkg/diagram"
	"github.com/matzehuels/regionmap/pkg/document"
	"github.com/matzehuels/regionmap/pkg/errors"
	"github.com/matzehuels/regionmap/pkg/layout"
	"github.com/matzehuels/regionmap/pkg/source"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultScale is the PNG scale factor.
	DefaultScale = 2.0

	// DefaultFillOpacity is the SVG region fill opacity.
	DefaultFillOpacity = 0.35
)

// Format constants for output formats.
const (
	FormatSVG      = "svg"
	FormatPNG      = "png"
	FormatPDF      = "pdf"
	FormatJSON     = "json"
	FormatDOT      = "dot"
	FormatGraphSVG = "graph"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:      true,
	FormatPNG:      true,
	FormatPDF:      true,
	FormatJSON:     true,
	FormatDOT:      true,
	FormatGraphSVG: true,
}

// ContentTypes maps output formats to MIME types.
var ContentTypes = map[string]string{
	FormatSVG:      "image/svg+xml",
	FormatPNG:      "image/png",
	FormatPDF:      "application/pdf",
	FormatJSON:     "application/json",
	FormatDOT:      "text/vnd.graphviz",
	FormatGraphSVG: "image/svg+xml",
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the layout pipeline.
// It decodes from JSON (API requests) and TOML (config files).
type Options struct {
	// Parse options
	Input  *diagram.Input `json:"input,omitempty" toml:"-"`
	Source []byte         `json:"-" toml:"-"`
	Format string         `json:"format,omitempty" toml:"format"`

	// Layout options
	ShowHeaders bool           `json:"show_headers,omitempty" toml:"show_headers"`
	SkipMerge   bool           `json:"skip_merge,omitempty" toml:"skip_merge"`
	MaxPasses   int            `json:"max_passes,omitempty" toml:"max_passes"`
	Metrics     layout.Metrics `json:"metrics" toml:"metrics"`

	// Color options
	Strategy    string   `json:"strategy,omitempty" toml:"strategy"`
	PaletteName string   `json:"palette_name,omitempty" toml:"palette_name"`
	Palette     []string `json:"palette,omitempty" toml:"palette"`

	// Render options
	Formats     []string `json:"formats,omitempty" toml:"formats"`
	Scale       float64  `json:"scale,omitempty" toml:"scale"`
	Background  string   `json:"background,omitempty" toml:"background"`
	GridLines   bool     `json:"grid_lines,omitempty" toml:"grid_lines"`
	FillOpacity float64  `json:"fill_opacity,omitempty" toml:"fill_opacity"`

	// Refresh bypasses cached results.
	Refresh bool `json:"refresh,omitempty" toml:"refresh"`

	// Runtime options (not serialized)
	Logger   *log.Logger        `json:"-" toml:"-"`
	Observer func(layout.Raise) `json:"-" toml:"-"`

	// palette is the resolved palette, set by ValidateAndSetDefaults.
	palette color.Palette
	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// ID identifies this run.
	ID uuid.UUID

	// InputHash is the content hash of the parsed input.
	InputHash string

	// Document is the resolved and colored layout.
	Document document.Document

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	RegionCount    int
	StatementCount int
	EdgeCount      int
	Passes         int
	Degraded       int
	ParseTime      time.Duration
	LayoutTime     time.Duration
	RenderTime     time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the document came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: svg, png, pdf, json, dot, graph)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// LoadConfig reads options from a TOML file. Keys that are not options are
// rejected.
func LoadConfig(path string) (Options, error) {
	var opts Options
	md, err := toml.DecodeFile(path, &opts)
	if err != nil {
		return Options{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Options{}, errors.New(errors.ErrCodeInvalidConfig, "config %s: unknown key %q", path, undecoded[0].String())
	}
	return opts, nil
}

// Override copies the set fields of o onto base and returns the result.
// Boolean fields are copied when true.
func (o Options) Override(base Options) Options {
	out := base
	if o.Input != nil {
		out.Input = o.Input
	}
	if o.Source != nil {
		out.Source = o.Source
	}
	if o.Format != "" {
		out.Format = o.Format
	}
	out.ShowHeaders = out.ShowHeaders || o.ShowHeaders
	out.SkipMerge = out.SkipMerge || o.SkipMerge
	if o.MaxPasses != 0 {
		out.MaxPasses = o.MaxPasses
	}
	if o.Metrics != (layout.Metrics{}) {
		out.Metrics = o.Metrics
	}
	if o.Strategy != "" {
		out.Strategy = o.Strategy
	}
	if o.PaletteName != "" {
		out.PaletteName = o.PaletteName
		out.Palette = nil
	}
	if len(o.Palette) > 0 {
		out.Palette = o.Palette
	}
	if len(o.Formats) > 0 {
		out.Formats = o.Formats
	}
	if o.Scale != 0 {
		out.Scale = o.Scale
	}
	if o.Background != "" {
		out.Background = o.Background
	}
	out.GridLines = out.GridLines || o.GridLines
	if o.FillOpacity != 0 {
		out.FillOpacity = o.FillOpacity
	}
	out.Refresh = out.Refresh || o.Refresh
	if o.Logger != nil {
		out.Logger = o.Logger
	}
	if o.Observer != nil {
		out.Observer = o.Observer
	}
	return out
}

// ValidateAndSetDefaults checks all fields and applies defaults for the full
// pipeline. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForParse(); err != nil {
		return err
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForParse checks that an input is present and its format is known.
func (o *Options) ValidateForParse() error {
	if o.Input == nil && o.Source == nil {
		return errors.New(errors.ErrCodeInvalidInput, "input or source is required")
	}
	if o.Input == nil {
		if o.Format == "" {
			o.Format = string(source.FormatJSON)
		}
		if _, err := source.ParseFormat(o.Format); err != nil {
			return err
		}
	}
	o.setLogger()
	return nil
}

// SetLayoutDefaults sets default values for layout and color computation.
func (o *Options) SetLayoutDefaults() {
	o.Metrics.SetDefaults()
	if o.Strategy == "" {
		o.Strategy = color.DefaultStrategy
	}
	o.setLogger()
}

// ValidateForLayout validates and sets defaults for layout and color
// computation, resolving the palette.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if err := o.Metrics.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "metrics")
	}
	if o.MaxPasses < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "max_passes must not be negative, got %d", o.MaxPasses)
	}
	if _, err := color.Lookup(o.Strategy); err != nil {
		return err
	}
	p, err := o.resolvePalette()
	if err != nil {
		return err
	}
	o.palette = p
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.FillOpacity == 0 {
		o.FillOpacity = DefaultFillOpacity
	}
	o.setLogger()
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Scale < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "scale must be positive, got %g", o.Scale)
	}
	if o.FillOpacity < 0 || o.FillOpacity > 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "fill_opacity must be within [0,1], got %g", o.FillOpacity)
	}
	if o.Background != "" {
		return errors.ValidateHexColor(o.Background)
	}
	return nil
}

// ResolvedPalette returns the palette chosen by the options.
func (o *Options) ResolvedPalette() (color.Palette, error) {
	if o.palette != nil {
		return o.palette, nil
	}
	return o.resolvePalette()
}

func (o *Options) resolvePalette() (color.Palette, error) {
	if len(o.Palette) > 0 {
		return color.ParsePalette(o.Palette)
	}
	if o.PaletteName != "" {
		return color.LookupPalette(o.PaletteName)
	}
	return color.DefaultPalette(), nil
}

func (o *Options) setLogger() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	p, _ := o.ResolvedPalette()
	return cache.LayoutKeyOpts{
		Strategy:    o.Strategy,
		Palette:     slices.Clone(p),
		ShowHeaders: o.ShowHeaders,
		Merge:       !o.SkipMerge,
		Metrics: struct {
			Metrics   layout.Metrics
			MaxPasses int
		}{o.Metrics, o.MaxPasses},
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{Format: format}
	switch format {
	case FormatPNG:
		opts.Scale = o.Scale
	case FormatSVG, FormatPDF:
		opts.Background = o.Background
		opts.GridLines = o.GridLines
		opts.FillOpacity = o.FillOpacity
	}
	return opts
}
