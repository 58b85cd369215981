package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/regionmap/pkg/cache"
	"github.com/matzehuels/regionmap/pkg/diagram"
	"github.com/matzehuels/regionmap/pkg/document"
	"github.com/matzehuels/regionmap/pkg/observability"
	"github.com/matzehuels/regionmap/pkg/source"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it so caching behaves the same everywhere.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete parse → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{
		ID:        uuid.New(),
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Parse
	parseStart := time.Now()
	in, err := r.Parse(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	result.Stats.ParseTime = time.Since(parseStart)
	result.InputHash = HashInput(in)

	r.Logger.Info("parsed diagram",
		"regions", len(in.Regions),
		"statements", len(in.Statements),
		"duration", result.Stats.ParseTime)

	// Stage 2: Layout and color
	layoutStart := time.Now()
	doc, layoutHit, err := r.LayoutWithCacheInfo(ctx, in, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Document = doc
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.RegionCount = len(doc.Regions)
	result.Stats.StatementCount = len(doc.Statements)
	result.Stats.EdgeCount = len(doc.Edges)
	result.Stats.Passes = doc.Diagnostics.Passes
	result.Stats.Degraded = doc.Diagnostics.Degraded
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"regions", len(doc.Regions),
		"passes", doc.Diagnostics.Passes,
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)
	if !doc.Diagnostics.Converged {
		r.Logger.Warn("margins did not converge", "passes", doc.Diagnostics.Passes)
	}
	if doc.Diagnostics.Degraded > 0 {
		r.Logger.Warn("palette too small, some regions use the fallback color",
			"degraded", doc.Diagnostics.Degraded)
	}

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, doc, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Parse returns the diagram input of opts, reading Source when no decoded
// Input is given.
func (r *Runner) Parse(ctx context.Context, opts Options) (diagram.Input, error) {
	if err := opts.ValidateForParse(); err != nil {
		return diagram.Input{}, err
	}
	hooks := observability.Pipeline()
	hooks.OnParseStart(ctx, opts.Format)
	start := time.Now()

	var in diagram.Input
	var err error
	if opts.Input != nil {
		in = *opts.Input
	} else {
		in, err = source.ReadBytes(opts.Source, source.Format(opts.Format))
	}
	hooks.OnParseComplete(ctx, len(in.Regions), len(in.Statements), time.Since(start), err)
	return in, err
}

// LayoutWithCacheInfo builds the colored layout document with caching and
// returns cache hit info.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, in diagram.Input, opts Options) (document.Document, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return document.Document{}, false, err
	}

	cacheKey := r.Keyer.LayoutKey(HashInput(in), opts.LayoutKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			doc, err := document.Unmarshal(data)
			if err == nil {
				observability.Cache().OnCacheHit(ctx, cache.PrefixLayout)
				return doc, true, nil // Cache hit
			}
			// If deserialization fails, fall through to recompute
		} else if err != nil {
			r.Logger.Debug("cache read failed", "key", cacheKey, "error", err)
		}
		observability.Cache().OnCacheMiss(ctx, cache.PrefixLayout)
	}

	doc, err := BuildDocument(ctx, in, opts)
	if err != nil {
		return document.Document{}, false, err
	}

	if data, err := document.Marshal(doc); err == nil {
		r.store(ctx, cacheKey, cache.PrefixLayout, data, cache.TTLLayout)
	}
	return doc, false, nil // Cache miss
}

// Layout is a convenience wrapper that calls LayoutWithCacheInfo and
// discards the cache hit info.
func (r *Runner) Layout(ctx context.Context, in diagram.Input, opts Options) (document.Document, error) {
	doc, _, err := r.LayoutWithCacheInfo(ctx, in, opts)
	return doc, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, doc document.Document, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	// The document ID differs between runs of the same layout.
	keyDoc := doc
	keyDoc.ID = ""
	docHash, err := cache.HashJSON(keyDoc)
	if err != nil {
		return nil, false, fmt.Errorf("document cache key: %w", err)
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string
	for _, format := range opts.Formats {
		if !opts.Refresh && format != FormatJSON {
			key := r.Keyer.ArtifactKey(docHash, opts.ArtifactKeyOpts(format))
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				observability.Cache().OnCacheHit(ctx, cache.PrefixArtifact)
				artifacts[format] = data
				continue
			}
			observability.Cache().OnCacheMiss(ctx, cache.PrefixArtifact)
		}
		missing = append(missing, format)
	}
	if len(missing) == 0 {
		return artifacts, true, nil // All artifacts from cache
	}

	renderOpts := opts
	renderOpts.Formats = missing
	rendered, err := Render(ctx, doc, renderOpts)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		artifacts[format] = data
		// JSON carries the run ID and is cheap to produce.
		if format == FormatJSON {
			continue
		}
		key := r.Keyer.ArtifactKey(docHash, opts.ArtifactKeyOpts(format))
		r.store(ctx, key, cache.PrefixArtifact, data, cache.TTLArtifact)
	}
	return artifacts, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and
// discards the cache hit info.
func (r *Runner) Render(ctx context.Context, doc document.Document, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, doc, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// store writes a cache entry, retrying transient backend failures. Cache
// failures never fail the pipeline.
func (r *Runner) store(ctx context.Context, key, keyType string, data []byte, ttl time.Duration) {
	err := cache.DefaultBackoff.Do(ctx, func() error {
		return r.Cache.Set(ctx, key, data, ttl)
	})
	if err != nil {
		r.Logger.Debug("cache write failed", "key", key, "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// HashInput returns the content hash of a diagram input.
func HashInput(in diagram.Input) string {
	h, _ := cache.HashJSON(in) // inputs are plain data
	return h
}
