package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/regionmap/pkg/color"
	"github.com/matzehuels/regionmap/pkg/diagram"
	"github.com/matzehuels/regionmap/pkg/document"
	"github.com/matzehuels/regionmap/pkg/layout"
	"github.com/matzehuels/regionmap/pkg/observability"
	"github.com/matzehuels/regionmap/pkg/overlap"
)

// =============================================================================
// Layout Generation
// =============================================================================

// BuildDocument runs the layout and color stages on in without caching:
// duplicate merging, overlap graph, margins, gaps, row heights, pixel
// placement and color assignment.
func BuildDocument(ctx context.Context, in diagram.Input, opts Options) (document.Document, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return document.Document{}, err
	}
	logger := opts.Logger
	hooks := observability.Pipeline()

	d, err := diagram.New(in)
	if err != nil {
		return document.Document{}, err
	}

	var merged []string
	if !opts.SkipMerge {
		merged = d.MergeDuplicates()
		if len(merged) > 0 {
			logger.Debug("merged duplicate regions", "removed", merged)
		}
	}

	hooks.OnLayoutStart(ctx, len(d.Regions))
	start := time.Now()

	g := overlap.Build(d.Shapes(), overlap.WithGroups(d.GroupIndex()))
	logger.Debug("built overlap graph", "regions", g.Len(), "edges", len(g.Edges()))

	l, err := layout.Compute(d, g, layout.Options{
		ShowHeaders: opts.ShowHeaders,
		Metrics:     opts.Metrics,
		MaxPasses:   opts.MaxPasses,
		Observer:    opts.Observer,
		Logger:      logger,
	})
	if err != nil {
		hooks.OnLayoutComplete(ctx, 0, false, time.Since(start), err)
		return document.Document{}, err
	}
	hooks.OnLayoutComplete(ctx, l.Margins.Passes, l.Margins.Converged, time.Since(start), nil)

	colorStart := time.Now()
	strategy, err := color.Lookup(opts.Strategy)
	if err != nil {
		return document.Document{}, err
	}
	palette, err := opts.ResolvedPalette()
	if err != nil {
		return document.Document{}, err
	}
	assignment := strategy.Assign(color.ForDiagram(d, g, palette, logger))
	assignment.Apply(d)
	hooks.OnColorComplete(ctx, strategy.Name(), assignment.DegradedCount(), time.Since(colorStart))

	return document.FromLayout(d, g, l, document.Options{
		ID:       uuid.NewString(),
		Palette:  palette,
		Strategy: strategy.Name(),
		Headers:  opts.ShowHeaders,
		Metrics:  opts.Metrics,
		Merged:   merged,
	}), nil
}
