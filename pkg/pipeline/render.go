package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/regionmap/pkg/document"
	"github.com/matzehuels/regionmap/pkg/observability"
	"github.com/matzehuels/regionmap/pkg/overlap"
	"github.com/matzehuels/regionmap/pkg/render"
)

// Render generates output artifacts in the requested formats.
func Render(ctx context.Context, doc document.Document, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	artifacts := make(map[string][]byte, len(opts.Formats))
	var err error
	for _, format := range opts.Formats {
		var data []byte
		data, err = RenderFormat(ctx, doc, format, opts)
		if err != nil {
			err = fmt.Errorf("render %s: %w", format, err)
			break
		}
		artifacts[format] = data
	}
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return artifacts, nil
}

// RenderFormat generates a single output.
func RenderFormat(ctx context.Context, doc document.Document, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatSVG:
		return render.SVG(doc, svgOptions(opts)...), nil
	case FormatPNG:
		return render.PNG(doc, opts.Scale)
	case FormatPDF:
		return render.SVGToPDF(ctx, render.SVG(doc, svgOptions(opts)...))
	case FormatJSON:
		return document.Marshal(doc)
	case FormatDOT:
		return []byte(DOT(doc)), nil
	case FormatGraphSVG:
		return render.GraphSVG(ctx, DOT(doc))
	}
	return nil, ValidateFormat(format)
}

// Graph rebuilds the overlap graph of a document from its edges.
func Graph(doc document.Document) *overlap.Graph {
	adj := make([][]int, len(doc.Regions))
	for _, e := range doc.Edges {
		i, j := doc.RegionIndex(e.From), doc.RegionIndex(e.To)
		if i < 0 || j < 0 {
			continue
		}
		adj[i] = append(adj[i], j)
	}
	return overlap.FromAdjacency(adj)
}

// DOT returns the overlap graph of a document in Graphviz DOT format, with
// nodes filled in their first region color.
func DOT(doc document.Document) string {
	labels := make([]string, len(doc.Regions))
	colors := make([]string, len(doc.Regions))
	for i, r := range doc.Regions {
		labels[i] = r.ID
		if len(r.Colors) > 0 {
			colors[i] = r.Colors[0]
		}
	}
	return Graph(doc).DOT(overlap.DOTOptions{Labels: labels, Colors: colors})
}

func svgOptions(opts Options) []render.SVGOption {
	svgOpts := []render.SVGOption{render.WithFillOpacity(opts.FillOpacity)}
	if opts.Background != "" {
		svgOpts = append(svgOpts, render.WithBackground(opts.Background))
	}
	if opts.GridLines {
		svgOpts = append(svgOpts, render.WithGridLines())
	}
	return svgOpts
}
