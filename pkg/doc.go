// Package pkg provides the core libraries for Regionmap region layouts.
//
// # Overview
//
// Regionmap draws labeled regions over a grid of text statements. Regions may
// overlap; every region boundary is pushed outward by a margin so that nested
// and overlapping outlines stay visually separate, and overlapping regions get
// distinguishable colors. The pkg directory is organized into four areas:
//
//  1. Model - [geom], [diagram], [source]
//  2. Resolution - [overlap], [layout], [color]
//  3. Output - [document], [render]
//  4. Orchestration - [pipeline], [cache], [observability]
//
// # Architecture
//
// The typical data flow through Regionmap:
//
//	JSON / TOML / DSL input
//	         ↓
//	    [source] package (decode into a diagram.Input)
//	         ↓
//	    [diagram] package (validate, merge duplicate regions)
//	         ↓
//	    [overlap] package (which regions share grid cells)
//	         ↓
//	    [layout] package (margins → gaps → row heights → pixel geometry)
//	         ↓
//	    [color] package (palette assignment over the overlap graph)
//	         ↓
//	    [document] → [render] (SVG/PNG/PDF/JSON/DOT output)
//
// # Quick Start
//
// Resolve and render a diagram:
//
//	in, _ := source.ReadFile("flow.rmap")
//	d, _ := diagram.New(in)
//	d.MergeDuplicates()
//
//	g := overlap.Build(d.Shapes(), overlap.WithGroups(d.GroupIndex()))
//	l, _ := layout.Compute(d, g, layout.Options{ShowHeaders: true})
//
//	strategy, _ := color.Lookup("balanced")
//	strategy.Assign(color.ForDiagram(d, g, color.DefaultPalette(), nil)).Apply(d)
//
//	doc := document.FromLayout(d, g, l, document.Options{Headers: true})
//	svg := render.SVG(doc)
//
// Most callers use [pipeline.Runner] instead, which runs the same stages with
// caching and observability hooks.
//
// # Main Packages
//
// [geom] - Grid points, rectilinear polygons, sides and cell overlap tests.
//
// [diagram] - Regions and statements, the singleton rule, duplicate groups
// and merging of regions with identical statement sets.
//
// [overlap] - The region overlap graph, its connected components and DOT
// export.
//
// [layout] - The margin resolver (a monotone fixed-point loop), the gap
// resolver, row heights and pixel placement.
//
// [color] - Palettes and the balanced and perceptual assignment strategies.
//
// [pipeline] - Complete parse → layout → render pipeline used by the CLI and
// the HTTP server. Ensures consistent behavior across entry points.
//
// [cache] - File, Redis and MongoDB cache backends with content-addressed
// keys.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/layout/...   # Specific package
//
// [geom]: https://pkg.go.dev/github.com/matzehuels/regionmap/pkg/geom
// [diagram]: https://pkg.go.dev/github.com/matzehuels/regionmap/pkg/diagram
// [source]: https://pkg.go.dev/github.com/matzehuels/regionmap/pkg/source
// [overlap]: https://pkg.go.dev/github.com/matzehuels/regionmap/pkg/overlap
// [layout]: https://pkg.go.dev/github.com/matzehuels/regionmap/pkg/layout
// [color]: https://pkg.go.dev/github.com/matzehuels/regionmap/pkg/color
// [document]: https://pkg.go.dev/github.com/matzehuels/regionmap/pkg/document
// [render]: https://pkg.go.dev/github.com/matzehuels/regionmap/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/regionmap/pkg/pipeline
// [pipeline.Runner]: https://pkg.go.dev/github.com/matzehuels/regionmap/pkg/pipeline#Runner
// [cache]: https://pkg.go.dev/github.com/matzehuels/regionmap/pkg/cache
// [observability]: https://pkg.go.dev/github.com/matzehuels/regionmap/pkg/observability
package pkg
