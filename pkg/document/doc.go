// Package document provides the serialization format for resolved layouts.
//
// A [Document] is what the pipeline hands to renderers, writes to JSON files,
// returns from the HTTP API and stores in the cache. It is self-contained: a
// renderer needs nothing but the document to draw the diagram.
//
// # Architecture
//
// The package sits at the boundary between the computation packages and
// external formats:
//
//   - [Document], [Region], [Statement]: serialization types (this package)
//   - pkg/diagram.Diagram: regions and statements with layout state
//   - pkg/layout.Layout: margins, gaps, heights and pixel placement
//
// Use [FromLayout] to build a document and [Marshal]/[Unmarshal],
// [WriteFile]/[ReadFile] to move it across process boundaries. Struct tags
// cover both JSON and BSON so the Mongo cache stores documents as-is.
package document
