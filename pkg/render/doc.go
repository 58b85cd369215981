// Package render draws resolved [document.Document] values.
//
// # Formats
//
//   - [SVG]: vector output built directly into a byte buffer.
//   - [PNG]: raster output drawn with golang.org/x/image (vector fills and
//     the basicfont face for text).
//   - [ToPDF]: converts SVG output with rsvg-convert.
//   - [GraphSVG]: the overlap graph, laid out by Graphviz.
//
// Renderers only read the document. Regions are filled with their first
// color at reduced opacity so overlaps stay visible; each visible header is
// written in its own color. Degraded regions use a dashed outline.
package render
