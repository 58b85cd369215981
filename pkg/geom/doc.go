// Package geom provides the grid geometry used by the layout engine.
//
// Regions live on a discrete grid. Region outlines are expressed in grid line
// coordinates: a rectangle (x1,y1)-(x2,y2) covers the cells x1..x2-1 and
// y1..y2-1 and its left boundary lies on column line x1. Statement anchors
// use cell coordinates. The y axis grows downward, so the "top" side of a
// region is the side with the smaller y.
//
// # Shapes
//
// The single canonical shape is the rectilinear simple [Polygon]; rectangles
// are the four-vertex case built with [Rect] or [NewRect]:
//
//	p, err := geom.NewPolygon([]geom.Point{{0, 0}, {4, 0}, {4, 2}, {2, 2}, {2, 4}, {0, 4}})
//
// A polygon exposes its occupied x-[Span]s per cell row and its boundary
// [Edge]s classified by [Side].
//
// # Overlap and Distance
//
// Overlap is a closed-set test: two regions overlap when they share at least
// one grid point, which includes touching edges and corners.
// [PolygonDistance] returns [OverlapEpsilon] rather than zero for overlapping
// shapes so callers can compare and divide without special cases.
package geom
