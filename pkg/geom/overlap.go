package geom

import "math"

// OverlapEpsilon is the distance reported for overlapping or touching shapes.
const OverlapEpsilon = 1e-6

// RectanglesOverlap tests closed interval overlap of the two bounding boxes
// on both axes. For rectangles this is the exact overlap test.
func RectanglesOverlap(a, b Polygon) bool {
	if a.Empty() || b.Empty() {
		return false
	}
	return a.min.X <= b.max.X && b.min.X <= a.max.X &&
		a.min.Y <= b.max.Y && b.min.Y <= a.max.Y
}

// PolygonsOverlap reports whether two polygons share at least one grid point.
// The test runs row by row: a closed cell row of a can only touch cell rows
// of b at most one row away, and two such rows touch when their occupied
// x-spans intersect.
func PolygonsOverlap(a, b Polygon) bool {
	if !RectanglesOverlap(a, b) {
		return false
	}
	if a.IsRect() && b.IsRect() {
		return true
	}

	for ra := a.min.Y; ra < a.max.Y; ra++ {
		spansA := a.Spans(ra)
		for rb := ra - 1; rb <= ra+1; rb++ {
			for _, sb := range b.Spans(rb) {
				for _, sa := range spansA {
					if sa.Intersects(sb) {
						return true
					}
				}
			}
		}
	}
	return false
}

// PolygonDistance returns the minimum boundary distance between a and b, or
// [OverlapEpsilon] when they overlap.
func PolygonDistance(a, b Polygon) float64 {
	if a.Empty() || b.Empty() {
		return math.Inf(1)
	}
	if PolygonsOverlap(a, b) {
		return OverlapEpsilon
	}

	best := math.Inf(1)
	for _, sa := range Sides {
		for _, ea := range a.SideEdges(sa) {
			for _, sb := range Sides {
				for _, eb := range b.SideEdges(sb) {
					d := SegmentDistance(ea.Segment(), eb.Segment())
					if d < best {
						best = d
					}
					if best == 0 {
						return OverlapEpsilon
					}
				}
			}
		}
	}
	return best
}
