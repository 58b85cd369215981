package geom

import "math"

// Point is an integer grid coordinate.
type Point struct {
	X int `json:"x" toml:"x"`
	Y int `json:"y" toml:"y"`
}

// Vec returns the point as a floating-point vector.
func (p Point) Vec() Vec { return Vec{X: float64(p.X), Y: float64(p.Y)} }

// Vec is a floating-point 2D vector, used for distances and pixel output.
type Vec struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Distance returns the Euclidean distance to another vector.
func (v Vec) Distance(o Vec) float64 { return math.Hypot(v.X-o.X, v.Y-o.Y) }

// Segment is a straight line between two grid points.
type Segment struct {
	A, B Point
}

// Len returns the Euclidean length of the segment.
func (s Segment) Len() float64 { return s.A.Vec().Distance(s.B.Vec()) }

// PointSegmentDistance returns the minimum Euclidean distance from p to s.
// The projection parameter is clamped to [0,1]; a zero-length segment
// degrades to point-to-point distance.
func PointSegmentDistance(p Vec, s Segment) float64 {
	a := s.A.Vec()
	dx := float64(s.B.X - s.A.X)
	dy := float64(s.B.Y - s.A.Y)

	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return p.Distance(a)
	}

	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / lenSq
	t = max(0, min(1, t))
	return p.Distance(Vec{X: a.X + t*dx, Y: a.Y + t*dy})
}

// SegmentDistance returns the minimum of the four endpoint-to-opposite-segment
// distances. This is not exact for segments that cross in their interiors;
// callers test overlap separately before relying on it.
func SegmentDistance(s1, s2 Segment) float64 {
	return min(
		PointSegmentDistance(s1.A.Vec(), s2),
		PointSegmentDistance(s1.B.Vec(), s2),
		PointSegmentDistance(s2.A.Vec(), s1),
		PointSegmentDistance(s2.B.Vec(), s1),
	)
}
