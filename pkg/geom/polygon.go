package geom

import (
	"slices"

	"github.com/matzehuels/regionmap/pkg/errors"
)

// Edge is one boundary edge of a polygon, projected onto its grid line.
// Line is the row line (top/bottom) or column line (left/right) the edge
// lies on and Span is its extent along that line.
type Edge struct {
	Side Side
	Line int
	Span Span
}

// Segment returns the edge as a segment between grid points.
func (e Edge) Segment() Segment {
	if e.Side.Horizontal() {
		return Segment{A: Point{e.Span.Start, e.Line}, B: Point{e.Span.End, e.Line}}
	}
	return Segment{A: Point{e.Line, e.Span.Start}, B: Point{e.Line, e.Span.End}}
}

// Polygon is a simple rectilinear polygon in grid line coordinates.
// The zero value is an empty polygon that contains nothing.
type Polygon struct {
	vertices []Point
	edges    []Edge
	min, max Point
}

// Rect returns the rectangle with corners (x1,y1) and (x2,y2). Corner order
// does not matter. A degenerate rectangle yields a polygon with no area; use
// [NewRect] to reject it.
func Rect(x1, y1, x2, y2 int) Polygon {
	x1, x2 = min(x1, x2), max(x1, x2)
	y1, y2 = min(y1, y2), max(y1, y2)
	p := Polygon{
		vertices: []Point{{x1, y1}, {x2, y1}, {x2, y2}, {x1, y2}},
		min:      Point{x1, y1},
		max:      Point{x2, y2},
	}
	if x1 < x2 && y1 < y2 {
		p.edges = []Edge{
			{Side: Top, Line: y1, Span: Span{x1, x2}},
			{Side: Right, Line: x2, Span: Span{y1, y2}},
			{Side: Bottom, Line: y2, Span: Span{x1, x2}},
			{Side: Left, Line: x1, Span: Span{y1, y2}},
		}
	}
	return p
}

// NewRect is like [Rect] but rejects rectangles without area.
func NewRect(x1, y1, x2, y2 int) (Polygon, error) {
	if x1 == x2 || y1 == y2 {
		return Polygon{}, errors.New(errors.ErrCodeInvalidShape,
			"rectangle (%d,%d)-(%d,%d) has no area", x1, y1, x2, y2)
	}
	return Rect(x1, y1, x2, y2), nil
}

// NewPolygon builds a polygon from an ordered vertex ring. Repeated and
// collinear vertices are dropped. Every edge must be axis-aligned and the
// ring must enclose a non-zero area.
func NewPolygon(vertices []Point) (Polygon, error) {
	ring := cleanRing(vertices)
	if len(ring) < 4 {
		return Polygon{}, errors.New(errors.ErrCodeInvalidShape,
			"polygon needs at least 4 distinct corners, got %d", len(ring))
	}

	for i, a := range ring {
		b := ring[(i+1)%len(ring)]
		if a.X != b.X && a.Y != b.Y {
			return Polygon{}, errors.New(errors.ErrCodeInvalidShape,
				"edge (%d,%d)-(%d,%d) is not axis-aligned", a.X, a.Y, b.X, b.Y)
		}
	}
	if twiceArea(ring) == 0 {
		return Polygon{}, errors.New(errors.ErrCodeInvalidShape, "polygon has no area")
	}

	p := Polygon{vertices: ring, min: ring[0], max: ring[0]}
	for _, v := range ring[1:] {
		p.min = Point{min(p.min.X, v.X), min(p.min.Y, v.Y)}
		p.max = Point{max(p.max.X, v.X), max(p.max.Y, v.Y)}
	}
	p.edges = p.classifyEdges()
	return p, nil
}

// cleanRing removes consecutive duplicates and collinear middle vertices,
// including across the wrap-around.
func cleanRing(vertices []Point) []Point {
	ring := make([]Point, 0, len(vertices))
	for _, v := range vertices {
		if len(ring) == 0 || ring[len(ring)-1] != v {
			ring = append(ring, v)
		}
	}
	for len(ring) > 1 && ring[0] == ring[len(ring)-1] {
		ring = ring[:len(ring)-1]
	}

	for changed := true; changed && len(ring) >= 3; {
		changed = false
		for i := 0; i < len(ring); i++ {
			prev := ring[(i+len(ring)-1)%len(ring)]
			next := ring[(i+1)%len(ring)]
			cur := ring[i]
			if (prev.X == cur.X && cur.X == next.X) || (prev.Y == cur.Y && cur.Y == next.Y) {
				ring = slices.Delete(ring, i, i+1)
				changed = true
				break
			}
		}
	}
	return ring
}

func twiceArea(ring []Point) int {
	sum := 0
	for i, a := range ring {
		b := ring[(i+1)%len(ring)]
		sum += a.X*b.Y - b.X*a.Y
	}
	if sum < 0 {
		return -sum
	}
	return sum
}

// classifyEdges assigns each boundary edge to a side by checking which
// neighboring cell is inside the polygon.
func (p Polygon) classifyEdges() []Edge {
	edges := make([]Edge, 0, len(p.vertices))
	for i, a := range p.vertices {
		b := p.vertices[(i+1)%len(p.vertices)]
		if a.Y == b.Y {
			span := Span{min(a.X, b.X), max(a.X, b.X)}
			side := Bottom
			if p.Contains(Point{span.Start, a.Y}) {
				side = Top
			}
			edges = append(edges, Edge{Side: side, Line: a.Y, Span: span})
			continue
		}
		span := Span{min(a.Y, b.Y), max(a.Y, b.Y)}
		side := Right
		if p.Contains(Point{a.X, span.Start}) {
			side = Left
		}
		edges = append(edges, Edge{Side: side, Line: a.X, Span: span})
	}
	return edges
}

// Vertices returns a copy of the polygon's corner ring.
func (p Polygon) Vertices() []Point { return slices.Clone(p.vertices) }

// Bounds returns the bounding box corners in line coordinates.
func (p Polygon) Bounds() (lo, hi Point) { return p.min, p.max }

// Empty reports whether the polygon has no area.
func (p Polygon) Empty() bool { return len(p.edges) == 0 }

// IsRect reports whether the polygon is an axis-aligned rectangle.
func (p Polygon) IsRect() bool { return len(p.vertices) == 4 && !p.Empty() }

// Area returns the number of cells covered.
func (p Polygon) Area() int { return twiceArea(p.vertices) / 2 }

// Edges returns all boundary edges in ring order.
func (p Polygon) Edges() []Edge { return p.edges }

// SideEdges returns the boundary edges on one side.
func (p Polygon) SideEdges(s Side) []Edge {
	var out []Edge
	for _, e := range p.edges {
		if e.Side == s {
			out = append(out, e)
		}
	}
	return out
}

// Spans returns the occupied x-intervals of cell row r, left to right.
// It scans the vertical edges crossing the row center and pairs them up.
func (p Polygon) Spans(r int) []Span {
	if r < p.min.Y || r >= p.max.Y {
		return nil
	}
	var xs []int
	for i, a := range p.vertices {
		b := p.vertices[(i+1)%len(p.vertices)]
		if a.X != b.X {
			continue
		}
		if min(a.Y, b.Y) <= r && r < max(a.Y, b.Y) {
			xs = append(xs, a.X)
		}
	}
	slices.Sort(xs)

	spans := make([]Span, 0, len(xs)/2)
	for i := 0; i+1 < len(xs); i += 2 {
		spans = append(spans, Span{xs[i], xs[i+1]})
	}
	return spans
}

// Contains reports whether the cell c lies inside the polygon.
func (p Polygon) Contains(c Point) bool {
	for _, s := range p.Spans(c.Y) {
		if s.CoversCell(c.X) {
			return true
		}
	}
	return false
}

// Equal reports whether two polygons cover exactly the same cells.
func (p Polygon) Equal(o Polygon) bool {
	if p.min != o.min || p.max != o.max || p.Area() != o.Area() {
		return false
	}
	for r := p.min.Y; r < p.max.Y; r++ {
		if !slices.Equal(p.Spans(r), o.Spans(r)) {
			return false
		}
	}
	return true
}
