package geom

// Side identifies one of the four boundary sides of a region.
type Side int

// Boundary sides, in the order margins are stored.
const (
	Top Side = iota
	Right
	Bottom
	Left
)

// Sides lists all four sides in storage order.
var Sides = [...]Side{Top, Right, Bottom, Left}

// String returns the lowercase side name.
func (s Side) String() string {
	switch s {
	case Top:
		return "top"
	case Right:
		return "right"
	case Bottom:
		return "bottom"
	case Left:
		return "left"
	}
	return "unknown"
}

// Opposite returns the side facing s across a shared line.
func (s Side) Opposite() Side { return (s + 2) % 4 }

// Horizontal reports whether edges on this side lie on row lines.
func (s Side) Horizontal() bool { return s == Top || s == Bottom }

// Span is a closed 1-D interval [Start, End] in grid line coordinates.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns End - Start.
func (s Span) Len() int { return s.End - s.Start }

// Intersects reports whether two closed spans share at least one point.
func (s Span) Intersects(o Span) bool { return s.Start <= o.End && o.Start <= s.End }

// CoversCell reports whether the cell with index c lies inside the span.
func (s Span) CoversCell(c int) bool { return c >= s.Start && c < s.End }
