package layout

import (
	"github.com/matzehuels/regionmap/pkg/geom"
)

// GapTable holds the gap, in margin units, in front of every grid line.
// Rows has Height+1 entries and Columns has Width+1 entries.
type GapTable struct {
	Rows    []int `json:"rows"`
	Columns []int `json:"columns"`
}

// NewGapTable returns a table with every gap set to 1.
func NewGapTable(width, height int) GapTable {
	t := GapTable{Rows: make([]int, height+1), Columns: make([]int, width+1)}
	for i := range t.Rows {
		t.Rows[i] = 1
	}
	for i := range t.Columns {
		t.Columns[i] = 1
	}
	return t
}

// line returns the gap slice an interval's line indexes into.
func (t GapTable) line(s geom.Side) []int {
	if s.Horizontal() {
		return t.Rows
	}
	return t.Columns
}

// GapInput collects everything [ResolveGaps] reads.
type GapInput struct {
	Width, Height int
	Intervals     []Interval
	Margins       [][4]int

	// Cells are the statement anchor cells.
	Cells []geom.Point

	// HeaderBands marks regions whose top edge carries a visible header
	// band. Missing entries count as false.
	HeaderBands []bool
}

// ResolveGaps derives line gaps from resolved margins.
//
// A margin widens the gap of its line to 1+margin when the enlargement is
// visible: the line is an outer grid line, a statement sits in the cell just
// outside the interval within its span, or the interval is the top edge of a
// region with a header band. Then, for every pair of opposite-side intervals
// on one line with intersecting spans, the gap is raised above the sum of
// their margins. Gaps start at 1 and never decrease.
func ResolveGaps(in GapInput) GapTable {
	t := NewGapTable(in.Width, in.Height)

	occupied := make(map[geom.Point]bool, len(in.Cells))
	for _, c := range in.Cells {
		occupied[c] = true
	}

	for _, iv := range in.Intervals {
		gaps := t.line(iv.Side)
		if iv.Line < 0 || iv.Line >= len(gaps) {
			continue
		}
		if !visible(in, iv, occupied) {
			continue
		}
		gaps[iv.Line] = max(gaps[iv.Line], 1+in.Margins[iv.Region][iv.Side])
	}

	for _, horizontal := range []bool{true, false} {
		for line, ivs := range groupByLine(in.Intervals, horizontal) {
			gaps := t.Rows
			if !horizontal {
				gaps = t.Columns
			}
			if line < 0 || line >= len(gaps) {
				continue
			}
			for a := 0; a < len(ivs); a++ {
				for b := a + 1; b < len(ivs); b++ {
					x, y := ivs[a], ivs[b]
					if x.Side != y.Side.Opposite() || !x.Span.Intersects(y.Span) {
						continue
					}
					if sum := in.Margins[x.Region][x.Side] + in.Margins[y.Region][y.Side]; sum >= gaps[line] {
						gaps[line] = sum + 1
					}
				}
			}
		}
	}
	return t
}

// visible reports whether widening the gap for iv would show.
func visible(in GapInput, iv Interval, occupied map[geom.Point]bool) bool {
	outer := in.Width
	if iv.Side.Horizontal() {
		outer = in.Height
	}
	if iv.Line == 0 || iv.Line == outer {
		return true
	}
	if iv.Side == geom.Top && iv.Region < len(in.HeaderBands) && in.HeaderBands[iv.Region] {
		return true
	}

	for k := iv.Span.Start; k < iv.Span.End; k++ {
		var c geom.Point
		switch iv.Side {
		case geom.Left:
			c = geom.Point{X: iv.Line - 1, Y: k}
		case geom.Right:
			c = geom.Point{X: iv.Line, Y: k}
		case geom.Top:
			c = geom.Point{X: k, Y: iv.Line - 1}
		case geom.Bottom:
			c = geom.Point{X: k, Y: iv.Line}
		}
		if occupied[c] {
			return true
		}
	}
	return false
}
