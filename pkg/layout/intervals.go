package layout

import (
	"cmp"
	"slices"

	"github.com/matzehuels/regionmap/pkg/geom"
)

// Interval is one region boundary edge projected onto its grid line. Its
// margin is not stored here; it is the owning region's margin on Side.
type Interval struct {
	Side   geom.Side `json:"side"`
	Line   int       `json:"line"`
	Span   geom.Span `json:"span"`
	Region int       `json:"region"`
}

// Intervals returns every boundary edge of every shape, by region then in
// ring order. A rectangle yields exactly one interval per side.
func Intervals(shapes []geom.Polygon) []Interval {
	var out []Interval
	for i, s := range shapes {
		for _, e := range s.Edges() {
			out = append(out, Interval{Side: e.Side, Line: e.Line, Span: e.Span, Region: i})
		}
	}
	return out
}

type lineKey struct {
	side geom.Side
	line int
}

// lineGroup is the set of intervals on one side of one grid line.
type lineGroup struct {
	key     lineKey
	members []Interval
}

// groupBySideLine groups intervals by (side, line). Groups with a single
// interval are dropped. Groups are ordered by side then line.
func groupBySideLine(ivs []Interval) []lineGroup {
	m := make(map[lineKey][]Interval)
	for _, iv := range ivs {
		k := lineKey{iv.Side, iv.Line}
		m[k] = append(m[k], iv)
	}

	groups := make([]lineGroup, 0, len(m))
	for k, members := range m {
		if len(members) > 1 {
			groups = append(groups, lineGroup{key: k, members: members})
		}
	}
	slices.SortFunc(groups, func(a, b lineGroup) int {
		return cmp.Or(cmp.Compare(a.key.side, b.key.side), cmp.Compare(a.key.line, b.key.line))
	})
	return groups
}

// groupByLine groups intervals of both orientations by grid line: top and
// bottom intervals by row line, left and right intervals by column line.
func groupByLine(ivs []Interval, horizontal bool) map[int][]Interval {
	m := make(map[int][]Interval)
	for _, iv := range ivs {
		if iv.Side.Horizontal() == horizontal {
			m[iv.Line] = append(m[iv.Line], iv)
		}
	}
	return m
}
