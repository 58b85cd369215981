package layout

import (
	"cmp"
	"io"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/regionmap/pkg/geom"
	"github.com/matzehuels/regionmap/pkg/overlap"
)

// Raise records one margin increase.
type Raise struct {
	Region   int
	Side     geom.Side
	From, To int
}

// MarginOptions configures [ResolveMargins].
type MarginOptions struct {
	// ShowHeaders enables the header band reservation on top lines.
	ShowHeaders bool

	// HeaderHeights holds the header band height per region, in margin
	// units. Missing entries count as zero.
	HeaderHeights []int

	// Observer, if set, is called for every margin increase in order.
	Observer func(Raise)

	// MaxPasses caps the number of passes. Zero means n²+n+1 for n regions.
	MaxPasses int

	Logger *log.Logger
}

// MarginResult is the output of [ResolveMargins].
type MarginResult struct {
	// Margins holds the resolved margins per region, indexed by geom.Side.
	Margins [][4]int `json:"margins"`

	// Passes is the number of passes run, including the final quiet pass.
	Passes int `json:"passes"`

	// Raises counts individual margin increases.
	Raises int `json:"raises"`

	// Converged is false when the pass cap was hit with changes pending.
	Converged bool `json:"converged"`
}

// ResolveMargins computes boundary margins for the given shapes.
//
// Intervals on the same side of the same line are visited in region rank
// order (smaller area first, then higher overlap degree, then topmost,
// leftmost and lowest index). For every pair with intersecting spans, equal
// margins are broken by raising the later interval's region to one above
// the earlier. With headers shown, a pair on a top line whose margin
// difference is below the outer region's header height pushes the outer
// region up until its header band fits, and every region with a header band
// starts with its top margin at the band height.
//
// Passes repeat until nothing changes. Margins never decrease.
func ResolveMargins(shapes []geom.Polygon, g *overlap.Graph, opts MarginOptions) MarginResult {
	n := len(shapes)
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	maxPasses := opts.MaxPasses
	if maxPasses <= 0 {
		maxPasses = n*n + n + 1
	}

	res := MarginResult{Margins: make([][4]int, n), Converged: true}
	raise := func(region int, side geom.Side, to int) bool {
		from := res.Margins[region][side]
		if to <= from {
			return false
		}
		res.Margins[region][side] = to
		res.Raises++
		if opts.Observer != nil {
			opts.Observer(Raise{Region: region, Side: side, From: from, To: to})
		}
		return true
	}
	headerHeight := func(i int) int {
		if i < len(opts.HeaderHeights) {
			return opts.HeaderHeights[i]
		}
		return 0
	}

	if opts.ShowHeaders {
		for i := range n {
			raise(i, geom.Top, headerHeight(i))
		}
	}

	rank := rankRegions(shapes, g)
	groups := groupBySideLine(Intervals(shapes))
	for _, grp := range groups {
		slices.SortStableFunc(grp.members, func(a, b Interval) int {
			return cmp.Compare(rank[a.Region], rank[b.Region])
		})
	}

	for {
		if res.Passes == maxPasses {
			res.Converged = false
			logger.Warn("margin resolution hit pass limit", "regions", n, "passes", res.Passes)
			break
		}
		res.Passes++

		changed := false
		for _, grp := range groups {
			side := grp.key.side
			ms := grp.members
			for a := 0; a < len(ms); a++ {
				for b := a + 1; b < len(ms); b++ {
					i, j := ms[a].Region, ms[b].Region
					if i == j || !ms[a].Span.Intersects(ms[b].Span) {
						continue
					}
					if res.Margins[i][side] == res.Margins[j][side] {
						changed = raise(j, side, res.Margins[i][side]+1) || changed
					}
					if opts.ShowHeaders && side == geom.Top {
						outer, inner := j, i
						if res.Margins[i][side] > res.Margins[j][side] {
							outer, inner = i, j
						}
						mo, mi, h := res.Margins[outer][side], res.Margins[inner][side], headerHeight(outer)
						if mo-mi < h {
							changed = raise(outer, side, mi+h) || changed
						}
					}
				}
			}
		}
		if !changed {
			break
		}
	}

	logger.Debug("resolved margins", "regions", n, "passes", res.Passes, "raises", res.Raises)
	return res
}

// rankRegions returns each region's position in margin processing order.
func rankRegions(shapes []geom.Polygon, g *overlap.Graph) []int {
	order := make([]int, len(shapes))
	for i := range order {
		order[i] = i
	}
	degree := func(i int) int {
		if g == nil || i >= g.Len() {
			return 0
		}
		return g.Degree(i)
	}
	slices.SortFunc(order, func(a, b int) int {
		la, _ := shapes[a].Bounds()
		lb, _ := shapes[b].Bounds()
		return cmp.Or(
			cmp.Compare(shapes[a].Area(), shapes[b].Area()),
			cmp.Compare(degree(b), degree(a)),
			cmp.Compare(la.Y, lb.Y),
			cmp.Compare(la.X, lb.X),
			cmp.Compare(a, b),
		)
	})

	rank := make([]int, len(shapes))
	for pos, i := range order {
		rank[i] = pos
	}
	return rank
}
