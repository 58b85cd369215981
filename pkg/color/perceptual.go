package color

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Perceptual colors regions greedily by descending overlap degree. Each
// region takes the palette entry whose smallest weighted perceptual distance
// to the colors of nearby colored regions is largest.
//
// Overlapping neighbors weigh fully and exclude their own colors. Regions
// within Radius grid units count with their distance scaled by 1+d, so far
// regions constrain the choice less; they never exclude an entry, so sharing
// a color with one only scores zero. Ties go to the less used, then lower
// palette index.
type Perceptual struct {
	// Radius is the grid distance within which non-overlapping regions are
	// considered. Zero limits the strategy to overlap neighbors.
	Radius float64
	// HueWeight adds a hue difference term, in CIEDE2000 units per half
	// turn of hue.
	HueWeight float64
}

// NewPerceptual returns the strategy with its default parameters.
func NewPerceptual() Perceptual { return Perceptual{Radius: 2, HueWeight: 0.3} }

// Name implements [Strategy].
func (Perceptual) Name() string { return "perceptual" }

// distance returns the weighted perceptual distance between two colors.
func (p Perceptual) distance(a, b colorful.Color) float64 {
	ha, _, _ := a.Hsv()
	hb, _, _ := b.Hsv()
	dh := math.Abs(ha - hb)
	if dh > 180 {
		dh = 360 - dh
	}
	return a.DistanceCIEDE2000(b) + p.HueWeight*dh/180
}

type constraint struct {
	region   int
	adjacent bool
	dist     float64
}

// constraints returns the colored regions that influence region i.
func (p Perceptual) constraints(s *state, i int) []constraint {
	var out []constraint
	for j := 0; j < s.in.Graph.Len(); j++ {
		if j == i || !s.done[j] {
			continue
		}
		if g := s.group(i); g >= 0 && g == s.group(j) {
			continue
		}
		if s.in.Graph.Adjacent(i, j) {
			out = append(out, constraint{region: j, adjacent: true})
			continue
		}
		if s.in.Distance == nil || p.Radius <= 0 {
			continue
		}
		if d := s.in.Distance(i, j); d <= p.Radius {
			out = append(out, constraint{region: j, dist: d})
		}
	}
	return out
}

// Assign implements [Strategy].
func (p Perceptual) Assign(in Input) Assignment {
	s := newState(in)
	pal := in.Palette.colors()

	for _, i := range s.order() {
		filled := s.reuse(i)
		used := s.neighborIndices(i)
		for _, k := range s.out.Indices[i] {
			if k >= 0 {
				used[k] = true
			}
		}
		cons := p.constraints(s, i)

		for range s.slots(i) - filled {
			best, bestScore := -1, 0.0
			for k := range pal {
				if used[k] {
					continue
				}
				score := p.score(s, pal, k, cons)
				if best < 0 || score > bestScore ||
					(score == bestScore && s.out.Usage[k] < s.out.Usage[best]) {
					best, bestScore = k, score
				}
			}
			s.pick(i, best, p.Name())
			if best >= 0 {
				used[best] = true
			}
		}
		s.done[i] = true
	}
	return s.out
}

// score returns the minimum weighted distance from palette entry k to the
// constraining regions' colors, or +Inf when nothing constrains it.
func (p Perceptual) score(s *state, pal []colorful.Color, k int, cons []constraint) float64 {
	score := math.Inf(1)
	for _, c := range cons {
		for _, idx := range s.out.Indices[c.region] {
			var other colorful.Color
			if idx >= 0 {
				other = pal[idx]
			}
			d := p.distance(pal[k], other)
			if !c.adjacent {
				d *= 1 + c.dist
			}
			score = min(score, d)
		}
	}
	return score
}
