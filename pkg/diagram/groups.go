package diagram

import (
	"math"

	"github.com/matzehuels/regionmap/pkg/geom"
)

// Groups returns the duplicate-name groups: for every Name carried by two or
// more regions, the member indices in region order. Groups are ordered by
// their first member.
func (d *Diagram) Groups() [][]int {
	byName := make(map[string][]int)
	var order []string
	for i, r := range d.Regions {
		if _, seen := byName[r.Name]; !seen {
			order = append(order, r.Name)
		}
		byName[r.Name] = append(byName[r.Name], i)
	}

	var groups [][]int
	for _, name := range order {
		if members := byName[name]; len(members) > 1 {
			groups = append(groups, members)
		}
	}
	return groups
}

// GroupIndex returns, per region, the index into [Diagram.Groups] of the
// group it belongs to, or -1.
func (d *Diagram) GroupIndex() []int {
	idx := make([]int, len(d.Regions))
	for i := range idx {
		idx[i] = -1
	}
	for g, members := range d.Groups() {
		for _, m := range members {
			idx[m] = g
		}
	}
	return idx
}

// Instances returns all regions sharing region i's identity, including i.
func (d *Diagram) Instances(i int) []int {
	var out []int
	for j, r := range d.Regions {
		if r.Name == d.Regions[i].Name {
			out = append(out, j)
		}
	}
	return out
}

// Distance returns the group-aware boundary distance between regions i and j:
// the minimum [geom.PolygonDistance] over every instance pair of their
// groups. Instances of one group are treated as the same entity.
func (d *Diagram) Distance(i, j int) float64 {
	if d.Regions[i].Name == d.Regions[j].Name {
		return geom.PolygonDistance(d.Regions[i].Shape, d.Regions[j].Shape)
	}
	best := math.Inf(1)
	for _, a := range d.Instances(i) {
		for _, b := range d.Instances(j) {
			best = min(best, geom.PolygonDistance(d.Regions[a].Shape, d.Regions[b].Shape))
		}
	}
	return best
}
