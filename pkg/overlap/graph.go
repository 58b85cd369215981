package overlap

import (
	"slices"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/matzehuels/regionmap/pkg/geom"
)

// Edge is an undirected adjacency between regions From < To.
type Edge struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// Graph is an adjacency list over region indices. Neighbor lists are sorted
// ascending.
type Graph struct {
	adj [][]int
}

// Option configures [Build].
type Option func(*buildConfig)

type buildConfig struct {
	groups []int
}

// WithGroups lifts adjacency to duplicate-name groups. groups[i] is the group
// of region i or -1; see diagram.Diagram.GroupIndex.
func WithGroups(groups []int) Option {
	return func(c *buildConfig) { c.groups = groups }
}

// Build tests every unordered pair of shapes with [geom.PolygonsOverlap].
func Build(shapes []geom.Polygon, opts ...Option) *Graph {
	var cfg buildConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	group := func(i int) int {
		if i < len(cfg.groups) {
			return cfg.groups[i]
		}
		return -1
	}

	n := len(shapes)
	sets := make([]map[int]bool, n)
	for i := range sets {
		sets[i] = make(map[int]bool)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if gi := group(i); gi >= 0 && gi == group(j) {
				continue
			}
			if geom.PolygonsOverlap(shapes[i], shapes[j]) {
				sets[i][j] = true
				sets[j][i] = true
			}
		}
	}

	if len(cfg.groups) > 0 {
		members := make(map[int][]int)
		for i := 0; i < n; i++ {
			if g := group(i); g >= 0 {
				members[g] = append(members[g], i)
			}
		}
		for _, inst := range members {
			union := make(map[int]bool)
			for _, i := range inst {
				for j := range sets[i] {
					union[j] = true
				}
			}
			for _, i := range inst {
				for j := range union {
					sets[i][j] = true
					sets[j][i] = true
				}
			}
		}
	}

	g := &Graph{adj: make([][]int, n)}
	for i, set := range sets {
		g.adj[i] = make([]int, 0, len(set))
		for j := range set {
			g.adj[i] = append(g.adj[i], j)
		}
		slices.Sort(g.adj[i])
	}
	return g
}

// FromAdjacency builds a graph from explicit neighbor lists. Lists are
// symmetrized, sorted and deduplicated; self loops are dropped.
func FromAdjacency(adj [][]int) *Graph {
	sets := make([]map[int]bool, len(adj))
	for i := range sets {
		sets[i] = make(map[int]bool)
	}
	for i, ns := range adj {
		for _, j := range ns {
			if j == i || j < 0 || j >= len(adj) {
				continue
			}
			sets[i][j] = true
			sets[j][i] = true
		}
	}
	g := &Graph{adj: make([][]int, len(adj))}
	for i, set := range sets {
		for j := range set {
			g.adj[i] = append(g.adj[i], j)
		}
		slices.Sort(g.adj[i])
	}
	return g
}

// Len returns the number of regions.
func (g *Graph) Len() int { return len(g.adj) }

// Neighbors returns the sorted neighbor list of region i. The slice must not
// be modified.
func (g *Graph) Neighbors(i int) []int { return g.adj[i] }

// Degree returns the number of neighbors of region i.
func (g *Graph) Degree(i int) int { return len(g.adj[i]) }

// Adjacent reports whether regions i and j share a grid point.
func (g *Graph) Adjacent(i, j int) bool {
	_, ok := slices.BinarySearch(g.adj[i], j)
	return ok
}

// Edges returns every edge once, ordered by From then To.
func (g *Graph) Edges() []Edge {
	var edges []Edge
	for i, ns := range g.adj {
		for _, j := range ns {
			if i < j {
				edges = append(edges, Edge{From: i, To: j})
			}
		}
	}
	return edges
}

// Components returns the connected components, each sorted ascending and
// ordered by their smallest member.
func (g *Graph) Components() [][]int {
	ug := simple.NewUndirectedGraph()
	for i := range g.adj {
		ug.AddNode(simple.Node(i))
	}
	for _, e := range g.Edges() {
		ug.SetEdge(simple.Edge{F: simple.Node(e.From), T: simple.Node(e.To)})
	}

	var comps [][]int
	for _, cc := range topo.ConnectedComponents(ug) {
		ids := make([]int, len(cc))
		for k, n := range cc {
			ids[k] = int(n.ID())
		}
		slices.Sort(ids)
		comps = append(comps, ids)
	}
	slices.SortFunc(comps, func(a, b []int) int { return a[0] - b[0] })
	return comps
}
