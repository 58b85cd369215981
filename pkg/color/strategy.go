package color

import (
	"cmp"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/regionmap/pkg/diagram"
	"github.com/matzehuels/regionmap/pkg/errors"
	"github.com/matzehuels/regionmap/pkg/overlap"
)

// Strategy chooses palette colors for the regions of an overlap graph.
type Strategy interface {
	Name() string
	Assign(in Input) Assignment
}

// Input is what a [Strategy] colors.
type Input struct {
	Graph   *overlap.Graph
	Palette Palette

	// Slots is the number of colors needed per region. Missing or
	// non-positive entries count as one.
	Slots []int

	// Groups holds the duplicate-name group per region or -1.
	Groups []int

	// Distance returns the boundary distance between two regions. Strategies
	// that look beyond direct neighbors need it; nil limits them to the graph.
	Distance func(i, j int) float64

	// Labels names regions in log output.
	Labels []string

	Logger *log.Logger
}

// Assignment is the result of a [Strategy].
type Assignment struct {
	// Colors holds the chosen colors per region, one per slot.
	Colors [][]string `json:"colors"`
	// Indices holds the palette index per slot, or -1 for [Fallback].
	Indices [][]int `json:"indices"`
	// Degraded marks regions that received the fallback color.
	Degraded []bool `json:"degraded"`
	// Usage counts how often each palette entry was chosen.
	Usage []int `json:"usage"`
}

// DegradedCount returns the number of degraded regions.
func (a Assignment) DegradedCount() int {
	n := 0
	for _, d := range a.Degraded {
		if d {
			n++
		}
	}
	return n
}

// Apply copies the assignment onto the diagram regions.
func (a Assignment) Apply(d *diagram.Diagram) {
	for i, r := range d.Regions {
		if i >= len(a.Colors) {
			break
		}
		r.Colors = slices.Clone(a.Colors[i])
		r.Degraded = a.Degraded[i]
	}
}

var registry = map[string]func() Strategy{
	"balanced":   func() Strategy { return Balanced{} },
	"perceptual": func() Strategy { return NewPerceptual() },
}

// DefaultStrategy is used when no strategy is configured.
const DefaultStrategy = "balanced"

// Lookup returns a new instance of the named strategy.
func Lookup(name string) (Strategy, error) {
	if name == "" {
		name = DefaultStrategy
	}
	f, ok := registry[name]
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidStrategy,
			"unknown color strategy %q (available: %s)", name, strings.Join(Names(), ", "))
	}
	return f(), nil
}

// Names returns the registered strategy names, sorted.
func Names() []string { return slices.Sorted(maps.Keys(registry)) }

// ForDiagram builds the strategy input for d: one slot per header, groups
// from the duplicate names and the group-aware distance.
func ForDiagram(d *diagram.Diagram, g *overlap.Graph, p Palette, logger *log.Logger) Input {
	in := Input{
		Graph:    g,
		Palette:  p,
		Slots:    make([]int, len(d.Regions)),
		Groups:   d.GroupIndex(),
		Distance: d.Distance,
		Labels:   make([]string, len(d.Regions)),
		Logger:   logger,
	}
	for i, r := range d.Regions {
		in.Slots[i] = max(1, len(r.Headers))
		in.Labels[i] = r.ID
	}
	return in
}

// state carries bookkeeping shared by the strategies.
type state struct {
	in     Input
	out    Assignment
	logger *log.Logger
	done   []bool
	// groupFirst maps a group to its first colored instance.
	groupFirst map[int]int
}

func newState(in Input) *state {
	n := in.Graph.Len()
	logger := in.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &state{
		in: in,
		out: Assignment{
			Colors:   make([][]string, n),
			Indices:  make([][]int, n),
			Degraded: make([]bool, n),
			Usage:    make([]int, len(in.Palette)),
		},
		logger:     logger,
		done:       make([]bool, n),
		groupFirst: make(map[int]int),
	}
}

func (s *state) slots(i int) int {
	if i < len(s.in.Slots) && s.in.Slots[i] > 0 {
		return s.in.Slots[i]
	}
	return 1
}

func (s *state) group(i int) int {
	if i < len(s.in.Groups) {
		return s.in.Groups[i]
	}
	return -1
}

func (s *state) label(i int) string {
	if i < len(s.in.Labels) && s.in.Labels[i] != "" {
		return s.in.Labels[i]
	}
	return ""
}

// order returns regions by descending degree, then ascending index.
func (s *state) order() []int {
	g := s.in.Graph
	idx := make([]int, g.Len())
	for i := range idx {
		idx[i] = i
	}
	slices.SortStableFunc(idx, func(a, b int) int {
		return cmp.Compare(g.Degree(b), g.Degree(a))
	})
	return idx
}

// reuse copies colors from an already colored instance of i's group. It
// returns the number of slots filled.
func (s *state) reuse(i int) int {
	g := s.group(i)
	if g < 0 {
		return 0
	}
	first, ok := s.groupFirst[g]
	if !ok {
		s.groupFirst[g] = i
		return 0
	}
	k := min(s.slots(i), len(s.out.Colors[first]))
	s.out.Colors[i] = slices.Clone(s.out.Colors[first][:k])
	s.out.Indices[i] = slices.Clone(s.out.Indices[first][:k])
	s.out.Degraded[i] = s.out.Degraded[first]
	return k
}

// neighborIndices returns the palette indices used by colored neighbors.
func (s *state) neighborIndices(i int) map[int]bool {
	used := make(map[int]bool)
	for _, j := range s.in.Graph.Neighbors(i) {
		if !s.done[j] {
			continue
		}
		for _, k := range s.out.Indices[j] {
			if k >= 0 {
				used[k] = true
			}
		}
	}
	return used
}

// pick records palette index k, or the fallback when k < 0.
func (s *state) pick(i, k int, strategy string) {
	if k < 0 {
		s.out.Colors[i] = append(s.out.Colors[i], Fallback)
		s.out.Indices[i] = append(s.out.Indices[i], -1)
		if !s.out.Degraded[i] {
			s.logger.Warn("palette exhausted, using fallback color",
				"region", s.label(i),
				"index", i,
				"strategy", strategy,
				"palette", len(s.in.Palette),
				"neighbors", s.in.Graph.Degree(i))
		}
		s.out.Degraded[i] = true
		return
	}
	s.out.Colors[i] = append(s.out.Colors[i], s.in.Palette[k])
	s.out.Indices[i] = append(s.out.Indices[i], k)
	s.out.Usage[k]++
}
