package layout

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/regionmap/pkg/diagram"
	"github.com/matzehuels/regionmap/pkg/overlap"
)

// Options configures [Compute].
type Options struct {
	ShowHeaders bool
	Metrics     Metrics
	MaxPasses   int
	Observer    func(Raise)
	Logger      *log.Logger
}

// Layout is the resolved layout of a diagram.
type Layout struct {
	Intervals []Interval   `json:"intervals"`
	Margins   MarginResult `json:"margins"`
	Gaps      GapTable     `json:"gaps"`
	Heights   []int        `json:"heights"`
	Placement Placement    `json:"placement"`
}

// Compute resolves margins, gaps, row heights and pixel placement for d,
// using the overlap graph g built from d's shapes. Resolved margins are
// written to the regions of d.
func Compute(d *diagram.Diagram, g *overlap.Graph, opts Options) (*Layout, error) {
	opts.Metrics.SetDefaults()
	if err := opts.Metrics.Validate(); err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}
	if g == nil {
		g = overlap.Build(d.Shapes(), overlap.WithGroups(d.GroupIndex()))
	}
	if g.Len() != len(d.Regions) {
		return nil, fmt.Errorf("overlap graph has %d nodes, diagram has %d regions", g.Len(), len(d.Regions))
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	shapes := d.Shapes()
	ivs := Intervals(shapes)

	margins := ResolveMargins(shapes, g, MarginOptions{
		ShowHeaders:   opts.ShowHeaders,
		HeaderHeights: d.HeaderHeights(),
		Observer:      opts.Observer,
		MaxPasses:     opts.MaxPasses,
		Logger:        logger,
	})
	for i, r := range d.Regions {
		r.Margins = margins.Margins[i]
	}

	bands := make([]bool, len(d.Regions))
	if opts.ShowHeaders {
		for i, r := range d.Regions {
			bands[i] = r.VisibleHeaders > 0
		}
	}
	gaps := ResolveGaps(GapInput{
		Width:       d.Width,
		Height:      d.Height,
		Intervals:   ivs,
		Margins:     margins.Margins,
		Cells:       d.Cells(),
		HeaderBands: bands,
	})

	m := opts.Metrics
	texts := make([]string, len(d.Statements))
	rows := make([]int, len(d.Statements))
	for k, s := range d.Statements {
		texts[k], rows[k] = s.Text, s.Cell.Y
	}
	heights := CellHeights(d.Height, texts, rows, m.WrapWidth(), m.Padding)

	grid := NewGrid(m, gaps, heights)
	pl := Placement{
		Width:      grid.Width,
		Height:     grid.Height,
		Regions:    make([]RegionPlacement, len(d.Regions)),
		Statements: make([]StatementPlacement, len(d.Statements)),
	}
	for i, r := range d.Regions {
		vh := 0
		if opts.ShowHeaders {
			vh = r.VisibleHeaders
		}
		pl.Regions[i] = PlaceRegion(grid, m, r.Shape, r.Margins, vh)
	}
	for k, s := range d.Statements {
		pl.Statements[k] = PlaceStatement(grid, m, s.Cell, heights, Wrap(s.Text, m.WrapWidth()))
	}

	logger.Debug("computed layout",
		"regions", len(d.Regions),
		"statements", len(d.Statements),
		"width", pl.Width,
		"height", pl.Height)

	return &Layout{
		Intervals: ivs,
		Margins:   margins,
		Gaps:      gaps,
		Heights:   heights,
		Placement: pl,
	}, nil
}
