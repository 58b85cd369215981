package document

import (
	"github.com/matzehuels/regionmap/pkg/diagram"
	"github.com/matzehuels/regionmap/pkg/geom"
	"github.com/matzehuels/regionmap/pkg/layout"
	"github.com/matzehuels/regionmap/pkg/overlap"
)

// =============================================================================
// Document - Resolved Layout Serialization
// =============================================================================

// Document is the canonical serialization format for a resolved diagram.
type Document struct {
	// ID identifies the pipeline run that produced the document.
	ID string `json:"id,omitempty" bson:"id,omitempty"`

	// Pixel dimensions of the whole drawing.
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`

	// Grid dimensions in cells.
	Columns int `json:"columns" bson:"columns"`
	Rows    int `json:"rows" bson:"rows"`

	Regions    []Region    `json:"regions" bson:"regions"`
	Statements []Statement `json:"statements" bson:"statements"`
	Edges      []Edge      `json:"edges,omitempty" bson:"edges,omitempty"`

	Gaps    layout.GapTable `json:"gaps" bson:"gaps"`
	Heights []int           `json:"heights" bson:"heights"`

	Metrics  layout.Metrics `json:"metrics" bson:"metrics"`
	Palette  []string       `json:"palette,omitempty" bson:"palette,omitempty"`
	Strategy string         `json:"strategy,omitempty" bson:"strategy,omitempty"`
	Headers  bool           `json:"headers" bson:"headers"`

	Diagnostics Diagnostics `json:"diagnostics" bson:"diagnostics"`
}

// Region is one resolved region.
type Region struct {
	ID        string       `json:"id" bson:"id"`
	Name      string       `json:"name" bson:"name"`
	Headers   []string     `json:"headers" bson:"headers"`
	Shape     []geom.Point `json:"shape" bson:"shape"` // grid line vertices
	Margins   Margins      `json:"margins" bson:"margins"`
	Colors    []string     `json:"colors,omitempty" bson:"colors,omitempty"`
	Degraded  bool         `json:"degraded,omitempty" bson:"degraded,omitempty"`
	Singleton bool         `json:"singleton,omitempty" bson:"singleton,omitempty"`

	Outline []geom.Vec `json:"outline" bson:"outline"`
	Bounds  layout.Box `json:"bounds" bson:"bounds"`
	// HeaderAnchors holds one text anchor per visible header.
	HeaderAnchors []geom.Vec `json:"header_anchors,omitempty" bson:"header_anchors,omitempty"`
}

// Margins are the resolved boundary margins of a region, in units.
type Margins struct {
	Top    int `json:"top" bson:"top"`
	Right  int `json:"right" bson:"right"`
	Bottom int `json:"bottom" bson:"bottom"`
	Left   int `json:"left" bson:"left"`
}

// Statement is one placed statement.
type Statement struct {
	ID      string     `json:"id" bson:"id"`
	Text    string     `json:"text" bson:"text"`
	X       int        `json:"x" bson:"x"`
	Y       int        `json:"y" bson:"y"`
	Regions []string   `json:"regions,omitempty" bson:"regions,omitempty"`
	Box     layout.Box `json:"box" bson:"box"`
	Lines   []string   `json:"lines,omitempty" bson:"lines,omitempty"`
}

// Edge is an overlap between two regions, by ID.
type Edge struct {
	From string `json:"from" bson:"from"`
	To   string `json:"to" bson:"to"`
}

// Diagnostics reports how resolution went.
type Diagnostics struct {
	Passes    int      `json:"passes" bson:"passes"`
	Raises    int      `json:"raises" bson:"raises"`
	Converged bool     `json:"converged" bson:"converged"`
	Degraded  int      `json:"degraded" bson:"degraded"`
	Merged    []string `json:"merged,omitempty" bson:"merged,omitempty"`
}

// Side returns the margin on side s.
func (m Margins) Side(s geom.Side) int {
	switch s {
	case geom.Top:
		return m.Top
	case geom.Right:
		return m.Right
	case geom.Bottom:
		return m.Bottom
	}
	return m.Left
}

// =============================================================================
// Conversion
// =============================================================================

// Options carries the run settings recorded in a document.
type Options struct {
	ID       string
	Palette  []string
	Strategy string
	Headers  bool
	Metrics  layout.Metrics
	Merged   []string
}

// FromLayout builds a document from a diagram whose regions already carry
// resolved margins and colors, its overlap graph and its layout.
func FromLayout(d *diagram.Diagram, g *overlap.Graph, l *layout.Layout, opts Options) Document {
	doc := Document{
		ID:         opts.ID,
		Width:      l.Placement.Width,
		Height:     l.Placement.Height,
		Columns:    d.Width,
		Rows:       d.Height,
		Regions:    make([]Region, len(d.Regions)),
		Statements: make([]Statement, len(d.Statements)),
		Gaps:       l.Gaps,
		Heights:    l.Heights,
		Metrics:    opts.Metrics,
		Palette:    opts.Palette,
		Strategy:   opts.Strategy,
		Headers:    opts.Headers,
		Diagnostics: Diagnostics{
			Passes:    l.Margins.Passes,
			Raises:    l.Margins.Raises,
			Converged: l.Margins.Converged,
			Degraded:  d.Degraded(),
			Merged:    opts.Merged,
		},
	}

	for i, r := range d.Regions {
		pl := l.Placement.Regions[i]
		doc.Regions[i] = Region{
			ID:      r.ID,
			Name:    r.Name,
			Headers: r.Headers,
			Shape:   r.Shape.Vertices(),
			Margins: Margins{
				Top:    r.Margins[geom.Top],
				Right:  r.Margins[geom.Right],
				Bottom: r.Margins[geom.Bottom],
				Left:   r.Margins[geom.Left],
			},
			Colors:        r.Colors,
			Degraded:      r.Degraded,
			Singleton:     r.Singleton,
			Outline:       pl.Outline,
			Bounds:        pl.Bounds,
			HeaderAnchors: pl.Headers,
		}
	}

	for k, s := range d.Statements {
		pl := l.Placement.Statements[k]
		ids := make([]string, len(s.Regions))
		for j, ri := range s.Regions {
			ids[j] = d.Regions[ri].ID
		}
		doc.Statements[k] = Statement{
			ID:      s.ID,
			Text:    s.Text,
			X:       s.Cell.X,
			Y:       s.Cell.Y,
			Regions: ids,
			Box:     pl.Box,
			Lines:   pl.Lines,
		}
	}

	if g != nil {
		for _, e := range g.Edges() {
			doc.Edges = append(doc.Edges, Edge{From: d.Regions[e.From].ID, To: d.Regions[e.To].ID})
		}
	}
	return doc
}

// RegionIndex returns the position of the region with the given ID.
func (d *Document) RegionIndex(id string) int {
	for i, r := range d.Regions {
		if r.ID == id {
			return i
		}
	}
	return -1
}
