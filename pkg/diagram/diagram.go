package diagram

import (
	"maps"
	"slices"

	"github.com/matzehuels/regionmap/pkg/errors"
	"github.com/matzehuels/regionmap/pkg/geom"
)

// Region is a labeled area on the grid.
//
// ID, Name and Shape never change after construction. Headers grow only
// through merging. The remaining fields are layout state written by the
// resolution stages.
type Region struct {
	ID      string
	Name    string   // logical entity; equal names form a duplicate group
	Headers []string // display labels in merge order
	Shape   geom.Polygon

	// Statements holds indices into Diagram.Statements, ascending.
	Statements []int

	Margins        [4]int // indexed by geom.Side
	Singleton      bool
	VisibleHeaders int
	Colors         []string // one per header
	Degraded       bool
}

// HeaderHeight returns the number of margin units reserved above the region
// for its header band: two per visible header plus one, or zero when nothing
// is shown.
func (r *Region) HeaderHeight() int {
	if r.VisibleHeaders == 0 {
		return 0
	}
	return r.VisibleHeaders*2 + 1
}

// Statement is a text annotation anchored at one grid cell.
type Statement struct {
	ID   string
	Text string
	Cell geom.Point

	// Regions holds indices into Diagram.Regions, ascending.
	Regions []int
}

// Diagram is a validated set of regions and statements on a Width x Height
// cell grid.
type Diagram struct {
	Width, Height int
	Regions       []*Region
	Statements    []*Statement
}

// New validates the input and builds a diagram.
func New(in Input) (*Diagram, error) {
	if err := errors.ValidateGrid(in.Width, in.Height); err != nil {
		return nil, err
	}
	d := &Diagram{Width: in.Width, Height: in.Height}

	regionIdx := make(map[string]int, len(in.Regions))
	for _, spec := range in.Regions {
		if err := errors.ValidateID("region", spec.ID); err != nil {
			return nil, err
		}
		if _, dup := regionIdx[spec.ID]; dup {
			return nil, errorf("duplicate region id %q", spec.ID).For(spec.ID)
		}
		shape, err := spec.Shape()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidShape, err, "region %q", spec.ID).For(spec.ID)
		}
		if lo, hi := shape.Bounds(); lo.X < 0 || lo.Y < 0 || hi.X > in.Width || hi.Y > in.Height {
			return nil, errorf("region %q exceeds the %dx%d grid", spec.ID, in.Width, in.Height).For(spec.ID)
		}

		header := spec.Label
		if header == "" {
			header = spec.ID
		}
		name := spec.Name
		if name == "" {
			name = spec.ID
		}
		regionIdx[spec.ID] = len(d.Regions)
		d.Regions = append(d.Regions, &Region{
			ID:      spec.ID,
			Name:    name,
			Headers: []string{header},
			Shape:   shape,
		})
	}

	stmtIdx := make(map[string]int, len(in.Statements))
	members := make([]map[int]bool, len(in.Statements))
	for i, spec := range in.Statements {
		if err := errors.ValidateID("statement", spec.ID); err != nil {
			return nil, err
		}
		if _, dup := stmtIdx[spec.ID]; dup {
			return nil, errorf("duplicate statement id %q", spec.ID).For(spec.ID)
		}
		if spec.X < 0 || spec.Y < 0 || spec.X >= in.Width || spec.Y >= in.Height {
			return nil, errorf("statement %q at (%d,%d) is outside the %dx%d grid",
				spec.ID, spec.X, spec.Y, in.Width, in.Height).For(spec.ID)
		}
		stmtIdx[spec.ID] = i
		members[i] = make(map[int]bool)

		for _, rid := range spec.Regions {
			ri, ok := regionIdx[rid]
			if !ok {
				return nil, errors.New(errors.ErrCodeNotFound, "statement %q references unknown region %q", spec.ID, rid).For(spec.ID)
			}
			members[i][ri] = true
		}
		cell := geom.Point{X: spec.X, Y: spec.Y}
		for ri, r := range d.Regions {
			if r.Shape.Contains(cell) {
				members[i][ri] = true
			}
		}
		d.Statements = append(d.Statements, &Statement{ID: spec.ID, Text: spec.Text, Cell: cell})
	}

	for ri, spec := range in.Regions {
		for _, sid := range spec.Statements {
			si, ok := stmtIdx[sid]
			if !ok {
				return nil, errors.New(errors.ErrCodeNotFound, "region %q references unknown statement %q", spec.ID, sid).For(spec.ID)
			}
			members[si][ri] = true
		}
	}

	for si, s := range d.Statements {
		s.Regions = slices.Sorted(maps.Keys(members[si]))
		for _, ri := range s.Regions {
			d.Regions[ri].Statements = append(d.Regions[ri].Statements, si)
		}
	}

	d.refresh()
	return d, nil
}

// refresh recomputes the singleton rule and visible header counts.
func (d *Diagram) refresh() {
	groups := d.GroupIndex()
	for i, r := range d.Regions {
		r.Singleton = len(r.Statements) <= 1 && groups[i] < 0
		r.VisibleHeaders = len(r.Headers)
		if r.Singleton {
			r.VisibleHeaders = 0
		}
	}
}

// Shapes returns the region shapes in region order.
func (d *Diagram) Shapes() []geom.Polygon {
	shapes := make([]geom.Polygon, len(d.Regions))
	for i, r := range d.Regions {
		shapes[i] = r.Shape
	}
	return shapes
}

// HeaderHeights returns [Region.HeaderHeight] for every region.
func (d *Diagram) HeaderHeights() []int {
	hs := make([]int, len(d.Regions))
	for i, r := range d.Regions {
		hs[i] = r.HeaderHeight()
	}
	return hs
}

// Cells returns the anchor cell of every statement.
func (d *Diagram) Cells() []geom.Point {
	cells := make([]geom.Point, len(d.Statements))
	for i, s := range d.Statements {
		cells[i] = s.Cell
	}
	return cells
}

// RegionIndex returns the index of the region with the given ID.
func (d *Diagram) RegionIndex(id string) (int, bool) {
	for i, r := range d.Regions {
		if r.ID == id {
			return i, true
		}
	}
	return -1, false
}

// Degraded returns the number of regions whose coloring fell back.
func (d *Diagram) Degraded() int {
	n := 0
	for _, r := range d.Regions {
		if r.Degraded {
			n++
		}
	}
	return n
}

func errorf(format string, args ...any) *errors.Error {
	return errors.New(errors.ErrCodeInvalidInput, format, args...)
}
