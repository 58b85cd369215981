package layout

import (
	"fmt"

	"github.com/matzehuels/regionmap/pkg/geom"
)

// Metrics converts grid units to pixels.
type Metrics struct {
	// Unit is the size of one margin or gap unit in pixels.
	Unit float64 `json:"unit" toml:"unit"`
	// CellsPerColumn is the width of one grid column in units.
	CellsPerColumn int `json:"cells_per_column" toml:"cells_per_column"`
	// LineHeight is the height of one line of statement text in pixels.
	LineHeight float64 `json:"line_height" toml:"line_height"`
	// CharWidth is the width of one character cell in pixels, used to
	// derive the wrap width.
	CharWidth float64 `json:"char_width" toml:"char_width"`
	// Padding is added to every row's line count.
	Padding int `json:"padding" toml:"padding"`
}

// DefaultMetrics returns the metrics used when none are configured.
func DefaultMetrics() Metrics {
	return Metrics{Unit: 10, CellsPerColumn: 16, LineHeight: 14, CharWidth: 7, Padding: 1}
}

// SetDefaults fills zero fields from [DefaultMetrics]. Padding keeps its
// value unless the whole struct is zero.
func (m *Metrics) SetDefaults() {
	d := DefaultMetrics()
	if *m == (Metrics{}) {
		*m = d
		return
	}
	if m.Unit == 0 {
		m.Unit = d.Unit
	}
	if m.CellsPerColumn == 0 {
		m.CellsPerColumn = d.CellsPerColumn
	}
	if m.LineHeight == 0 {
		m.LineHeight = d.LineHeight
	}
	if m.CharWidth == 0 {
		m.CharWidth = d.CharWidth
	}
}

// Validate rejects non-positive sizes.
func (m Metrics) Validate() error {
	if m.Unit <= 0 || m.CellsPerColumn <= 0 || m.LineHeight <= 0 || m.CharWidth <= 0 {
		return fmt.Errorf("metrics must be positive: unit=%v cells_per_column=%d line_height=%v char_width=%v",
			m.Unit, m.CellsPerColumn, m.LineHeight, m.CharWidth)
	}
	if m.Padding < 0 {
		return fmt.Errorf("padding must be non-negative, got %d", m.Padding)
	}
	return nil
}

// ColumnWidth returns the pixel width of one grid column.
func (m Metrics) ColumnWidth() float64 { return float64(m.CellsPerColumn) * m.Unit }

// WrapWidth returns how many character cells fit in one column.
func (m Metrics) WrapWidth() int { return max(1, int(m.ColumnWidth()/m.CharWidth)) }

// Box is an axis-aligned pixel rectangle.
type Box struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Grid maps grid lines to pixel positions. Line k owns the pixel band
// [LineX(k), CellX(k)) occupied by its gap; the cell behind it starts at
// CellX(k).
type Grid struct {
	lineX, lineY []float64
	cellX, cellY []float64
	Width        float64
	Height       float64
}

// NewGrid computes line positions from gaps and row heights.
func NewGrid(m Metrics, gaps GapTable, heights []int) Grid {
	g := Grid{
		lineX: make([]float64, len(gaps.Columns)),
		cellX: make([]float64, len(gaps.Columns)),
		lineY: make([]float64, len(gaps.Rows)),
		cellY: make([]float64, len(gaps.Rows)),
	}
	x := 0.0
	for k, gap := range gaps.Columns {
		g.lineX[k] = x
		x += float64(gap) * m.Unit
		g.cellX[k] = x
		x += m.ColumnWidth()
	}
	y := 0.0
	for k, gap := range gaps.Rows {
		g.lineY[k] = y
		y += float64(gap) * m.Unit
		g.cellY[k] = y
		if k < len(heights) {
			y += float64(heights[k]) * m.LineHeight
		}
	}
	if n := len(gaps.Columns); n > 0 {
		g.Width = g.cellX[n-1]
	}
	if n := len(gaps.Rows); n > 0 {
		g.Height = g.cellY[n-1]
	}
	return g
}

// LineX returns where column line k's gap starts.
func (g Grid) LineX(k int) float64 { return g.lineX[k] }

// LineY returns where row line k's gap starts.
func (g Grid) LineY(k int) float64 { return g.lineY[k] }

// CellX returns where cell column k starts.
func (g Grid) CellX(k int) float64 { return g.cellX[k] }

// CellY returns where cell row k starts.
func (g Grid) CellY(k int) float64 { return g.cellY[k] }

// RegionPlacement is the pixel geometry of one region.
type RegionPlacement struct {
	Outline []geom.Vec `json:"outline"`
	Bounds  Box        `json:"bounds"`
	// Headers holds one anchor per visible header, top to bottom.
	Headers []geom.Vec `json:"headers,omitempty"`
}

// StatementPlacement is the pixel box and wrapped text of one statement.
type StatementPlacement struct {
	Box   Box      `json:"box"`
	Lines []string `json:"lines"`
}

// Placement is the pixel layout of a whole diagram.
type Placement struct {
	Width      float64              `json:"width"`
	Height     float64              `json:"height"`
	Regions    []RegionPlacement    `json:"regions"`
	Statements []StatementPlacement `json:"statements"`
}

// vertexPixel offsets a polygon corner by the margins of its incident edges.
// The boundary on the left side starts margin units before the cell, the
// right side ends margin units into the following gap; rows alike.
func vertexPixel(g Grid, m Metrics, v geom.Point, vSide, hSide geom.Side, margins [4]int) geom.Vec {
	var p geom.Vec
	if vSide == geom.Left {
		p.X = g.CellX(v.X) - float64(margins[geom.Left])*m.Unit
	} else {
		p.X = g.LineX(v.X) + float64(margins[geom.Right])*m.Unit
	}
	if hSide == geom.Top {
		p.Y = g.CellY(v.Y) - float64(margins[geom.Top])*m.Unit
	} else {
		p.Y = g.LineY(v.Y) + float64(margins[geom.Bottom])*m.Unit
	}
	return p
}

// PlaceRegion returns the pixel outline of a shape with the given margins.
func PlaceRegion(g Grid, m Metrics, shape geom.Polygon, margins [4]int, visibleHeaders int) RegionPlacement {
	edges := shape.Edges()
	verts := shape.Vertices()
	if len(edges) == 0 || len(edges) != len(verts) {
		return RegionPlacement{}
	}

	rp := RegionPlacement{Outline: make([]geom.Vec, len(verts))}
	for i, v := range verts {
		// Vertex i joins edge i-1 and edge i.
		prev, next := edges[(i+len(edges)-1)%len(edges)], edges[i]
		vSide, hSide := prev.Side, next.Side
		if prev.Side.Horizontal() {
			vSide, hSide = next.Side, prev.Side
		}
		rp.Outline[i] = vertexPixel(g, m, v, vSide, hSide, margins)
	}

	lo, hi := rp.Outline[0], rp.Outline[0]
	for _, p := range rp.Outline[1:] {
		lo = geom.Vec{X: min(lo.X, p.X), Y: min(lo.Y, p.Y)}
		hi = geom.Vec{X: max(hi.X, p.X), Y: max(hi.Y, p.Y)}
	}
	rp.Bounds = Box{X: lo.X, Y: lo.Y, W: hi.X - lo.X, H: hi.Y - lo.Y}

	for h := range visibleHeaders {
		rp.Headers = append(rp.Headers, geom.Vec{
			X: lo.X + m.Unit,
			Y: lo.Y + float64(2*h+2)*m.Unit,
		})
	}
	return rp
}

// PlaceStatement returns the pixel box of a statement cell.
func PlaceStatement(g Grid, m Metrics, cell geom.Point, heights []int, lines []string) StatementPlacement {
	h := 0.0
	if cell.Y < len(heights) {
		h = float64(heights[cell.Y]) * m.LineHeight
	}
	return StatementPlacement{
		Box:   Box{X: g.CellX(cell.X), Y: g.CellY(cell.Y), W: m.ColumnWidth(), H: h},
		Lines: lines,
	}
}
