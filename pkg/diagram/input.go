package diagram

import "github.com/matzehuels/regionmap/pkg/geom"

// Input is the serializable description of a diagram. It is what the source
// readers produce and what the HTTP API accepts.
type Input struct {
	Width      int             `json:"width" toml:"width"`
	Height     int             `json:"height" toml:"height"`
	Regions    []RegionSpec    `json:"regions,omitempty" toml:"regions"`
	Statements []StatementSpec `json:"statements,omitempty" toml:"statements"`
}

// RegionSpec describes one region. Exactly one of Rect or Polygon must be set.
type RegionSpec struct {
	ID    string `json:"id" toml:"id"`
	Label string `json:"label,omitempty" toml:"label"` // header text, defaults to ID
	Name  string `json:"name,omitempty" toml:"name"`   // logical entity name, defaults to ID

	// Rect is [x1, y1, x2, y2] in grid line coordinates.
	Rect    []int        `json:"rect,omitempty" toml:"rect"`
	Polygon []geom.Point `json:"polygon,omitempty" toml:"polygon"`

	// Statements lists statement IDs explicitly associated with the region.
	Statements []string `json:"statements,omitempty" toml:"statements"`
}

// StatementSpec describes one statement anchored at cell (X, Y).
type StatementSpec struct {
	ID      string   `json:"id" toml:"id"`
	Text    string   `json:"text" toml:"text"`
	X       int      `json:"x" toml:"x"`
	Y       int      `json:"y" toml:"y"`
	Regions []string `json:"regions,omitempty" toml:"regions"`
}

// Shape builds the polygon described by Rect or Polygon.
func (s RegionSpec) Shape() (geom.Polygon, error) {
	switch {
	case len(s.Rect) > 0 && len(s.Polygon) > 0:
		return geom.Polygon{}, errorf("region %q: rect and polygon are mutually exclusive", s.ID).For(s.ID)
	case len(s.Rect) > 0:
		if len(s.Rect) != 4 {
			return geom.Polygon{}, errorf("region %q: rect needs 4 coordinates, got %d", s.ID, len(s.Rect)).For(s.ID)
		}
		return geom.NewRect(s.Rect[0], s.Rect[1], s.Rect[2], s.Rect[3])
	case len(s.Polygon) > 0:
		return geom.NewPolygon(s.Polygon)
	}
	return geom.Polygon{}, errorf("region %q: missing shape", s.ID).For(s.ID)
}
