package layout

import (
	"math/rand"
	"reflect"
	"slices"
	"testing"

	"github.com/matzehuels/regionmap/pkg/diagram"
	"github.com/matzehuels/regionmap/pkg/geom"
	"github.com/matzehuels/regionmap/pkg/overlap"
)

func mustDiagram(t *testing.T, in diagram.Input) *diagram.Diagram {
	t.Helper()
	d, err := diagram.New(in)
	if err != nil {
		t.Fatalf("diagram.New() error = %v", err)
	}
	return d
}

// nestedInput has three rectangles sharing column line 0, smallest inside.
func nestedInput() diagram.Input {
	return diagram.Input{
		Width: 4, Height: 5,
		Regions: []diagram.RegionSpec{
			{ID: "inner", Rect: []int{0, 2, 2, 3}},
			{ID: "middle", Rect: []int{0, 1, 3, 4}},
			{ID: "outer", Rect: []int{0, 0, 4, 5}},
		},
		Statements: []diagram.StatementSpec{
			{ID: "s1", Text: "first", X: 0, Y: 2},
			{ID: "s2", Text: "second", X: 1, Y: 2},
			{ID: "s3", Text: "middle only", X: 2, Y: 1},
			{ID: "s4", Text: "outer only", X: 3, Y: 0},
		},
	}
}

func TestComputeOverlappingSingletons(t *testing.T) {
	d := mustDiagram(t, diagram.Input{
		Width: 3, Height: 3,
		Regions: []diagram.RegionSpec{
			{ID: "A", Rect: []int{0, 0, 2, 2}},
			{ID: "B", Rect: []int{1, 1, 3, 3}},
		},
		Statements: []diagram.StatementSpec{{ID: "s", Text: "shared", X: 1, Y: 1}},
	})
	g := overlap.Build(d.Shapes())
	if !g.Adjacent(0, 1) {
		t.Fatal("A and B must overlap")
	}

	l, err := Compute(d, g, Options{ShowHeaders: true})
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	for _, r := range d.Regions {
		if !r.Singleton {
			t.Errorf("%s.Singleton = false, want true", r.ID)
		}
		if r.Margins != [4]int{} {
			t.Errorf("%s.Margins = %v, want all zero", r.ID, r.Margins)
		}
	}
	want := []int{1, 1, 1, 1}
	if !slices.Equal(l.Gaps.Rows, want) || !slices.Equal(l.Gaps.Columns, want) {
		t.Errorf("Gaps = %+v, want all 1", l.Gaps)
	}
}

func TestComputeNested(t *testing.T) {
	d := mustDiagram(t, nestedInput())
	l, err := Compute(d, nil, Options{})
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}

	var left []int
	for _, r := range d.Regions {
		if r.Singleton {
			t.Errorf("%s must not be a singleton", r.ID)
		}
		left = append(left, r.Margins[geom.Left])
	}
	if !slices.Equal(left, []int{0, 1, 2}) {
		t.Errorf("left margins = %v, want [0 1 2]", left)
	}
	if got := l.Gaps.Columns[0]; got != 3 {
		t.Errorf("column 0 gap = %d, want 3", got)
	}
	if !l.Margins.Converged || l.Margins.Passes != 2 {
		t.Errorf("Margins = %+v, want converged after 2 passes", l.Margins)
	}
}

func TestResolveMarginsHeaderReservation(t *testing.T) {
	shapes := []geom.Polygon{geom.Rect(0, 0, 2, 2), geom.Rect(0, 0, 3, 3)}
	g := overlap.Build(shapes)

	res := ResolveMargins(shapes, g, MarginOptions{ShowHeaders: true, HeaderHeights: []int{3, 3}})

	if got := res.Margins[0][geom.Top]; got != 3 {
		t.Errorf("inner top = %d, want 3", got)
	}
	if got := res.Margins[1][geom.Top]; got != 6 {
		t.Errorf("outer top = %d, want 6", got)
	}
	if got := res.Margins[1][geom.Left]; got != 1 {
		t.Errorf("outer left = %d, want 1", got)
	}
	if res.Passes != 2 || res.Raises != 5 {
		t.Errorf("Passes, Raises = %d, %d, want 2, 5", res.Passes, res.Raises)
	}
}

func TestResolveMarginsHeadersOff(t *testing.T) {
	shapes := []geom.Polygon{geom.Rect(0, 0, 2, 2), geom.Rect(0, 0, 3, 3)}
	res := ResolveMargins(shapes, overlap.Build(shapes), MarginOptions{HeaderHeights: []int{3, 3}})

	want := [][4]int{{0, 0, 0, 0}, {1, 0, 0, 1}}
	if !reflect.DeepEqual(res.Margins, want) {
		t.Errorf("Margins = %v, want %v", res.Margins, want)
	}
}

func TestResolveMarginsPassLimit(t *testing.T) {
	d := mustDiagram(t, nestedInput())
	shapes := d.Shapes()

	var raises []Raise
	res := ResolveMargins(shapes, overlap.Build(shapes), MarginOptions{
		MaxPasses: 1,
		Observer:  func(r Raise) { raises = append(raises, r) },
	})
	if res.Converged {
		t.Error("Converged = true, want false when the pass limit is hit")
	}
	if res.Passes != 1 {
		t.Errorf("Passes = %d, want 1", res.Passes)
	}
	want := []Raise{
		{Region: 1, Side: geom.Left, From: 0, To: 1},
		{Region: 2, Side: geom.Left, From: 0, To: 1},
		{Region: 2, Side: geom.Left, From: 1, To: 2},
	}
	if !reflect.DeepEqual(raises, want) {
		t.Errorf("raises = %+v, want %+v", raises, want)
	}
}

func TestResolveMarginsEmpty(t *testing.T) {
	res := ResolveMargins(nil, overlap.Build(nil), MarginOptions{ShowHeaders: true})
	if len(res.Margins) != 0 || !res.Converged || res.Passes != 1 {
		t.Errorf("ResolveMargins(nil) = %+v, want empty converged result", res)
	}

	gaps := ResolveGaps(GapInput{Width: 2, Height: 1})
	if !slices.Equal(gaps.Rows, []int{1, 1}) || !slices.Equal(gaps.Columns, []int{1, 1, 1}) {
		t.Errorf("ResolveGaps() = %+v, want all 1", gaps)
	}
}

// randomRects builds rectangles snapped to a coarse grid so many of them
// share lines.
func randomRects(seed int64, n, size int) []geom.Polygon {
	rng := rand.New(rand.NewSource(seed))
	shapes := make([]geom.Polygon, n)
	for i := range shapes {
		x1, y1 := rng.Intn(size-1), rng.Intn(size-1)
		x2, y2 := x1+1+rng.Intn(size-x1-1), y1+1+rng.Intn(size-y1-1)
		shapes[i] = geom.Rect(x1, y1, x2, y2)
	}
	return shapes
}

func TestResolveMarginsInvariants(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		shapes := randomRects(seed, 12, 6)
		g := overlap.Build(shapes)

		last := make([][4]int, len(shapes))
		res := ResolveMargins(shapes, g, MarginOptions{
			Observer: func(r Raise) {
				if r.To <= r.From {
					t.Errorf("seed %d: non-increasing raise %+v", seed, r)
				}
				if last[r.Region][r.Side] != r.From {
					t.Errorf("seed %d: raise %+v does not start from previous value %d", seed, r, last[r.Region][r.Side])
				}
				last[r.Region][r.Side] = r.To
			},
		})

		if !res.Converged {
			t.Fatalf("seed %d: margins did not converge", seed)
		}
		if n := len(shapes); res.Passes > n*n+n+1 {
			t.Errorf("seed %d: Passes = %d exceeds bound", seed, res.Passes)
		}
		if !reflect.DeepEqual(last, res.Margins) {
			t.Errorf("seed %d: observed margins differ from result", seed)
		}

		ivs := Intervals(shapes)
		for a := range ivs {
			for b := a + 1; b < len(ivs); b++ {
				x, y := ivs[a], ivs[b]
				if x.Region == y.Region || x.Side != y.Side || x.Line != y.Line || !x.Span.Intersects(y.Span) {
					continue
				}
				if res.Margins[x.Region][x.Side] == res.Margins[y.Region][y.Side] {
					t.Errorf("seed %d: regions %d and %d share margin %d on %s line %d",
						seed, x.Region, y.Region, res.Margins[x.Region][x.Side], x.Side, x.Line)
				}
			}
		}

		gaps := ResolveGaps(GapInput{Width: 6, Height: 6, Intervals: ivs, Margins: res.Margins})
		for _, v := range append(slices.Clone(gaps.Rows), gaps.Columns...) {
			if v < 1 {
				t.Errorf("seed %d: gap %d < 1", seed, v)
			}
		}
		for a := range ivs {
			for b := range ivs {
				x, y := ivs[a], ivs[b]
				if x.Side != y.Side.Opposite() || x.Line != y.Line || !x.Span.Intersects(y.Span) {
					continue
				}
				gap := gaps.line(x.Side)[x.Line]
				if sum := res.Margins[x.Region][x.Side] + res.Margins[y.Region][y.Side]; gap <= sum {
					t.Errorf("seed %d: gap %d on line %d not above margin sum %d", seed, gap, x.Line, sum)
				}
			}
		}
	}
}

func TestComputeDeterministic(t *testing.T) {
	run := func() (*Layout, [][4]int) {
		d := mustDiagram(t, nestedInput())
		l, err := Compute(d, nil, Options{ShowHeaders: true})
		if err != nil {
			t.Fatalf("Compute() error = %v", err)
		}
		var ms [][4]int
		for _, r := range d.Regions {
			ms = append(ms, r.Margins)
		}
		return l, ms
	}

	l1, m1 := run()
	l2, m2 := run()
	if !reflect.DeepEqual(l1, l2) || !reflect.DeepEqual(m1, m2) {
		t.Error("Compute() is not deterministic")
	}
}

func TestResolveGapsVisibility(t *testing.T) {
	// One region (1,1)-(3,3) with margin 2 on every side in a 4x4 grid.
	ivs := Intervals([]geom.Polygon{geom.Rect(1, 1, 3, 3)})
	margins := [][4]int{{2, 2, 2, 2}}

	t.Run("hidden", func(t *testing.T) {
		gaps := ResolveGaps(GapInput{Width: 4, Height: 4, Intervals: ivs, Margins: margins})
		if !slices.Equal(gaps.Columns, []int{1, 1, 1, 1, 1}) {
			t.Errorf("Columns = %v, want all 1", gaps.Columns)
		}
	})

	t.Run("statement left of region", func(t *testing.T) {
		gaps := ResolveGaps(GapInput{
			Width: 4, Height: 4, Intervals: ivs, Margins: margins,
			Cells: []geom.Point{{X: 0, Y: 2}},
		})
		if !slices.Equal(gaps.Columns, []int{1, 3, 1, 1, 1}) {
			t.Errorf("Columns = %v, want [1 3 1 1 1]", gaps.Columns)
		}
		if !slices.Equal(gaps.Rows, []int{1, 1, 1, 1, 1}) {
			t.Errorf("Rows = %v, want all 1", gaps.Rows)
		}
	})

	t.Run("statement below region", func(t *testing.T) {
		gaps := ResolveGaps(GapInput{
			Width: 4, Height: 4, Intervals: ivs, Margins: margins,
			Cells: []geom.Point{{X: 1, Y: 3}},
		})
		if !slices.Equal(gaps.Rows, []int{1, 1, 1, 3, 1}) {
			t.Errorf("Rows = %v, want [1 1 1 3 1]", gaps.Rows)
		}
	})

	t.Run("header band", func(t *testing.T) {
		gaps := ResolveGaps(GapInput{
			Width: 4, Height: 4, Intervals: ivs, Margins: margins,
			HeaderBands: []bool{true},
		})
		if !slices.Equal(gaps.Rows, []int{1, 3, 1, 1, 1}) {
			t.Errorf("Rows = %v, want [1 3 1 1 1]", gaps.Rows)
		}
	})
}

func TestResolveGapsOppositeSum(t *testing.T) {
	// Two rectangles meeting at column line 2.
	shapes := []geom.Polygon{geom.Rect(0, 0, 2, 2), geom.Rect(2, 0, 4, 2)}
	margins := [][4]int{{0, 2, 0, 0}, {0, 0, 0, 3}}
	gaps := ResolveGaps(GapInput{Width: 4, Height: 2, Intervals: Intervals(shapes), Margins: margins})
	if got := gaps.Columns[2]; got != 6 {
		t.Errorf("column 2 gap = %d, want 6", got)
	}
}

func TestWrap(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		limit int
		want  []string
	}{
		{"fits", "hello", 10, []string{"hello"}},
		{"words", "hello world foo", 11, []string{"hello world", "foo"}},
		{"long word", "abcdefghij", 4, []string{"abcd", "efgh", "ij"}},
		{"wide runes", "日本語", 4, []string{"日本", "語"}},
		{"newline", "a\nb", 10, []string{"a", "b"}},
		{"empty", "", 5, nil},
		{"blank", "   ", 5, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Wrap(tt.text, tt.limit); !slices.Equal(got, tt.want) {
				t.Errorf("Wrap(%q, %d) = %q, want %q", tt.text, tt.limit, got, tt.want)
			}
		})
	}
}

func TestCellHeights(t *testing.T) {
	got := CellHeights(3, []string{"hello world foo", "x", "y"}, []int{0, 0, 2}, 11, 1)
	if want := []int{3, 1, 2}; !slices.Equal(got, want) {
		t.Errorf("CellHeights() = %v, want %v", got, want)
	}
}

func TestPlaceRegion(t *testing.T) {
	m := DefaultMetrics()
	grid := NewGrid(m, NewGapTable(1, 1), []int{1})

	if grid.Width != 180 || grid.Height != 34 {
		t.Fatalf("grid size = %vx%v, want 180x34", grid.Width, grid.Height)
	}

	rp := PlaceRegion(grid, m, geom.Rect(0, 0, 1, 1), [4]int{}, 0)
	want := []geom.Vec{{X: 10, Y: 10}, {X: 170, Y: 10}, {X: 170, Y: 24}, {X: 10, Y: 24}}
	if !reflect.DeepEqual(rp.Outline, want) {
		t.Errorf("Outline = %v, want %v", rp.Outline, want)
	}

	rp = PlaceRegion(grid, m, geom.Rect(0, 0, 1, 1), [4]int{1, 2, 0, 1}, 1)
	if want := (Box{X: 0, Y: 0, W: 190, H: 24}); rp.Bounds != want {
		t.Errorf("Bounds = %+v, want %+v", rp.Bounds, want)
	}
	if len(rp.Headers) != 1 || rp.Headers[0] != (geom.Vec{X: 10, Y: 20}) {
		t.Errorf("Headers = %v, want [{10 20}]", rp.Headers)
	}
}

func TestPlaceLShape(t *testing.T) {
	l, err := geom.NewPolygon([]geom.Point{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 2}, {X: 0, Y: 2}})
	if err != nil {
		t.Fatal(err)
	}
	m := DefaultMetrics()
	grid := NewGrid(m, NewGapTable(2, 2), []int{1, 1})
	rp := PlaceRegion(grid, m, l, [4]int{}, 0)

	// The inner corner (1,1) is bounded by a bottom edge and a right edge.
	inner := rp.Outline[3]
	if inner.X != grid.LineX(1) || inner.Y != grid.LineY(1) {
		t.Errorf("inner corner = %v, want (%v,%v)", inner, grid.LineX(1), grid.LineY(1))
	}
}
