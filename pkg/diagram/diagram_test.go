package diagram

import (
	"slices"
	"testing"

	"github.com/matzehuels/regionmap/pkg/errors"
	"github.com/matzehuels/regionmap/pkg/geom"
)

func rect(x1, y1, x2, y2 int) []int { return []int{x1, y1, x2, y2} }

func TestNew(t *testing.T) {
	in := Input{
		Width: 4, Height: 4,
		Regions: []RegionSpec{
			{ID: "a", Label: "Alpha", Rect: rect(0, 0, 2, 2)},
			{ID: "b", Rect: rect(1, 1, 4, 4), Statements: []string{"s3"}},
		},
		Statements: []StatementSpec{
			{ID: "s1", Text: "inside a", X: 0, Y: 0},
			{ID: "s2", Text: "in both", X: 1, Y: 1},
			{ID: "s3", Text: "declared", X: 0, Y: 3},
		},
	}

	d, err := New(in)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	a, b := d.Regions[0], d.Regions[1]
	if a.Name != "a" || !slices.Equal(a.Headers, []string{"Alpha"}) {
		t.Errorf("region a = %+v, want name a and header Alpha", a)
	}
	if !slices.Equal(b.Headers, []string{"b"}) {
		t.Errorf("b.Headers = %v, want [b]", b.Headers)
	}
	if got := a.Statements; !slices.Equal(got, []int{0, 1}) {
		t.Errorf("a.Statements = %v, want [0 1]", got)
	}
	if got := b.Statements; !slices.Equal(got, []int{1, 2}) {
		t.Errorf("b.Statements = %v, want [1 2]", got)
	}
	if got := d.Statements[1].Regions; !slices.Equal(got, []int{0, 1}) {
		t.Errorf("s2.Regions = %v, want [0 1]", got)
	}
	if a.Singleton || b.Singleton {
		t.Error("regions with two statements must not be singletons")
	}
	if a.HeaderHeight() != 3 {
		t.Errorf("a.HeaderHeight() = %d, want 3", a.HeaderHeight())
	}
}

func TestNewErrors(t *testing.T) {
	tests := []struct {
		name string
		in   Input
		code errors.Code
	}{
		{"bad grid", Input{Width: -1, Height: 2}, errors.ErrCodeInvalidInput},
		{"missing shape", Input{Width: 2, Height: 2, Regions: []RegionSpec{{ID: "a"}}}, errors.ErrCodeInvalidShape},
		{"short rect", Input{Width: 2, Height: 2, Regions: []RegionSpec{{ID: "a", Rect: []int{0, 0, 1}}}}, errors.ErrCodeInvalidShape},
		{"both shapes", Input{Width: 2, Height: 2, Regions: []RegionSpec{{
			ID: "a", Rect: rect(0, 0, 1, 1), Polygon: []geom.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}},
		}}}, errors.ErrCodeInvalidShape},
		{"outside grid", Input{Width: 2, Height: 2, Regions: []RegionSpec{{ID: "a", Rect: rect(0, 0, 3, 1)}}}, errors.ErrCodeInvalidInput},
		{"duplicate region", Input{Width: 2, Height: 2, Regions: []RegionSpec{
			{ID: "a", Rect: rect(0, 0, 1, 1)}, {ID: "a", Rect: rect(1, 1, 2, 2)},
		}}, errors.ErrCodeInvalidInput},
		{"statement outside", Input{Width: 2, Height: 2, Statements: []StatementSpec{{ID: "s", X: 2, Y: 0}}}, errors.ErrCodeInvalidInput},
		{"unknown region", Input{Width: 2, Height: 2, Statements: []StatementSpec{{ID: "s", Regions: []string{"x"}}}}, errors.ErrCodeNotFound},
		{"unknown statement", Input{Width: 2, Height: 2, Regions: []RegionSpec{
			{ID: "a", Rect: rect(0, 0, 1, 1), Statements: []string{"x"}},
		}}, errors.ErrCodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.in)
			if err == nil {
				t.Fatal("New() error = nil, want error")
			}
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("GetCode() = %v, want %v (err: %v)", got, tt.code, err)
			}
		})
	}
}

func TestNewEmpty(t *testing.T) {
	d, err := New(Input{Width: 3, Height: 2})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if len(d.Regions) != 0 || len(d.Statements) != 0 {
		t.Errorf("New() = %+v, want empty diagram", d)
	}
}

func TestSingletonRule(t *testing.T) {
	in := Input{
		Width: 6, Height: 2,
		Regions: []RegionSpec{
			{ID: "lone", Rect: rect(0, 0, 1, 1)},
			{ID: "copy1", Name: "shared", Rect: rect(2, 0, 3, 1)},
			{ID: "copy2", Name: "shared", Rect: rect(4, 0, 5, 1)},
		},
		Statements: []StatementSpec{{ID: "s", X: 0, Y: 0}},
	}
	d, err := New(in)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	lone := d.Regions[0]
	if !lone.Singleton || lone.VisibleHeaders != 0 || lone.HeaderHeight() != 0 {
		t.Errorf("lone = %+v, want singleton without visible headers", lone)
	}
	for _, r := range d.Regions[1:] {
		if r.Singleton {
			t.Errorf("%s is a group member and must not be a singleton", r.ID)
		}
		if r.VisibleHeaders != 1 {
			t.Errorf("%s.VisibleHeaders = %d, want 1", r.ID, r.VisibleHeaders)
		}
	}
}

func TestGroups(t *testing.T) {
	in := Input{
		Width: 10, Height: 2,
		Regions: []RegionSpec{
			{ID: "x1", Name: "x", Rect: rect(0, 0, 1, 1)},
			{ID: "y", Rect: rect(4, 0, 5, 1)},
			{ID: "x2", Name: "x", Rect: rect(8, 0, 9, 1)},
		},
	}
	d, err := New(in)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	groups := d.Groups()
	if len(groups) != 1 || !slices.Equal(groups[0], []int{0, 2}) {
		t.Fatalf("Groups() = %v, want [[0 2]]", groups)
	}
	if got := d.GroupIndex(); !slices.Equal(got, []int{0, -1, 0}) {
		t.Errorf("GroupIndex() = %v, want [0 -1 0]", got)
	}

	// y sits 3 units from x1 and 3 units from x2; the group distance is the
	// minimum over both instances.
	if got := d.Distance(1, 0); got != 3 {
		t.Errorf("Distance(y, x1) = %v, want 3", got)
	}
	if got := d.Distance(0, 1); got != d.Distance(2, 1) {
		t.Errorf("Distance must be identical for all instances of a group, got %v and %v", got, d.Distance(2, 1))
	}
}

func TestMergeDuplicates(t *testing.T) {
	in := Input{
		Width: 4, Height: 4,
		Regions: []RegionSpec{
			{ID: "a", Label: "First", Rect: rect(0, 0, 2, 2)},
			{ID: "b", Label: "Other", Rect: rect(2, 2, 4, 4)},
			{ID: "c", Label: "Second", Polygon: []geom.Point{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 2}, {X: 0, Y: 2}}},
			{ID: "d", Rect: rect(0, 0, 2, 1)},
		},
		Statements: []StatementSpec{
			{ID: "s1", X: 0, Y: 0},
			{ID: "s2", X: 1, Y: 1},
			{ID: "s3", X: 3, Y: 3},
		},
	}
	d, err := New(in)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	removed := d.MergeDuplicates()
	if !slices.Equal(removed, []string{"c"}) {
		t.Fatalf("MergeDuplicates() = %v, want [c]", removed)
	}
	if len(d.Regions) != 3 {
		t.Fatalf("len(Regions) = %d, want 3", len(d.Regions))
	}
	if got := d.Regions[0].Headers; !slices.Equal(got, []string{"First", "Second"}) {
		t.Errorf("survivor headers = %v, want [First Second]", got)
	}
	if got := d.Regions[0].VisibleHeaders; got != 2 {
		t.Errorf("survivor VisibleHeaders = %d, want 2", got)
	}
	if d.Regions[2].ID != "d" {
		t.Errorf("Regions[2] = %s, want d", d.Regions[2].ID)
	}
	// s1 was in a, c and d; after merging it references a and d.
	if got := d.Statements[0].Regions; !slices.Equal(got, []int{0, 2}) {
		t.Errorf("s1.Regions = %v, want [0 2]", got)
	}
	if got := d.Statements[2].Regions; !slices.Equal(got, []int{1}) {
		t.Errorf("s3.Regions = %v, want [1]", got)
	}
	if again := d.MergeDuplicates(); again != nil {
		t.Errorf("second MergeDuplicates() = %v, want nil", again)
	}
}

func TestMergeKeepsDifferentShapes(t *testing.T) {
	in := Input{
		Width: 4, Height: 4,
		Regions: []RegionSpec{
			{ID: "a", Rect: rect(0, 0, 2, 2)},
			{ID: "b", Rect: rect(0, 0, 3, 3)},
		},
		Statements: []StatementSpec{{ID: "s1", X: 0, Y: 0}, {ID: "s2", X: 1, Y: 1}},
	}
	d, err := New(in)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if removed := d.MergeDuplicates(); removed != nil {
		t.Errorf("MergeDuplicates() = %v, want nil for different shapes", removed)
	}
}
