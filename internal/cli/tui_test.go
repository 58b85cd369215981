package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"

	"github.com/matzehuels/regionmap/pkg/document"
)

func sampleDocument() document.Document {
	return document.Document{
		Regions: []document.Region{
			{ID: "A", Name: "A", Headers: []string{"Alpha"}, Colors: []string{"#a6cee3"}, Margins: document.Margins{Top: 2, Left: 1}},
			{ID: "B", Name: "B", Headers: []string{"Beta", "Gamma"}, Colors: []string{"#b2df8a", "#fb9a99"}},
			{ID: "C", Name: "C", Headers: []string{"Gamma"}, Singleton: true, Degraded: true},
		},
		Statements: []document.Statement{
			{ID: "s1", Text: "left", X: 0, Y: 0, Regions: []string{"A"}},
			{ID: "s2", Text: "both", X: 2, Y: 1, Regions: []string{"A", "B"}},
		},
		Edges: []document.Edge{{From: "A", To: "B"}},
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(m RegionListModel, keys ...string) (RegionListModel, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(key(k))
		m = next.(RegionListModel)
	}
	return m, cmd
}

func TestRegionListNavigation(t *testing.T) {
	m := NewRegionListModel(sampleDocument())

	m, _ = update(m, "down", "down", "down")
	assert.Equal(t, 2, m.Cursor, "cursor stops at the last region")

	m, _ = update(m, "up", "k")
	assert.Equal(t, 0, m.Cursor)

	m, _ = update(m, "up")
	assert.Equal(t, 0, m.Cursor, "cursor stops at the first region")
}

func TestRegionListScrolling(t *testing.T) {
	m := NewRegionListModel(sampleDocument())
	m.Height = 2

	m, _ = update(m, "j", "j")
	assert.Equal(t, 1, m.Offset)

	m, _ = update(m, "k", "k")
	assert.Equal(t, 0, m.Offset)
}

func TestRegionListDetail(t *testing.T) {
	m := NewRegionListModel(sampleDocument())

	m, _ = update(m, "enter")
	assert.True(t, m.Detail)
	view := m.View()
	assert.Contains(t, view, "Overlaps")
	assert.Contains(t, view, "B")
	assert.Contains(t, view, "(2,1) both")
	assert.Contains(t, view, "2/0/0/1")

	m, cmd := update(m, "esc")
	assert.False(t, m.Detail, "esc leaves the detail view first")
	assert.Nil(t, cmd)

	_, cmd = update(m, "esc")
	assert.NotNil(t, cmd, "esc on the table quits")
}

func TestRegionListQuit(t *testing.T) {
	_, cmd := update(NewRegionListModel(sampleDocument()), "q")
	assert.NotNil(t, cmd)
}

func TestRegionListWindowSize(t *testing.T) {
	m := NewRegionListModel(sampleDocument())
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 8})
	assert.Equal(t, 5, next.(RegionListModel).Height)
}

func TestRegionListTable(t *testing.T) {
	m := NewRegionListModel(sampleDocument())
	view := m.tableView(false)

	assert.Contains(t, view, "Beta, Gamma")
	assert.NotContains(t, view, "▸")
	// A has two statements and one overlap.
	lines := strings.Split(view, "\n")
	var row string
	for _, l := range lines {
		if strings.Contains(l, "Alpha") {
			row = l
		}
	}
	assert.Contains(t, row, "2/0/0/1")

	assert.Contains(t, m.View(), "▸")
}

func TestRegionListEmpty(t *testing.T) {
	m := NewRegionListModel(document.Document{})
	m, _ = update(m, "enter", "down")
	assert.False(t, m.Detail)
	assert.Contains(t, m.View(), "no regions")
}

func TestStatementCounts(t *testing.T) {
	counts := statementCounts(sampleDocument())
	assert.Equal(t, 2, counts["A"])
	assert.Equal(t, 1, counts["B"])
	assert.Equal(t, 0, counts["C"])
}

func TestOrDash(t *testing.T) {
	assert.Equal(t, "—", orDash(""))
	assert.Equal(t, "—", orDash("0"))
	assert.Equal(t, "A, B", orDash("A, B"))
}
