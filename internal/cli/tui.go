package cli

import (
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/regionmap/pkg/document"
	"github.com/matzehuels/regionmap/pkg/overlap"
	"github.com/matzehuels/regionmap/pkg/pipeline"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorText)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorFaint)
)

// =============================================================================
// RegionListModel - Interactive region inspection
// =============================================================================

// RegionListModel is the bubbletea model for browsing resolved regions.
type RegionListModel struct {
	Doc    document.Document
	Graph  *overlap.Graph
	Cursor int
	Height int
	Offset int
	Detail bool
}

// NewRegionListModel creates a new region list model.
func NewRegionListModel(doc document.Document) RegionListModel {
	return RegionListModel{
		Doc:    doc,
		Graph:  pipeline.Graph(doc),
		Height: 15,
	}
}

func (m RegionListModel) Init() tea.Cmd {
	return nil
}

func (m RegionListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "esc":
			if !m.Detail {
				return m, tea.Quit
			}
			m.Detail = false
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Doc.Regions)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter", " ":
			if len(m.Doc.Regions) > 0 {
				m.Detail = !m.Detail
			}
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m RegionListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Regions"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ details  q quit"))
	b.WriteString("\n\n")

	if len(m.Doc.Regions) == 0 {
		b.WriteString(listDimStyle.Render("  no regions"))
		b.WriteString("\n")
		return b.String()
	}

	if m.Detail {
		b.WriteString(m.detailView(m.Cursor))
	} else {
		b.WriteString(m.tableView(true))
	}
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Doc.Regions))))

	return b.String()
}

// tableView renders the visible window of regions as a table.
func (m RegionListModel) tableView(withCursor bool) string {
	end := m.Offset + m.Height
	if end > len(m.Doc.Regions) {
		end = len(m.Doc.Regions)
	}

	counts := statementCounts(m.Doc)
	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		r := m.Doc.Regions[i]

		cursor := "  "
		if withCursor && i == m.Cursor {
			cursor = "▸ "
		}

		flags := ""
		if r.Singleton {
			flags += "S"
		}
		if r.Degraded {
			flags += "!"
		}

		rows = append(rows, []string{
			cursor,
			r.ID,
			strings.Join(r.Headers, ", "),
			formatMargins(r.Margins),
			swatches(r.Colors),
			fmt.Sprint(counts[r.ID]),
			fmt.Sprint(m.Graph.Degree(i)),
			flags,
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorMuted).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorFaint)).
		Headers("", "Region", "Headers", "Margins t/r/b/l", "Colors", "Stmts", "Overlaps", "").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			idx := m.Offset + row
			if idx >= len(m.Doc.Regions) {
				return lipgloss.NewStyle()
			}
			base := lipgloss.NewStyle()
			if col == 4 {
				return base
			}
			if col == 7 && m.Doc.Regions[idx].Degraded {
				return base.Foreground(colorWarn)
			}
			if withCursor && idx == m.Cursor {
				return base.Foreground(colorOK).Bold(true)
			}
			if col == 3 || col == 5 || col == 6 {
				return base.Foreground(colorMuted)
			}
			return base
		})

	return t.Render()
}

// detailView renders everything known about region i.
func (m RegionListModel) detailView(i int) string {
	r := m.Doc.Regions[i]
	var b strings.Builder

	line := func(key, value string) {
		keyStyle := lipgloss.NewStyle().Foreground(colorMuted).Width(12)
		b.WriteString("  " + keyStyle.Render(key) + " " + value + "\n")
	}

	b.WriteString(listSelectedStyle.Render("  "+r.ID) + listDimStyle.Render("  "+r.Name) + "\n\n")
	line("Headers", listNormalStyle.Render(strings.Join(r.Headers, ", ")))
	line("Margins", listNormalStyle.Render(formatMargins(r.Margins)))
	line("Colors", swatches(r.Colors)+" "+listDimStyle.Render(strings.Join(r.Colors, " ")))
	line("Bounds", listNormalStyle.Render(fmt.Sprintf("%.0f,%.0f %.0f×%.0f", r.Bounds.X, r.Bounds.Y, r.Bounds.W, r.Bounds.H)))

	var neighbors []string
	for _, j := range m.Graph.Neighbors(i) {
		neighbors = append(neighbors, m.Doc.Regions[j].ID)
	}
	line("Overlaps", listNormalStyle.Render(orDash(strings.Join(neighbors, ", "))))

	var stmts []string
	for _, s := range m.Doc.Statements {
		if slices.Contains(s.Regions, r.ID) {
			stmts = append(stmts, fmt.Sprintf("(%d,%d) %s", s.X, s.Y, s.Text))
		}
	}
	line("Statements", listNormalStyle.Render(orDash(fmt.Sprint(len(stmts)))))
	for _, s := range stmts {
		b.WriteString("    " + listDimStyle.Render(s) + "\n")
	}

	if r.Singleton {
		b.WriteString("\n  " + listDimStyle.Render("singleton: no margins or headers reserved") + "\n")
	}
	if r.Degraded {
		b.WriteString("\n  " + StyleWarning.Render("palette exhausted: fallback color assigned") + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// =============================================================================
// Helpers
// =============================================================================

func statementCounts(doc document.Document) map[string]int {
	counts := make(map[string]int, len(doc.Regions))
	for _, s := range doc.Statements {
		for _, id := range s.Regions {
			counts[id]++
		}
	}
	return counts
}

func formatMargins(m document.Margins) string {
	return fmt.Sprintf("%d/%d/%d/%d", m.Top, m.Right, m.Bottom, m.Left)
}

func swatches(colors []string) string {
	var b strings.Builder
	for _, c := range colors {
		b.WriteString(lipgloss.NewStyle().Background(lipgloss.Color(c)).Render("  "))
	}
	return b.String()
}

func orDash(s string) string {
	if s == "" || s == "0" {
		return "—"
	}
	return s
}
