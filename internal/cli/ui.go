package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/regionmap/pkg/document"
)

// Terminal palette (ANSI 256).
var (
	colorAccent = lipgloss.Color("36")
	colorOK     = lipgloss.Color("35")
	colorWarn   = lipgloss.Color("220")
	colorFail   = lipgloss.Color("167")
	colorCmd    = lipgloss.Color("75")
	colorText   = lipgloss.Color("255")
	colorMuted  = lipgloss.Color("245")
	colorFaint  = lipgloss.Color("240")
)

var (
	StyleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	StyleDim     = lipgloss.NewStyle().Foreground(colorFaint)
	StyleValue   = lipgloss.NewStyle().Foreground(colorText)
	StyleWarning = lipgloss.NewStyle().Foreground(colorWarn)

	styleSpinner = lipgloss.NewStyle().Foreground(colorAccent)
	styleCommand = lipgloss.NewStyle().Foreground(colorCmd)
	styleKey     = lipgloss.NewStyle().Foreground(colorMuted).Width(12)
)

// stdout is where status lines go. Tests swap it out.
var stdout io.Writer = os.Stdout

// status is a one-line message prefixed with a colored marker.
type status struct {
	marker string
	style  lipgloss.Style
	// tint also colors the message body.
	tint bool
}

var (
	statusOK   = status{marker: "✓", style: lipgloss.NewStyle().Foreground(colorOK)}
	statusFail = status{marker: "✗", style: lipgloss.NewStyle().Foreground(colorFail)}
	statusWarn = status{marker: "!", style: StyleWarning, tint: true}
	statusNote = status{marker: "›", style: lipgloss.NewStyle().Foreground(colorMuted)}
)

func (s status) printf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if s.tint {
		msg = s.style.Render(msg)
	}
	fmt.Fprintln(stdout, s.style.Render(s.marker)+" "+msg)
}

func printSuccess(format string, args ...any) { statusOK.printf(format, args...) }
func printError(format string, args ...any)   { statusFail.printf(format, args...) }
func printWarning(format string, args ...any) { statusWarn.printf(format, args...) }
func printInfo(format string, args ...any)    { statusNote.printf(format, args...) }

// printDetail prints an indented, muted line.
func printDetail(format string, args ...any) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile announces a written output path.
func printFile(path string) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render("→")+" "+StyleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Fprintln(stdout, styleKey.Render(key)+" "+StyleValue.Render(value))
}

// printStats summarizes a layout on one line, e.g.
// "3 regions · 5 statements · 2 overlaps · cached".
func printStats(regionCount, statementCount, edgeCount int, cached bool) {
	counts := []struct {
		n    int
		noun string
	}{
		{regionCount, "region"},
		{statementCount, "statement"},
		{edgeCount, "overlap"},
	}
	var parts []string
	for _, c := range counts {
		if c.n > 0 {
			parts = append(parts, plural(c.n, c.noun))
		}
	}
	source := "fresh"
	if cached {
		source = "cached"
	}
	parts = append(parts, source)
	fmt.Fprintln(stdout, "  "+StyleDim.Render(strings.Join(parts, " · ")))
}

// printDiagnostics reports merged duplicates, unconverged margins and
// degraded colors.
func printDiagnostics(doc document.Document) {
	d := doc.Diagnostics
	if len(d.Merged) > 0 {
		printDetail("Merged %s: %s", plural(len(d.Merged), "duplicate region"), strings.Join(d.Merged, ", "))
	}
	if !d.Converged {
		printWarning("Margins did not converge after %d passes", d.Passes)
	}
	if d.Degraded > 0 {
		printWarning("Palette too small: %s use the fallback color", plural(d.Degraded, "region"))
	}
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

// printNextStep suggests the command to run next.
func printNextStep(description, cmd string) {
	fmt.Fprintln(stdout, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

func printNewline() {
	fmt.Fprintln(stdout)
}
