package render

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/matzehuels/regionmap/pkg/color"
	"github.com/matzehuels/regionmap/pkg/document"
)

// SVGOption configures [SVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	fillOpacity float64
	fontSize    float64
	background  string
	grid        bool
}

// WithFillOpacity sets the region fill opacity.
func WithFillOpacity(o float64) SVGOption { return func(r *svgRenderer) { r.fillOpacity = o } }

// WithBackground sets the background color. Empty means transparent.
func WithBackground(c string) SVGOption { return func(r *svgRenderer) { r.background = c } }

// WithGridLines draws the cell grid behind the regions.
func WithGridLines() SVGOption { return func(r *svgRenderer) { r.grid = true } }

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{fillOpacity: 0.35, fontSize: 12, background: "#ffffff"}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// SVG renders the document as an SVG image.
func SVG(doc document.Document, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		doc.Width, doc.Height, doc.Width, doc.Height)
	if r.background != "" {
		fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", r.background)
	}
	if r.grid {
		renderGrid(&buf, doc)
	}

	buf.WriteString(`  <g class="regions">` + "\n")
	for _, reg := range doc.Regions {
		renderRegion(&buf, r, reg)
	}
	buf.WriteString("  </g>\n")

	buf.WriteString(`  <g class="statements">` + "\n")
	for _, s := range doc.Statements {
		renderStatement(&buf, r, s)
	}
	buf.WriteString("  </g>\n")

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderGrid(buf *bytes.Buffer, doc document.Document) {
	buf.WriteString(`  <g class="grid" stroke="#eeeeee" stroke-width="1">` + "\n")
	for _, s := range doc.Statements {
		fmt.Fprintf(buf, `    <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="none"/>`+"\n",
			s.Box.X, s.Box.Y, s.Box.W, s.Box.H)
	}
	buf.WriteString("  </g>\n")
}

func regionColor(reg document.Region, i int) string {
	if i < len(reg.Colors) && reg.Colors[i] != "" {
		return reg.Colors[i]
	}
	return color.Fallback
}

func renderRegion(buf *bytes.Buffer, r svgRenderer, reg document.Region) {
	if len(reg.Outline) == 0 {
		return
	}
	points := make([]string, len(reg.Outline))
	for i, p := range reg.Outline {
		points[i] = fmt.Sprintf("%.1f,%.1f", p.X, p.Y)
	}

	fill := regionColor(reg, 0)
	dash := ""
	if reg.Degraded {
		dash = ` stroke-dasharray="6,3"`
	}
	fmt.Fprintf(buf, `    <polygon id="region-%s" points="%s" fill="%s" fill-opacity="%.2f" stroke="%s" stroke-width="2"%s/>`+"\n",
		escapeXML(reg.ID), strings.Join(points, " "), fill, r.fillOpacity, fill, dash)

	for i, anchor := range reg.HeaderAnchors {
		if i >= len(reg.Headers) {
			break
		}
		fmt.Fprintf(buf, `    <text x="%.1f" y="%.1f" font-family="monospace" font-size="%.0f" font-weight="bold" fill="%s">%s</text>`+"\n",
			anchor.X, anchor.Y, r.fontSize, regionColor(reg, i), escapeXML(reg.Headers[i]))
	}
}

func renderStatement(buf *bytes.Buffer, r svgRenderer, s document.Statement) {
	if len(s.Lines) == 0 {
		return
	}
	fmt.Fprintf(buf, `    <text id="statement-%s" x="%.1f" y="%.1f" font-family="monospace" font-size="%.0f" fill="#222222">`,
		escapeXML(s.ID), s.Box.X, s.Box.Y, r.fontSize)
	for i, line := range s.Lines {
		dy := "1em"
		if i > 0 {
			dy = "1.2em"
		}
		fmt.Fprintf(buf, `<tspan x="%.1f" dy="%s">%s</tspan>`, s.Box.X, dy, escapeXML(line))
	}
	buf.WriteString("</text>\n")
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
