package render

import (
	"bytes"
	"context"
	"image/png"
	"os/exec"
	"strings"
	"testing"

	"github.com/matzehuels/regionmap/pkg/document"
	"github.com/matzehuels/regionmap/pkg/errors"
	"github.com/matzehuels/regionmap/pkg/geom"
	"github.com/matzehuels/regionmap/pkg/layout"
)

func testDocument() document.Document {
	return document.Document{
		Width: 200, Height: 100,
		Metrics: layout.DefaultMetrics(),
		Regions: []document.Region{
			{
				ID:            "A",
				Headers:       []string{"Alpha & Co"},
				Colors:        []string{"#ff0000"},
				Outline:       []geom.Vec{{X: 10, Y: 10}, {X: 110, Y: 10}, {X: 110, Y: 60}, {X: 10, Y: 60}},
				HeaderAnchors: []geom.Vec{{X: 20, Y: 25}},
			},
			{
				ID:       "B",
				Headers:  []string{"B"},
				Colors:   []string{"#000000"},
				Degraded: true,
				Outline:  []geom.Vec{{X: 60, Y: 30}, {X: 190, Y: 30}, {X: 190, Y: 90}, {X: 60, Y: 90}},
			},
		},
		Statements: []document.Statement{
			{ID: "s1", Box: layout.Box{X: 70, Y: 40, W: 100, H: 28}, Lines: []string{"first <line>", "second"}},
		},
	}
}

func TestSVG(t *testing.T) {
	svg := string(SVG(testDocument()))

	for _, want := range []string{
		`viewBox="0 0 200.0 100.0"`,
		`id="region-A" points="10.0,10.0 110.0,10.0 110.0,60.0 10.0,60.0" fill="#ff0000"`,
		`stroke-dasharray="6,3"`,
		`>Alpha &amp; Co</text>`,
		`<tspan x="70.0" dy="1em">first &lt;line&gt;</tspan>`,
		`<tspan x="70.0" dy="1.2em">second</tspan>`,
	} {
		if !strings.Contains(svg, want) {
			t.Errorf("SVG() missing %q\n%s", want, svg)
		}
	}
	if strings.Count(svg, "<polygon") != 2 {
		t.Errorf("SVG() polygons = %d, want 2", strings.Count(svg, "<polygon"))
	}
}

func TestSVGOptions(t *testing.T) {
	svg := string(SVG(testDocument(), WithBackground(""), WithFillOpacity(0.5), WithGridLines()))
	if strings.Contains(svg, `fill="#ffffff"`) {
		t.Error("WithBackground(\"\") should drop the background rect")
	}
	if !strings.Contains(svg, `fill-opacity="0.50"`) {
		t.Error("WithFillOpacity not applied")
	}
	if !strings.Contains(svg, `class="grid"`) {
		t.Error("WithGridLines not applied")
	}
}

func TestPNG(t *testing.T) {
	data, err := PNG(testDocument(), 2)
	if err != nil {
		t.Fatalf("PNG() error = %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 400 || b.Dy() != 200 {
		t.Errorf("bounds = %v, want 400x200", b)
	}

	// Inside region A only: a red tint over white.
	r, g, b, _ := img.At(60, 40).RGBA()
	if r <= g || r <= b {
		t.Errorf("pixel in region A = (%d,%d,%d), want red tint", r>>8, g>>8, b>>8)
	}

	if _, err := PNG(document.Document{}, 1); err == nil {
		t.Error("PNG(empty) error = nil")
	}
}

func TestPixelRoot(t *testing.T) {
	in := []byte(`<?xml version="1.0"?>
<svg width="10pt" height="20pt" viewBox="0.00 0.00 10.00 20.00" xmlns="x"><g/></svg>`)
	got := string(pixelRoot(in))
	want := `<?xml version="1.0"?>
<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10.00 20.00" width="10" height="20"><g/></svg>`
	if got != want {
		t.Errorf("pixelRoot() = %s", got)
	}

	for _, plain := range []string{"<svg/>", `<svg viewBox="0 0 0 5">`, "no svg here", `<svg viewBox="a b c d"`} {
		if got := string(pixelRoot([]byte(plain))); got != plain {
			t.Errorf("pixelRoot(%q) = %q, want unchanged", plain, got)
		}
	}
}

func TestSVGToPDF(t *testing.T) {
	prev := PDFCommand
	t.Cleanup(func() { PDFCommand = prev })

	PDFCommand = []string{"regionmap-no-such-converter"}
	_, err := SVGToPDF(context.Background(), []byte("<svg/>"))
	if errors.GetCode(err) != errors.ErrCodeUnsupported {
		t.Errorf("missing converter: err = %v, want UNSUPPORTED", err)
	}

	if _, err := exec.LookPath("cat"); err != nil {
		t.Skip("cat not available")
	}
	PDFCommand = []string{"cat"}
	out, err := SVGToPDF(context.Background(), []byte("<svg/>"))
	if err != nil || string(out) != "<svg/>" {
		t.Errorf("SVGToPDF via cat = %q, %v", out, err)
	}
}
