package render

import (
	"bytes"
	"fmt"
	"image"
	stdcolor "image/color"
	"image/draw"
	"image/png"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/matzehuels/regionmap/pkg/document"
	"github.com/matzehuels/regionmap/pkg/geom"
)

// PNG renders the document as a PNG image at the given scale.
func PNG(doc document.Document, scale float64) ([]byte, error) {
	if scale <= 0 {
		scale = 1
	}
	w, h := int(doc.Width*scale+0.5), int(doc.Height*scale+0.5)
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("render png: empty drawing (%dx%d)", w, h)
	}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	for _, reg := range doc.Regions {
		c := parseHex(regionColor(reg, 0))
		fill := stdcolor.NRGBA{R: c.R, G: c.G, B: c.B, A: 90}
		fillPolygon(img, reg.Outline, scale, fill)
		strokePolygon(img, reg.Outline, scale, stdcolor.NRGBA{R: c.R, G: c.G, B: c.B, A: 255})
	}

	for _, reg := range doc.Regions {
		for i, anchor := range reg.HeaderAnchors {
			if i < len(reg.Headers) {
				c := parseHex(regionColor(reg, i))
				drawText(img, anchor.X*scale, anchor.Y*scale, reg.Headers[i], c)
			}
		}
	}
	for _, s := range doc.Statements {
		lineHeight := doc.Metrics.LineHeight
		if lineHeight == 0 {
			lineHeight = 14
		}
		for i, line := range s.Lines {
			y := s.Box.Y + float64(i+1)*lineHeight
			drawText(img, s.Box.X*scale, y*scale, line, stdcolor.NRGBA{R: 0x22, G: 0x22, B: 0x22, A: 255})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func parseHex(s string) stdcolor.NRGBA {
	c, err := colorful.Hex(s)
	if err != nil {
		return stdcolor.NRGBA{A: 255}
	}
	r, g, b := c.RGB255()
	return stdcolor.NRGBA{R: r, G: g, B: b, A: 255}
}

func fillPolygon(dst draw.Image, outline []geom.Vec, scale float64, c stdcolor.Color) {
	if len(outline) < 3 {
		return
	}
	b := dst.Bounds()
	z := vector.NewRasterizer(b.Dx(), b.Dy())
	z.DrawOp = draw.Over
	z.MoveTo(float32(outline[0].X*scale), float32(outline[0].Y*scale))
	for _, p := range outline[1:] {
		z.LineTo(float32(p.X*scale), float32(p.Y*scale))
	}
	z.ClosePath()
	z.Draw(dst, b, image.NewUniform(c), image.Point{})
}

// strokePolygon draws each outline edge as a thin quad.
func strokePolygon(dst draw.Image, outline []geom.Vec, scale float64, c stdcolor.Color) {
	const half = 1.0
	for i, a := range outline {
		p := outline[(i+1)%len(outline)]
		x0, y0 := min(a.X, p.X)*scale-half, min(a.Y, p.Y)*scale-half
		x1, y1 := max(a.X, p.X)*scale+half, max(a.Y, p.Y)*scale+half
		fillPolygon(dst, []geom.Vec{{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1}}, 1, c)
	}
}

func drawText(dst draw.Image, x, y float64, s string, c stdcolor.Color) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(int(x), int(y)),
	}
	d.DrawString(s)
}
