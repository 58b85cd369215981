package render

import (
	"bytes"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/regionmap/pkg/errors"
)

// GraphSVG lays out a DOT graph with Graphviz and returns it as SVG.
func GraphSVG(ctx context.Context, dot string) ([]byte, error) {
	graph, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse DOT")
	}
	defer graph.Close()

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "start graphviz")
	}
	defer gv.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, graph, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "graphviz layout")
	}
	return pixelRoot(buf.Bytes()), nil
}

// pixelRoot rewrites the opening <svg> tag so that the viewBox starts at
// the origin and the size is in pixels rather than Graphviz points.
// Input without a usable viewBox is returned unchanged.
func pixelRoot(svg []byte) []byte {
	start := bytes.Index(svg, []byte("<svg"))
	if start < 0 {
		return svg
	}
	end := bytes.IndexByte(svg[start:], '>')
	if end < 0 {
		return svg
	}
	end += start + 1

	var x, y, w, h float64
	viewBox := attr(string(svg[start:end]), "viewBox")
	if _, err := fmt.Sscanf(viewBox, "%g %g %g %g", &x, &y, &w, &h); err != nil || w <= 0 || h <= 0 {
		return svg
	}
	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return slices.Concat(svg[:start], []byte(root), svg[end:])
}

// attr returns the value of a double-quoted attribute in tag.
func attr(tag, name string) string {
	_, rest, ok := strings.Cut(tag, " "+name+`="`)
	if !ok {
		return ""
	}
	v, _, _ := strings.Cut(rest, `"`)
	return v
}
