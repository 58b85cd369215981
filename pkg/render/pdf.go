package render

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/matzehuels/regionmap/pkg/errors"
)

// PDFCommand is the converter behind [SVGToPDF]. It must read SVG on
// stdin and write PDF on stdout. librsvg's rsvg-convert is the default;
// install it with "brew install librsvg" or "apt install librsvg2-bin".
var PDFCommand = []string{"rsvg-convert", "-f", "pdf"}

// SVGToPDF converts an SVG document to PDF with [PDFCommand].
func SVGToPDF(ctx context.Context, svg []byte) ([]byte, error) {
	bin, err := exec.LookPath(PDFCommand[0])
	if err != nil {
		return nil, errors.New(errors.ErrCodeUnsupported,
			"pdf output needs %s on PATH", PDFCommand[0])
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, PDFCommand[1:]...)
	cmd.Stdin = bytes.NewReader(svg)
	cmd.Stdout, cmd.Stderr = &stdout, &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "%s: %s", PDFCommand[0], msg)
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "%s", PDFCommand[0])
	}
	return stdout.Bytes(), nil
}
