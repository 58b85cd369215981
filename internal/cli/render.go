package cli

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/regionmap/pkg/document"
	"github.com/matzehuels/regionmap/pkg/pipeline"
)

// renderCommand creates the render command for generating outputs.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output string
		caches cacheFlags
		flags  optionFlags
	)

	cmd := &cobra.Command{
		Use:   "render [diagram | layout.json]",
		Short: "Render a diagram or layout document to SVG, PNG, PDF, JSON or DOT",
		Long: `Render a diagram or layout document.

Given a diagram, render runs the complete pipeline (parse, layout, color,
render). Given a document written by 'layout' (*.layout.json), it skips
straight to rendering.

Output files are named after the input unless -o is given. With several
formats, -o is used as the base path.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd, args[0], output, caches, &flags)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	caches.register(cmd)
	flags.registerLayout(cmd)
	flags.registerRender(cmd)

	return cmd
}

// runRender renders input to the requested formats and writes the files.
func (c *CLI) runRender(cmd *cobra.Command, input, output string, caches cacheFlags, flags *optionFlags) error {
	ctx := cmd.Context()
	opts, err := flags.options(cmd, c.Logger)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, caches)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(c.Logger)

	var (
		doc       document.Document
		artifacts map[string][]byte
		layoutHit bool
		renderHit bool
	)
	if strings.HasSuffix(input, layoutSuffix) {
		doc, err = document.ReadFile(input)
		if err != nil {
			return fmt.Errorf("load layout %s: %w", input, err)
		}
		artifacts, renderHit, err = runner.RenderWithCacheInfo(ctx, doc, opts)
		if err != nil {
			return fmt.Errorf("render: %w", err)
		}
		layoutHit = true
	} else {
		if err := flags.readInput(input, &opts); err != nil {
			return fmt.Errorf("read %s: %w", input, err)
		}
		result, err := runner.Execute(ctx, opts)
		if err != nil {
			return err
		}
		doc, artifacts = result.Document, result.Artifacts
		layoutHit, renderHit = result.CacheInfo.LayoutHit, result.CacheInfo.RenderHit
	}
	prog.step("Rendered " + strings.Join(sortedKeys(artifacts), ", "))

	paths, err := writeArtifacts(artifacts, output, input)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Rendered %d regions", len(doc.Regions)))

	printSuccess("Render complete")
	for _, p := range paths {
		printFile(p)
	}
	printStats(len(doc.Regions), len(doc.Statements), len(doc.Edges), layoutHit && renderHit)
	printDiagnostics(doc)
	return nil
}

func sortedKeys(artifacts map[string][]byte) []string {
	keys := make([]string, 0, len(artifacts))
	for k := range artifacts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// writeArtifacts writes each artifact to its output path and returns the
// paths in format order. A single artifact goes to output verbatim when
// output is set.
func writeArtifacts(artifacts map[string][]byte, output, input string) ([]string, error) {
	formats := sortedKeys(artifacts)
	base := basePath(output, input)
	var paths []string
	for _, format := range formats {
		path := base + artifactExt(format)
		if len(formats) == 1 && output != "" {
			path = output
		}
		if err := writeOutput(path, artifacts[format]); err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// artifactExt returns the file extension for a format. The graph format is
// an SVG and must not collide with the diagram SVG.
func artifactExt(format string) string {
	switch format {
	case pipeline.FormatGraphSVG:
		return ".graph.svg"
	case pipeline.FormatJSON:
		return layoutSuffix
	}
	return "." + format
}

func writeOutput(path string, data []byte) error {
	out, err := openOutput(path)
	if err != nil {
		return err
	}
	defer out.Close()
	_, err = out.Write(data)
	return err
}

// openOutput opens path for writing; "-" means stdout.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "-" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
