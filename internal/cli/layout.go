package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/regionmap/pkg/document"
	"github.com/matzehuels/regionmap/pkg/layout"
	"github.com/matzehuels/regionmap/pkg/pipeline"
)

// layoutCommand creates the layout command for resolving a diagram.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output string
		caches cacheFlags
		flags  optionFlags
	)

	cmd := &cobra.Command{
		Use:   "layout [diagram]",
		Short: "Resolve margins, gaps and colors into a layout document",
		Long: `Resolve margins, gaps and colors into a layout document.

The layout command reads a diagram (JSON, TOML or the .rmap DSL; "-" reads
the DSL from stdin), merges duplicate regions, resolves boundary margins and
gaps, and assigns colors. The output is a layout.json document (same format as
'render -f json') that 'render' and 'inspect' accept directly.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd, args[0], output, caches, &flags)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json, - for stdout)")
	caches.register(cmd)
	flags.registerLayout(cmd)

	return cmd
}

// runLayout parses the diagram, resolves the layout, and writes the document.
func (c *CLI) runLayout(cmd *cobra.Command, input, output string, caches cacheFlags, flags *optionFlags) error {
	ctx := cmd.Context()
	opts, err := flags.options(cmd, c.Logger)
	if err != nil {
		return err
	}
	if err := flags.readInput(input, &opts); err != nil {
		return fmt.Errorf("read %s: %w", input, err)
	}

	runner, err := c.newRunner(ctx, caches)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	doc, cacheHit, err := c.resolve(ctx, runner, opts)
	if err != nil {
		return err
	}

	outputPath := output
	if outputPath == "" {
		outputPath = basePath("", input) + layoutSuffix
	}
	if outputPath == "-" {
		return document.Write(doc, os.Stdout)
	}
	if err := document.WriteFile(doc, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(len(doc.Regions), len(doc.Statements), len(doc.Edges), cacheHit)
	printDiagnostics(doc)
	printNewline()
	printNextStep("Render", appName+" render "+outputPath)

	return nil
}

// resolve runs parse and layout behind a spinner.
func (c *CLI) resolve(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options) (document.Document, bool, error) {
	in, err := runner.Parse(ctx, opts)
	if err != nil {
		return document.Document{}, false, err
	}

	label := fmt.Sprintf("Resolving %d regions", len(in.Regions))
	sp := startSpinner(ctx, os.Stderr, label+"...")
	raises := 0
	opts.Observer = func(r layout.Raise) {
		raises++
		sp.setMessage(fmt.Sprintf("%s (%s, last on %s)...", label, plural(raises, "margin raise"), r.Side))
	}

	doc, cacheHit, err := runner.LayoutWithCacheInfo(ctx, in, opts)
	if err != nil {
		sp.fail("Layout failed")
		return document.Document{}, false, fmt.Errorf("compute layout: %w", err)
	}
	sp.stop()

	if sp.interrupted() {
		return document.Document{}, false, ctx.Err()
	}
	if raises > 0 {
		c.Logger.Debugf("Margins settled after %s", plural(raises, "raise"))
	}
	return doc, cacheHit, nil
}
