package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/regionmap/pkg/pipeline"
)

// graphCommand creates the graph command for rendering the overlap graph.
func (c *CLI) graphCommand() *cobra.Command {
	var (
		output string
		dot    bool
		caches cacheFlags
		flags  optionFlags
	)

	cmd := &cobra.Command{
		Use:   "graph [diagram]",
		Short: "Render the region overlap graph",
		Long: `Render the region overlap graph.

Each node is a region filled in its first assigned color; an edge joins two
regions whose shapes overlap. The graph is laid out with Graphviz and written
as SVG, or as DOT source with --dot.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags.formats = pipeline.FormatGraphSVG
			if dot {
				flags.formats = pipeline.FormatDOT
			}
			return c.runGraph(cmd, args[0], output, caches, &flags)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.graph.svg or <input>.dot)")
	cmd.Flags().BoolVar(&dot, "dot", false, "write DOT source instead of SVG")
	caches.register(cmd)
	flags.registerLayout(cmd)

	return cmd
}

func (c *CLI) runGraph(cmd *cobra.Command, input, output string, caches cacheFlags, flags *optionFlags) error {
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

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		return err
	}
	paths, err := writeArtifacts(result.Artifacts, output, input)
	if err != nil {
		return err
	}

	components := pipeline.Graph(result.Document).Components()
	printSuccess("Overlap graph complete")
	for _, p := range paths {
		printFile(p)
	}
	printStats(result.Stats.RegionCount, 0, result.Stats.EdgeCount, result.CacheInfo.LayoutHit && result.CacheInfo.RenderHit)
	printDetail("%d connected components", len(components))
	return nil
}
