package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/regionmap/pkg/document"
)

// inspectCommand creates the inspect command for browsing resolved regions.
func (c *CLI) inspectCommand() *cobra.Command {
	var (
		plain  bool
		caches cacheFlags
		flags  optionFlags
	)

	cmd := &cobra.Command{
		Use:   "inspect [diagram | layout.json]",
		Short: "Browse resolved regions interactively",
		Long: `Browse resolved regions interactively.

Shows each region's headers, resolved margins, colors, statements and
overlapping neighbors. Accepts a diagram (resolved on the fly) or a document
written by 'layout'. Use --plain to print the table without the interactive
view.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := c.loadDocument(cmd, args[0], caches, &flags)
			if err != nil {
				return err
			}
			model := NewRegionListModel(doc)
			if plain {
				model.Height = len(doc.Regions)
				fmt.Println(model.tableView(false))
				printDiagnostics(doc)
				return nil
			}
			_, err = tea.NewProgram(model, tea.WithContext(cmd.Context())).Run()
			return err
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "print a static table instead of the interactive view")
	caches.register(cmd)
	flags.registerLayout(cmd)

	return cmd
}

// loadDocument reads a layout document, or resolves a diagram into one.
func (c *CLI) loadDocument(cmd *cobra.Command, input string, caches cacheFlags, flags *optionFlags) (document.Document, error) {
	if strings.HasSuffix(input, layoutSuffix) {
		return document.ReadFile(input)
	}

	ctx := cmd.Context()
	opts, err := flags.options(cmd, c.Logger)
	if err != nil {
		return document.Document{}, err
	}
	if err := flags.readInput(input, &opts); err != nil {
		return document.Document{}, fmt.Errorf("read %s: %w", input, err)
	}

	runner, err := c.newRunner(ctx, caches)
	if err != nil {
		return document.Document{}, fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	doc, _, err := c.resolve(ctx, runner, opts)
	return doc, err
}

