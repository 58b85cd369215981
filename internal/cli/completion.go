package cli

import (
	"io"

	"github.com/spf13/cobra"
)

// completionGenerators maps each supported shell to its cobra generator.
var completionGenerators = map[string]func(root *cobra.Command, w io.Writer) error{
	"bash":       func(root *cobra.Command, w io.Writer) error { return root.GenBashCompletionV2(w, true) },
	"zsh":        func(root *cobra.Command, w io.Writer) error { return root.GenZshCompletion(w) },
	"fish":       func(root *cobra.Command, w io.Writer) error { return root.GenFishCompletion(w, true) },
	"powershell": func(root *cobra.Command, w io.Writer) error { return root.GenPowerShellCompletionWithDesc(w) },
}

func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion bash|zsh|fish|powershell",
		Short: "Print a shell completion script",
		Long: `Print a completion script for the given shell on stdout.

  bash:        source <(regionmap completion bash)
  zsh:         regionmap completion zsh > "${fpath[1]}/_regionmap"
  fish:        regionmap completion fish > ~/.config/fish/completions/regionmap.fish
  powershell:  regionmap completion powershell | Out-String | Invoke-Expression

Start a new shell after installing a script file.`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return completionGenerators[args[0]](cmd.Root(), cmd.OutOrStdout())
		},
	}
}
