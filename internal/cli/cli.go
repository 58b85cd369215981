// Package cli implements the regionmap command-line interface.
//
// # Commands
//
//   - layout: Resolve margins, gaps and colors into a layout document
//   - render: Generate SVG, PNG, PDF, JSON or DOT outputs
//   - graph: Render the overlap graph
//   - inspect: Browse the resolved regions interactively
//   - serve: Run the HTTP API
//   - cache: Manage the result cache
//
// All commands support --verbose (-v) for debug-level logging.
package cli

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/regionmap/pkg/buildinfo"
	"github.com/matzehuels/regionmap/pkg/cache"
	rmerrors "github.com/matzehuels/regionmap/pkg/errors"
	"github.com/matzehuels/regionmap/pkg/pipeline"
	"github.com/matzehuels/regionmap/pkg/source"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "regionmap"

	// configFile is picked up from the working directory when --config is
	// not given.
	configFile = "regionmap.toml"

	// layoutSuffix marks layout documents written by the layout command.
	layoutSuffix = ".layout.json"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Regionmap lays out and colors overlapping regions on a grid",
		Long:         `Regionmap resolves margins and gaps between labeled regions that share a grid with text statements, assigns distinguishable colors to overlapping regions, and renders the result.`,
		Version:       buildinfo.Version(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetVersionTemplate(buildinfo.Template())

	var verbose bool
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentPreRun = func(*cobra.Command, []string) {
		if verbose {
			c.SetLogLevel(LogDebug)
		}
	}

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// ExitCode maps a command error to the process exit status: 0 on
// success, 130 after an interrupt, 2 for input and usage problems the
// user can fix, and 1 for everything else.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, context.Canceled):
		return 130
	}
	if code := rmerrors.GetCode(err); code != "" && code != rmerrors.ErrCodeInternal {
		return 2
	}
	return 1
}

// =============================================================================
// Runner Factory
// =============================================================================

// cacheFlags selects the cache backend of a command.
type cacheFlags struct {
	disabled  bool
	backend   string
	url       string
	namespace string
}

func (f *cacheFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.disabled, "no-cache", false, "disable caching")
	cmd.Flags().StringVar(&f.backend, "cache", cache.BackendFile, "cache backend: file, redis, mongo, none")
	cmd.Flags().StringVar(&f.url, "cache-url", "", "redis URL or mongo URI for remote cache backends")
	cmd.Flags().StringVar(&f.namespace, "cache-namespace", "", "key namespace, to share one backend between deployments")
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, flags cacheFlags) (*pipeline.Runner, error) {
	store, err := newCache(ctx, flags)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(store, cache.NewKeyer(flags.namespace), c.Logger), nil
}

func newCache(ctx context.Context, flags cacheFlags) (cache.Cache, error) {
	if flags.disabled || flags.backend == cache.BackendNone {
		return cache.NewNullCache(), nil
	}
	cfg := cache.Config{Backend: flags.backend, URL: flags.url}
	if flags.backend == "" || flags.backend == cache.BackendFile {
		dir, err := cacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
		cfg.Dir = dir
	}
	return cache.Open(ctx, cfg)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/regionmap/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// basePath derives the base output path from the output and input paths.
// Known extensions are stripped, including the layout document suffix.
func basePath(output, input string) string {
	if output == "" {
		output = input
		if output == "-" || output == "" {
			return appName
		}
	}
	if strings.HasSuffix(output, layoutSuffix) {
		return strings.TrimSuffix(output, layoutSuffix)
	}
	ext := strings.TrimPrefix(filepath.Ext(output), ".")
	if pipeline.ValidFormats[ext] || isInputExt(ext) {
		return strings.TrimSuffix(output, "."+ext)
	}
	return output
}

func isInputExt(ext string) bool {
	_, err := source.DetectFormat("x." + ext)
	return err == nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// cliDefaults returns the CLI-specific preferences applied when no config
// file is used.
func cliDefaults() pipeline.Options {
	return pipeline.Options{ShowHeaders: true}
}

// optionFlags binds pipeline options to command flags.
type optionFlags struct {
	config      string
	inputFormat string
	formats     string
	colors      string
	opts        pipeline.Options
}

func (f *optionFlags) registerLayout(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.config, "config", "", "TOML config file (default: ./"+configFile+" if present)")
	cmd.Flags().StringVar(&f.inputFormat, "input-format", "", "input format: json, toml, dsl (default: from file extension)")
	cmd.Flags().BoolVar(&f.opts.ShowHeaders, "headers", true, "reserve space for region headers")
	cmd.Flags().BoolVar(&f.opts.SkipMerge, "no-merge", false, "keep regions with identical statements and shapes separate")
	cmd.Flags().IntVar(&f.opts.MaxPasses, "max-passes", 0, "margin resolution pass limit (default: n²+n+1)")
	cmd.Flags().StringVarP(&f.opts.Strategy, "strategy", "s", "", "color strategy: balanced (default), perceptual")
	cmd.Flags().StringVarP(&f.opts.PaletteName, "palette", "p", "", "builtin palette: default, pastel, vivid")
	cmd.Flags().StringVar(&f.colors, "colors", "", "custom palette as comma-separated #rrggbb colors")
	cmd.Flags().BoolVar(&f.opts.Refresh, "refresh", false, "ignore cached results")
}

func (f *optionFlags) registerRender(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.formats, "format", "f", "", "output format(s): svg (default), png, pdf, json, dot, graph (comma-separated)")
	cmd.Flags().Float64Var(&f.opts.Scale, "scale", 0, "PNG scale factor (default 2)")
	cmd.Flags().StringVar(&f.opts.Background, "background", "", "background color as #rrggbb")
	cmd.Flags().BoolVar(&f.opts.GridLines, "grid", false, "draw cell grid lines")
	cmd.Flags().Float64Var(&f.opts.FillOpacity, "opacity", 0, "region fill opacity (default 0.35)")
}

// options merges the config file, the CLI defaults and the flags.
func (f *optionFlags) options(cmd *cobra.Command, logger *log.Logger) (pipeline.Options, error) {
	base := cliDefaults()
	path := f.config
	if path == "" {
		if _, err := os.Stat(configFile); err == nil {
			path = configFile
		}
	}
	if path != "" {
		cfg, err := pipeline.LoadConfig(path)
		if err != nil {
			return pipeline.Options{}, err
		}
		logger.Debug("loaded config", "path", path)
		base = cfg
	}

	flags := f.opts
	// Boolean flags are applied below only when set explicitly.
	flags.ShowHeaders, flags.SkipMerge = false, false
	if f.colors != "" {
		flags.Palette = splitList(f.colors)
	}
	if f.formats != "" {
		flags.Formats = parseFormats(f.formats)
	}
	opts := flags.Override(base)

	if cmd.Flags().Changed("headers") {
		opts.ShowHeaders = f.opts.ShowHeaders
	}
	if cmd.Flags().Changed("no-merge") {
		opts.SkipMerge = f.opts.SkipMerge
	}
	opts.Logger = logger
	return opts, nil
}

// readInput loads the diagram source at path ("-" for stdin) into opts.
func (f *optionFlags) readInput(path string, opts *pipeline.Options) error {
	format := f.inputFormat
	var data []byte
	var err error
	if path == "-" {
		if format == "" {
			format = string(source.FormatDSL)
		}
		data, err = io.ReadAll(os.Stdin)
	} else {
		if format == "" {
			detected, derr := source.DetectFormat(path)
			if derr != nil {
				return derr
			}
			format = string(detected)
		}
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return err
	}
	opts.Source = data
	opts.Format = format
	return nil
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	return splitList(s)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
