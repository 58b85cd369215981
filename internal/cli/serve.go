package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/regionmap/internal/server"
)

// serveCommand creates the serve command for running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		timeout time.Duration
		maxBody int64
		caches  cacheFlags
		flags   optionFlags
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API.

Endpoints:
  GET  /healthz              liveness and version
  GET  /v1/palettes          builtin palettes and color strategies
  GET  /v1/stats             event counters since startup
  POST /v1/layout            resolve a diagram into a layout document
  POST /v1/render/{format}   render a diagram to svg, png, pdf, json, dot or graph

Layout and color flags set the defaults each request overrides. Use
--cache redis or --cache mongo with --cache-url to share results between
instances.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			defaults, err := flags.options(cmd, c.Logger)
			if err != nil {
				return err
			}

			runner, err := c.newRunner(ctx, caches)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			srv := server.New(runner, c.Logger, server.Config{
				Addr:         addr,
				MaxBodyBytes: maxBody,
				Timeout:      timeout,
				Defaults:     defaults,
			})
			printSuccess("Serving the regionmap API")
			printKeyValue("Address", addr)
			printKeyValue("Cache", caches.backend)
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", server.DefaultAddr, "listen address")
	cmd.Flags().DurationVar(&timeout, "timeout", server.DefaultTimeout, "per-request timeout")
	cmd.Flags().Int64Var(&maxBody, "max-body", server.DefaultMaxBodyBytes, "maximum request body size in bytes")
	caches.register(cmd)
	flags.registerLayout(cmd)
	flags.registerRender(cmd)

	return cmd
}
