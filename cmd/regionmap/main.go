// Command regionmap lays out, colors and renders region diagrams.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/matzehuels/regionmap/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := cli.New(os.Stderr, cli.LogInfo)
	err := c.RootCommand().ExecuteContext(ctx)
	if err != nil && ctx.Err() == nil {
		c.Logger.Error(err)
	}
	stop()
	os.Exit(cli.ExitCode(err))
}
