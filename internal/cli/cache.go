package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/regionmap/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the layout and artifact cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	var (
		caches  cacheFlags
		expired bool
	)

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove cached layouts and artifacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := newCache(ctx, caches)
			if err != nil {
				return fmt.Errorf("open cache: %w", err)
			}
			defer store.Close()

			if expired {
				n, ok, err := cache.Prune(ctx, store)
				if err != nil {
					return fmt.Errorf("prune cache: %w", err)
				}
				if !ok {
					printInfo("Cache backend %q expires entries on its own", caches.backend)
					return nil
				}
				printSuccess("Removed %d expired cache entries", n)
				return nil
			}

			cleared, err := cache.Clear(ctx, store)
			if err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
			if !cleared {
				printInfo("Cache backend %q keeps nothing to clear", caches.backend)
				return nil
			}

			printSuccess("Cache cleared")
			if fc, ok := store.(*cache.FileCache); ok {
				printDetail("Directory: %s", fc.Dir())
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&expired, "expired", false, "only remove expired entries")
	caches.register(cmd)
	return cmd
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Println(dir)
			return nil
		},
	}
}
