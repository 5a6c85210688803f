package cli

import (
	"context"
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/matzehuels/readability/pkg/cache"
	"github.com/matzehuels/readability/pkg/config"
	"github.com/matzehuels/readability/pkg/errors"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the layout and score cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached layouts and scores",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCacheClear(cmd.Context())
		},
	}
}

func (c *CLI) runCacheClear(ctx context.Context) error {
	store, err := c.config.NewCache(ctx, false)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	defer store.Close()

	clearer, ok := store.(cache.Clearer)
	if !ok {
		return errors.New(errors.ErrCodeUnsupported, "cache backend %q cannot be cleared", c.config.Cache.Backend)
	}
	count, err := clearer.Clear(ctx)
	if err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}

	if count == 0 {
		printInfo("Cache is empty")
		return nil
	}
	printSuccess("Cleared %d cached entries", count)
	printDetail("Location: %s", c.cacheLocation())
	return nil
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where the cache lives",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(c.Out, c.cacheLocation())
			return nil
		},
	}
}

// cacheLocation describes the configured backend: a directory, a redis URL,
// or "disabled".
func (c *CLI) cacheLocation() string {
	switch c.config.Cache.Backend {
	case config.BackendNone:
		return "disabled"
	case config.BackendRedis:
		if u, err := url.Parse(c.config.Cache.RedisURL); err == nil {
			return u.Redacted()
		}
		return "redis"
	}
	if c.config.Cache.Dir != "" {
		return c.config.Cache.Dir
	}
	dir, err := config.CacheDir()
	if err != nil {
		return "unavailable"
	}
	return dir
}
