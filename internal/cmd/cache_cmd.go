package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/backoffice/backoffice-cli/internal/cache"
	"github.com/backoffice/backoffice-cli/internal/iocontext"
)

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "cache",
		Aliases: []string{"ch"},
		Short:   "Manage the local cache",
	}

	cmd.AddCommand(newCacheClearCmd())
	cmd.AddCommand(newCachePathCmd())
	return cmd
}

func newCacheClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear cached server data for the active profile",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			a, ctx, err := getApp(cmd)
			if err != nil {
				return err
			}
			if err := a.cache.Clear(ctx); err != nil {
				return fmt.Errorf("failed to clear cache: %w", err)
			}
			if isStructured(cmd) {
				return printJSON(cmd, map[string]any{"cleared": true, "baseUrl": a.client.BaseURL})
			}
			printAction(cmd, "Cleared", "cache for", a.client.BaseURL, "")
			return nil
		}),
	}
}

func newCachePathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show where the cache is stored",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			out := iocontext.GetIO(cmd.Context()).Out
			if redisURL := strings.TrimSpace(os.Getenv("BO_CACHE_REDIS_URL")); redisURL != "" {
				_, _ = fmt.Fprintf(out, "redis: %s\n", redisURL)
				return nil
			}
			dir, err := cache.DefaultDir()
			if err != nil {
				return fmt.Errorf("could not determine cache directory: %w", err)
			}
			_, _ = fmt.Fprintln(out, dir)

			entries, err := os.ReadDir(dir)
			if err != nil {
				return nil
			}
			for _, e := range entries {
				if e.IsDir() {
					continue
				}
				info, err := e.Info()
				if err != nil {
					continue
				}
				_, _ = fmt.Fprintf(out, "  %s (%d bytes)\n", e.Name(), info.Size())
			}
			return nil
		}),
	}
}
