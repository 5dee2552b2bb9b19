package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/devbush/ad2video/internal/adapters/cli/tui"
)

var clearAllFlag bool

// NewCacheCmd creates the cache subcommand
func NewCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage downloaded videos kept in the local cache",
		RunE:  runCacheStatus,
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear cache entries",
		RunE:  runCacheClear,
	}
	clearCmd.Flags().BoolVar(&clearAllFlag, "all", false, "Clear all cache entries")

	cmd.AddCommand(clearCmd)

	return cmd
}

func runCacheStatus(cmd *cobra.Command, args []string) error {
	app, err := GetApp()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	stats, err := app.CacheSvc.Stats(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Cache Statistics:")
	fmt.Fprintf(out, "  Videos: %d\n", stats.Videos)
	fmt.Fprintf(out, "  Size:   %s\n", tui.FormatSize(stats.Bytes))
	fmt.Fprintf(out, "  TTL:    %s\n", app.Config.Defaults.CacheTTL)
	fmt.Fprintln(out)

	return nil
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	app, err := GetApp()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	ctx := cmd.Context()

	removed, err := app.CacheSvc.Prune(ctx, clearAllFlag)
	if err != nil {
		return err
	}

	if clearAllFlag {
		fmt.Fprintf(out, "All cache entries cleared (%d videos)\n", removed)
	} else {
		fmt.Fprintf(out, "Removed %d expired entries\n", removed)
	}

	return nil
}
