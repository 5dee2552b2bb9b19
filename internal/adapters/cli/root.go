package cli

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/devbush/ad2video/internal/adapters/cli/tui"
	"github.com/devbush/ad2video/internal/config"
)

var (
	// Global flags
	backendURLFlag   string
	pollIntervalFlag string
	quietFlag        bool
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ad2video",
		Short: "Turn product pages into AI video ads",
		Long: `ad2video is a client for the AI video ad backend.

Submit a product page URL to generate a video ad, then preview,
download or delete the generated videos. Run without arguments
for the interactive dashboard.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runDashboard,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&backendURLFlag, "backend-url", "", "Backend base URL (default from config, http://localhost:8000)")
	rootCmd.PersistentFlags().StringVar(&pollIntervalFlag, "poll-interval", "", "Video list refresh interval (e.g., 5s, 1m)")
	rootCmd.PersistentFlags().BoolVarP(&quietFlag, "quiet", "q", false, "Suppress progress and log output")

	// Add subcommands
	rootCmd.AddCommand(NewVideosCmd())
	rootCmd.AddCommand(NewGenerateCmd())
	rootCmd.AddCommand(NewBatchCmd())
	rootCmd.AddCommand(NewDeleteCmd())
	rootCmd.AddCommand(NewDownloadCmd())
	rootCmd.AddCommand(NewStatusCmd())
	rootCmd.AddCommand(NewCacheCmd())
	rootCmd.AddCommand(NewConfigCmd())

	return rootCmd
}

func runDashboard(cmd *cobra.Command, args []string) error {
	if err := config.EnsureDirs(); err != nil {
		return err
	}

	// The dashboard owns the terminal, so logs go to a file
	logFile, err := tea.LogToFile(config.LogPath(), "ad2video")
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer logFile.Close()

	app, err := NewApp(logFile)
	if err != nil {
		return err
	}

	confirmer := tui.NewConfirmer()
	return tui.RunDashboard(tui.DashboardConfig{
		Controller:  app.NewController(confirmer),
		Downloads:   app.DownloadSvc,
		DownloadDir: app.DownloadDir(),
	}, confirmer)
}

// Execute runs the CLI
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
