package cli

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/devbush/ad2video/internal/adapters/cli/tui"
	"github.com/devbush/ad2video/internal/application"
	"github.com/devbush/ad2video/internal/domain"
)

var watchFlag bool

// NewVideosCmd creates the videos subcommand
func NewVideosCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "videos",
		Aliases: []string{"list", "ls"},
		Short:   "List generated videos",
		Args:    cobra.NoArgs,
		RunE:    runVideos,
	}
	cmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "Keep refreshing the list every poll interval")
	return cmd
}

func runVideos(cmd *cobra.Command, args []string) error {
	app, err := GetApp()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if !watchFlag {
		videos, err := app.Backend.ListVideos(cmd.Context())
		if err != nil {
			return err
		}
		printVideos(out, videos)
		return nil
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var lastSeq uint64
	ctrl := app.NewController(newPromptConfirmer(cmd.InOrStdin(), out, false),
		application.WithOnChange(func(s application.ViewState) {
			if s.ListSeq == lastSeq {
				return
			}
			lastSeq = s.ListSeq
			fmt.Fprintf(out, "\n--- %d videos ---\n", len(s.VideoList))
			printVideos(out, s.VideoList)
		}))
	defer ctrl.Close()

	// Poll returns once the user interrupts
	ctrl.Poll(ctx)
	return nil
}

func printVideos(w io.Writer, videos []domain.VideoRecord) {
	if len(videos) == 0 {
		fmt.Fprintln(w, "No videos generated yet.")
		return
	}

	fmt.Fprintf(w, "%-6s %-40s  %-13s  %-12s  %s\n", "ID", "TITLE", "STATUS", "CREATED", "FILE")
	for i := range videos {
		v := &videos[i]
		file := v.VideoFilename
		if file == "" {
			file = "-"
		}
		fmt.Fprintf(w, "%-6s %s  %s\n", v.ID, tui.FormatVideoLine(v, 40), file)
	}
}
