package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/devbush/ad2video/internal/domain"
)

var yesFlag bool

// NewDeleteCmd creates the delete subcommand
func NewDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "delete <video-id>",
		Aliases: []string{"rm"},
		Short:   "Delete a generated video",
		Args:    cobra.ExactArgs(1),
		RunE:    runDelete,
	}
	cmd.Flags().BoolVarP(&yesFlag, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func runDelete(cmd *cobra.Command, args []string) error {
	app, err := GetApp()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	ctx := cmd.Context()

	ctrl := app.NewController(newPromptConfirmer(cmd.InOrStdin(), out, yesFlag))
	defer ctrl.Close()

	// The title is only known from the list
	id := domain.VideoID(args[0])
	videos, err := app.Backend.ListVideos(ctx)
	if err != nil {
		return err
	}
	video := domain.FindVideo(videos, id)
	if video == nil {
		return fmt.Errorf("%w: %s", domain.ErrVideoNotFound, id)
	}

	before := ctrl.State().Version
	ctrl.DeleteVideo(ctx, id, video.DisplayTitle())

	s := ctrl.State()
	switch {
	case s.Version == before:
		fmt.Fprintln(out, "Cancelled")
		return nil
	case s.Error != nil:
		return errors.New(s.Error.Display())
	}

	// The cached copy is useless once the backend file is gone
	if err := app.CacheSvc.Evict(ctx, video.VideoFilename); err != nil {
		app.Logger.Printf("failed to evict %s from cache: %v", video.VideoFilename, err)
	}

	fmt.Fprintln(out, s.StatusMessage)
	return nil
}
