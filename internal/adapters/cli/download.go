package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/devbush/ad2video/internal/adapters/cli/tui"
	"github.com/devbush/ad2video/internal/application"
	"github.com/devbush/ad2video/internal/domain"
)

var (
	outputDirFlag string
	openFlag      bool
	noCacheFlag   bool
)

// NewDownloadCmd creates the download subcommand
func NewDownloadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "download <video-id|filename>",
		Short: "Download a generated video",
		Long: `Download a generated video to disk.

The argument is either a video ID from 'ad2video videos' or the
backend filename. With --open the download is handed to the browser
instead.`,
		Args: cobra.ExactArgs(1),
		RunE: runDownload,
	}
	cmd.Flags().StringVarP(&outputDirFlag, "output", "o", "", "Directory to save into (default from config)")
	cmd.Flags().BoolVar(&openFlag, "open", false, "Open the download in the browser")
	cmd.Flags().BoolVar(&noCacheFlag, "no-cache", false, "Skip the download cache")
	return cmd
}

func runDownload(cmd *cobra.Command, args []string) error {
	app, err := GetApp()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	ctx := cmd.Context()

	filename, err := resolveFilename(cmd, app, args[0])
	if err != nil {
		return err
	}

	if openFlag {
		ctrl := app.NewController(newPromptConfirmer(cmd.InOrStdin(), out, false))
		defer ctrl.Close()

		ctrl.RequestDownload(filename)
		if s := ctrl.State(); s.Error != nil {
			return errors.New(s.Error.Display())
		}
		fmt.Fprintf(out, "Opened %s\n", app.Backend.VideoURL(filename))
		return nil
	}

	dir := outputDirFlag
	if dir == "" {
		dir = app.DownloadDir()
	}

	progress := tui.NewDownloadProgress(cmd.ErrOrStderr(), "Downloading "+filename, quietFlag)
	result, err := app.DownloadSvc.Download(ctx, filename, dir, application.DownloadOptions{
		NoCache:  noCacheFlag,
		Progress: progress.Update,
	})
	if err != nil {
		progress.Fail(err)
		return err
	}
	progress.Done(result.Path, result.Size, result.FromCache)

	if quietFlag {
		fmt.Fprintln(out, result.Path)
	}
	return nil
}

// resolveFilename maps a video id to its file, passing filenames through
func resolveFilename(cmd *cobra.Command, app *App, arg string) (string, error) {
	videos, err := app.Backend.ListVideos(cmd.Context())
	if err != nil {
		return "", err
	}

	if v := domain.FindVideo(videos, domain.VideoID(arg)); v != nil {
		if !v.HasFile() {
			return "", fmt.Errorf("video %s is %s and has no file yet: %w", v.ID, v.Status, domain.ErrEmptyFilename)
		}
		return v.VideoFilename, nil
	}
	return arg, nil
}
