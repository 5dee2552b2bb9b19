package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// NewGenerateCmd creates the generate subcommand
func NewGenerateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "generate <product-url>",
		Short: "Generate a video ad from a product page",
		Args:  cobra.ExactArgs(1),
		RunE:  runGenerate,
	}
}

func runGenerate(cmd *cobra.Command, args []string) error {
	app, err := GetApp()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	ctrl := app.NewController(newPromptConfirmer(cmd.InOrStdin(), out, false))
	defer ctrl.Close()

	if !quietFlag {
		fmt.Fprintln(out, "Starting video generation...")
	}
	ctrl.SubmitGeneration(cmd.Context(), args[0])

	s := ctrl.State()
	if s.Error != nil {
		return errors.New(s.Error.Display())
	}

	fmt.Fprintln(out, s.StatusMessage)
	fmt.Fprintf(out, "  ID:   %s\n", s.CurrentVideoID)
	if s.CurrentVideoFilename != "" {
		fmt.Fprintf(out, "  File: %s\n", s.CurrentVideoFilename)
		fmt.Fprintf(out, "  URL:  %s\n", ctrl.VideoURL(s.CurrentVideoFilename))
	}
	return nil
}
