package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewStatusCmd creates the status subcommand
func NewStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check that the backend is reachable",
		Args:  cobra.NoArgs,
		RunE:  runStatus,
	}
}

func runStatus(cmd *cobra.Command, args []string) error {
	app, err := GetApp()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	fmt.Fprintln(out)
	fmt.Fprintf(out, "  Backend:  %s\n", app.Backend.BaseURL())

	message, err := app.Backend.Ping(cmd.Context())
	if err != nil {
		fmt.Fprintln(out, "  Status:   unreachable")
		fmt.Fprintln(out)
		return err
	}

	fmt.Fprintln(out, "  Status:   ok")
	if message != "" {
		fmt.Fprintf(out, "  Message:  %s\n", message)
	}
	fmt.Fprintf(out, "  Polling:  every %s\n", app.PollInterval)
	fmt.Fprintln(out)
	return nil
}
