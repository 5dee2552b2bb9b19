package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/devbush/ad2video/internal/config"
)

// NewConfigCmd creates the config subcommand
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		Long: `Show the configuration after the config file, environment variables
and command line flags have been applied.`,
		RunE: runConfigShow,
	}

	saveCmd := &cobra.Command{
		Use:   "save",
		Short: "Write the effective configuration to the config file",
		Example: `  # Remember a different backend
  ad2video config save --backend-url http://10.0.0.5:8000`,
		RunE: runConfigSave,
	}

	cmd.AddCommand(saveCmd)

	return cmd
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	app, err := GetApp()
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(app.Config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "# %s\n", config.ConfigPath())
	fmt.Fprint(out, string(data))
	return nil
}

func runConfigSave(cmd *cobra.Command, args []string) error {
	app, err := GetApp()
	if err != nil {
		return err
	}

	path := config.ConfigPath()
	if err := app.Config.Save(path); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Saved config to %s\n", path)
	return nil
}
