package config

import (
	"fmt"

	"atc-transcribe/cmd/atc/cmd/cmdutil"
	appconfig "atc-transcribe/internal/config"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Cmd represents the config command
var Cmd = &cobra.Command{
	Use:   "config",
	Short: "Show or create the client configuration",
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the resolved configuration as YAML",
	Long: `Print the resolved configuration as YAML.

Values come from the defaults, then --config, then TRANSCRIBE_* variables.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := cmdutil.LoadSettings(cmd)
		if err != nil {
			return err
		}

		data, err := yaml.Marshal(settings)
		if err != nil {
			return fmt.Errorf("failed to marshal config to YAML: %w", err)
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

var initCmd = &cobra.Command{
	Use:   "init <path>",
	Short: "Write a config file with the default settings",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := appconfig.DefaultSettings().Save(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "config written to %s\n", args[0])
		return nil
	},
}

func init() {
	Cmd.AddCommand(showCmd)
	Cmd.AddCommand(initCmd)
}
