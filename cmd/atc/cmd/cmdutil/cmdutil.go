// Package cmdutil holds helpers shared by the atc subcommands.
package cmdutil

import (
	"atc-transcribe/internal/app/common"
	"atc-transcribe/internal/config"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// LoadSettings resolves settings from the --config file and the environment.
func LoadSettings(cmd *cobra.Command) (*config.Settings, error) {
	path, _ := cmd.Flags().GetString("config")
	return config.Load(path)
}

// NewLogger builds the zap logger for a subcommand. --verbose or
// LOG_DEVELOPMENT switches to the development encoder.
func NewLogger(cmd *cobra.Command, settings *config.Settings) (*zap.Logger, error) {
	verbose, _ := cmd.Flags().GetBool("verbose")
	return common.NewLogger(verbose || settings.LogDevelopment)
}
