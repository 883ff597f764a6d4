package cmd

import (
	"os"

	"atc-transcribe/cmd/atc/cmd/config"
	"atc-transcribe/cmd/atc/cmd/mock"
	"atc-transcribe/cmd/atc/cmd/transcribe"
	"atc-transcribe/cmd/atc/cmd/version"

	"github.com/spf13/cobra"
)

var (
	Verbose    bool
	ConfigPath string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "atc",
	Short: "Send recorded audio to the local transcription backend and print the text",
	Long: `Send recorded audio to the local transcription backend and print the text.
- The backend listens on http://localhost:8000/transcribe unless configured otherwise
- Paths are passed to the backend as given; it resolves them itself
- Failed files print "Error during transcription." and make the exit status non-zero`,
	TraverseChildren: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(config.Cmd)
	rootCmd.AddCommand(mock.NewCmd())
	rootCmd.AddCommand(transcribe.NewCmd())
	rootCmd.AddCommand(version.Cmd)

	rootCmd.PersistentFlags().BoolVarP(&Verbose, "verbose", "V", false, "verbose output")
	rootCmd.PersistentFlags().StringVarP(&ConfigPath, "config", "c", "", "YAML config file")
}
