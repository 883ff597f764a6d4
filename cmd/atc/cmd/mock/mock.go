package mock

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"atc-transcribe/cmd/atc/cmd/cmdutil"
	mockbackend "atc-transcribe/internal/api/mock"
	"atc-transcribe/internal/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// NewCmd returns the serve-mock command
func NewCmd() *cobra.Command {
	var (
		addr            string
		transcriptsPath string
		defaultText     string
		latency         time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve-mock",
		Short: "Run a mock transcription backend with canned answers",
		Long: `Run a mock transcription backend with canned answers

- POST /transcribe answers from --transcripts (a YAML map of audio path to text)
- Unknown paths get {"error": "Audio file not found: ..."} unless --default is set
- GET /health and GET /metrics are also served`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := cmdutil.LoadSettings(cmd)
			if err != nil {
				return err
			}
			logger, err := cmdutil.NewLogger(cmd, settings)
			if err != nil {
				return err
			}
			defer logger.Sync()

			transcripts := map[string]string{}
			if transcriptsPath != "" {
				if transcripts, err = mockbackend.LoadTranscripts(transcriptsPath); err != nil {
					return err
				}
				logger.Info("loaded transcripts", zap.String("path", transcriptsPath), zap.Int("count", len(transcripts)))
			}

			server := mockbackend.NewServer(mockbackend.Config{
				Addr:        addr,
				Transcripts: transcripts,
				Default:     defaultText,
				Latency:     latency,
			}, logger, prometheus.DefaultRegisterer, prometheus.DefaultGatherer)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return server.Start(ctx)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", config.DefaultMockAddr, "listen address")
	cmd.Flags().StringVar(&transcriptsPath, "transcripts", "", "YAML file mapping audio paths to transcripts")
	cmd.Flags().StringVar(&defaultText, "default", "", "transcript for paths not in --transcripts")
	cmd.Flags().DurationVar(&latency, "latency", 0, "delay added to every answer")

	return cmd
}
