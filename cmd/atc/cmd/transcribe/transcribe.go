package transcribe

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"atc-transcribe/cmd/atc/cmd/cmdutil"
	apitranscribe "atc-transcribe/internal/app/api/transcribe"
	"atc-transcribe/internal/app/converter"
	"atc-transcribe/internal/app/converter/export"
	"atc-transcribe/internal/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type options struct {
	endpoint          string
	timeout           time.Duration
	concurrency       int
	requireTranscript bool
	outputFilePath    string
	progress          bool
	metricsAddr       string
}

// NewCmd returns the transcribe command
func NewCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "transcribe <audio_path>...",
		Short: "Transcribe audio files through the backend",
		Long: `Transcribe audio files through the backend

- Each path is sent to the backend as is, one request per path
- Output is one "path<TAB>text" line per input, in input order
- Use --output to also write the results to an .xlsx or .json file`,
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.endpoint, "url", "u", config.DefaultEndpoint, "transcription endpoint URL")
	cmd.Flags().DurationVarP(&opts.timeout, "timeout", "t", 0, "per-request timeout, 0 waits indefinitely")
	cmd.Flags().IntVarP(&opts.concurrency, "concurrency", "p", config.DefaultConcurrency, "number of requests in flight")
	cmd.Flags().BoolVar(&opts.requireTranscript, "require-transcript", false, "treat a response without a transcript as a failure")
	cmd.Flags().StringVarP(&opts.outputFilePath, "output", "o", "", "write results to this .xlsx or .json file")
	cmd.Flags().BoolVar(&opts.progress, "progress", false, "show a progress bar even when stderr is not a terminal")
	cmd.Flags().StringVar(&opts.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address while running")

	return cmd
}

func run(cmd *cobra.Command, opts *options, args []string) error {
	settings, err := cmdutil.LoadSettings(cmd)
	if err != nil {
		return err
	}
	if err := applyFlags(cmd, opts, settings); err != nil {
		return err
	}

	logger, err := cmdutil.NewLogger(cmd, settings)
	if err != nil {
		return err
	}
	defer logger.Sync()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	metrics := apitranscribe.NewMetrics(reg)
	if opts.metricsAddr != "" {
		stopMetrics := serveMetrics(opts.metricsAddr, reg, logger)
		defer stopMetrics()
	}

	client := apitranscribe.NewClient(settings.ClientConfig(),
		apitranscribe.WithLogger(logger),
		apitranscribe.WithMetrics(metrics),
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	progress := converter.ProgressConfig{
		Enabled: len(args) > 1 && converter.ShouldShowProgress(opts.progress),
		Writer:  cmd.ErrOrStderr(),
	}
	results := converter.NewBatchTranscriber(client, settings.Concurrency, progress, logger).Run(ctx, args)

	out := cmd.OutOrStdout()
	for _, r := range results {
		fmt.Fprintf(out, "%s\t%s\n", r.AudioPath, r.Text())
	}

	if opts.outputFilePath != "" {
		if err := export.ToFile(results, opts.outputFilePath); err != nil {
			return err
		}
		logger.Info("results exported", zap.String("path", opts.outputFilePath))
	}

	if summary := converter.Summarize(results); summary.Failed > 0 {
		return fmt.Errorf("%d of %d transcriptions failed", summary.Failed, summary.Total)
	}
	return nil
}

// applyFlags lets explicitly set flags override file and environment settings.
func applyFlags(cmd *cobra.Command, opts *options, settings *config.Settings) error {
	flags := cmd.Flags()
	if flags.Changed("url") {
		settings.Endpoint = opts.endpoint
	}
	if flags.Changed("timeout") {
		settings.Timeout = opts.timeout
	}
	if flags.Changed("concurrency") {
		settings.Concurrency = opts.concurrency
	}
	if flags.Changed("require-transcript") {
		settings.RequireTranscript = opts.requireTranscript
	}
	return config.Validate(settings)
}

func serveMetrics(addr string, gatherer prometheus.Gatherer, logger *zap.Logger) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	server := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("metrics server stopped", zap.String("addr", addr), zap.Error(err))
		}
	}()
	return func() { server.Close() }
}
