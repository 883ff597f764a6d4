package converter

import (
	"context"
	"sync"
	"time"

	"atc-transcribe/internal/app/api"
	"atc-transcribe/internal/app/api/transcribe"
	"atc-transcribe/internal/app/common"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

// Result is the outcome of transcribing one audio path.
type Result struct {
	AudioPath  string
	Transcript string
	Err        error
	Duration   time.Duration
}

// OK reports whether the transcription succeeded.
func (r Result) OK() bool {
	return r.Err == nil
}

// Text is the transcript, or the generic failure text.
func (r Result) Text() string {
	return transcribe.Render(r.Transcript, r.Err)
}

// Summary counts a batch's outcomes.
type Summary struct {
	Total     int
	Succeeded int
	Failed    int
}

// Summarize counts results by outcome.
func Summarize(results []Result) Summary {
	succeeded := lo.CountBy(results, Result.OK)
	return Summary{
		Total:     len(results),
		Succeeded: succeeded,
		Failed:    len(results) - succeeded,
	}
}

// Failed returns the results that carry an error.
func Failed(results []Result) []Result {
	return lo.Reject(results, func(r Result, _ int) bool { return r.OK() })
}

// BatchTranscriber runs one transcription per audio path with bounded parallelism.
type BatchTranscriber struct {
	transcriber api.Transcriber
	parallel    int
	progress    *ProgressManager
	logger      *zap.Logger
}

func NewBatchTranscriber(transcriber api.Transcriber, parallel int, progress ProgressConfig, logger *zap.Logger) *BatchTranscriber {
	if parallel < 1 {
		parallel = 1
	}
	return &BatchTranscriber{
		transcriber: transcriber,
		parallel:    parallel,
		progress:    NewProgressManager(progress),
		logger:      common.OrNop(logger),
	}
}

// Run transcribes every path and returns the results in input order. Paths
// not yet started when ctx is done get ctx's error.
func (b *BatchTranscriber) Run(ctx context.Context, audioPaths []string) []Result {
	results := make([]Result, len(audioPaths))
	if len(audioPaths) == 0 {
		return results
	}

	progressBar := b.progress.CreateBar(len(audioPaths), "Transcribing")
	defer b.progress.Wait()

	b.logger.Info("starting batch transcription",
		zap.Int("files", len(audioPaths)),
		zap.Int("parallel", b.parallel),
	)

	var wg sync.WaitGroup
	sem := make(chan struct{}, b.parallel)

	for i, audioPath := range audioPaths {
		wg.Add(1)
		go func(i int, audioPath string) {
			defer wg.Done()

			start := time.Now()
			result := Result{AudioPath: audioPath}
			defer func() {
				result.Duration = time.Since(start)
				results[i] = result
				progressBar.IncrementBy(result.Duration)
			}()

			if err := ctx.Err(); err != nil {
				result.Err = err
				return
			}
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				result.Err = ctx.Err()
				return
			}
			defer func() { <-sem }()

			result.Transcript, result.Err = b.transcriber.Transcribe(ctx, audioPath)
			if result.Err != nil {
				b.logger.Debug("file failed", zap.String("audio_path", audioPath), zap.Error(result.Err))
			}
		}(i, audioPath)
	}
	wg.Wait()

	summary := Summarize(results)
	b.logger.Info("batch transcription finished",
		zap.Int("succeeded", summary.Succeeded),
		zap.Int("failed", summary.Failed),
	)
	return results
}
