// Package mock serves a stand-in for the transcription backend. It answers
// from a fixed table of transcripts and is meant for local development and
// tests, not for transcribing audio.
package mock

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"atc-transcribe/internal/api/middleware"
	"atc-transcribe/internal/app/api/transcribe"
	"atc-transcribe/internal/app/common"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Config represents mock backend configuration
type Config struct {
	Addr        string
	Transcripts map[string]string // audio path -> transcript
	Default     string            // used for unknown paths when non-empty
	Latency     time.Duration     // added before every answer
}

// Server is the mock transcription backend.
type Server struct {
	config     Config
	router     *gin.Engine
	httpServer *http.Server
	logger     *zap.Logger
	requests   *prometheus.CounterVec

	mu          sync.RWMutex
	transcripts map[string]string
}

// NewServer creates a mock backend. Metrics are registered with reg and
// served from gatherer; either may be nil to disable /metrics.
func NewServer(config Config, logger *zap.Logger, reg prometheus.Registerer, gatherer prometheus.Gatherer) *Server {
	logger = common.OrNop(logger)
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		config:      config,
		logger:      logger,
		transcripts: make(map[string]string, len(config.Transcripts)),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "atc",
			Subsystem: "mock_backend",
			Name:      "requests_total",
			Help:      "Total number of transcribe requests served by outcome",
		}, []string{"outcome"}),
	}
	for k, v := range config.Transcripts {
		s.transcripts[k] = v
	}
	if reg != nil {
		reg.MustRegister(s.requests)
	}

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.StructuredLogging(logger))
	router.Use(middleware.Recovery(logger))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now().Unix(),
		})
	})
	router.POST("/transcribe", s.handleTranscribe)
	if gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	s.router = router
	s.httpServer = &http.Server{
		Addr:              config.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the HTTP handler, for use with httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// SetTranscript adds or replaces the canned transcript for audioPath.
func (s *Server) SetTranscript(audioPath, transcript string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transcripts[audioPath] = transcript
}

func (s *Server) lookup(audioPath string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	text, ok := s.transcripts[audioPath]
	if !ok && s.config.Default != "" {
		return s.config.Default, true
	}
	return text, ok
}

// transcribeRequest mirrors transcribe.Request with binding rules.
type transcribeRequest struct {
	AudioPath *string `json:"audio_path" binding:"required"`
}

func (s *Server) handleTranscribe(c *gin.Context) {
	var req transcribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.requests.WithLabelValues("invalid").Inc()
		c.Error(err)
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}

	if s.config.Latency > 0 {
		select {
		case <-time.After(s.config.Latency):
		case <-c.Request.Context().Done():
			return
		}
	}

	text, ok := s.lookup(*req.AudioPath)
	if !ok {
		// the backend reports missing audio in the body with status 200
		s.requests.WithLabelValues("not_found").Inc()
		c.JSON(http.StatusOK, gin.H{"error": fmt.Sprintf("Audio file not found: %s", *req.AudioPath)})
		return
	}

	s.requests.WithLabelValues("ok").Inc()
	c.JSON(http.StatusOK, transcribe.Response{Transcript: &text})
}

// Start serves until ctx is done, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("mock backend listening", zap.String("addr", s.config.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.logger.Info("shutting down mock backend")
	return s.httpServer.Shutdown(shutdownCtx)
}

// LoadTranscripts reads a YAML mapping of audio path to transcript.
func LoadTranscripts(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read transcripts file: %w", err)
	}

	transcripts := make(map[string]string)
	if err := yaml.Unmarshal(data, &transcripts); err != nil {
		return nil, fmt.Errorf("failed to parse transcripts YAML: %w", err)
	}
	return transcripts, nil
}
