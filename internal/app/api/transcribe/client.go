package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"atc-transcribe/internal/app/common"
	apperrors "atc-transcribe/internal/app/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultEndpoint is where the local transcription backend listens.
const DefaultEndpoint = "http://localhost:8000/transcribe"

// maxErrorBody caps how much of a failed response is kept for logging.
const maxErrorBody = 4 << 10

// Config represents configuration for the transcription backend client
type Config struct {
	Endpoint          string            `yaml:"endpoint"`           // Full URL of the transcribe route
	Timeout           time.Duration     `yaml:"timeout"`            // Zero waits as long as the transport allows
	RequireTranscript bool              `yaml:"require_transcript"` // Treat a response without transcript as a failure
	Headers           map[string]string `yaml:"headers"`            // Extra request headers
}

// Request is the body sent to the backend.
type Request struct {
	AudioPath string `json:"audio_path"`
}

// Response is the body the backend answers with.
type Response struct {
	Transcript    *string `json:"transcript"`
	Transcription *string `json:"transcription,omitempty"` // field name used by older backends
	Error         string  `json:"error,omitempty"`
}

// Text returns the transcript and whether the backend supplied one.
func (r *Response) Text() (string, bool) {
	if r.Transcript != nil {
		return *r.Transcript, true
	}
	if r.Transcription != nil {
		return *r.Transcription, true
	}
	return "", false
}

// Client sends audio paths to the transcription backend. It is safe for
// concurrent use.
type Client struct {
	config     Config
	httpClient *http.Client
	logger     *zap.Logger
	metrics    *Metrics
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client. Config.Timeout is not
// applied to a client supplied this way.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLogger sets the logger that receives failure diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		c.logger = common.OrNop(logger)
	}
}

// WithMetrics records every call in m.
func WithMetrics(m *Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// NewClient creates a new transcription client
func NewClient(config Config, opts ...Option) *Client {
	// Set defaults
	if config.Endpoint == "" {
		config.Endpoint = DefaultEndpoint
	}
	if config.Headers == nil {
		config.Headers = make(map[string]string)
	}

	c := &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint returns the URL requests are sent to.
func (c *Client) Endpoint() string {
	return c.config.Endpoint
}

// Transcribe sends audioPath to the backend and returns its transcript.
// audioPath is forwarded without validation. Every failure is logged and
// returned as *Error.
func (c *Client) Transcribe(ctx context.Context, audioPath string) (string, error) {
	done := c.metrics.begin()

	text, err := c.transcribe(ctx, audioPath)
	if err != nil {
		c.logger.Error("transcription error",
			zap.String("audio_path", audioPath),
			zap.String("endpoint", c.config.Endpoint),
			zap.Stringer("kind", err.Kind),
			zap.Int("status", err.StatusCode),
			zap.Error(err.Err),
		)
		done(err)
		return "", err
	}

	done(nil)
	return text, nil
}

// TranscribeText is Transcribe for callers that only display text: any
// failure becomes ErrorText.
func (c *Client) TranscribeText(ctx context.Context, audioPath string) string {
	return Render(c.Transcribe(ctx, audioPath))
}

func (c *Client) transcribe(ctx context.Context, audioPath string) (string, *Error) {
	fail := func(kind Kind, status int, err error) *Error {
		return &Error{Kind: kind, AudioPath: audioPath, StatusCode: status, Err: err}
	}

	body, err := encodeRequest(Request{AudioPath: audioPath})
	if err != nil {
		return "", fail(KindApplication, 0, apperrors.Wrap(err, "failed to encode request"))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fail(KindTransport, 0, apperrors.ErrConnectionFailed.WithCause(err))
	}
	for k, v := range c.config.Headers {
		req.Header.Set(k, v)
	}
	req.Header.Set("Content-Type", "application/json")
	if req.Header.Get("X-Request-ID") == "" {
		req.Header.Set("X-Request-ID", uuid.New().String())
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fail(KindTransport, 0, apperrors.ErrConnectionFailed.WithCause(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return "", fail(KindApplication, resp.StatusCode,
			apperrors.ErrRequestFailed.WithCause(fmt.Errorf("server returned %d - %s", resp.StatusCode, bytes.TrimSpace(snippet))))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		// the connection broke mid-body
		return "", fail(KindTransport, resp.StatusCode, apperrors.ErrConnectionFailed.WithCause(err))
	}

	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return "", fail(KindApplication, resp.StatusCode, apperrors.ErrResponseInvalid.WithCause(fmt.Errorf("null response body")))
	}

	var result Response
	if err := json.Unmarshal(data, &result); err != nil {
		return "", fail(KindApplication, resp.StatusCode, apperrors.ErrResponseInvalid.WithCause(err))
	}

	if result.Error != "" {
		return "", fail(KindApplication, resp.StatusCode, apperrors.ErrBackendReported.WithCause(fmt.Errorf("%s", result.Error)))
	}

	text, ok := result.Text()
	if !ok && c.config.RequireTranscript {
		return "", fail(KindApplication, resp.StatusCode, apperrors.ErrMissingTranscript)
	}
	return text, nil
}

// encodeRequest marshals r without HTML escaping so paths reach the backend
// exactly as given.
func encodeRequest(r Request) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(r); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
