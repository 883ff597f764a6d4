package mock

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"atc-transcribe/internal/app/api/transcribe"
	apperrors "atc-transcribe/internal/app/errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBackend(t *testing.T, config Config) (*Server, *httptest.Server, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	s := NewServer(config, nil, reg, reg)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts, reg
}

func TestTranscribeRoundTrip(t *testing.T) {
	s, ts, _ := newTestBackend(t, Config{Transcripts: map[string]string{
		"/audio/1.wav": "hello world",
	}})
	client := transcribe.NewClient(transcribe.Config{Endpoint: ts.URL + "/transcribe"})
	ctx := context.Background()

	text, err := client.Transcribe(ctx, "/audio/1.wav")
	require.NoError(t, err)
	assert.Equal(t, "hello world", text)

	_, err = client.Transcribe(ctx, "/audio/unknown.wav")
	assert.ErrorIs(t, err, apperrors.ErrBackendReported)
	assert.Contains(t, err.Error(), "Audio file not found: /audio/unknown.wav")
	assert.Equal(t, transcribe.ErrorText, client.TranscribeText(ctx, "/audio/unknown.wav"))

	s.SetTranscript("/audio/unknown.wav", "now known")
	assert.Equal(t, "now known", client.TranscribeText(ctx, "/audio/unknown.wav"))

	assert.Equal(t, 2.0, testutil.ToFloat64(s.requests.WithLabelValues("ok")))
	assert.Equal(t, 2.0, testutil.ToFloat64(s.requests.WithLabelValues("not_found")))
}

func TestTranscribeDefault(t *testing.T) {
	_, ts, _ := newTestBackend(t, Config{Default: "roger"})
	client := transcribe.NewClient(transcribe.Config{Endpoint: ts.URL + "/transcribe"})

	assert.Equal(t, "roger", client.TranscribeText(context.Background(), "/anything.wav"))
}

func TestTranscribeValidation(t *testing.T) {
	_, ts, _ := newTestBackend(t, Config{})

	testCases := []struct {
		name string
		body string
	}{
		{"missing field", `{}`},
		{"wrong type", `{"audio_path": 7}`},
		{"not json", `audio_path=/a.wav`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := http.Post(ts.URL+"/transcribe", "application/json", strings.NewReader(tc.body))
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		})
	}

	client := transcribe.NewClient(transcribe.Config{Endpoint: ts.URL + "/transcribe"})
	_, err := client.Transcribe(context.Background(), "")
	assert.ErrorIs(t, err, apperrors.ErrBackendReported, "empty paths are forwarded, not rejected")
}

func TestHealthAndMetrics(t *testing.T) {
	_, ts, _ := newTestBackend(t, Config{Default: "x"})
	transcribe.NewClient(transcribe.Config{Endpoint: ts.URL + "/transcribe"}).TranscribeText(context.Background(), "/a.wav")

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), `atc_mock_backend_requests_total{outcome="ok"} 1`)
}

func TestLatencyHonoursClientTimeout(t *testing.T) {
	_, ts, _ := newTestBackend(t, Config{Default: "late", Latency: 500 * time.Millisecond})
	client := transcribe.NewClient(transcribe.Config{Endpoint: ts.URL + "/transcribe", Timeout: 50 * time.Millisecond})

	_, err := client.Transcribe(context.Background(), "/a.wav")
	assert.ErrorIs(t, err, apperrors.ErrConnectionFailed)
}

func TestStart(t *testing.T) {
	s := NewServer(Config{Addr: "127.0.0.1:0"}, nil, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestLoadTranscripts(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "transcripts.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`"/audio/1.wav": "tower, cleared to land"
/audio/2.wav: go around
`), 0644))

	transcripts, err := LoadTranscripts(path)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"/audio/1.wav": "tower, cleared to land",
		"/audio/2.wav": "go around",
	}, transcripts)

	_, err = LoadTranscripts(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
