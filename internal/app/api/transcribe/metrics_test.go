package transcribe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsRecordOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)

	ok, _ := createMockBackend(t, http.StatusOK, `{"transcript": "hi"}`)
	bad, _ := createMockBackend(t, http.StatusInternalServerError, ``)
	down := httptest.NewServer(http.NotFoundHandler())
	down.Close()

	ctx := context.Background()
	newTestClient(ok, Config{}, WithMetrics(metrics)).Transcribe(ctx, "/a.wav")
	newTestClient(ok, Config{}, WithMetrics(metrics)).Transcribe(ctx, "/b.wav")
	newTestClient(bad, Config{}, WithMetrics(metrics)).Transcribe(ctx, "/c.wav")
	newTestClient(down, Config{}, WithMetrics(metrics)).Transcribe(ctx, "/d.wav")

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.Requests.WithLabelValues(outcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Requests.WithLabelValues(outcomeApplication)))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Requests.WithLabelValues(outcomeTransport)))
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.InFlight))

	count, err := testutil.GatherAndCount(reg, "atc_transcribe_request_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() { m.begin()(nil) })

	unregistered := NewMetrics(nil)
	assert.NotNil(t, unregistered.Requests)
}
