package transcribe

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	outcomeSuccess     = "success"
	outcomeTransport   = "transport_error"
	outcomeApplication = "application_error"
)

// Metrics holds the Prometheus collectors updated by Client.
type Metrics struct {
	Requests        *prometheus.CounterVec
	RequestDuration prometheus.Histogram
	InFlight        prometheus.Gauge
}

// NewMetrics creates the client collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "atc",
			Subsystem: "transcribe",
			Name:      "requests_total",
			Help:      "Total number of transcription requests by outcome",
		}, []string{"outcome"}),
		RequestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "atc",
			Subsystem: "transcribe",
			Name:      "request_duration_seconds",
			Help:      "Time spent waiting on the transcription backend",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		}),
		InFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "atc",
			Subsystem: "transcribe",
			Name:      "requests_in_flight",
			Help:      "Current number of transcription requests awaiting a response",
		}),
	}

	if reg != nil {
		reg.MustRegister(m.Requests, m.RequestDuration, m.InFlight)
	}
	return m
}

func (m *Metrics) begin() func(err error) {
	if m == nil {
		return func(error) {}
	}

	start := time.Now()
	m.InFlight.Inc()
	return func(err error) {
		m.InFlight.Dec()
		m.RequestDuration.Observe(time.Since(start).Seconds())
		m.Requests.WithLabelValues(outcomeOf(err)).Inc()
	}
}

func outcomeOf(err error) string {
	if err == nil {
		return outcomeSuccess
	}
	if e, ok := err.(*Error); ok && e.Kind == KindTransport {
		return outcomeTransport
	}
	return outcomeApplication
}
