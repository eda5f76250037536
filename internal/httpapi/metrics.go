package httpapi

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metric names as constants for consistency.
const (
	MetricHTTPRequestsTotal   = "localagent_http_requests_total"
	MetricHTTPRequestDuration = "localagent_http_request_duration_seconds"
	MetricJournalEntriesTotal = "localagent_journal_entries_written_total"
)

// Metrics holds the Prometheus collectors for the API server.
// All operations are thread-safe.
type Metrics struct {
	requestsTotal      *prometheus.CounterVec
	requestDuration    *prometheus.HistogramVec
	journalEntriesSeen *prometheus.CounterVec
}

// NewMetrics creates the collectors without registering them; call Register
// with the registry the /metrics endpoint serves.
func NewMetrics() *Metrics {
	return &Metrics{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricHTTPRequestsTotal,
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    MetricHTTPRequestDuration,
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{0.01, 0.1, 0.5, 1.0, 2.0, 5.0},
			},
			[]string{"method", "path"},
		),
		journalEntriesSeen: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricJournalEntriesTotal,
				Help: "Journal entries written through the API by event type",
			},
			[]string{"event_type"},
		),
	}
}

func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{
		m.requestsTotal,
		m.requestDuration,
		m.journalEntriesSeen,
	} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// MetricsHandler serves the given registry on /metrics.
func MetricsHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
