package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	RequestsTotal    *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	RequestsInFlight prometheus.Gauge

	SearchRequestsTotal   *prometheus.CounterVec
	SearchRequestDuration prometheus.Histogram

	StorageWritesTotal *prometheus.CounterVec

	RateLimitHitsTotal prometheus.Counter

	gatherer prometheus.Gatherer
}

// New регистрирует метрики в reg; nil - глобальный registry.
func New(reg *prometheus.Registry) *Metrics {
	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if reg != nil {
		registerer = reg
		gatherer = reg
	}
	f := promauto.With(registerer)

	m := &Metrics{
		RequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "news_digest_http_requests_total",
				Help: "Total number of HTTP requests processed",
			},
			[]string{"route", "status"},
		),
		RequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "news_digest_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
			},
			[]string{"route"},
		),
		RequestsInFlight: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "news_digest_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
		),

		SearchRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "news_digest_search_requests_total",
				Help: "Total number of search provider requests",
			},
			[]string{"status"},
		),
		SearchRequestDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "news_digest_search_request_duration_seconds",
				Help:    "Search provider request duration in seconds",
				Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
			},
		),

		StorageWritesTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "news_digest_storage_writes_total",
				Help: "Total number of search history writes",
			},
			[]string{"mode", "status"},
		),

		RateLimitHitsTotal: f.NewCounter(
			prometheus.CounterOpts{
				Name: "news_digest_rate_limit_hits_total",
				Help: "Total number of rate limited requests",
			},
		),

		gatherer: gatherer,
	}

	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

func (m *Metrics) RecordRequest(route, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(route, status).Inc()
	m.RequestDuration.WithLabelValues(route).Observe(duration.Seconds())
}

func (m *Metrics) RecordSearchRequest(status string, duration time.Duration) {
	m.SearchRequestsTotal.WithLabelValues(status).Inc()
	m.SearchRequestDuration.Observe(duration.Seconds())
}

func (m *Metrics) RecordStorageWrite(mode, status string) {
	m.StorageWritesTotal.WithLabelValues(mode, status).Inc()
}

func (m *Metrics) RecordRateLimitHit() {
	m.RateLimitHitsTotal.Inc()
}

func (m *Metrics) IncRequestsInFlight() {
	m.RequestsInFlight.Inc()
}

func (m *Metrics) DecRequestsInFlight() {
	m.RequestsInFlight.Dec()
}
