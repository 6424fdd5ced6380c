package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the ad server.
type Metrics struct {
	// Ingestion metrics
	EventsIngested *prometheus.CounterVec
	IngestFailures *prometheus.CounterVec
	IngestLatency  prometheus.Histogram

	// Stats read path
	StatsQueries *prometheus.CounterVec

	// Ad serving
	AdsServed        prometheus.Counter
	SeenSetFallbacks prometheus.Counter

	// Rate limiting
	RateLimitHits *prometheus.CounterVec
}

// NewMetrics creates and registers all Prometheus metrics.
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		EventsIngested: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "events_ingested_total",
				Help:      "Total engagement events recorded, by type",
			},
			[]string{"event_type"},
		),
		IngestFailures: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "ingest_failures_total",
				Help:      "Rejected or failed event submissions, by reason",
			},
			[]string{"reason"},
		),
		IngestLatency: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "ingest_latency_seconds",
				Help:      "Event ingestion latency in seconds",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
			},
		),
		StatsQueries: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "stats_queries_total",
				Help:      "Stats read requests, by scope",
			},
			[]string{"scope"},
		),
		AdsServed: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "ads_served_total",
				Help:      "Random ads served to apps",
			},
		),
		SeenSetFallbacks: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "seen_set_fallbacks_total",
				Help:      "Ad picks served unfiltered because the seen-set store failed",
			},
		),
		RateLimitHits: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rate_limit_hits_total",
				Help:      "Requests rejected by the rate limiter, by class",
			},
			[]string{"class"},
		),
	}
}

// RecordIngest records a successful ingestion.
func (m *Metrics) RecordIngest(eventType string, took time.Duration) {
	if m == nil {
		return
	}
	m.EventsIngested.WithLabelValues(eventType).Inc()
	m.IngestLatency.Observe(took.Seconds())
}

// RecordIngestFailure records a rejected or failed submission.
func (m *Metrics) RecordIngestFailure(reason string) {
	if m == nil {
		return
	}
	m.IngestFailures.WithLabelValues(reason).Inc()
}

// RecordStatsQuery records a stats read.
func (m *Metrics) RecordStatsQuery(scope string) {
	if m == nil {
		return
	}
	m.StatsQueries.WithLabelValues(scope).Inc()
}

// RecordAdServed records a random-ad response.
func (m *Metrics) RecordAdServed() {
	if m == nil {
		return
	}
	m.AdsServed.Inc()
}

// RecordSeenSetFallback records an unfiltered pick caused by a
// seen-set store failure.
func (m *Metrics) RecordSeenSetFallback() {
	if m == nil {
		return
	}
	m.SeenSetFallbacks.Inc()
}

// RecordRateLimitHit records a rate-limited request.
func (m *Metrics) RecordRateLimitHit(class string) {
	if m == nil {
		return
	}
	m.RateLimitHits.WithLabelValues(class).Inc()
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
