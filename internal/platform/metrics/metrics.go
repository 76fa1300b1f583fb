package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics agrupa los colectores del servicio.
// Cada router tiene su propio registry para que los tests puedan crear varios.
type Metrics struct {
	Registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	OracleCallsTotal   *prometheus.CounterVec
	OracleCallDuration prometheus.Histogram

	MatchCandidates        prometheus.Histogram
	MatchesAcceptedTotal   prometheus.Counter
	MatchPersistFailures   prometheus.Counter
	FallbackReadsTotal     *prometheus.CounterVec
	UnlinkedMatchRunsTotal prometheus.Counter
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		Registry: reg,
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"route", "method", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route", "method"},
		),
		OracleCallsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "oracle_calls_total",
				Help: "Similarity oracle calls by outcome (accepted, rejected, unparsable, error)",
			},
			[]string{"outcome"},
		),
		OracleCallDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "oracle_call_duration_seconds",
				Help:    "Duration of a single similarity oracle call",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
			},
		),
		MatchCandidates: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "match_candidates",
				Help:    "Number of lost-pet candidates scored per image-match request",
				Buckets: []float64{0, 1, 5, 10, 25, 50, 100},
			},
		),
		MatchesAcceptedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "matches_accepted_total",
				Help: "Candidates whose confidence passed the acceptance threshold",
			},
		),
		MatchPersistFailures: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "match_persist_failures_total",
				Help: "Accepted matches that could not be stored",
			},
		),
		FallbackReadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "store_fallback_reads_total",
				Help: "Reads served from fixed fallback data because the store is degraded",
			},
			[]string{"resource"},
		),
		UnlinkedMatchRunsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "match_runs_unlinked_total",
				Help: "Image-match runs whose results could not be attached to a sighting",
			},
		),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.OracleCallsTotal,
		m.OracleCallDuration,
		m.MatchCandidates,
		m.MatchesAcceptedTotal,
		m.MatchPersistFailures,
		m.FallbackReadsTotal,
		m.UnlinkedMatchRunsTotal,
	)
	return m
}

// Handler expone el registry en formato Prometheus.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

// Los helpers de abajo toleran receiver nil para que los tests no tengan que armar métricas.

func (m *Metrics) ObserveOracleCall(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.OracleCallsTotal.WithLabelValues(outcome).Inc()
	m.OracleCallDuration.Observe(d.Seconds())
}

func (m *Metrics) ObserveCandidates(n int) {
	if m == nil {
		return
	}
	m.MatchCandidates.Observe(float64(n))
}

func (m *Metrics) MatchAccepted() {
	if m == nil {
		return
	}
	m.MatchesAcceptedTotal.Inc()
}

func (m *Metrics) MatchPersistFailed() {
	if m == nil {
		return
	}
	m.MatchPersistFailures.Inc()
}

func (m *Metrics) MatchRunUnlinked() {
	if m == nil {
		return
	}
	m.UnlinkedMatchRunsTotal.Inc()
}

func (m *Metrics) FallbackRead(resource string) {
	if m == nil {
		return
	}
	m.FallbackReadsTotal.WithLabelValues(resource).Inc()
}
