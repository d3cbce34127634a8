package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "punctuality_board"

// Refresh outcomes
const (
	OutcomeSuccess   = "success"
	OutcomeError     = "error"
	OutcomeDiscarded = "discarded" // resolved after shutdown
)

// Metrics holds the service collectors on a private registry
type Metrics struct {
	Registry *prometheus.Registry

	RefreshTotal      *prometheus.CounterVec
	RefreshDuration   *prometheus.HistogramVec
	LastRefreshTime   *prometheus.GaugeVec
	RowsLoaded        prometheus.Gauge
	HistoryLoaded     prometheus.Gauge
	StreamSubscribers prometheus.Gauge
}

// New registers every collector, plus the Go and process collectors
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		Registry: reg,
		RefreshTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "refresh_total",
			Help:      "Row store refreshes by source and outcome.",
		}, []string{"source", "outcome"}),
		RefreshDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "refresh_duration_seconds",
			Help:      "Row store fetch latency by source.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"source"}),
		LastRefreshTime: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_successful_refresh_timestamp_seconds",
			Help:      "Unix time of the last applied refresh by source.",
		}, []string{"source"}),
		RowsLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "snapshot_rows",
			Help:      "Snapshot rows held in memory.",
		}),
		HistoryLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "weekly_history_items",
			Help:      "Weekly history items held in memory.",
		}),
		StreamSubscribers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "stream_subscribers",
			Help:      "Open dashboard event streams.",
		}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.RefreshTotal,
		m.RefreshDuration,
		m.LastRefreshTime,
		m.RowsLoaded,
		m.HistoryLoaded,
		m.StreamSubscribers,
	)
	return m
}

// ObserveRefresh records one refresh attempt. A nil receiver is a no-op.
func (m *Metrics) ObserveRefresh(source, outcome string, took time.Duration, at time.Time) {
	if m == nil {
		return
	}
	m.RefreshTotal.WithLabelValues(source, outcome).Inc()
	m.RefreshDuration.WithLabelValues(source).Observe(took.Seconds())
	if outcome == OutcomeSuccess {
		m.LastRefreshTime.WithLabelValues(source).Set(float64(at.Unix()))
	}
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
