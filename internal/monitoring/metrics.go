// Package monitoring exposes Prometheus metrics for the HTTP surface and the
// capture/sync pipeline.
package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics.
type Metrics struct {
	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	RequestSize     *prometheus.HistogramVec
	ResponseSize    *prometheus.HistogramVec

	// Capture pipeline metrics
	CapturesTotal prometheus.Counter
	RowsExtracted prometheus.Counter

	// Sink metrics
	SinkPushes       *prometheus.CounterVec
	SinkFetches      *prometheus.CounterVec
	SinkRowsAdded    prometheus.Counter
	SinkStatusSynced prometheus.Counter
	SinkRatesSynced  prometheus.Counter

	// Search metrics
	SearchesExecuted   prometheus.Counter
	SearchesSuperseded prometheus.Counter
	CacheLoads         *prometheus.CounterVec

	// System metrics
	Uptime    prometheus.Gauge
	startTime time.Time
}

// NewMetrics creates a metrics collector on the default registry.
func NewMetrics() *Metrics {
	return NewMetricsWith(prometheus.DefaultRegisterer)
}

// NewMetricsWith creates a metrics collector on the given registerer. Tests
// pass a fresh registry to avoid duplicate registration.
func NewMetricsWith(reg prometheus.Registerer) *Metrics {
	promauto := promauto.With(reg)
	m := &Metrics{
		startTime: time.Now(),

		RequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quotelog_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "quotelog_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		RequestSize: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "quotelog_http_request_size_bytes",
				Help:    "HTTP request size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000, 10000000},
			},
			[]string{"method", "path"},
		),
		ResponseSize: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "quotelog_http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000, 10000000},
			},
			[]string{"method", "path"},
		),

		CapturesTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "quotelog_captures_total",
				Help: "Total number of capture submissions",
			},
		),
		RowsExtracted: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "quotelog_rows_extracted_total",
				Help: "Total number of bid rows extracted from captures",
			},
		),
		SinkPushes: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quotelog_sink_pushes_total",
				Help: "Total number of sink push attempts",
			},
			[]string{"kind", "status"},
		),
		SinkFetches: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quotelog_sink_fetches_total",
				Help: "Total number of sink fetch attempts",
			},
			[]string{"status"},
		),
		SinkRowsAdded: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "quotelog_sink_rows_added_total",
				Help: "Rows the sink reported as newly added",
			},
		),
		SinkStatusSynced: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "quotelog_sink_status_updates_total",
				Help: "Status updates the sink reported as applied",
			},
		),
		SinkRatesSynced: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "quotelog_sink_rate_changes_total",
				Help: "Rate changes the sink reported as applied",
			},
		),

		SearchesExecuted: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "quotelog_searches_executed_total",
				Help: "Total number of searches that completed",
			},
		),
		SearchesSuperseded: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "quotelog_searches_superseded_total",
				Help: "Total number of searches discarded for a newer request",
			},
		),
		CacheLoads: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quotelog_cache_loads_total",
				Help: "Dataset cache loads by outcome",
			},
			[]string{"outcome"},
		),

		Uptime: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "quotelog_uptime_seconds",
				Help: "Service uptime in seconds",
			},
		),
	}

	go m.updateUptime()

	return m
}

func (m *Metrics) updateUptime() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for range ticker.C {
		m.Uptime.Set(time.Since(m.startTime).Seconds())
	}
}

// RecordHTTPRequest records an HTTP request.
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration, reqSize, respSize int64) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	m.RequestSize.WithLabelValues(method, path).Observe(float64(reqSize))
	m.ResponseSize.WithLabelValues(method, path).Observe(float64(respSize))
}

// RecordCapture records one capture submission and its row count.
func (m *Metrics) RecordCapture(extracted int) {
	m.CapturesTotal.Inc()
	m.RowsExtracted.Add(float64(extracted))
}

// RecordPush records a sink push attempt. kind is "rows" or "patches".
func (m *Metrics) RecordPush(kind string, err error, added, statusUpdates, rateChanges int) {
	if err != nil {
		m.SinkPushes.WithLabelValues(kind, "error").Inc()
		return
	}
	m.SinkPushes.WithLabelValues(kind, "ok").Inc()
	m.SinkRowsAdded.Add(float64(added))
	m.SinkStatusSynced.Add(float64(statusUpdates))
	m.SinkRatesSynced.Add(float64(rateChanges))
}

// RecordFetch records a sink fetch attempt.
func (m *Metrics) RecordFetch(err error) {
	if err != nil {
		m.SinkFetches.WithLabelValues("error").Inc()
		return
	}
	m.SinkFetches.WithLabelValues("ok").Inc()
}

// RecordSearch records a search outcome.
func (m *Metrics) RecordSearch(superseded bool) {
	if superseded {
		m.SearchesSuperseded.Inc()
		return
	}
	m.SearchesExecuted.Inc()
}

// RecordCacheLoad records a dataset load outcome ("hit", "load", "error").
func (m *Metrics) RecordCacheLoad(outcome string) {
	m.CacheLoads.WithLabelValues(outcome).Inc()
}
