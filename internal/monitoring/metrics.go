// Package monitoring holds the Prometheus collectors exported on /metrics.
package monitoring

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HttpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HttpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	ActiveConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "active_connections",
			Help: "Number of active connections",
		},
	)

	PageCacheEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "page_cache_events_total",
			Help: "Page cache lookups and writes by outcome",
		},
		[]string{"event"},
	)

	EntityTotals = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "chronicle_entities",
			Help: "Number of stored rows per entity, refreshed by the stats worker",
		},
		[]string{"entity"},
	)
)

// Registry is private to the process so tests can scrape it without the
// default Go collectors interfering.
var Registry = prometheus.NewRegistry()

func init() {
	Registry.MustRegister(
		HttpRequestsTotal,
		HttpRequestDuration,
		ActiveConnections,
		PageCacheEvents,
		EntityTotals,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
