// Package metrics exposes the Prometheus instruments of the analytics server.
package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "task_analytics"

// Fetch results.
const (
	ResultOK    = "ok"
	ResultError = "error"
)

type metrics struct {
	fetchTotal   *prometheus.CounterVec
	fetchLatency *prometheus.HistogramVec

	cacheTotal *prometheus.CounterVec

	cookieSkippedTotal prometheus.Counter
}

var metricsSingleton = sync.OnceValue(func() *metrics {
	return &metrics{
		fetchTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "section_fetch_total",
			Help:      "Total number of report data fetches by outcome.",
		}, []string{"report", "fetch", "result"}),
		fetchLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "section_fetch_duration_seconds",
			Help:      "Latency distribution of report data fetches.",
			Buckets: []float64{
				0.005, 0.01, 0.025, 0.05,
				0.1, 0.25, 0.5,
				1, 2.5, 5, 10,
			},
		}, []string{"report", "fetch"}),
		cacheTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reference_cache_total",
			Help:      "Reference cache lookups by kind and outcome (hit, miss, error).",
		}, []string{"kind", "result"}),
		cookieSkippedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "filter_cookie_skipped_total",
			Help:      "Filter cookies not written because the payload exceeded the size cap.",
		}),
	}
})

func getMetrics() *metrics {
	return metricsSingleton()
}

// ObserveFetch records one report data fetch.
func ObserveFetch(report, fetch string, err error, elapsed time.Duration) {
	m := getMetrics()
	result := ResultOK
	if err != nil {
		result = ResultError
	}
	m.fetchTotal.WithLabelValues(report, fetch, result).Inc()
	m.fetchLatency.WithLabelValues(report, fetch).Observe(elapsed.Seconds())
}

// ObserveCache records one reference cache lookup.
func ObserveCache(kind, result string) {
	getMetrics().cacheTotal.WithLabelValues(kind, result).Inc()
}

// CookieSkipped records a filter cookie that was too large to write.
func CookieSkipped() {
	getMetrics().cookieSkippedTotal.Inc()
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
