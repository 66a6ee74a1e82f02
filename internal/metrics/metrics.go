// Package metrics exposes Prometheus metrics for the HTTP server and the
// block hydrator.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"campuscms/internal/blocks"
)

// Metrics holds the collectors of one server instance.
type Metrics struct {
	Registry       *prometheus.Registry
	Requests       *prometheus.CounterVec
	Duration       *prometheus.HistogramVec
	BlocksHydrated *prometheus.CounterVec
}

// New registers the campuscms collectors, plus the Go and process
// collectors, on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "campuscms",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route pattern, method and status code.",
		}, []string{"pattern", "method", "code"}),
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "campuscms",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"pattern"}),
		BlocksHydrated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "campuscms",
			Name:      "blocks_hydrated_total",
			Help:      "Dynamic page blocks filled from storage, by block type.",
		}, []string{"kind"}),
	}
	m.Registry.MustRegister(
		m.Requests, m.Duration, m.BlocksHydrated,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveBlock counts one hydrated block. It fits blocks.Hydrator.OnHydrated.
func (m *Metrics) ObserveBlock(k blocks.Kind) {
	m.BlocksHydrated.WithLabelValues(string(k)).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Middleware records request counts and latency. Requests are labelled with
// the matched ServeMux pattern so that slugs do not explode cardinality.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		pattern := r.Pattern
		if pattern == "" {
			pattern = "unmatched"
		}
		m.Requests.WithLabelValues(pattern, r.Method, strconv.Itoa(rec.status)).Inc()
		m.Duration.WithLabelValues(pattern).Observe(time.Since(start).Seconds())
	})
}
