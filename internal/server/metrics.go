package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/agbru/numfmt/internal/metrics"
)

// Metrics holds the HTTP-level Prometheus metrics of the server. They are
// registered on the same registry as the conversion metrics so that a single
// /metrics endpoint exports both.
type Metrics struct {
	collector       *metrics.Collector
	requestsTotal   *prometheus.CounterVec
	activeRequests  prometheus.Gauge
	requestDuration *prometheus.HistogramVec
	handler         http.Handler
}

// NewMetrics creates server metrics on a fresh conversion collector.
func NewMetrics() *Metrics {
	return NewMetricsWithCollector(metrics.NewCollector())
}

// NewMetricsWithCollector registers the server metrics on c's registry.
func NewMetricsWithCollector(c *metrics.Collector) *Metrics {
	m := &Metrics{
		collector: c,
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metrics.Namespace,
			Name:      "requests_total",
			Help:      "HTTP requests served, by path and status code.",
		}, []string{"path", "code"}),
		activeRequests: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metrics.Namespace,
			Name:      "active_requests",
			Help:      "HTTP requests currently being served.",
		}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metrics.Namespace,
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"path"}),
	}
	c.Registry().MustRegister(m.requestsTotal, m.activeRequests, m.requestDuration)
	m.handler = c.Handler()
	return m
}

// Collector returns the conversion collector, for use as a numfmt.Observer.
func (m *Metrics) Collector() *metrics.Collector { return m.collector }

// IncrementActiveRequests marks the start of a request.
func (m *Metrics) IncrementActiveRequests() { m.activeRequests.Inc() }

// DecrementActiveRequests marks the end of a request.
func (m *Metrics) DecrementActiveRequests() { m.activeRequests.Dec() }

// ObserveRequest records a finished request.
func (m *Metrics) ObserveRequest(path string, code int, elapsed time.Duration) {
	m.requestsTotal.WithLabelValues(path, strconv.Itoa(code)).Inc()
	m.requestDuration.WithLabelValues(path).Observe(elapsed.Seconds())
}

// WritePrometheus writes every registered metric in the Prometheus text format.
func (m *Metrics) WritePrometheus(w http.ResponseWriter, r *http.Request) {
	m.handler.ServeHTTP(w, r)
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.code = code
	r.ResponseWriter.WriteHeader(code)
}
