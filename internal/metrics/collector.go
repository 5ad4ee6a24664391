package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	apperrors "github.com/agbru/numfmt/internal/errors"
	"github.com/agbru/numfmt/internal/numfmt"
)

// Namespace prefixes every metric exported by numfmt.
const Namespace = "numfmt"

// Collector counts conversions on a private Prometheus registry. It
// implements numfmt.Observer so it can be plugged into a Formatter.
type Collector struct {
	registry      *prometheus.Registry
	conversions   *prometheus.CounterVec
	outputBytes   *prometheus.HistogramVec
	allocFailures *prometheus.CounterVec
}

var _ numfmt.Observer = (*Collector)(nil)

// NewCollector creates a Collector whose registry also exports the Go
// runtime and process collectors.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		conversions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "conversions_total",
			Help:      "Text conversions performed, by operation and status.",
		}, []string{"op", "status"}),
		outputBytes: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "output_bytes",
			Help:      "Measured size of conversion output buffers.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
		}, []string{"op"}),
		allocFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "allocation_failures_total",
			Help:      "Output buffers that could not be allocated.",
		}, []string{"op"}),
	}
	c.registry.MustRegister(
		c.conversions,
		c.outputBytes,
		c.allocFailures,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

// Registry returns the registry backing the collector, so callers can
// register additional metrics that share the /metrics endpoint.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// ObserveConversion records one conversion.
func (c *Collector) ObserveConversion(op numfmt.Op, size int, err error) {
	status := "ok"
	if err != nil {
		status = "error"
		if apperrors.IsAllocationError(err) {
			c.allocFailures.WithLabelValues(op.String()).Inc()
		}
	} else {
		c.outputBytes.WithLabelValues(op.String()).Observe(float64(size))
	}
	c.conversions.WithLabelValues(op.String(), status).Inc()
}
