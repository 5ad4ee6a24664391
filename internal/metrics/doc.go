// Package metrics records conversion activity as Prometheus metrics and
// samples Go runtime allocation statistics.
package metrics
