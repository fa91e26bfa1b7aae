// Package metrics exposes Prometheus instrumentation for the background
// job runner.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type JobMetrics struct {
	Processed *prometheus.CounterVec
	Duration  *prometheus.HistogramVec
	InFlight  prometheus.Gauge
}

func NewJobMetrics(reg prometheus.Registerer) *JobMetrics {
	factory := promauto.With(reg)
	return &JobMetrics{
		Processed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "openframing",
			Subsystem: "jobs",
			Name:      "processed_total",
			Help:      "Background jobs processed, by type and outcome.",
		}, []string{"type", "status"}),
		Duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "openframing",
			Subsystem: "jobs",
			Name:      "duration_seconds",
			Help:      "Background job duration in seconds, by type.",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 14),
		}, []string{"type"}),
		InFlight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "openframing",
			Subsystem: "jobs",
			Name:      "in_flight",
			Help:      "Background jobs currently executing.",
		}),
	}
}
