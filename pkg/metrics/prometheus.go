package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	metricsComputed  *prometheus.CounterVec
	insufficientData *prometheus.CounterVec
	rebalancePlans   *prometheus.CounterVec
	errorsTotal      *prometheus.CounterVec
	latency          *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		metricsComputed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portfoliocore_metrics_computed_total",
				Help: "Total number of metric snapshots computed",
			},
			[]string{"symbol", "source"},
		),
		insufficientData: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portfoliocore_insufficient_data_total",
				Help: "Total number of metric windows skipped for lack of data",
			},
			[]string{"symbol", "metric"},
		),
		rebalancePlans: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portfoliocore_rebalance_plans_total",
				Help: "Total number of rebalance plans generated",
			},
			[]string{"strategy", "needed"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portfoliocore_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "portfoliocore_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordMetricsComputed records a computed metrics snapshot.
func (r *Recorder) RecordMetricsComputed(symbol, source string) {
	r.metricsComputed.WithLabelValues(symbol, source).Inc()
}

// RecordInsufficientData records a metric window skipped for lack of data.
func (r *Recorder) RecordInsufficientData(symbol, metric string) {
	r.insufficientData.WithLabelValues(symbol, metric).Inc()
}

// RecordRebalancePlan records a generated rebalance plan.
func (r *Recorder) RecordRebalancePlan(strategy string, needed bool) {
	label := "false"
	if needed {
		label = "true"
	}
	r.rebalancePlans.WithLabelValues(strategy, label).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
