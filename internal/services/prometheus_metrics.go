package services

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	MetricOperation         = "ledger.operation"
	MetricOperationDuration = "ledger.operation.duration"
)

type PrometheusMetrics struct {
	operationsTotal   *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
}

// NewPrometheusMetrics registers the ledger collectors with the default registry.
// Call it once per process.
func NewPrometheusMetrics() MetricsRecorderInterface {
	return &PrometheusMetrics{
		operationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_operations_total",
				Help: "Total number of ledger operations by outcome",
			},
			[]string{"operation", "status"},
		),
		operationDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ledger_operation_duration_milliseconds",
				Help:    "Ledger operation duration in milliseconds",
				Buckets: prometheus.ExponentialBuckets(1, 2, 12),
			},
			[]string{"operation"},
		),
	}
}

func (m *PrometheusMetrics) IncrementCounter(name string, tags map[string]string) {
	switch name {
	case MetricOperation:
		if operation := tags["operation"]; operation != "" {
			m.operationsTotal.WithLabelValues(operation, tags["status"]).Inc()
		}
	}
}

// RecordProcessingTime expects name in the form "ledger.operation.duration.<operation>"
func (m *PrometheusMetrics) RecordProcessingTime(name string, duration time.Duration) {
	operation, ok := strings.CutPrefix(name, MetricOperationDuration+".")
	if ok && operation != "" {
		m.operationDuration.WithLabelValues(operation).Observe(float64(duration.Milliseconds()))
	}
}

type noopMetrics struct{}

// NewNoopMetrics returns a recorder that discards everything
func NewNoopMetrics() MetricsRecorderInterface {
	return noopMetrics{}
}

func (noopMetrics) IncrementCounter(string, map[string]string) {}
func (noopMetrics) RecordProcessingTime(string, time.Duration) {}
