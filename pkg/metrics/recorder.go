// Package metrics provides Prometheus-based metrics recording for
// decomposition and repository operations.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder records operational metrics. A nil *Recorder is valid and records
// nothing, so callers never need to guard their observation calls.
type Recorder struct {
	decompositionsTotal   *prometheus.CounterVec
	decompositionDuration *prometheus.HistogramVec
	gitOperationsTotal    *prometheus.CounterVec
	gitOperationDuration  *prometheus.HistogramVec
}

// NewRecorder creates a Prometheus-backed recorder registered with the
// default registry.
func NewRecorder() *Recorder {
	return &Recorder{
		decompositionsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "midpoint_decompositions_total",
				Help: "Total number of goal decompositions by model, kind, and status",
			},
			[]string{"model", "kind", "status", "error_kind"},
		),
		decompositionDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "midpoint_decomposition_duration_seconds",
				Help:    "Duration of goal decompositions in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"model", "kind"},
		),
		gitOperationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "midpoint_git_operations_total",
				Help: "Total number of git operations by operation and status",
			},
			[]string{"operation", "status"},
		),
		gitOperationDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "midpoint_git_operation_duration_seconds",
				Help:    "Duration of git operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// ObserveDecomposition records a completed decomposition attempt.
// kind is "strategy" or "subgoal"; errorKind is empty on success.
func (r *Recorder) ObserveDecomposition(model, kind string, success bool, errorKind string, duration time.Duration) {
	if r == nil {
		return
	}

	status := "success"
	if !success {
		status = "error"
	}

	r.decompositionsTotal.WithLabelValues(model, kind, status, errorKind).Inc()
	r.decompositionDuration.WithLabelValues(model, kind).Observe(duration.Seconds())
}

// ObserveGitOperation records a completed repository operation.
func (r *Recorder) ObserveGitOperation(operation string, success bool, duration time.Duration) {
	if r == nil {
		return
	}

	status := "success"
	if !success {
		status = "error"
	}

	r.gitOperationsTotal.WithLabelValues(operation, status).Inc()
	r.gitOperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}
