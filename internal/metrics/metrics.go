package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Operation label values.
const (
	OpProvision   = "provision"
	OpDeprovision = "deprovision"
)

// Outcome label values.
const (
	OutcomeSuccess        = "success"
	OutcomeUpstreamFailed = "upstream_failed"
	OutcomeFailed         = "failed"
)

var (
	TenantOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "audit_tenant_operations_total",
		Help: "Total number of tenant lifecycle calls, labelled by operation and outcome.",
	}, []string{"operation", "outcome"})

	TenantOperationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "audit_tenant_operation_duration_seconds",
		Help:    "Duration of tenant lifecycle calls in seconds.",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	}, []string{"operation"})

	SampleIngestions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "audit_sample_ingestions_total",
		Help: "Total number of sample records submitted to storage, labelled by outcome.",
	}, []string{"outcome"})

	ClientCloseFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "audit_client_close_failures_total",
		Help: "Total number of tenant database clients that failed to close on deprovision.",
	})
)
