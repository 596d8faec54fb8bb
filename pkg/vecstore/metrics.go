package vecstore

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// operationsTotal counts adapter operations.
	// Labels: provider (qdrant, chromem), operation, result (success, error).
	operationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bevec",
			Subsystem: "vecstore",
			Name:      "operations_total",
			Help:      "Total number of vector store operations",
		},
		[]string{"provider", "operation", "result"},
	)

	// operationDuration tracks how long adapter operations take.
	operationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "bevec",
			Subsystem: "vecstore",
			Name:      "operation_duration_seconds",
			Help:      "Duration of vector store operations in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"provider", "operation"},
	)
)

// observeOperation records the outcome and duration of one adapter operation.
func observeOperation(provider, operation string, start time.Time, err error) {
	operationDuration.WithLabelValues(provider, operation).Observe(time.Since(start).Seconds())

	result := "success"
	if err != nil {
		result = "error"
	}
	operationsTotal.WithLabelValues(provider, operation, result).Inc()
}
