// internal/pkg/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "booking"

var (
	// SagaTotal counts createBooking executions by outcome (success, failed, compensated).
	SagaTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "saga_total",
		Help:      "Booking saga executions by outcome.",
	}, []string{"outcome"})

	SagaStepDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "saga_step_duration_seconds",
		Help:      "Duration of each booking saga step.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"step", "result"})

	Compensations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "compensations_total",
		Help:      "Compensating actions executed by the booking saga.",
	}, []string{"step", "result"})

	InventoryReleaseFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "inventory_release_failures_total",
		Help:      "Inventory releases on cancellation that failed and need manual follow-up.",
	}, []string{"kind"})

	EventPublishFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "event_publish_failures_total",
		Help:      "Booking events that could not be published.",
	}, []string{"type"})
)

const (
	OutcomeSuccess     = "success"
	OutcomeFailed      = "failed"
	OutcomeCompensated = "compensated"

	ResultOK    = "ok"
	ResultError = "error"
)
