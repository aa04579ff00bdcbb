package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeValid   = "valid"
	OutcomeInvalid = "invalid"
)

var (
	DevicesCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "signchain",
			Subsystem: "devices",
			Name:      "created_total",
			Help:      "Total number of registered signature devices, labeled by algorithm.",
		},
		[]string{"algorithm"},
	)

	Signatures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "signchain",
			Subsystem: "chain",
			Name:      "signatures_total",
			Help:      "Total signing attempts on existing devices, labeled by algorithm and outcome.",
		},
		[]string{"algorithm", "outcome"}, // outcome: success, failure
	)

	SignDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "signchain",
			Subsystem: "chain",
			Name:      "sign_duration_seconds",
			Help:      "Time spent inside the per-device signing critical section.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"algorithm"},
	)

	Verifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "signchain",
			Subsystem: "chain",
			Name:      "verifications_total",
			Help:      "Total signature verifications, labeled by algorithm and outcome.",
		},
		[]string{"algorithm", "outcome"}, // outcome: valid, invalid
	)
)
