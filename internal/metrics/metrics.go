// Crateful - Purchase-to-Catalog Release Matching
// Copyright 2026 Crateful Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/crateful/crateful

// Package metrics provides Prometheus instrumentation for the matching
// pipeline plus a small injectable counter set for the resilience
// wrapper's snapshot accessor.
package metrics

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// MatchRequests counts wrapper calls by result: success, failure,
	// timeout, validation_error, circuit_open.
	MatchRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crateful_match_requests_total",
			Help: "Total number of resilience-wrapped match calls by result",
		},
		[]string{"result"},
	)

	// MatchDuration observes wall time of successful match computations.
	MatchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "crateful_match_duration_seconds",
			Help:    "Duration of match computations in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
	)

	// MatchConfidence observes the best-match confidence of successful
	// outcomes.
	MatchConfidence = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "crateful_match_confidence",
			Help:    "Best-match confidence of successful match outcomes",
			Buckets: []float64{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 95, 100},
		},
	)

	// CircuitBreakerState tracks breaker state: 0 closed, 1 half-open,
	// 2 open.
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "crateful_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	// CircuitBreakerTransitions counts breaker state changes.
	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crateful_circuit_breaker_transitions_total",
			Help: "Total circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	// NormalizerCacheHits and NormalizerCacheMisses track memo cache
	// efficiency.
	NormalizerCacheHits = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "crateful_normalizer_cache_hits_total",
			Help: "Cumulative normalizer memo cache hits",
		},
	)

	NormalizerCacheMisses = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "crateful_normalizer_cache_misses_total",
			Help: "Cumulative normalizer memo cache misses",
		},
	)
)

// Counters is the wrapper's monotonic call accounting. Instances are
// injected rather than shared globals so tests can isolate state.
// All methods are safe for concurrent use.
type Counters struct {
	total            atomic.Int64
	success          atomic.Int64
	failure          atomic.Int64
	timeout          atomic.Int64
	validationErrors atomic.Int64
}

// NewCounters returns a zeroed counter set.
func NewCounters() *Counters {
	return &Counters{}
}

// Snapshot is a point-in-time copy of the counters.
type Snapshot struct {
	Total            int64 `json:"total"`
	Success          int64 `json:"success"`
	Failure          int64 `json:"failure"`
	Timeout          int64 `json:"timeout"`
	ValidationErrors int64 `json:"validation_errors"`
}

// RecordCall increments the total call count.
func (c *Counters) RecordCall() { c.total.Add(1) }

// RecordSuccess increments the success count.
func (c *Counters) RecordSuccess() { c.success.Add(1) }

// RecordFailure increments the failure count.
func (c *Counters) RecordFailure() { c.failure.Add(1) }

// RecordTimeout increments the timeout count.
func (c *Counters) RecordTimeout() { c.timeout.Add(1) }

// RecordValidationError increments the validation error count.
func (c *Counters) RecordValidationError() { c.validationErrors.Add(1) }

// Snapshot returns a point-in-time copy of all counters.
func (c *Counters) Snapshot() Snapshot {
	return Snapshot{
		Total:            c.total.Load(),
		Success:          c.success.Load(),
		Failure:          c.failure.Load(),
		Timeout:          c.timeout.Load(),
		ValidationErrors: c.validationErrors.Load(),
	}
}

// Reset zeroes all counters.
func (c *Counters) Reset() {
	c.total.Store(0)
	c.success.Store(0)
	c.failure.Store(0)
	c.timeout.Store(0)
	c.validationErrors.Store(0)
}
