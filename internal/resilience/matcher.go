// Crateful - Purchase-to-Catalog Release Matching
// Copyright 2026 Crateful Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/crateful/crateful

package resilience

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/crateful/crateful/internal/logging"
	"github.com/crateful/crateful/internal/match"
	"github.com/crateful/crateful/internal/metrics"
	"github.com/crateful/crateful/internal/models"
	"github.com/crateful/crateful/internal/validation"
)

// ErrTimeout is returned inside the breaker when the time budget wins
// the race against the computation.
var ErrTimeout = errors.New("match computation exceeded time budget")

// Engine is the synchronous matcher being wrapped. *match.Engine
// satisfies it; tests substitute failing stubs.
type Engine interface {
	Match(purchase models.PurchaseRecord, candidates []models.CandidateRelease, opts match.Options) *models.MatchOutcome
}

// Matcher wraps an Engine with validation, circuit breaking, timeout
// enforcement, and metrics. One Matcher holds one breaker and one
// counter set for its whole lifetime; construct per process, or per
// test case when isolation matters.
type Matcher struct {
	engine   Engine
	cfg      Config
	breaker  *gobreaker.CircuitBreaker[*models.MatchOutcome]
	counters *metrics.Counters
}

// breakerName labels breaker metrics and log lines.
const breakerName = "match-engine"

// NewMatcher builds a Matcher around engine. Counters may be shared
// with other observers; pass a fresh set when in doubt.
func NewMatcher(engine Engine, cfg Config, counters *metrics.Counters) *Matcher {
	cfg = cfg.withDefaults()
	if counters == nil {
		counters = metrics.NewCounters()
	}

	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0)

	cb := gobreaker.NewCircuitBreaker[*models.MatchOutcome](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1, // exactly one half-open probe
		Timeout:     cfg.CoolDown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
		},
	})

	return &Matcher{
		engine:   engine,
		cfg:      cfg,
		breaker:  cb,
		counters: counters,
	}
}

// Counters returns the wrapper's call accounting for snapshot access.
func (m *Matcher) Counters() *metrics.Counters {
	return m.counters
}

// BreakerState exposes the current breaker state, mainly for tests and
// health reporting.
func (m *Matcher) BreakerState() gobreaker.State {
	return m.breaker.State()
}

// matchInput is the explicit schema for wrapper input. Validation
// either passes the whole struct or fails with a field report; nothing
// downstream checks field presence again.
type matchInput struct {
	Artist          string `validate:"required,max=500"`
	Title           string `validate:"required,max=500"`
	FormatCategory  string `validate:"required,oneof=Digital Vinyl CD Cassette Other"`
	MaxAlternatives int    `validate:"min=0,max=10"`
	MinConfidence   int    `validate:"min=0,max=100"`
}

// MatchSafe applies validation, the circuit breaker, the time budget,
// and metrics around one match computation. It never returns an error;
// failures come back as envelopes with a fallback outcome.
func (m *Matcher) MatchSafe(ctx context.Context, purchase models.PurchaseRecord, candidates []models.CandidateRelease, opts Options) models.ResilienceEnvelope {
	m.counters.RecordCall()

	if verr := m.validateInput(purchase, opts); verr != nil {
		m.counters.RecordValidationError()
		metrics.MatchRequests.WithLabelValues("validation_error").Inc()
		return m.failureEnvelope(models.ErrKindInvalidData, verr.Error(), purchase)
	}

	start := time.Now()
	outcome, err := m.breaker.Execute(func() (*models.MatchOutcome, error) {
		return m.runWithTimeout(ctx, purchase, candidates, opts)
	})
	if err != nil {
		return m.errorEnvelope(err, purchase)
	}

	m.counters.RecordSuccess()
	metrics.MatchRequests.WithLabelValues("success").Inc()
	metrics.MatchDuration.Observe(time.Since(start).Seconds())
	if outcome.BestMatch != nil {
		metrics.MatchConfidence.Observe(float64(outcome.BestMatch.Confidence))
	}

	return models.ResilienceEnvelope{Outcome: outcome}
}

// runWithTimeout races the synchronous engine call against the time
// budget. Scoring is CPU-bound and cannot be preempted: on timeout the
// goroutine runs to completion and its result is discarded. Runs
// inside the breaker callback so timeouts count as breaker failures.
func (m *Matcher) runWithTimeout(ctx context.Context, purchase models.PurchaseRecord, candidates []models.CandidateRelease, opts Options) (*models.MatchOutcome, error) {
	budget := m.cfg.Timeout
	if opts.Timeout != 0 {
		budget = opts.Timeout
	}

	type result struct {
		outcome *models.MatchOutcome
		err     error
	}
	done := make(chan result, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- result{err: fmt.Errorf("match engine panic: %v", r)}
			}
		}()
		done <- result{outcome: m.engine.Match(purchase, candidates, opts.Options)}
	}()

	timer := time.NewTimer(budget)
	defer timer.Stop()

	select {
	case r := <-done:
		return r.outcome, r.err
	case <-timer.C:
		return nil, ErrTimeout
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// validateInput checks the purchase fields and option ranges before any
// computation. Invalid input never reaches the engine.
func (m *Matcher) validateInput(purchase models.PurchaseRecord, opts Options) error {
	in := matchInput{
		Artist:          purchase.Artist,
		Title:           purchase.Title,
		FormatCategory:  string(purchase.FormatCategory),
		MaxAlternatives: opts.MaxAlternatives,
		MinConfidence:   opts.MinConfidence,
	}
	if verr := validation.ValidateStruct(&in); verr != nil {
		return verr
	}
	if opts.FormatStrictness != "" {
		switch opts.FormatStrictness {
		case models.StrictnessStrict, models.StrictnessLoose, models.StrictnessAny:
		default:
			return fmt.Errorf("format strictness must be one of: strict loose any")
		}
	}
	if opts.Timeout != 0 && (opts.Timeout < MinTimeout || opts.Timeout > MaxTimeout) {
		return fmt.Errorf("timeout must be between %s and %s", MinTimeout, MaxTimeout)
	}
	return nil
}

// errorEnvelope classifies a breaker/engine error, records metrics, and
// builds the failure envelope.
func (m *Matcher) errorEnvelope(err error, purchase models.PurchaseRecord) models.ResilienceEnvelope {
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		m.counters.RecordFailure()
		metrics.MatchRequests.WithLabelValues("circuit_open").Inc()
		return m.failureEnvelope(models.ErrKindCircuitOpen, "circuit breaker open, matching temporarily disabled", purchase)

	case errors.Is(err, ErrTimeout), errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		m.counters.RecordTimeout()
		metrics.MatchRequests.WithLabelValues("timeout").Inc()
		return m.failureEnvelope(models.ErrKindTimeout, err.Error(), purchase)

	default:
		m.counters.RecordFailure()
		metrics.MatchRequests.WithLabelValues("failure").Inc()
		return m.failureEnvelope(models.ErrKindRuntime, err.Error(), purchase)
	}
}

// failureEnvelope builds a StructuredError envelope with a renderable
// no-match fallback and a fresh correlation ID, logging the failure.
func (m *Matcher) failureEnvelope(kind models.ErrorKind, message string, purchase models.PurchaseRecord) models.ResilienceEnvelope {
	correlationID := uuid.NewString()

	logging.Warn().
		Str("kind", string(kind)).
		Str("correlation_id", correlationID).
		Str("artist", purchase.Artist).
		Str("title", purchase.Title).
		Msg(message)

	return models.ResilienceEnvelope{
		Error: &models.StructuredError{
			Kind:          kind,
			Message:       message,
			Fallback:      fallbackOutcome(purchase),
			CorrelationID: correlationID,
		},
	}
}

// fallbackOutcome is the safe no-match result attached to every
// failure, echoing whatever query fields were extractable.
func fallbackOutcome(purchase models.PurchaseRecord) models.MatchOutcome {
	return models.MatchOutcome{
		Alternatives: []models.MatchCandidate{},
		Query:        match.QueryFor(purchase),
		Status:       models.StatusNoMatch,
	}
}

// stateToFloat maps breaker states onto the metrics gauge scale.
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
