// Crateful - Purchase-to-Catalog Release Matching
// Copyright 2026 Crateful Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/crateful/crateful

package models

// ErrorKind classifies failures surfaced by the resilience wrapper.
type ErrorKind string

const (
	// ErrKindInvalidData: malformed, oversized, or mistyped input,
	// detected before any computation.
	ErrKindInvalidData ErrorKind = "invalid_data"

	// ErrKindRuntime: unexpected failure during scoring.
	ErrKindRuntime ErrorKind = "runtime_error"

	// ErrKindTimeout: the configured time budget was exceeded.
	ErrKindTimeout ErrorKind = "timeout"

	// ErrKindCircuitOpen: the circuit breaker rejected the call without
	// invoking the matcher.
	ErrKindCircuitOpen ErrorKind = "circuit_open"
)

// StructuredError is the wrapper's failure shape. Fallback is always a
// renderable no-match outcome so callers need no failure special-casing.
type StructuredError struct {
	Kind          ErrorKind    `json:"kind"`
	Message       string       `json:"message"`
	Fallback      MatchOutcome `json:"fallback"`
	CorrelationID string       `json:"correlation_id"`
}

// ResilienceEnvelope is either a successful MatchOutcome or a
// StructuredError, never both.
type ResilienceEnvelope struct {
	Outcome *MatchOutcome    `json:"outcome,omitempty"`
	Error   *StructuredError `json:"error,omitempty"`
}

// OK reports whether the envelope holds a successful outcome.
func (e ResilienceEnvelope) OK() bool {
	return e.Error == nil && e.Outcome != nil
}

// Result returns the outcome to render: the real one on success, the
// fallback on failure.
func (e ResilienceEnvelope) Result() MatchOutcome {
	if e.Outcome != nil {
		return *e.Outcome
	}
	if e.Error != nil {
		return e.Error.Fallback
	}
	return MatchOutcome{Status: StatusNoMatch, Alternatives: []MatchCandidate{}}
}
