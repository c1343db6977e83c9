// Crateful - Purchase-to-Catalog Release Matching
// Copyright 2026 Crateful Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/crateful/crateful

package resilience

import (
	"time"

	"github.com/crateful/crateful/internal/match"
)

// Defaults and bounds for the wrapper configuration.
const (
	DefaultFailureThreshold = 5
	DefaultCoolDown         = 60 * time.Second

	DefaultTimeout = 5 * time.Second
	MinTimeout     = 1 * time.Second
	MaxTimeout     = 30 * time.Second

	DefaultBatchConcurrency = 3
	MaxBatchConcurrency     = 10

	// DefaultChunkDelay spaces batch chunks apart so the downstream
	// candidate-fetch collaborator is not hammered.
	DefaultChunkDelay = 100 * time.Millisecond
)

// Config tunes a Matcher. The zero value yields all defaults.
type Config struct {
	// FailureThreshold is the run of consecutive failures that trips
	// the circuit breaker open.
	FailureThreshold uint32

	// CoolDown is how long the breaker stays open before allowing a
	// half-open probe.
	CoolDown time.Duration

	// Timeout is the per-call time budget, 1-30s.
	Timeout time.Duration

	// BatchConcurrency is the batch chunk size, 1-10.
	BatchConcurrency int

	// ChunkDelay is the fixed pause between batch chunks.
	ChunkDelay time.Duration
}

// withDefaults fills unset fields and clamps bounds.
func (c Config) withDefaults() Config {
	if c.FailureThreshold == 0 {
		c.FailureThreshold = DefaultFailureThreshold
	}
	if c.CoolDown <= 0 {
		c.CoolDown = DefaultCoolDown
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.Timeout < MinTimeout {
		c.Timeout = MinTimeout
	}
	if c.Timeout > MaxTimeout {
		c.Timeout = MaxTimeout
	}
	if c.BatchConcurrency <= 0 {
		c.BatchConcurrency = DefaultBatchConcurrency
	}
	if c.BatchConcurrency > MaxBatchConcurrency {
		c.BatchConcurrency = MaxBatchConcurrency
	}
	if c.ChunkDelay <= 0 {
		c.ChunkDelay = DefaultChunkDelay
	}
	return c
}

// Options are the per-call options recognized by MatchSafe and
// MatchBatch: the engine's options plus an optional timeout override.
type Options struct {
	match.Options

	// Timeout overrides the configured per-call budget when non-zero.
	// Must lie within [MinTimeout, MaxTimeout].
	Timeout time.Duration `json:"timeout,omitempty"`
}
