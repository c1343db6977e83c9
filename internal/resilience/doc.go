// Crateful - Purchase-to-Catalog Release Matching
// Copyright 2026 Crateful Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/crateful/crateful

/*
Package resilience wraps the match engine with the safety machinery
production callers need: input validation, a circuit breaker, a
per-call time budget, call metrics, and a chunked batch executor with
per-item failure isolation.

MatchSafe never returns a Go error. Every failure mode - invalid input,
a recovered panic, an exceeded time budget, an open circuit - comes
back as a ResilienceEnvelope carrying a StructuredError with a
renderable no-match fallback and a correlation ID for log lookup.

The circuit breaker (sony/gobreaker) is shared across all calls on one
Matcher: a run of consecutive failures trips it open, open calls are
rejected without invoking the engine, and after the cool-down a single
half-open probe decides whether it closes again. Breaker, counters, and
engine are injected at construction so tests can isolate state per
case.

The time budget races the synchronous computation against a timer
inside the breaker callback, so a timeout registers as a breaker
failure. The race cannot preempt the in-flight computation; the
abandoned goroutine finishes on its own and its result is discarded.
*/
package resilience
