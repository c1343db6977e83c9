// Crateful - Purchase-to-Catalog Release Matching
// Copyright 2026 Crateful Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/crateful/crateful

package resilience

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/crateful/crateful/internal/match"
	"github.com/crateful/crateful/internal/metrics"
	"github.com/crateful/crateful/internal/models"
)

// stubEngine is a controllable Engine: it can delay, panic, and counts
// invocations.
type stubEngine struct {
	mu     sync.Mutex
	calls  int
	delay  time.Duration
	panics bool
}

func (s *stubEngine) Match(purchase models.PurchaseRecord, candidates []models.CandidateRelease, opts match.Options) *models.MatchOutcome {
	s.mu.Lock()
	s.calls++
	panics := s.panics
	delay := s.delay
	s.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}
	if panics {
		panic("scoring blew up")
	}
	return &models.MatchOutcome{
		Alternatives: []models.MatchCandidate{},
		Query:        match.QueryFor(purchase),
		Status:       models.StatusNoMatch,
	}
}

func (s *stubEngine) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func (s *stubEngine) setPanics(v bool) {
	s.mu.Lock()
	s.panics = v
	s.mu.Unlock()
}

func validPurchase() models.PurchaseRecord {
	return models.PurchaseRecord{
		Artist:         "Radiohead",
		Title:          "OK Computer",
		FormatCategory: models.FormatVinyl,
	}
}

func TestMatchSafe_Success(t *testing.T) {
	engine := &stubEngine{}
	m := NewMatcher(engine, Config{}, metrics.NewCounters())

	env := m.MatchSafe(context.Background(), validPurchase(), nil, Options{})

	if !env.OK() {
		t.Fatalf("expected success envelope, got error: %+v", env.Error)
	}
	if engine.callCount() != 1 {
		t.Errorf("engine calls = %d, want 1", engine.callCount())
	}

	snap := m.Counters().Snapshot()
	if snap.Total != 1 || snap.Success != 1 || snap.Failure != 0 {
		t.Errorf("counters = %+v, want total=1 success=1", snap)
	}
}

func TestMatchSafe_ValidationErrors(t *testing.T) {
	tests := []struct {
		name     string
		purchase models.PurchaseRecord
		opts     Options
	}{
		{
			name:     "missing artist",
			purchase: models.PurchaseRecord{Title: "OK Computer", FormatCategory: models.FormatCD},
		},
		{
			name:     "missing title",
			purchase: models.PurchaseRecord{Artist: "Radiohead", FormatCategory: models.FormatCD},
		},
		{
			name: "oversized artist",
			purchase: models.PurchaseRecord{
				Artist:         strings.Repeat("x", 501),
				Title:          "OK Computer",
				FormatCategory: models.FormatCD,
			},
		},
		{
			name:     "unknown format category",
			purchase: models.PurchaseRecord{Artist: "Radiohead", Title: "OK Computer", FormatCategory: "8-track"},
		},
		{
			name:     "max alternatives out of range",
			purchase: validPurchase(),
			opts:     Options{Options: match.Options{MaxAlternatives: 11}},
		},
		{
			name:     "min confidence out of range",
			purchase: validPurchase(),
			opts:     Options{Options: match.Options{MinConfidence: 101}},
		},
		{
			name:     "unknown strictness",
			purchase: validPurchase(),
			opts:     Options{Options: match.Options{FormatStrictness: "pedantic"}},
		},
		{
			name:     "timeout below minimum",
			purchase: validPurchase(),
			opts:     Options{Timeout: 100 * time.Millisecond},
		},
		{
			name:     "timeout above maximum",
			purchase: validPurchase(),
			opts:     Options{Timeout: time.Minute},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := &stubEngine{}
			m := NewMatcher(engine, Config{}, metrics.NewCounters())

			env := m.MatchSafe(context.Background(), tt.purchase, nil, tt.opts)

			if env.OK() {
				t.Fatal("expected a validation failure envelope")
			}
			if env.Error.Kind != models.ErrKindInvalidData {
				t.Errorf("kind = %q, want %q", env.Error.Kind, models.ErrKindInvalidData)
			}
			if env.Error.CorrelationID == "" {
				t.Error("correlation ID is empty")
			}
			if env.Error.Fallback.Status != models.StatusNoMatch {
				t.Errorf("fallback status = %q, want %q", env.Error.Fallback.Status, models.StatusNoMatch)
			}
			if engine.callCount() != 0 {
				t.Errorf("engine invoked %d times for invalid input", engine.callCount())
			}

			snap := m.Counters().Snapshot()
			if snap.Total != 1 || snap.ValidationErrors != 1 {
				t.Errorf("counters = %+v, want total=1 validation_errors=1", snap)
			}
		})
	}
}

func TestMatchSafe_EnginePanic(t *testing.T) {
	engine := &stubEngine{panics: true}
	m := NewMatcher(engine, Config{}, metrics.NewCounters())

	env := m.MatchSafe(context.Background(), validPurchase(), nil, Options{})

	if env.OK() {
		t.Fatal("expected a failure envelope")
	}
	if env.Error.Kind != models.ErrKindRuntime {
		t.Errorf("kind = %q, want %q", env.Error.Kind, models.ErrKindRuntime)
	}
	if !strings.Contains(env.Error.Message, "panic") {
		t.Errorf("message = %q, want panic details", env.Error.Message)
	}

	snap := m.Counters().Snapshot()
	if snap.Failure != 1 {
		t.Errorf("failure counter = %d, want 1", snap.Failure)
	}
}

func TestMatchSafe_CircuitOpensAfterThreshold(t *testing.T) {
	engine := &stubEngine{panics: true}
	m := NewMatcher(engine, Config{FailureThreshold: 3, CoolDown: time.Hour}, metrics.NewCounters())

	for i := 0; i < 3; i++ {
		env := m.MatchSafe(context.Background(), validPurchase(), nil, Options{})
		if env.Error == nil || env.Error.Kind != models.ErrKindRuntime {
			t.Fatalf("call %d: envelope = %+v, want runtime error", i, env)
		}
	}

	if m.BreakerState() != gobreaker.StateOpen {
		t.Fatalf("breaker state = %v, want open", m.BreakerState())
	}

	env := m.MatchSafe(context.Background(), validPurchase(), nil, Options{})
	if env.Error == nil || env.Error.Kind != models.ErrKindCircuitOpen {
		t.Fatalf("envelope after trip = %+v, want circuit_open", env)
	}
	if engine.callCount() != 3 {
		t.Errorf("engine calls = %d, want 3 (rejected call must not reach the engine)", engine.callCount())
	}
}

func TestMatchSafe_CircuitRecovers(t *testing.T) {
	engine := &stubEngine{panics: true}
	m := NewMatcher(engine, Config{FailureThreshold: 1, CoolDown: 50 * time.Millisecond}, metrics.NewCounters())

	env := m.MatchSafe(context.Background(), validPurchase(), nil, Options{})
	if env.Error == nil || env.Error.Kind != models.ErrKindRuntime {
		t.Fatalf("first call = %+v, want runtime error", env)
	}
	if m.BreakerState() != gobreaker.StateOpen {
		t.Fatalf("breaker state = %v, want open", m.BreakerState())
	}

	// Still inside the cool-down: rejected without touching the engine.
	env = m.MatchSafe(context.Background(), validPurchase(), nil, Options{})
	if env.Error == nil || env.Error.Kind != models.ErrKindCircuitOpen {
		t.Fatalf("call during cool-down = %+v, want circuit_open", env)
	}

	engine.setPanics(false)
	time.Sleep(80 * time.Millisecond)

	// Half-open probe succeeds and closes the breaker.
	env = m.MatchSafe(context.Background(), validPurchase(), nil, Options{})
	if !env.OK() {
		t.Fatalf("probe call failed: %+v", env.Error)
	}
	if m.BreakerState() != gobreaker.StateClosed {
		t.Errorf("breaker state = %v, want closed after successful probe", m.BreakerState())
	}

	// Closed again: normal traffic flows.
	env = m.MatchSafe(context.Background(), validPurchase(), nil, Options{})
	if !env.OK() {
		t.Errorf("post-recovery call failed: %+v", env.Error)
	}
}

func TestMatchSafe_Timeout(t *testing.T) {
	if testing.Short() {
		t.Skip("timeout budget floor is one second")
	}

	engine := &stubEngine{delay: 1500 * time.Millisecond}
	m := NewMatcher(engine, Config{Timeout: time.Second}, metrics.NewCounters())

	start := time.Now()
	env := m.MatchSafe(context.Background(), validPurchase(), nil, Options{})
	elapsed := time.Since(start)

	if env.OK() {
		t.Fatal("expected a timeout envelope")
	}
	if env.Error.Kind != models.ErrKindTimeout {
		t.Errorf("kind = %q, want %q", env.Error.Kind, models.ErrKindTimeout)
	}
	if elapsed >= 1400*time.Millisecond {
		t.Errorf("call took %v, should have been cut off at the one second budget", elapsed)
	}

	snap := m.Counters().Snapshot()
	if snap.Timeout != 1 {
		t.Errorf("timeout counter = %d, want 1", snap.Timeout)
	}
}

func TestMatchSafe_ContextCanceled(t *testing.T) {
	engine := &stubEngine{delay: 200 * time.Millisecond}
	m := NewMatcher(engine, Config{}, metrics.NewCounters())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	env := m.MatchSafe(ctx, validPurchase(), nil, Options{})

	if env.OK() {
		t.Fatal("expected a failure envelope")
	}
	if env.Error.Kind != models.ErrKindTimeout {
		t.Errorf("kind = %q, want %q", env.Error.Kind, models.ErrKindTimeout)
	}
}

func TestMatchSafe_TimeoutsCountTowardTrip(t *testing.T) {
	engine := &stubEngine{delay: 200 * time.Millisecond}
	m := NewMatcher(engine, Config{FailureThreshold: 1, CoolDown: time.Hour}, metrics.NewCounters())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m.MatchSafe(ctx, validPurchase(), nil, Options{})

	if m.BreakerState() != gobreaker.StateOpen {
		t.Fatalf("breaker state = %v, want open after a timed-out call", m.BreakerState())
	}

	env := m.MatchSafe(context.Background(), validPurchase(), nil, Options{})
	if env.Error == nil || env.Error.Kind != models.ErrKindCircuitOpen {
		t.Fatalf("envelope = %+v, want circuit_open", env)
	}
}

func TestFallbackOutcome(t *testing.T) {
	out := fallbackOutcome(validPurchase())

	if out.Status != models.StatusNoMatch {
		t.Errorf("status = %q, want %q", out.Status, models.StatusNoMatch)
	}
	if out.BestMatch != nil {
		t.Errorf("best match = %+v, want nil", out.BestMatch)
	}
	if out.Alternatives == nil {
		t.Error("alternatives must be an empty slice, not nil")
	}
	if out.Query.Artist != "Radiohead" || out.Query.Title != "OK Computer" || out.Query.Format != "Vinyl" {
		t.Errorf("query = %+v, want purchase fields echoed", out.Query)
	}
}

func TestEnvelopeResult(t *testing.T) {
	engine := &stubEngine{}
	m := NewMatcher(engine, Config{}, metrics.NewCounters())

	success := m.MatchSafe(context.Background(), validPurchase(), nil, Options{})
	if got := success.Result(); got.Status != models.StatusNoMatch {
		t.Errorf("success result status = %q, want %q", got.Status, models.StatusNoMatch)
	}

	failure := m.MatchSafe(context.Background(), models.PurchaseRecord{}, nil, Options{})
	if failure.OK() {
		t.Fatal("expected a failure envelope")
	}
	if got := failure.Result(); got.Status != models.StatusNoMatch {
		t.Errorf("failure result status = %q, want renderable fallback", got.Status)
	}
}
