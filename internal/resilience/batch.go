// Crateful - Purchase-to-Catalog Release Matching
// Copyright 2026 Crateful Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/crateful/crateful

package resilience

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/crateful/crateful/internal/logging"
	"github.com/crateful/crateful/internal/metrics"
	"github.com/crateful/crateful/internal/models"
)

// CandidateFetcher retrieves catalog candidates for one purchase from
// the external lookup collaborator. It may fail; failures are isolated
// to their item.
type CandidateFetcher func(ctx context.Context, purchase models.PurchaseRecord) ([]models.CandidateRelease, error)

// MatchBatch runs MatchSafe for every purchase with bounded,
// failure-isolated concurrency. Purchases are processed in fixed-size
// chunks; within a chunk all items run concurrently and are awaited
// before the next chunk starts, with a fixed delay in between so the
// fetch collaborator is not overwhelmed. One item's failure - a fetch
// error or a recovered panic - never affects its siblings, and a
// canceled context only short-circuits the chunks not yet started.
//
// The returned slice is index-aligned with purchases.
func (m *Matcher) MatchBatch(ctx context.Context, purchases []models.PurchaseRecord, fetch CandidateFetcher, opts Options) []models.ResilienceEnvelope {
	envelopes := make([]models.ResilienceEnvelope, len(purchases))
	if len(purchases) == 0 {
		return envelopes
	}

	chunkSize := m.cfg.BatchConcurrency

	logging.Info().
		Int("purchases", len(purchases)).
		Int("chunk_size", chunkSize).
		Msg("starting batch match")

	for start := 0; start < len(purchases); start += chunkSize {
		if ctx.Err() != nil {
			m.cancelRemaining(envelopes, purchases, start)
			return envelopes
		}

		end := min(start+chunkSize, len(purchases))

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(idx int) {
				defer wg.Done()
				envelopes[idx] = m.matchOne(ctx, purchases[idx], fetch, opts)
			}(i)
		}
		wg.Wait()

		if end < len(purchases) {
			select {
			case <-time.After(m.cfg.ChunkDelay):
			case <-ctx.Done():
			}
		}
	}

	return envelopes
}

// matchOne runs the per-item pipeline: fetch candidates, then match.
// Panics from the fetch collaborator are converted into this item's
// failure result.
func (m *Matcher) matchOne(ctx context.Context, purchase models.PurchaseRecord, fetch CandidateFetcher, opts Options) (env models.ResilienceEnvelope) {
	defer func() {
		if r := recover(); r != nil {
			m.counters.RecordFailure()
			metrics.MatchRequests.WithLabelValues("failure").Inc()
			env = m.failureEnvelope(models.ErrKindRuntime, fmt.Sprintf("candidate fetch panic: %v", r), purchase)
		}
	}()

	candidates, err := fetch(ctx, purchase)
	if err != nil {
		m.counters.RecordCall()
		m.counters.RecordFailure()
		metrics.MatchRequests.WithLabelValues("failure").Inc()
		return m.failureEnvelope(models.ErrKindRuntime, fmt.Sprintf("candidate fetch failed: %v", err), purchase)
	}

	return m.MatchSafe(ctx, purchase, candidates, opts)
}

// cancelRemaining fills envelopes for the items whose chunks never
// started after the batch context was canceled.
func (m *Matcher) cancelRemaining(envelopes []models.ResilienceEnvelope, purchases []models.PurchaseRecord, from int) {
	for i := from; i < len(purchases); i++ {
		m.counters.RecordCall()
		m.counters.RecordTimeout()
		metrics.MatchRequests.WithLabelValues("timeout").Inc()
		envelopes[i] = m.failureEnvelope(models.ErrKindTimeout, "batch canceled before item was processed", purchases[i])
	}
}
