// Crateful - Purchase-to-Catalog Release Matching
// Copyright 2026 Crateful Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/crateful/crateful

package match

import (
	"sort"

	"github.com/crateful/crateful/internal/models"
	"github.com/crateful/crateful/internal/normalize"
)

// Engine matches purchase records against candidate releases. It is
// pure and synchronous; the only shared state is the injected
// normalizer's memo cache, which is safe for concurrent use.
type Engine struct {
	normalizer *normalize.Normalizer
}

// NewEngine creates an Engine around the given normalizer.
func NewEngine(n *normalize.Normalizer) *Engine {
	return &Engine{normalizer: n}
}

// Match scores every candidate for one purchase, ranks them, and
// derives a status. The candidate list is truncated to MaxCandidates
// before scoring.
func (e *Engine) Match(purchase models.PurchaseRecord, candidates []models.CandidateRelease, opts Options) *models.MatchOutcome {
	opts = opts.withDefaults()

	if len(candidates) > MaxCandidates {
		candidates = candidates[:MaxCandidates]
	}

	scored := make([]models.MatchCandidate, 0, len(candidates))
	for _, c := range candidates {
		mc := e.scoreCandidate(purchase, c, opts)
		if mc.Confidence < opts.MinConfidence {
			continue
		}
		scored = append(scored, mc)
	}

	// Confidence descending, then classification rank, then release
	// year. Deterministic for fixed inputs.
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Confidence != scored[j].Confidence {
			return scored[i].Confidence > scored[j].Confidence
		}
		ri, rj := scored[i].Classification.Rank(), scored[j].Classification.Rank()
		if ri != rj {
			return ri > rj
		}
		return scored[i].Release.Year > scored[j].Release.Year
	})

	outcome := &models.MatchOutcome{
		Alternatives: []models.MatchCandidate{},
		Query:        QueryFor(purchase),
		Status:       models.StatusNoMatch,
	}

	if len(scored) == 0 {
		return outcome
	}

	best := scored[0]
	outcome.BestMatch = &best
	outcome.Status = statusFor(best.Confidence)

	if opts.IncludeAlternatives && len(scored) > 1 {
		rest := scored[1:]
		if len(rest) > opts.MaxAlternatives {
			rest = rest[:opts.MaxAlternatives]
		}
		outcome.Alternatives = append(outcome.Alternatives, rest...)
	}

	return outcome
}

// statusFor maps the best candidate's confidence to a status.
func statusFor(confidence int) models.MatchStatus {
	switch {
	case confidence >= AutoMatchThreshold:
		return models.StatusMatched
	case confidence >= ReviewThreshold:
		return models.StatusReview
	default:
		return models.StatusNoMatch
	}
}

// QueryFor echoes the search fields used for a purchase. The
// resilience wrapper reuses it to populate fallback outcomes.
func QueryFor(p models.PurchaseRecord) models.SearchQuery {
	q := models.SearchQuery{Artist: p.Artist, Title: p.Title}
	if p.FormatCategory != "" && p.FormatCategory != models.FormatDigital {
		q.Format = string(p.FormatCategory)
	}
	return q
}
