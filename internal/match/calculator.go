// Crateful - Purchase-to-Catalog Release Matching
// Copyright 2026 Crateful Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/crateful/crateful

package match

import (
	"math"

	"github.com/crateful/crateful/internal/edition"
	"github.com/crateful/crateful/internal/format"
	"github.com/crateful/crateful/internal/models"
	"github.com/crateful/crateful/internal/normalize"
	"github.com/crateful/crateful/internal/similarity"
)

// Field weights: artists disambiguate more reliably than titles.
const (
	artistWeight = 0.6
	titleWeight  = 0.4
)

// normalizedFloor is the per-field similarity at or above which a
// non-exact candidate counts as a normalized match.
const normalizedFloor = 98

// scoreCandidate computes one candidate's confidence, classification,
// and breakdown.
func (e *Engine) scoreCandidate(p models.PurchaseRecord, c models.CandidateRelease, opts Options) models.MatchCandidate {
	artistFlags := normalize.Flags{ExpandAbbreviations: true, RemoveArticles: true}
	titleFlags := normalize.Flags{ExpandAbbreviations: true}

	artistScore := similarity.Score(
		p.Artist, c.ArtistCredit,
		e.normalizer.Normalize(p.Artist, artistFlags),
		e.normalizer.Normalize(c.ArtistCredit, artistFlags),
	)

	titlePlain := similarity.Score(
		p.Title, c.Title,
		e.normalizer.Normalize(p.Title, titleFlags),
		e.normalizer.Normalize(c.Title, titleFlags),
	)

	// Edition-aware comparison is a third candidate value for the title
	// score. It stays unclamped here so near-ties keep their order.
	titleEdition := edition.Similarity(p.Title, c.Title, e.normalizer, titleFlags)

	titleScore := titlePlain
	if titleEdition > titleScore {
		titleScore = titleEdition
	}

	bonus := format.Bonus(p.FormatCategory, c.Formats, opts.FormatStrictness)

	confidence := clamp(int(math.Round(
		artistWeight*float64(artistScore) + titleWeight*float64(titleScore) + float64(bonus),
	)))

	return models.MatchCandidate{
		Release:        c,
		Confidence:     confidence,
		Classification: classify(p, c, artistScore, titlePlain),
		Breakdown: models.SimilarityBreakdown{
			Artist:      clamp(artistScore),
			Title:       clamp(titleScore),
			FormatBonus: bonus,
		},
	}
}

// classify labels a candidate: exact when the raw key fields are
// byte-identical, normalized when both fields reach the normalized
// floor, fuzzy otherwise. Uses the plain title score; edition
// adjustments never promote a classification.
func classify(p models.PurchaseRecord, c models.CandidateRelease, artistScore, titleScore int) models.MatchClassification {
	if p.Artist == c.ArtistCredit && p.Title == c.Title {
		return models.ClassificationExact
	}
	if artistScore >= normalizedFloor && titleScore >= normalizedFloor {
		return models.ClassificationNormalized
	}
	return models.ClassificationFuzzy
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
