// Crateful - Purchase-to-Catalog Release Matching
// Copyright 2026 Crateful Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/crateful/crateful

package models

// MatchClassification describes how a candidate matched.
type MatchClassification string

const (
	// ClassificationExact means the raw artist and title strings were
	// byte-identical before any normalization.
	ClassificationExact MatchClassification = "exact"

	// ClassificationNormalized means both fields were identical after
	// canonicalization (similarity >= 98 on each).
	ClassificationNormalized MatchClassification = "normalized"

	// ClassificationFuzzy means the fields were similar but not identical.
	ClassificationFuzzy MatchClassification = "fuzzy"
)

// Rank orders classifications for sorting: exact > normalized > fuzzy.
func (c MatchClassification) Rank() int {
	switch c {
	case ClassificationExact:
		return 2
	case ClassificationNormalized:
		return 1
	default:
		return 0
	}
}

// MatchStatus is the disposition of a purchase after matching.
type MatchStatus string

const (
	StatusMatched MatchStatus = "matched"
	StatusReview  MatchStatus = "review"
	StatusNoMatch MatchStatus = "no-match"
)

// FormatStrictness controls how heavily format agreement influences
// confidence.
type FormatStrictness string

const (
	StrictnessStrict FormatStrictness = "strict"
	StrictnessLoose  FormatStrictness = "loose"
	StrictnessAny    FormatStrictness = "any"
)

// SimilarityBreakdown records the per-field scores behind a confidence
// value. Artist and Title are in [0,100]; FormatBonus is signed.
type SimilarityBreakdown struct {
	Artist      int `json:"artist"`
	Title       int `json:"title"`
	FormatBonus int `json:"format_bonus"`
}

// MatchCandidate is a scored catalog release. Confidence is always
// clamped to [0,100].
type MatchCandidate struct {
	Release        CandidateRelease    `json:"release"`
	Confidence     int                 `json:"confidence"`
	Classification MatchClassification `json:"classification"`
	Breakdown      SimilarityBreakdown `json:"breakdown"`
}

// SearchQuery echoes the fields used to search the catalog.
type SearchQuery struct {
	Artist string `json:"artist"`
	Title  string `json:"title"`
	Format string `json:"format,omitempty"`
}

// MatchOutcome is the result of matching one purchase against a
// candidate list. BestMatch is nil when no candidate survived the
// minimum-confidence filter. Alternatives are ordered by descending
// confidence and capped at the configured maximum.
type MatchOutcome struct {
	BestMatch    *MatchCandidate  `json:"best_match,omitempty"`
	Alternatives []MatchCandidate `json:"alternatives"`
	Query        SearchQuery      `json:"query"`
	Status       MatchStatus      `json:"status"`
}
