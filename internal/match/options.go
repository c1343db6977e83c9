// Crateful - Purchase-to-Catalog Release Matching
// Copyright 2026 Crateful Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/crateful/crateful

package match

import "github.com/crateful/crateful/internal/models"

// Limits and defaults for match options.
const (
	// MaxCandidates caps the candidate list before scoring to bound
	// per-purchase cost.
	MaxCandidates = 100

	// MaxAlternativesCap is the upper bound on returned alternatives.
	MaxAlternativesCap = 10

	// DefaultMaxAlternatives is used when options leave it unset.
	DefaultMaxAlternatives = 3
)

// Status thresholds: a pure function of the best candidate's confidence.
const (
	// AutoMatchThreshold is the minimum confidence for status "matched".
	AutoMatchThreshold = 95

	// ReviewThreshold is the minimum confidence for status "review".
	ReviewThreshold = 70
)

// Options tune a single match computation.
type Options struct {
	// IncludeAlternatives controls whether ranked runners-up are
	// returned alongside the best match.
	IncludeAlternatives bool `json:"include_alternatives" validate:"-"`

	// MaxAlternatives bounds the alternatives list, 0-10. Zero means
	// DefaultMaxAlternatives.
	MaxAlternatives int `json:"max_alternatives" validate:"min=0,max=10"`

	// FormatStrictness is strict, loose, or any. Empty means loose.
	FormatStrictness models.FormatStrictness `json:"format_strictness" validate:"omitempty,oneof=strict loose any"`

	// MinConfidence discards candidates scoring below it, 0-100.
	MinConfidence int `json:"min_confidence" validate:"min=0,max=100"`
}

// withDefaults fills unset fields.
func (o Options) withDefaults() Options {
	if o.MaxAlternatives == 0 {
		o.MaxAlternatives = DefaultMaxAlternatives
	}
	if o.MaxAlternatives > MaxAlternativesCap {
		o.MaxAlternatives = MaxAlternativesCap
	}
	if o.FormatStrictness == "" {
		o.FormatStrictness = models.StrictnessLoose
	}
	return o
}
