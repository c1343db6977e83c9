// Crateful - Purchase-to-Catalog Release Matching
// Copyright 2026 Crateful Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/crateful/crateful

// Package format maps a purchase's format category onto the catalog's
// format vocabulary and yields a signed confidence bonus.
package format

import (
	"strings"

	"github.com/crateful/crateful/internal/models"
)

// allowedFragments maps each purchase category to catalog descriptor
// name fragments that count as agreement. Matching is case-insensitive
// substring containment.
var allowedFragments = map[models.FormatCategory][]string{
	models.FormatVinyl:    {"vinyl", "lp", `12"`, `10"`, `7"`, "ep", "album"},
	models.FormatCD:       {"cd", "compact disc", "hdcd", "sacd"},
	models.FormatCassette: {"cassette", "tape", "mc"},
	models.FormatOther:    {"dvd", "blu-ray", "box set", "minidisc", "dat", "8-track"},
}

// Bonus values per strictness level.
const (
	looseMatch    = 5
	loosePenalty  = -2
	strictMatch   = 10
	strictPenalty = -10
)

// Bonus returns the signed format bonus for a candidate under the given
// strictness.
//
// Digital purchases are format-agnostic and candidates without format
// descriptors carry no penalty for missing data: both yield 0, as does
// strictness "any".
func Bonus(category models.FormatCategory, formats []models.FormatDescriptor, strictness models.FormatStrictness) int {
	if strictness == models.StrictnessAny {
		return 0
	}
	if category == models.FormatDigital {
		return 0
	}
	if len(formats) == 0 {
		return 0
	}

	matched := matches(category, formats)

	if strictness == models.StrictnessStrict {
		if matched {
			return strictMatch
		}
		return strictPenalty
	}
	if matched {
		return looseMatch
	}
	return loosePenalty
}

// matches reports whether any candidate format descriptor name contains
// an allowed fragment for the category.
func matches(category models.FormatCategory, formats []models.FormatDescriptor) bool {
	fragments := allowedFragments[category]
	if len(fragments) == 0 {
		return false
	}
	for _, f := range formats {
		name := strings.ToLower(f.Name)
		for _, frag := range fragments {
			if strings.Contains(name, frag) {
				return true
			}
		}
	}
	return false
}
