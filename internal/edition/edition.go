// Crateful - Purchase-to-Catalog Release Matching
// Copyright 2026 Crateful Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/crateful/crateful

package edition

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/crateful/crateful/internal/normalize"
	"github.com/crateful/crateful/internal/similarity"
)

// Info is the result of extracting an edition marker from a title.
type Info struct {
	// BaseTitle is the title with the marker removed and trailing
	// punctuation trimmed.
	BaseTitle string

	// Marker is the extracted edition text, empty when none was found.
	Marker string

	// Year is a 4-digit year found inside the marker, 0 when absent.
	Year int

	// HasMarker reports whether any pattern category matched.
	HasMarker bool
}

// Pattern categories in precedence order; the first match wins.
// Precedence is fixed here: a title ending in "[2009 Remaster]" is
// treated as bracketed, not year-qualified.
var patterns = []*regexp.Regexp{
	regexp.MustCompile(`\(([^)]+)\)\s*$`),                    // parenthetical suffix
	regexp.MustCompile(`\[([^\]]+)\]\s*$`),                   // bracketed suffix
	regexp.MustCompile(`\s[-\x{2013}]\s+([^-]+?)\s*$`),       // dash-separated suffix
	regexp.MustCompile(`\b((?:19|20)\d{2}\s+[\p{L}\d ]+?)$`), // year-qualified suffix
}

var yearRe = regexp.MustCompile(`\b(19|20)\d{2}\b`)

// Extract pulls a trailing edition marker from title, if any.
func Extract(title string) Info {
	trimmed := strings.TrimSpace(title)

	for _, re := range patterns {
		loc := re.FindStringSubmatchIndex(trimmed)
		if loc == nil {
			continue
		}
		marker := strings.TrimSpace(trimmed[loc[2]:loc[3]])
		if marker == "" {
			continue
		}
		base := strings.TrimRight(trimmed[:loc[0]], " \t-:,;")

		info := Info{
			BaseTitle: base,
			Marker:    marker,
			HasMarker: true,
		}
		if y := yearRe.FindString(marker); y != "" {
			info.Year, _ = strconv.Atoi(y)
		}
		return info
	}

	return Info{BaseTitle: trimmed}
}

// Adjustments applied on top of base-title similarity.
const (
	bothMarkersWeight = 0.10
	neitherBonus      = 5
	mismatchPenalty   = -2
)

// Similarity scores two titles with edition awareness: base titles are
// compared with the normal field scorer, then adjusted by the marker
// relationship. The result may exceed 100; the caller clamps.
func Similarity(titleA, titleB string, n *normalize.Normalizer, flags normalize.Flags) int {
	infoA := Extract(titleA)
	infoB := Extract(titleB)

	base := similarity.Score(
		infoA.BaseTitle, infoB.BaseTitle,
		n.Normalize(infoA.BaseTitle, flags), n.Normalize(infoB.BaseTitle, flags),
	)

	switch {
	case infoA.HasMarker && infoB.HasMarker:
		markerSim := similarity.Score(
			infoA.Marker, infoB.Marker,
			n.Normalize(infoA.Marker, flags), n.Normalize(infoB.Marker, flags),
		)
		return base + int(math.Round(bothMarkersWeight*float64(markerSim)))
	case !infoA.HasMarker && !infoB.HasMarker:
		return base + neitherBonus
	default:
		return base + mismatchPenalty
	}
}
