// Crateful - Purchase-to-Catalog Release Matching
// Copyright 2026 Crateful Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/crateful/crateful

package similarity

import (
	"math"
	"strings"
)

// EditDistance computes the Levenshtein distance between a and b over
// runes, using two rows instead of the full matrix.
func EditDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	la, lb := len(ra), len(rb)
	if la == 0 {
		return lb
	}
	if lb == 0 {
		return la
	}

	prev := make([]int, lb+1)
	curr := make([]int, lb+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= la; i++ {
		curr[0] = i
		for j := 1; j <= lb; j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(curr[j-1]+1, min(prev[j]+1, prev[j-1]+cost))
		}
		prev, curr = curr, prev
	}
	return prev[lb]
}

// EditSimilarity scales edit distance to 0-100:
// round(100 * (maxLen - distance) / maxLen).
func EditSimilarity(a, b string) int {
	if a == b {
		return 100
	}
	la, lb := len([]rune(a)), len([]rune(b))
	maxLen := la
	if lb > maxLen {
		maxLen = lb
	}
	if maxLen == 0 {
		return 100
	}
	if la == 0 || lb == 0 {
		return 0
	}
	dist := EditDistance(a, b)
	return int(math.Round(100 * float64(maxLen-dist) / float64(maxLen)))
}

// TokenSimilarity compares whitespace-delimited tokens by frequency
// overlap: round(100 * matched*2 / total), where matched sums
// min(freqA, freqB) per token and total counts every token from both
// sides, duplicates included. Symmetric by construction.
func TokenSimilarity(a, b string) int {
	tokensA := strings.Fields(a)
	tokensB := strings.Fields(b)

	if len(tokensA) == 0 && len(tokensB) == 0 {
		return 100
	}
	if len(tokensA) == 0 || len(tokensB) == 0 {
		return 0
	}

	freqA := make(map[string]int, len(tokensA))
	for _, t := range tokensA {
		freqA[t]++
	}
	freqB := make(map[string]int, len(tokensB))
	for _, t := range tokensB {
		freqB[t]++
	}

	matched := 0
	for t, ca := range freqA {
		if cb, ok := freqB[t]; ok {
			matched += min(ca, cb)
		}
	}

	total := len(tokensA) + len(tokensB)
	return int(math.Round(100 * float64(matched*2) / float64(total)))
}

// Score is the similarity for one field: 100 for byte-identical raw
// strings, 98 for strings identical only after normalization, otherwise
// the maximum of edit-distance and token similarity over the normalized
// forms.
func Score(rawA, rawB, normA, normB string) int {
	if rawA == rawB {
		return 100
	}
	if normA == normB {
		return 98
	}
	edit := EditSimilarity(normA, normB)
	token := TokenSimilarity(normA, normB)
	if token > edit {
		return token
	}
	return edit
}
