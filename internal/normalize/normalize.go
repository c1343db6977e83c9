// Crateful - Purchase-to-Catalog Release Matching
// Copyright 2026 Crateful Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/crateful/crateful

package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Flags control the optional normalization steps.
type Flags struct {
	// ExpandAbbreviations rewrites common shorthand ("feat." ->
	// "featuring", "&" -> "and", "vol." -> "volume") before punctuation
	// is stripped.
	ExpandAbbreviations bool

	// RemoveArticles strips a single leading "the", "a", or "an".
	RemoveArticles bool
}

// DefaultCacheSize is the memo cache capacity used by New.
const DefaultCacheSize = 1024

// Normalizer canonicalizes text through a fixed pipeline, memoizing
// results in a bounded cache. Safe for concurrent use.
type Normalizer struct {
	cache *memoCache
}

// New returns a Normalizer with a memo cache of the given capacity.
// Non-positive capacity falls back to DefaultCacheSize.
func New(cacheSize int) *Normalizer {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	return &Normalizer{cache: newMemoCache(cacheSize)}
}

// stripMarks removes combining marks after NFD decomposition, so
// "Björk" -> "Bjork" and "Café" -> "Cafe".
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// ligatures covers letters that NFD decomposition leaves intact.
// Applied after lowercasing, so lowercase forms suffice.
var ligatures = strings.NewReplacer(
	"ø", "o",
	"æ", "ae",
	"œ", "oe",
	"ß", "ss",
	"đ", "d",
	"ð", "d",
	"þ", "th",
	"ł", "l",
)

// typography maps quote, dash, and ellipsis variants to ASCII.
var typography = strings.NewReplacer(
	"‘", "'", // left single quote
	"’", "'", // right single quote
	"‚", "'",
	"“", `"`, // left double quote
	"”", `"`, // right double quote
	"„", `"`,
	"–", "-", // en dash
	"—", "-", // em dash
	"―", "-", // horizontal bar
	"…", "...",
)

// romanNumerals maps I through XX, longest form first so alternation
// never substitutes a prefix of a longer numeral.
var romanNumerals = map[string]string{
	"XVIII": "18", "XIII": "13", "XVII": "17", "XIV": "14", "XVI": "16",
	"XIX": "19", "XII": "12", "VIII": "8", "III": "3", "VII": "7",
	"XI": "11", "XV": "15", "XX": "20", "IV": "4", "IX": "9",
	"VI": "6", "II": "2", "I": "1", "V": "5", "X": "10",
}

// Matched in uppercase only; conversion runs before lowercasing so
// ordinary words are never rewritten.
var romanRe = regexp.MustCompile(`\b(XVIII|XVII|XIX|XVI|XIV|XIII|XII|XI|XX|XV|X|IX|VIII|VII|VI|IV|V|III|II|I)\b`)

var (
	abbrevFeat    = regexp.MustCompile(`\b(?:feat|ft)\.`)
	abbrevVol     = regexp.MustCompile(`\bvol\.`)
	punctuationRe = regexp.MustCompile(`[^\p{L}\p{N}_\s-]`)
	articleRe     = regexp.MustCompile(`^(?:the|a|an)\s+`)
	whitespaceRe  = regexp.MustCompile(`\s+`)
)

// Normalize returns the canonical lowercase form of s under the given
// flags. Results are memoized.
func (n *Normalizer) Normalize(s string, flags Flags) string {
	key := cacheKey(s, flags)
	if v, ok := n.cache.Get(key); ok {
		return v
	}
	v := apply(s, flags)
	n.cache.Add(key, v)
	return v
}

// CacheStats returns memo cache hit/miss counts and current size.
func (n *Normalizer) CacheStats() (hits, misses int64, size int) {
	return n.cache.Stats()
}

func cacheKey(s string, flags Flags) string {
	var b strings.Builder
	b.Grow(len(s) + 3)
	b.WriteString(s)
	b.WriteByte(0)
	if flags.ExpandAbbreviations {
		b.WriteByte('a')
	}
	if flags.RemoveArticles {
		b.WriteByte('r')
	}
	return b.String()
}

// apply runs the canonicalization pipeline. Step order matters; see the
// package documentation.
func apply(s string, flags Flags) string {
	// 1. Trim.
	s = strings.TrimSpace(s)

	// 2. Roman numerals I-XX to Arabic at word boundaries.
	s = romanRe.ReplaceAllStringFunc(s, func(m string) string {
		return romanNumerals[m]
	})

	// 3. Lowercase.
	s = strings.ToLower(s)

	// 4. Decompose and strip diacritics, then substitute the letters
	// decomposition leaves behind.
	if t, _, err := transform.String(stripMarks, s); err == nil {
		s = t
	}
	s = ligatures.Replace(s)

	// 5. Normalize typographic variants, collapse whitespace.
	s = typography.Replace(s)
	s = whitespaceRe.ReplaceAllString(s, " ")

	// 6. Expand abbreviations while their punctuation still exists.
	if flags.ExpandAbbreviations {
		s = abbrevFeat.ReplaceAllString(s, "featuring")
		s = abbrevVol.ReplaceAllString(s, "volume")
		s = strings.ReplaceAll(s, "&", " and ")
	}

	// 7. Strip everything except word characters, spaces, and hyphens.
	s = punctuationRe.ReplaceAllString(s, "")

	// 8. Hyphens become spaces so "rock-roll" and "rock roll" compare equal.
	s = strings.ReplaceAll(s, "-", " ")

	// 9. Single leading article.
	if flags.RemoveArticles {
		s = articleRe.ReplaceAllString(s, "")
	}

	// 10. Final whitespace collapse and trim.
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
