// Crateful - Purchase-to-Catalog Release Matching
// Copyright 2026 Crateful Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/crateful/crateful

/*
Package normalize canonicalizes free text for comparison.

The pipeline runs in a fixed order because later steps depend on
earlier ones: Roman numerals are converted before lowercasing (they are
matched in uppercase form), abbreviations are expanded before
punctuation stripping (the trailing dot is part of the pattern), and
articles are removed only after punctuation and hyphens are gone.

Normalization is memoized in a bounded cache keyed by input text plus
flags. Eviction is insertion-order (oldest entry first), not
recency-based; see the cache type for details.

Normalization is idempotent: normalize(normalize(x)) == normalize(x).
*/
package normalize
