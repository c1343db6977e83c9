// Crateful - Purchase-to-Catalog Release Matching
// Copyright 2026 Crateful Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/crateful/crateful

/*
Package similarity scores how alike two pieces of normalized text are,
on a 0-100 scale.

Two measures are provided and a field's similarity is the maximum of
both:

  - Edit-distance similarity: classic insert/delete/substitute distance
    computed with a two-row table (O(min(len)) memory), scaled to 0-100.
  - Token similarity: whitespace tokens compared by frequency-map
    overlap, O(n) in token count.

Identical raw strings short-circuit to 100 and strings identical only
after normalization short-circuit to 98; the gap separates exact
matches from normalized ones downstream.
*/
package similarity
