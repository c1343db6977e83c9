// Crateful - Purchase-to-Catalog Release Matching
// Copyright 2026 Crateful Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/crateful/crateful

/*
Package match scores candidate releases against a purchase record and
derives a match outcome.

The Engine is pure and synchronous: it performs no I/O and holds no
state beyond the normalizer's memo cache. For each candidate it
computes artist and title similarity (edit-distance, token overlap, and
for titles edition-aware comparison), applies the format bonus, clamps
the combined confidence to [0,100], and classifies the candidate as
exact, normalized, or fuzzy. Candidates are ranked by confidence, then
classification, then release year, and the best candidate's confidence
decides the status: matched at 95 and above, review at 70-94, no-match
below 70 or with no surviving candidates.

Production callers should go through the resilience wrapper instead of
calling the Engine directly.
*/
package match
