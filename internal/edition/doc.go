// Crateful - Purchase-to-Catalog Release Matching
// Copyright 2026 Crateful Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/crateful/crateful

/*
Package edition extracts trailing edition markers from release titles
("Abbey Road (Deluxe Edition)" -> base "Abbey Road", marker "Deluxe
Edition") and produces edition-aware title similarity.

Pattern categories are tried in a fixed precedence order and the first
match wins: parenthetical suffix, bracketed suffix, dash-separated
suffix, year-qualified suffix. A 4-digit year inside the marker is
captured separately.

The edition-aware score compares base titles and then adjusts: +10% of
the marker-to-marker similarity when both titles carry a marker, +5
flat when neither does, -2 flat when only one does. The result is not
clamped here so near-ties stay distinguishable; the confidence
calculator clamps the final value.
*/
package edition
