// Crateful - Purchase-to-Catalog Release Matching
// Copyright 2026 Crateful Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/crateful/crateful

package models

import "time"

// FormatCategory is the physical/digital category of a purchased item.
type FormatCategory string

const (
	FormatDigital  FormatCategory = "Digital"
	FormatVinyl    FormatCategory = "Vinyl"
	FormatCD       FormatCategory = "CD"
	FormatCassette FormatCategory = "Cassette"
	FormatOther    FormatCategory = "Other"
)

// Valid reports whether the category is one of the fixed enum values.
func (f FormatCategory) Valid() bool {
	switch f {
	case FormatDigital, FormatVinyl, FormatCD, FormatCassette, FormatOther:
		return true
	}
	return false
}

// PurchaseRecord is the canonical representation of a user's owned item,
// as produced by the ingestion step. SourceURL is unique per record.
// Records are treated as immutable once constructed.
type PurchaseRecord struct {
	Artist         string         `json:"artist"`
	Title          string         `json:"title"`
	SourceURL      string         `json:"source_url"`
	PurchasedAt    time.Time      `json:"purchased_at"`
	FormatCategory FormatCategory `json:"format_category"`
	RawFormat      string         `json:"raw_format,omitempty"`
}
