// Crateful - Purchase-to-Catalog Release Matching
// Copyright 2026 Crateful Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/crateful/crateful

package models

// FormatDescriptor describes one physical/digital format of a catalog
// release, e.g. {Name: "Vinyl", Quantity: "2", Descriptions: ["LP", "Album"]}.
type FormatDescriptor struct {
	Name         string   `json:"name"`
	Quantity     string   `json:"qty,omitempty"`
	Descriptions []string `json:"descriptions,omitempty"`
}

// CandidateRelease is a catalog entry returned by the external lookup
// service for possible correspondence with a purchase record.
type CandidateRelease struct {
	ID           int64              `json:"id"`
	Title        string             `json:"title"`
	ArtistCredit string             `json:"artist_credit"`
	Year         int                `json:"year,omitempty"`
	Formats      []FormatDescriptor `json:"formats,omitempty"`
	ResourceURL  string             `json:"resource_url,omitempty"`
	URI          string             `json:"uri,omitempty"`
}
