// Crateful - Purchase-to-Catalog Release Matching
// Copyright 2026 Crateful Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/crateful/crateful

package edition

import (
	"testing"

	"github.com/crateful/crateful/internal/normalize"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name       string
		title      string
		wantBase   string
		wantMarker string
		wantYear   int
		wantFound  bool
	}{
		{
			name:       "parenthetical suffix",
			title:      "Abbey Road (Deluxe Edition)",
			wantBase:   "Abbey Road",
			wantMarker: "Deluxe Edition",
			wantFound:  true,
		},
		{
			name:       "bracketed suffix",
			title:      "OK Computer [Collector's Edition]",
			wantBase:   "OK Computer",
			wantMarker: "Collector's Edition",
			wantFound:  true,
		},
		{
			name:       "dash separated suffix",
			title:      "Rumours - Deluxe Edition",
			wantBase:   "Rumours",
			wantMarker: "Deluxe Edition",
			wantFound:  true,
		},
		{
			name:       "year qualified suffix",
			title:      "Nevermind 2011 Remastered",
			wantBase:   "Nevermind",
			wantMarker: "2011 Remastered",
			wantYear:   2011,
			wantFound:  true,
		},
		{
			name:       "year inside parenthetical marker",
			title:      "The Wall (2012 Remaster)",
			wantBase:   "The Wall",
			wantMarker: "2012 Remaster",
			wantYear:   2012,
			wantFound:  true,
		},
		{
			name:       "parenthetical wins over dash",
			title:      "Something - Else (Live)",
			wantBase:   "Something - Else",
			wantMarker: "Live",
			wantFound:  true,
		},
		{
			name:      "no marker",
			title:     "Abbey Road",
			wantBase:  "Abbey Road",
			wantFound: false,
		},
		{
			name:      "leading parenthetical is not a marker",
			title:     "(What's the Story) Morning Glory?",
			wantBase:  "(What's the Story) Morning Glory?",
			wantFound: false,
		},
		{
			name:      "whitespace trimmed",
			title:     "  Abbey Road  ",
			wantBase:  "Abbey Road",
			wantFound: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := Extract(tt.title)
			if info.BaseTitle != tt.wantBase {
				t.Errorf("BaseTitle = %q, want %q", info.BaseTitle, tt.wantBase)
			}
			if info.Marker != tt.wantMarker {
				t.Errorf("Marker = %q, want %q", info.Marker, tt.wantMarker)
			}
			if info.Year != tt.wantYear {
				t.Errorf("Year = %d, want %d", info.Year, tt.wantYear)
			}
			if info.HasMarker != tt.wantFound {
				t.Errorf("HasMarker = %v, want %v", info.HasMarker, tt.wantFound)
			}
		})
	}
}

func TestSimilarity_MarkerAdjustments(t *testing.T) {
	n := normalize.New(0)
	flags := normalize.Flags{ExpandAbbreviations: true}

	// Same base, both with identical markers: 100 + 10% of 100 = 110.
	got := Similarity("Abbey Road (Deluxe Edition)", "Abbey Road (Deluxe Edition)", n, flags)
	if got != 110 {
		t.Errorf("both markers identical: got %d, want 110", got)
	}

	// Same base, neither with a marker: 100 + 5.
	got = Similarity("Abbey Road", "Abbey Road", n, flags)
	if got != 105 {
		t.Errorf("neither marker: got %d, want 105", got)
	}

	// Same base, only one with a marker: 100 - 2.
	got = Similarity("Abbey Road (Deluxe Edition)", "Abbey Road", n, flags)
	if got != 98 {
		t.Errorf("one marker: got %d, want 98", got)
	}
}

func TestSimilarity_EditionAwareDiffersFromPlain(t *testing.T) {
	n := normalize.New(0)
	flags := normalize.Flags{ExpandAbbreviations: true}

	// "Abbey Road (Deluxe Edition)" vs "Abbey Road": the base titles
	// agree exactly, so the edition-aware score reflects only the
	// marker mismatch penalty rather than a long edit distance.
	editionAware := Similarity("Abbey Road (Deluxe Edition)", "Abbey Road", n, flags)
	if editionAware != 98 {
		t.Errorf("edition-aware similarity = %d, want 98", editionAware)
	}

	// Deterministic for fixed inputs.
	for i := 0; i < 3; i++ {
		if again := Similarity("Abbey Road (Deluxe Edition)", "Abbey Road", n, flags); again != editionAware {
			t.Fatalf("similarity not deterministic: %d != %d", again, editionAware)
		}
	}
}
