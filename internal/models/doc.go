// Crateful - Purchase-to-Catalog Release Matching
// Copyright 2026 Crateful Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/crateful/crateful

/*
Package models defines the core data types exchanged between the
matching engine, the resilience wrapper, and callers.

The model is small:

  - PurchaseRecord: a user's owned item as produced by ingestion
    (artist, title, format, purchase date). Immutable once built.
  - CandidateRelease: a catalog entry returned by an external lookup
    service for possible correspondence with a purchase.
  - MatchCandidate / MatchOutcome: the scored result of comparing one
    purchase against a candidate list.
  - ResilienceEnvelope / StructuredError: the failure-safe result shape
    returned by the resilience wrapper. An envelope always carries a
    usable MatchOutcome, either the real one or a no-match fallback, so
    callers never special-case failures when rendering.

All types are plain data with JSON tags; no method performs I/O.
*/
package models
