// Crateful - Purchase-to-Catalog Release Matching
// Copyright 2026 Crateful Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/crateful/crateful

// Package main is the crateful command: offline batch matching of a
// purchase export against pre-fetched catalog candidate sets.
//
// Input is two JSON files: a purchase list and a map from purchase
// source URL to its candidate releases. Every purchase is matched
// through the resilience wrapper with bounded concurrency, and the
// resulting envelopes are written to stdout (or -output) as JSON.
//
// Configuration is loaded via Koanf v2 with layered sources, highest
// priority last: built-in defaults, an optional config.yaml, and
// CRATEFUL_* environment variables. See internal/config.
//
// Example:
//
//	crateful -purchases purchases.json -candidates candidates.json > outcomes.json
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	json "github.com/goccy/go-json"

	"github.com/crateful/crateful/internal/config"
	"github.com/crateful/crateful/internal/logging"
	"github.com/crateful/crateful/internal/match"
	"github.com/crateful/crateful/internal/metrics"
	"github.com/crateful/crateful/internal/models"
	"github.com/crateful/crateful/internal/normalize"
	"github.com/crateful/crateful/internal/resilience"
)

func main() {
	if err := run(); err != nil {
		logging.Err(err).Msg("crateful failed")
		os.Exit(1)
	}
}

func run() error {
	purchasesPath := flag.String("purchases", "", "path to purchases JSON file (required)")
	candidatesPath := flag.String("candidates", "", "path to candidates JSON file (required)")
	outputPath := flag.String("output", "", "path to output JSON file (default stdout)")
	flag.Parse()

	if *purchasesPath == "" || *candidatesPath == "" {
		flag.Usage()
		return fmt.Errorf("both -purchases and -candidates are required")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})

	purchases, err := readPurchases(*purchasesPath)
	if err != nil {
		return err
	}
	candidateSets, err := readCandidateSets(*candidatesPath)
	if err != nil {
		return err
	}

	logging.Info().
		Int("purchases", len(purchases)).
		Int("candidate_sets", len(candidateSets)).
		Msg("loaded input files")

	normalizer := normalize.New(cfg.Normalizer.CacheSize)
	engine := match.NewEngine(normalizer)
	matcher := resilience.NewMatcher(engine, cfg.ResilienceSettings(), nil)

	fetch := func(_ context.Context, p models.PurchaseRecord) ([]models.CandidateRelease, error) {
		candidates, ok := candidateSets[p.SourceURL]
		if !ok {
			return nil, fmt.Errorf("no candidate set for %s", p.SourceURL)
		}
		return candidates, nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := resilience.Options{Options: cfg.MatchOptions()}
	envelopes := matcher.MatchBatch(ctx, purchases, fetch, opts)

	hits, misses, cacheSize := normalizer.CacheStats()
	metrics.NormalizerCacheHits.Set(float64(hits))
	metrics.NormalizerCacheMisses.Set(float64(misses))

	snap := matcher.Counters().Snapshot()
	logging.Info().
		Int64("total", snap.Total).
		Int64("success", snap.Success).
		Int64("failure", snap.Failure).
		Int64("timeout", snap.Timeout).
		Int64("validation_errors", snap.ValidationErrors).
		Int64("cache_hits", hits).
		Int64("cache_misses", misses).
		Int("cache_size", cacheSize).
		Msg("batch match complete")

	return writeEnvelopes(*outputPath, envelopes)
}

func readPurchases(path string) ([]models.PurchaseRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read purchases: %w", err)
	}
	var purchases []models.PurchaseRecord
	if err := json.Unmarshal(data, &purchases); err != nil {
		return nil, fmt.Errorf("failed to parse purchases: %w", err)
	}
	return purchases, nil
}

func readCandidateSets(path string) (map[string][]models.CandidateRelease, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read candidates: %w", err)
	}
	sets := make(map[string][]models.CandidateRelease)
	if err := json.Unmarshal(data, &sets); err != nil {
		return nil, fmt.Errorf("failed to parse candidates: %w", err)
	}
	return sets, nil
}

func writeEnvelopes(path string, envelopes []models.ResilienceEnvelope) error {
	data, err := json.MarshalIndent(envelopes, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode outcomes: %w", err)
	}
	data = append(data, '\n')

	if path == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
