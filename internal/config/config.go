// Crateful - Purchase-to-Catalog Release Matching
// Copyright 2026 Crateful Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/crateful/crateful

// Package config loads layered configuration with Koanf v2: built-in
// defaults, then an optional YAML file, then CRATEFUL_* environment
// variables, highest priority last.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/crateful/crateful/internal/match"
	"github.com/crateful/crateful/internal/models"
	"github.com/crateful/crateful/internal/resilience"
)

// DefaultConfigPaths lists where config files are searched, in order.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/crateful/config.yaml",
	"/etc/crateful/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CRATEFUL_CONFIG"

// envPrefix namespaces environment overrides:
// CRATEFUL_RESILIENCE_TIMEOUT -> resilience.timeout.
const envPrefix = "CRATEFUL_"

// Config is the full application configuration.
type Config struct {
	Logging    LoggingConfig    `koanf:"logging"`
	Match      MatchConfig      `koanf:"match"`
	Resilience ResilienceConfig `koanf:"resilience"`
	Normalizer NormalizerConfig `koanf:"normalizer"`
}

// LoggingConfig configures the global logger.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// MatchConfig holds default per-call match options.
type MatchConfig struct {
	IncludeAlternatives bool   `koanf:"include_alternatives"`
	MaxAlternatives     int    `koanf:"max_alternatives"`
	FormatStrictness    string `koanf:"format_strictness"`
	MinConfidence       int    `koanf:"min_confidence"`
}

// ResilienceConfig tunes the resilience wrapper.
type ResilienceConfig struct {
	FailureThreshold uint32        `koanf:"failure_threshold"`
	CoolDown         time.Duration `koanf:"cool_down"`
	Timeout          time.Duration `koanf:"timeout"`
	BatchConcurrency int           `koanf:"batch_concurrency"`
	ChunkDelay       time.Duration `koanf:"chunk_delay"`
}

// NormalizerConfig tunes the normalization memo cache.
type NormalizerConfig struct {
	CacheSize int `koanf:"cache_size"`
}

// defaultConfig returns the built-in defaults, applied first and
// overridden by file and environment layers.
func defaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Match: MatchConfig{
			IncludeAlternatives: true,
			MaxAlternatives:     match.DefaultMaxAlternatives,
			FormatStrictness:    "loose",
			MinConfidence:       0,
		},
		Resilience: ResilienceConfig{
			FailureThreshold: resilience.DefaultFailureThreshold,
			CoolDown:         resilience.DefaultCoolDown,
			Timeout:          resilience.DefaultTimeout,
			BatchConcurrency: resilience.DefaultBatchConcurrency,
			ChunkDelay:       resilience.DefaultChunkDelay,
		},
		Normalizer: NormalizerConfig{
			CacheSize: 1024,
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file,
// and CRATEFUL_* environment variables, then validates it.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(s, envPrefix)
		s = strings.ToLower(s)
		return strings.Replace(s, "_", ".", 1)
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// findConfigFile returns the first existing config file path, or "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// Validate checks every tunable against its documented range.
func (c *Config) Validate() error {
	if c.Match.MaxAlternatives < 0 || c.Match.MaxAlternatives > match.MaxAlternativesCap {
		return fmt.Errorf("match.max_alternatives must be between 0 and %d", match.MaxAlternativesCap)
	}
	if c.Match.MinConfidence < 0 || c.Match.MinConfidence > 100 {
		return fmt.Errorf("match.min_confidence must be between 0 and 100")
	}
	switch c.Match.FormatStrictness {
	case "strict", "loose", "any":
	default:
		return fmt.Errorf("match.format_strictness must be strict, loose, or any")
	}
	if c.Resilience.FailureThreshold < 1 {
		return fmt.Errorf("resilience.failure_threshold must be at least 1")
	}
	if c.Resilience.Timeout < resilience.MinTimeout || c.Resilience.Timeout > resilience.MaxTimeout {
		return fmt.Errorf("resilience.timeout must be between %s and %s", resilience.MinTimeout, resilience.MaxTimeout)
	}
	if c.Resilience.BatchConcurrency < 1 || c.Resilience.BatchConcurrency > resilience.MaxBatchConcurrency {
		return fmt.Errorf("resilience.batch_concurrency must be between 1 and %d", resilience.MaxBatchConcurrency)
	}
	if c.Resilience.CoolDown <= 0 {
		return fmt.Errorf("resilience.cool_down must be positive")
	}
	if c.Normalizer.CacheSize < 1 {
		return fmt.Errorf("normalizer.cache_size must be at least 1")
	}
	return nil
}

// MatchOptions converts the configured match defaults into engine
// options.
func (c *Config) MatchOptions() match.Options {
	return match.Options{
		IncludeAlternatives: c.Match.IncludeAlternatives,
		MaxAlternatives:     c.Match.MaxAlternatives,
		FormatStrictness:    models.FormatStrictness(c.Match.FormatStrictness),
		MinConfidence:       c.Match.MinConfidence,
	}
}

// ResilienceSettings converts the configured wrapper tunables.
func (c *Config) ResilienceSettings() resilience.Config {
	return resilience.Config{
		FailureThreshold: c.Resilience.FailureThreshold,
		CoolDown:         c.Resilience.CoolDown,
		Timeout:          c.Resilience.Timeout,
		BatchConcurrency: c.Resilience.BatchConcurrency,
		ChunkDelay:       c.Resilience.ChunkDelay,
	}
}
