// ReelMatch - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

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

	"github.com/tomtom215/reelmatch/internal/recommend"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/reelmatch/config.yaml",
	"/etc/reelmatch/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all sensible default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        8080,
			Host:        "0.0.0.0",
			Timeout:     30 * time.Second,
			Environment: "development",
		},
		Database: DatabaseConfig{
			Path:      "/data/reelmatch.duckdb",
			MaxMemory: "2GB",
			Threads:   0, // 0 = use runtime.NumCPU()
		},
		Data: DataConfig{
			MoviesPath:      "data/movies.csv",
			RatingsPath:     "data/ratings.csv",
			ImportOnStartup: true,
			TrainOnStartup:  true,
		},
		Store: StoreConfig{
			Enabled: true,
			Path:    "/data/models",
		},
		Security: SecurityConfig{
			RateLimitReqs:        100,
			RateLimitWindow:      1 * time.Minute,
			RateLimitDisabled:    false,
			CORSOrigins:          []string{"*"},
			TrainRequestsPerHour: 6,
			TrainBurst:           1,
		},
		Events: EventsConfig{
			Enabled:            true,
			BufferSize:         64,
			BreakerMaxFailures: 5,
			BreakerTimeout:     30 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Recommend: *recommend.DefaultConfig(),
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in sensible defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any setting
//
// Precedence is ENV > File > Defaults.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	defaults := defaultConfig()
	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	configPath := findConfigFile()
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	envProvider := env.Provider("", ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Post-process slice fields from comma-separated strings
	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
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

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
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

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"security.cors_origins",
	"recommend.content.fields",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// Env vars come in as strings, but the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps environment variable names (lower-cased) to config paths.
// Unmapped variables are ignored so the process environment cannot pollute config.
var envMappings = map[string]string{
	// Server mappings
	"http_port":      "server.port",
	"http_host":      "server.host",
	"server_timeout": "server.timeout",
	"environment":    "server.environment",

	// Database mappings
	"duckdb_path":       "database.path",
	"duckdb_max_memory": "database.max_memory",
	"duckdb_threads":    "database.threads",

	// Dataset mappings
	"movies_csv":        "data.movies_path",
	"ratings_csv":       "data.ratings_path",
	"import_on_startup": "data.import_on_startup",
	"train_on_startup":  "data.train_on_startup",

	// Model store mappings
	"model_store_enabled": "store.enabled",
	"model_store_path":    "store.path",

	// Security mappings
	"rate_limit_requests":     "security.rate_limit_requests",
	"rate_limit_window":       "security.rate_limit_window",
	"disable_rate_limit":      "security.rate_limit_disabled",
	"cors_origins":            "security.cors_origins",
	"train_requests_per_hour": "security.train_requests_per_hour",
	"train_burst":             "security.train_burst",

	// Event bus mappings
	"events_enabled":              "events.enabled",
	"events_buffer_size":          "events.buffer_size",
	"events_breaker_max_failures": "events.breaker_max_failures",
	"events_breaker_timeout":      "events.breaker_timeout",

	// Logging mappings
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Recommendation engine mappings
	"recommend_content_fields":        "recommend.content.fields",
	"recommend_max_features":          "recommend.content.max_features",
	"recommend_ngram_max":             "recommend.content.ngram_max",
	"recommend_stop_words":            "recommend.content.stop_words",
	"recommend_factors":               "recommend.collaborative.factors",
	"recommend_duplicate_policy":      "recommend.collaborative.duplicate_policy",
	"recommend_content_weight":        "recommend.hybrid.content_weight",
	"recommend_collab_weight":         "recommend.hybrid.collab_weight",
	"recommend_candidate_multiplier":  "recommend.hybrid.candidate_multiplier",
	"recommend_eval_k":                "recommend.evaluation.k",
	"recommend_eval_max_users":        "recommend.evaluation.max_users",
	"recommend_relevance_threshold":   "recommend.evaluation.relevance_threshold",
	"recommend_skip_empty":            "recommend.evaluation.skip_empty_recommendations",
	"recommend_min_ratings_per_movie": "recommend.training.min_ratings_per_movie",
	"recommend_test_fraction":         "recommend.training.test_fraction",
	"recommend_seed":                  "recommend.training.seed",
	"recommend_train_timeout":         "recommend.training.timeout",
	"recommend_train_interval":        "recommend.training.interval",
	"recommend_retain_versions":       "recommend.training.retain_versions",
	"recommend_default_n":             "recommend.limits.default_n",
	"recommend_max_n":                 "recommend.limits.max_n",
	"recommend_cache_enabled":         "recommend.cache.enabled",
	"recommend_cache_ttl":             "recommend.cache.ttl",
	"recommend_cache_max_entries":     "recommend.cache.max_entries",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - HTTP_PORT -> server.port
//   - DUCKDB_PATH -> database.path
//   - RECOMMEND_FACTORS -> recommend.collaborative.factors
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}
