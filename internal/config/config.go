// ReelMatch - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package config

import (
	"time"

	"github.com/tomtom215/reelmatch/internal/recommend"
)

// Config holds all application configuration.
//
// Example - Load configuration:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal("Failed to load config:", err)
//	}
//	db, err := database.New(&cfg.Database)
//	engine, err := recommend.NewEngine(&cfg.Recommend, logger)
//
// Thread Safety:
// Config is immutable after Load() and safe for concurrent read access from multiple goroutines.
type Config struct {
	Server    ServerConfig     `koanf:"server"`
	Database  DatabaseConfig   `koanf:"database"`
	Data      DataConfig       `koanf:"data"`
	Store     StoreConfig      `koanf:"store"`
	Security  SecurityConfig   `koanf:"security"`
	Events    EventsConfig     `koanf:"events"`
	Logging   LoggingConfig    `koanf:"logging"`
	Recommend recommend.Config `koanf:"recommend"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port        int           `koanf:"port"`
	Host        string        `koanf:"host"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"` // development, staging, production
}

// DatabaseConfig holds DuckDB settings
type DatabaseConfig struct {
	Path      string `koanf:"path"`
	MaxMemory string `koanf:"max_memory"`
	Threads   int    `koanf:"threads"` // Number of DuckDB threads (0 = use NumCPU)
}

// DataConfig describes where training data comes from.
//
// Environment Variables:
//   - MOVIES_CSV: path to movies.csv (default: data/movies.csv)
//   - RATINGS_CSV: path to ratings.csv (default: data/ratings.csv)
//   - IMPORT_ON_STARTUP: re-import both files into DuckDB on start (default: true)
//   - TRAIN_ON_STARTUP: train when no stored model exists (default: true)
type DataConfig struct {
	MoviesPath      string `koanf:"movies_path"`
	RatingsPath     string `koanf:"ratings_path"`
	ImportOnStartup bool   `koanf:"import_on_startup"`
	TrainOnStartup  bool   `koanf:"train_on_startup"`
}

// StoreConfig holds model store settings.
type StoreConfig struct {
	// Enabled persists every published model to BadgerDB.
	// Default: true
	Enabled bool `koanf:"enabled"`

	// Path is the BadgerDB directory.
	// Default: /data/models
	Path string `koanf:"path"`
}

// SecurityConfig holds request limiting and CORS settings.
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`

	// TrainRequestsPerHour limits POST /model/train across all clients.
	// Default: 6
	TrainRequestsPerHour float64 `koanf:"train_requests_per_hour"`

	// TrainBurst is the number of train requests allowed at once.
	// Default: 1
	TrainBurst int `koanf:"train_burst"`
}

// EventsConfig holds in-process event bus settings.
type EventsConfig struct {
	Enabled bool `koanf:"enabled"`

	// BufferSize is the per-subscriber channel buffer.
	// Default: 64
	BufferSize int64 `koanf:"buffer_size"`

	// BreakerMaxFailures opens the publish circuit after this many
	// consecutive failures.
	// Default: 5
	BreakerMaxFailures uint32 `koanf:"breaker_max_failures"`

	// BreakerTimeout is how long the circuit stays open.
	// Default: 30s
	BreakerTimeout time.Duration `koanf:"breaker_timeout"`
}

// LoggingConfig holds logging configuration.
//
// Environment Variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: true/false - include caller file:line (default: false)
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level"`

	// Format is the output format: json or console.
	// Default: json
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	// Default: false
	Caller bool `koanf:"caller"`
}

// IsProduction reports whether the service runs in production.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// Load loads configuration from defaults, an optional YAML file and the environment.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
