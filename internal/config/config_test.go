// ReelMatch - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package config

import (
	"testing"
	"time"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "port zero", mutate: func(c *Config) { c.Server.Port = 0 }, wantErr: true},
		{name: "port too high", mutate: func(c *Config) { c.Server.Port = 70000 }, wantErr: true},
		{name: "zero timeout", mutate: func(c *Config) { c.Server.Timeout = 0 }, wantErr: true},
		{name: "empty database path", mutate: func(c *Config) { c.Database.Path = "" }, wantErr: true},
		{name: "negative threads", mutate: func(c *Config) { c.Database.Threads = -1 }, wantErr: true},
		{name: "import without movies", mutate: func(c *Config) { c.Data.MoviesPath = "" }, wantErr: true},
		{
			name: "no import without paths",
			mutate: func(c *Config) {
				c.Data.ImportOnStartup = false
				c.Data.MoviesPath = ""
				c.Data.RatingsPath = ""
			},
		},
		{name: "store without path", mutate: func(c *Config) { c.Store.Path = "" }, wantErr: true},
		{
			name: "disabled store without path",
			mutate: func(c *Config) {
				c.Store.Enabled = false
				c.Store.Path = ""
			},
		},
		{name: "rate limit zero", mutate: func(c *Config) { c.Security.RateLimitReqs = 0 }, wantErr: true},
		{
			name: "rate limit disabled",
			mutate: func(c *Config) {
				c.Security.RateLimitDisabled = true
				c.Security.RateLimitReqs = 0
			},
		},
		{name: "rate window too long", mutate: func(c *Config) { c.Security.RateLimitWindow = 2 * time.Hour }, wantErr: true},
		{name: "train limit zero", mutate: func(c *Config) { c.Security.TrainRequestsPerHour = 0 }, wantErr: true},
		{name: "train burst zero", mutate: func(c *Config) { c.Security.TrainBurst = 0 }, wantErr: true},
		{name: "breaker failures zero", mutate: func(c *Config) { c.Events.BreakerMaxFailures = 0 }, wantErr: true},
		{name: "bad log level", mutate: func(c *Config) { c.Logging.Level = "verbose" }, wantErr: true},
		{name: "bad log format", mutate: func(c *Config) { c.Logging.Format = "xml" }, wantErr: true},
		{name: "empty log format", mutate: func(c *Config) { c.Logging.Format = "" }},
		{name: "bad engine config", mutate: func(c *Config) { c.Recommend.Evaluation.K = 0 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_HasWildcardCORS(t *testing.T) {
	cfg := defaultConfig()
	if !cfg.HasWildcardCORS() {
		t.Error("HasWildcardCORS() = false for default [*]")
	}
	cfg.Security.CORSOrigins = []string{"https://example.com"}
	if cfg.HasWildcardCORS() {
		t.Error("HasWildcardCORS() = true for explicit origin")
	}
}

func TestConfig_IsProduction(t *testing.T) {
	cfg := defaultConfig()
	if cfg.IsProduction() {
		t.Error("IsProduction() = true for development")
	}
	cfg.Server.Environment = "production"
	if !cfg.IsProduction() {
		t.Error("IsProduction() = false for production")
	}
}
