// ReelMatch - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/knadh/koanf/v2"

	"github.com/tomtom215/reelmatch/internal/recommend"
)

// TestDefaultConfig verifies that defaultConfig() returns proper defaults
func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Database.Path != "/data/reelmatch.duckdb" {
		t.Errorf("Database.Path = %q, want /data/reelmatch.duckdb", cfg.Database.Path)
	}
	if !cfg.Store.Enabled || cfg.Store.Path != "/data/models" {
		t.Errorf("Store = %+v, want enabled at /data/models", cfg.Store)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "json" {
		t.Errorf("Logging = %+v, want info/json", cfg.Logging)
	}
	if !reflect.DeepEqual(cfg.Recommend, *recommend.DefaultConfig()) {
		t.Errorf("Recommend = %+v, want recommend.DefaultConfig()", cfg.Recommend)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaultConfig().Validate() error = %v", err)
	}
}

// isolate points config file discovery at an empty directory.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "absent.yaml"))
	saved := DefaultConfigPaths
	DefaultConfigPaths = nil
	t.Cleanup(func() { DefaultConfigPaths = saved })
}

func TestLoadWithKoanf_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}
	if cfg.Recommend.Collaborative.Factors != 50 {
		t.Errorf("Recommend.Collaborative.Factors = %d, want 50", cfg.Recommend.Collaborative.Factors)
	}
	if cfg.Recommend.Training.Interval != 24*time.Hour {
		t.Errorf("Recommend.Training.Interval = %v, want 24h", cfg.Recommend.Training.Interval)
	}
	if !reflect.DeepEqual(cfg.Security.CORSOrigins, []string{"*"}) {
		t.Errorf("Security.CORSOrigins = %v, want [*]", cfg.Security.CORSOrigins)
	}
}

func TestLoadWithKoanf_EnvOverrides(t *testing.T) {
	isolate(t)

	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("DUCKDB_PATH", "/tmp/test.duckdb")
	t.Setenv("MODEL_STORE_ENABLED", "false")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("RECOMMEND_FACTORS", "20")
	t.Setenv("RECOMMEND_CONTENT_FIELDS", "genres,overview")
	t.Setenv("RECOMMEND_CONTENT_WEIGHT", "0.7")
	t.Setenv("RECOMMEND_TRAIN_INTERVAL", "6h")
	t.Setenv("RECOMMEND_DUPLICATE_POLICY", "last")
	t.Setenv("UNRELATED_VARIABLE", "ignored")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Database.Path != "/tmp/test.duckdb" {
		t.Errorf("Database.Path = %q, want /tmp/test.duckdb", cfg.Database.Path)
	}
	if cfg.Store.Enabled {
		t.Error("Store.Enabled = true, want false")
	}
	if want := []string{"https://a.example", "https://b.example"}; !reflect.DeepEqual(cfg.Security.CORSOrigins, want) {
		t.Errorf("Security.CORSOrigins = %v, want %v", cfg.Security.CORSOrigins, want)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	if cfg.Recommend.Collaborative.Factors != 20 {
		t.Errorf("Recommend.Collaborative.Factors = %d, want 20", cfg.Recommend.Collaborative.Factors)
	}
	if want := []string{"genres", "overview"}; !reflect.DeepEqual(cfg.Recommend.Content.Fields, want) {
		t.Errorf("Recommend.Content.Fields = %v, want %v", cfg.Recommend.Content.Fields, want)
	}
	if cfg.Recommend.Hybrid.ContentWeight != 0.7 {
		t.Errorf("Recommend.Hybrid.ContentWeight = %v, want 0.7", cfg.Recommend.Hybrid.ContentWeight)
	}
	if cfg.Recommend.Training.Interval != 6*time.Hour {
		t.Errorf("Recommend.Training.Interval = %v, want 6h", cfg.Recommend.Training.Interval)
	}
	if cfg.Recommend.Collaborative.DuplicatePolicy != recommend.DuplicateLast {
		t.Errorf("Recommend.Collaborative.DuplicatePolicy = %q, want last", cfg.Recommend.Collaborative.DuplicatePolicy)
	}
}

func TestLoadWithKoanf_YAMLFile(t *testing.T) {
	isolate(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: 7070
  timeout: 45s
recommend:
  hybrid:
    content_weight: 0.8
    collab_weight: 0.2
  evaluation:
    k: 5
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("HTTP_PORT", "6060")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Server.Port != 6060 {
		t.Errorf("Server.Port = %d, want 6060 (env beats file)", cfg.Server.Port)
	}
	if cfg.Server.Timeout != 45*time.Second {
		t.Errorf("Server.Timeout = %v, want 45s", cfg.Server.Timeout)
	}
	if w := cfg.Recommend.Hybrid.Weights(); w.Content != 0.8 || w.Collab != 0.2 {
		t.Errorf("Recommend.Hybrid.Weights() = %+v, want 0.8/0.2", w)
	}
	if cfg.Recommend.Evaluation.K != 5 {
		t.Errorf("Recommend.Evaluation.K = %d, want 5", cfg.Recommend.Evaluation.K)
	}
	if cfg.Recommend.Content.MaxFeatures != 5000 {
		t.Errorf("Recommend.Content.MaxFeatures = %d, want default 5000", cfg.Recommend.Content.MaxFeatures)
	}
}

func TestLoadWithKoanf_InvalidConfig(t *testing.T) {
	isolate(t)
	t.Setenv("RECOMMEND_FACTORS", "0")

	_, err := LoadWithKoanf()
	if err == nil {
		t.Fatal("LoadWithKoanf() error = nil, want validation error")
	}
	if !strings.Contains(err.Error(), "factors") {
		t.Errorf("LoadWithKoanf() error = %v, want it to mention factors", err)
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"HTTP_PORT", "server.port"},
		{"duckdb_path", "database.path"},
		{"RECOMMEND_EVAL_K", "recommend.evaluation.k"},
		{"RECOMMEND_CACHE_TTL", "recommend.cache.ttl"},
		{"PATH", ""},
		{"HOME", ""},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if got := envTransformFunc(tt.key); got != tt.want {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestProcessSliceFields(t *testing.T) {
	k := koanf.New(".")
	if err := k.Set("security.cors_origins", " a , ,b "); err != nil {
		t.Fatal(err)
	}
	if err := k.Set("recommend.content.fields", []string{"genres"}); err != nil {
		t.Fatal(err)
	}

	if err := processSliceFields(k); err != nil {
		t.Fatalf("processSliceFields() error = %v", err)
	}

	if got := k.Strings("security.cors_origins"); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("security.cors_origins = %v, want [a b]", got)
	}
	if got := k.Strings("recommend.content.fields"); !reflect.DeepEqual(got, []string{"genres"}) {
		t.Errorf("recommend.content.fields = %v, want [genres]", got)
	}
}
