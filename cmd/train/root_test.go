// ReelMatch - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/reelmatch/internal/logging"
	"github.com/tomtom215/reelmatch/internal/recommend"
	"github.com/tomtom215/reelmatch/internal/recommend/storage"
)

// writeDataset writes five movies rated by eight users and returns the paths.
func writeDataset(t *testing.T) (movies, ratings string) {
	t.Helper()
	dir := t.TempDir()
	genres := []string{"Action|Thriller", "Comedy|Romance", "Drama|War", "Animation|Family", "Horror|Mystery"}

	var mb, rb strings.Builder
	mb.WriteString("movieId,title,genres,overview\n")
	rb.WriteString("userId,movieId,rating\n")
	for m := 1; m <= 5; m++ {
		fmt.Fprintf(&mb, "%d,Movie %d,%s,a story about %s\n", m, m, genres[m-1], strings.ReplaceAll(genres[m-1], "|", " and "))
		for u := 1; u <= 8; u++ {
			fmt.Fprintf(&rb, "%d,%d,%d\n", u, m, 1+(u*m)%5)
		}
	}

	movies = filepath.Join(dir, "movies.csv")
	ratings = filepath.Join(dir, "ratings.csv")
	if err := os.WriteFile(movies, []byte(mb.String()), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(ratings, []byte(rb.String()), 0o600); err != nil {
		t.Fatal(err)
	}
	return movies, ratings
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(func() { logging.Init(logging.DefaultConfig()) })

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	err := cmd.Execute()
	return out.String(), err
}

func TestLoadConfig_Overrides(t *testing.T) {
	cfg, err := loadConfig(&options{
		moviesPath:  "m.csv",
		ratingsPath: "r.csv",
		dbPath:      ":memory:",
		storePath:   "/tmp/models",
		factors:     7,
		evalK:       3,
		minRatings:  2,
	})
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if cfg.Data.MoviesPath != "m.csv" || cfg.Data.RatingsPath != "r.csv" {
		t.Errorf("data paths = %q, %q, want m.csv, r.csv", cfg.Data.MoviesPath, cfg.Data.RatingsPath)
	}
	if cfg.Database.Path != ":memory:" || cfg.Store.Path != "/tmp/models" {
		t.Errorf("db/store = %q, %q", cfg.Database.Path, cfg.Store.Path)
	}
	if cfg.Recommend.Collaborative.Factors != 7 || cfg.Recommend.Evaluation.K != 3 || cfg.Recommend.Training.MinRatingsPerMovie != 2 {
		t.Errorf("recommend overrides not applied: %+v", cfg.Recommend)
	}
}

func TestLoadConfig_KeepsDefaults(t *testing.T) {
	cfg, err := loadConfig(&options{minRatings: -1})
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	def := recommend.DefaultConfig()
	if cfg.Recommend.Collaborative.Factors != def.Collaborative.Factors {
		t.Errorf("Factors = %d, want %d", cfg.Recommend.Collaborative.Factors, def.Collaborative.Factors)
	}
	if cfg.Recommend.Training.MinRatingsPerMovie != def.Training.MinRatingsPerMovie {
		t.Errorf("MinRatingsPerMovie = %d, want %d", cfg.Recommend.Training.MinRatingsPerMovie, def.Training.MinRatingsPerMovie)
	}
}

func TestSampleQuery(t *testing.T) {
	res := &recommend.TrainResult{HeldOut: []recommend.Rating{{UserID: 4, MovieID: 2, Value: 3}}}
	movies := []recommend.Movie{{ID: 1, Title: "One"}, {ID: 2, Title: "Two"}}

	tests := []struct {
		name string
		opts options
		res  *recommend.TrainResult
		want sample
	}{
		{"defaults from held-out", options{}, res, sample{title: "Two", userID: 4}},
		{"flags win", options{sampleTitle: "One", sampleUser: 9}, res, sample{title: "One", userID: 9}},
		{"no held-out", options{}, &recommend.TrainResult{}, sample{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sampleQuery(&tt.opts, tt.res, movies); got != tt.want {
				t.Errorf("sampleQuery() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestPrintReport(t *testing.T) {
	var buf bytes.Buffer
	report := &recommend.TrainReport{
		MoviesLoaded: 7, MoviesKept: 5, Factors: 4, FactorsClamped: true,
		Evaluation: recommend.EvaluationResult{K: 10, PrecisionAtK: 0.25},
	}
	if err := printReport(&buf, report, &storage.ModelMetadata{Version: 3, SizeBytes: 1024}); err != nil {
		t.Fatalf("printReport() error = %v", err)
	}
	out := buf.String()
	for _, want := range []string{"precision@10", "0.2500", "7 / 5", "4 (clamped)", "saved version", "1024 bytes"} {
		if !strings.Contains(out, want) {
			t.Errorf("printReport() output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintRecommendations(t *testing.T) {
	t.Run("hybrid columns", func(t *testing.T) {
		var buf bytes.Buffer
		recs := []recommend.Recommendation{
			{MovieID: 3, Title: "Drama", Score: 0.9, ContentScore: 1, CollabScore: 0.5, Source: recommend.SourceHybrid},
		}
		if err := printRecommendations(&buf, "Hybrid", recs); err != nil {
			t.Fatalf("printRecommendations() error = %v", err)
		}
		if out := buf.String(); !strings.Contains(out, "0.9000") || !strings.Contains(strings.ToUpper(out), "COLLAB") {
			t.Errorf("printRecommendations() output = %q, want score and collab column", out)
		}
	})

	t.Run("empty", func(t *testing.T) {
		var buf bytes.Buffer
		if err := printRecommendations(&buf, "Nothing", nil); err != nil {
			t.Fatalf("printRecommendations() error = %v", err)
		}
		if !strings.Contains(buf.String(), "no recommendations") {
			t.Errorf("printRecommendations(nil) = %q", buf.String())
		}
	})
}

func TestRun_EndToEnd(t *testing.T) {
	movies, ratings := writeDataset(t)
	store := filepath.Join(t.TempDir(), "models")
	args := []string{
		"--movies", movies,
		"--ratings", ratings,
		"--db", ":memory:",
		"--store", store,
		"--min-ratings", "3",
		"--samples", "3",
		"--log-level", "disabled",
	}

	out, err := execute(t, args...)
	if err != nil {
		t.Fatalf("Execute() error = %v\n%s", err, out)
	}
	for _, want := range []string{"Training report", "saved version", "Movies similar to", "Recommended for user"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	out, err = execute(t, append(args, "--json")...)
	if err != nil {
		t.Fatalf("Execute(--json) error = %v\n%s", err, out)
	}
	var got trainOutput
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode JSON output: %v\n%s", err, out)
	}
	if got.Saved == nil || got.Saved.Version != 2 {
		t.Errorf("second run saved %+v, want version 2", got.Saved)
	}
	if got.Report.MoviesKept != 5 || got.Report.RatingsKept != 40 {
		t.Errorf("report kept %d movies / %d ratings, want 5 / 40", got.Report.MoviesKept, got.Report.RatingsKept)
	}
}

func TestRun_NoSave(t *testing.T) {
	movies, ratings := writeDataset(t)
	store := filepath.Join(t.TempDir(), "models")

	out, err := execute(t,
		"--movies", movies, "--ratings", ratings, "--db", ":memory:",
		"--store", store, "--min-ratings", "3", "--no-save", "--samples", "0",
		"--log-level", "disabled",
	)
	if err != nil {
		t.Fatalf("Execute() error = %v\n%s", err, out)
	}
	if strings.Contains(out, "saved version") {
		t.Errorf("--no-save output mentions a saved version:\n%s", out)
	}
	if _, err := os.Stat(store); !os.IsNotExist(err) {
		t.Errorf("store directory created with --no-save (stat error %v)", err)
	}
}

func TestRun_MissingFile(t *testing.T) {
	_, err := execute(t,
		"--movies", filepath.Join(t.TempDir(), "missing.csv"),
		"--ratings", filepath.Join(t.TempDir(), "missing.csv"),
		"--db", ":memory:", "--no-save", "--log-level", "disabled",
	)
	if err == nil {
		t.Error("Execute() with missing CSV files succeeded, want error")
	}
}

func TestRootCmd_RejectsArgs(t *testing.T) {
	if _, err := execute(t, "extra"); err == nil {
		t.Error("Execute(extra) succeeded, want error")
	}
}
