// ReelMatch - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package main

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog"

	"github.com/tomtom215/reelmatch/internal/config"
	"github.com/tomtom215/reelmatch/internal/recommend"
	"github.com/tomtom215/reelmatch/internal/recommend/storage"
)

type trainOutput struct {
	Report recommend.TrainReport  `json:"report"`
	Saved  *storage.ModelMetadata `json:"saved,omitempty"`
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func renderTable(w io.Writer, header []string, rows [][]string) error {
	table := tablewriter.NewWriter(w)
	table.Header(header)
	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}

func printReport(w io.Writer, r *recommend.TrainReport, saved *storage.ModelMetadata) error {
	factors := strconv.Itoa(r.Factors)
	if r.FactorsClamped {
		factors += " (clamped)"
	}

	rows := [][]string{
		{"movies loaded / kept", fmt.Sprintf("%d / %d", r.MoviesLoaded, r.MoviesKept)},
		{"ratings loaded / kept", fmt.Sprintf("%d / %d", r.RatingsLoaded, r.RatingsKept)},
		{"train / test ratings", fmt.Sprintf("%d / %d", r.TrainRatings, r.TestRatings)},
		{"vocabulary", strconv.Itoa(r.Vocabulary)},
		{"users", strconv.Itoa(r.Users)},
		{"factors", factors},
		{"users evaluated", fmt.Sprintf("%d of %d", r.Evaluation.UsersEvaluated, r.Evaluation.UsersSampled)},
		{fmt.Sprintf("precision@%d", r.Evaluation.K), formatScore(r.Evaluation.PrecisionAtK)},
		{fmt.Sprintf("recall@%d", r.Evaluation.K), formatScore(r.Evaluation.RecallAtK)},
		{fmt.Sprintf("f1@%d", r.Evaluation.K), formatScore(r.Evaluation.F1AtK)},
		{"duration", r.Duration.Round(time.Millisecond).String()},
	}
	if saved != nil {
		rows = append(rows,
			[]string{"saved version", strconv.FormatInt(saved.Version, 10)},
			[]string{"saved size", fmt.Sprintf("%d bytes", saved.SizeBytes)},
		)
	}

	fmt.Fprintln(w, "Training report")
	return renderTable(w, []string{"METRIC", "VALUE"}, rows)
}

func printRecommendations(w io.Writer, heading string, recs []recommend.Recommendation) error {
	fmt.Fprintf(w, "\n%s\n", heading)
	if len(recs) == 0 {
		fmt.Fprintln(w, "  (no recommendations)")
		return nil
	}

	hybrid := recs[0].Source == recommend.SourceHybrid
	header := []string{"#", "MOVIE", "TITLE", "SCORE"}
	if hybrid {
		header = append(header, "CONTENT", "COLLAB")
	}

	rows := make([][]string, 0, len(recs))
	for i, rec := range recs {
		row := []string{
			strconv.Itoa(i + 1),
			strconv.Itoa(rec.MovieID),
			rec.Title,
			formatScore(rec.Score),
		}
		if hybrid {
			row = append(row, formatScore(rec.ContentScore), formatScore(rec.CollabScore))
		}
		rows = append(rows, row)
	}
	return renderTable(w, header, rows)
}

func formatScore(f float64) string {
	return strconv.FormatFloat(f, 'f', 4, 64)
}

// sample names the title and user the sample recommendations are made for.
type sample struct {
	title  string
	userID int
}

// sampleQuery picks the sample title and user from the flags, falling back to
// the first held-out rating.
func sampleQuery(opts *options, res *recommend.TrainResult, movies []recommend.Movie) sample {
	s := sample{title: opts.sampleTitle, userID: opts.sampleUser}
	if len(res.HeldOut) == 0 {
		return s
	}
	first := res.HeldOut[0]
	if s.userID == 0 {
		s.userID = first.UserID
	}
	if s.title == "" {
		for _, m := range movies {
			if m.ID == first.MovieID {
				s.title = m.Title
				break
			}
		}
	}
	return s
}

func printSamples(w io.Writer, res *recommend.TrainResult, cfg *config.Config, s sample, n int) error {
	engine, err := recommend.NewEngine(&cfg.Recommend, zerolog.Nop())
	if err != nil {
		return err
	}
	engine.Publish(res.Model)

	if s.title != "" {
		recs, err := engine.ContentRecommendations(s.title, n)
		if err != nil {
			fmt.Fprintf(w, "\nContent recommendations for %q: %v\n", s.title, err)
		} else if err := printRecommendations(w, fmt.Sprintf("Movies similar to %q", s.title), recs); err != nil {
			return err
		}
	}

	if s.userID != 0 {
		recs, err := engine.CollaborativeRecommendations(s.userID, n)
		if err != nil {
			fmt.Fprintf(w, "\nCollaborative recommendations for user %d: %v\n", s.userID, err)
		} else if err := printRecommendations(w, fmt.Sprintf("Recommended for user %d", s.userID), recs); err != nil {
			return err
		}
	}

	if s.title == "" || s.userID == 0 {
		return nil
	}
	userID := s.userID
	recs, err := engine.HybridRecommendations(recommend.HybridQuery{UserID: &userID, Title: s.title, N: n})
	if err != nil {
		fmt.Fprintf(w, "\nHybrid recommendations: %v\n", err)
		return nil
	}
	return printRecommendations(w, fmt.Sprintf("Hybrid for user %d and %q", s.userID, s.title), recs)
}
