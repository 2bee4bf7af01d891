// ReelMatch - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package recommend

import (
	"time"
)

// Movie is one row of the movie table.
type Movie struct {
	// ID uniquely identifies the movie and joins it to ratings.
	ID int `json:"id"`

	// Title is matched case-insensitively for content lookups.
	Title string `json:"title"`

	// Genres, Overview and Keywords are free text fields fed to the
	// vectorizer. Missing values are empty strings.
	Genres   string `json:"genres"`
	Overview string `json:"overview,omitempty"`
	Keywords string `json:"keywords,omitempty"`
}

// Feature field names accepted by FitContent.
const (
	FieldTitle    = "title"
	FieldGenres   = "genres"
	FieldOverview = "overview"
	FieldKeywords = "keywords"
)

// DefaultFeatureFields is the field list used when none is configured.
var DefaultFeatureFields = []string{FieldGenres, FieldOverview, FieldKeywords}

// field returns the value of a named text field and whether the name is known.
//
//nolint:gocritic // Movie is small; value receiver keeps it immutable
func (m Movie) field(name string) (string, bool) {
	switch name {
	case FieldTitle:
		return m.Title, true
	case FieldGenres:
		return m.Genres, true
	case FieldOverview:
		return m.Overview, true
	case FieldKeywords:
		return m.Keywords, true
	default:
		return "", false
	}
}

// Rating is one (user, movie, rating) observation.
type Rating struct {
	UserID  int     `json:"user_id"`
	MovieID int     `json:"movie_id"`
	Value   float64 `json:"rating"`
}

// ScoreSource identifies which model produced a recommendation score.
type ScoreSource string

const (
	// SourceContent scores are cosine similarities in [0, 1].
	SourceContent ScoreSource = "similarity"

	// SourceCollaborative scores are predicted ratings on the native scale.
	SourceCollaborative ScoreSource = "predicted_rating"

	// SourceHybrid scores are weighted sums of normalized scores.
	SourceHybrid ScoreSource = "hybrid"
)

// Recommendation is one ranked entry.
type Recommendation struct {
	// MovieID is 0 when a collaborative candidate has no catalog entry.
	MovieID int    `json:"movie_id"`
	Title   string `json:"title"`
	Genres  string `json:"genres"`

	// Score is interpreted according to Source.
	Score  float64     `json:"score"`
	Source ScoreSource `json:"source"`

	// ContentScore and CollabScore carry the normalized components of a
	// hybrid score. They are zero for single-source results.
	ContentScore float64 `json:"content_score,omitempty"`
	CollabScore  float64 `json:"collab_score,omitempty"`
}

// HybridWeights scale the normalized content and collaborative scores.
// They are not required to sum to 1.
type HybridWeights struct {
	Content float64 `json:"content_weight"`
	Collab  float64 `json:"collab_weight"`
}

// HybridQuery describes a hybrid recommendation request.
type HybridQuery struct {
	// UserID selects the collaborative source. Nil skips it.
	UserID *int

	// Title selects the content source. Empty skips it.
	Title string

	// N is the number of results to return.
	N int

	// Weights overrides the configured default weights when non-nil.
	Weights *HybridWeights
}

// EvaluationResult holds ranking quality metrics at cutoff K.
type EvaluationResult struct {
	PrecisionAtK float64 `json:"precision_at_k"`
	RecallAtK    float64 `json:"recall_at_k"`
	F1AtK        float64 `json:"f1_at_k"`

	K int `json:"k"`

	// UsersSampled is the number of distinct held-out users considered.
	UsersSampled int `json:"users_sampled"`

	// UsersEvaluated is the number of users that contributed to the means.
	UsersEvaluated int `json:"users_evaluated"`
}

// Status describes the currently published model.
type Status struct {
	Version int64 `json:"version"`

	ContentFitted bool      `json:"content_fitted"`
	ContentFitAt  time.Time `json:"content_fit_at,omitempty"`
	Movies        int       `json:"movies"`
	Vocabulary    int       `json:"vocabulary"`

	CollaborativeFitted bool      `json:"collaborative_fitted"`
	CollaborativeFitAt  time.Time `json:"collaborative_fit_at,omitempty"`
	Users               int       `json:"users"`
	RatedMovies         int       `json:"rated_movies"`
	Factors             int       `json:"factors"`

	RequestCount int64 `json:"request_count"`
	CacheHits    int64 `json:"cache_hits"`
	CacheMisses  int64 `json:"cache_misses"`
}

// Ready reports whether both sides of the hybrid model are available.
//
//nolint:gocritic // value receiver keeps Status a plain snapshot
func (s Status) Ready() bool {
	return s.ContentFitted && s.CollaborativeFitted
}
