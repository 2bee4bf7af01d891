// ReelMatch - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/reelmatch/internal/metrics"
	"github.com/tomtom215/reelmatch/internal/recommend"
)

// loadTimeout bounds a full table scan.
const loadTimeout = 5 * time.Minute

// popularMovies restricts a query to movies with at least $1 ratings.
const popularMovies = `movie_id IN (
	SELECT movie_id FROM ratings GROUP BY movie_id HAVING count(*) >= ?
)`

// Stats summarizes the stored dataset.
type Stats struct {
	Movies      int64 `json:"movies"`
	Ratings     int64 `json:"ratings"`
	Users       int64 `json:"users"`
	RatedMovies int64 `json:"rated_movies"`
}

// LoadMovies returns every movie in import order.
func (db *DB) LoadMovies(ctx context.Context) ([]recommend.Movie, error) {
	return db.loadMovies(ctx, 0)
}

// LoadRatings returns every rating in import order.
func (db *DB) LoadRatings(ctx context.Context) ([]recommend.Rating, error) {
	return db.loadRatings(ctx, 0)
}

// LoadDataset returns the movies with at least minRatings ratings together
// with their ratings. minRatings <= 0 loads everything.
func (db *DB) LoadDataset(ctx context.Context, minRatings int) (recommend.TrainInput, error) {
	movies, err := db.loadMovies(ctx, minRatings)
	if err != nil {
		return recommend.TrainInput{}, err
	}
	ratings, err := db.loadRatings(ctx, minRatings)
	if err != nil {
		return recommend.TrainInput{}, err
	}
	return recommend.TrainInput{Movies: movies, Ratings: ratings}, nil
}

func (db *DB) loadMovies(ctx context.Context, minRatings int) ([]recommend.Movie, error) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, loadTimeout)
	defer cancel()

	query := `SELECT movie_id, title, genres, overview, keywords FROM movies`
	var args []any
	if minRatings > 0 {
		query += ` WHERE ` + popularMovies
		args = append(args, minRatings)
	}
	query += ` ORDER BY ord`

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		metrics.RecordDBQuery("select", "movies", time.Since(start), err)
		return nil, fmt.Errorf("query movies: %w", err)
	}
	defer rows.Close()

	var movies []recommend.Movie
	for rows.Next() {
		var m recommend.Movie
		if err := rows.Scan(&m.ID, &m.Title, &m.Genres, &m.Overview, &m.Keywords); err != nil {
			return nil, fmt.Errorf("scan movie: %w", err)
		}
		movies = append(movies, m)
	}
	err = rows.Err()
	metrics.RecordDBQuery("select", "movies", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("iterate movies: %w", err)
	}
	return movies, nil
}

func (db *DB) loadRatings(ctx context.Context, minRatings int) ([]recommend.Rating, error) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, loadTimeout)
	defer cancel()

	query := `SELECT user_id, movie_id, rating FROM ratings`
	var args []any
	if minRatings > 0 {
		query += ` WHERE ` + popularMovies
		args = append(args, minRatings)
	}
	query += ` ORDER BY ord`

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		metrics.RecordDBQuery("select", "ratings", time.Since(start), err)
		return nil, fmt.Errorf("query ratings: %w", err)
	}
	defer rows.Close()

	var ratings []recommend.Rating
	for rows.Next() {
		var r recommend.Rating
		if err := rows.Scan(&r.UserID, &r.MovieID, &r.Value); err != nil {
			return nil, fmt.Errorf("scan rating: %w", err)
		}
		ratings = append(ratings, r)
	}
	err = rows.Err()
	metrics.RecordDBQuery("select", "ratings", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("iterate ratings: %w", err)
	}
	return ratings, nil
}

// Stats returns table sizes.
func (db *DB) Stats(ctx context.Context) (Stats, error) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	var s Stats
	err := db.conn.QueryRowContext(ctx, `
		SELECT
			(SELECT count(*) FROM movies),
			(SELECT count(*) FROM ratings),
			(SELECT count(DISTINCT user_id) FROM ratings),
			(SELECT count(DISTINCT movie_id) FROM ratings)
	`).Scan(&s.Movies, &s.Ratings, &s.Users, &s.RatedMovies)
	metrics.RecordDBQuery("stats", "all", time.Since(start), err)
	if err != nil {
		return Stats{}, fmt.Errorf("query stats: %w", err)
	}
	return s, nil
}
