// ReelMatch - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package database

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/tomtom215/reelmatch/internal/metrics"
)

// importTimeout bounds a single CSV import.
const importTimeout = 10 * time.Minute

// Accepted header spellings, matched case-insensitively.
var (
	movieIDColumns = []string{"movieId", "movie_id", "id"}
	userIDColumns  = []string{"userId", "user_id"}
	ratingColumns  = []string{"rating"}
	titleColumns   = []string{"title"}
)

// ImportStats reports the outcome of a CSV import.
type ImportStats struct {
	Rows     int64 `json:"rows"`
	Imported int64 `json:"imported"`
	Skipped  int64 `json:"skipped"`
}

// ImportMovies replaces the movie table with the contents of a CSV file.
// movieId and title are required; genres, overview and keywords are optional
// and default to empty strings. Rows without an integer id or a title are skipped.
func (db *DB) ImportMovies(ctx context.Context, path string) (ImportStats, error) {
	start := time.Now()
	stats, err := db.importMovies(ctx, path)
	metrics.RecordDBQuery("import", "movies", time.Since(start), err)
	return stats, err
}

func (db *DB) importMovies(ctx context.Context, path string) (ImportStats, error) {
	ctx, cancel := context.WithTimeout(ctx, importTimeout)
	defer cancel()

	source, err := csvSource(path)
	if err != nil {
		return ImportStats{}, err
	}
	columns, err := db.csvColumns(ctx, source)
	if err != nil {
		return ImportStats{}, err
	}

	idCol, ok := findColumn(columns, movieIDColumns)
	if !ok {
		return ImportStats{}, fmt.Errorf("movies file %s has no movieId column", path)
	}
	titleCol, ok := findColumn(columns, titleColumns)
	if !ok {
		return ImportStats{}, fmt.Errorf("movies file %s has no title column", path)
	}

	query := fmt.Sprintf(`
		INSERT INTO movies
		SELECT ord, movie_id, title, genres, overview, keywords FROM (
			SELECT
				row_number() OVER () AS ord,
				TRY_CAST(trim(%s) AS INTEGER) AS movie_id,
				%s AS title,
				%s AS genres,
				%s AS overview,
				%s AS keywords
			FROM %s
		)
		WHERE movie_id IS NOT NULL AND title IS NOT NULL
	`,
		quoteIdent(idCol),
		quoteIdent(titleCol),
		optionalText(columns, "genres"),
		optionalText(columns, "overview"),
		optionalText(columns, "keywords"),
		source,
	)

	return db.replaceTable(ctx, "movies", source, query)
}

// ImportRatings replaces the rating table with the contents of a CSV file
// with userId, movieId and rating columns. Other columns such as timestamp
// are ignored. Rows with a missing or non-finite value are skipped.
func (db *DB) ImportRatings(ctx context.Context, path string) (ImportStats, error) {
	start := time.Now()
	stats, err := db.importRatings(ctx, path)
	metrics.RecordDBQuery("import", "ratings", time.Since(start), err)
	return stats, err
}

func (db *DB) importRatings(ctx context.Context, path string) (ImportStats, error) {
	ctx, cancel := context.WithTimeout(ctx, importTimeout)
	defer cancel()

	source, err := csvSource(path)
	if err != nil {
		return ImportStats{}, err
	}
	columns, err := db.csvColumns(ctx, source)
	if err != nil {
		return ImportStats{}, err
	}

	required := map[string][]string{
		"userId":  userIDColumns,
		"movieId": movieIDColumns,
		"rating":  ratingColumns,
	}
	resolved := make(map[string]string, len(required))
	for name, aliases := range required {
		col, ok := findColumn(columns, aliases)
		if !ok {
			return ImportStats{}, fmt.Errorf("ratings file %s has no %s column", path, name)
		}
		resolved[name] = col
	}

	query := fmt.Sprintf(`
		INSERT INTO ratings
		SELECT ord, user_id, movie_id, rating FROM (
			SELECT
				row_number() OVER () AS ord,
				TRY_CAST(trim(%s) AS INTEGER) AS user_id,
				TRY_CAST(trim(%s) AS INTEGER) AS movie_id,
				TRY_CAST(trim(%s) AS DOUBLE) AS rating
			FROM %s
		)
		WHERE user_id IS NOT NULL
		  AND movie_id IS NOT NULL
		  AND rating IS NOT NULL
		  AND isfinite(rating)
	`,
		quoteIdent(resolved["userId"]),
		quoteIdent(resolved["movieId"]),
		quoteIdent(resolved["rating"]),
		source,
	)

	return db.replaceTable(ctx, "ratings", source, query)
}

// replaceTable empties table and runs insert in one transaction.
func (db *DB) replaceTable(ctx context.Context, table, source, insert string) (ImportStats, error) {
	var stats ImportStats

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return stats, fmt.Errorf("begin import: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := tx.QueryRowContext(ctx, "SELECT count(*) FROM "+source).Scan(&stats.Rows); err != nil {
		return stats, fmt.Errorf("count %s rows: %w", table, err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
		return stats, fmt.Errorf("clear %s: %w", table, err)
	}

	res, err := tx.ExecContext(ctx, insert)
	if err != nil {
		return stats, fmt.Errorf("import %s: %w", table, err)
	}
	stats.Imported, err = res.RowsAffected()
	if err != nil {
		return stats, fmt.Errorf("count imported %s: %w", table, err)
	}
	stats.Skipped = stats.Rows - stats.Imported

	if err := tx.Commit(); err != nil {
		return stats, fmt.Errorf("commit %s import: %w", table, err)
	}
	return stats, nil
}

// csvColumns returns the header of a CSV source.
func (db *DB) csvColumns(ctx context.Context, source string) ([]string, error) {
	rows, err := db.conn.QueryContext(ctx, "SELECT * FROM "+source+" LIMIT 0")
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	return columns, rows.Err()
}

// csvSource builds the read_csv_auto call for path. Every column is read as
// text and cast explicitly so malformed cells are skipped instead of failing
// type inference.
func csvSource(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("open csv: %w", err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("open csv: %s is a directory", path)
	}
	return fmt.Sprintf("read_csv_auto(%s, header = true, all_varchar = true)", quoteLiteral(path)), nil
}

func findColumn(columns, aliases []string) (string, bool) {
	for _, alias := range aliases {
		for _, col := range columns {
			if strings.EqualFold(strings.TrimSpace(col), alias) {
				return col, true
			}
		}
	}
	return "", false
}

func optionalText(columns []string, name string) string {
	col, ok := findColumn(columns, []string{name})
	if !ok {
		return "''"
	}
	return "COALESCE(" + quoteIdent(col) + ", '')"
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
