// ReelMatch - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

// Package database stores the movie and rating tables in DuckDB and loads
// them for training.
//
// # Overview
//
// Datasets arrive as two CSV files in MovieLens layout:
//
//	movies.csv:  movieId,title,genres,overview[,keywords]
//	ratings.csv: userId,movieId,rating[,timestamp]
//
// ImportMovies and ImportRatings read them with read_csv_auto and replace the
// table contents inside one transaction. Loaders return rows in file order,
// which the recommender uses as its tie-break order.
//
// # Popularity Filter
//
// LoadDataset keeps movies with at least minRatings ratings and their
// ratings. The filter runs in SQL so large rating files never reach Go
// memory in full.
//
// # Usage Example
//
//	db, err := database.New(&cfg.Database)
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	if _, err := db.ImportMovies(ctx, "data/movies.csv"); err != nil {
//	    return err
//	}
//	if _, err := db.ImportRatings(ctx, "data/ratings.csv"); err != nil {
//	    return err
//	}
//	input, err := db.LoadDataset(ctx, 10)
//
// # Thread Safety
//
// DB is safe for concurrent use. Imports replace a table atomically, so a
// concurrent loader sees either the old or the new contents.
package database
