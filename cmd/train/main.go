// ReelMatch - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

// Command reelmatch-train imports the movie and rating CSV files, trains a
// hybrid model, prints its offline evaluation and a few sample
// recommendations, and saves it to the model store for the server to pick up.
//
//	reelmatch-train --movies data/movies.csv --ratings data/ratings.csv --store /data/models
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
