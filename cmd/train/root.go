// ReelMatch - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tomtom215/reelmatch/internal/config"
	"github.com/tomtom215/reelmatch/internal/database"
	"github.com/tomtom215/reelmatch/internal/logging"
	"github.com/tomtom215/reelmatch/internal/recommend"
	"github.com/tomtom215/reelmatch/internal/recommend/storage"
)

// options are the command line settings. Zero values keep the loaded config.
type options struct {
	configPath  string
	moviesPath  string
	ratingsPath string
	dbPath      string
	storePath   string
	noSave      bool

	factors    int
	evalK      int
	minRatings int

	sampleTitle string
	sampleUser  int
	samples     int

	jsonOutput bool
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "reelmatch-train",
		Short: "Train and evaluate a ReelMatch model",
		Long: `reelmatch-train runs the offline training pipeline once.

It imports movies.csv and ratings.csv into DuckDB, keeps movies with enough
ratings, splits the ratings into train and test sets, fits the TF-IDF content
model and the truncated-SVD rating model, and reports precision, recall and
F1 at K on the held-out ratings. The model is then saved to the model store
as the next version unless --no-save is given.

Settings default to the server configuration (config.yaml and environment);
flags override them.

Examples:
  reelmatch-train --movies data/movies.csv --ratings data/ratings.csv
  reelmatch-train --factors 20 --k 5 --no-save
  reelmatch-train --title "Toy Story (1995)" --user 42 --json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, opts, cmd.OutOrStdout())
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.configPath, "config", "", "config file (default: CONFIG_PATH or ./config.yaml)")
	f.StringVar(&opts.moviesPath, "movies", "", "movies CSV file")
	f.StringVar(&opts.ratingsPath, "ratings", "", "ratings CSV file")
	f.StringVar(&opts.dbPath, "db", "", `DuckDB file, ":memory:" for a throwaway database`)
	f.StringVar(&opts.storePath, "store", "", "model store directory")
	f.BoolVar(&opts.noSave, "no-save", false, "do not save the trained model")
	f.IntVar(&opts.factors, "factors", 0, "number of latent factors")
	f.IntVar(&opts.evalK, "k", 0, "evaluation cutoff K")
	f.IntVar(&opts.minRatings, "min-ratings", -1, "minimum ratings per movie")
	f.StringVar(&opts.sampleTitle, "title", "", "title for sample content recommendations (default: first held-out movie)")
	f.IntVar(&opts.sampleUser, "user", 0, "user id for sample recommendations (default: first held-out user)")
	f.IntVar(&opts.samples, "samples", 5, "number of sample recommendations to print, 0 to skip")
	f.BoolVar(&opts.jsonOutput, "json", false, "print the training report as JSON")
	f.StringVar(&opts.logLevel, "log-level", "warn", "log level: trace, debug, info, warn, error")

	return cmd
}

// loadConfig loads the server configuration and applies flag overrides.
func loadConfig(opts *options) (*config.Config, error) {
	if opts.configPath != "" {
		if err := os.Setenv(config.ConfigPathEnvVar, opts.configPath); err != nil {
			return nil, err
		}
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	if opts.moviesPath != "" {
		cfg.Data.MoviesPath = opts.moviesPath
	}
	if opts.ratingsPath != "" {
		cfg.Data.RatingsPath = opts.ratingsPath
	}
	if opts.dbPath != "" {
		cfg.Database.Path = opts.dbPath
	}
	if opts.storePath != "" {
		cfg.Store.Path = opts.storePath
	}
	if opts.factors > 0 {
		cfg.Recommend.Collaborative.Factors = opts.factors
	}
	if opts.evalK > 0 {
		cfg.Recommend.Evaluation.K = opts.evalK
	}
	if opts.minRatings >= 0 {
		cfg.Recommend.Training.MinRatingsPerMovie = opts.minRatings
	}
	if err := cfg.Recommend.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", recommend.ErrConfiguration, err)
	}
	return cfg, nil
}

func run(ctx context.Context, opts *options, out io.Writer) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logging.Init(logging.Config{
		Level:     opts.logLevel,
		Format:    "console",
		Timestamp: true,
	})
	logger := logging.Component("train")

	db, err := database.New(&cfg.Database)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Warn().Err(err).Msg("Error closing database")
		}
	}()

	movies, err := db.ImportMovies(ctx, cfg.Data.MoviesPath)
	if err != nil {
		return fmt.Errorf("import movies: %w", err)
	}
	ratings, err := db.ImportRatings(ctx, cfg.Data.RatingsPath)
	if err != nil {
		return fmt.Errorf("import ratings: %w", err)
	}
	logger.Info().
		Int64("movies", movies.Imported).
		Int64("ratings", ratings.Imported).
		Msg("CSV import complete")

	in, err := db.LoadDataset(ctx, cfg.Recommend.Training.MinRatingsPerMovie)
	if err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}

	res, err := recommend.Train(ctx, in, &cfg.Recommend, logger)
	if err != nil {
		return err
	}

	var saved *storage.ModelMetadata
	if !opts.noSave {
		meta, err := saveModel(ctx, cfg, res)
		if err != nil {
			return err
		}
		saved = &meta
	}

	if opts.jsonOutput {
		return writeJSON(out, trainOutput{Report: res.Report, Saved: saved})
	}

	if err := printReport(out, &res.Report, saved); err != nil {
		return err
	}
	if opts.samples <= 0 {
		return nil
	}
	return printSamples(out, res, cfg, sampleQuery(opts, res, in.Movies), opts.samples)
}

// saveModel stores the model as the version after the latest stored one and
// prunes old versions.
func saveModel(ctx context.Context, cfg *config.Config, res *recommend.TrainResult) (storage.ModelMetadata, error) {
	store, err := storage.Open(cfg.Store.Path)
	if err != nil {
		return storage.ModelMetadata{}, err
	}
	defer func() { _ = store.Close() }()

	latest, err := store.LatestVersion(ctx)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return storage.ModelMetadata{}, err
	}
	m := *res.Model
	m.Version = latest + 1

	meta, err := store.Save(ctx, &m, storage.MetadataFor(&m, res.Report))
	if err != nil {
		return storage.ModelMetadata{}, fmt.Errorf("save model: %w", err)
	}
	if _, err := store.Prune(ctx, cfg.Recommend.Training.RetainVersions); err != nil {
		return meta, fmt.Errorf("prune model store: %w", err)
	}
	return meta, nil
}
