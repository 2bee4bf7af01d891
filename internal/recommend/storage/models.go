// ReelMatch - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package storage

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/reelmatch/internal/metrics"
	"github.com/tomtom215/reelmatch/internal/recommend"
)

// Key layout. Versions are zero padded so that key order is version order.
const (
	metaKeyPrefix = "model:meta:"
	blobKeyPrefix = "model:blob:"
)

// ErrNotFound is returned when no stored model matches a request.
var ErrNotFound = errors.New("model not found")

// ModelMetadata contains information about a stored model.
type ModelMetadata struct {
	// Version is the published model version.
	Version int64 `json:"version"`

	// TrainedAt is when the training run started.
	TrainedAt time.Time `json:"trained_at"`

	// SavedAt is set by Save.
	SavedAt time.Time `json:"saved_at"`

	Movies      int `json:"movies"`
	Vocabulary  int `json:"vocabulary"`
	Users       int `json:"users"`
	RatedMovies int `json:"rated_movies"`
	Factors     int `json:"factors"`

	// Offline evaluation of the collaborative side at K.
	K            int     `json:"k"`
	PrecisionAtK float64 `json:"precision_at_k"`
	RecallAtK    float64 `json:"recall_at_k"`
	F1AtK        float64 `json:"f1_at_k"`

	// Checksum is the SHA-256 of the compressed blob.
	Checksum string `json:"checksum"`

	// SizeBytes is the compressed model size in bytes.
	SizeBytes int64 `json:"size_bytes"`

	TrainingDurationMS int64 `json:"training_duration_ms"`
}

// MetadataFor fills the size fields of a metadata record from m and report.
//
//nolint:gocritic // hugeParam: report is read once
func MetadataFor(m *recommend.Model, report recommend.TrainReport) ModelMetadata {
	st := m.Status()
	return ModelMetadata{
		Version:            m.Version,
		TrainedAt:          report.StartedAt,
		Movies:             st.Movies,
		Vocabulary:         st.Vocabulary,
		Users:              st.Users,
		RatedMovies:        st.RatedMovies,
		Factors:            st.Factors,
		K:                  report.Evaluation.K,
		PrecisionAtK:       report.Evaluation.PrecisionAtK,
		RecallAtK:          report.Evaluation.RecallAtK,
		F1AtK:              report.Evaluation.F1AtK,
		TrainingDurationMS: report.Duration.Milliseconds(),
	}
}

// Store persists published models in BadgerDB.
type Store struct {
	db     *badger.DB
	ownsDB bool

	// mu serializes writers so Prune never races a Save.
	mu sync.Mutex
}

// Open opens a store at path. An empty path opens an in-memory database.
func Open(path string) (*Store, error) {
	opts := badger.DefaultOptions(path)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	opts.Logger = nil // Suppress BadgerDB logs

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db for models: %w", err)
	}
	return &Store{db: db, ownsDB: true}, nil
}

// NewStore wraps an already open database. Close does not close db.
func NewStore(db *badger.DB) *Store {
	return &Store{db: db}
}

// Close releases the database when the store opened it.
func (s *Store) Close() error {
	if !s.ownsDB {
		return nil
	}
	return s.db.Close()
}

func metaKey(version int64) []byte { return []byte(fmt.Sprintf("%s%020d", metaKeyPrefix, version)) }
func blobKey(version int64) []byte { return []byte(fmt.Sprintf("%s%020d", blobKeyPrefix, version)) }

// Save stores m under its version and returns the completed metadata.
//
//nolint:gocritic // meta passed by value is acceptable for this write operation
func (s *Store) Save(ctx context.Context, m *recommend.Model, meta ModelMetadata) (ModelMetadata, error) {
	start := time.Now()
	defer func() { metrics.RecordStoreOperation("save", time.Since(start)) }()

	if m == nil || m.Version < 1 {
		return ModelMetadata{}, fmt.Errorf("save model: only published models can be stored")
	}
	if err := ctx.Err(); err != nil {
		return ModelMetadata{}, err
	}

	var blob bytes.Buffer
	if err := recommend.Encode(&blob, m); err != nil {
		return ModelMetadata{}, err
	}

	hash := sha256.Sum256(blob.Bytes())
	meta.Version = m.Version
	meta.Checksum = hex.EncodeToString(hash[:])
	meta.SizeBytes = int64(blob.Len())
	meta.SavedAt = time.Now().UTC()

	data, err := json.Marshal(meta)
	if err != nil {
		return ModelMetadata{}, fmt.Errorf("marshal metadata: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err = s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(blobKey(m.Version), blob.Bytes()); err != nil {
			return fmt.Errorf("set model blob: %w", err)
		}
		if err := txn.Set(metaKey(m.Version), data); err != nil {
			return fmt.Errorf("set model metadata: %w", err)
		}
		return nil
	})
	if err != nil {
		return ModelMetadata{}, err
	}

	metrics.StoreBlobBytes.Set(float64(meta.SizeBytes))
	return meta, nil
}

// Load loads a model by version. Version 0 loads the latest one.
func (s *Store) Load(ctx context.Context, version int64) (*recommend.Model, *ModelMetadata, error) {
	start := time.Now()
	defer func() { metrics.RecordStoreOperation("load", time.Since(start)) }()

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	if version == 0 {
		latest, err := s.LatestVersion(ctx)
		if err != nil {
			return nil, nil, err
		}
		version = latest
	}

	var meta ModelMetadata
	var blob []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(metaKey(version))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("%w: version %d", ErrNotFound, version)
		}
		if err != nil {
			return fmt.Errorf("get model metadata: %w", err)
		}
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &meta)
		}); err != nil {
			return fmt.Errorf("decode model metadata: %w", err)
		}

		item, err = txn.Get(blobKey(version))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("%w: blob for version %d", ErrNotFound, version)
		}
		if err != nil {
			return fmt.Errorf("get model blob: %w", err)
		}
		blob, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	hash := sha256.Sum256(blob)
	if checksum := hex.EncodeToString(hash[:]); checksum != meta.Checksum {
		return nil, nil, fmt.Errorf("%w: checksum mismatch: expected %s, got %s", recommend.ErrData, meta.Checksum, checksum)
	}

	m, err := recommend.Decode(bytes.NewReader(blob))
	if err != nil {
		return nil, nil, err
	}
	m.Version = meta.Version
	return m, &meta, nil
}

// LatestVersion returns the highest stored version, or ErrNotFound.
func (s *Store) LatestVersion(ctx context.Context) (int64, error) {
	list, err := s.List(ctx)
	if err != nil {
		return 0, err
	}
	if len(list) == 0 {
		return 0, ErrNotFound
	}
	return list[len(list)-1].Version, nil
}

// List returns metadata for all stored models, oldest first.
func (s *Store) List(ctx context.Context) ([]ModelMetadata, error) {
	var models []ModelMetadata

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(metaKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var meta ModelMetadata
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &meta)
			})
			if err != nil {
				return fmt.Errorf("decode model metadata: %w", err)
			}
			models = append(models, meta)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}

	sort.Slice(models, func(i, j int) bool { return models[i].Version < models[j].Version })
	return models, nil
}

// Delete removes a stored version. Deleting a missing version is not an error.
func (s *Store) Delete(ctx context.Context, version int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleteLocked(ctx, version)
}

func (s *Store) deleteLocked(ctx context.Context, version int64) error {
	start := time.Now()
	defer func() { metrics.RecordStoreOperation("delete", time.Since(start)) }()

	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete(metaKey(version)); err != nil {
			return fmt.Errorf("delete model metadata: %w", err)
		}
		if err := txn.Delete(blobKey(version)); err != nil {
			return fmt.Errorf("delete model blob: %w", err)
		}
		return nil
	})
}

// Prune deletes all but the newest keep versions and returns how many were removed.
func (s *Store) Prune(ctx context.Context, keep int) (int, error) {
	if keep < 1 {
		return 0, fmt.Errorf("prune: keep must be positive, got %d", keep)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.List(ctx)
	if err != nil {
		return 0, err
	}
	if len(list) <= keep {
		return 0, nil
	}

	removed := 0
	for _, meta := range list[:len(list)-keep] {
		if err := s.deleteLocked(ctx, meta.Version); err != nil {
			return removed, fmt.Errorf("prune version %d: %w", meta.Version, err)
		}
		removed++
	}
	return removed, nil
}
