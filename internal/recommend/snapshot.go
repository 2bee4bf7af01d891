// ReelMatch - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package recommend

import (
	"compress/gzip"
	"encoding/gob"
	"fmt"
	"io"
	"time"

	"github.com/tomtom215/reelmatch/internal/recommend/algorithms"
)

// StateFormatVersion is bumped whenever ModelState changes incompatibly.
const StateFormatVersion = 1

// ModelState is the plain-data form of a Model used for persistence.
// Predictions are not stored; they are recomputed from the factors on load.
type ModelState struct {
	FormatVersion int
	Version       int64

	Content       *ContentState
	ContentFitAt  time.Time
	Collaborative *CollaborativeState
	CollabFitAt   time.Time
}

// ContentState holds the catalog and the fitted TF-IDF space.
type ContentState struct {
	Movies []Movie
	Fields []string
	Terms  []string
	IDF    []float64

	// RowIndices and RowValues hold one sparse vector per movie.
	RowIndices [][]int
	RowValues  [][]float64
}

// CollaborativeState holds the rating matrix and its truncated factors.
type CollaborativeState struct {
	UserIDs  []int
	MovieIDs []int

	// Values is the row-major rating matrix; RatedWords its presence bits.
	Values     []float64
	RatedWords []uint64

	K     int
	U     []float64
	S     []float64
	Vt    []float64
	Means []float64
}

// State converts the model into its plain-data form. Slices alias model memory
// and must be treated as read-only.
func (m *Model) State() *ModelState {
	st := &ModelState{
		FormatVersion: StateFormatVersion,
		Version:       m.Version,
		ContentFitAt:  m.contentAt,
		CollabFitAt:   m.collabAt,
	}

	if c := m.content; c != nil {
		space := c.space.space
		cs := &ContentState{
			Movies:     c.catalog.movies,
			Fields:     c.space.Fields,
			Terms:      space.Terms,
			IDF:        space.IDF,
			RowIndices: make([][]int, len(space.Rows)),
			RowValues:  make([][]float64, len(space.Rows)),
		}
		for i, row := range space.Rows {
			cs.RowIndices[i] = row.Indices
			cs.RowValues[i] = row.Values
		}
		st.Content = cs
	}

	if l := m.collab; l != nil {
		st.Collaborative = &CollaborativeState{
			UserIDs:    l.matrix.userIDs,
			MovieIDs:   l.matrix.movieIDs,
			Values:     l.matrix.values.RawData(),
			RatedWords: l.matrix.rated.Words(),
			K:          l.factors.Rank(),
			U:          l.factors.U.RawData(),
			S:          l.factors.S,
			Vt:         l.factors.Vt.RawData(),
			Means:      l.means,
		}
	}

	return st
}

// ModelFromState rebuilds a model, validating every shape.
func ModelFromState(st *ModelState) (*Model, error) {
	if st == nil {
		return nil, fmt.Errorf("%w: nil model state", ErrData)
	}
	if st.FormatVersion != StateFormatVersion {
		return nil, fmt.Errorf("%w: unsupported model state format %d", ErrData, st.FormatVersion)
	}

	m := &Model{Version: st.Version}

	if cs := st.Content; cs != nil {
		content, err := contentFromState(cs)
		if err != nil {
			return nil, err
		}
		m.content = content
		m.contentAt = st.ContentFitAt
	}

	if ls := st.Collaborative; ls != nil {
		collab, err := collaborativeFromState(ls)
		if err != nil {
			return nil, err
		}
		m.collab = collab
		m.collabAt = st.CollabFitAt
	}

	return m, nil
}

func contentFromState(cs *ContentState) (*ContentModel, error) {
	if len(cs.Terms) != len(cs.IDF) {
		return nil, fmt.Errorf("%w: %d terms but %d idf weights", ErrData, len(cs.Terms), len(cs.IDF))
	}
	if len(cs.RowIndices) != len(cs.Movies) || len(cs.RowValues) != len(cs.Movies) {
		return nil, fmt.Errorf("%w: %d movies but %d vectors", ErrData, len(cs.Movies), len(cs.RowIndices))
	}

	rows := make([]algorithms.SparseVector, len(cs.Movies))
	for i := range rows {
		idx, vals := cs.RowIndices[i], cs.RowValues[i]
		if len(idx) != len(vals) {
			return nil, fmt.Errorf("%w: vector %d has %d indices and %d values", ErrData, i, len(idx), len(vals))
		}
		for _, j := range idx {
			if j < 0 || j >= len(cs.Terms) {
				return nil, fmt.Errorf("%w: vector %d references term %d of %d", ErrData, i, j, len(cs.Terms))
			}
		}
		rows[i] = algorithms.SparseVector{Indices: idx, Values: vals}
	}

	space := &VectorSpace{
		Fields: cs.Fields,
		space:  algorithms.NewTFIDFSpace(cs.Terms, cs.IDF, rows),
	}
	return NewContentModel(NewCatalog(cs.Movies), space), nil
}

func collaborativeFromState(ls *CollaborativeState) (*LatentFactorModel, error) {
	users, movies := len(ls.UserIDs), len(ls.MovieIDs)
	if len(ls.Values) != users*movies {
		return nil, fmt.Errorf("%w: %d values for a %dx%d matrix", ErrData, len(ls.Values), users, movies)
	}
	if len(ls.S) != ls.K || len(ls.U) != users*ls.K || len(ls.Vt) != ls.K*movies || len(ls.Means) != users {
		return nil, fmt.Errorf("%w: factor shapes do not match k=%d for a %dx%d matrix", ErrData, ls.K, users, movies)
	}

	matrix := newRatingMatrix(ls.UserIDs, ls.MovieIDs)
	copy(matrix.values.RawData(), ls.Values)
	rated := algorithms.MaskFromWords(users, movies, ls.RatedWords)
	if rated == nil {
		return nil, fmt.Errorf("%w: presence bits do not match a %dx%d matrix", ErrData, users, movies)
	}
	matrix.rated = rated

	factors := &algorithms.Factors{
		U:  algorithms.NewDense(users, ls.K, append([]float64(nil), ls.U...)),
		S:  append([]float64(nil), ls.S...),
		Vt: algorithms.NewDense(ls.K, movies, append([]float64(nil), ls.Vt...)),
	}
	return newLatentFactorModel(matrix, factors, append([]float64(nil), ls.Means...)), nil
}

// Encode writes m as gzip-compressed gob.
func Encode(w io.Writer, m *Model) error {
	zw := gzip.NewWriter(w)
	if err := gob.NewEncoder(zw).Encode(m.State()); err != nil {
		_ = zw.Close()
		return fmt.Errorf("encode model state: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("flush model state: %w", err)
	}
	return nil
}

// Decode reads a model written by Encode.
func Decode(r io.Reader) (*Model, error) {
	zr, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: open model state: %w", ErrData, err)
	}
	defer zr.Close()

	var st ModelState
	if err := gob.NewDecoder(zr).Decode(&st); err != nil {
		return nil, fmt.Errorf("%w: decode model state: %w", ErrData, err)
	}
	return ModelFromState(&st)
}
