// ReelMatch - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package recommend

import (
	"fmt"
	"time"
)

// Model is an immutable snapshot of both recommendation sides.
// Either side may be nil until fitted. Fits derive a new Model rather than
// modifying a published one, so a *Model can be shared freely between goroutines.
type Model struct {
	// Version increases by one on every publish through an Engine.
	Version int64

	content   *ContentModel
	contentAt time.Time
	collab    *LatentFactorModel
	collabAt  time.Time
}

// NewModel assembles a model from fitted sides. Either side may be nil.
func NewModel(content *ContentModel, collab *LatentFactorModel) *Model {
	now := time.Now().UTC()
	m := &Model{content: content, collab: collab}
	if content != nil {
		m.contentAt = now
	}
	if collab != nil {
		m.collabAt = now
	}
	return m
}

// Content returns the content side, nil when unfitted.
func (m *Model) Content() *ContentModel { return m.content }

// Collaborative returns the collaborative side, nil when unfitted.
func (m *Model) Collaborative() *LatentFactorModel { return m.collab }

// Catalog returns the movie table of the content side, nil when unfitted.
func (m *Model) Catalog() *Catalog {
	if m.content == nil {
		return nil
	}
	return m.content.Catalog()
}

// withContent returns a copy of m with the content side replaced.
func (m *Model) withContent(c *ContentModel, at time.Time) *Model {
	out := *m
	out.content = c
	out.contentAt = at
	return &out
}

// withCollaborative returns a copy of m with the collaborative side replaced.
func (m *Model) withCollaborative(l *LatentFactorModel, at time.Time) *Model {
	out := *m
	out.collab = l
	out.collabAt = at
	return &out
}

// Similar returns content recommendations for title.
func (m *Model) Similar(title string, n int) ([]Recommendation, error) {
	if m.content == nil {
		return nil, fmt.Errorf("%w: content model", ErrNotFitted)
	}
	return m.content.Similar(title, n), nil
}

// Predict returns collaborative recommendations for userID joined against
// the content catalog.
func (m *Model) Predict(userID, n int) ([]Recommendation, error) {
	if m.collab == nil {
		return nil, fmt.Errorf("%w: collaborative model", ErrNotFitted)
	}
	return m.collab.Predict(userID, n, m.Catalog()), nil
}

// Status describes the model sides.
func (m *Model) Status() Status {
	s := Status{Version: m.Version}
	if m.content != nil {
		s.ContentFitted = true
		s.ContentFitAt = m.contentAt
		s.Movies = m.content.Catalog().Len()
		s.Vocabulary = m.content.Space().Vocabulary()
	}
	if m.collab != nil {
		s.CollaborativeFitted = true
		s.CollaborativeFitAt = m.collabAt
		s.Users, s.RatedMovies = m.collab.Matrix().Dims()
		s.Factors = m.collab.Factors()
	}
	return s
}
