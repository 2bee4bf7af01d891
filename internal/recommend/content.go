// ReelMatch - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package recommend

import (
	"sort"

	"github.com/tomtom215/reelmatch/internal/recommend/algorithms"
)

// ContentModel ranks movies by cosine similarity of their TF-IDF vectors.
// It is immutable after construction.
type ContentModel struct {
	catalog *Catalog
	space   *VectorSpace
}

// NewContentModel pairs a catalog with the vector space fitted on the same rows.
func NewContentModel(catalog *Catalog, space *VectorSpace) *ContentModel {
	return &ContentModel{catalog: catalog, space: space}
}

// Catalog returns the movie table the model was fitted on.
func (m *ContentModel) Catalog() *Catalog {
	return m.catalog
}

// Space returns the fitted vector space.
func (m *ContentModel) Space() *VectorSpace {
	return m.space
}

// Similar returns up to n movies most similar to the movie titled title.
// An unknown title yields an empty result. The query movie, and any other
// row sharing its title, is never returned.
func (m *ContentModel) Similar(title string, n int) []Recommendation {
	out := []Recommendation{}
	if n <= 0 {
		return out
	}

	q, ok := m.catalog.IndexOfTitle(title)
	if !ok {
		return out
	}
	queryTitle := normalizeTitle(m.catalog.At(q).Title)
	qv := m.space.Row(q)

	type scored struct {
		idx   int
		score float64
	}
	candidates := make([]scored, 0, m.catalog.Len())
	for i := 0; i < m.catalog.Len(); i++ {
		if i == q || normalizeTitle(m.catalog.At(i).Title) == queryTitle {
			continue
		}
		s := algorithms.Cosine(qv, m.space.Row(i))
		if s < 0 {
			s = 0
		}
		candidates = append(candidates, scored{idx: i, score: s})
	}

	// Equal scores keep the later table row first.
	sort.Slice(candidates, func(a, b int) bool {
		if candidates[a].score != candidates[b].score {
			return candidates[a].score > candidates[b].score
		}
		return candidates[a].idx > candidates[b].idx
	})

	if len(candidates) > n {
		candidates = candidates[:n]
	}
	for _, c := range candidates {
		mv := m.catalog.At(c.idx)
		out = append(out, Recommendation{
			MovieID: mv.ID,
			Title:   mv.Title,
			Genres:  mv.Genres,
			Score:   c.score,
			Source:  SourceContent,
		})
	}
	return out
}
