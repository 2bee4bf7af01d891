// ReelMatch - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package recommend

import (
	"fmt"
	"sort"

	"github.com/tomtom215/reelmatch/internal/recommend/algorithms"
)

// Blend merges content and collaborative candidates into one hybrid ranking.
//
// When both lists are non-empty, each is min-max normalized on its own, the
// lists are outer joined on title and every entry is scored
// w.Content*content + w.Collab*collab, a missing side counting as 0. Equal
// hybrid scores keep content order first, then collaborative order.
//
// When only one list is non-empty its first n entries are returned unchanged.
func Blend(content, collab []Recommendation, w HybridWeights, n int) []Recommendation {
	if n <= 0 {
		return []Recommendation{}
	}
	switch {
	case len(content) == 0 && len(collab) == 0:
		return []Recommendation{}
	case len(collab) == 0:
		return topN(content, n)
	case len(content) == 0:
		return topN(collab, n)
	}

	cNorm := algorithms.MinMax(scoresOf(content))
	fNorm := algorithms.MinMax(scoresOf(collab))

	merged := make([]Recommendation, 0, len(content)+len(collab))
	pos := make(map[string]int, len(content)+len(collab))
	seenContent := make(map[string]struct{}, len(content))
	seenCollab := make(map[string]struct{}, len(collab))

	for i, r := range content {
		key := blendKey(r)
		if _, dup := seenContent[key]; dup {
			continue
		}
		seenContent[key] = struct{}{}
		pos[key] = len(merged)
		merged = append(merged, Recommendation{
			MovieID:      r.MovieID,
			Title:        r.Title,
			Genres:       r.Genres,
			ContentScore: cNorm[i],
			Source:       SourceHybrid,
		})
	}

	for i, r := range collab {
		key := blendKey(r)
		if _, dup := seenCollab[key]; dup {
			continue
		}
		seenCollab[key] = struct{}{}
		if p, ok := pos[key]; ok {
			merged[p].CollabScore = fNorm[i]
			if merged[p].MovieID == 0 {
				merged[p].MovieID = r.MovieID
			}
			continue
		}
		pos[key] = len(merged)
		merged = append(merged, Recommendation{
			MovieID:     r.MovieID,
			Title:       r.Title,
			Genres:      r.Genres,
			CollabScore: fNorm[i],
			Source:      SourceHybrid,
		})
	}

	for i := range merged {
		merged[i].Score = w.Content*merged[i].ContentScore + w.Collab*merged[i].CollabScore
	}

	sort.SliceStable(merged, func(a, b int) bool {
		return merged[a].Score > merged[b].Score
	})

	return topN(merged, n)
}

// blendKey identifies a candidate across both lists. Collaborative entries
// without a catalog title fall back to their movie id.
//
//nolint:gocritic // hugeParam: Recommendation passed by value for immutability
func blendKey(r Recommendation) string {
	if r.Title != "" {
		return r.Title
	}
	return fmt.Sprintf("id:%d", r.MovieID)
}

func scoresOf(recs []Recommendation) []float64 {
	scores := make([]float64, len(recs))
	for i, r := range recs {
		scores[i] = r.Score
	}
	return scores
}

func topN(recs []Recommendation, n int) []Recommendation {
	if len(recs) > n {
		recs = recs[:n]
	}
	return append([]Recommendation{}, recs...)
}
