// ReelMatch - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/reelmatch/internal/recommend"
)

// SimilarResponse lists movies similar to a title.
type SimilarResponse struct {
	Title           string                     `json:"title"`
	N               int                        `json:"n"`
	Count           int                        `json:"count"`
	Recommendations []recommend.Recommendation `json:"recommendations"`
}

// UserRecommendationsResponse lists predicted movies for a user.
type UserRecommendationsResponse struct {
	UserID          int                        `json:"user_id"`
	N               int                        `json:"n"`
	Count           int                        `json:"count"`
	Recommendations []recommend.Recommendation `json:"recommendations"`
}

// HybridResponse lists blended recommendations.
type HybridResponse struct {
	UserID          *int                       `json:"user_id,omitempty"`
	Title           string                     `json:"title,omitempty"`
	N               int                        `json:"n"`
	Weights         recommend.HybridWeights    `json:"weights"`
	Count           int                        `json:"count"`
	Recommendations []recommend.Recommendation `json:"recommendations"`
}

// SimilarMovies handles GET /api/v1/movies/similar?title=&n=.
func (h *Handler) SimilarMovies(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	n, err := queryInt(r, "n", h.limits.DefaultN)
	if err != nil {
		writeParamError(rw, err)
		return
	}
	req := similarRequest{Title: r.URL.Query().Get("title"), N: n}
	if !validateRequest(rw, &req) || !checkLimit(rw, "n", req.N, h.limits.MaxN) {
		return
	}

	recs, err := h.engine.ContentRecommendations(req.Title, req.N)
	if err != nil {
		writeEngineError(rw, r, err)
		return
	}
	recs = nonNil(recs)
	rw.Success(SimilarResponse{Title: req.Title, N: req.N, Count: len(recs), Recommendations: recs})
}

// UserRecommendations handles GET /api/v1/users/{userID}/recommendations?n=.
func (h *Handler) UserRecommendations(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	userID, err := strconv.Atoi(chi.URLParam(r, "userID"))
	if err != nil {
		writeParamError(rw, &paramError{name: "userID", kind: "an integer"})
		return
	}
	n, err := queryInt(r, "n", h.limits.DefaultN)
	if err != nil {
		writeParamError(rw, err)
		return
	}
	req := userRequest{UserID: userID, N: n}
	if !validateRequest(rw, &req) || !checkLimit(rw, "n", req.N, h.limits.MaxN) {
		return
	}

	recs, err := h.engine.CollaborativeRecommendations(req.UserID, req.N)
	if err != nil {
		writeEngineError(rw, r, err)
		return
	}
	recs = nonNil(recs)
	rw.Success(UserRecommendationsResponse{UserID: req.UserID, N: req.N, Count: len(recs), Recommendations: recs})
}

// HybridRecommendations handles
// GET /api/v1/recommendations/hybrid?user_id=&title=&n=&content_weight=&collab_weight=.
// Either user_id or title is required. A weight left out keeps its configured default.
func (h *Handler) HybridRecommendations(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	req, ok := h.parseHybrid(rw, r)
	if !ok {
		return
	}

	weights := h.engine.Config().Hybrid.Weights()
	if req.ContentWeight != nil {
		weights.Content = *req.ContentWeight
	}
	if req.CollabWeight != nil {
		weights.Collab = *req.CollabWeight
	}

	recs, err := h.engine.HybridRecommendations(recommend.HybridQuery{
		UserID:  req.UserID,
		Title:   req.Title,
		N:       req.N,
		Weights: &weights,
	})
	if err != nil {
		writeEngineError(rw, r, err)
		return
	}
	recs = nonNil(recs)
	rw.Success(HybridResponse{
		UserID:          req.UserID,
		Title:           req.Title,
		N:               req.N,
		Weights:         weights,
		Count:           len(recs),
		Recommendations: recs,
	})
}

func (h *Handler) parseHybrid(rw *ResponseWriter, r *http.Request) (hybridRequest, bool) {
	var req hybridRequest
	var err error

	if req.UserID, err = queryOptionalInt(r, "user_id"); err != nil {
		writeParamError(rw, err)
		return req, false
	}
	if req.N, err = queryInt(r, "n", h.limits.DefaultN); err != nil {
		writeParamError(rw, err)
		return req, false
	}
	if req.ContentWeight, err = queryOptionalFloat(r, "content_weight"); err != nil {
		writeParamError(rw, err)
		return req, false
	}
	if req.CollabWeight, err = queryOptionalFloat(r, "collab_weight"); err != nil {
		writeParamError(rw, err)
		return req, false
	}
	req.Title = r.URL.Query().Get("title")

	if req.UserID == nil && strings.TrimSpace(req.Title) == "" {
		rw.Error(http.StatusBadRequest, ErrCodeValidation, "user_id or title is required")
		return req, false
	}
	if !validateRequest(rw, &req) || !checkLimit(rw, "n", req.N, h.limits.MaxN) {
		return req, false
	}
	return req, true
}
