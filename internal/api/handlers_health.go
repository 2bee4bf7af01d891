// ReelMatch - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/reelmatch/internal/logging"
)

// LiveResponse is the liveness probe payload.
type LiveResponse struct {
	Status        string  `json:"status"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

// ReadyResponse is the readiness probe payload.
type ReadyResponse struct {
	Status              string `json:"status"`
	ModelVersion        int64  `json:"model_version"`
	ContentFitted       bool   `json:"content_fitted"`
	CollaborativeFitted bool   `json:"collaborative_fitted"`
	Database            string `json:"database,omitempty"`
}

// HealthLive handles GET /api/v1/health/live. It always returns 200.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(LiveResponse{
		Status:        "alive",
		UptimeSeconds: time.Since(h.startTime).Seconds(),
	})
}

// HealthReady handles GET /api/v1/health/ready. It returns 503 until a model
// with both sides is published and the database (when configured) answers.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	st := h.engine.Status()

	resp := ReadyResponse{
		Status:              "ready",
		ModelVersion:        st.Version,
		ContentFitted:       st.ContentFitted,
		CollaborativeFitted: st.CollaborativeFitted,
	}
	ready := st.Ready()

	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.Ping(ctx); err != nil {
			logging.Ctx(r.Context()).Warn().Err(err).Msg("Readiness database ping failed")
			resp.Database = "unavailable"
			ready = false
		} else {
			resp.Database = "ok"
		}
	}

	if !ready {
		resp.Status = "not_ready"
		rw.ErrorWithDetails(http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "service is not ready", resp)
		return
	}
	rw.Success(resp)
}
