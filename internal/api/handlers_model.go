// ReelMatch - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/tomtom215/reelmatch/internal/logging"
	"github.com/tomtom215/reelmatch/internal/recommend"
)

// ModelStatusResponse describes the published model.
type ModelStatusResponse struct {
	recommend.Status
	Ready      bool                   `json:"ready"`
	LastReport *recommend.TrainReport `json:"last_training,omitempty"`
	HeldOut    int                    `json:"held_out_ratings"`
}

// TrainResponse acknowledges a queued training run.
type TrainResponse struct {
	Status   string    `json:"status"`
	QueuedAt time.Time `json:"queued_at"`
}

// EvaluateResponse wraps an evaluation result.
type EvaluateResponse struct {
	recommend.EvaluationResult
	ModelVersion int64 `json:"model_version"`
	HeldOut      int   `json:"held_out_ratings"`
}

// ModelStatus handles GET /api/v1/model/status.
func (h *Handler) ModelStatus(w http.ResponseWriter, r *http.Request) {
	st := h.engine.Status()
	resp := ModelStatusResponse{Status: st, Ready: st.Ready()}
	if h.trainer != nil {
		resp.LastReport = h.trainer.LastReport()
		resp.HeldOut = len(h.trainer.HeldOut())
	}
	NewResponseWriter(w, r).Success(resp)
}

// TriggerTraining handles POST /api/v1/model/train. The run happens in the
// background; the response only confirms it was queued.
func (h *Handler) TriggerTraining(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	if h.trainer == nil {
		rw.ServiceUnavailable("training is not enabled")
		return
	}
	if !h.trainLimiter.Allow() {
		rw.TooManyRequests("training was triggered too recently")
		return
	}

	if err := h.trainer.TriggerTraining(); err != nil {
		if errors.Is(err, ErrTrainingQueued) {
			rw.Conflict("a training run is already queued")
			return
		}
		logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to queue training")
		rw.InternalError("failed to queue training")
		return
	}

	logging.Ctx(r.Context()).Info().Msg("Training queued via API")
	rw.Accepted(TrainResponse{Status: "queued", QueuedAt: time.Now().UTC()})
}

// EvaluateModel handles POST /api/v1/model/evaluate?k=. It scores the
// published model against the held-out split of the last training run.
func (h *Handler) EvaluateModel(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	if h.trainer == nil {
		rw.ServiceUnavailable("training is not enabled")
		return
	}

	k, err := queryInt(r, "k", h.evalK)
	if err != nil {
		writeParamError(rw, err)
		return
	}
	req := evaluateRequest{K: k}
	if !validateRequest(rw, &req) {
		return
	}

	heldOut := h.trainer.HeldOut()
	if len(heldOut) == 0 {
		rw.Conflict("no held-out ratings available; retrain the model first")
		return
	}

	version := h.engine.Current().Version
	result, err := h.engine.Evaluate(heldOut, req.K)
	if err != nil {
		writeEngineError(rw, r, err)
		return
	}
	rw.Success(EvaluateResponse{EvaluationResult: result, ModelVersion: version, HeldOut: len(heldOut)})
}
