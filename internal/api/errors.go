// ReelMatch - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/tomtom215/reelmatch/internal/logging"
	"github.com/tomtom215/reelmatch/internal/recommend"
)

// statusForError maps engine errors to an HTTP status and error code.
func statusForError(err error) (int, string) {
	switch {
	case errors.Is(err, recommend.ErrConfiguration):
		return http.StatusBadRequest, ErrCodeBadRequest
	case errors.Is(err, recommend.ErrData):
		return http.StatusUnprocessableEntity, ErrCodeDataError
	case errors.Is(err, recommend.ErrNotFitted):
		return http.StatusServiceUnavailable, ErrCodeModelNotFitted
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, ErrCodeTimeout
	default:
		return http.StatusInternalServerError, ErrCodeInternalError
	}
}

// writeEngineError writes err as an envelope. Messages of client errors are
// passed through; server errors are logged and replaced with a generic text.
func writeEngineError(rw *ResponseWriter, r *http.Request, err error) {
	status, code := statusForError(err)
	if code == ErrCodeTimeout {
		rw.Error(status, code, "request timed out")
		return
	}
	if status >= http.StatusInternalServerError && status != http.StatusServiceUnavailable {
		logging.Ctx(r.Context()).Error().Err(err).Str("code", code).Msg("Request failed")
		rw.Error(status, code, "internal error")
		return
	}
	rw.Error(status, code, err.Error())
}
