// ReelMatch - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/tomtom215/reelmatch/internal/validation"
)

type similarRequest struct {
	Title string `query:"title" validate:"required,notblank,max=500"`
	N     int    `query:"n" validate:"min=1"`
}

type userRequest struct {
	UserID int `query:"userID"`
	N      int `query:"n" validate:"min=1"`
}

type hybridRequest struct {
	UserID        *int     `query:"user_id"`
	Title         string   `query:"title" validate:"omitempty,notblank,max=500"`
	N             int      `query:"n" validate:"min=1"`
	ContentWeight *float64 `query:"content_weight" validate:"omitempty,finite,gte=0"`
	CollabWeight  *float64 `query:"collab_weight" validate:"omitempty,finite,gte=0"`
}

type evaluateRequest struct {
	K int `query:"k" validate:"min=1,max=1000"`
}

// paramError reports a query parameter that could not be parsed.
type paramError struct {
	name string
	kind string
}

func (e *paramError) Error() string {
	return fmt.Sprintf("%s must be %s", e.name, e.kind)
}

// queryInt returns the named parameter, or def when it is absent.
func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &paramError{name: name, kind: "an integer"}
	}
	return v, nil
}

// queryOptionalInt returns nil when the parameter is absent.
func queryOptionalInt(r *http.Request, name string) (*int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, &paramError{name: name, kind: "an integer"}
	}
	return &v, nil
}

// queryOptionalFloat returns nil when the parameter is absent.
func queryOptionalFloat(r *http.Request, name string) (*float64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, &paramError{name: name, kind: "a number"}
	}
	return &v, nil
}

// validateRequest runs struct validation and writes a 400 on failure.
func validateRequest(rw *ResponseWriter, req interface{}) bool {
	verr := validation.ValidateStruct(req)
	if verr == nil {
		return true
	}
	apiErr := verr.ToAPIError()
	rw.ErrorWithDetails(http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
	return false
}

// checkLimit rejects result counts above the configured maximum.
func checkLimit(rw *ResponseWriter, name string, n, maxN int) bool {
	if n <= maxN {
		return true
	}
	rw.ErrorWithDetails(http.StatusBadRequest, ErrCodeValidation,
		fmt.Sprintf("%s must be at most %d", name, maxN),
		map[string]interface{}{"field": name, "tag": "max", "value": n})
	return false
}

// writeParamError writes a 400 for an unparseable parameter.
func writeParamError(rw *ResponseWriter, err error) {
	rw.Error(http.StatusBadRequest, ErrCodeValidation, err.Error())
}
