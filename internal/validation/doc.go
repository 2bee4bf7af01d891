// ReelMatch - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

// Package validation validates API request structs with go-playground/validator v10.
//
// A single validator instance is created on first use and shared; it caches
// struct metadata and is safe for concurrent use.
//
// # Usage
//
//	type similarRequest struct {
//	    Title string `query:"title" validate:"required,notblank,max=500"`
//	    N     int    `query:"n" validate:"min=1,max=100"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    // 400 with apiErr.Code == "VALIDATION_ERROR"
//	}
//
// Messages name the query parameter ("n must be at most 100") rather than
// the Go field.
//
// # Custom Tags
//
//   - notblank: string is not empty after trimming whitespace
//   - finite: float is neither NaN nor infinite
package validation
