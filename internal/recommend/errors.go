// ReelMatch - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package recommend

import "errors"

// Error kinds returned by the engine. Callers match them with errors.Is.
// Unknown titles and unknown users are not errors: they yield empty results.
var (
	// ErrConfiguration reports invalid parameters such as a factor count out
	// of range or a feature field list with no recognized field.
	ErrConfiguration = errors.New("configuration error")

	// ErrData reports unusable input tables, for example an empty rating stream.
	ErrData = errors.New("data error")

	// ErrNotFitted reports a recommendation call against a model side that
	// has not been fitted yet.
	ErrNotFitted = errors.New("model not fitted")
)
