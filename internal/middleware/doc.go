// ReelMatch - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

/*
Package middleware provides chi-compatible HTTP middleware.

  - RequestID: assigns or propagates X-Request-ID and stores it for logging.Ctx
  - PrometheusMetrics: request count, latency histogram and in-flight gauge,
    labelled by chi route pattern
  - AccessLog: one zerolog line per request

Order matters. RequestID runs first so that later layers see the ID:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog(logging.Component("http")))
	r.Use(middleware.PrometheusMetrics)

CORS, rate limiting, panic recovery and compression come from go-chi/cors,
go-chi/httprate and chi's own middleware package and are wired in the api
package.
*/
package middleware
