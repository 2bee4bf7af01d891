// ReelMatch - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

/*
Package api serves the recommendation engine over HTTP using the chi router.

# Endpoints

	GET  /api/v1/health/live                      process is up
	GET  /api/v1/health/ready                     a model with both sides is published
	GET  /api/v1/movies/similar?title=&n=         content recommendations
	GET  /api/v1/users/{userID}/recommendations   collaborative recommendations
	GET  /api/v1/recommendations/hybrid           blended recommendations
	GET  /api/v1/model/status                     engine status and last training report
	POST /api/v1/model/train                      queue a retraining run
	POST /api/v1/model/evaluate?k=                evaluate on the held-out split
	GET  /metrics                                 Prometheus

# Response Format

Every JSON response uses one envelope:

	{
	  "success": true,
	  "data": {...},
	  "error": {"code": "MODEL_NOT_FITTED", "message": "..."},
	  "meta": {"timestamp": "...", "duration_ms": 3, "request_id": "..."}
	}

Engine errors map to status codes: configuration errors to 400, data errors
to 422 and unfitted models to 503. Unknown titles and users are not errors;
they return an empty list.

# Middleware

Global: request ID, access log, real IP, panic recovery, CORS (go-chi/cors),
gzip (chi Compress). API routes add per-IP rate limiting (go-chi/httprate),
Prometheus instrumentation and a request timeout. The train trigger has its
own token bucket (golang.org/x/time/rate) because every accepted request
starts a full training run.
*/
package api
