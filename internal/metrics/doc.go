// ReelMatch - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

/*
Package metrics provides Prometheus metrics collection and export for observability.

All collectors are registered on the default registry through promauto and are
exposed at /metrics by the API router:

	curl http://localhost:8080/metrics

# Available Metrics

Recommendation Metrics:
  - recommend_requests_total: Served lists (counter)
    Labels: source (similarity, predicted_rating, hybrid), outcome
  - recommend_duration_seconds: Time to compute a list (histogram)
    Labels: source
  - cache_hits_total / cache_misses_total / cache_entries
    Labels: cache

Training Metrics:
  - training_duration_seconds: Stage duration (histogram)
    Labels: stage
  - training_runs_total: Runs (counter)
    Labels: trigger, result
  - training_last_success_timestamp (gauge)
  - model_version, model_size{dimension} (gauges)
  - evaluation_score{metric}: precision, recall and F1 at K (gauge)

Infrastructure Metrics:
  - duckdb_query_duration_seconds, duckdb_query_errors_total
  - api_requests_total, api_request_duration_seconds, api_active_requests
  - api_rate_limit_hits_total
  - model_store_operation_duration_seconds, model_store_blob_bytes
  - events_published_total, events_consumed_total
  - circuit_breaker_state (0=closed, 1=half-open, 2=open)
  - circuit_breaker_transitions_total
  - app_info, app_uptime_seconds

# Thread Safety

Prometheus collectors are safe for concurrent use; the Record helpers can be
called from any goroutine.
*/
package metrics
