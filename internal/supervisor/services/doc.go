// ReelMatch - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

/*
Package services provides suture.Service wrappers for ReelMatch components.

# Available Services

HTTP Server (HTTPServerService):
  - Wraps *http.Server, translating ListenAndServe into Serve
  - Shuts down gracefully when the Serve context is canceled

Training (TrainingService):
  - On first start: optional CSV import, then restore the latest stored
    model or train a new one
  - Retrains every recommend.training.interval and on demand through
    TriggerTraining (POST /api/v1/model/train)
  - Saves each new model to the model store, prunes old versions and
    publishes a model.published event

The event consumer from package events is a suture.Service on its own and is
added to the tree directly.

# Restart Semantics

A service returning an error is restarted by its supervisor. Startup work in
TrainingService runs once per process, not once per restart, so a crash in
the scheduling loop does not re-import the CSV files.
*/
package services
