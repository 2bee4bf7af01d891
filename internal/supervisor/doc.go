// ReelMatch - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

/*
Package supervisor provides process supervision for ReelMatch using suture v4.

# Overview

	RootSupervisor ("reelmatch")
	├── DataSupervisor ("data-layer")
	│   ├── TrainingService
	│   └── events.Consumer (if events are enabled)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

A failing trainer is restarted inside the data layer while the API keeps
serving the last published model.

# Usage

	tree := supervisor.NewSupervisorTree(logging.NewSlogLogger(logging.Logger()), supervisor.DefaultTreeConfig())
	tree.AddDataService(trainer)
	tree.AddDataService(consumer)
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second, logger))

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
	    logging.Error().Err(err).Msg("Supervisor stopped")
	}

Supervisor events (service terminations, panics, backoff) are logged through
sutureslog into the zerolog logger.

# Configuration

TreeConfig controls restart behavior. Zero values take suture's defaults:
5 failures before backoff, 30s failure decay, 15s backoff and 10s per-service
shutdown timeout.
*/
package supervisor
