// ReelMatch - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package main

import (
	"github.com/tomtom215/reelmatch/internal/config"
	"github.com/tomtom215/reelmatch/internal/events"
	"github.com/tomtom215/reelmatch/internal/logging"
	"github.com/tomtom215/reelmatch/internal/supervisor"
	"github.com/tomtom215/reelmatch/internal/supervisor/services"
)

// EventComponents holds the in-process event bus. The zero value is the
// disabled bus.
type EventComponents struct {
	Bus *events.Bus
}

// Publisher returns the model event publisher, or nil when events are disabled.
func (c *EventComponents) Publisher() services.EventPublisher {
	if c.Bus == nil {
		return nil
	}
	return c.Bus.Publisher()
}

// Close shuts the bus down.
func (c *EventComponents) Close() {
	if c.Bus == nil {
		return
	}
	if err := c.Bus.Close(); err != nil {
		logging.Warn().Err(err).Msg("Error closing event bus")
	}
}

// initEvents creates the event bus and adds the model event consumer to the
// data layer.
func initEvents(cfg *config.Config, tree *supervisor.SupervisorTree) *EventComponents {
	if !cfg.Events.Enabled {
		logging.Info().Msg("Event bus disabled (EVENTS_ENABLED=false)")
		return &EventComponents{}
	}

	logger := logging.Component("events")
	bus := events.NewBus(events.Config{
		BufferSize:         cfg.Events.BufferSize,
		BreakerMaxFailures: cfg.Events.BreakerMaxFailures,
		BreakerTimeout:     cfg.Events.BreakerTimeout,
	}, logger)

	consumer := events.NewConsumer(bus.Subscriber(), logger,
		events.UpdateModelMetrics,
		events.LogModelPublished(logger),
	)
	tree.AddDataService(consumer)

	logging.Info().
		Int64("buffer_size", cfg.Events.BufferSize).
		Uint32("breaker_max_failures", cfg.Events.BreakerMaxFailures).
		Msg("Event bus initialized")
	return &EventComponents{Bus: bus}
}
