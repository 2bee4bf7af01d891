// ReelMatch - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

/*
Package events carries in-process notifications about published models.

The bus is a Watermill gochannel Pub/Sub. The training service publishes a
ModelPublished event after every successful publish; the Consumer runs a
Watermill router with panic recovery and retry, and fans events out to
registered handlers (metrics gauges, logging).

	bus := events.NewBus(events.DefaultConfig(), logging.Component("events"))
	defer bus.Close()

	consumer := events.NewConsumer(bus.Subscriber(), logger, events.UpdateModelMetrics)
	go consumer.Serve(ctx)

	err := bus.Publisher().PublishModel(ctx, events.NewModelPublished(model, "scheduled", &eval, true))

# Circuit Breaker

Publishes go through a gobreaker circuit breaker. After BreakerMaxFailures
consecutive failures the breaker opens and publishes fail fast with
ErrPublisherUnavailable until BreakerTimeout passes. Breaker transitions are
exported as Prometheus metrics. Event delivery is best effort: a failed
publish never fails the training run that triggered it.
*/
package events
