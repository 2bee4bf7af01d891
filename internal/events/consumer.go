// ReelMatch - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package events

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/rs/zerolog"

	"github.com/tomtom215/reelmatch/internal/metrics"
)

// ModelHandler reacts to a published model. Returning an error makes the
// router retry the message.
type ModelHandler func(ctx context.Context, ev ModelPublished) error

// Consumer runs a Watermill router that dispatches ModelPublished events to
// handlers. It implements suture.Service.
type Consumer struct {
	subscriber message.Subscriber
	handlers   []ModelHandler
	logger     zerolog.Logger

	// CloseTimeout bounds the wait for in-flight messages on shutdown.
	CloseTimeout time.Duration
	// MaxRetries is the number of retries after a handler error.
	MaxRetries int

	readyOnce sync.Once
	ready     chan struct{}
}

// NewConsumer creates a consumer reading from sub.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewConsumer(sub message.Subscriber, logger zerolog.Logger, handlers ...ModelHandler) *Consumer {
	return &Consumer{
		subscriber:   sub,
		handlers:     handlers,
		logger:       logger,
		CloseTimeout: 10 * time.Second,
		MaxRetries:   3,
		ready:        make(chan struct{}),
	}
}

// Ready is closed once the first router is subscribed and running.
func (c *Consumer) Ready() <-chan struct{} {
	return c.ready
}

// Serve builds a fresh router and runs it until ctx is canceled.
func (c *Consumer) Serve(ctx context.Context) error {
	wmLogger := NewWatermillLogger(c.logger)

	router, err := message.NewRouter(message.RouterConfig{CloseTimeout: c.CloseTimeout}, wmLogger)
	if err != nil {
		return fmt.Errorf("create event router: %w", err)
	}

	router.AddMiddleware(
		middleware.Recoverer,
		middleware.Retry{
			MaxRetries:      c.MaxRetries,
			InitialInterval: 100 * time.Millisecond,
			MaxInterval:     5 * time.Second,
			Multiplier:      2,
			Logger:          wmLogger,
		}.Middleware,
	)
	router.AddConsumerHandler("model-published", TopicModelPublished, c.subscriber, c.handle)

	go func() {
		select {
		case <-router.Running():
			c.readyOnce.Do(func() { close(c.ready) })
		case <-ctx.Done():
		}
	}()

	c.logger.Info().Str("topic", TopicModelPublished).Msg("Event consumer started")
	if err := router.Run(ctx); err != nil {
		return fmt.Errorf("event router: %w", err)
	}
	c.logger.Info().Msg("Event consumer stopped")
	return ctx.Err()
}

func (c *Consumer) handle(msg *message.Message) error {
	ev, err := DecodeModelPublished(msg)
	if err != nil {
		// Malformed payloads are dropped; retrying cannot fix them.
		c.logger.Error().Err(err).Str("message_id", msg.UUID).Msg("Dropping malformed event")
		return nil
	}
	metrics.RecordEventConsume(TopicModelPublished)

	for _, h := range c.handlers {
		if err := h(msg.Context(), ev); err != nil {
			return err
		}
	}
	return nil
}

// String names the service in supervisor logs.
func (c *Consumer) String() string {
	return "event-consumer"
}

// UpdateModelMetrics refreshes the model gauges from an event.
//
//nolint:gocritic // hugeParam: event passed by value for immutability
func UpdateModelMetrics(_ context.Context, ev ModelPublished) error {
	metrics.UpdateModelGauges(ev.Version, ev.Movies, ev.Vocabulary, ev.Users, ev.RatedMovies, ev.Factors)
	if e := ev.Evaluation; e != nil {
		metrics.UpdateEvaluationScores(e.PrecisionAtK, e.RecallAtK, e.F1AtK)
	}
	return nil
}

// LogModelPublished returns a handler that logs each event.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func LogModelPublished(logger zerolog.Logger) ModelHandler {
	return func(_ context.Context, ev ModelPublished) error {
		event := logger.Info().
			Str("event_id", ev.EventID).
			Int64("version", ev.Version).
			Str("trigger", ev.Trigger).
			Int("movies", ev.Movies).
			Int("users", ev.Users).
			Int("factors", ev.Factors).
			Bool("persisted", ev.Persisted)
		if e := ev.Evaluation; e != nil {
			event = event.Float64("precision", e.PrecisionAtK).
				Float64("recall", e.RecallAtK).
				Float64("f1", e.F1AtK)
		}
		event.Msg("Model published")
		return nil
	}
}
