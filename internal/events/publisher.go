// ReelMatch - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package events

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/reelmatch/internal/metrics"
)

var (
	// ErrPublisherClosed is returned after the bus has been closed.
	ErrPublisherClosed = errors.New("publisher is closed")

	// ErrPublisherUnavailable is returned while the circuit breaker is open.
	ErrPublisherUnavailable = errors.New("publisher unavailable: circuit breaker open")
)

// Publisher publishes events through a circuit breaker.
type Publisher struct {
	pub     message.Publisher
	breaker *gobreaker.CircuitBreaker[struct{}]
	closed  atomic.Bool
	logger  zerolog.Logger
}

// NewPublisher wraps pub. name labels the breaker metrics.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewPublisher(pub message.Publisher, name string, maxFailures uint32, timeout time.Duration, logger zerolog.Logger) *Publisher {
	if maxFailures == 0 {
		maxFailures = 1
	}
	p := &Publisher{pub: pub, logger: logger}

	p.breaker = gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.RecordCircuitBreakerTransition(name, from.String(), to.String())
			p.logger.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Circuit breaker state changed")
		},
	})
	return p
}

// PublishModel publishes a ModelPublished event.
//
//nolint:gocritic // hugeParam: event passed by value for immutability
func (p *Publisher) PublishModel(ctx context.Context, ev ModelPublished) error {
	msg, err := ev.Message()
	if err != nil {
		return err
	}
	msg.SetContext(ctx)
	return p.Publish(TopicModelPublished, msg)
}

// Publish sends msgs to topic.
func (p *Publisher) Publish(topic string, msgs ...*message.Message) error {
	if p.closed.Load() {
		return ErrPublisherClosed
	}

	_, err := p.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, p.pub.Publish(topic, msgs...)
	})
	metrics.RecordEventPublish(topic, err)

	switch {
	case err == nil:
		return nil
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return fmt.Errorf("%w: %w", ErrPublisherUnavailable, err)
	default:
		return fmt.Errorf("publish to %s: %w", topic, err)
	}
}

// State returns the breaker state: closed, half-open or open.
func (p *Publisher) State() string {
	return p.breaker.State().String()
}

func (p *Publisher) markClosed() {
	p.closed.Store(true)
}
