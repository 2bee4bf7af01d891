// ReelMatch - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package events

import (
	"context"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/rs/zerolog"
)

// Config holds event bus settings.
type Config struct {
	// BufferSize is the per-subscriber output channel buffer.
	BufferSize int64

	// BreakerMaxFailures consecutive publish failures open the breaker.
	BreakerMaxFailures uint32

	// BreakerTimeout is how long the breaker stays open before probing.
	BreakerTimeout time.Duration
}

// DefaultConfig returns production defaults.
func DefaultConfig() Config {
	return Config{
		BufferSize:         64,
		BreakerMaxFailures: 5,
		BreakerTimeout:     30 * time.Second,
	}
}

// Bus is an in-process Pub/Sub backed by a Watermill gochannel.
type Bus struct {
	channel   *gochannel.GoChannel
	publisher *Publisher
}

// NewBus creates a bus. Messages published while no subscriber is attached
// are dropped.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewBus(cfg Config, logger zerolog.Logger) *Bus {
	if cfg.BufferSize < 0 {
		cfg.BufferSize = 0
	}
	channel := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: cfg.BufferSize,
	}, NewWatermillLogger(logger))

	return &Bus{
		channel:   channel,
		publisher: NewPublisher(channel, "event-bus", cfg.BreakerMaxFailures, cfg.BreakerTimeout, logger),
	}
}

// Publisher returns the breaker-protected publisher.
func (b *Bus) Publisher() *Publisher {
	return b.publisher
}

// Subscriber returns a subscriber whose Close leaves the bus open. Watermill
// routers close their subscribers on shutdown, and a restarted consumer must
// be able to subscribe again.
func (b *Bus) Subscriber() message.Subscriber {
	return sharedSubscriber{b.channel}
}

// Close stops the bus and closes every subscription.
func (b *Bus) Close() error {
	b.publisher.markClosed()
	return b.channel.Close()
}

type sharedSubscriber struct {
	channel *gochannel.GoChannel
}

func (s sharedSubscriber) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	return s.channel.Subscribe(ctx, topic)
}

func (sharedSubscriber) Close() error { return nil }
