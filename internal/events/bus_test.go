// ReelMatch - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package events

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"github.com/tomtom215/reelmatch/internal/metrics"
)

// failingPublisher fails every publish until healthy is set.
type failingPublisher struct {
	healthy atomic.Bool
	calls   atomic.Int32
}

func (p *failingPublisher) Publish(string, ...*message.Message) error {
	p.calls.Add(1)
	if p.healthy.Load() {
		return nil
	}
	return errors.New("broker down")
}

func (p *failingPublisher) Close() error { return nil }

func TestPublisher_CircuitBreakerOpens(t *testing.T) {
	fake := &failingPublisher{}
	pub := NewPublisher(fake, "test-breaker-open", 2, time.Hour, zerolog.Nop())
	msg := func() *message.Message { return message.NewMessage("id", []byte("{}")) }

	for i := 0; i < 2; i++ {
		err := pub.Publish("topic", msg())
		if err == nil || errors.Is(err, ErrPublisherUnavailable) {
			t.Fatalf("Publish() #%d = %v, want broker error", i, err)
		}
	}
	if pub.State() != "open" {
		t.Fatalf("State() = %q, want %q", pub.State(), "open")
	}

	err := pub.Publish("topic", msg())
	if !errors.Is(err, ErrPublisherUnavailable) {
		t.Errorf("Publish() with open breaker = %v, want ErrPublisherUnavailable", err)
	}
	if got := fake.calls.Load(); got != 2 {
		t.Errorf("underlying publishes = %d, want 2", got)
	}

	if got := testutil.ToFloat64(metrics.CircuitBreakerState.WithLabelValues("test-breaker-open")); got != 2 {
		t.Errorf("breaker state gauge = %v, want 2 (open)", got)
	}
}

func TestPublisher_CircuitBreakerRecovers(t *testing.T) {
	fake := &failingPublisher{}
	pub := NewPublisher(fake, "test-breaker-recover", 1, 10*time.Millisecond, zerolog.Nop())

	_ = pub.Publish("topic", message.NewMessage("a", nil))
	if pub.State() != "open" {
		t.Fatalf("State() = %q, want open", pub.State())
	}

	fake.healthy.Store(true)
	time.Sleep(20 * time.Millisecond)

	if err := pub.Publish("topic", message.NewMessage("b", nil)); err != nil {
		t.Fatalf("Publish() after timeout = %v, want nil", err)
	}
	if pub.State() != "closed" {
		t.Errorf("State() = %q, want closed", pub.State())
	}
}

func TestBus_PublishAfterClose(t *testing.T) {
	bus := NewBus(DefaultConfig(), zerolog.Nop())
	if err := bus.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	err := bus.Publisher().Publish(TopicModelPublished, message.NewMessage("id", nil))
	if !errors.Is(err, ErrPublisherClosed) {
		t.Errorf("Publish() after Close = %v, want ErrPublisherClosed", err)
	}
}

func TestConsumer_DeliversModelPublished(t *testing.T) {
	bus := NewBus(DefaultConfig(), zerolog.Nop())
	defer bus.Close()

	received := make(chan ModelPublished, 1)
	consumer := NewConsumer(bus.Subscriber(), zerolog.Nop(),
		UpdateModelMetrics,
		func(_ context.Context, ev ModelPublished) error {
			received <- ev
			return nil
		},
	)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- consumer.Serve(ctx) }()

	select {
	case <-consumer.Ready():
	case <-time.After(5 * time.Second):
		t.Fatal("consumer did not start")
	}

	ev := NewModelPublished(publishedModel(t), TriggerStartup, nil, false)
	if err := bus.Publisher().PublishModel(ctx, ev); err != nil {
		t.Fatalf("PublishModel() error = %v", err)
	}

	select {
	case got := <-received:
		if got.EventID != ev.EventID {
			t.Errorf("EventID = %q, want %q", got.EventID, ev.EventID)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("event not delivered")
	}

	if got := testutil.ToFloat64(metrics.ModelVersion); got != float64(ev.Version) {
		t.Errorf("model version gauge = %v, want %d", got, ev.Version)
	}

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() = %v, want context.Canceled", err)
		}
	case <-time.After(15 * time.Second):
		t.Fatal("consumer did not stop")
	}
}

func TestConsumer_DropsMalformed(t *testing.T) {
	called := false
	consumer := NewConsumer(nil, zerolog.Nop(), func(context.Context, ModelPublished) error {
		called = true
		return nil
	})

	if err := consumer.handle(message.NewMessage("bad", []byte("nope"))); err != nil {
		t.Errorf("handle(malformed) = %v, want nil", err)
	}
	if called {
		t.Error("handler called for malformed message")
	}
}

func TestConsumer_HandlerErrorPropagates(t *testing.T) {
	boom := errors.New("boom")
	consumer := NewConsumer(nil, zerolog.Nop(), func(context.Context, ModelPublished) error {
		return boom
	})
	msg, err := ModelPublished{EventID: "e", Version: 1, Trigger: TriggerManual}.Message()
	if err != nil {
		t.Fatalf("Message() error = %v", err)
	}
	if err := consumer.handle(msg); !errors.Is(err, boom) {
		t.Errorf("handle() = %v, want %v", err, boom)
	}
}
