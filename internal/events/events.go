// ReelMatch - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package events

import (
	"errors"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/reelmatch/internal/recommend"
)

// TopicModelPublished is the topic for ModelPublished events.
const TopicModelPublished = "model.published"

// metadataEventType names the payload type in message metadata.
const metadataEventType = "event_type"

// Trigger values describing why a model was published.
const (
	TriggerStartup   = "startup"
	TriggerRestore   = "restore"
	TriggerScheduled = "scheduled"
	TriggerManual    = "manual"
)

// ModelPublished announces a newly published model.
type ModelPublished struct {
	EventID     string    `json:"event_id"`
	Version     int64     `json:"version"`
	Trigger     string    `json:"trigger"`
	PublishedAt time.Time `json:"published_at"`

	Movies      int `json:"movies"`
	Vocabulary  int `json:"vocabulary"`
	Users       int `json:"users"`
	RatedMovies int `json:"rated_movies"`
	Factors     int `json:"factors"`

	// Evaluation is nil when the model was restored without a fresh evaluation.
	Evaluation *recommend.EvaluationResult `json:"evaluation,omitempty"`

	// Persisted reports whether the model was written to the model store.
	Persisted bool `json:"persisted"`
}

// NewModelPublished builds an event from a published model.
func NewModelPublished(m *recommend.Model, trigger string, eval *recommend.EvaluationResult, persisted bool) ModelPublished {
	st := m.Status()
	ev := ModelPublished{
		EventID:     uuid.New().String(),
		Version:     st.Version,
		Trigger:     trigger,
		PublishedAt: time.Now().UTC(),
		Movies:      st.Movies,
		Vocabulary:  st.Vocabulary,
		Users:       st.Users,
		RatedMovies: st.RatedMovies,
		Factors:     st.Factors,
		Persisted:   persisted,
	}
	if eval != nil {
		e := *eval
		ev.Evaluation = &e
	}
	return ev
}

// Validate checks the fields every consumer relies on.
//
//nolint:gocritic // value receiver keeps the event immutable
func (e ModelPublished) Validate() error {
	var errs []error
	if e.EventID == "" {
		errs = append(errs, errors.New("event_id is required"))
	}
	if e.Version < 1 {
		errs = append(errs, fmt.Errorf("version must be positive, got %d", e.Version))
	}
	if e.Trigger == "" {
		errs = append(errs, errors.New("trigger is required"))
	}
	return errors.Join(errs...)
}

// Message encodes the event as a Watermill message keyed by its event ID.
//
//nolint:gocritic // value receiver keeps the event immutable
func (e ModelPublished) Message() (*message.Message, error) {
	if err := e.Validate(); err != nil {
		return nil, fmt.Errorf("invalid model published event: %w", err)
	}
	payload, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal model published event: %w", err)
	}
	msg := message.NewMessage(e.EventID, payload)
	msg.Metadata.Set(metadataEventType, TopicModelPublished)
	return msg, nil
}

// DecodeModelPublished parses a message produced by ModelPublished.Message.
func DecodeModelPublished(msg *message.Message) (ModelPublished, error) {
	var ev ModelPublished
	if err := json.Unmarshal(msg.Payload, &ev); err != nil {
		return ModelPublished{}, fmt.Errorf("unmarshal model published event: %w", err)
	}
	if err := ev.Validate(); err != nil {
		return ModelPublished{}, fmt.Errorf("invalid model published event: %w", err)
	}
	return ev, nil
}
