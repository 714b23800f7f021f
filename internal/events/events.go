// Package events defines the domain event contract and the publishers that
// deliver events after an aggregate change has been persisted.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Event is an immutable fact produced by an aggregate mutation.
type Event interface {
	EventName() string
	AggregateID() uuid.UUID
	OccurredAt() time.Time
}

// Publisher delivers events. Implementations report failure to attempt
// delivery; they do not promise anything beyond the attempt.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Envelope is the wire form shared by the external publishers.
type Envelope struct {
	Type        string    `json:"type"`
	AggregateID string    `json:"aggregate_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Payload     Event     `json:"payload"`
}

// NewEnvelope wraps event for delivery.
func NewEnvelope(event Event) Envelope {
	return Envelope{
		Type:        event.EventName(),
		AggregateID: event.AggregateID().String(),
		OccurredAt:  event.OccurredAt().UTC(),
		Payload:     event,
	}
}

// Marshal encodes the envelope as JSON.
func (e Envelope) Marshal() ([]byte, error) {
	b, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal %s event: %w", e.Type, err)
	}
	return b, nil
}
