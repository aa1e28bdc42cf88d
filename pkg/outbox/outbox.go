package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/justbecho/justbecho-backend/pkg/db/models"
)

// Event types staged by the checkout flow.
const (
	EventOrderCreated = "order.created"
	EventOrderPaid    = "order.paid"

	AggregateOrder = "order"
)

// DomainEvent is what services emit; the payload is serialized into the
// outbox row inside the caller's transaction.
type DomainEvent struct {
	EventType     string
	AggregateType string
	AggregateID   uuid.UUID
	Data          any
}

// Envelope is the stable payload structure stored in outbox_events and
// published to the topic.
type Envelope struct {
	Version    int             `json:"version"`
	EventID    string          `json:"event_id"`
	EventType  string          `json:"event_type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Data       json.RawMessage `json:"data"`
}

// Emitter stages domain events transactionally.
type Emitter struct {
	repo *Repository
}

// NewEmitter builds an emitter over the outbox repository.
func NewEmitter(repo *Repository) (*Emitter, error) {
	if repo == nil {
		return nil, errors.New("outbox repository is required")
	}
	return &Emitter{repo: repo}, nil
}

// Emit serializes the event and inserts it using the provided transaction.
func (e *Emitter) Emit(ctx context.Context, tx *gorm.DB, event DomainEvent) error {
	if tx == nil {
		return errors.New("transaction required")
	}
	if event.EventType == "" || event.AggregateType == "" {
		return errors.New("event type and aggregate type are required")
	}
	if event.AggregateID == uuid.Nil {
		return errors.New("aggregate id is required")
	}

	data, err := json.Marshal(event.Data)
	if err != nil {
		return fmt.Errorf("marshal event data: %w", err)
	}
	envelope := Envelope{
		Version:    1,
		EventID:    uuid.NewString(),
		EventType:  event.EventType,
		OccurredAt: time.Now().UTC(),
		Data:       data,
	}
	payload, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("marshal event envelope: %w", err)
	}

	row := models.OutboxEvent{
		EventType:     event.EventType,
		AggregateType: event.AggregateType,
		AggregateID:   event.AggregateID,
		Payload:       payload,
	}
	return e.repo.Insert(tx, row)
}
