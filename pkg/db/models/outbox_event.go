package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OutboxEvent stages a domain event inside the same transaction as the
// state change that produced it. cmd/outbox-publisher drains the table.
type OutboxEvent struct {
	ID            uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	EventType     string     `gorm:"column:event_type;not null;index"`
	AggregateType string     `gorm:"column:aggregate_type;not null"`
	AggregateID   uuid.UUID  `gorm:"column:aggregate_id;type:uuid;not null"`
	Payload       []byte     `gorm:"column:payload;type:jsonb;not null"`
	AttemptCount  int        `gorm:"column:attempt_count;not null;default:0"`
	LastError     *string    `gorm:"column:last_error"`
	PublishedAt   *time.Time `gorm:"column:published_at;index"`
	CreatedAt     time.Time  `gorm:"column:created_at;autoCreateTime"`
}

func (e *OutboxEvent) BeforeCreate(*gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
