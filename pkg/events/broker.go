package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Topic names carried over the broker.
const (
	TopicCartUpdated = "cart.updated"
)

// CartUpdated tells listeners (header badge, websocket fan-out) that a
// user's cart changed and should be re-fetched.
type CartUpdated struct {
	UserID     uuid.UUID `json:"user_id"`
	CartID     uuid.UUID `json:"cart_id"`
	TotalItems int       `json:"total_items"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher is the write side of the in-process notification bus. The
// storefront publishes after every cart mutation so unrelated components
// can refresh without polling.
type Publisher interface {
	Publish(ctx context.Context, topic string, payload any) error
}

type redisPublisher interface {
	Publish(ctx context.Context, channel string, payload any) error
}

// Broker publishes JSON-encoded events over redis pub/sub.
type Broker struct {
	client redisPublisher
}

// NewBroker builds a broker over the provided redis client.
func NewBroker(client redisPublisher) (*Broker, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	return &Broker{client: client}, nil
}

// Publish encodes the payload and sends it on the topic channel.
func (b *Broker) Publish(ctx context.Context, topic string, payload any) error {
	if topic == "" {
		return fmt.Errorf("topic is required")
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode event payload: %w", err)
	}
	return b.client.Publish(ctx, topic, encoded)
}

// NopPublisher discards events; used when eventing is not wired.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, any) error { return nil }
