package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
)

type captureRedis struct {
	channel string
	payload any
}

func (c *captureRedis) Publish(ctx context.Context, channel string, payload any) error {
	c.channel = channel
	c.payload = payload
	return nil
}

func TestBrokerPublishEncodesJSON(t *testing.T) {
	t.Parallel()

	redis := &captureRedis{}
	broker, err := NewBroker(redis)
	if err != nil {
		t.Fatalf("new broker: %v", err)
	}

	event := CartUpdated{
		UserID:     uuid.New(),
		CartID:     uuid.New(),
		TotalItems: 3,
		OccurredAt: time.Now().UTC(),
	}
	if err := broker.Publish(context.Background(), TopicCartUpdated, event); err != nil {
		t.Fatalf("publish: %v", err)
	}

	if redis.channel != TopicCartUpdated {
		t.Fatalf("channel = %s, want %s", redis.channel, TopicCartUpdated)
	}

	raw, ok := redis.payload.([]byte)
	if !ok {
		t.Fatalf("payload type %T, want []byte", redis.payload)
	}
	var decoded CartUpdated
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if decoded.UserID != event.UserID || decoded.TotalItems != 3 {
		t.Fatalf("unexpected payload: %+v", decoded)
	}
}

func TestBrokerPublishRequiresTopic(t *testing.T) {
	t.Parallel()

	broker, _ := NewBroker(&captureRedis{})
	if err := broker.Publish(context.Background(), "", nil); err == nil {
		t.Fatal("expected error for empty topic")
	}
}

func TestNewBrokerRequiresClient(t *testing.T) {
	t.Parallel()

	if _, err := NewBroker(nil); err == nil {
		t.Fatal("expected error for nil client")
	}
}
