package main

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/justbecho/justbecho-backend/pkg/config"
	"github.com/justbecho/justbecho-backend/pkg/db/models"
	"github.com/justbecho/justbecho-backend/pkg/logger"
)

type stubOutboxRepo struct {
	events    []models.OutboxEvent
	published []uuid.UUID
	failed    []uuid.UUID
}

func (s *stubOutboxRepo) FetchUnpublished(limit int) ([]models.OutboxEvent, error) {
	if len(s.events) > limit {
		return s.events[:limit], nil
	}
	return s.events, nil
}

func (s *stubOutboxRepo) MarkPublished(id uuid.UUID) error {
	s.published = append(s.published, id)
	return nil
}

func (s *stubOutboxRepo) MarkFailed(id uuid.UUID, err error) error {
	s.failed = append(s.failed, id)
	return nil
}

type stubPublisher struct {
	attrs []map[string]string
	err   error
}

func (s *stubPublisher) Publish(ctx context.Context, payload []byte, attributes map[string]string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.attrs = append(s.attrs, attributes)
	return "msg-1", nil
}

func newTestService(t *testing.T, repo *stubOutboxRepo, pub *stubPublisher) *Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Config:     &config.Config{},
		Logger:     logger.New(logger.Options{ServiceName: "test"}),
		Repository: repo,
		Publisher:  pub,
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestDrainOncePublishesAndMarks(t *testing.T) {
	event := models.OutboxEvent{
		ID:            uuid.New(),
		EventType:     "order.paid",
		AggregateType: "order",
		AggregateID:   uuid.New(),
		Payload:       []byte(`{"order_id":"x"}`),
	}
	repo := &stubOutboxRepo{events: []models.OutboxEvent{event}}
	pub := &stubPublisher{}
	svc := newTestService(t, repo, pub)

	if err := svc.drainOnce(context.Background()); err != nil {
		t.Fatalf("drain: %v", err)
	}

	if len(repo.published) != 1 || repo.published[0] != event.ID {
		t.Fatalf("expected event marked published, got %v", repo.published)
	}
	if len(pub.attrs) != 1 || pub.attrs[0]["event_type"] != "order.paid" {
		t.Fatalf("expected event attributes forwarded, got %v", pub.attrs)
	}
}

func TestDrainOnceMarksFailedOnPublishError(t *testing.T) {
	event := models.OutboxEvent{
		ID:            uuid.New(),
		EventType:     "order.created",
		AggregateType: "order",
		AggregateID:   uuid.New(),
		Payload:       []byte(`{}`),
	}
	repo := &stubOutboxRepo{events: []models.OutboxEvent{event}}
	pub := &stubPublisher{err: errors.New("broker down")}
	svc := newTestService(t, repo, pub)

	if err := svc.drainOnce(context.Background()); err != nil {
		t.Fatalf("drain: %v", err)
	}

	if len(repo.failed) != 1 || repo.failed[0] != event.ID {
		t.Fatalf("expected event marked failed, got %v", repo.failed)
	}
	if len(repo.published) != 0 {
		t.Fatalf("failed event must not be marked published")
	}
}

func TestNewServiceAppliesDefaults(t *testing.T) {
	svc := newTestService(t, &stubOutboxRepo{}, &stubPublisher{})

	if svc.batchSize != defaultBatchSize {
		t.Fatalf("batch size = %d, want %d", svc.batchSize, defaultBatchSize)
	}
	if svc.pollInterval != defaultPollInterval {
		t.Fatalf("poll interval = %s, want %s", svc.pollInterval, defaultPollInterval)
	}
}
