package main

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/justbecho/justbecho-backend/pkg/config"
	"github.com/justbecho/justbecho-backend/pkg/db/models"
	"github.com/justbecho/justbecho-backend/pkg/logger"
)

const (
	defaultBatchSize    = 50
	defaultPollInterval = 5 * time.Second
)

type outboxRepository interface {
	FetchUnpublished(limit int) ([]models.OutboxEvent, error)
	MarkPublished(id uuid.UUID) error
	MarkFailed(id uuid.UUID, err error) error
}

type eventPublisher interface {
	Publish(ctx context.Context, payload []byte, attributes map[string]string) (string, error)
}

type ServiceParams struct {
	Config     *config.Config
	Logger     *logger.Logger
	Repository outboxRepository
	Publisher  eventPublisher
}

// Service drains the outbox table and relays events to pub/sub. Delivery is
// at-least-once: a crash between Publish and MarkPublished re-sends the
// event, so consumers must dedupe on event id.
type Service struct {
	cfg          *config.Config
	logg         *logger.Logger
	repo         outboxRepository
	publisher    eventPublisher
	batchSize    int
	pollInterval time.Duration
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Config == nil {
		return nil, errors.New("config is required")
	}
	if params.Logger == nil {
		return nil, errors.New("logger is required")
	}
	if params.Repository == nil {
		return nil, errors.New("outbox repository is required")
	}
	if params.Publisher == nil {
		return nil, errors.New("publisher is required")
	}

	batch := params.Config.Outbox.BatchSize
	if batch <= 0 {
		batch = defaultBatchSize
	}
	interval := params.Config.Outbox.PollInterval
	if interval <= 0 {
		interval = defaultPollInterval
	}

	return &Service{
		cfg:          params.Config,
		logg:         params.Logger,
		repo:         params.Repository,
		publisher:    params.Publisher,
		batchSize:    batch,
		pollInterval: interval,
	}, nil
}

// Run polls until the context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		if err := s.drainOnce(ctx); err != nil {
			s.logg.Error(ctx, "outbox drain failed", err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (s *Service) drainOnce(ctx context.Context) error {
	events, err := s.repo.FetchUnpublished(s.batchSize)
	if err != nil {
		return err
	}

	for _, event := range events {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.relay(ctx, event)
	}
	return nil
}

func (s *Service) relay(ctx context.Context, event models.OutboxEvent) {
	evCtx := s.logg.WithFields(ctx, map[string]any{
		"event_id":   event.ID.String(),
		"event_type": event.EventType,
		"aggregate":  event.AggregateType,
	})

	messageID, err := s.publisher.Publish(ctx, event.Payload, map[string]string{
		"event_id":       event.ID.String(),
		"event_type":     event.EventType,
		"aggregate_type": event.AggregateType,
		"aggregate_id":   event.AggregateID.String(),
	})
	if err != nil {
		s.logg.Error(evCtx, "publish event failed", err)
		if markErr := s.repo.MarkFailed(event.ID, err); markErr != nil {
			s.logg.Error(evCtx, "mark event failed errored", markErr)
		}
		return
	}

	if err := s.repo.MarkPublished(event.ID); err != nil {
		s.logg.Error(evCtx, "mark event published errored", err)
		return
	}

	s.logg.Info(s.logg.WithField(evCtx, "message_id", messageID), "event published")
}
