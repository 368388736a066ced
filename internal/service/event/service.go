package event

import (
	"context"
	"encoding/json"

	"github.com/medibook/clinic-api/internal/model"
	"github.com/medibook/clinic-api/internal/repository"
	"github.com/medibook/clinic-api/pkg/logger"
)

// Service records domain events in the outbox for asynchronous
// publication. Emission failures are logged, never surfaced: a lost
// event must not fail the booking that produced it.
type Service struct {
	outbox repository.OutboxRepository
	logger *logger.Logger
}

func NewService(outbox repository.OutboxRepository, l *logger.Logger) *Service {
	return &Service{outbox: outbox, logger: l}
}

func (s *Service) Emit(ctx context.Context, eventType string, payload interface{}) {
	if s == nil || s.outbox == nil {
		return
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		s.logger.Error(err, "failed to marshal event payload", "event_type", eventType)
		return
	}

	evt := &model.OutboxEvent{
		EventType: eventType,
		Payload:   raw,
	}
	if err := s.outbox.Create(ctx, evt); err != nil {
		s.logger.Error(err, "failed to record outbox event", "event_type", eventType)
	}
}
