package event

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medibook/clinic-api/internal/model"
	"github.com/medibook/clinic-api/pkg/logger"
)

type fakeOutboxRepo struct {
	created []*model.OutboxEvent
	err     error
}

func (f *fakeOutboxRepo) Create(_ context.Context, event *model.OutboxEvent) error {
	if f.err != nil {
		return f.err
	}
	f.created = append(f.created, event)
	return nil
}

func (f *fakeOutboxRepo) GetPendingWithLock(context.Context, int) ([]*model.OutboxEvent, error) {
	return nil, nil
}
func (f *fakeOutboxRepo) MarkProcessed(context.Context, uuid.UUID) error      { return nil }
func (f *fakeOutboxRepo) MarkFailed(context.Context, uuid.UUID, string) error { return nil }

func TestEmitRecordsEvent(t *testing.T) {
	repo := &fakeOutboxRepo{}
	svc := NewService(repo, logger.NewLogger(&logger.Config{}))

	payload := map[string]string{"appointment_id": uuid.New().String()}
	svc.Emit(context.Background(), model.EventAppointmentCreated, payload)

	require.Len(t, repo.created, 1)
	assert.Equal(t, model.EventAppointmentCreated, repo.created[0].EventType)

	var decoded map[string]string
	require.NoError(t, json.Unmarshal(repo.created[0].Payload, &decoded))
	assert.Equal(t, payload, decoded)
}

func TestEmitSwallowsFailures(t *testing.T) {
	repo := &fakeOutboxRepo{err: errors.New("db down")}
	svc := NewService(repo, logger.NewLogger(&logger.Config{}))

	// Must not panic or surface the error.
	svc.Emit(context.Background(), model.EventAppointmentCreated, "payload")
	assert.Empty(t, repo.created)
}

func TestEmitNilService(t *testing.T) {
	var svc *Service
	svc.Emit(context.Background(), model.EventAppointmentCreated, "payload")

	NewService(nil, nil).Emit(context.Background(), model.EventAppointmentCreated, "payload")
}
