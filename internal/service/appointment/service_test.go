package appointment

import (
	"context"
	"sort"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medibook/clinic-api/internal/model"
	"github.com/medibook/clinic-api/internal/repository"
	"github.com/medibook/clinic-api/internal/service/schedule"
	"github.com/medibook/clinic-api/pkg/errors"
)

type fakeAppointmentRepo struct {
	appointments map[uuid.UUID]*model.Appointment
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{appointments: make(map[uuid.UUID]*model.Appointment)}
}

func (f *fakeAppointmentRepo) Create(_ context.Context, apt *model.Appointment) error {
	for _, existing := range f.appointments {
		if existing.DoctorID == apt.DoctorID &&
			existing.Date == apt.Date &&
			existing.Time == apt.Time &&
			existing.Status != model.AppointmentStatusCancelled {
			return repository.ErrDuplicateSlot
		}
	}
	apt.ID = uuid.New()
	stored := *apt
	f.appointments[apt.ID] = &stored
	return nil
}

func (f *fakeAppointmentRepo) Get(_ context.Context, id uuid.UUID) (*model.Appointment, error) {
	apt, ok := f.appointments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *apt
	return &copied, nil
}

func (f *fakeAppointmentRepo) Update(_ context.Context, apt *model.Appointment) error {
	stored, ok := f.appointments[apt.ID]
	if !ok {
		return repository.ErrNotFound
	}
	stored.Status = apt.Status
	stored.Notes = apt.Notes
	return nil
}

func (f *fakeAppointmentRepo) List(_ context.Context, filters *model.AppointmentFilters, _ model.SortOrder) ([]*model.Appointment, error) {
	var out []*model.Appointment
	for _, apt := range f.appointments {
		if filters.PatientID != uuid.Nil && apt.PatientID != filters.PatientID {
			continue
		}
		if filters.DoctorID != uuid.Nil && apt.DoctorID != filters.DoctorID {
			continue
		}
		if filters.Status != "" && apt.Status != filters.Status {
			continue
		}
		if filters.Date != "" && apt.Date != filters.Date {
			continue
		}
		copied := *apt
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].Time < out[j].Time
	})
	return out, nil
}

func (f *fakeAppointmentRepo) BookedTimes(_ context.Context, doctorID uuid.UUID, date string) ([]string, error) {
	var times []string
	for _, apt := range f.appointments {
		if apt.DoctorID == doctorID && apt.Date == date && apt.Status != model.AppointmentStatusCancelled {
			times = append(times, apt.Time)
		}
	}
	return times, nil
}

func (f *fakeAppointmentRepo) Recent(_ context.Context, patientID uuid.UUID, limit int) ([]*model.Appointment, error) {
	var out []*model.Appointment
	for _, apt := range f.appointments {
		if patientID == uuid.Nil || apt.PatientID == patientID {
			copied := *apt
			out = append(out, &copied)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeAppointmentRepo) History(_ context.Context, doctorID, patientID uuid.UUID) ([]*model.Appointment, error) {
	var out []*model.Appointment
	for _, apt := range f.appointments {
		if apt.DoctorID == doctorID && apt.PatientID == patientID {
			copied := *apt
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeAppointmentRepo) CountsByStatus(_ context.Context, doctorID uuid.UUID) (map[model.AppointmentStatus]int, error) {
	counts := make(map[model.AppointmentStatus]int)
	for _, apt := range f.appointments {
		if doctorID == uuid.Nil || apt.DoctorID == doctorID {
			counts[apt.Status]++
		}
	}
	return counts, nil
}

func (f *fakeAppointmentRepo) CountForDate(_ context.Context, doctorID uuid.UUID, date string) (int, error) {
	n := 0
	for _, apt := range f.appointments {
		if (doctorID == uuid.Nil || apt.DoctorID == doctorID) && apt.Date == date {
			n++
		}
	}
	return n, nil
}

type fakeDoctorRepo struct {
	doctors map[uuid.UUID]*model.Doctor
}

func newFakeDoctorRepo() *fakeDoctorRepo {
	return &fakeDoctorRepo{doctors: make(map[uuid.UUID]*model.Doctor)}
}

func (f *fakeDoctorRepo) Get(_ context.Context, id uuid.UUID) (*model.Doctor, error) {
	d, ok := f.doctors[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return d, nil
}

func (f *fakeDoctorRepo) GetByPhone(_ context.Context, _ string) (*model.Doctor, error) {
	return nil, repository.ErrNotFound
}

func (f *fakeDoctorRepo) ListPublic(_ context.Context) ([]*model.PublicDoctor, error) {
	return nil, nil
}

func (f *fakeDoctorRepo) Count(_ context.Context) (int, error) { return len(f.doctors), nil }

func (f *fakeDoctorRepo) GetAvailability(_ context.Context, doctorID uuid.UUID) ([]model.AvailabilityWindow, error) {
	d, ok := f.doctors[doctorID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return d.Availability, nil
}

func (f *fakeDoctorRepo) ReplaceAvailability(_ context.Context, doctorID uuid.UUID, windows []model.AvailabilityWindow) error {
	if d, ok := f.doctors[doctorID]; ok {
		d.Availability = windows
	}
	return nil
}

type fixture struct {
	svc      *Service
	repo     *fakeAppointmentRepo
	doctorID uuid.UUID
	patient  model.Identity
	doctor   model.Identity
	admin    model.Identity
}

// newFixture wires a service whose doctor works Mondays 09:00-10:00.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	doctors := newFakeDoctorRepo()
	repo := newFakeAppointmentRepo()

	doctorID := uuid.New()
	doctors.doctors[doctorID] = &model.Doctor{
		Base: model.Base{ID: doctorID},
		Name: "Dr. Sharma",
		Availability: []model.AvailabilityWindow{
			{Day: "Monday", StartTime: "09:00", EndTime: "10:00"},
		},
	}

	scheduleSvc := schedule.NewService(doctors, repo, nil)
	svc := NewService(repo, doctors, scheduleSvc, nil, nil)

	return &fixture{
		svc:      svc,
		repo:     repo,
		doctorID: doctorID,
		patient:  model.Identity{ID: uuid.New(), Role: model.RolePatient},
		doctor:   model.Identity{ID: doctorID, Role: model.RoleDoctor},
		admin:    model.Identity{ID: uuid.New(), Role: model.RoleAdmin},
	}
}

func createRequest(doctorID uuid.UUID, slot string) *model.CreateAppointmentRequest {
	return &model.CreateAppointmentRequest{
		DoctorID:   doctorID,
		Date:       "2025-06-02", // a Monday
		Time:       slot,
		Symptoms:   "persistent cough",
		Department: "General Medicine",
	}
}

func TestCreateAndList(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	apt, err := fx.svc.Create(ctx, fx.patient, createRequest(fx.doctorID, "09:15"))
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusPending, apt.Status)
	assert.Equal(t, "Dr. Sharma", apt.DoctorName)
	assert.Equal(t, fx.patient.ID, apt.PatientID)
	assert.NotEqual(t, uuid.Nil, apt.ID)

	mine, err := fx.svc.ListForPatient(ctx, fx.patient, model.AppointmentFilters{})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, apt.ID, mine[0].ID)

	theirs, err := fx.svc.ListForPatient(ctx, model.Identity{ID: uuid.New(), Role: model.RolePatient}, model.AppointmentFilters{})
	require.NoError(t, err)
	assert.Empty(t, theirs)
}

func TestCreateValidation(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	req := createRequest(fx.doctorID, "09:15")
	req.Symptoms = ""
	_, err := fx.svc.Create(ctx, fx.patient, req)
	assert.True(t, errors.IsKind(err, errors.KindValidation))
}

func TestCreateUnknownDoctor(t *testing.T) {
	fx := newFixture(t)

	_, err := fx.svc.Create(context.Background(), fx.patient, createRequest(uuid.New(), "09:15"))
	assert.True(t, errors.IsKind(err, errors.KindNotFound))
}

func TestCreateConflicts(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	_, err := fx.svc.Create(ctx, fx.patient, createRequest(fx.doctorID, "09:15"))
	require.NoError(t, err)

	// Same slot again, different patient.
	other := model.Identity{ID: uuid.New(), Role: model.RolePatient}
	_, err = fx.svc.Create(ctx, other, createRequest(fx.doctorID, "09:15"))
	assert.True(t, errors.IsKind(err, errors.KindConflict))

	// A time outside the weekly window is never bookable.
	_, err = fx.svc.Create(ctx, other, createRequest(fx.doctorID, "11:00"))
	assert.True(t, errors.IsKind(err, errors.KindConflict))

	// A time off the slot grid is never bookable.
	_, err = fx.svc.Create(ctx, other, createRequest(fx.doctorID, "09:10"))
	assert.True(t, errors.IsKind(err, errors.KindConflict))
}

func TestCancelledSlotIsRebookable(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	apt, err := fx.svc.Create(ctx, fx.patient, createRequest(fx.doctorID, "09:30"))
	require.NoError(t, err)

	_, err = fx.svc.Cancel(ctx, fx.patient, apt.ID)
	require.NoError(t, err)

	other := model.Identity{ID: uuid.New(), Role: model.RolePatient}
	_, err = fx.svc.Create(ctx, other, createRequest(fx.doctorID, "09:30"))
	assert.NoError(t, err, "cancelled appointments must free their slot")
}

func TestCancel(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	apt, err := fx.svc.Create(ctx, fx.patient, createRequest(fx.doctorID, "09:00"))
	require.NoError(t, err)

	cancelled, err := fx.svc.Cancel(ctx, fx.patient, apt.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusCancelled, cancelled.Status)

	// Second cancel: no longer pending.
	_, err = fx.svc.Cancel(ctx, fx.patient, apt.ID)
	assert.True(t, errors.IsKind(err, errors.KindInvalidState))
}

func TestCancelOwnership(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	apt, err := fx.svc.Create(ctx, fx.patient, createRequest(fx.doctorID, "09:00"))
	require.NoError(t, err)

	// Another patient cannot tell this appointment apart from a
	// missing one.
	other := model.Identity{ID: uuid.New(), Role: model.RolePatient}
	_, err = fx.svc.Cancel(ctx, other, apt.ID)
	assert.True(t, errors.IsKind(err, errors.KindNotFound))

	_, err = fx.svc.Cancel(ctx, fx.patient, uuid.New())
	assert.True(t, errors.IsKind(err, errors.KindNotFound))
}

func TestCancelCompletedAppointment(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	apt, err := fx.svc.Create(ctx, fx.patient, createRequest(fx.doctorID, "09:00"))
	require.NoError(t, err)

	_, err = fx.svc.UpdateStatus(ctx, fx.doctor, apt.ID, model.AppointmentStatusCompleted)
	require.NoError(t, err)

	_, err = fx.svc.Cancel(ctx, fx.patient, apt.ID)
	assert.True(t, errors.IsKind(err, errors.KindInvalidState))
}

func TestUpdateStatus(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	apt, err := fx.svc.Create(ctx, fx.patient, createRequest(fx.doctorID, "09:00"))
	require.NoError(t, err)

	updated, err := fx.svc.UpdateStatus(ctx, fx.doctor, apt.ID, model.AppointmentStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusCompleted, updated.Status)

	_, err = fx.svc.UpdateStatus(ctx, fx.doctor, apt.ID, "archived")
	assert.True(t, errors.IsKind(err, errors.KindValidation))
}

func TestUpdateStatusOwnership(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	apt, err := fx.svc.Create(ctx, fx.patient, createRequest(fx.doctorID, "09:00"))
	require.NoError(t, err)

	// A different doctor is refused outright.
	stranger := model.Identity{ID: uuid.New(), Role: model.RoleDoctor}
	_, err = fx.svc.UpdateStatus(ctx, stranger, apt.ID, model.AppointmentStatusCompleted)
	assert.True(t, errors.IsKind(err, errors.KindAuthorization))

	// Admins bypass ownership.
	_, err = fx.svc.UpdateStatus(ctx, fx.admin, apt.ID, model.AppointmentStatusCompleted)
	assert.NoError(t, err)
}

func TestUpdateNotes(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	apt, err := fx.svc.Create(ctx, fx.patient, createRequest(fx.doctorID, "09:00"))
	require.NoError(t, err)

	updated, err := fx.svc.UpdateNotes(ctx, fx.doctor, apt.ID, "prescribed rest")
	require.NoError(t, err)
	assert.Equal(t, "prescribed rest", updated.Notes)

	// Notes replace wholesale, including with the empty string, and
	// regardless of status.
	_, err = fx.svc.UpdateStatus(ctx, fx.doctor, apt.ID, model.AppointmentStatusCompleted)
	require.NoError(t, err)

	updated, err = fx.svc.UpdateNotes(ctx, fx.doctor, apt.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "", updated.Notes)

	stranger := model.Identity{ID: uuid.New(), Role: model.RoleDoctor}
	_, err = fx.svc.UpdateNotes(ctx, stranger, apt.ID, "oops")
	assert.True(t, errors.IsKind(err, errors.KindAuthorization))
}

func TestDashboard(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	a1, err := fx.svc.Create(ctx, fx.patient, createRequest(fx.doctorID, "09:00"))
	require.NoError(t, err)
	_, err = fx.svc.Create(ctx, fx.patient, createRequest(fx.doctorID, "09:15"))
	require.NoError(t, err)

	_, err = fx.svc.UpdateStatus(ctx, fx.doctor, a1.ID, model.AppointmentStatusCompleted)
	require.NoError(t, err)

	dash, err := fx.svc.Dashboard(ctx, fx.doctor)
	require.NoError(t, err)
	assert.Equal(t, 2, dash.TotalAppointments)
	assert.Equal(t, 1, dash.PendingAppointments)
	assert.Equal(t, 1, dash.CompletedAppointments)
	assert.Equal(t, 0, dash.CancelledAppointments)
}
