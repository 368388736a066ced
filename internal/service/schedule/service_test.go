package schedule

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medibook/clinic-api/internal/model"
	"github.com/medibook/clinic-api/internal/repository"
	"github.com/medibook/clinic-api/pkg/errors"
)

type fakeDoctorRepo struct {
	doctors  map[uuid.UUID]*model.Doctor
	replaced map[uuid.UUID][]model.AvailabilityWindow
}

func newFakeDoctorRepo() *fakeDoctorRepo {
	return &fakeDoctorRepo{
		doctors:  make(map[uuid.UUID]*model.Doctor),
		replaced: make(map[uuid.UUID][]model.AvailabilityWindow),
	}
}

func (f *fakeDoctorRepo) Get(_ context.Context, id uuid.UUID) (*model.Doctor, error) {
	d, ok := f.doctors[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return d, nil
}

func (f *fakeDoctorRepo) GetByPhone(_ context.Context, phone string) (*model.Doctor, error) {
	for _, d := range f.doctors {
		if d.Phone == phone {
			return d, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeDoctorRepo) ListPublic(_ context.Context) ([]*model.PublicDoctor, error) {
	return nil, nil
}

func (f *fakeDoctorRepo) Count(_ context.Context) (int, error) {
	return len(f.doctors), nil
}

func (f *fakeDoctorRepo) GetAvailability(_ context.Context, doctorID uuid.UUID) ([]model.AvailabilityWindow, error) {
	d, ok := f.doctors[doctorID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return d.Availability, nil
}

func (f *fakeDoctorRepo) ReplaceAvailability(_ context.Context, doctorID uuid.UUID, windows []model.AvailabilityWindow) error {
	f.replaced[doctorID] = windows
	if d, ok := f.doctors[doctorID]; ok {
		d.Availability = windows
	}
	return nil
}

type fakeAppointmentRepo struct {
	booked map[string][]string
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{booked: make(map[string][]string)}
}

func (f *fakeAppointmentRepo) bookedKey(doctorID uuid.UUID, date string) string {
	return doctorID.String() + "|" + date
}

func (f *fakeAppointmentRepo) book(doctorID uuid.UUID, date, slot string) {
	key := f.bookedKey(doctorID, date)
	f.booked[key] = append(f.booked[key], slot)
}

func (f *fakeAppointmentRepo) BookedTimes(_ context.Context, doctorID uuid.UUID, date string) ([]string, error) {
	return f.booked[f.bookedKey(doctorID, date)], nil
}

func (f *fakeAppointmentRepo) Create(_ context.Context, _ *model.Appointment) error { return nil }
func (f *fakeAppointmentRepo) Get(_ context.Context, _ uuid.UUID) (*model.Appointment, error) {
	return nil, repository.ErrNotFound
}
func (f *fakeAppointmentRepo) Update(_ context.Context, _ *model.Appointment) error { return nil }
func (f *fakeAppointmentRepo) List(_ context.Context, _ *model.AppointmentFilters, _ model.SortOrder) ([]*model.Appointment, error) {
	return nil, nil
}
func (f *fakeAppointmentRepo) Recent(_ context.Context, _ uuid.UUID, _ int) ([]*model.Appointment, error) {
	return nil, nil
}
func (f *fakeAppointmentRepo) History(_ context.Context, _, _ uuid.UUID) ([]*model.Appointment, error) {
	return nil, nil
}
func (f *fakeAppointmentRepo) CountsByStatus(_ context.Context, _ uuid.UUID) (map[model.AppointmentStatus]int, error) {
	return nil, nil
}
func (f *fakeAppointmentRepo) CountForDate(_ context.Context, _ uuid.UUID, _ string) (int, error) {
	return 0, nil
}

func newTestDoctor(doctors *fakeDoctorRepo, windows ...model.AvailabilityWindow) uuid.UUID {
	id := uuid.New()
	doctors.doctors[id] = &model.Doctor{
		Base:         model.Base{ID: id},
		Name:         "Dr. Test",
		Availability: windows,
	}
	return id
}

func TestResolveSubtractsBookedTimes(t *testing.T) {
	doctors := newFakeDoctorRepo()
	appointments := newFakeAppointmentRepo()
	svc := NewService(doctors, appointments, nil)

	doctorID := newTestDoctor(doctors, model.AvailabilityWindow{
		Day:       "Monday",
		StartTime: "09:00",
		EndTime:   "10:00",
	})

	// 2025-06-02 is a Monday.
	appointments.book(doctorID, "2025-06-02", "09:15")

	slots, err := svc.Resolve(context.Background(), doctorID, "2025-06-02")
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "09:30", "09:45"}, slots)
}

func TestResolveNoWindowForWeekday(t *testing.T) {
	doctors := newFakeDoctorRepo()
	svc := NewService(doctors, newFakeAppointmentRepo(), nil)

	doctorID := newTestDoctor(doctors, model.AvailabilityWindow{
		Day:       "Monday",
		StartTime: "09:00",
		EndTime:   "10:00",
	})

	// 2025-06-03 is a Tuesday: no window, no error.
	slots, err := svc.Resolve(context.Background(), doctorID, "2025-06-03")
	require.NoError(t, err)
	assert.Empty(t, slots)
	assert.NotNil(t, slots)
}

func TestResolveInvalidDate(t *testing.T) {
	doctors := newFakeDoctorRepo()
	svc := NewService(doctors, newFakeAppointmentRepo(), nil)

	_, err := svc.Resolve(context.Background(), uuid.New(), "not-a-date")
	assert.True(t, errors.IsKind(err, errors.KindValidation))
}

func TestResolveUnknownDoctor(t *testing.T) {
	svc := NewService(newFakeDoctorRepo(), newFakeAppointmentRepo(), nil)

	_, err := svc.Resolve(context.Background(), uuid.New(), "2025-06-02")
	assert.True(t, errors.IsKind(err, errors.KindNotFound))
}

func TestIsBookable(t *testing.T) {
	doctors := newFakeDoctorRepo()
	appointments := newFakeAppointmentRepo()
	svc := NewService(doctors, appointments, nil)

	doctorID := newTestDoctor(doctors, model.AvailabilityWindow{
		Day:       "Monday",
		StartTime: "09:00",
		EndTime:   "09:30",
	})
	appointments.book(doctorID, "2025-06-02", "09:00")

	ok, err := svc.IsBookable(context.Background(), doctorID, "2025-06-02", "09:15")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.IsBookable(context.Background(), doctorID, "2025-06-02", "09:00")
	require.NoError(t, err)
	assert.False(t, ok, "booked slot is not bookable")

	ok, err = svc.IsBookable(context.Background(), doctorID, "2025-06-02", "09:30")
	require.NoError(t, err)
	assert.False(t, ok, "window end is exclusive")
}

func TestReplaceAvailabilityValidation(t *testing.T) {
	doctors := newFakeDoctorRepo()
	svc := NewService(doctors, newFakeAppointmentRepo(), nil)
	doctorID := newTestDoctor(doctors)

	tests := []struct {
		name    string
		windows []model.AvailabilityWindow
	}{
		{
			name: "bad weekday",
			windows: []model.AvailabilityWindow{
				{Day: "Funday", StartTime: "09:00", EndTime: "10:00"},
			},
		},
		{
			name: "bad start time",
			windows: []model.AvailabilityWindow{
				{Day: "Monday", StartTime: "9am", EndTime: "10:00"},
			},
		},
		{
			name: "start not before end",
			windows: []model.AvailabilityWindow{
				{Day: "Monday", StartTime: "10:00", EndTime: "10:00"},
			},
		},
		{
			name: "duplicate weekday",
			windows: []model.AvailabilityWindow{
				{Day: "Monday", StartTime: "09:00", EndTime: "10:00"},
				{Day: "Monday", StartTime: "14:00", EndTime: "16:00"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ReplaceAvailability(context.Background(), doctorID, tt.windows)
			assert.True(t, errors.IsKind(err, errors.KindValidation))
		})
	}
}

func TestReplaceAvailabilityDropsIncompleteEntries(t *testing.T) {
	doctors := newFakeDoctorRepo()
	svc := NewService(doctors, newFakeAppointmentRepo(), nil)
	doctorID := newTestDoctor(doctors)

	kept, err := svc.ReplaceAvailability(context.Background(), doctorID, []model.AvailabilityWindow{
		{Day: "Monday", StartTime: "09:00", EndTime: "12:00"},
		{Day: "Tuesday", StartTime: "", EndTime: "12:00"},
		{Day: "Wednesday", StartTime: "09:00", EndTime: ""},
	})
	require.NoError(t, err)
	require.Len(t, kept, 1)
	assert.Equal(t, "Monday", kept[0].Day)
	assert.Equal(t, kept, doctors.replaced[doctorID])
}

func TestReplaceAvailabilityInvalidatesCache(t *testing.T) {
	doctors := newFakeDoctorRepo()
	appointments := newFakeAppointmentRepo()
	svc := NewService(doctors, appointments, nil)

	doctorID := newTestDoctor(doctors, model.AvailabilityWindow{
		Day:       "Monday",
		StartTime: "09:00",
		EndTime:   "09:30",
	})

	slots, err := svc.Resolve(context.Background(), doctorID, "2025-06-02")
	require.NoError(t, err)
	require.Equal(t, []string{"09:00", "09:15"}, slots)

	_, err = svc.ReplaceAvailability(context.Background(), doctorID, []model.AvailabilityWindow{
		{Day: "Monday", StartTime: "10:00", EndTime: "10:30"},
	})
	require.NoError(t, err)

	slots, err = svc.Resolve(context.Background(), doctorID, "2025-06-02")
	require.NoError(t, err)
	assert.Equal(t, []string{"10:00", "10:15"}, slots, "stale cached availability must not survive a replace")
}
