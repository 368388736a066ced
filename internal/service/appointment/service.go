package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/medibook/clinic-api/internal/model"
	"github.com/medibook/clinic-api/internal/repository"
	"github.com/medibook/clinic-api/internal/service/event"
	"github.com/medibook/clinic-api/internal/service/schedule"
	"github.com/medibook/clinic-api/pkg/errors"
	"github.com/medibook/clinic-api/pkg/metrics"
)

const recentLimit = 3

// Service enforces the appointment lifecycle: patients book and cancel,
// doctors and admins move entries between statuses and edit notes.
// Every operation takes the authenticated caller explicitly.
type Service struct {
	repo     repository.AppointmentRepository
	doctors  repository.DoctorRepository
	schedule *schedule.Service
	events   *event.Service
	metrics  *metrics.Metrics
}

func NewService(repo repository.AppointmentRepository, doctors repository.DoctorRepository, scheduleSvc *schedule.Service, events *event.Service, m *metrics.Metrics) *Service {
	return &Service{
		repo:     repo,
		doctors:  doctors,
		schedule: scheduleSvc,
		events:   events,
		metrics:  m,
	}
}

// Create books a slot for the calling patient. The requested time is
// re-checked against the resolver inside the operation, and the
// ledger's unique index turns any remaining race into a Conflict.
func (s *Service) Create(ctx context.Context, caller model.Identity, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	if req.DoctorID == uuid.Nil || req.Date == "" || req.Time == "" || req.Symptoms == "" || req.Department == "" {
		return nil, errors.Validation("all fields are required")
	}

	doctor, err := s.doctors.Get(ctx, req.DoctorID)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, errors.NotFound("doctor")
		}
		return nil, errors.Internal(err)
	}

	bookable, err := s.schedule.IsBookable(ctx, req.DoctorID, req.Date, req.Time)
	if err != nil {
		return nil, err
	}
	if !bookable {
		s.countConflict()
		return nil, errors.Conflict("slot is not available")
	}

	apt := &model.Appointment{
		DoctorID:   req.DoctorID,
		PatientID:  caller.ID,
		DoctorName: doctor.Name,
		Department: req.Department,
		Date:       req.Date,
		Time:       req.Time,
		Symptoms:   req.Symptoms,
		Status:     model.AppointmentStatusPending,
	}

	if err := s.repo.Create(ctx, apt); err != nil {
		if err == repository.ErrDuplicateSlot {
			s.countConflict()
			return nil, errors.Conflict("slot is not available")
		}
		return nil, errors.Internal(err)
	}

	if s.metrics != nil {
		s.metrics.AppointmentsCreated.Inc()
	}
	s.events.Emit(ctx, model.EventAppointmentCreated, apt)
	return apt, nil
}

// ListForPatient returns the caller's own appointments, optionally
// narrowed by filters (AND semantics).
func (s *Service) ListForPatient(ctx context.Context, caller model.Identity, filters model.AppointmentFilters) ([]*model.Appointment, error) {
	filters.PatientID = caller.ID
	filters.PatientName = ""
	appointments, err := s.repo.List(ctx, &filters, model.SortOrder{})
	if err != nil {
		return nil, errors.Internal(err)
	}
	return appointments, nil
}

// ListForDoctor returns appointments assigned to the calling doctor.
func (s *Service) ListForDoctor(ctx context.Context, caller model.Identity, filters model.AppointmentFilters) ([]*model.Appointment, error) {
	filters.DoctorID = caller.ID
	filters.DoctorName = ""
	appointments, err := s.repo.List(ctx, &filters, model.SortOrder{})
	if err != nil {
		return nil, errors.Internal(err)
	}
	return appointments, nil
}

// ListAll is the admin-wide ledger view.
func (s *Service) ListAll(ctx context.Context, filters model.AppointmentFilters, sort model.SortOrder) ([]*model.Appointment, error) {
	appointments, err := s.repo.List(ctx, &filters, sort)
	if err != nil {
		return nil, errors.Internal(err)
	}
	return appointments, nil
}

// Recent returns the caller's latest bookings, newest first.
func (s *Service) Recent(ctx context.Context, caller model.Identity) ([]*model.Appointment, error) {
	appointments, err := s.repo.Recent(ctx, caller.ID, recentLimit)
	if err != nil {
		return nil, errors.Internal(err)
	}
	return appointments, nil
}

// Cancel sets a pending appointment owned by the calling patient to
// cancelled. Ownership failures are indistinguishable from a missing
// id, and only pending entries can be cancelled.
func (s *Service) Cancel(ctx context.Context, caller model.Identity, id uuid.UUID) (*model.Appointment, error) {
	apt, err := s.repo.Get(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, errors.NotFound("appointment")
		}
		return nil, errors.Internal(err)
	}
	if apt.PatientID != caller.ID {
		return nil, errors.NotFound("appointment")
	}

	if apt.Status != model.AppointmentStatusPending {
		return nil, errors.InvalidState("only pending appointments can be cancelled")
	}

	apt.Status = model.AppointmentStatusCancelled
	if err := s.repo.Update(ctx, apt); err != nil {
		return nil, errors.Internal(err)
	}

	if s.metrics != nil {
		s.metrics.AppointmentsCancelled.Inc()
	}
	s.events.Emit(ctx, model.EventAppointmentCancelled, apt)
	return apt, nil
}

// UpdateStatus moves an appointment to the given status. Doctors may
// only touch their own appointments; admins may touch any. The status
// set is enum-checked but transitions are otherwise unrestricted,
// matching the observed lifecycle behavior.
func (s *Service) UpdateStatus(ctx context.Context, caller model.Identity, id uuid.UUID, status model.AppointmentStatus) (*model.Appointment, error) {
	if !model.ValidStatus(status) {
		return nil, errors.Validation("invalid status value")
	}

	apt, err := s.ownedAppointment(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	apt.Status = status
	if err := s.repo.Update(ctx, apt); err != nil {
		if err == repository.ErrDuplicateSlot {
			return nil, errors.Conflict("slot is not available")
		}
		return nil, errors.Internal(err)
	}

	if s.metrics != nil {
		s.metrics.StatusUpdates.WithLabelValues(string(status)).Inc()
	}
	s.events.Emit(ctx, model.EventAppointmentStatusChanged, apt)
	return apt, nil
}

// UpdateNotes replaces the doctor-authored notes unconditionally,
// whatever the current status.
func (s *Service) UpdateNotes(ctx context.Context, caller model.Identity, id uuid.UUID, notes string) (*model.Appointment, error) {
	apt, err := s.ownedAppointment(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	apt.Notes = notes
	if err := s.repo.Update(ctx, apt); err != nil {
		return nil, errors.Internal(err)
	}
	return apt, nil
}

// History returns the calling doctor's full ledger for one patient,
// most recent first.
func (s *Service) History(ctx context.Context, caller model.Identity, patientID uuid.UUID) ([]*model.Appointment, error) {
	appointments, err := s.repo.History(ctx, caller.ID, patientID)
	if err != nil {
		return nil, errors.Internal(err)
	}
	return appointments, nil
}

// Dashboard summarizes the calling doctor's appointments.
func (s *Service) Dashboard(ctx context.Context, caller model.Identity) (*model.DoctorDashboard, error) {
	counts, err := s.repo.CountsByStatus(ctx, caller.ID)
	if err != nil {
		return nil, errors.Internal(err)
	}

	today := time.Now().Format("2006-01-02")
	todayCount, err := s.repo.CountForDate(ctx, caller.ID, today)
	if err != nil {
		return nil, errors.Internal(err)
	}

	total := 0
	for _, n := range counts {
		total += n
	}

	return &model.DoctorDashboard{
		TotalAppointments:     total,
		PendingAppointments:   counts[model.AppointmentStatusPending],
		CompletedAppointments: counts[model.AppointmentStatusCompleted],
		CancelledAppointments: counts[model.AppointmentStatusCancelled],
		TodayAppointments:     todayCount,
	}, nil
}

// ownedAppointment loads an appointment and enforces doctor ownership.
// Admin callers bypass the ownership check.
func (s *Service) ownedAppointment(ctx context.Context, caller model.Identity, id uuid.UUID) (*model.Appointment, error) {
	apt, err := s.repo.Get(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, errors.NotFound("appointment")
		}
		return nil, errors.Internal(err)
	}

	if caller.Role != model.RoleAdmin && apt.DoctorID != caller.ID {
		return nil, errors.Authorization("access denied")
	}
	return apt, nil
}

func (s *Service) countConflict() {
	if s.metrics != nil {
		s.metrics.BookingConflicts.Inc()
	}
}
