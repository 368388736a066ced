package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/medibook/clinic-api/internal/model"
)

// Sentinel errors the storage layer reports; services translate them
// into the API error taxonomy.
var (
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateSlot is returned when an insert collides with the
	// partial unique index on (doctor_id, date, time) over
	// non-cancelled appointments.
	ErrDuplicateSlot = errors.New("slot already booked")
)

// AppointmentRepository is the appointment ledger.
type AppointmentRepository interface {
	Create(ctx context.Context, apt *model.Appointment) error
	Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
	Update(ctx context.Context, apt *model.Appointment) error
	List(ctx context.Context, filters *model.AppointmentFilters, sort model.SortOrder) ([]*model.Appointment, error)

	// BookedTimes returns the "HH:MM" times of non-cancelled
	// appointments for the doctor on the given calendar date.
	BookedTimes(ctx context.Context, doctorID uuid.UUID, date string) ([]string, error)

	// Recent returns the latest bookings, newest first. A Nil
	// patientID spans the whole ledger.
	Recent(ctx context.Context, patientID uuid.UUID, limit int) ([]*model.Appointment, error)
	History(ctx context.Context, doctorID, patientID uuid.UUID) ([]*model.Appointment, error)

	// CountsByStatus aggregates per-status totals. A Nil doctorID
	// spans the whole ledger.
	CountsByStatus(ctx context.Context, doctorID uuid.UUID) (map[model.AppointmentStatus]int, error)
	CountForDate(ctx context.Context, doctorID uuid.UUID, date string) (int, error)
}

// DoctorRepository is the doctor side of the account directory.
type DoctorRepository interface {
	Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error)
	GetByPhone(ctx context.Context, phone string) (*model.Doctor, error)
	ListPublic(ctx context.Context) ([]*model.PublicDoctor, error)
	Count(ctx context.Context) (int, error)

	GetAvailability(ctx context.Context, doctorID uuid.UUID) ([]model.AvailabilityWindow, error)
	ReplaceAvailability(ctx context.Context, doctorID uuid.UUID, windows []model.AvailabilityWindow) error
}

// PatientRepository is the patient side of the account directory.
type PatientRepository interface {
	Get(ctx context.Context, id uuid.UUID) (*model.Patient, error)
	GetByPhone(ctx context.Context, phone string) (*model.Patient, error)
	Count(ctx context.Context) (int, error)
}

// AdminRepository is the admin side of the account directory.
type AdminRepository interface {
	GetByPhone(ctx context.Context, phone string) (*model.Admin, error)
}

// OutboxRepository stores pending domain events next to the state
// changes that produced them.
type OutboxRepository interface {
	Create(ctx context.Context, event *model.OutboxEvent) error
	GetPendingWithLock(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
	MarkProcessed(ctx context.Context, id uuid.UUID) error
	MarkFailed(ctx context.Context, id uuid.UUID, errorMessage string) error
}
