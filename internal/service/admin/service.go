package admin

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/medibook/clinic-api/internal/model"
	"github.com/medibook/clinic-api/internal/repository"
	"github.com/medibook/clinic-api/pkg/errors"
)

const recentStatsLimit = 5

// Service produces the aggregate views for the admin dashboard.
type Service struct {
	appointments repository.AppointmentRepository
	doctors      repository.DoctorRepository
	patients     repository.PatientRepository
}

func NewService(appointments repository.AppointmentRepository, doctors repository.DoctorRepository, patients repository.PatientRepository) *Service {
	return &Service{
		appointments: appointments,
		doctors:      doctors,
		patients:     patients,
	}
}

// Stats aggregates platform totals, per-status counts, today's volume
// and the most recent bookings.
func (s *Service) Stats(ctx context.Context) (*model.AdminStats, error) {
	totalPatients, err := s.patients.Count(ctx)
	if err != nil {
		return nil, errors.Internal(err)
	}
	totalDoctors, err := s.doctors.Count(ctx)
	if err != nil {
		return nil, errors.Internal(err)
	}

	counts, err := s.appointments.CountsByStatus(ctx, uuid.Nil)
	if err != nil {
		return nil, errors.Internal(err)
	}
	total := 0
	for _, n := range counts {
		total += n
	}

	today := time.Now().Format("2006-01-02")
	todayCount, err := s.appointments.CountForDate(ctx, uuid.Nil, today)
	if err != nil {
		return nil, errors.Internal(err)
	}

	recent, err := s.appointments.Recent(ctx, uuid.Nil, recentStatsLimit)
	if err != nil {
		return nil, errors.Internal(err)
	}

	return &model.AdminStats{
		TotalPatients:      totalPatients,
		TotalDoctors:       totalDoctors,
		TotalAppointments:  total,
		TodayAppointments:  todayCount,
		StatusCounts:       counts,
		RecentAppointments: recent,
	}, nil
}
