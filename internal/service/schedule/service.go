package schedule

import (
	"context"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/medibook/clinic-api/internal/model"
	"github.com/medibook/clinic-api/internal/repository"
	"github.com/medibook/clinic-api/pkg/errors"
	"github.com/medibook/clinic-api/pkg/metrics"
)

const (
	availabilityCacheTTL = 5 * time.Minute
	cacheCleanupInterval = 10 * time.Minute
)

// Service resolves bookable slots from a doctor's weekly availability
// and manages the availability store.
type Service struct {
	doctors      repository.DoctorRepository
	appointments repository.AppointmentRepository
	cache        *gocache.Cache
	metrics      *metrics.Metrics
}

func NewService(doctors repository.DoctorRepository, appointments repository.AppointmentRepository, m *metrics.Metrics) *Service {
	return &Service{
		doctors:      doctors,
		appointments: appointments,
		cache:        gocache.New(availabilityCacheTTL, cacheCleanupInterval),
		metrics:      m,
	}
}

// Resolve returns the ordered free "HH:MM" slots for the doctor on the
// given "YYYY-MM-DD" date: the candidate grid of that weekday's window
// minus the times already held by non-cancelled appointments. A weekday
// without a window resolves to an empty list, not an error.
func (s *Service) Resolve(ctx context.Context, doctorID uuid.UUID, date string) ([]string, error) {
	if s.metrics != nil {
		s.metrics.SlotQueries.Inc()
		timer := prometheus.NewTimer(s.metrics.SlotQueryLatency)
		defer timer.ObserveDuration()
	}

	day, err := Weekday(date)
	if err != nil {
		return nil, errors.Validation("invalid date, expected YYYY-MM-DD")
	}

	windows, err := s.availability(ctx, doctorID)
	if err != nil {
		return nil, err
	}

	var window *model.AvailabilityWindow
	for i := range windows {
		if windows[i].Day == day {
			window = &windows[i]
			break
		}
	}
	if window == nil {
		return []string{}, nil
	}

	candidates, err := GenerateSlots(window.StartTime, window.EndTime, DefaultSlotInterval)
	if err != nil {
		return nil, errors.Internal(err)
	}

	bookedTimes, err := s.appointments.BookedTimes(ctx, doctorID, date)
	if err != nil {
		return nil, errors.Internal(err)
	}

	booked := make(map[string]struct{}, len(bookedTimes))
	for _, t := range bookedTimes {
		booked[t] = struct{}{}
	}

	free := []string{}
	for _, slot := range candidates {
		if _, taken := booked[slot]; !taken {
			free = append(free, slot)
		}
	}
	return free, nil
}

// IsBookable reports whether the given time is currently a free slot
// for the doctor on the date. The booking path re-checks availability
// with this before inserting; the ledger's unique index is the final
// arbiter under concurrency.
func (s *Service) IsBookable(ctx context.Context, doctorID uuid.UUID, date, slot string) (bool, error) {
	free, err := s.Resolve(ctx, doctorID, date)
	if err != nil {
		return false, err
	}
	for _, t := range free {
		if t == slot {
			return true, nil
		}
	}
	return false, nil
}

// GetAvailability returns the doctor's weekly list.
func (s *Service) GetAvailability(ctx context.Context, doctorID uuid.UUID) ([]model.AvailabilityWindow, error) {
	return s.availability(ctx, doctorID)
}

// ReplaceAvailability swaps the doctor's full weekly list. Entries
// missing either time are dropped; the remainder must carry canonical
// weekday names, "HH:MM" times, start < end, and at most one entry per
// weekday.
func (s *Service) ReplaceAvailability(ctx context.Context, doctorID uuid.UUID, windows []model.AvailabilityWindow) ([]model.AvailabilityWindow, error) {
	kept := make([]model.AvailabilityWindow, 0, len(windows))
	seen := make(map[string]struct{}, len(windows))

	for _, w := range windows {
		if w.StartTime == "" || w.EndTime == "" {
			continue
		}
		if !model.IsWeekday(w.Day) {
			return nil, errors.Validation("invalid weekday: " + w.Day)
		}
		start, err := parseClock(w.StartTime)
		if err != nil {
			return nil, errors.Validation("invalid start time for " + w.Day + ", expected HH:MM")
		}
		end, err := parseClock(w.EndTime)
		if err != nil {
			return nil, errors.Validation("invalid end time for " + w.Day + ", expected HH:MM")
		}
		if start >= end {
			return nil, errors.Validation("start time must be before end time for " + w.Day)
		}
		if _, dup := seen[w.Day]; dup {
			return nil, errors.Validation("duplicate availability entry for " + w.Day)
		}
		seen[w.Day] = struct{}{}
		kept = append(kept, w)
	}

	if err := s.doctors.ReplaceAvailability(ctx, doctorID, kept); err != nil {
		return nil, errors.Internal(err)
	}
	s.cache.Delete(cacheKey(doctorID))
	return kept, nil
}

func (s *Service) availability(ctx context.Context, doctorID uuid.UUID) ([]model.AvailabilityWindow, error) {
	if cached, ok := s.cache.Get(cacheKey(doctorID)); ok {
		return cached.([]model.AvailabilityWindow), nil
	}

	doctor, err := s.doctors.Get(ctx, doctorID)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, errors.NotFound("doctor")
		}
		return nil, errors.Internal(err)
	}

	s.cache.Set(cacheKey(doctorID), doctor.Availability, gocache.DefaultExpiration)
	return doctor.Availability, nil
}

func cacheKey(doctorID uuid.UUID) string {
	return "availability:" + doctorID.String()
}
