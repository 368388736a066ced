package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/medibook/clinic-api/internal/model"
	"github.com/medibook/clinic-api/internal/repository"
)

type doctorRepository struct {
	BaseRepository
}

func NewDoctorRepository(db *sqlx.DB) repository.DoctorRepository {
	return &doctorRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *doctorRepository) Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error) {
	query := `
		SELECT id, name, phone, specialization, experience, gender,
			   password_hash, created_at, updated_at
		FROM doctors
		WHERE id = $1
	`
	var doctor model.Doctor
	err := r.db.GetContext(ctx, &doctor, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get doctor: %w", err)
	}

	windows, err := r.GetAvailability(ctx, id)
	if err != nil {
		return nil, err
	}
	doctor.Availability = windows
	return &doctor, nil
}

func (r *doctorRepository) GetByPhone(ctx context.Context, phone string) (*model.Doctor, error) {
	query := `
		SELECT id, name, phone, specialization, experience, gender,
			   password_hash, created_at, updated_at
		FROM doctors
		WHERE phone = $1
	`
	var doctor model.Doctor
	err := r.db.GetContext(ctx, &doctor, query, phone)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get doctor by phone: %w", err)
	}
	return &doctor, nil
}

func (r *doctorRepository) ListPublic(ctx context.Context) ([]*model.PublicDoctor, error) {
	query := `
		SELECT id, name, specialization, experience, gender
		FROM doctors
		ORDER BY name ASC
	`
	doctors := []*model.PublicDoctor{}
	if err := r.db.SelectContext(ctx, &doctors, query); err != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", err)
	}
	return doctors, nil
}

func (r *doctorRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM doctors`); err != nil {
		return 0, fmt.Errorf("failed to count doctors: %w", err)
	}
	return count, nil
}

func (r *doctorRepository) GetAvailability(ctx context.Context, doctorID uuid.UUID) ([]model.AvailabilityWindow, error) {
	query := `
		SELECT day, start_time, end_time
		FROM doctor_availability
		WHERE doctor_id = $1
		ORDER BY array_position(ARRAY['Monday','Tuesday','Wednesday','Thursday','Friday','Saturday','Sunday'], day)
	`
	windows := []model.AvailabilityWindow{}
	if err := r.db.SelectContext(ctx, &windows, query, doctorID); err != nil {
		return nil, fmt.Errorf("failed to get availability: %w", err)
	}
	return windows, nil
}

// ReplaceAvailability swaps the doctor's full weekly list in one
// transaction. The doctor_availability table carries a unique
// constraint on (doctor_id, day), so duplicate weekday entries are
// rejected at the storage boundary as well.
func (r *doctorRepository) ReplaceAvailability(ctx context.Context, doctorID uuid.UUID, windows []model.AvailabilityWindow) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM doctor_availability WHERE doctor_id = $1`, doctorID); err != nil {
			return fmt.Errorf("failed to clear availability: %w", err)
		}

		query := `
			INSERT INTO doctor_availability (doctor_id, day, start_time, end_time)
			VALUES ($1, $2, $3, $4)
		`
		for _, w := range windows {
			if _, err := tx.ExecContext(ctx, query, doctorID, w.Day, w.StartTime, w.EndTime); err != nil {
				if isUniqueViolation(err) {
					return repository.ErrDuplicateSlot
				}
				return fmt.Errorf("failed to insert availability window: %w", err)
			}
		}
		return nil
	})
}
