package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/medibook/clinic-api/internal/model"
	"github.com/medibook/clinic-api/internal/repository"
)

type appointmentRepository struct {
	BaseRepository
}

func NewAppointmentRepository(db *sqlx.DB) repository.AppointmentRepository {
	return &appointmentRepository{BaseRepository: NewBaseRepository(db)}
}

// date is stored as a DATE column; selects render it back to the
// canonical "YYYY-MM-DD" string so day equality stays exact.
const appointmentColumns = `
	id, doctor_id, patient_id, doctor_name, department,
	to_char(date, 'YYYY-MM-DD') AS date, time, symptoms,
	status, notes, created_at, updated_at
`

func (r *appointmentRepository) Create(ctx context.Context, apt *model.Appointment) error {
	query := `
		INSERT INTO appointments (
			id, doctor_id, patient_id, doctor_name, department,
			date, time, symptoms, status, notes,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	apt.ID = uuid.New()
	apt.CreatedAt = time.Now()
	apt.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		apt.ID,
		apt.DoctorID,
		apt.PatientID,
		apt.DoctorName,
		apt.Department,
		apt.Date,
		apt.Time,
		apt.Symptoms,
		apt.Status,
		apt.Notes,
		apt.CreatedAt,
		apt.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicateSlot
		}
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

func (r *appointmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE id = $1`

	var apt model.Appointment
	err := r.db.GetContext(ctx, &apt, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return &apt, nil
}

func (r *appointmentRepository) Update(ctx context.Context, apt *model.Appointment) error {
	query := `
		UPDATE appointments
		SET status = $1, notes = $2, updated_at = $3
		WHERE id = $4
	`
	apt.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query, apt.Status, apt.Notes, apt.UpdatedAt, apt.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicateSlot
		}
		return fmt.Errorf("failed to update appointment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var sortColumns = map[string]string{
	"date":       "a.date",
	"time":       "a.time",
	"status":     "a.status",
	"created_at": "a.created_at",
}

func (r *appointmentRepository) List(ctx context.Context, filters *model.AppointmentFilters, sort model.SortOrder) ([]*model.Appointment, error) {
	query := `
		SELECT a.id, a.doctor_id, a.patient_id, a.doctor_name, a.department,
			   to_char(a.date, 'YYYY-MM-DD') AS date, a.time, a.symptoms,
			   a.status, a.notes, a.created_at, a.updated_at
		FROM appointments a
		WHERE 1=1
	`
	var args []interface{}
	argCount := 1

	if filters != nil {
		if filters.DoctorID != uuid.Nil {
			query += fmt.Sprintf(" AND a.doctor_id = $%d", argCount)
			args = append(args, filters.DoctorID)
			argCount++
		}
		if filters.PatientID != uuid.Nil {
			query += fmt.Sprintf(" AND a.patient_id = $%d", argCount)
			args = append(args, filters.PatientID)
			argCount++
		}
		if filters.Date != "" {
			query += fmt.Sprintf(" AND a.date = $%d::date", argCount)
			args = append(args, filters.Date)
			argCount++
		}
		if filters.Time != "" {
			query += fmt.Sprintf(" AND a.time = $%d", argCount)
			args = append(args, filters.Time)
			argCount++
		}
		if filters.Status != "" {
			query += fmt.Sprintf(" AND a.status = $%d", argCount)
			args = append(args, filters.Status)
			argCount++
		}
		if filters.DoctorName != "" {
			query += fmt.Sprintf(" AND EXISTS (SELECT 1 FROM doctors d WHERE d.id = a.doctor_id AND d.name ILIKE $%d)", argCount)
			args = append(args, "%"+filters.DoctorName+"%")
			argCount++
		}
		if filters.PatientName != "" {
			query += fmt.Sprintf(" AND EXISTS (SELECT 1 FROM patients p WHERE p.id = a.patient_id AND p.name ILIKE $%d)", argCount)
			args = append(args, "%"+filters.PatientName+"%")
			argCount++
		}
	}

	orderBy := "a.date ASC, a.time ASC"
	if col, ok := sortColumns[sort.Field]; ok {
		dir := "ASC"
		if sort.Dir == "desc" {
			dir = "DESC"
		}
		orderBy = col + " " + dir
	}
	query += " ORDER BY " + orderBy

	appointments := []*model.Appointment{}
	if err := r.db.SelectContext(ctx, &appointments, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) BookedTimes(ctx context.Context, doctorID uuid.UUID, date string) ([]string, error) {
	query := `
		SELECT time FROM appointments
		WHERE doctor_id = $1
		AND date = $2::date
		AND status <> 'cancelled'
		ORDER BY time ASC
	`
	times := []string{}
	if err := r.db.SelectContext(ctx, &times, query, doctorID, date); err != nil {
		return nil, fmt.Errorf("failed to get booked times: %w", err)
	}
	return times, nil
}

func (r *appointmentRepository) Recent(ctx context.Context, patientID uuid.UUID, limit int) ([]*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments`
	var args []interface{}
	if patientID != uuid.Nil {
		query += " WHERE patient_id = $1"
		args = append(args, patientID)
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT %d", limit)

	appointments := []*model.Appointment{}
	if err := r.db.SelectContext(ctx, &appointments, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get recent appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) History(ctx context.Context, doctorID, patientID uuid.UUID) ([]*model.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE doctor_id = $1 AND patient_id = $2
		ORDER BY date DESC, time DESC
	`
	appointments := []*model.Appointment{}
	if err := r.db.SelectContext(ctx, &appointments, query, doctorID, patientID); err != nil {
		return nil, fmt.Errorf("failed to get patient history: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) CountsByStatus(ctx context.Context, doctorID uuid.UUID) (map[model.AppointmentStatus]int, error) {
	query := `SELECT status, COUNT(*) AS count FROM appointments`
	var args []interface{}
	if doctorID != uuid.Nil {
		query += " WHERE doctor_id = $1"
		args = append(args, doctorID)
	}
	query += " GROUP BY status"

	rows := []struct {
		Status model.AppointmentStatus `db:"status"`
		Count  int                     `db:"count"`
	}{}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to count appointments by status: %w", err)
	}

	counts := make(map[model.AppointmentStatus]int, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func (r *appointmentRepository) CountForDate(ctx context.Context, doctorID uuid.UUID, date string) (int, error) {
	query := `SELECT COUNT(*) FROM appointments WHERE date = $1::date`
	args := []interface{}{date}
	if doctorID != uuid.Nil {
		query += " AND doctor_id = $2"
		args = append(args, doctorID)
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("failed to count appointments for date: %w", err)
	}
	return count, nil
}
