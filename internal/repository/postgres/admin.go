package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/medibook/clinic-api/internal/model"
	"github.com/medibook/clinic-api/internal/repository"
)

type adminRepository struct {
	BaseRepository
}

func NewAdminRepository(db *sqlx.DB) repository.AdminRepository {
	return &adminRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *adminRepository) GetByPhone(ctx context.Context, phone string) (*model.Admin, error) {
	query := `
		SELECT id, name, email, phone, password_hash, created_at, updated_at
		FROM admins
		WHERE phone = $1
	`
	var admin model.Admin
	err := r.db.GetContext(ctx, &admin, query, phone)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get admin by phone: %w", err)
	}
	return &admin, nil
}
