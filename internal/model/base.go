package model

import (
	"time"

	"github.com/google/uuid"
)

// Base contains common fields for all persisted models
type Base struct {
	ID        uuid.UUID `json:"id" db:"id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// SortOrder represents sorting parameters for list endpoints
type SortOrder struct {
	Field string `json:"field" form:"sort_by"`
	Dir   string `json:"direction" form:"order"`
}
