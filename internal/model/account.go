package model

import "github.com/google/uuid"

// Role names carried in access tokens.
const (
	RolePatient = "patient"
	RoleDoctor  = "doctor"
	RoleAdmin   = "admin"
)

// Identity is the authenticated caller, threaded explicitly into every
// core operation. It is never read from ambient or global state.
type Identity struct {
	ID   uuid.UUID `json:"id"`
	Role string    `json:"role"`
}

// Doctor is an account-directory row the scheduling core references.
type Doctor struct {
	Base
	Name           string               `json:"name" db:"name"`
	Phone          string               `json:"phone" db:"phone"`
	Specialization string               `json:"specialization" db:"specialization"`
	Experience     int                  `json:"experience" db:"experience"`
	Gender         string               `json:"gender" db:"gender"`
	PasswordHash   string               `json:"-" db:"password_hash"`
	Availability   []AvailabilityWindow `json:"availability,omitempty" db:"-"`
}

// PublicDoctor is the directory listing exposed to booking clients.
type PublicDoctor struct {
	ID             uuid.UUID `json:"id" db:"id"`
	Name           string    `json:"name" db:"name"`
	Specialization string    `json:"specialization" db:"specialization"`
	Experience     int       `json:"experience" db:"experience"`
	Gender         string    `json:"gender" db:"gender"`
}

type Patient struct {
	Base
	Name         string `json:"name" db:"name"`
	Email        string `json:"email" db:"email"`
	Phone        string `json:"phone" db:"phone"`
	Gender       string `json:"gender" db:"gender"`
	DateOfBirth  string `json:"date_of_birth" db:"date_of_birth"`
	PasswordHash string `json:"-" db:"password_hash"`
}

type Admin struct {
	Base
	Name         string `json:"name" db:"name"`
	Email        string `json:"email" db:"email"`
	Phone        string `json:"phone" db:"phone"`
	PasswordHash string `json:"-" db:"password_hash"`
}

// LoginRequest authenticates any account type by phone.
type LoginRequest struct {
	Phone    string `json:"phone" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	Role        string `json:"role"`
}
