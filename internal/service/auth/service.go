package auth

import (
	"context"

	"github.com/google/uuid"

	"github.com/medibook/clinic-api/internal/model"
	"github.com/medibook/clinic-api/internal/repository"
	"github.com/medibook/clinic-api/pkg/auth"
	"github.com/medibook/clinic-api/pkg/errors"
	"github.com/medibook/clinic-api/pkg/security"
)

// Service is the account-directory login surface and the token
// validation side of the authorization gate.
type Service struct {
	doctors  repository.DoctorRepository
	patients repository.PatientRepository
	admins   repository.AdminRepository
	jwtSvc   auth.JWTService
	hasher   security.Hasher
}

func NewService(doctors repository.DoctorRepository, patients repository.PatientRepository, admins repository.AdminRepository, jwtSvc auth.JWTService, hasher security.Hasher) *Service {
	return &Service{
		doctors:  doctors,
		patients: patients,
		admins:   admins,
		jwtSvc:   jwtSvc,
		hasher:   hasher,
	}
}

// LoginPatient authenticates a patient by phone and issues a token.
func (s *Service) LoginPatient(ctx context.Context, req *model.LoginRequest) (*model.TokenResponse, error) {
	patient, err := s.patients.GetByPhone(ctx, req.Phone)
	if err != nil {
		return nil, loginError(err)
	}
	return s.issue(patient.ID, patient.PasswordHash, req.Password, model.RolePatient)
}

// LoginDoctor authenticates a doctor by phone and issues a token.
func (s *Service) LoginDoctor(ctx context.Context, req *model.LoginRequest) (*model.TokenResponse, error) {
	doctor, err := s.doctors.GetByPhone(ctx, req.Phone)
	if err != nil {
		return nil, loginError(err)
	}
	return s.issue(doctor.ID, doctor.PasswordHash, req.Password, model.RoleDoctor)
}

// LoginAdmin authenticates an admin by phone and issues a token.
func (s *Service) LoginAdmin(ctx context.Context, req *model.LoginRequest) (*model.TokenResponse, error) {
	admin, err := s.admins.GetByPhone(ctx, req.Phone)
	if err != nil {
		return nil, loginError(err)
	}
	return s.issue(admin.ID, admin.PasswordHash, req.Password, model.RoleAdmin)
}

// ValidateToken turns a bearer token into an Identity.
func (s *Service) ValidateToken(token string) (model.Identity, error) {
	claims, err := s.jwtSvc.ValidateToken(token)
	if err != nil {
		return model.Identity{}, errors.Authentication("invalid token")
	}
	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return model.Identity{}, errors.Authentication("invalid token")
	}
	return model.Identity{ID: id, Role: claims.Role}, nil
}

func (s *Service) issue(id uuid.UUID, hash, password, role string) (*model.TokenResponse, error) {
	if err := s.hasher.Compare(hash, password); err != nil {
		return nil, errors.Authentication("invalid credentials")
	}

	token, err := s.jwtSvc.GenerateToken(id, role)
	if err != nil {
		return nil, errors.Internal(err)
	}
	return &model.TokenResponse{AccessToken: token, Role: role}, nil
}

// loginError hides whether the account exists: lookups and bad
// passwords fail identically.
func loginError(err error) error {
	if err == repository.ErrNotFound {
		return errors.Authentication("invalid credentials")
	}
	return errors.Internal(err)
}
