package identity

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Service struct {
	repo UserRepository
}

func NewService(repo UserRepository) *Service {
	return &Service{repo: repo}
}

// CreateUser registers a directory entry. Exposed for seeding and tests;
// interactive registration is handled upstream of this service.
func (s *Service) CreateUser(ctx context.Context, u *User) error {
	if u.Name == "" || u.Email == "" {
		return fmt.Errorf("name and email are required")
	}
	if u.Role != RolePatient && u.Role != RoleDoctor {
		return fmt.Errorf("role must be PATIENT or DOCTOR, got %q", u.Role)
	}
	if u.Role == RoleDoctor && u.Specialty == nil {
		return fmt.Errorf("specialty is required for doctors")
	}
	u.Active = true
	return s.repo.Create(ctx, u)
}

// Resolve returns the user for the given id, or an error wrapping ErrNotFound.
func (s *Service) Resolve(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListDoctors(ctx context.Context, limit, offset int) ([]*User, int, error) {
	return s.repo.ListByRole(ctx, RoleDoctor, limit, offset)
}

func (s *Service) ListPatients(ctx context.Context, limit, offset int) ([]*User, int, error) {
	return s.repo.ListByRole(ctx, RolePatient, limit, offset)
}
