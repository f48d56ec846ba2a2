package auth

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/schedulo/schedulo/internal/authz"
	"github.com/schedulo/schedulo/internal/shared"
)

// Account is a credentialed user account.
type Account struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	Role         authz.Role
}

// Repository defines persistence operations for the auth module.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (*Account, error)
	Create(ctx context.Context, name, email, passwordHash string, role authz.Role) (*Account, error)
}

// Service wraps authentication business rules.
type Service struct {
	repo Repository
}

// NewService constructs a new Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Authenticate validates email/password credentials. Unknown accounts and
// wrong passwords are indistinguishable to the caller.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*Account, error) {
	account, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, shared.ErrAuthentication
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, shared.ErrAuthentication
	}
	return account, nil
}

// Register creates a regular account with a hashed password. Admin accounts
// are provisioned out of band.
func (s *Service) Register(ctx context.Context, name, email, password string) (*Account, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("auth: hash password: %w", err)
	}
	return s.repo.Create(ctx, name, email, string(hash), authz.RoleUser)
}
