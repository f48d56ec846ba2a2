package users

import (
	"context"
	"fmt"
	"strings"

	"github.com/schedulo/schedulo/internal/authz"
	"github.com/schedulo/schedulo/internal/shared"
)

// RepositoryPort defines data access methods for users.
type RepositoryPort interface {
	List(ctx context.Context, page shared.Pagination) ([]User, int, error)
	Get(ctx context.Context, id int64) (User, error)
	Update(ctx context.Context, id int64, name, email string) (User, error)
	Delete(ctx context.Context, id int64) error
}

// Service handles user management business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// List returns one page of users.
func (s *Service) List(ctx context.Context, actor authz.Principal, page, perPage int) ([]User, shared.Pagination, error) {
	if !authz.PolicyFor(authz.ResourceUser).CanGet(actor.Role, authz.MembershipNone) {
		return nil, shared.Pagination{}, shared.ErrPermissionDenied
	}
	p := shared.NewPagination(page, perPage, 0)
	out, total, err := s.repo.List(ctx, p)
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return out, shared.NewPagination(page, perPage, total), nil
}

// Get fetches a single user.
func (s *Service) Get(ctx context.Context, actor authz.Principal, id int64) (User, error) {
	if !authz.PolicyFor(authz.ResourceUser).CanGet(actor.Role, authz.MembershipNone) {
		return User{}, shared.ErrPermissionDenied
	}
	return s.repo.Get(ctx, id)
}

// Update rewrites a user's profile. The user policy denies edits to regular
// principals, but an actor may always edit their own account; that identity
// fallback lives here, not in the policy.
func (s *Service) Update(ctx context.Context, actor authz.Principal, id int64, name, email string) (User, error) {
	if !authz.PolicyFor(authz.ResourceUser).CanEdit(actor.Role, authz.MembershipNone) && actor.ID != id {
		return User{}, fmt.Errorf("%w: cannot edit another user", shared.ErrPermissionDenied)
	}
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" {
		return User{}, fmt.Errorf("%w: name and email are required", shared.ErrValidation)
	}
	return s.repo.Update(ctx, id, name, email)
}

// Delete removes a user account.
func (s *Service) Delete(ctx context.Context, actor authz.Principal, id int64) error {
	if !authz.PolicyFor(authz.ResourceUser).CanDelete(actor.Role, authz.MembershipNone) {
		return fmt.Errorf("%w: only administrators delete users", shared.ErrPermissionDenied)
	}
	return s.repo.Delete(ctx, id)
}
