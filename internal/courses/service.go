package courses

import (
	"context"
	"fmt"
	"strings"

	"github.com/schedulo/schedulo/internal/authz"
	"github.com/schedulo/schedulo/internal/shared"
)

// RepositoryPort defines data access methods for courses.
type RepositoryPort interface {
	List(ctx context.Context, page shared.Pagination) ([]Course, int, error)
	Get(ctx context.Context, id int64) (Course, error)
	Create(ctx context.Context, course Course) (Course, error)
	Update(ctx context.Context, id int64, course Course) error
	Delete(ctx context.Context, id int64) error
}

// Service handles course business logic. Courses are a role-only resource:
// class memberships play no part in the decision.
type Service struct {
	repo RepositoryPort
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, actor authz.Principal, page, perPage int) ([]Course, shared.Pagination, error) {
	if !authz.PolicyFor(authz.ResourceCourse).CanGet(actor.Role, authz.MembershipNone) {
		return nil, shared.Pagination{}, shared.ErrPermissionDenied
	}
	p := shared.NewPagination(page, perPage, 0)
	out, total, err := s.repo.List(ctx, p)
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return out, shared.NewPagination(page, perPage, total), nil
}

func (s *Service) Get(ctx context.Context, actor authz.Principal, id int64) (Course, error) {
	if !authz.PolicyFor(authz.ResourceCourse).CanGet(actor.Role, authz.MembershipNone) {
		return Course{}, shared.ErrPermissionDenied
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, actor authz.Principal, course Course) (Course, error) {
	if !authz.PolicyFor(authz.ResourceCourse).CanCreate(actor.Role, authz.MembershipNone) {
		return Course{}, fmt.Errorf("%w: only administrators create courses", shared.ErrPermissionDenied)
	}
	if err := validate(&course); err != nil {
		return Course{}, err
	}
	return s.repo.Create(ctx, course)
}

func (s *Service) Update(ctx context.Context, actor authz.Principal, id int64, course Course) error {
	if !authz.PolicyFor(authz.ResourceCourse).CanEdit(actor.Role, authz.MembershipNone) {
		return fmt.Errorf("%w: only administrators edit courses", shared.ErrPermissionDenied)
	}
	if err := validate(&course); err != nil {
		return err
	}
	return s.repo.Update(ctx, id, course)
}

func (s *Service) Delete(ctx context.Context, actor authz.Principal, id int64) error {
	if !authz.PolicyFor(authz.ResourceCourse).CanDelete(actor.Role, authz.MembershipNone) {
		return fmt.Errorf("%w: only administrators delete courses", shared.ErrPermissionDenied)
	}
	return s.repo.Delete(ctx, id)
}

func validate(course *Course) error {
	course.Name = strings.TrimSpace(course.Name)
	course.Abbreviation = strings.TrimSpace(course.Abbreviation)
	if course.Name == "" {
		return fmt.Errorf("%w: course name is required", shared.ErrValidation)
	}
	return nil
}
