package classes

import (
	"context"
	"fmt"
	"strings"

	"github.com/schedulo/schedulo/internal/authz"
	"github.com/schedulo/schedulo/internal/shared"
)

// RepositoryPort defines data access methods for classes and memberships.
type RepositoryPort interface {
	ListByCourse(ctx context.Context, courseID int64) ([]Class, error)
	Get(ctx context.Context, courseID int64, number int) (Class, error)
	Create(ctx context.Context, class Class) (Class, error)
	Update(ctx context.Context, courseID int64, number int, name string) error
	Delete(ctx context.Context, courseID int64, number int) error
	Exists(ctx context.Context, courseID int64, number int) (bool, error)

	ListMembers(ctx context.Context, courseID int64, number int) ([]Membership, error)
	AddMember(ctx context.Context, membership Membership) (Membership, error)
	UpdateMember(ctx context.Context, membership Membership) error
	RemoveMember(ctx context.Context, userID, courseID int64, classNumber int) error
}

// Service handles class and enrollment business logic. Classes themselves are
// role-only; enrollments are relationship-scoped through the actor's own
// membership in the target class.
type Service struct {
	repo     RepositoryPort
	resolver *authz.Resolver
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort, resolver *authz.Resolver) *Service {
	return &Service{repo: repo, resolver: resolver}
}

func (s *Service) ListByCourse(ctx context.Context, actor authz.Principal, courseID int64) ([]Class, error) {
	if !authz.PolicyFor(authz.ResourceClass).CanGet(actor.Role, authz.MembershipNone) {
		return nil, shared.ErrPermissionDenied
	}
	return s.repo.ListByCourse(ctx, courseID)
}

func (s *Service) Get(ctx context.Context, actor authz.Principal, courseID int64, number int) (Class, error) {
	if !authz.PolicyFor(authz.ResourceClass).CanGet(actor.Role, authz.MembershipNone) {
		return Class{}, shared.ErrPermissionDenied
	}
	return s.repo.Get(ctx, courseID, number)
}

func (s *Service) Create(ctx context.Context, actor authz.Principal, class Class) (Class, error) {
	if !authz.PolicyFor(authz.ResourceClass).CanCreate(actor.Role, authz.MembershipNone) {
		return Class{}, fmt.Errorf("%w: only administrators create classes", shared.ErrPermissionDenied)
	}
	class.Name = strings.TrimSpace(class.Name)
	if class.Number <= 0 {
		return Class{}, fmt.Errorf("%w: class number must be positive", shared.ErrValidation)
	}
	return s.repo.Create(ctx, class)
}

func (s *Service) Update(ctx context.Context, actor authz.Principal, courseID int64, number int, name string) error {
	if !authz.PolicyFor(authz.ResourceClass).CanEdit(actor.Role, authz.MembershipNone) {
		return fmt.Errorf("%w: only administrators edit classes", shared.ErrPermissionDenied)
	}
	return s.repo.Update(ctx, courseID, number, strings.TrimSpace(name))
}

func (s *Service) Delete(ctx context.Context, actor authz.Principal, courseID int64, number int) error {
	if !authz.PolicyFor(authz.ResourceClass).CanDelete(actor.Role, authz.MembershipNone) {
		return fmt.Errorf("%w: only administrators delete classes", shared.ErrPermissionDenied)
	}
	return s.repo.Delete(ctx, courseID, number)
}

func (s *Service) ListMembers(ctx context.Context, actor authz.Principal, courseID int64, number int) ([]Membership, error) {
	if !authz.PolicyFor(authz.ResourceClassUser).CanGet(actor.Role, authz.MembershipNone) {
		return nil, shared.ErrPermissionDenied
	}
	return s.repo.ListMembers(ctx, courseID, number)
}

// AddMember enrolls a user. The decision consults the actor's own standing in
// the target class.
func (s *Service) AddMember(ctx context.Context, actor authz.Principal, membership Membership) (Membership, error) {
	actorMembership, _, err := s.resolver.Resolve(ctx, actor.ID, membership.CourseID, membership.ClassNumber)
	if err != nil {
		return Membership{}, err
	}
	if !authz.PolicyFor(authz.ResourceClassUser).CanCreate(actor.Role, actorMembership) {
		return Membership{}, fmt.Errorf("%w: membership does not allow managing the class roster", shared.ErrPermissionDenied)
	}
	if membership.Type == authz.MembershipNone {
		return Membership{}, fmt.Errorf("%w: membership type is required", shared.ErrValidation)
	}
	exists, err := s.repo.Exists(ctx, membership.CourseID, membership.ClassNumber)
	if err != nil {
		return Membership{}, err
	}
	if !exists {
		return Membership{}, fmt.Errorf("%w: class", shared.ErrNotFound)
	}
	return s.repo.AddMember(ctx, membership)
}

func (s *Service) UpdateMember(ctx context.Context, actor authz.Principal, membership Membership) error {
	actorMembership, _, err := s.resolver.Resolve(ctx, actor.ID, membership.CourseID, membership.ClassNumber)
	if err != nil {
		return err
	}
	if !authz.PolicyFor(authz.ResourceClassUser).CanEdit(actor.Role, actorMembership) {
		return fmt.Errorf("%w: membership does not allow managing the class roster", shared.ErrPermissionDenied)
	}
	if membership.Type == authz.MembershipNone {
		return fmt.Errorf("%w: membership type is required", shared.ErrValidation)
	}
	return s.repo.UpdateMember(ctx, membership)
}

func (s *Service) RemoveMember(ctx context.Context, actor authz.Principal, userID, courseID int64, classNumber int) error {
	actorMembership, _, err := s.resolver.Resolve(ctx, actor.ID, courseID, classNumber)
	if err != nil {
		return err
	}
	if !authz.PolicyFor(authz.ResourceClassUser).CanDelete(actor.Role, actorMembership) {
		return fmt.Errorf("%w: membership does not allow managing the class roster", shared.ErrPermissionDenied)
	}
	return s.repo.RemoveMember(ctx, userID, courseID, classNumber)
}
