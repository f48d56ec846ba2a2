package rooms

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/schedulo/schedulo/internal/authz"
	"github.com/schedulo/schedulo/internal/shared"
)

// RepositoryPort defines data access methods for rooms and verifications.
type RepositoryPort interface {
	List(ctx context.Context, page shared.Pagination) ([]Room, int, error)
	Get(ctx context.Context, id int64) (Room, error)
	Create(ctx context.Context, room Room) (Room, error)
	Update(ctx context.Context, id int64, room Room) error
	Delete(ctx context.Context, id int64) error
	Exists(ctx context.Context, id int64) (bool, error)

	ListVerifications(ctx context.Context, roomID int64) ([]Verification, error)
	CreateVerification(ctx context.Context, v Verification) (Verification, error)
	GetVerification(ctx context.Context, id int64) (Verification, error)
	UpdateVerification(ctx context.Context, id int64, condition, note string) error
}

// Service handles room business logic. Rooms are role-only; verifications are
// relationship-scoped through the actor's membership in the class the
// inspection is filed for.
type Service struct {
	repo     RepositoryPort
	resolver *authz.Resolver
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort, resolver *authz.Resolver) *Service {
	return &Service{repo: repo, resolver: resolver}
}

func (s *Service) List(ctx context.Context, actor authz.Principal, page, perPage int) ([]Room, shared.Pagination, error) {
	if !authz.PolicyFor(authz.ResourceRoom).CanGet(actor.Role, authz.MembershipNone) {
		return nil, shared.Pagination{}, shared.ErrPermissionDenied
	}
	p := shared.NewPagination(page, perPage, 0)
	out, total, err := s.repo.List(ctx, p)
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return out, shared.NewPagination(page, perPage, total), nil
}

func (s *Service) Get(ctx context.Context, actor authz.Principal, id int64) (Room, error) {
	if !authz.PolicyFor(authz.ResourceRoom).CanGet(actor.Role, authz.MembershipNone) {
		return Room{}, shared.ErrPermissionDenied
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, actor authz.Principal, room Room) (Room, error) {
	if !authz.PolicyFor(authz.ResourceRoom).CanCreate(actor.Role, authz.MembershipNone) {
		return Room{}, fmt.Errorf("%w: only administrators create rooms", shared.ErrPermissionDenied)
	}
	if err := validateRoom(&room); err != nil {
		return Room{}, err
	}
	return s.repo.Create(ctx, room)
}

func (s *Service) Update(ctx context.Context, actor authz.Principal, id int64, room Room) error {
	if !authz.PolicyFor(authz.ResourceRoom).CanEdit(actor.Role, authz.MembershipNone) {
		return fmt.Errorf("%w: only administrators edit rooms", shared.ErrPermissionDenied)
	}
	if err := validateRoom(&room); err != nil {
		return err
	}
	return s.repo.Update(ctx, id, room)
}

func (s *Service) Delete(ctx context.Context, actor authz.Principal, id int64) error {
	if !authz.PolicyFor(authz.ResourceRoom).CanDelete(actor.Role, authz.MembershipNone) {
		return fmt.Errorf("%w: only administrators delete rooms", shared.ErrPermissionDenied)
	}
	return s.repo.Delete(ctx, id)
}

// ListVerifications returns the inspection records of a room.
func (s *Service) ListVerifications(ctx context.Context, actor authz.Principal, roomID int64) ([]Verification, error) {
	if !authz.PolicyFor(authz.ResourceRoomVerification).CanGet(actor.Role, authz.MembershipNone) {
		return nil, shared.ErrPermissionDenied
	}
	return s.repo.ListVerifications(ctx, roomID)
}

// CreateVerification files an inspection record for a room on behalf of a
// class. The actor needs a staff membership in that class.
func (s *Service) CreateVerification(ctx context.Context, actor authz.Principal, v Verification) (Verification, error) {
	actorMembership, _, err := s.resolver.Resolve(ctx, actor.ID, v.CourseID, v.ClassNumber)
	if err != nil {
		return Verification{}, err
	}
	if !authz.PolicyFor(authz.ResourceRoomVerification).CanCreate(actor.Role, actorMembership) {
		return Verification{}, fmt.Errorf("%w: membership does not allow verifying rooms", shared.ErrPermissionDenied)
	}
	if strings.TrimSpace(v.Condition) == "" {
		return Verification{}, fmt.Errorf("%w: condition is required", shared.ErrValidation)
	}
	exists, err := s.repo.Exists(ctx, v.RoomID)
	if err != nil {
		return Verification{}, err
	}
	if !exists {
		return Verification{}, fmt.Errorf("%w: room", shared.ErrNotFound)
	}
	v.Code = uuid.New()
	v.VerifiedBy = actor.ID
	return s.repo.CreateVerification(ctx, v)
}

// UpdateVerification rewrites an inspection record.
func (s *Service) UpdateVerification(ctx context.Context, actor authz.Principal, id int64, condition, note string) error {
	v, err := s.repo.GetVerification(ctx, id)
	if err != nil {
		return err
	}
	actorMembership, _, err := s.resolver.Resolve(ctx, actor.ID, v.CourseID, v.ClassNumber)
	if err != nil {
		return err
	}
	if !authz.PolicyFor(authz.ResourceRoomVerification).CanEdit(actor.Role, actorMembership) {
		return fmt.Errorf("%w: membership does not allow verifying rooms", shared.ErrPermissionDenied)
	}
	if strings.TrimSpace(condition) == "" {
		return fmt.Errorf("%w: condition is required", shared.ErrValidation)
	}
	return s.repo.UpdateVerification(ctx, id, condition, note)
}

func validateRoom(room *Room) error {
	room.Name = strings.TrimSpace(room.Name)
	if room.Name == "" {
		return fmt.Errorf("%w: room name is required", shared.ErrValidation)
	}
	if room.Capacity < 0 {
		return fmt.Errorf("%w: capacity cannot be negative", shared.ErrValidation)
	}
	return nil
}
