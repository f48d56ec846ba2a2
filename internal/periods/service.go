package periods

import (
	"context"
	"fmt"
	"time"

	"github.com/schedulo/schedulo/internal/authz"
	"github.com/schedulo/schedulo/internal/shared"
)

// RepositoryPort defines data access methods for periods.
type RepositoryPort interface {
	ListByClass(ctx context.Context, courseID int64, classNumber int) ([]Period, error)
	Get(ctx context.Context, id int64) (Period, error)
	Create(ctx context.Context, p Period) (Period, error)
	Update(ctx context.Context, p Period) error
	Delete(ctx context.Context, id int64) error
}

// ClassSource checks class existence.
type ClassSource interface {
	Exists(ctx context.Context, courseID int64, number int) (bool, error)
}

// RoomSource checks room existence.
type RoomSource interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// Reschedule carries the mutable fields of a period.
type Reschedule struct {
	RoomID   int64
	StartsAt time.Time
	EndsAt   time.Time
}

// Service handles period business logic. Creation runs the dual check first:
// the actor's and the named teacher's standing in the class are authorization
// concerns and are settled before any existence check.
type Service struct {
	repo        RepositoryPort
	coordinator *authz.Coordinator
	resolver    *authz.Resolver
	classes     ClassSource
	rooms       RoomSource
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort, coordinator *authz.Coordinator, resolver *authz.Resolver, classes ClassSource, rooms RoomSource) *Service {
	return &Service{repo: repo, coordinator: coordinator, resolver: resolver, classes: classes, rooms: rooms}
}

// ListByClass returns the periods scheduled for a class.
func (s *Service) ListByClass(ctx context.Context, actor authz.Principal, courseID int64, classNumber int) ([]Period, error) {
	if !authz.PolicyFor(authz.ResourcePeriod).CanGet(actor.Role, authz.MembershipNone) {
		return nil, shared.ErrPermissionDenied
	}
	return s.repo.ListByClass(ctx, courseID, classNumber)
}

// Get fetches one period.
func (s *Service) Get(ctx context.Context, actor authz.Principal, id int64) (Period, error) {
	if !authz.PolicyFor(authz.ResourcePeriod).CanGet(actor.Role, authz.MembershipNone) {
		return Period{}, shared.ErrPermissionDenied
	}
	return s.repo.Get(ctx, id)
}

// Create schedules a period. The coordinator settles both the actor's and the
// teacher's relationship to the class before room and class existence are
// checked.
func (s *Service) Create(ctx context.Context, actor authz.Principal, p Period) (Period, error) {
	if err := validate(p); err != nil {
		return Period{}, err
	}
	if err := s.coordinator.AuthorizePeriodCreate(ctx, actor, p.TeacherID, p.CourseID, p.ClassNumber); err != nil {
		return Period{}, err
	}
	classExists, err := s.classes.Exists(ctx, p.CourseID, p.ClassNumber)
	if err != nil {
		return Period{}, err
	}
	if !classExists {
		return Period{}, fmt.Errorf("%w: class", shared.ErrNotFound)
	}
	roomExists, err := s.rooms.Exists(ctx, p.RoomID)
	if err != nil {
		return Period{}, err
	}
	if !roomExists {
		return Period{}, fmt.Errorf("%w: room", shared.ErrNotFound)
	}
	return s.repo.Create(ctx, p)
}

// Reschedule moves a period to another room or time slot. The actor needs a
// staff membership in the period's class, or the admin role.
func (s *Service) Reschedule(ctx context.Context, actor authz.Principal, id int64, change Reschedule) error {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	actorMembership, _, err := s.resolver.Resolve(ctx, actor.ID, current.CourseID, current.ClassNumber)
	if err != nil {
		return err
	}
	if !authz.PolicyFor(authz.ResourcePeriod).CanEdit(actor.Role, actorMembership) {
		return fmt.Errorf("%w: membership does not allow editing periods", shared.ErrPermissionDenied)
	}
	current.RoomID = change.RoomID
	current.StartsAt = change.StartsAt
	current.EndsAt = change.EndsAt
	if err := validate(current); err != nil {
		return err
	}
	roomExists, err := s.rooms.Exists(ctx, change.RoomID)
	if err != nil {
		return err
	}
	if !roomExists {
		return fmt.Errorf("%w: room", shared.ErrNotFound)
	}
	return s.repo.Update(ctx, current)
}

// Delete removes a period under the same membership rule as Update.
func (s *Service) Delete(ctx context.Context, actor authz.Principal, id int64) error {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	actorMembership, _, err := s.resolver.Resolve(ctx, actor.ID, current.CourseID, current.ClassNumber)
	if err != nil {
		return err
	}
	if !authz.PolicyFor(authz.ResourcePeriod).CanDelete(actor.Role, actorMembership) {
		return fmt.Errorf("%w: membership does not allow deleting periods", shared.ErrPermissionDenied)
	}
	return s.repo.Delete(ctx, id)
}

func validate(p Period) error {
	if p.TeacherID <= 0 || p.RoomID <= 0 || p.CourseID <= 0 || p.ClassNumber <= 0 {
		return fmt.Errorf("%w: teacher, room and class are required", shared.ErrValidation)
	}
	if p.StartsAt.IsZero() || p.EndsAt.IsZero() || !p.EndsAt.After(p.StartsAt) {
		return fmt.Errorf("%w: period must end after it starts", shared.ErrValidation)
	}
	return nil
}
