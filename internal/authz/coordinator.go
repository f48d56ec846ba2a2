package authz

import (
	"context"
	"fmt"

	"github.com/schedulo/schedulo/internal/shared"
)

// Coordinator evaluates authorization decisions that span more than one
// principal. Period creation is the only such decision: both the actor and the
// named teacher must hold a valid relationship to the target class.
type Coordinator struct {
	resolver *Resolver
}

// NewCoordinator constructs a Coordinator over the given resolver.
func NewCoordinator(resolver *Resolver) *Coordinator {
	return &Coordinator{resolver: resolver}
}

// AuthorizePeriodCreate runs the period-creation dual check. The stages are
// strictly ordered and each failure is terminal:
//
//  1. The actor must hold some membership in the class.
//  2. The named teacher must hold a TEACHER membership in the same class.
//     This is a hard precondition; an admin creating a period on a teacher's
//     behalf does not bypass it.
//  3. The actor's role or membership must satisfy the period policy.
func (c *Coordinator) AuthorizePeriodCreate(ctx context.Context, actor Principal, teacherID, courseID int64, classNumber int) error {
	actorMembership, ok, err := c.resolver.Resolve(ctx, actor.ID, courseID, classNumber)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: user is not linked to the class", shared.ErrPermissionDenied)
	}

	teacherMembership, ok, err := c.resolver.Resolve(ctx, teacherID, courseID, classNumber)
	if err != nil {
		return err
	}
	if !ok || teacherMembership != MembershipTeacher {
		return fmt.Errorf("%w: teacher is not linked to the class as a teacher", shared.ErrPermissionDenied)
	}

	if !PolicyFor(ResourcePeriod).CanCreate(actor.Role, actorMembership) {
		return fmt.Errorf("%w: membership does not allow creating periods", shared.ErrPermissionDenied)
	}
	return nil
}
