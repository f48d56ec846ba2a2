package authz

import "context"

// MembershipSource reads the membership a user holds in a class. It returns
// ok=false when no row exists for the (user, course, class number) triple.
type MembershipSource interface {
	MembershipType(ctx context.Context, userID, courseID int64, classNumber int) (MembershipType, bool, error)
}

// Resolver looks up a principal's relationship to a class instance. It hides
// the persistence traversal behind a single call.
type Resolver struct {
	source MembershipSource
}

// NewResolver constructs a Resolver over the given source.
func NewResolver(source MembershipSource) *Resolver {
	return &Resolver{source: source}
}

// Resolve returns the membership the user holds in the class, or ok=false when
// the user has no standing in it.
func (r *Resolver) Resolve(ctx context.Context, userID, courseID int64, classNumber int) (MembershipType, bool, error) {
	return r.source.MembershipType(ctx, userID, courseID, classNumber)
}
