package authz

import (
	"context"
	"fmt"
)

// Role is the global authorization tier of a principal.
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

// ParseRole converts a stored role value into a Role.
func ParseRole(raw string) (Role, error) {
	switch Role(raw) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleUser:
		return RoleUser, nil
	}
	return "", fmt.Errorf("authz: unknown role %q", raw)
}

// MembershipType is a principal's standing within a specific class.
// MembershipNone marks the absence of any membership.
type MembershipType string

const (
	MembershipNone           MembershipType = ""
	MembershipStudent        MembershipType = "STUDENT"
	MembershipTeacher        MembershipType = "TEACHER"
	MembershipRepresentative MembershipType = "REPRESENTATIVE"
	MembershipAdministrator  MembershipType = "ADMINISTRATOR"
	MembershipSecretary      MembershipType = "SECRETARY"
)

// ParseMembershipType converts a stored membership value into a MembershipType.
func ParseMembershipType(raw string) (MembershipType, error) {
	switch MembershipType(raw) {
	case MembershipStudent, MembershipTeacher, MembershipRepresentative,
		MembershipAdministrator, MembershipSecretary:
		return MembershipType(raw), nil
	}
	return MembershipNone, fmt.Errorf("authz: unknown membership type %q", raw)
}

// Resource selects which permission policy applies to an operation.
type Resource string

const (
	ResourceRoom             Resource = "room"
	ResourceCourse           Resource = "course"
	ResourceClass            Resource = "class"
	ResourceClassUser        Resource = "class_user"
	ResourcePeriod           Resource = "period"
	ResourceRoomVerification Resource = "room_verification"
	ResourceUser             Resource = "user"
)

// Principal is the authenticated actor of a request. It is immutable once
// attached to the request context.
type Principal struct {
	ID   int64
	Role Role
}

type principalContextKey struct{}

// ContextWithPrincipal stores the principal in the request context.
func ContextWithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalContextKey{}, p)
}

// PrincipalFromContext extracts the principal from the request context.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalContextKey{}).(Principal)
	return p, ok
}
