package authz

// Policy decides whether an operation on one resource type is permitted for a
// role and, where the resource is relationship-scoped, a class membership.
// Callers pass MembershipNone when the actor holds no membership.
type Policy interface {
	CanCreate(role Role, membership MembershipType) bool
	CanEdit(role Role, membership MembershipType) bool
	CanDelete(role Role, membership MembershipType) bool
	CanGet(role Role, membership MembershipType) bool
}

var policies = map[Resource]Policy{
	ResourceRoom:             rolePolicy{},
	ResourceCourse:           rolePolicy{},
	ResourceClass:            rolePolicy{},
	ResourceUser:             rolePolicy{},
	ResourceClassUser:        membershipPolicy{allowSecretary: true},
	ResourceRoomVerification: membershipPolicy{allowSecretary: true},
	ResourcePeriod:           membershipPolicy{allowSecretary: false},
}

// PolicyFor returns the policy registered for the resource type.
func PolicyFor(resource Resource) Policy {
	policy, ok := policies[resource]
	if !ok {
		panic("authz: no policy registered for resource " + string(resource))
	}
	return policy
}

// rolePolicy guards role-only resources: admins mutate, any authenticated
// principal reads. Membership is ignored entirely.
type rolePolicy struct{}

func (rolePolicy) CanCreate(role Role, _ MembershipType) bool { return isAdmin(role) }
func (rolePolicy) CanEdit(role Role, _ MembershipType) bool   { return isAdmin(role) }
func (rolePolicy) CanDelete(role Role, _ MembershipType) bool { return isAdmin(role) }
func (rolePolicy) CanGet(Role, MembershipType) bool           { return true }

// membershipPolicy guards relationship-scoped resources: admins always pass,
// other principals need a staff-grade membership in the target class.
// Secretaries count as staff for class rosters and room verifications but not
// for periods.
type membershipPolicy struct {
	allowSecretary bool
}

func (p membershipPolicy) CanCreate(role Role, membership MembershipType) bool {
	return isAdmin(role) || p.isStaff(membership)
}

func (p membershipPolicy) CanEdit(role Role, membership MembershipType) bool {
	return isAdmin(role) || p.isStaff(membership)
}

func (p membershipPolicy) CanDelete(role Role, membership MembershipType) bool {
	return isAdmin(role) || p.isStaff(membership)
}

func (membershipPolicy) CanGet(Role, MembershipType) bool { return true }

func (p membershipPolicy) isStaff(membership MembershipType) bool {
	switch membership {
	case MembershipTeacher, MembershipRepresentative, MembershipAdministrator:
		return true
	case MembershipSecretary:
		return p.allowSecretary
	case MembershipStudent, MembershipNone:
		return false
	}
	return false
}

func isAdmin(role Role) bool {
	switch role {
	case RoleAdmin:
		return true
	case RoleUser:
		return false
	}
	return false
}
