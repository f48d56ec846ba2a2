package authz_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/schedulo/schedulo/internal/authz"
)

var allResources = []authz.Resource{
	authz.ResourceRoom,
	authz.ResourceCourse,
	authz.ResourceClass,
	authz.ResourceClassUser,
	authz.ResourcePeriod,
	authz.ResourceRoomVerification,
	authz.ResourceUser,
}

func TestAdminPassesEveryPolicy(t *testing.T) {
	for _, resource := range allResources {
		policy := authz.PolicyFor(resource)
		require.True(t, policy.CanCreate(authz.RoleAdmin, authz.MembershipNone), "create %s", resource)
		require.True(t, policy.CanEdit(authz.RoleAdmin, authz.MembershipNone), "edit %s", resource)
		require.True(t, policy.CanDelete(authz.RoleAdmin, authz.MembershipNone), "delete %s", resource)
		require.True(t, policy.CanGet(authz.RoleAdmin, authz.MembershipNone), "get %s", resource)
	}
}

func TestEveryPolicyAllowsReads(t *testing.T) {
	for _, resource := range allResources {
		policy := authz.PolicyFor(resource)
		require.True(t, policy.CanGet(authz.RoleUser, authz.MembershipNone), "get %s", resource)
	}
}

func TestRoleOnlyResourcesRejectNonAdminWrites(t *testing.T) {
	for _, resource := range []authz.Resource{authz.ResourceRoom, authz.ResourceCourse, authz.ResourceClass, authz.ResourceUser} {
		policy := authz.PolicyFor(resource)
		// A staff membership buys nothing on role-only resources.
		require.False(t, policy.CanCreate(authz.RoleUser, authz.MembershipTeacher), "create %s", resource)
		require.False(t, policy.CanEdit(authz.RoleUser, authz.MembershipTeacher), "edit %s", resource)
		require.False(t, policy.CanDelete(authz.RoleUser, authz.MembershipTeacher), "delete %s", resource)
	}
}

func TestPeriodPolicyAllowSet(t *testing.T) {
	policy := authz.PolicyFor(authz.ResourcePeriod)

	cases := []struct {
		membership authz.MembershipType
		allowed    bool
	}{
		{authz.MembershipTeacher, true},
		{authz.MembershipRepresentative, true},
		{authz.MembershipAdministrator, true},
		{authz.MembershipSecretary, false},
		{authz.MembershipStudent, false},
		{authz.MembershipNone, false},
	}
	for _, tc := range cases {
		require.Equal(t, tc.allowed, policy.CanCreate(authz.RoleUser, tc.membership), "create as %q", tc.membership)
		require.Equal(t, tc.allowed, policy.CanEdit(authz.RoleUser, tc.membership), "edit as %q", tc.membership)
		require.Equal(t, tc.allowed, policy.CanDelete(authz.RoleUser, tc.membership), "delete as %q", tc.membership)
	}
}

func TestSecretaryCountsAsStaffForRostersAndVerifications(t *testing.T) {
	for _, resource := range []authz.Resource{authz.ResourceClassUser, authz.ResourceRoomVerification} {
		policy := authz.PolicyFor(resource)
		require.True(t, policy.CanCreate(authz.RoleUser, authz.MembershipSecretary), "create %s", resource)
		require.True(t, policy.CanEdit(authz.RoleUser, authz.MembershipSecretary), "edit %s", resource)
		require.False(t, policy.CanCreate(authz.RoleUser, authz.MembershipStudent), "student create %s", resource)
	}
}

func TestPolicyForUnknownResourcePanics(t *testing.T) {
	require.Panics(t, func() {
		authz.PolicyFor(authz.Resource("building"))
	})
}
