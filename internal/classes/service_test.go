package classes_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/schedulo/schedulo/internal/authz"
	"github.com/schedulo/schedulo/internal/classes"
	"github.com/schedulo/schedulo/internal/shared"
)

type classKey struct {
	courseID int64
	number   int
}

type stubRepo struct {
	classes map[classKey]classes.Class
	roster  map[classKey][]classes.Membership
}

func (s *stubRepo) ListByCourse(_ context.Context, courseID int64) ([]classes.Class, error) {
	var out []classes.Class
	for k, c := range s.classes {
		if k.courseID == courseID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *stubRepo) Get(_ context.Context, courseID int64, number int) (classes.Class, error) {
	c, ok := s.classes[classKey{courseID, number}]
	if !ok {
		return classes.Class{}, shared.ErrNotFound
	}
	return c, nil
}

func (s *stubRepo) Create(_ context.Context, class classes.Class) (classes.Class, error) {
	key := classKey{class.CourseID, class.Number}
	if _, ok := s.classes[key]; ok {
		return classes.Class{}, shared.ErrConflict
	}
	s.classes[key] = class
	return class, nil
}

func (s *stubRepo) Update(_ context.Context, courseID int64, number int, name string) error {
	key := classKey{courseID, number}
	c, ok := s.classes[key]
	if !ok {
		return shared.ErrNotFound
	}
	c.Name = name
	s.classes[key] = c
	return nil
}

func (s *stubRepo) Delete(_ context.Context, courseID int64, number int) error {
	key := classKey{courseID, number}
	if _, ok := s.classes[key]; !ok {
		return shared.ErrNotFound
	}
	delete(s.classes, key)
	return nil
}

func (s *stubRepo) Exists(_ context.Context, courseID int64, number int) (bool, error) {
	_, ok := s.classes[classKey{courseID, number}]
	return ok, nil
}

func (s *stubRepo) ListMembers(_ context.Context, courseID int64, number int) ([]classes.Membership, error) {
	return s.roster[classKey{courseID, number}], nil
}

func (s *stubRepo) AddMember(_ context.Context, m classes.Membership) (classes.Membership, error) {
	key := classKey{m.CourseID, m.ClassNumber}
	s.roster[key] = append(s.roster[key], m)
	return m, nil
}

func (s *stubRepo) UpdateMember(_ context.Context, m classes.Membership) error {
	key := classKey{m.CourseID, m.ClassNumber}
	for i, existing := range s.roster[key] {
		if existing.UserID == m.UserID {
			s.roster[key][i] = m
			return nil
		}
	}
	return shared.ErrNotFound
}

func (s *stubRepo) RemoveMember(_ context.Context, userID, courseID int64, classNumber int) error {
	key := classKey{courseID, classNumber}
	for i, existing := range s.roster[key] {
		if existing.UserID == userID {
			s.roster[key] = append(s.roster[key][:i], s.roster[key][i+1:]...)
			return nil
		}
	}
	return shared.ErrNotFound
}

// MembershipType implements the resolver source over the stub roster.
func (s *stubRepo) MembershipType(_ context.Context, userID, courseID int64, classNumber int) (authz.MembershipType, bool, error) {
	for _, m := range s.roster[classKey{courseID, classNumber}] {
		if m.UserID == userID {
			return m.Type, true, nil
		}
	}
	return authz.MembershipNone, false, nil
}

func newService() (*classes.Service, *stubRepo) {
	repo := &stubRepo{
		classes: map[classKey]classes.Class{
			{1, 3}: {CourseID: 1, Number: 3, Name: "3rd grade"},
		},
		roster: map[classKey][]classes.Membership{
			{1, 3}: {
				{UserID: 10, CourseID: 1, ClassNumber: 3, Type: authz.MembershipSecretary},
				{UserID: 30, CourseID: 1, ClassNumber: 3, Type: authz.MembershipStudent},
			},
		},
	}
	return classes.NewService(repo, authz.NewResolver(repo)), repo
}

func TestCreateClassRequiresAdmin(t *testing.T) {
	service, _ := newService()

	_, err := service.Create(context.Background(), authz.Principal{ID: 10, Role: authz.RoleUser}, classes.Class{CourseID: 1, Number: 4})
	require.ErrorIs(t, err, shared.ErrPermissionDenied)

	created, err := service.Create(context.Background(), authz.Principal{ID: 99, Role: authz.RoleAdmin}, classes.Class{CourseID: 1, Number: 4, Name: "4th grade"})
	require.NoError(t, err)
	require.Equal(t, 4, created.Number)
}

func TestCreateClassValidatesNumber(t *testing.T) {
	service, _ := newService()

	_, err := service.Create(context.Background(), authz.Principal{ID: 99, Role: authz.RoleAdmin}, classes.Class{CourseID: 1, Number: 0})
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestSecretaryManagesRoster(t *testing.T) {
	service, repo := newService()
	secretary := authz.Principal{ID: 10, Role: authz.RoleUser}

	added, err := service.AddMember(context.Background(), secretary, classes.Membership{
		UserID:      40,
		CourseID:    1,
		ClassNumber: 3,
		Type:        authz.MembershipStudent,
	})
	require.NoError(t, err)
	require.Equal(t, int64(40), added.UserID)
	require.Len(t, repo.roster[classKey{1, 3}], 3)
}

func TestStudentCannotManageRoster(t *testing.T) {
	service, _ := newService()
	student := authz.Principal{ID: 30, Role: authz.RoleUser}

	_, err := service.AddMember(context.Background(), student, classes.Membership{
		UserID:      40,
		CourseID:    1,
		ClassNumber: 3,
		Type:        authz.MembershipStudent,
	})
	require.ErrorIs(t, err, shared.ErrPermissionDenied)

	err = service.RemoveMember(context.Background(), student, 10, 1, 3)
	require.ErrorIs(t, err, shared.ErrPermissionDenied)
}

func TestAddMemberRequiresMembershipType(t *testing.T) {
	service, _ := newService()
	secretary := authz.Principal{ID: 10, Role: authz.RoleUser}

	_, err := service.AddMember(context.Background(), secretary, classes.Membership{
		UserID:      40,
		CourseID:    1,
		ClassNumber: 3,
	})
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestAddMemberToMissingClass(t *testing.T) {
	service, _ := newService()
	admin := authz.Principal{ID: 99, Role: authz.RoleAdmin}

	_, err := service.AddMember(context.Background(), admin, classes.Membership{
		UserID:      40,
		CourseID:    1,
		ClassNumber: 9,
		Type:        authz.MembershipStudent,
	})
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestListMembersOpenToAuthenticated(t *testing.T) {
	service, _ := newService()
	student := authz.Principal{ID: 30, Role: authz.RoleUser}

	members, err := service.ListMembers(context.Background(), student, 1, 3)
	require.NoError(t, err)
	require.Len(t, members, 2)
}
