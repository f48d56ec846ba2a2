package periods_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/schedulo/schedulo/internal/authz"
	"github.com/schedulo/schedulo/internal/periods"
	"github.com/schedulo/schedulo/internal/shared"
)

type memberKey struct {
	userID      int64
	courseID    int64
	classNumber int
}

type fakeWorld struct {
	memberships map[memberKey]authz.MembershipType
	classes     map[[2]int64]bool
	rooms       map[int64]bool

	stored map[int64]periods.Period
	nextID int64
}

func (w *fakeWorld) MembershipType(_ context.Context, userID, courseID int64, classNumber int) (authz.MembershipType, bool, error) {
	m, ok := w.memberships[memberKey{userID, courseID, classNumber}]
	return m, ok, nil
}

func (w *fakeWorld) Exists(_ context.Context, courseID int64, number int) (bool, error) {
	return w.classes[[2]int64{courseID, int64(number)}], nil
}

type roomSource struct{ w *fakeWorld }

func (r roomSource) Exists(_ context.Context, id int64) (bool, error) {
	return r.w.rooms[id], nil
}

func (w *fakeWorld) ListByClass(_ context.Context, courseID int64, classNumber int) ([]periods.Period, error) {
	var out []periods.Period
	for _, p := range w.stored {
		if p.CourseID == courseID && p.ClassNumber == classNumber {
			out = append(out, p)
		}
	}
	return out, nil
}

func (w *fakeWorld) Get(_ context.Context, id int64) (periods.Period, error) {
	p, ok := w.stored[id]
	if !ok {
		return periods.Period{}, shared.ErrNotFound
	}
	return p, nil
}

func (w *fakeWorld) Create(_ context.Context, p periods.Period) (periods.Period, error) {
	w.nextID++
	p.ID = w.nextID
	p.CreatedAt = time.Now()
	w.stored[p.ID] = p
	return p, nil
}

func (w *fakeWorld) Update(_ context.Context, p periods.Period) error {
	if _, ok := w.stored[p.ID]; !ok {
		return shared.ErrNotFound
	}
	w.stored[p.ID] = p
	return nil
}

func (w *fakeWorld) Delete(_ context.Context, id int64) error {
	if _, ok := w.stored[id]; !ok {
		return shared.ErrNotFound
	}
	delete(w.stored, id)
	return nil
}

func newWorld() (*periods.Service, *fakeWorld) {
	w := &fakeWorld{
		memberships: map[memberKey]authz.MembershipType{
			{10, 1, 3}: authz.MembershipTeacher,
			{20, 1, 3}: authz.MembershipTeacher,
			{30, 1, 3}: authz.MembershipStudent,
		},
		classes: map[[2]int64]bool{{1, 3}: true},
		rooms:   map[int64]bool{5: true},
		stored:  map[int64]periods.Period{},
	}
	resolver := authz.NewResolver(w)
	coordinator := authz.NewCoordinator(resolver)
	return periods.NewService(w, coordinator, resolver, w, roomSource{w}), w
}

func validPeriod() periods.Period {
	start := time.Date(2025, 9, 1, 8, 0, 0, 0, time.UTC)
	return periods.Period{
		CourseID:    1,
		ClassNumber: 3,
		TeacherID:   20,
		RoomID:      5,
		StartsAt:    start,
		EndsAt:      start.Add(45 * time.Minute),
	}
}

func TestCreatePeriodHappyPath(t *testing.T) {
	service, world := newWorld()
	actor := authz.Principal{ID: 10, Role: authz.RoleUser}

	created, err := service.Create(context.Background(), actor, validPeriod())
	require.NoError(t, err)
	require.NotZero(t, created.ID)
	require.Len(t, world.stored, 1)
}

func TestCreatePeriodDeniedBeforeExistenceChecks(t *testing.T) {
	service, world := newWorld()
	// Both the class and room lookups would fail, but the student actor is
	// rejected before either lookup runs.
	world.classes = map[[2]int64]bool{}
	world.rooms = map[int64]bool{}

	actor := authz.Principal{ID: 30, Role: authz.RoleUser}
	_, err := service.Create(context.Background(), actor, validPeriod())
	require.ErrorIs(t, err, shared.ErrPermissionDenied)
}

func TestCreatePeriodRejectsNonTeacherTarget(t *testing.T) {
	service, _ := newWorld()
	actor := authz.Principal{ID: 10, Role: authz.RoleUser}

	p := validPeriod()
	p.TeacherID = 30
	_, err := service.Create(context.Background(), actor, p)
	require.ErrorIs(t, err, shared.ErrPermissionDenied)
	require.Contains(t, err.Error(), "teacher is not linked to the class as a teacher")
}

func TestCreatePeriodChecksRoomAfterAuthorization(t *testing.T) {
	service, world := newWorld()
	world.rooms = map[int64]bool{}

	actor := authz.Principal{ID: 10, Role: authz.RoleUser}
	_, err := service.Create(context.Background(), actor, validPeriod())
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestCreatePeriodValidatesTimeOrder(t *testing.T) {
	service, _ := newWorld()
	actor := authz.Principal{ID: 10, Role: authz.RoleUser}

	p := validPeriod()
	p.EndsAt = p.StartsAt.Add(-time.Minute)
	_, err := service.Create(context.Background(), actor, p)
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestReschedulePolicy(t *testing.T) {
	service, _ := newWorld()
	teacher := authz.Principal{ID: 10, Role: authz.RoleUser}

	created, err := service.Create(context.Background(), teacher, validPeriod())
	require.NoError(t, err)

	change := periods.Reschedule{
		RoomID:   5,
		StartsAt: created.StartsAt.Add(time.Hour),
		EndsAt:   created.EndsAt.Add(time.Hour),
	}

	student := authz.Principal{ID: 30, Role: authz.RoleUser}
	err = service.Reschedule(context.Background(), student, created.ID, change)
	require.ErrorIs(t, err, shared.ErrPermissionDenied)

	err = service.Reschedule(context.Background(), teacher, created.ID, change)
	require.NoError(t, err)

	moved, err := service.Get(context.Background(), teacher, created.ID)
	require.NoError(t, err)
	require.Equal(t, change.StartsAt, moved.StartsAt)
}

func TestDeletePeriodRequiresStaffMembership(t *testing.T) {
	service, world := newWorld()
	teacher := authz.Principal{ID: 10, Role: authz.RoleUser}

	created, err := service.Create(context.Background(), teacher, validPeriod())
	require.NoError(t, err)

	student := authz.Principal{ID: 30, Role: authz.RoleUser}
	err = service.Delete(context.Background(), student, created.ID)
	require.ErrorIs(t, err, shared.ErrPermissionDenied)

	err = service.Delete(context.Background(), teacher, created.ID)
	require.NoError(t, err)
	require.Empty(t, world.stored)
}
