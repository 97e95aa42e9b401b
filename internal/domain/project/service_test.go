package project

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/karnworkspace/taskflow/internal/domain/activity"
	"github.com/karnworkspace/taskflow/internal/domain/authz"
	"github.com/karnworkspace/taskflow/internal/domain/notification"
	"github.com/karnworkspace/taskflow/internal/infrastructure/persistence/postgres/connection"
	"github.com/karnworkspace/taskflow/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type capturingNotifier struct {
	notification.Service
	sent []notification.NotifyInput
}

func (c *capturingNotifier) Notify(ctx context.Context, input notification.NotifyInput) (*notification.Notification, error) {
	c.sent = append(c.sent, input)
	return &notification.Notification{ID: uuid.New(), UserID: input.UserID, Type: input.Type}, nil
}

type capturingRecorder struct {
	entries []activity.RecordInput
}

func (c *capturingRecorder) Record(ctx context.Context, input activity.RecordInput) (*activity.Log, error) {
	c.entries = append(c.entries, input)
	return &activity.Log{ID: uuid.New()}, nil
}

func (c *capturingRecorder) List(ctx context.Context, filter activity.Filter) ([]activity.Log, int64, error) {
	return nil, 0, nil
}

type serviceFixture struct {
	svc      Service
	repo     Repository
	notifier *capturingNotifier
	recorder *capturingRecorder
	owner    uuid.UUID
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Project{}, &Member{}))

	notifier := &capturingNotifier{}
	recorder := &capturingRecorder{}
	repo := NewRepository(connection.Wrap(db))
	svc := NewService(repo, notifier, recorder, logger.NewLoggerWithLevel("error"))

	return &serviceFixture{
		svc:      svc,
		repo:     repo,
		notifier: notifier,
		recorder: recorder,
		owner:    uuid.New(),
	}
}

func (f *serviceFixture) createProject(t *testing.T, name string) *Project {
	t.Helper()
	p, err := f.svc.CreateProject(context.Background(), CreateProjectInput{
		Name:    name,
		OwnerID: f.owner,
	})
	require.NoError(t, err)
	return p
}

func TestCreateProjectEnrollsOwner(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	p := f.createProject(t, "Launch Prep")

	assert.Equal(t, StatusActive, p.Status)

	members, err := f.svc.ListMembers(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, f.owner, members[0].UserID)
	assert.Equal(t, authz.RoleOwner, members[0].Role)
}

func TestCreateProjectValidation(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateProject(ctx, CreateProjectInput{OwnerID: f.owner})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.svc.CreateProject(ctx, CreateProjectInput{
		Name:    "Bad Status",
		Status:  Status("SOMEDAY"),
		OwnerID: f.owner,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdateProjectOwnerOnly(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	p := f.createProject(t, "Launch Prep")

	name := "Launch Prep Q3"
	_, err := f.svc.UpdateProject(ctx, p.ID, UpdateProjectInput{Name: &name}, uuid.New())
	assert.ErrorIs(t, err, ErrForbidden)

	updated, err := f.svc.UpdateProject(ctx, p.ID, UpdateProjectInput{Name: &name}, f.owner)
	require.NoError(t, err)
	assert.Equal(t, "Launch Prep Q3", updated.Name)
}

func TestDeleteProjectIdempotent(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	p := f.createProject(t, "Launch Prep")

	_, err := f.svc.DeleteProject(ctx, p.ID, uuid.New())
	assert.ErrorIs(t, err, ErrForbidden)

	deleted, err := f.svc.DeleteProject(ctx, p.ID, f.owner)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = f.svc.DeleteProject(ctx, p.ID, f.owner)
	require.NoError(t, err)
	assert.False(t, deleted, "second delete of the same project is a no-op")
}

func TestAddMember(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	p := f.createProject(t, "Launch Prep")
	newUser := uuid.New()

	require.NoError(t, f.svc.AddMember(ctx, p.ID, newUser, "", f.owner))

	member, err := f.repo.FindMember(ctx, p.ID, newUser)
	require.NoError(t, err)
	require.NotNil(t, member)
	assert.Equal(t, authz.RoleMember, member.Role, "role defaults to MEMBER")

	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, notification.ProjectInvite, f.notifier.sent[0].Type)
	assert.Equal(t, newUser, f.notifier.sent[0].UserID)

	err = f.svc.AddMember(ctx, p.ID, newUser, authz.RoleMember, f.owner)
	assert.ErrorIs(t, err, ErrMemberExists)
}

func TestAddMemberRejectsSecondOwner(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	p := f.createProject(t, "Launch Prep")

	err := f.svc.AddMember(ctx, p.ID, uuid.New(), authz.RoleOwner, f.owner)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestAddMemberRequiresManagementRights(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	p := f.createProject(t, "Launch Prep")

	plainMember := uuid.New()
	require.NoError(t, f.svc.AddMember(ctx, p.ID, plainMember, authz.RoleMember, f.owner))

	// A MEMBER cannot grow the roster; an outsider cannot either.
	err := f.svc.AddMember(ctx, p.ID, uuid.New(), authz.RoleMember, plainMember)
	assert.ErrorIs(t, err, ErrForbidden)
	err = f.svc.AddMember(ctx, p.ID, uuid.New(), authz.RoleMember, uuid.New())
	assert.ErrorIs(t, err, ErrForbidden)

	// An ADMIN can.
	admin := uuid.New()
	require.NoError(t, f.svc.AddMember(ctx, p.ID, admin, authz.RoleAdmin, f.owner))
	assert.NoError(t, f.svc.AddMember(ctx, p.ID, uuid.New(), authz.RoleMember, admin))
}

func TestRemoveMemberOwnerImmutable(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	p := f.createProject(t, "Launch Prep")

	err := f.svc.RemoveMember(ctx, p.ID, f.owner, f.owner)
	assert.ErrorIs(t, err, ErrOwnerImmutable, "the OWNER membership survives even the owner's own request")

	member := uuid.New()
	require.NoError(t, f.svc.AddMember(ctx, p.ID, member, authz.RoleMember, f.owner))
	require.NoError(t, f.svc.RemoveMember(ctx, p.ID, member, f.owner))

	err = f.svc.RemoveMember(ctx, p.ID, member, f.owner)
	assert.ErrorIs(t, err, ErrMemberNotFound)
}

func TestChangeMemberRole(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	p := f.createProject(t, "Launch Prep")

	member := uuid.New()
	require.NoError(t, f.svc.AddMember(ctx, p.ID, member, authz.RoleMember, f.owner))

	assert.ErrorIs(t, f.svc.ChangeMemberRole(ctx, p.ID, member, authz.RoleOwner, f.owner), ErrInvalidInput)
	assert.ErrorIs(t, f.svc.ChangeMemberRole(ctx, p.ID, f.owner, authz.RoleAdmin, f.owner), ErrOwnerImmutable)

	require.NoError(t, f.svc.ChangeMemberRole(ctx, p.ID, member, authz.RoleAdmin, f.owner))
	got, err := f.repo.FindMember(ctx, p.ID, member)
	require.NoError(t, err)
	assert.Equal(t, authz.RoleAdmin, got.Role)

	// Admins manage members but only the owner hands out roles.
	other := uuid.New()
	require.NoError(t, f.svc.AddMember(ctx, p.ID, other, authz.RoleMember, f.owner))
	assert.ErrorIs(t, f.svc.ChangeMemberRole(ctx, p.ID, other, authz.RoleAdmin, member), ErrForbidden)
}

func TestSweepTimelineIdempotent(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	f.createProject(t, "Alpha Build")
	f.createProject(t, "Beta Build")
	f.createProject(t, "Untracked")

	mapping := map[string]TimelineMeta{
		"Alpha Build": {Category: "2026-H1", Code: "ALPHA", SortOrder: 1},
		"Beta Build":  {Category: "2026-H2", Code: "BETA", SortOrder: 2},
	}

	changed, err := f.svc.SweepTimeline(ctx, mapping, f.owner)
	require.NoError(t, err)
	assert.Equal(t, 2, changed)

	// Second sweep over already-tagged projects writes nothing.
	changed, err = f.svc.SweepTimeline(ctx, mapping, f.owner)
	require.NoError(t, err)
	assert.Equal(t, 0, changed)

	projects, _, err := f.svc.ListProjects(ctx, Filter{Page: 1, PageSize: 10})
	require.NoError(t, err)
	tagged := 0
	for _, p := range projects {
		if p.TimelineCode != "" {
			tagged++
		}
	}
	assert.Equal(t, 2, tagged)
}
