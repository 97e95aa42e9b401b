package group

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/karnworkspace/taskflow/internal/infrastructure/persistence/postgres/connection"
	"github.com/karnworkspace/taskflow/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newGroupService(t *testing.T) Service {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Group{}, &GroupMember{}, &GroupProject{}))
	return NewService(NewRepository(connection.Wrap(db)), logger.NewLoggerWithLevel("error"))
}

func TestGroupTypeMismatch(t *testing.T) {
	svc := newGroupService(t)
	ctx := context.Background()
	creator := uuid.New()

	userGroup, err := svc.CreateGroup(ctx, CreateGroupInput{
		Name:      "Backend Team",
		Type:      TypeUserGroup,
		CreatorID: creator,
	})
	require.NoError(t, err)

	projectGroup, err := svc.CreateGroup(ctx, CreateGroupInput{
		Name:      "Q3 Initiatives",
		Type:      TypeProjectGroup,
		CreatorID: creator,
	})
	require.NoError(t, err)

	err = svc.AddProject(ctx, userGroup.ID, uuid.New(), creator)
	assert.ErrorIs(t, err, ErrTypeMismatch)

	err = svc.AddUser(ctx, projectGroup.ID, uuid.New(), creator)
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func TestGroupMembership(t *testing.T) {
	svc := newGroupService(t)
	ctx := context.Background()
	creator := uuid.New()
	member := uuid.New()

	group, err := svc.CreateGroup(ctx, CreateGroupInput{
		Name:      "Reviewers",
		Type:      TypeUserGroup,
		CreatorID: creator,
	})
	require.NoError(t, err)

	require.NoError(t, svc.AddUser(ctx, group.ID, member, creator))
	assert.ErrorIs(t, svc.AddUser(ctx, group.ID, member, creator), ErrMemberExists)

	members, err := svc.ListUsers(ctx, group.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, member, members[0].UserID)

	require.NoError(t, svc.RemoveUser(ctx, group.ID, member, creator))
	assert.ErrorIs(t, svc.RemoveUser(ctx, group.ID, member, creator), ErrMemberNotFound)
}

func TestGroupMutationCreatorOnly(t *testing.T) {
	svc := newGroupService(t)
	ctx := context.Background()
	creator := uuid.New()

	group, err := svc.CreateGroup(ctx, CreateGroupInput{
		Name:      "Ops",
		Type:      TypeUserGroup,
		CreatorID: creator,
	})
	require.NoError(t, err)

	name := "Renamed"
	_, err = svc.UpdateGroup(ctx, group.ID, UpdateGroupInput{Name: &name}, uuid.New())
	assert.ErrorIs(t, err, ErrForbidden)

	err = svc.AddUser(ctx, group.ID, uuid.New(), uuid.New())
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestDeleteGroupIdempotentAndCascades(t *testing.T) {
	svc := newGroupService(t)
	ctx := context.Background()
	creator := uuid.New()

	group, err := svc.CreateGroup(ctx, CreateGroupInput{
		Name:      "Pilot Projects",
		Type:      TypeProjectGroup,
		CreatorID: creator,
	})
	require.NoError(t, err)
	require.NoError(t, svc.AddProject(ctx, group.ID, uuid.New(), creator))

	deleted, err := svc.DeleteGroup(ctx, group.ID, creator)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = svc.DeleteGroup(ctx, group.ID, creator)
	require.NoError(t, err)
	assert.False(t, deleted)

	projects, err := svc.ListProjects(ctx, group.ID)
	require.NoError(t, err)
	assert.Empty(t, projects)
}
