package authz

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCanMutateTask(t *testing.T) {
	creator := uuid.New()
	assignee := uuid.New()
	owner := uuid.New()
	stranger := uuid.New()

	snap := TaskSnapshot{
		AssigneeID:     &assignee,
		CreatorID:      creator,
		ProjectOwnerID: owner,
	}

	assert.True(t, CanMutateTask(assignee, snap))
	assert.True(t, CanMutateTask(creator, snap))
	assert.True(t, CanMutateTask(owner, snap))
	assert.False(t, CanMutateTask(stranger, snap))

	// unassigned task still allows creator and owner
	unassigned := TaskSnapshot{CreatorID: creator, ProjectOwnerID: owner}
	assert.True(t, CanMutateTask(creator, unassigned))
	assert.False(t, CanMutateTask(assignee, unassigned))
}

func TestCanMutateProject(t *testing.T) {
	owner := uuid.New()
	assert.True(t, CanMutateProject(owner, owner))
	assert.False(t, CanMutateProject(uuid.New(), owner))
}

func TestMembershipPredicates(t *testing.T) {
	assert.True(t, CanManageMembers(RoleOwner))
	assert.True(t, CanManageMembers(RoleAdmin))
	assert.False(t, CanManageMembers(RoleMember))

	assert.True(t, CanChangeMemberRole(RoleOwner))
	assert.False(t, CanChangeMemberRole(RoleAdmin))

	// the OWNER membership can never be removed, not even by the owner
	assert.False(t, CanRemoveMember(RoleOwner, RoleOwner))
	assert.True(t, CanRemoveMember(RoleOwner, RoleMember))
	assert.True(t, CanRemoveMember(RoleAdmin, RoleMember))
	assert.False(t, CanRemoveMember(RoleMember, RoleMember))
}

func TestCanDeleteComment(t *testing.T) {
	author := uuid.New()
	taskCreator := uuid.New()
	projectOwner := uuid.New()

	snap := CommentSnapshot{
		AuthorID:       author,
		TaskCreatorID:  taskCreator,
		ProjectOwnerID: projectOwner,
	}

	assert.True(t, CanDeleteComment(author, snap))
	assert.True(t, CanDeleteComment(taskCreator, snap))
	assert.True(t, CanDeleteComment(projectOwner, snap))
	assert.False(t, CanDeleteComment(uuid.New(), snap))
}

func TestCanDeleteDailyUpdate(t *testing.T) {
	author := uuid.New()
	assert.True(t, CanDeleteDailyUpdate(author, author))
	assert.False(t, CanDeleteDailyUpdate(uuid.New(), author))
}
