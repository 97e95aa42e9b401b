// Package authz holds the permission predicates shared by every service.
// All functions are pure: they decide on snapshots the caller already
// loaded, and never touch the database.
package authz

import "github.com/google/uuid"

// Project membership roles
const (
	RoleOwner  = "OWNER"
	RoleAdmin  = "ADMIN"
	RoleMember = "MEMBER"
)

// TaskSnapshot carries the ownership fields a task mutation check needs.
type TaskSnapshot struct {
	AssigneeID     *uuid.UUID
	CreatorID      uuid.UUID
	ProjectOwnerID uuid.UUID
}

// CommentSnapshot carries the ownership fields a comment deletion check needs.
type CommentSnapshot struct {
	AuthorID       uuid.UUID
	TaskCreatorID  uuid.UUID
	ProjectOwnerID uuid.UUID
}

// CanMutateTask permits the assignee, the creator, or the project owner.
func CanMutateTask(requesterID uuid.UUID, t TaskSnapshot) bool {
	if t.AssigneeID != nil && *t.AssigneeID == requesterID {
		return true
	}
	return requesterID == t.CreatorID || requesterID == t.ProjectOwnerID
}

// CanMutateProject permits only the project owner to update or delete it.
func CanMutateProject(requesterID, ownerID uuid.UUID) bool {
	return requesterID == ownerID
}

// CanManageMembers permits OWNER and ADMIN members to add or remove members.
func CanManageMembers(role string) bool {
	return role == RoleOwner || role == RoleAdmin
}

// CanChangeMemberRole permits only the OWNER member to change roles.
func CanChangeMemberRole(role string) bool {
	return role == RoleOwner
}

// CanRemoveMember rejects removal of the OWNER membership regardless of
// who asks; otherwise the requester needs member-management rights.
func CanRemoveMember(requesterRole, targetRole string) bool {
	if targetRole == RoleOwner {
		return false
	}
	return CanManageMembers(requesterRole)
}

// CanDeleteComment permits the author, the task creator, or the project owner.
func CanDeleteComment(requesterID uuid.UUID, c CommentSnapshot) bool {
	return requesterID == c.AuthorID || requesterID == c.TaskCreatorID || requesterID == c.ProjectOwnerID
}

// CanDeleteDailyUpdate permits only the author.
func CanDeleteDailyUpdate(requesterID, authorID uuid.UUID) bool {
	return requesterID == authorID
}
