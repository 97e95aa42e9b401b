package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/karnworkspace/taskflow/internal/api/dto"
	"github.com/karnworkspace/taskflow/internal/api/middleware"
	"github.com/karnworkspace/taskflow/internal/domain/group"
)

// GroupHandler handles HTTP requests for group operations
type GroupHandler struct {
	service group.Service
}

// NewGroupHandler creates a new GroupHandler instance
func NewGroupHandler(service group.Service) *GroupHandler {
	return &GroupHandler{service: service}
}

// CreateGroup godoc
// @Summary Create a group
// @Description USER_GROUP groups hold users, PROJECT_GROUP groups hold
// projects.
// @Tags groups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CreateGroupRequest true "Group"
// @Success 201 {object} dto.Response "Group created"
// @Router /api/v1/groups [post]
func (h *GroupHandler) CreateGroup(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, dto.FailMessage("user not authenticated"))
		return
	}

	var req dto.CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail(err))
		return
	}

	created, err := h.service.CreateGroup(c.Request.Context(), group.CreateGroupInput{
		Name:        req.Name,
		Description: req.Description,
		Type:        group.Type(req.Type),
		CreatorID:   userID,
	})
	if err != nil {
		c.JSON(groupErrStatus(err), dto.Fail(err))
		return
	}

	c.JSON(http.StatusCreated, dto.OK(dto.GroupToResponse(created)))
}

// GetGroup godoc
// @Summary Get a group by ID
// @Tags groups
// @Produce json
// @Security BearerAuth
// @Param id path string true "Group ID" format(uuid)
// @Success 200 {object} dto.Response "Group"
// @Router /api/v1/groups/{id} [get]
func (h *GroupHandler) GetGroup(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.FailMessage("invalid group ID"))
		return
	}

	g, err := h.service.GetGroup(c.Request.Context(), id)
	if err != nil {
		c.JSON(groupErrStatus(err), dto.Fail(err))
		return
	}

	c.JSON(http.StatusOK, dto.OK(dto.GroupToResponse(g)))
}

// ListGroups godoc
// @Summary List groups
// @Tags groups
// @Produce json
// @Security BearerAuth
// @Param type query string false "Filter by group type"
// @Success 200 {object} dto.PaginatedResponse "Groups"
// @Router /api/v1/groups [get]
func (h *GroupHandler) ListGroups(c *gin.Context) {
	page, limit := dto.PageParams(c)
	filter := group.Filter{Page: page, PageSize: limit}

	if raw := c.Query("type"); raw != "" {
		t := group.Type(raw)
		if !t.IsValid() {
			c.JSON(http.StatusBadRequest, dto.FailMessage("invalid group type"))
			return
		}
		filter.Type = &t
	}
	if raw := c.Query("creator_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.FailMessage("invalid creator ID"))
			return
		}
		filter.CreatorID = &id
	}

	groups, total, err := h.service.ListGroups(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.Fail(err))
		return
	}

	c.JSON(http.StatusOK, dto.Paginated(dto.GroupsToResponse(groups), page, limit, total))
}

// UpdateGroup godoc
// @Summary Update a group
// @Description Only the group creator may update.
// @Tags groups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Group ID" format(uuid)
// @Param body body dto.UpdateGroupRequest true "Fields to update"
// @Success 200 {object} dto.Response "Updated group"
// @Router /api/v1/groups/{id} [put]
func (h *GroupHandler) UpdateGroup(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, dto.FailMessage("user not authenticated"))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.FailMessage("invalid group ID"))
		return
	}

	var req dto.UpdateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail(err))
		return
	}

	updated, err := h.service.UpdateGroup(c.Request.Context(), id, group.UpdateGroupInput{
		Name:        req.Name,
		Description: req.Description,
	}, userID)
	if err != nil {
		c.JSON(groupErrStatus(err), dto.Fail(err))
		return
	}

	c.JSON(http.StatusOK, dto.OK(dto.GroupToResponse(updated)))
}

// DeleteGroup godoc
// @Summary Delete a group and its membership rows
// @Tags groups
// @Produce json
// @Security BearerAuth
// @Param id path string true "Group ID" format(uuid)
// @Success 200 {object} dto.Response "Deletion outcome"
// @Router /api/v1/groups/{id} [delete]
func (h *GroupHandler) DeleteGroup(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, dto.FailMessage("user not authenticated"))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.FailMessage("invalid group ID"))
		return
	}

	deleted, err := h.service.DeleteGroup(c.Request.Context(), id, userID)
	if err != nil {
		c.JSON(groupErrStatus(err), dto.Fail(err))
		return
	}

	c.JSON(http.StatusOK, dto.OK(gin.H{"deleted": deleted}))
}

// AddGroupUser godoc
// @Summary Add a user to a USER_GROUP
// @Tags groups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Group ID" format(uuid)
// @Param body body dto.GroupEntityRequest true "User to add"
// @Success 200 {object} dto.Response "User added"
// @Failure 409 {object} dto.Response "User already in group"
// @Router /api/v1/groups/{id}/users [post]
func (h *GroupHandler) AddGroupUser(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, dto.FailMessage("user not authenticated"))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.FailMessage("invalid group ID"))
		return
	}

	var req dto.GroupEntityRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.UserID == nil {
		c.JSON(http.StatusBadRequest, dto.FailMessage("user_id is required"))
		return
	}

	if err := h.service.AddUser(c.Request.Context(), id, *req.UserID, userID); err != nil {
		c.JSON(groupErrStatus(err), dto.Fail(err))
		return
	}

	c.JSON(http.StatusOK, dto.OKMessage("user added to group"))
}

// RemoveGroupUser godoc
// @Summary Remove a user from a USER_GROUP
// @Tags groups
// @Produce json
// @Security BearerAuth
// @Param id path string true "Group ID" format(uuid)
// @Param userId path string true "User ID" format(uuid)
// @Success 200 {object} dto.Response "User removed"
// @Router /api/v1/groups/{id}/users/{userId} [delete]
func (h *GroupHandler) RemoveGroupUser(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, dto.FailMessage("user not authenticated"))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.FailMessage("invalid group ID"))
		return
	}
	memberID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.FailMessage("invalid user ID"))
		return
	}

	if err := h.service.RemoveUser(c.Request.Context(), id, memberID, userID); err != nil {
		c.JSON(groupErrStatus(err), dto.Fail(err))
		return
	}

	c.JSON(http.StatusOK, dto.OKMessage("user removed from group"))
}

// ListGroupUsers godoc
// @Summary List the users of a USER_GROUP
// @Tags groups
// @Produce json
// @Security BearerAuth
// @Param id path string true "Group ID" format(uuid)
// @Success 200 {object} dto.Response "Users"
// @Router /api/v1/groups/{id}/users [get]
func (h *GroupHandler) ListGroupUsers(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.FailMessage("invalid group ID"))
		return
	}

	members, err := h.service.ListUsers(c.Request.Context(), id)
	if err != nil {
		c.JSON(groupErrStatus(err), dto.Fail(err))
		return
	}

	c.JSON(http.StatusOK, dto.OK(dto.GroupMembersToResponse(members)))
}

// AddGroupProject godoc
// @Summary Add a project to a PROJECT_GROUP
// @Tags groups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Group ID" format(uuid)
// @Param body body dto.GroupEntityRequest true "Project to add"
// @Success 200 {object} dto.Response "Project added"
// @Router /api/v1/groups/{id}/projects [post]
func (h *GroupHandler) AddGroupProject(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, dto.FailMessage("user not authenticated"))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.FailMessage("invalid group ID"))
		return
	}

	var req dto.GroupEntityRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ProjectID == nil {
		c.JSON(http.StatusBadRequest, dto.FailMessage("project_id is required"))
		return
	}

	if err := h.service.AddProject(c.Request.Context(), id, *req.ProjectID, userID); err != nil {
		c.JSON(groupErrStatus(err), dto.Fail(err))
		return
	}

	c.JSON(http.StatusOK, dto.OKMessage("project added to group"))
}

// RemoveGroupProject godoc
// @Summary Remove a project from a PROJECT_GROUP
// @Tags groups
// @Produce json
// @Security BearerAuth
// @Param id path string true "Group ID" format(uuid)
// @Param projectId path string true "Project ID" format(uuid)
// @Success 200 {object} dto.Response "Project removed"
// @Router /api/v1/groups/{id}/projects/{projectId} [delete]
func (h *GroupHandler) RemoveGroupProject(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, dto.FailMessage("user not authenticated"))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.FailMessage("invalid group ID"))
		return
	}
	projectID, err := uuid.Parse(c.Param("projectId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.FailMessage("invalid project ID"))
		return
	}

	if err := h.service.RemoveProject(c.Request.Context(), id, projectID, userID); err != nil {
		c.JSON(groupErrStatus(err), dto.Fail(err))
		return
	}

	c.JSON(http.StatusOK, dto.OKMessage("project removed from group"))
}

// ListGroupProjects godoc
// @Summary List the projects of a PROJECT_GROUP
// @Tags groups
// @Produce json
// @Security BearerAuth
// @Param id path string true "Group ID" format(uuid)
// @Success 200 {object} dto.Response "Projects"
// @Router /api/v1/groups/{id}/projects [get]
func (h *GroupHandler) ListGroupProjects(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.FailMessage("invalid group ID"))
		return
	}

	projects, err := h.service.ListProjects(c.Request.Context(), id)
	if err != nil {
		c.JSON(groupErrStatus(err), dto.Fail(err))
		return
	}

	c.JSON(http.StatusOK, dto.OK(dto.GroupProjectsToResponse(projects)))
}

func groupErrStatus(err error) int {
	switch {
	case errors.Is(err, group.ErrInvalidInput), errors.Is(err, group.ErrTypeMismatch):
		return http.StatusBadRequest
	case errors.Is(err, group.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, group.ErrGroupNotFound), errors.Is(err, group.ErrMemberNotFound):
		return http.StatusNotFound
	case errors.Is(err, group.ErrMemberExists), errors.Is(err, group.ErrProjectExists):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
