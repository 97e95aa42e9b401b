package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/karnworkspace/taskflow/internal/api/dto"
	"github.com/karnworkspace/taskflow/internal/api/middleware"
	"github.com/karnworkspace/taskflow/internal/domain/project"
)

// ProjectHandler handles HTTP requests for project operations
type ProjectHandler struct {
	service project.Service
}

// NewProjectHandler creates a new ProjectHandler instance
func NewProjectHandler(service project.Service) *ProjectHandler {
	return &ProjectHandler{service: service}
}

// CreateProject godoc
// @Summary Create a new project
// @Description Creates a project and enrolls the caller as its OWNER member
// @Tags projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CreateProjectRequest true "Project creation request"
// @Success 201 {object} dto.Response "Project created"
// @Failure 400 {object} dto.Response "Invalid request"
// @Router /api/v1/projects [post]
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, dto.FailMessage("user not authenticated"))
		return
	}

	var req dto.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail(err))
		return
	}

	created, err := h.service.CreateProject(c.Request.Context(), project.CreateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		Status:      project.Status(req.Status),
		Color:       req.Color,
		Icon:        req.Icon,
		OwnerID:     userID,
	})
	if err != nil {
		statusCode := http.StatusInternalServerError
		if errors.Is(err, project.ErrInvalidInput) {
			statusCode = http.StatusBadRequest
		}
		c.JSON(statusCode, dto.Fail(err))
		return
	}

	c.JSON(http.StatusCreated, dto.OK(dto.ProjectToResponse(created)))
}

// GetProject godoc
// @Summary Get a project by ID
// @Tags projects
// @Produce json
// @Security BearerAuth
// @Param id path string true "Project ID" format(uuid)
// @Success 200 {object} dto.Response "Project"
// @Failure 404 {object} dto.Response "Project not found"
// @Router /api/v1/projects/{id} [get]
func (h *ProjectHandler) GetProject(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.FailMessage("invalid project ID"))
		return
	}

	p, err := h.service.GetProject(c.Request.Context(), id)
	if err != nil {
		statusCode := http.StatusInternalServerError
		if errors.Is(err, project.ErrProjectNotFound) {
			statusCode = http.StatusNotFound
		}
		c.JSON(statusCode, dto.Fail(err))
		return
	}

	c.JSON(http.StatusOK, dto.OK(dto.ProjectToResponse(p)))
}

// ListProjects godoc
// @Summary List projects
// @Tags projects
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Param status query string false "Filter by status"
// @Param owner_id query string false "Filter by owner" format(uuid)
// @Param mine query bool false "Only projects the caller is a member of"
// @Success 200 {object} dto.PaginatedResponse "Projects"
// @Router /api/v1/projects [get]
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	page, limit := dto.PageParams(c)
	filter := project.Filter{Page: page, PageSize: limit}

	if status := c.Query("status"); status != "" {
		s := project.Status(status)
		if !s.IsValid() {
			c.JSON(http.StatusBadRequest, dto.FailMessage("invalid status value"))
			return
		}
		filter.Status = &s
	}
	if owner := c.Query("owner_id"); owner != "" {
		ownerID, err := uuid.Parse(owner)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.FailMessage("invalid owner ID"))
			return
		}
		filter.OwnerID = &ownerID
	}
	if name := c.Query("name"); name != "" {
		filter.Name = &name
	}
	if c.Query("mine") == "true" {
		if userID, ok := middleware.GetUserID(c); ok {
			filter.MemberID = &userID
		}
	}

	projects, total, err := h.service.ListProjects(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.Fail(err))
		return
	}

	c.JSON(http.StatusOK, dto.Paginated(dto.ProjectsToResponse(projects), page, limit, total))
}

// UpdateProject godoc
// @Summary Update a project
// @Tags projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Project ID" format(uuid)
// @Param body body dto.UpdateProjectRequest true "Fields to update"
// @Success 200 {object} dto.Response "Updated project"
// @Failure 403 {object} dto.Response "Caller is not the owner"
// @Failure 404 {object} dto.Response "Project not found"
// @Router /api/v1/projects/{id} [put]
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, dto.FailMessage("user not authenticated"))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.FailMessage("invalid project ID"))
		return
	}

	var req dto.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail(err))
		return
	}

	input := project.UpdateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
		Icon:        req.Icon,
	}
	if req.Status != nil {
		s := project.Status(*req.Status)
		if !s.IsValid() {
			c.JSON(http.StatusBadRequest, dto.FailMessage("invalid status value"))
			return
		}
		input.Status = &s
	}

	updated, err := h.service.UpdateProject(c.Request.Context(), id, input, userID)
	if err != nil {
		c.JSON(projectErrStatus(err), dto.Fail(err))
		return
	}

	c.JSON(http.StatusOK, dto.OK(dto.ProjectToResponse(updated)))
}

// DeleteProject godoc
// @Summary Delete a project
// @Description Deleting an already-absent project succeeds with deleted=false
// @Tags projects
// @Produce json
// @Security BearerAuth
// @Param id path string true "Project ID" format(uuid)
// @Success 200 {object} dto.Response "Deletion outcome"
// @Failure 403 {object} dto.Response "Caller is not the owner"
// @Router /api/v1/projects/{id} [delete]
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, dto.FailMessage("user not authenticated"))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.FailMessage("invalid project ID"))
		return
	}

	deleted, err := h.service.DeleteProject(c.Request.Context(), id, userID)
	if err != nil {
		c.JSON(projectErrStatus(err), dto.Fail(err))
		return
	}

	c.JSON(http.StatusOK, dto.OK(gin.H{"deleted": deleted}))
}

// AddMember godoc
// @Summary Add a member to a project
// @Tags projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Project ID" format(uuid)
// @Param body body dto.AddMemberRequest true "Member to add"
// @Success 200 {object} dto.Response "Member added"
// @Failure 409 {object} dto.Response "User is already a member"
// @Router /api/v1/projects/{id}/members [post]
func (h *ProjectHandler) AddMember(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, dto.FailMessage("user not authenticated"))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.FailMessage("invalid project ID"))
		return
	}

	var req dto.AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail(err))
		return
	}

	if err := h.service.AddMember(c.Request.Context(), id, req.UserID, req.Role, userID); err != nil {
		c.JSON(projectErrStatus(err), dto.Fail(err))
		return
	}

	c.JSON(http.StatusOK, dto.OKMessage("member added"))
}

// RemoveMember godoc
// @Summary Remove a member from a project
// @Tags projects
// @Produce json
// @Security BearerAuth
// @Param id path string true "Project ID" format(uuid)
// @Param userId path string true "User ID" format(uuid)
// @Success 200 {object} dto.Response "Member removed"
// @Failure 403 {object} dto.Response "The owner membership cannot be removed"
// @Router /api/v1/projects/{id}/members/{userId} [delete]
func (h *ProjectHandler) RemoveMember(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, dto.FailMessage("user not authenticated"))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.FailMessage("invalid project ID"))
		return
	}
	memberID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.FailMessage("invalid user ID"))
		return
	}

	if err := h.service.RemoveMember(c.Request.Context(), id, memberID, userID); err != nil {
		c.JSON(projectErrStatus(err), dto.Fail(err))
		return
	}

	c.JSON(http.StatusOK, dto.OKMessage("member removed"))
}

// ChangeMemberRole godoc
// @Summary Change a project member's role
// @Tags projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Project ID" format(uuid)
// @Param userId path string true "User ID" format(uuid)
// @Param body body dto.ChangeMemberRoleRequest true "New role"
// @Success 200 {object} dto.Response "Role changed"
// @Router /api/v1/projects/{id}/members/{userId} [put]
func (h *ProjectHandler) ChangeMemberRole(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, dto.FailMessage("user not authenticated"))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.FailMessage("invalid project ID"))
		return
	}
	memberID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.FailMessage("invalid user ID"))
		return
	}

	var req dto.ChangeMemberRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail(err))
		return
	}

	if err := h.service.ChangeMemberRole(c.Request.Context(), id, memberID, req.Role, userID); err != nil {
		c.JSON(projectErrStatus(err), dto.Fail(err))
		return
	}

	c.JSON(http.StatusOK, dto.OKMessage("role changed"))
}

// ListMembers godoc
// @Summary List the members of a project
// @Tags projects
// @Produce json
// @Security BearerAuth
// @Param id path string true "Project ID" format(uuid)
// @Success 200 {object} dto.Response "Members"
// @Router /api/v1/projects/{id}/members [get]
func (h *ProjectHandler) ListMembers(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.FailMessage("invalid project ID"))
		return
	}

	members, err := h.service.ListMembers(c.Request.Context(), id)
	if err != nil {
		c.JSON(projectErrStatus(err), dto.Fail(err))
		return
	}

	c.JSON(http.StatusOK, dto.OK(dto.MembersToResponse(members)))
}

func projectErrStatus(err error) int {
	switch {
	case errors.Is(err, project.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, project.ErrForbidden), errors.Is(err, project.ErrOwnerImmutable):
		return http.StatusForbidden
	case errors.Is(err, project.ErrProjectNotFound), errors.Is(err, project.ErrMemberNotFound):
		return http.StatusNotFound
	case errors.Is(err, project.ErrMemberExists):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
