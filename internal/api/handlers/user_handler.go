package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/karnworkspace/taskflow/internal/api/dto"
	"github.com/karnworkspace/taskflow/internal/domain/user"
)

// UserHandler handles HTTP requests for user operations
type UserHandler struct {
	service user.Service
}

// NewUserHandler creates a new UserHandler instance
func NewUserHandler(service user.Service) *UserHandler {
	return &UserHandler{service: service}
}

// ListUsers godoc
// @Summary List users
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Param search query string false "Match against name or email"
// @Success 200 {object} dto.PaginatedResponse "Users"
// @Router /api/v1/users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	page, limit := dto.PageParams(c)
	filter := user.Filter{Page: page, PageSize: limit}

	if search := c.Query("search"); search != "" {
		filter.Search = &search
	}
	if role := c.Query("role"); role != "" {
		r := user.Role(role)
		filter.Role = &r
	}

	users, total, err := h.service.ListUsers(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.Fail(err))
		return
	}

	summaries := make([]user.Summary, len(users))
	for i := range users {
		summaries[i] = users[i].Summarize()
	}

	c.JSON(http.StatusOK, dto.Paginated(summaries, page, limit, total))
}

// GetUser godoc
// @Summary Get a user by ID
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID" format(uuid)
// @Success 200 {object} dto.Response "User"
// @Failure 404 {object} dto.Response "User not found"
// @Router /api/v1/users/{id} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.FailMessage("invalid user ID"))
		return
	}

	u, err := h.service.GetUser(c.Request.Context(), id)
	if err != nil {
		statusCode := http.StatusInternalServerError
		if errors.Is(err, user.ErrUserNotFound) {
			statusCode = http.StatusNotFound
		}
		c.JSON(statusCode, dto.Fail(err))
		return
	}

	c.JSON(http.StatusOK, dto.OK(u.Summarize()))
}
