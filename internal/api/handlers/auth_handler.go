package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/karnworkspace/taskflow/internal/api/dto"
	"github.com/karnworkspace/taskflow/internal/api/middleware"
	"github.com/karnworkspace/taskflow/internal/domain/user"
	"github.com/karnworkspace/taskflow/pkg/config"
	"github.com/karnworkspace/taskflow/pkg/security/auth"
	"github.com/sirupsen/logrus"
)

var log = logrus.New()

// AuthHandler handles HTTP requests for authentication operations
type AuthHandler struct {
	users user.Service
	cfg   *config.AuthConfig
}

// NewAuthHandler creates a new AuthHandler instance
func NewAuthHandler(users user.Service, cfg *config.AuthConfig) *AuthHandler {
	return &AuthHandler{users: users, cfg: cfg}
}

// Register godoc
// @Summary Register a new user account
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.RegisterRequest true "Registration request"
// @Success 201 {object} dto.Response "Account created"
// @Failure 400 {object} dto.Response "Invalid request"
// @Failure 409 {object} dto.Response "Email already registered"
// @Router /api/v1/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail(err))
		return
	}

	created, err := h.users.Register(c.Request.Context(), user.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		statusCode := http.StatusInternalServerError
		switch {
		case errors.Is(err, user.ErrEmailTaken):
			statusCode = http.StatusConflict
		case errors.Is(err, user.ErrInvalidInput), errors.Is(err, auth.ErrPasswordTooShort):
			statusCode = http.StatusBadRequest
		}
		c.JSON(statusCode, dto.Fail(err))
		return
	}

	c.JSON(http.StatusCreated, dto.OK(created.Summarize()))
}

// Login godoc
// @Summary Authenticate with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.LoginRequest true "Login request"
// @Success 200 {object} dto.LoginResponse "Token pair and user summary"
// @Failure 401 {object} dto.Response "Invalid credentials or locked account"
// @Router /api/v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail(err))
		return
	}

	u, err := h.users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		statusCode := http.StatusInternalServerError
		if errors.Is(err, user.ErrInvalidCredentials) || errors.Is(err, user.ErrAccountLocked) {
			statusCode = http.StatusUnauthorized
		}
		c.JSON(statusCode, dto.Fail(err))
		return
	}

	h.issueTokens(c, u)
}

// PinLogin godoc
// @Summary Authenticate with email and a 6-digit PIN
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.PinLoginRequest true "PIN login request"
// @Success 200 {object} dto.LoginResponse "Token pair and user summary"
// @Failure 401 {object} dto.Response "Invalid credentials"
// @Router /api/v1/auth/pin-login [post]
func (h *AuthHandler) PinLogin(c *gin.Context) {
	var req dto.PinLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail(err))
		return
	}

	u, err := h.users.LoginWithPin(c.Request.Context(), req.Email, req.Pin)
	if err != nil {
		statusCode := http.StatusInternalServerError
		switch {
		case errors.Is(err, user.ErrInvalidCredentials), errors.Is(err, user.ErrAccountLocked), errors.Is(err, user.ErrPinNotSet):
			statusCode = http.StatusUnauthorized
		case errors.Is(err, auth.ErrPinFormat):
			statusCode = http.StatusBadRequest
		}
		c.JSON(statusCode, dto.Fail(err))
		return
	}

	h.issueTokens(c, u)
}

// SetPin godoc
// @Summary Configure a 6-digit PIN for the authenticated user
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.SetPinRequest true "PIN request"
// @Success 200 {object} dto.Response "PIN set"
// @Failure 400 {object} dto.Response "Weak or malformed PIN"
// @Router /api/v1/auth/pin [put]
func (h *AuthHandler) SetPin(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, dto.FailMessage("user not authenticated"))
		return
	}

	var req dto.SetPinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail(err))
		return
	}

	if err := h.users.SetPin(c.Request.Context(), userID, req.Pin); err != nil {
		statusCode := http.StatusInternalServerError
		switch {
		case errors.Is(err, auth.ErrPinFormat), errors.Is(err, auth.ErrPinWeak), errors.Is(err, user.ErrInvalidInput):
			statusCode = http.StatusBadRequest
		case errors.Is(err, user.ErrUserNotFound):
			statusCode = http.StatusNotFound
		}
		c.JSON(statusCode, dto.Fail(err))
		return
	}

	c.JSON(http.StatusOK, dto.OKMessage("pin updated"))
}

// Me godoc
// @Summary Get the authenticated user's profile
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.Response "User profile"
// @Router /api/v1/auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, dto.FailMessage("user not authenticated"))
		return
	}

	u, err := h.users.GetUser(c.Request.Context(), userID)
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

func (h *AuthHandler) issueTokens(c *gin.Context, u *user.User) {
	pair, err := auth.GenerateTokenPair(
		u.ID, u.Email, string(u.Role),
		h.cfg.JWTSecret, h.cfg.JWTIssuer,
		h.cfg.AccessExpiryHours, h.cfg.RefreshExpiryHours,
	)
	if err != nil {
		log.WithError(err).Error("failed to generate token pair")
		c.JSON(http.StatusInternalServerError, dto.FailMessage("could not issue tokens"))
		return
	}

	c.JSON(http.StatusOK, dto.OK(dto.NewLoginResponse(u, pair)))
}
