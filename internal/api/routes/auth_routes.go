package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/karnworkspace/taskflow/internal/api/handlers"
	"github.com/karnworkspace/taskflow/internal/api/middleware"
)

// AuthRoutes handles the setup of authentication routes
type AuthRoutes struct {
	handler   *handlers.AuthHandler
	jwtSecret string
}

// NewAuthRoutes creates a new AuthRoutes instance
func NewAuthRoutes(handler *handlers.AuthHandler, jwtSecret string) *AuthRoutes {
	return &AuthRoutes{handler: handler, jwtSecret: jwtSecret}
}

// RegisterRoutes registers all authentication routes
func (r *AuthRoutes) RegisterRoutes(router *gin.Engine) {
	public := router.Group("/api/v1/auth")
	public.POST("/register", r.handler.Register)
	public.POST("/login", r.handler.Login)
	public.POST("/pin-login", r.handler.PinLogin)

	protected := router.Group("/api/v1/auth")
	protected.Use(middleware.NewAuthMiddleware(r.jwtSecret))
	protected.PUT("/pin", r.handler.SetPin)
	protected.GET("/me", r.handler.Me)
}
