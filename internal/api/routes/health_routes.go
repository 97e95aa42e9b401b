package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/karnworkspace/taskflow/internal/infrastructure/cache"
	"github.com/karnworkspace/taskflow/internal/infrastructure/persistence/postgres/connection"
)

// HealthResponse represents the health check response structure
type HealthResponse struct {
	Status    string            `json:"status" example:"healthy"`
	Timestamp time.Time         `json:"timestamp" example:"2026-08-29T02:00:00Z"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// SetupHealthRoutes registers health check endpoints. The cache client may
// be nil; redis is reported as degraded rather than failing readiness.
func SetupHealthRoutes(router *gin.Engine, db *connection.Database, cacheClient *cache.RedisClient) {
	// @Summary Health check endpoint
	// @Description Get the current health status of the API
	// @Tags health
	// @Produce json
	// @Success 200 {object} HealthResponse
	// @Router /health [get]
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, HealthResponse{
			Status:    "healthy",
			Timestamp: time.Now().UTC(),
		})
	})

	// @Summary Readiness check endpoint
	// @Description Verify database and cache connectivity
	// @Tags health
	// @Produce json
	// @Success 200 {object} HealthResponse
	// @Failure 503 {object} HealthResponse
	// @Router /health/ready [get]
	router.GET("/health/ready", func(c *gin.Context) {
		checks := map[string]string{}
		status := "ready"
		code := http.StatusOK

		if sqlDB, err := db.DB.DB(); err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
			checks["database"] = "down"
			status = "not ready"
			code = http.StatusServiceUnavailable
		} else {
			checks["database"] = "up"
		}

		switch {
		case cacheClient == nil:
			checks["redis"] = "disabled"
		case cacheClient.IsHealthy():
			checks["redis"] = "up"
		default:
			checks["redis"] = "degraded"
		}

		c.JSON(code, HealthResponse{
			Status:    status,
			Timestamp: time.Now().UTC(),
			Checks:    checks,
		})
	})
}
