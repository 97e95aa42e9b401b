package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/karnworkspace/taskflow/internal/api/handlers"
	"github.com/karnworkspace/taskflow/internal/api/middleware"
	"github.com/karnworkspace/taskflow/internal/api/routes"
	"github.com/karnworkspace/taskflow/internal/domain/activity"
	"github.com/karnworkspace/taskflow/internal/domain/comment"
	"github.com/karnworkspace/taskflow/internal/domain/dailyupdate"
	"github.com/karnworkspace/taskflow/internal/domain/group"
	"github.com/karnworkspace/taskflow/internal/domain/notification"
	"github.com/karnworkspace/taskflow/internal/domain/project"
	"github.com/karnworkspace/taskflow/internal/domain/tag"
	"github.com/karnworkspace/taskflow/internal/domain/task"
	"github.com/karnworkspace/taskflow/internal/domain/user"
	"github.com/karnworkspace/taskflow/internal/infrastructure/cache"
	"github.com/karnworkspace/taskflow/internal/infrastructure/persistence/postgres/connection"
	"github.com/karnworkspace/taskflow/internal/infrastructure/persistence/postgres/migrations"
	"github.com/karnworkspace/taskflow/internal/infrastructure/scheduler"
	"github.com/karnworkspace/taskflow/pkg/config"
	"github.com/karnworkspace/taskflow/pkg/logger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer()
	},
}

// RequestLoggerMiddleware logs all incoming HTTP requests
func RequestLoggerMiddleware(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		log.Info("Request completed",
			zap.String("path", path),
			zap.String("method", method),
			zap.String("client_ip", c.ClientIP()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

func runServer() error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log := logger.NewLoggerWithLevel(cfg.Logging.Level)
	defer log.Sync()

	log.Info("Configuration loaded", zap.String("mode", cfg.Server.Mode))

	if cfg.Server.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	gin.DefaultWriter = os.Stdout

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLoggerMiddleware(log))
	router.Use(middleware.NewMetricsMiddleware().CollectMetrics())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     append(cfg.CORS.AllowedHeaders, "Content-Type", "Authorization"),
		ExposeHeaders:    []string{"Content-Length", "Content-Type"},
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Connect to database and apply migrations
	db, err := connection.NewDatabase(cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := migrations.AutoMigrate(db, log.Logger); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Redis is optional: stats fall back to uncached queries when it is
	// unreachable.
	redisClient, err := cache.NewRedisClient(cache.NewConfigFromEnv(cfg))
	if err != nil {
		log.Warn("Redis unavailable, stats caching disabled", zap.Error(err))
		redisClient = nil
	} else {
		defer redisClient.Close()
	}

	notifyLogger := logrus.New()
	notifyLogger.SetFormatter(&logrus.JSONFormatter{})
	if cfg.Server.Mode == "production" {
		notifyLogger.SetLevel(logrus.InfoLevel)
	} else {
		notifyLogger.SetLevel(logrus.DebugLevel)
	}

	// Repositories
	userRepo := user.NewRepository(db)
	projectRepo := project.NewRepository(db)
	taskRepo := task.NewRepository(db)
	commentRepo := comment.NewRepository(db)
	dailyUpdateRepo := dailyupdate.NewRepository(db)
	notificationRepo := notification.NewRepository(db, notifyLogger)
	activityRepo := activity.NewRepository(db)
	groupRepo := group.NewRepository(db)
	tagRepo := tag.NewRepository(db)

	// Services
	notificationService := notification.NewService(notificationRepo, notifyLogger)
	activityService := activity.NewService(activityRepo)
	userService := user.NewService(userRepo, log, cfg.Auth.MaxLoginAttempts, cfg.Auth.LockoutDuration)
	projectService := project.NewService(projectRepo, notificationService, activityService, log)
	taskService := task.NewService(taskRepo, projectRepo, notificationService, activityService, log)
	commentService := comment.NewService(commentRepo, taskRepo, projectRepo, notificationService, activityService, log)
	dailyUpdateService := dailyupdate.NewService(dailyUpdateRepo, taskRepo, projectRepo, log)
	groupService := group.NewService(groupRepo, log)
	tagService := tag.NewService(tagRepo)

	// Due-date reminder sweep
	if cfg.Reminders.Enabled {
		reminder := scheduler.NewReminder(taskRepo, notificationService, cfg.Reminders.Interval, log)
		reminder.Start()
		defer reminder.Stop()
		log.Info("Reminder scheduler started", zap.Duration("interval", cfg.Reminders.Interval))
	}

	// Handlers
	authHandler := handlers.NewAuthHandler(userService, &cfg.Auth)
	userHandler := handlers.NewUserHandler(userService)
	projectHandler := handlers.NewProjectHandler(projectService)
	taskHandler := handlers.NewTaskHandler(taskService, redisClient)
	commentHandler := handlers.NewCommentHandler(commentService)
	dailyUpdateHandler := handlers.NewDailyUpdateHandler(dailyUpdateService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	activityHandler := handlers.NewActivityHandler(activityService)
	groupHandler := handlers.NewGroupHandler(groupService)
	tagHandler := handlers.NewTagHandler(tagService)

	// Routes
	secret := cfg.Auth.JWTSecret
	routes.NewAuthRoutes(authHandler, secret).RegisterRoutes(router)
	routes.NewUserRoutes(userHandler, secret).RegisterRoutes(router)
	routes.NewProjectRoutes(projectHandler, secret).RegisterRoutes(router)
	routes.NewTaskRoutes(taskHandler, secret).RegisterRoutes(router)
	routes.NewCommentRoutes(commentHandler, secret).RegisterRoutes(router)
	routes.NewDailyUpdateRoutes(dailyUpdateHandler, secret).RegisterRoutes(router)
	routes.NewNotificationRoutes(notificationHandler, secret).RegisterRoutes(router)
	routes.NewActivityRoutes(activityHandler, secret).RegisterRoutes(router)
	routes.NewGroupRoutes(groupHandler, secret).RegisterRoutes(router)
	routes.NewTagRoutes(tagHandler, secret).RegisterRoutes(router)
	routes.SetupHealthRoutes(router, db, redisClient)

	for _, route := range router.Routes() {
		log.Debug("Route registered",
			zap.String("method", route.Method),
			zap.String("path", route.Path),
		)
	}

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		log.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
