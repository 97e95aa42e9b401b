package main

import (
	"fmt"

	"github.com/karnworkspace/taskflow/internal/infrastructure/persistence/postgres/connection"
	"github.com/karnworkspace/taskflow/internal/infrastructure/persistence/postgres/migrations"
	"github.com/karnworkspace/taskflow/pkg/config"
	"github.com/karnworkspace/taskflow/pkg/logger"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		log := logger.NewLoggerWithLevel(cfg.Logging.Level)
		defer log.Sync()

		db, err := connection.NewDatabase(cfg)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}

		if err := migrations.AutoMigrate(db, log.Logger); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}

		log.Info("Migrations applied")
		return nil
	},
}
