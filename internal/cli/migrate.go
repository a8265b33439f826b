package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/SAP-F-2025/assessment-paper-service/pkg"
)

func newMigrateCmd(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update database tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrations(cmd.Context(), *envFile)
		},
	}
}

func runMigrations(ctx context.Context, envFile string) error {
	cfg, logger, err := loadConfig(envFile, "")
	if err != nil {
		return err
	}
	cfg.Database.AutoMigrate = false

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}()

	if err := pkg.Migrate(db.WithContext(ctx)); err != nil {
		return err
	}
	logger.Info("Migrations applied", "driver", cfg.Database.Driver)
	return nil
}
