package cli

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/SAP-F-2025/assessment-paper-service/internal/models"
)

func TestRootCommand_Subcommands(t *testing.T) {
	cmd := newRootCmd()
	for _, name := range []string{"serve", "migrate", "seed-demo"} {
		if sub, _, err := cmd.Find([]string{name}); err != nil || sub.Name() != name {
			t.Errorf("Expected subcommand %s, got %v (err %v)", name, sub, err)
		}
	}
	if cmd.PersistentFlags().Lookup("port") == nil || cmd.PersistentFlags().Lookup("config") == nil {
		t.Error("Expected --port and --config flags")
	}
}

func sqliteEnv(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "papers.db")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DATABASE_URL", path)
	t.Setenv("STORAGE_TYPE", "local")
	t.Setenv("STORAGE_LOCAL_PATH", t.TempDir())
	t.Setenv("REDIS_URL", "")
	t.Setenv("KAFKA_BROKERS", "")
	t.Setenv("LOG_LEVEL", "error")
	return path
}

func TestRunMigrations(t *testing.T) {
	path := sqliteEnv(t)

	if err := runMigrations(context.Background(), ""); err != nil {
		t.Fatalf("Migrate failed: %v", err)
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to reopen database: %v", err)
	}
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}()
	for _, m := range []interface{}{&models.Course{}, &models.Question{}, &models.AssessmentPaper{}, &models.Branding{}} {
		if !db.Migrator().HasTable(m) {
			t.Errorf("Expected table for %T", m)
		}
	}
}

func TestRunSeedDemo(t *testing.T) {
	path := sqliteEnv(t)

	for i := 0; i < 2; i++ {
		if err := runSeedDemo(context.Background(), ""); err != nil {
			t.Fatalf("Seed run %d failed: %v", i+1, err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to reopen database: %v", err)
	}
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}()

	var users, brandings int64
	db.Model(&models.User{}).Count(&users)
	db.Model(&models.Branding{}).Count(&brandings)
	if users != 4 {
		t.Errorf("Expected 4 demo users, got %d", users)
	}
	if brandings != 1 {
		t.Errorf("Expected 1 branding row, got %d", brandings)
	}
}
