package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"strconv"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/SAP-F-2025/assessment-paper-service/internal/events"
	"github.com/SAP-F-2025/assessment-paper-service/internal/repositories"
	"github.com/SAP-F-2025/assessment-paper-service/internal/repositories/postgres"
	"github.com/SAP-F-2025/assessment-paper-service/internal/storage"
	"github.com/SAP-F-2025/assessment-paper-service/internal/validator"
	"github.com/SAP-F-2025/assessment-paper-service/pkg"
)

type testEnv struct {
	db        *gorm.DB
	repo      repositories.Repository
	publisher *events.MockEventPublisher
	manager   ServiceManager
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestDB opens a private in-memory SQLite database with every table migrated.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get database instance: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := pkg.Migrate(db); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}
	return db
}

func newTestEnv(t *testing.T, opts ...func(*ServiceManagerConfig, *Dependencies)) *testEnv {
	t.Helper()
	db := newTestDB(t)
	repo := postgres.NewPostgreSQLRepository(postgres.RepositoryConfig{DB: db})
	publisher := events.NewMockEventPublisher(testLogger())

	blobs, err := storage.NewFSStore(t.TempDir(), "/media")
	if err != nil {
		t.Fatalf("Failed to create blob store: %v", err)
	}

	deps := Dependencies{
		Repo:      repo,
		Logger:    testLogger(),
		Validator: validator.NewBusinessValidator(),
		Publisher: publisher,
		Blobs:     blobs,
	}
	cfg := ServiceManagerConfig{DemoAccountsEnabled: true}
	for _, opt := range opts {
		opt(&cfg, &deps)
	}

	manager := NewServiceManager(deps, cfg)
	if err := manager.Initialize(context.Background()); err != nil {
		t.Fatalf("Failed to initialize services: %v", err)
	}
	return &testEnv{db: db, repo: repo, publisher: publisher, manager: manager}
}

// body turns a JSON literal into an update body.
func body(t *testing.T, raw string) map[string]json.RawMessage {
	t.Helper()
	var m map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		t.Fatalf("Invalid test body %s: %v", raw, err)
	}
	return m
}

// decode builds a typed request from a JSON literal the way handlers do.
func decode[R any](t *testing.T, raw string) *R {
	t.Helper()
	req := new(R)
	if err := json.Unmarshal([]byte(raw), req); err != nil {
		t.Fatalf("Invalid test request %s: %v", raw, err)
	}
	return req
}

// fieldError returns the entry for field, failing the test when err carries none.
func fieldError(t *testing.T, err error, field string) ValidationError {
	t.Helper()
	verrs, ok := err.(ValidationErrors)
	if !ok {
		t.Fatalf("Expected ValidationErrors, got %T: %v", err, err)
	}
	for _, e := range verrs {
		if e.Field == field {
			return e
		}
	}
	t.Fatalf("Expected a validation error on %q, got %+v", field, verrs)
	return ValidationError{}
}

const paperBlocks = `"header": {"department": "JKE", "courseCode": "DEE20023", "courseName": "Digital Electronics", "session": "I 2025/2026", "assessmentType": "Quiz 1", "percentage": "10%", "set": "A"},
"studentInfo": {"duration": "1 hour", "totalMarks": 20},
"footer": {"preparedBy": "A", "reviewedBy": "B", "endorsedBy": "C"}`

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

// jsonEqual compares a JSON document with a literal, ignoring formatting.
func jsonEqual(t *testing.T, got []byte, want string) bool {
	t.Helper()
	var g, w interface{}
	if err := json.Unmarshal(got, &g); err != nil {
		t.Fatalf("Invalid JSON %s: %v", got, err)
	}
	if err := json.Unmarshal([]byte(want), &w); err != nil {
		t.Fatalf("Invalid JSON %s: %v", want, err)
	}
	return reflect.DeepEqual(g, w)
}
