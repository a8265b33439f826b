package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/SAP-F-2025/assessment-paper-service/internal/models"
	"github.com/SAP-F-2025/assessment-paper-service/internal/repositories"
	"github.com/SAP-F-2025/assessment-paper-service/pkg"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{
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

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

// waitForKey polls until the background cache fill has landed.
func waitForKey(t *testing.T, mr *miniredis.Miniredis, key string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !mr.Exists(key) {
		if time.Now().After(deadline) {
			t.Fatalf("Cache key %s was never written", key)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestCourseCache_HitAndInvalidate(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	mr, client := newRedis(t)
	repo := NewPostgreSQLRepository(RepositoryConfig{DB: db, RedisClient: client})

	course := &models.Course{Code: "DEE20023", Name: "Digital Electronics"}
	if err := repo.Course().Create(ctx, nil, course); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := repo.Course().GetByID(ctx, nil, course.ID); err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	key := fmt.Sprintf("course:id:%d", course.ID)
	waitForKey(t, mr, key)

	// a write behind the repository's back is invisible while cached
	if err := db.Model(&models.Course{}).Where("id = ?", course.ID).Update("name", "Changed directly").Error; err != nil {
		t.Fatalf("Direct update failed: %v", err)
	}
	got, err := repo.Course().GetByID(ctx, nil, course.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Name != "Digital Electronics" {
		t.Fatalf("Expected cached name, got %q", got.Name)
	}

	course.Name = "Digital Electronics II"
	if err := repo.Course().Update(ctx, nil, course); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if mr.Exists(key) {
		t.Fatal("Expected update to invalidate the cached course")
	}
	got, err = repo.Course().GetByID(ctx, nil, course.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Name != "Digital Electronics II" {
		t.Errorf("Expected fresh name, got %q", got.Name)
	}
}

func TestCourseRepository_NotFoundAndDuplicates(t *testing.T) {
	ctx := context.Background()
	repo := NewPostgreSQLRepository(RepositoryConfig{DB: newTestDB(t)})

	if _, err := repo.Course().GetByID(ctx, nil, 99); !repositories.IsNotFoundError(err) {
		t.Errorf("Expected not found, got %v", err)
	}
	if err := repo.Course().Delete(ctx, nil, 99); !repositories.IsNotFoundError(err) {
		t.Errorf("Expected not found on delete, got %v", err)
	}

	if err := repo.Course().Create(ctx, nil, &models.Course{Code: "A1", Name: "A"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	err := repo.Course().Create(ctx, nil, &models.Course{Code: "A1", Name: "B"})
	if !repositories.IsDuplicateKeyError(err) {
		t.Errorf("Expected duplicate key error, got %v", err)
	}

	exists, err := repo.Course().ExistsByCode(ctx, nil, "A1", nil)
	if err != nil || !exists {
		t.Errorf("Expected A1 to exist, got %v (err %v)", exists, err)
	}
}

func TestPaperQuestionLinks(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	mr, client := newRedis(t)
	repo := NewPostgreSQLRepository(RepositoryConfig{DB: db, RedisClient: client})

	var ids []uint
	for i := 0; i < 3; i++ {
		q := &models.Question{Text: fmt.Sprintf("Question %d", i+1), Marks: 2, Type: models.QuestionType("mcq")}
		if err := repo.Question().Create(ctx, nil, q); err != nil {
			t.Fatalf("Create question failed: %v", err)
		}
		ids = append(ids, q.ID)
	}
	paper := &models.AssessmentPaper{Status: models.PaperStatus("draft")}
	if err := repo.Paper().Create(ctx, nil, paper); err != nil {
		t.Fatalf("Create paper failed: %v", err)
	}

	t.Run("ReplaceDeduplicates", func(t *testing.T) {
		if err := repo.Paper().ReplaceQuestions(ctx, nil, paper.ID, []uint{ids[2], ids[0], ids[2]}); err != nil {
			t.Fatalf("ReplaceQuestions failed: %v", err)
		}
		got, err := repo.Question().GetByPapers(ctx, nil, []uint{paper.ID})
		if err != nil {
			t.Fatalf("GetByPapers failed: %v", err)
		}
		linked := got[paper.ID]
		if len(linked) != 2 || linked[0].ID != ids[0] || linked[1].ID != ids[2] {
			t.Errorf("Expected questions %d and %d, got %d questions", ids[0], ids[2], len(linked))
		}
	})

	t.Run("QuestionDeleteDropsLinkAndCache", func(t *testing.T) {
		questions, err := repo.Question().GetByPaper(ctx, nil, paper.ID)
		if err != nil {
			t.Fatalf("GetByPaper failed: %v", err)
		}
		if len(questions) != 2 {
			t.Fatalf("Expected 2 questions, got %d", len(questions))
		}
		waitForKey(t, mr, fmt.Sprintf("paper:questions:%d", paper.ID))

		if err := repo.Question().Delete(ctx, nil, ids[0]); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		questions, err = repo.Question().GetByPaper(ctx, nil, paper.ID)
		if err != nil {
			t.Fatalf("GetByPaper failed: %v", err)
		}
		if len(questions) != 1 || questions[0].ID != ids[2] {
			t.Errorf("Expected only question %d, got %d questions", ids[2], len(questions))
		}
	})

	t.Run("BatchLoadGivesEveryPaperASlice", func(t *testing.T) {
		byPaper, err := repo.Question().GetByPapers(ctx, nil, []uint{paper.ID, 404})
		if err != nil {
			t.Fatalf("GetByPapers failed: %v", err)
		}
		if byPaper[404] == nil {
			t.Error("Expected an empty slice for a paper without links")
		}
	})

	t.Run("ExistingIDs", func(t *testing.T) {
		got, err := repo.Question().ExistingIDs(ctx, nil, []uint{ids[1], 999, ids[1]})
		if err != nil {
			t.Fatalf("ExistingIDs failed: %v", err)
		}
		if len(got) != 1 || got[0] != ids[1] {
			t.Errorf("Expected [%d], got %v", ids[1], got)
		}
	})
}

func TestWithTransaction_RollsBack(t *testing.T) {
	ctx := context.Background()
	repo := NewPostgreSQLRepository(RepositoryConfig{DB: newTestDB(t)})
	boom := errors.New("boom")

	err := repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		if err := tx.Course().Create(ctx, nil, &models.Course{Code: "TX1", Name: "Rolled back"}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Expected boom, got %v", err)
	}
	if exists, _ := repo.Course().ExistsByCode(ctx, nil, "TX1", nil); exists {
		t.Error("Expected course creation to be rolled back")
	}
}

func TestList_OrderingWhitelist(t *testing.T) {
	ctx := context.Background()
	repo := NewPostgreSQLRepository(RepositoryConfig{DB: newTestDB(t)})

	for _, code := range []string{"B2", "A1", "C3"} {
		if err := repo.Course().Create(ctx, nil, &models.Course{Code: code, Name: "Course " + code}); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	tests := []struct {
		name string
		opts repositories.ListOptions
		want []string
	}{
		{"Default", repositories.ListOptions{}, []string{"A1", "B2", "C3"}},
		{"Desc", repositories.ListOptions{SortBy: "code", SortOrder: "desc"}, []string{"C3", "B2", "A1"}},
		{"UnknownColumnFallsBack", repositories.ListOptions{SortBy: "code; DROP TABLE courses"}, []string{"A1", "B2", "C3"}},
		{"Limit", repositories.ListOptions{Limit: 2}, []string{"A1", "B2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			courses, err := repo.Course().List(ctx, nil, repositories.CourseFilters{ListOptions: tt.opts})
			if err != nil {
				t.Fatalf("List failed: %v", err)
			}
			var got []string
			for _, c := range courses {
				got = append(got, c.Code)
			}
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}
