package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/SAP-F-2025/assessment-paper-service/internal/cache"
	"github.com/SAP-F-2025/assessment-paper-service/internal/models"
	"github.com/SAP-F-2025/assessment-paper-service/internal/repositories"
	"gorm.io/gorm"
)

type QuestionPostgreSQL struct {
	baseRepo
}

func NewQuestionPostgreSQL(db *gorm.DB, cacheManager *cache.CacheManager, cacheReads bool) repositories.QuestionRepository {
	return &QuestionPostgreSQL{baseRepo{db: db, cacheManager: cacheManager, cacheReads: cacheReads}}
}

// ===== BASIC CRUD OPERATIONS =====

func (q *QuestionPostgreSQL) Create(ctx context.Context, tx *gorm.DB, question *models.Question) error {
	db := q.getDB(tx)
	if err := db.WithContext(ctx).Create(question).Error; err != nil {
		return fmt.Errorf("failed to create question: %w", err)
	}
	return nil
}

// GetByID retrieves a question by ID, through the cache outside transactions
func (q *QuestionPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Question, error) {
	db := q.getDB(tx)
	load := func() (*models.Question, error) {
		var question models.Question
		if err := db.WithContext(ctx).First(&question, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, notFound("question", id)
			}
			return nil, fmt.Errorf("failed to get question: %w", err)
		}
		return &question, nil
	}

	if !q.readThroughCache(tx) {
		return load()
	}
	return cache.Fetch(ctx, q.cacheManager.Question, cache.QuestionKey(id), cache.QuestionCacheConfig.TTL, load)
}

func (q *QuestionPostgreSQL) Update(ctx context.Context, tx *gorm.DB, question *models.Question) error {
	db := q.getDB(tx)
	if err := db.WithContext(ctx).Omit("created_at").Save(question).Error; err != nil {
		return fmt.Errorf("failed to update question: %w", err)
	}

	cache.InvalidateQuestion(ctx, q.cacheManager, question.ID)
	return nil
}

// Delete removes the question and every paper link to it
func (q *QuestionPostgreSQL) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	db := q.getDB(tx)

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("question_id = ?", id).Delete(&models.PaperQuestion{}).Error; err != nil {
			return fmt.Errorf("failed to delete question from paper_questions: %w", err)
		}

		result := tx.Delete(&models.Question{}, id)
		if result.Error != nil {
			return fmt.Errorf("failed to delete question: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return notFound("question", id)
		}
		return nil
	})
	if err != nil {
		return err
	}

	cache.InvalidateQuestion(ctx, q.cacheManager, id)
	return nil
}

// ===== QUERY OPERATIONS =====

func (q *QuestionPostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.QuestionFilters) ([]*models.Question, error) {
	db := q.getDB(tx)
	query := q.applyFilters(db.WithContext(ctx).Model(&models.Question{}), filters)
	query = ApplyPaginationAndSort(query, filters.ListOptions, questionSortColumns, orderBy("id", false))

	var questions []*models.Question
	if err := query.Find(&questions).Error; err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	return questions, nil
}

func (q *QuestionPostgreSQL) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uint) ([]*models.Question, error) {
	if len(ids) == 0 {
		return []*models.Question{}, nil
	}

	db := q.getDB(tx)
	var questions []*models.Question
	if err := db.WithContext(ctx).Where("id IN ?", uniqueIDs(ids)).Order("id").Find(&questions).Error; err != nil {
		return nil, fmt.Errorf("failed to get questions by IDs: %w", err)
	}
	return questions, nil
}

func (q *QuestionPostgreSQL) ExistingIDs(ctx context.Context, tx *gorm.DB, ids []uint) ([]uint, error) {
	if len(ids) == 0 {
		return []uint{}, nil
	}

	db := q.getDB(tx)
	var existing []uint
	if err := db.WithContext(ctx).Model(&models.Question{}).
		Where("id IN ?", uniqueIDs(ids)).
		Order("id").
		Pluck("id", &existing).Error; err != nil {
		return nil, fmt.Errorf("failed to check question IDs: %w", err)
	}
	return existing, nil
}

// GetByPaper returns the questions linked to a paper, cached per paper outside transactions
func (q *QuestionPostgreSQL) GetByPaper(ctx context.Context, tx *gorm.DB, paperID uint) ([]*models.Question, error) {
	load := func() ([]*models.Question, error) {
		byPaper, err := q.GetByPapers(ctx, tx, []uint{paperID})
		if err != nil {
			return nil, err
		}
		return byPaper[paperID], nil
	}

	if !q.readThroughCache(tx) {
		return load()
	}
	return cache.Fetch(ctx, q.cacheManager.Paper, cache.PaperKey(paperID), cache.PaperCacheConfig.TTL, load)
}

// GetByPapers loads the questions of many papers in one query, keyed by paper
// ID. Every requested paper gets a non-nil slice.
func (q *QuestionPostgreSQL) GetByPapers(ctx context.Context, tx *gorm.DB, paperIDs []uint) (map[uint][]*models.Question, error) {
	result := make(map[uint][]*models.Question, len(paperIDs))
	for _, id := range paperIDs {
		result[id] = []*models.Question{}
	}
	if len(paperIDs) == 0 {
		return result, nil
	}

	db := q.getDB(tx)
	var links []models.PaperQuestion
	if err := db.WithContext(ctx).
		Where("paper_id IN ?", uniqueIDs(paperIDs)).
		Order("paper_id, question_id").
		Find(&links).Error; err != nil {
		return nil, fmt.Errorf("failed to get paper question links: %w", err)
	}
	if len(links) == 0 {
		return result, nil
	}

	questionIDs := make([]uint, 0, len(links))
	for _, link := range links {
		questionIDs = append(questionIDs, link.QuestionID)
	}
	questions, err := q.GetByIDs(ctx, tx, questionIDs)
	if err != nil {
		return nil, err
	}

	byID := make(map[uint]*models.Question, len(questions))
	for _, question := range questions {
		byID[question.ID] = question
	}
	for _, link := range links {
		if question, ok := byID[link.QuestionID]; ok {
			result[link.PaperID] = append(result[link.PaperID], question)
		}
	}
	return result, nil
}

func (q *QuestionPostgreSQL) ClearCourse(ctx context.Context, tx *gorm.DB, courseID uint) error {
	db := q.getDB(tx)
	if err := db.WithContext(ctx).Model(&models.Question{}).
		Where("course_id = ?", courseID).
		Update("course_id", nil).Error; err != nil {
		return fmt.Errorf("failed to detach questions from course: %w", err)
	}

	cache.InvalidateAllQuestions(ctx, q.cacheManager)
	return nil
}

// ===== HELPER METHODS =====

func (q *QuestionPostgreSQL) applyFilters(query *gorm.DB, filters repositories.QuestionFilters) *gorm.DB {
	if filters.CourseID != nil {
		query = query.Where("course_id = ?", *filters.CourseID)
	}
	if filters.Type != nil {
		query = query.Where("type = ?", *filters.Type)
	}
	if filters.Topic != nil {
		query = query.Where("topic = ?", *filters.Topic)
	}
	if filters.Taxonomy != nil {
		query = query.Where("taxonomy = ?", *filters.Taxonomy)
	}
	if len(filters.IDs) > 0 {
		query = query.Where("id IN ?", filters.IDs)
	}
	return query
}
