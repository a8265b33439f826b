package repositories

import (
	"context"

	"github.com/SAP-F-2025/assessment-paper-service/internal/models"
	"gorm.io/gorm"
)

// QuestionRepository interface for question-specific operations
type QuestionRepository interface {
	Create(ctx context.Context, tx *gorm.DB, question *models.Question) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Question, error)
	Update(ctx context.Context, tx *gorm.DB, question *models.Question) error
	// Delete removes the question and its paper links.
	Delete(ctx context.Context, tx *gorm.DB, id uint) error

	List(ctx context.Context, tx *gorm.DB, filters QuestionFilters) ([]*models.Question, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uint) ([]*models.Question, error)
	// ExistingIDs returns the subset of ids that exist.
	ExistingIDs(ctx context.Context, tx *gorm.DB, ids []uint) ([]uint, error)

	// Paper-specific queries, ordered by question id
	GetByPaper(ctx context.Context, tx *gorm.DB, paperID uint) ([]*models.Question, error)
	GetByPapers(ctx context.Context, tx *gorm.DB, paperIDs []uint) (map[uint][]*models.Question, error)

	// ClearCourse detaches every question from a course.
	ClearCourse(ctx context.Context, tx *gorm.DB, courseID uint) error
}
