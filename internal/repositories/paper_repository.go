package repositories

import (
	"context"

	"github.com/SAP-F-2025/assessment-paper-service/internal/models"
	"gorm.io/gorm"
)

type PaperRepository interface {
	Create(ctx context.Context, tx *gorm.DB, paper *models.AssessmentPaper) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.AssessmentPaper, error)
	Update(ctx context.Context, tx *gorm.DB, paper *models.AssessmentPaper) error
	// Delete removes the paper and its question links; questions are kept.
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
	// List returns papers newest first unless filters ask otherwise.
	List(ctx context.Context, tx *gorm.DB, filters PaperFilters) ([]*models.AssessmentPaper, error)

	// Question links
	ReplaceQuestions(ctx context.Context, tx *gorm.DB, paperID uint, questionIDs []uint) error

	ClearCourse(ctx context.Context, tx *gorm.DB, courseID uint) error
	ClearCreator(ctx context.Context, tx *gorm.DB, userID uint) error
}
