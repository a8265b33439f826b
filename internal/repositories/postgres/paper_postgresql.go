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

type PaperPostgreSQL struct {
	baseRepo
}

func NewPaperPostgreSQL(db *gorm.DB, cacheManager *cache.CacheManager, cacheReads bool) repositories.PaperRepository {
	return &PaperPostgreSQL{baseRepo{db: db, cacheManager: cacheManager, cacheReads: cacheReads}}
}

// ===== BASIC CRUD OPERATIONS =====

func (p *PaperPostgreSQL) Create(ctx context.Context, tx *gorm.DB, paper *models.AssessmentPaper) error {
	db := p.getDB(tx)
	if err := db.WithContext(ctx).Omit("Course", "Creator").Create(paper).Error; err != nil {
		return fmt.Errorf("failed to create paper: %w", err)
	}
	return nil
}

func (p *PaperPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.AssessmentPaper, error) {
	db := p.getDB(tx)
	var paper models.AssessmentPaper
	if err := db.WithContext(ctx).First(&paper, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("paper", id)
		}
		return nil, fmt.Errorf("failed to get paper: %w", err)
	}
	return &paper, nil
}

func (p *PaperPostgreSQL) Update(ctx context.Context, tx *gorm.DB, paper *models.AssessmentPaper) error {
	db := p.getDB(tx)
	if err := db.WithContext(ctx).Omit("Course", "Creator", "created_at").Save(paper).Error; err != nil {
		return fmt.Errorf("failed to update paper: %w", err)
	}
	return nil
}

// Delete removes the paper and its links; linked questions stay in the bank
func (p *PaperPostgreSQL) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	db := p.getDB(tx)

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("paper_id = ?", id).Delete(&models.PaperQuestion{}).Error; err != nil {
			return fmt.Errorf("failed to delete paper question links: %w", err)
		}

		result := tx.Delete(&models.AssessmentPaper{}, id)
		if result.Error != nil {
			return fmt.Errorf("failed to delete paper: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return notFound("paper", id)
		}
		return nil
	})
	if err != nil {
		return err
	}

	cache.InvalidatePaper(ctx, p.cacheManager, id)
	return nil
}

func (p *PaperPostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.PaperFilters) ([]*models.AssessmentPaper, error) {
	db := p.getDB(tx)
	query := db.WithContext(ctx).Model(&models.AssessmentPaper{})
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.CourseID != nil {
		query = query.Where("course_id = ?", *filters.CourseID)
	}
	if filters.CreatedBy != nil {
		query = query.Where("created_by_id = ?", *filters.CreatedBy)
	}
	query = ApplyPaginationAndSort(query, filters.ListOptions, paperSortColumns, orderBy("created_at", true))

	var papers []*models.AssessmentPaper
	if err := query.Find(&papers).Error; err != nil {
		return nil, fmt.Errorf("failed to list papers: %w", err)
	}
	return papers, nil
}

// ===== QUESTION LINKS =====

// ReplaceQuestions swaps the paper's link set for questionIDs
func (p *PaperPostgreSQL) ReplaceQuestions(ctx context.Context, tx *gorm.DB, paperID uint, questionIDs []uint) error {
	db := p.getDB(tx)

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("paper_id = ?", paperID).Delete(&models.PaperQuestion{}).Error; err != nil {
			return fmt.Errorf("failed to clear paper questions: %w", err)
		}

		ids := uniqueIDs(questionIDs)
		if len(ids) == 0 {
			return nil
		}
		links := make([]models.PaperQuestion, 0, len(ids))
		for _, id := range ids {
			links = append(links, models.PaperQuestion{PaperID: paperID, QuestionID: id})
		}
		if err := tx.CreateInBatches(links, 100).Error; err != nil {
			return fmt.Errorf("failed to link paper questions: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	cache.InvalidatePaper(ctx, p.cacheManager, paperID)
	return nil
}

// ===== REFERENCE CLEANUP =====

func (p *PaperPostgreSQL) ClearCourse(ctx context.Context, tx *gorm.DB, courseID uint) error {
	db := p.getDB(tx)
	if err := db.WithContext(ctx).Model(&models.AssessmentPaper{}).
		Where("course_id = ?", courseID).
		Update("course_id", nil).Error; err != nil {
		return fmt.Errorf("failed to detach papers from course: %w", err)
	}
	return nil
}

func (p *PaperPostgreSQL) ClearCreator(ctx context.Context, tx *gorm.DB, userID uint) error {
	db := p.getDB(tx)
	if err := db.WithContext(ctx).Model(&models.AssessmentPaper{}).
		Where("created_by_id = ?", userID).
		Update("created_by_id", nil).Error; err != nil {
		return fmt.Errorf("failed to detach papers from creator: %w", err)
	}
	return nil
}
