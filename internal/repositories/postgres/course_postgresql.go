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

type CoursePostgreSQL struct {
	baseRepo
}

func NewCoursePostgreSQL(db *gorm.DB, cacheManager *cache.CacheManager, cacheReads bool) repositories.CourseRepository {
	return &CoursePostgreSQL{baseRepo{db: db, cacheManager: cacheManager, cacheReads: cacheReads}}
}

func (c *CoursePostgreSQL) Create(ctx context.Context, tx *gorm.DB, course *models.Course) error {
	db := c.getDB(tx)
	if err := db.WithContext(ctx).Create(course).Error; err != nil {
		return fmt.Errorf("failed to create course: %w", err)
	}
	return nil
}

func (c *CoursePostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Course, error) {
	db := c.getDB(tx)
	load := func() (*models.Course, error) {
		var course models.Course
		if err := db.WithContext(ctx).First(&course, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, notFound("course", id)
			}
			return nil, fmt.Errorf("failed to get course: %w", err)
		}
		return &course, nil
	}

	if !c.readThroughCache(tx) {
		return load()
	}
	return cache.Fetch(ctx, c.cacheManager.Course, cache.CourseKey(id), cache.CourseCacheConfig.TTL, load)
}

func (c *CoursePostgreSQL) Update(ctx context.Context, tx *gorm.DB, course *models.Course) error {
	db := c.getDB(tx)
	if err := db.WithContext(ctx).Omit("created_at").Save(course).Error; err != nil {
		return fmt.Errorf("failed to update course: %w", err)
	}

	cache.InvalidateCourse(ctx, c.cacheManager, course.ID)
	return nil
}

// Delete removes the course row only; callers detach questions and papers first.
func (c *CoursePostgreSQL) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	db := c.getDB(tx)
	result := db.WithContext(ctx).Delete(&models.Course{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete course: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return notFound("course", id)
	}

	cache.InvalidateCourse(ctx, c.cacheManager, id)
	return nil
}

func (c *CoursePostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.CourseFilters) ([]*models.Course, error) {
	db := c.getDB(tx)
	query := db.WithContext(ctx).Model(&models.Course{})
	if filters.DeptID != nil {
		query = query.Where("dept_id = ?", *filters.DeptID)
	}
	if filters.ProgrammeID != nil {
		query = query.Where("programme_id = ?", *filters.ProgrammeID)
	}
	query = ApplyPaginationAndSort(query, filters.ListOptions, courseSortColumns, orderBy("code", false))

	var courses []*models.Course
	if err := query.Find(&courses).Error; err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	return courses, nil
}

func (c *CoursePostgreSQL) ExistsByID(ctx context.Context, tx *gorm.DB, id uint) (bool, error) {
	db := c.getDB(tx)
	var count int64
	if err := db.WithContext(ctx).Model(&models.Course{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check course existence: %w", err)
	}
	return count > 0, nil
}

func (c *CoursePostgreSQL) ExistsByCode(ctx context.Context, tx *gorm.DB, code string, excludeID *uint) (bool, error) {
	db := c.getDB(tx)
	query := db.WithContext(ctx).Model(&models.Course{}).Where("code = ?", code)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check course code: %w", err)
	}
	return count > 0, nil
}
