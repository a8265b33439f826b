package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/SAP-F-2025/assessment-paper-service/internal/models"
	"github.com/SAP-F-2025/assessment-paper-service/internal/repositories"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// crudPostgreSQL is the shared store behind the reference-data resources.
type crudPostgreSQL[T any] struct {
	db     *gorm.DB
	entity string
}

func (r *crudPostgreSQL[T]) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *crudPostgreSQL[T]) Create(ctx context.Context, tx *gorm.DB, entity *T) error {
	if err := r.getDB(tx).WithContext(ctx).Create(entity).Error; err != nil {
		return fmt.Errorf("failed to create %s: %w", r.entity, err)
	}
	return nil
}

func (r *crudPostgreSQL[T]) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*T, error) {
	var entity T
	if err := r.getDB(tx).WithContext(ctx).First(&entity, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound(r.entity, id)
		}
		return nil, fmt.Errorf("failed to get %s: %w", r.entity, err)
	}
	return &entity, nil
}

func (r *crudPostgreSQL[T]) Update(ctx context.Context, tx *gorm.DB, entity *T) error {
	if err := r.getDB(tx).WithContext(ctx).Omit("created_at").Save(entity).Error; err != nil {
		return fmt.Errorf("failed to update %s: %w", r.entity, err)
	}
	return nil
}

func (r *crudPostgreSQL[T]) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	var entity T
	result := r.getDB(tx).WithContext(ctx).Delete(&entity, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete %s: %w", r.entity, result.Error)
	}
	if result.RowsAffected == 0 {
		return notFound(r.entity, id)
	}
	return nil
}

func (r *crudPostgreSQL[T]) List(ctx context.Context, tx *gorm.DB, opts repositories.ListOptions) ([]*T, error) {
	var entities []*T
	query := ApplyPaginationAndSort(r.getDB(tx).WithContext(ctx).Model(new(T)), opts, referenceSortColumns, orderBy("id", false))
	if err := query.Find(&entities).Error; err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", r.entity, err)
	}
	return entities, nil
}

func (r *crudPostgreSQL[T]) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	var count int64
	if err := r.getDB(tx).WithContext(ctx).Model(new(T)).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", r.entity, err)
	}
	return count, nil
}

// ===== BRANDING =====

type BrandingPostgreSQL struct {
	crudPostgreSQL[models.Branding]
}

func NewBrandingPostgreSQL(db *gorm.DB) repositories.BrandingRepository {
	return &BrandingPostgreSQL{crudPostgreSQL[models.Branding]{db: db, entity: "branding"}}
}

// EnsureDefault relies on the unique slot column so concurrent callers
// converge on a single default row.
func (b *BrandingPostgreSQL) EnsureDefault(ctx context.Context, tx *gorm.DB) (*models.Branding, error) {
	db := b.getDB(tx)
	if err := db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "slot"}}, DoNothing: true}).
		Create(models.NewDefaultBranding()).Error; err != nil {
		return nil, fmt.Errorf("failed to seed default branding: %w", err)
	}

	var branding models.Branding
	if err := db.WithContext(ctx).Where("slot = ?", models.DefaultBrandingSlot).First(&branding).Error; err != nil {
		return nil, fmt.Errorf("failed to load default branding: %w", err)
	}
	return &branding, nil
}

// ===== DEPARTMENTS & PROGRAMMES =====

type DepartmentPostgreSQL struct {
	crudPostgreSQL[models.Department]
}

func NewDepartmentPostgreSQL(db *gorm.DB) repositories.DepartmentRepository {
	return &DepartmentPostgreSQL{crudPostgreSQL[models.Department]{db: db, entity: "department"}}
}

type ProgrammePostgreSQL struct {
	crudPostgreSQL[models.Programme]
}

func NewProgrammePostgreSQL(db *gorm.DB) repositories.ProgrammeRepository {
	return &ProgrammePostgreSQL{crudPostgreSQL[models.Programme]{db: db, entity: "programme"}}
}

func (p *ProgrammePostgreSQL) ListByFilters(ctx context.Context, tx *gorm.DB, filters repositories.ProgrammeFilters) ([]*models.Programme, error) {
	query := p.getDB(tx).WithContext(ctx).Model(&models.Programme{})
	if filters.DeptID != nil {
		query = query.Where("dept_id = ?", *filters.DeptID)
	}
	query = ApplyPaginationAndSort(query, filters.ListOptions, referenceSortColumns, orderBy("id", false))

	var programmes []*models.Programme
	if err := query.Find(&programmes).Error; err != nil {
		return nil, fmt.Errorf("failed to list programmes: %w", err)
	}
	return programmes, nil
}

// ===== SESSIONS =====

type SessionPostgreSQL struct {
	crudPostgreSQL[models.AcademicSession]
}

func NewSessionPostgreSQL(db *gorm.DB) repositories.SessionRepository {
	return &SessionPostgreSQL{crudPostgreSQL[models.AcademicSession]{db: db, entity: "session"}}
}

func (s *SessionPostgreSQL) Activate(ctx context.Context, tx *gorm.DB, id uint) error {
	db := s.getDB(tx)
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.AcademicSession{}).
			Where("id = ?", id).
			Updates(map[string]interface{}{"is_active": true, "is_archived": false})
		if result.Error != nil {
			return fmt.Errorf("failed to activate session: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return notFound("session", id)
		}

		if err := tx.Model(&models.AcademicSession{}).
			Where("id <> ?", id).
			Updates(map[string]interface{}{"is_active": false, "is_archived": true}).Error; err != nil {
			return fmt.Errorf("failed to archive other sessions: %w", err)
		}
		return nil
	})
}
