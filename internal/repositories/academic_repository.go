package repositories

import (
	"context"

	"github.com/SAP-F-2025/assessment-paper-service/internal/models"
	"gorm.io/gorm"
)

// CRUDRepository is the plain store used by the reference-data resources.
type CRUDRepository[T any] interface {
	Create(ctx context.Context, tx *gorm.DB, entity *T) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*T, error)
	Update(ctx context.Context, tx *gorm.DB, entity *T) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
	List(ctx context.Context, tx *gorm.DB, opts ListOptions) ([]*T, error)
	Count(ctx context.Context, tx *gorm.DB) (int64, error)
}

type BrandingRepository interface {
	CRUDRepository[models.Branding]
	// EnsureDefault inserts the singleton default row if it is missing and returns it.
	EnsureDefault(ctx context.Context, tx *gorm.DB) (*models.Branding, error)
}

type DepartmentRepository interface {
	CRUDRepository[models.Department]
}

type ProgrammeRepository interface {
	CRUDRepository[models.Programme]
	ListByFilters(ctx context.Context, tx *gorm.DB, filters ProgrammeFilters) ([]*models.Programme, error)
}

type SessionRepository interface {
	CRUDRepository[models.AcademicSession]
	// Activate marks one session active and archives every other session.
	Activate(ctx context.Context, tx *gorm.DB, id uint) error
}
