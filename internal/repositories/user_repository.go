package repositories

import (
	"context"

	"github.com/SAP-F-2025/assessment-paper-service/internal/models"
	"gorm.io/gorm"
)

// UserRepository stores accounts and their profiles.
type UserRepository interface {
	Create(ctx context.Context, tx *gorm.DB, user *models.User) error
	// CreateIfAbsent inserts the user unless the username is taken; it reports whether a row was written.
	CreateIfAbsent(ctx context.Context, tx *gorm.DB, user *models.User) (bool, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, tx *gorm.DB, username string) (*models.User, error)
	ExistsByUsername(ctx context.Context, tx *gorm.DB, username string) (bool, error)
	Delete(ctx context.Context, tx *gorm.DB, id uint) error

	GetProfile(ctx context.Context, tx *gorm.DB, userID uint) (*models.Profile, error)
	// EnsureProfile inserts profile unless one exists for its user, then returns the stored row.
	EnsureProfile(ctx context.Context, tx *gorm.DB, profile *models.Profile) (*models.Profile, error)
}

// TokenRepository issues and resolves opaque bearer tokens.
type TokenRepository interface {
	// GetOrCreate returns the user's token, storing newKey when none exists.
	GetOrCreate(ctx context.Context, tx *gorm.DB, userID uint, newKey string) (*models.AuthToken, error)
	GetUserByKey(ctx context.Context, tx *gorm.DB, key string) (*models.User, error)
	DeleteByUser(ctx context.Context, tx *gorm.DB, userID uint) error
}
