package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/SAP-F-2025/assessment-paper-service/internal/cache"
	"github.com/SAP-F-2025/assessment-paper-service/internal/models"
	"github.com/SAP-F-2025/assessment-paper-service/internal/repositories"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserPostgreSQL struct {
	baseRepo
}

func NewUserPostgreSQL(db *gorm.DB, cacheManager *cache.CacheManager) repositories.UserRepository {
	return &UserPostgreSQL{baseRepo{db: db, cacheManager: cacheManager}}
}

func (u *UserPostgreSQL) Create(ctx context.Context, tx *gorm.DB, user *models.User) error {
	db := u.getDB(tx)
	if err := db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (u *UserPostgreSQL) CreateIfAbsent(ctx context.Context, tx *gorm.DB, user *models.User) (bool, error) {
	db := u.getDB(tx)
	result := db.WithContext(ctx).
		Omit("Profile").
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "username"}}, DoNothing: true}).
		Create(user)
	if result.Error != nil {
		return false, fmt.Errorf("failed to create user: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (u *UserPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.User, error) {
	db := u.getDB(tx)
	var user models.User
	if err := db.WithContext(ctx).Preload("Profile").First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("user", id)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (u *UserPostgreSQL) GetByUsername(ctx context.Context, tx *gorm.DB, username string) (*models.User, error) {
	db := u.getDB(tx)
	var user models.User
	if err := db.WithContext(ctx).Preload("Profile").Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user not found with username %s: %w", username, repositories.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}
	return &user, nil
}

func (u *UserPostgreSQL) ExistsByUsername(ctx context.Context, tx *gorm.DB, username string) (bool, error) {
	db := u.getDB(tx)
	var count int64
	if err := db.WithContext(ctx).Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check username: %w", err)
	}
	return count > 0, nil
}

// Delete removes the account with its profile and token.
func (u *UserPostgreSQL) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	db := u.getDB(tx)

	var keys []string
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.AuthToken{}).Where("user_id = ?", id).Pluck("key", &keys).Error; err != nil {
			return fmt.Errorf("failed to load user tokens: %w", err)
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.AuthToken{}).Error; err != nil {
			return fmt.Errorf("failed to delete user tokens: %w", err)
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.Profile{}).Error; err != nil {
			return fmt.Errorf("failed to delete user profile: %w", err)
		}
		result := tx.Delete(&models.User{}, id)
		if result.Error != nil {
			return fmt.Errorf("failed to delete user: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return notFound("user", id)
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, key := range keys {
		cache.InvalidateToken(ctx, u.cacheManager, key)
	}
	return nil
}

// ===== PROFILES =====

func (u *UserPostgreSQL) GetProfile(ctx context.Context, tx *gorm.DB, userID uint) (*models.Profile, error) {
	db := u.getDB(tx)
	var profile models.Profile
	if err := db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("profile not found for user %d: %w", userID, repositories.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &profile, nil
}

func (u *UserPostgreSQL) EnsureProfile(ctx context.Context, tx *gorm.DB, profile *models.Profile) (*models.Profile, error) {
	db := u.getDB(tx)
	if err := db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).
		Create(profile).Error; err != nil {
		return nil, fmt.Errorf("failed to ensure profile: %w", err)
	}
	return u.GetProfile(ctx, tx, profile.UserID)
}

// ===== TOKENS =====

type TokenPostgreSQL struct {
	baseRepo
}

func NewTokenPostgreSQL(db *gorm.DB, cacheManager *cache.CacheManager, cacheReads bool) repositories.TokenRepository {
	return &TokenPostgreSQL{baseRepo{db: db, cacheManager: cacheManager, cacheReads: cacheReads}}
}

func (t *TokenPostgreSQL) GetOrCreate(ctx context.Context, tx *gorm.DB, userID uint, newKey string) (*models.AuthToken, error) {
	db := t.getDB(tx)
	token := &models.AuthToken{Key: newKey, UserID: userID}
	if err := db.WithContext(ctx).
		Omit("User").
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).
		Create(token).Error; err != nil {
		return nil, fmt.Errorf("failed to create token: %w", err)
	}

	var stored models.AuthToken
	if err := db.WithContext(ctx).Where("user_id = ?", userID).First(&stored).Error; err != nil {
		return nil, fmt.Errorf("failed to load token: %w", err)
	}
	return &stored, nil
}

// GetUserByKey resolves a token to its user with profile, cached outside transactions
func (t *TokenPostgreSQL) GetUserByKey(ctx context.Context, tx *gorm.DB, key string) (*models.User, error) {
	db := t.getDB(tx)
	load := func() (*models.User, error) {
		var token models.AuthToken
		if err := db.WithContext(ctx).
			Preload("User").
			Preload("User.Profile").
			Where(&models.AuthToken{Key: key}).
			First(&token).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("token not found: %w", repositories.ErrNotFound)
			}
			return nil, fmt.Errorf("failed to resolve token: %w", err)
		}
		if token.User == nil {
			return nil, fmt.Errorf("token has no user: %w", repositories.ErrNotFound)
		}
		return token.User, nil
	}

	if !t.readThroughCache(tx) {
		return load()
	}
	return cache.Fetch(ctx, t.cacheManager.Token, cache.TokenKey(key), cache.TokenCacheConfig.TTL, load)
}

func (t *TokenPostgreSQL) DeleteByUser(ctx context.Context, tx *gorm.DB, userID uint) error {
	db := t.getDB(tx)

	var keys []string
	if err := db.WithContext(ctx).Model(&models.AuthToken{}).Where("user_id = ?", userID).Pluck("key", &keys).Error; err != nil {
		return fmt.Errorf("failed to load tokens: %w", err)
	}
	if err := db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.AuthToken{}).Error; err != nil {
		return fmt.Errorf("failed to delete tokens: %w", err)
	}

	for _, key := range keys {
		cache.InvalidateToken(ctx, t.cacheManager, key)
	}
	return nil
}
