package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/SAP-F-2025/assessment-paper-service/internal/cache"
	"github.com/SAP-F-2025/assessment-paper-service/internal/repositories"
)

// baseRepo carries the connection and cache shared by the cached stores.
// Transaction-bound copies keep invalidating but never read through the cache.
type baseRepo struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
	cacheReads   bool
}

func (b *baseRepo) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return b.db
}

func (b *baseRepo) readThroughCache(tx *gorm.DB) bool {
	return tx == nil && b.cacheReads && b.cacheManager.Enabled()
}

// PostgreSQLRepository implements the main Repository interface
type PostgreSQLRepository struct {
	db           *gorm.DB
	redisClient  *redis.Client
	cacheManager *cache.CacheManager

	branding   repositories.BrandingRepository
	course     repositories.CourseRepository
	question   repositories.QuestionRepository
	paper      repositories.PaperRepository
	user       repositories.UserRepository
	token      repositories.TokenRepository
	department repositories.DepartmentRepository
	programme  repositories.ProgrammeRepository
	session    repositories.SessionRepository
}

// RepositoryConfig holds configuration for repository initialization
type RepositoryConfig struct {
	DB          *gorm.DB
	RedisClient *redis.Client
}

// NewPostgreSQLRepository builds every sub-repository over one gorm handle.
// The name is kept for the production dialect; sqlite handles work the same.
func NewPostgreSQLRepository(config RepositoryConfig) repositories.Repository {
	return newRepository(config.DB, config.RedisClient, cache.NewCacheManager(config.RedisClient), true)
}

func newRepository(db *gorm.DB, redisClient *redis.Client, cacheManager *cache.CacheManager, cacheReads bool) *PostgreSQLRepository {
	return &PostgreSQLRepository{
		db:           db,
		redisClient:  redisClient,
		cacheManager: cacheManager,

		branding:   NewBrandingPostgreSQL(db),
		course:     NewCoursePostgreSQL(db, cacheManager, cacheReads),
		question:   NewQuestionPostgreSQL(db, cacheManager, cacheReads),
		paper:      NewPaperPostgreSQL(db, cacheManager, cacheReads),
		user:       NewUserPostgreSQL(db, cacheManager),
		token:      NewTokenPostgreSQL(db, cacheManager, cacheReads),
		department: NewDepartmentPostgreSQL(db),
		programme:  NewProgrammePostgreSQL(db),
		session:    NewSessionPostgreSQL(db),
	}
}

func (r *PostgreSQLRepository) Branding() repositories.BrandingRepository { return r.branding }

func (r *PostgreSQLRepository) Course() repositories.CourseRepository { return r.course }

func (r *PostgreSQLRepository) Question() repositories.QuestionRepository { return r.question }

func (r *PostgreSQLRepository) Paper() repositories.PaperRepository { return r.paper }

func (r *PostgreSQLRepository) User() repositories.UserRepository { return r.user }

func (r *PostgreSQLRepository) Token() repositories.TokenRepository { return r.token }

func (r *PostgreSQLRepository) Department() repositories.DepartmentRepository { return r.department }

func (r *PostgreSQLRepository) Programme() repositories.ProgrammeRepository { return r.programme }

func (r *PostgreSQLRepository) Session() repositories.SessionRepository { return r.session }

// WithTransaction executes fn with sub-repositories bound to one transaction;
// passing a nil tx to them uses the transaction.
func (r *PostgreSQLRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(newRepository(tx, r.redisClient, r.cacheManager, false))
	})
}

// Ping checks the health of database and cache connections
func (r *PostgreSQLRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	if r.redisClient != nil {
		if err := r.cacheManager.HealthCheck(ctx); err != nil {
			return fmt.Errorf("cache ping failed: %w", err)
		}
	}

	return nil
}

// Close closes all connections
func (r *PostgreSQLRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	if r.redisClient != nil {
		if err := r.redisClient.Close(); err != nil {
			return fmt.Errorf("failed to close Redis: %w", err)
		}
	}

	return nil
}

// RepositoryManager implements the RepositoryManager interface
type RepositoryManager struct {
	config RepositoryConfig
	repo   repositories.Repository
}

func NewRepositoryManager(config RepositoryConfig) repositories.RepositoryManager {
	return &RepositoryManager{
		config: config,
	}
}

// Initialize verifies connectivity and builds the repository
func (rm *RepositoryManager) Initialize() error {
	if rm.config.DB == nil {
		return fmt.Errorf("database connection is required")
	}

	sqlDB, err := rm.config.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}

	if rm.config.RedisClient != nil {
		if _, err := rm.config.RedisClient.Ping(ctx).Result(); err != nil {
			return fmt.Errorf("redis connection failed: %w", err)
		}
	}

	rm.repo = NewPostgreSQLRepository(rm.config)
	return nil
}

func (rm *RepositoryManager) GetRepository() repositories.Repository {
	return rm.repo
}

func (rm *RepositoryManager) HealthCheck(ctx context.Context) error {
	if rm.repo == nil {
		return fmt.Errorf("repository not initialized")
	}
	return rm.repo.Ping(ctx)
}

func (rm *RepositoryManager) Shutdown(ctx context.Context) error {
	if rm.repo == nil {
		return nil
	}
	return rm.repo.Close()
}
