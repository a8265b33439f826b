package repositories

import "context"

// Repository aggregates every store the paper service owns.
type Repository interface {
	Branding() BrandingRepository
	Course() CourseRepository
	Question() QuestionRepository
	Paper() PaperRepository

	// Identity
	User() UserRepository
	Token() TokenRepository

	// Academic directory
	Department() DepartmentRepository
	Programme() ProgrammeRepository
	Session() SessionRepository

	// WithTransaction runs fn against a repository bound to one transaction.
	WithTransaction(ctx context.Context, fn func(Repository) error) error

	Ping(ctx context.Context) error
	Close() error
}

// RepositoryManager interface for managing repository lifecycle
type RepositoryManager interface {
	Initialize() error
	GetRepository() Repository
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
