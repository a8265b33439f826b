package services

import (
	"context"
	"encoding/json"
	"io"

	"github.com/SAP-F-2025/assessment-paper-service/internal/models"
	"github.com/SAP-F-2025/assessment-paper-service/internal/repositories"
	"github.com/SAP-F-2025/assessment-paper-service/internal/validator"
)

// ===== REQUEST/RESPONSE DTOs =====

type BrandingRequest = validator.BrandingRequest
type CourseRequest = validator.CourseRequest
type QuestionRequest = validator.QuestionRequest
type PaperRequest = validator.PaperRequest
type LoginRequest = validator.LoginRequest
type RegisterRequest = validator.RegisterRequest
type DepartmentRequest = validator.DepartmentRequest
type ProgrammeRequest = validator.ProgrammeRequest
type SessionRequest = validator.SessionRequest

// PaperResponse is the read shape of a paper with its linked questions.
type PaperResponse struct {
	*models.AssessmentPaper
	QuestionIDs []uint             `json:"questionIds"`
	Questions   []*models.Question `json:"questions"`
}

// UserSummary is the user block of login, register and me responses.
type UserSummary struct {
	ID       uint            `json:"id"`
	Username string          `json:"username"`
	Role     models.UserRole `json:"role"`
	FullName string          `json:"full_name"`
	Position string          `json:"position"`
	DeptID   string          `json:"deptId,omitempty"`
}

type LoginResponse struct {
	Token string      `json:"token"`
	User  UserSummary `json:"user"`
}

type MediaObject struct {
	Key         string `json:"key"`
	URL         string `json:"url"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
}

type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ===== SERVICE INTERFACES =====

// ReferenceService is the plain CRUD surface shared by branding and the
// academic directory. Update merges body over the stored row; with partial
// false the body must also validate on its own.
type ReferenceService[M any, R any] interface {
	List(ctx context.Context, opts repositories.ListOptions) ([]*M, error)
	Create(ctx context.Context, req *R) (*M, error)
	GetByID(ctx context.Context, id uint) (*M, error)
	Update(ctx context.Context, id uint, body map[string]json.RawMessage, partial bool) (*M, error)
	Delete(ctx context.Context, id uint) error
}

type BrandingService interface {
	ReferenceService[models.Branding, BrandingRequest]
	// EnsureDefault seeds the default branding row when the table is empty.
	EnsureDefault(ctx context.Context) (*models.Branding, error)
}

type DepartmentService interface {
	ReferenceService[models.Department, DepartmentRequest]
}

type ProgrammeService interface {
	ReferenceService[models.Programme, ProgrammeRequest]
	ListByFilters(ctx context.Context, filters repositories.ProgrammeFilters) ([]*models.Programme, error)
}

type SessionService interface {
	ReferenceService[models.AcademicSession, SessionRequest]
	Activate(ctx context.Context, id uint) (*models.AcademicSession, error)
}

type CourseService interface {
	Create(ctx context.Context, req *CourseRequest, actorID *uint) (*models.Course, error)
	GetByID(ctx context.Context, id uint) (*models.Course, error)
	Update(ctx context.Context, id uint, body map[string]json.RawMessage, partial bool, actorID *uint) (*models.Course, error)
	Delete(ctx context.Context, id uint, actorID *uint) error
	List(ctx context.Context, filters repositories.CourseFilters) ([]*models.Course, error)
}

type QuestionService interface {
	Create(ctx context.Context, req *QuestionRequest, actorID *uint) (*models.Question, error)
	GetByID(ctx context.Context, id uint) (*models.Question, error)
	Update(ctx context.Context, id uint, body map[string]json.RawMessage, partial bool, actorID *uint) (*models.Question, error)
	Delete(ctx context.Context, id uint, actorID *uint) error
	List(ctx context.Context, filters repositories.QuestionFilters) ([]*models.Question, error)
}

type PaperService interface {
	Create(ctx context.Context, req *PaperRequest, actorID *uint) (*PaperResponse, error)
	GetByID(ctx context.Context, id uint) (*PaperResponse, error)
	Update(ctx context.Context, id uint, body map[string]json.RawMessage, partial bool, actorID *uint) (*PaperResponse, error)
	Delete(ctx context.Context, id uint, actorID *uint) error
	List(ctx context.Context, filters repositories.PaperFilters) ([]*PaperResponse, error)
}

type AuthService interface {
	Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error)
	Register(ctx context.Context, req *RegisterRequest) (*LoginResponse, error)
	CurrentUser(ctx context.Context, userID uint) (*UserSummary, error)
	// ResolveToken maps an opaque token to its user, or ErrInvalidToken.
	ResolveToken(ctx context.Context, key string) (*models.User, error)
	DeleteAccount(ctx context.Context, userID uint) error
}

type DemoAccountService interface {
	IsDemoUsername(username string) bool
	// Provision finds or creates a demo account and its profile.
	Provision(ctx context.Context, username string) (*models.User, error)
	SeedAll(ctx context.Context) ([]*models.User, error)
}

type ExportService interface {
	ExportPaper(ctx context.Context, paperID uint, actorID *uint) (*ExportFile, error)
}

type MediaService interface {
	Upload(ctx context.Context, filename, contentType string, size int64, r io.Reader) (*MediaObject, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// ServiceManager manages all services and their dependencies
type ServiceManager interface {
	Branding() BrandingService
	Course() CourseService
	Question() QuestionService
	Paper() PaperService
	Auth() AuthService
	DemoAccounts() DemoAccountService
	Department() DepartmentService
	Programme() ProgrammeService
	Session() SessionService
	Export() ExportService
	Media() MediaService

	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
