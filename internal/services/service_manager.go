package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/SAP-F-2025/assessment-paper-service/internal/events"
	"github.com/SAP-F-2025/assessment-paper-service/internal/repositories"
	"github.com/SAP-F-2025/assessment-paper-service/internal/storage"
	"github.com/SAP-F-2025/assessment-paper-service/internal/validator"
)

// ServiceManagerConfig holds configuration for the service manager
type ServiceManagerConfig struct {
	// DemoAccountsEnabled turns on demo provisioning during login.
	DemoAccountsEnabled bool
	DefaultTimeout      time.Duration
}

// Dependencies are the collaborators shared by every service.
type Dependencies struct {
	Repo      repositories.Repository
	Logger    *slog.Logger
	Validator *validator.BusinessValidator
	Publisher events.EventPublisher
	Blobs     storage.BlobStore
	// EventObserver is told the outcome of every publish, e.g. for metrics.
	EventObserver func(eventType string, err error)
}

// serviceManager implements ServiceManager interface
type serviceManager struct {
	deps   Dependencies
	config ServiceManagerConfig

	brandingService   BrandingService
	courseService     CourseService
	questionService   QuestionService
	paperService      PaperService
	authService       AuthService
	demoService       DemoAccountService
	departmentService DepartmentService
	programmeService  ProgrammeService
	sessionService    SessionService
	exportService     ExportService
	mediaService      MediaService

	// Lifecycle management
	initialized bool
	shutdown    bool
	mu          sync.RWMutex
}

func NewServiceManager(deps Dependencies, config ServiceManagerConfig) ServiceManager {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Validator == nil {
		deps.Validator = validator.NewBusinessValidator()
	}
	if config.DefaultTimeout == 0 {
		config.DefaultTimeout = 30 * time.Second
	}
	return &serviceManager{deps: deps, config: config}
}

// Initialize sets up all services and their dependencies
func (sm *serviceManager) Initialize(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}
	if sm.deps.Repo == nil {
		return errors.New("service manager requires a repository")
	}

	sm.deps.Logger.Info("Initializing service manager")

	d := sm.deps
	emitter := &eventEmitter{publisher: d.Publisher, observe: d.EventObserver, logger: d.Logger}

	sm.brandingService = NewBrandingService(d.Repo, d.Logger, d.Validator)
	sm.courseService = NewCourseService(d.Repo, d.Logger, d.Validator, emitter)
	sm.questionService = NewQuestionService(d.Repo, d.Logger, d.Validator, emitter)
	sm.paperService = NewPaperService(d.Repo, d.Logger, d.Validator, emitter)
	sm.demoService = NewDemoAccountService(d.Repo, d.Logger)
	sm.authService = NewAuthService(d.Repo, d.Logger, d.Validator, sm.demoService, sm.config.DemoAccountsEnabled)
	sm.departmentService = NewDepartmentService(d.Repo, d.Logger, d.Validator)
	sm.programmeService = NewProgrammeService(d.Repo, d.Logger, d.Validator)
	sm.sessionService = NewSessionService(d.Repo, d.Logger, d.Validator)
	sm.exportService = NewExportService(sm.paperService, d.Logger, emitter)
	if d.Blobs != nil {
		sm.mediaService = NewMediaService(d.Blobs, d.Logger)
	}

	sm.initialized = true
	sm.deps.Logger.Info("Service manager initialized successfully",
		"demo_accounts", sm.config.DemoAccountsEnabled,
		"media", d.Blobs != nil,
		"events", d.Publisher != nil)
	return nil
}

// mustBeReady panics when a getter is used before Initialize.
func (sm *serviceManager) mustBeReady(name string, ok bool) {
	if !sm.initialized {
		panic("service manager not initialized")
	}
	if !ok {
		panic(name + " service not initialized")
	}
}

func (sm *serviceManager) Branding() BrandingService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeReady("branding", sm.brandingService != nil)
	return sm.brandingService
}

func (sm *serviceManager) Course() CourseService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeReady("course", sm.courseService != nil)
	return sm.courseService
}

func (sm *serviceManager) Question() QuestionService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeReady("question", sm.questionService != nil)
	return sm.questionService
}

func (sm *serviceManager) Paper() PaperService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeReady("paper", sm.paperService != nil)
	return sm.paperService
}

func (sm *serviceManager) Auth() AuthService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeReady("auth", sm.authService != nil)
	return sm.authService
}

func (sm *serviceManager) DemoAccounts() DemoAccountService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeReady("demo account", sm.demoService != nil)
	return sm.demoService
}

func (sm *serviceManager) Department() DepartmentService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeReady("department", sm.departmentService != nil)
	return sm.departmentService
}

func (sm *serviceManager) Programme() ProgrammeService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeReady("programme", sm.programmeService != nil)
	return sm.programmeService
}

func (sm *serviceManager) Session() SessionService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeReady("session", sm.sessionService != nil)
	return sm.sessionService
}

func (sm *serviceManager) Export() ExportService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeReady("export", sm.exportService != nil)
	return sm.exportService
}

// Media is nil when no blob store is configured.
func (sm *serviceManager) Media() MediaService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeReady("media", true)
	return sm.mediaService
}

// Health and lifecycle
func (sm *serviceManager) HealthCheck(ctx context.Context) error {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		return fmt.Errorf("service manager not initialized")
	}
	if sm.shutdown {
		return fmt.Errorf("service manager is shut down")
	}

	ctx, cancel := context.WithTimeout(ctx, sm.config.DefaultTimeout)
	defer cancel()
	if err := sm.deps.Repo.Ping(ctx); err != nil {
		return fmt.Errorf("repository health check failed: %w", err)
	}
	return nil
}

func (sm *serviceManager) Shutdown(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.shutdown {
		return nil
	}

	sm.deps.Logger.Info("Shutting down service manager")

	if sm.deps.Publisher != nil {
		if err := sm.deps.Publisher.Close(); err != nil {
			sm.deps.Logger.Error("Failed to close event publisher", "error", err)
		}
	}

	sm.shutdown = true
	sm.deps.Logger.Info("Service manager shut down completed")
	return nil
}
