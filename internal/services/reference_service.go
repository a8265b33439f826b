package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/SAP-F-2025/assessment-paper-service/internal/models"
	"github.com/SAP-F-2025/assessment-paper-service/internal/repositories"
	"github.com/SAP-F-2025/assessment-paper-service/internal/validator"
)

// referenceService implements ReferenceService for one model M written
// through request R.
type referenceService[M any, R any] struct {
	repo     repositories.Repository
	logger   *slog.Logger
	name     string
	fields   ResourceFields
	notFound error

	store    func(repositories.Repository) repositories.CRUDRepository[M]
	id       func(*M) uint
	validate func(*R) ValidationErrors
	build    func(*R) *M
	apply    func(*M, *R)
	// afterSave runs inside the write transaction.
	afterSave func(ctx context.Context, tx repositories.Repository, m *M) error
}

func (s *referenceService[M, R]) List(ctx context.Context, opts repositories.ListOptions) ([]*M, error) {
	items, err := s.store(s.repo).List(ctx, nil, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", s.name, err)
	}
	return items, nil
}

func (s *referenceService[M, R]) Create(ctx context.Context, req *R) (*M, error) {
	if errs := s.validate(req); len(errs) > 0 {
		return nil, errs
	}

	item := s.build(req)
	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		if err := s.store(tx).Create(ctx, nil, item); err != nil {
			return err
		}
		if s.afterSave != nil {
			return s.afterSave(ctx, tx, item)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", s.name, err)
	}

	s.logger.Info("Created "+s.name, "id", s.id(item))
	return s.GetByID(ctx, s.id(item))
}

func (s *referenceService[M, R]) GetByID(ctx context.Context, id uint) (*M, error) {
	item, err := s.store(s.repo).GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, s.notFound
		}
		return nil, fmt.Errorf("failed to get %s: %w", s.name, err)
	}
	return item, nil
}

func (s *referenceService[M, R]) Update(ctx context.Context, id uint, body map[string]json.RawMessage, partial bool) (*M, error) {
	if !partial {
		if err := checkComplete(body, s.validate); err != nil {
			return nil, err
		}
	}

	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		item, err := s.store(tx).GetByID(ctx, nil, id)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return s.notFound
			}
			return err
		}

		merged, err := mergeBody(item, body, s.fields)
		if err != nil {
			return err
		}
		req, err := decodeRequest[R](merged)
		if err != nil {
			return err
		}
		if errs := s.validate(req); len(errs) > 0 {
			return errs
		}

		s.apply(item, req)
		if err := s.store(tx).Update(ctx, nil, item); err != nil {
			return err
		}
		if s.afterSave != nil {
			return s.afterSave(ctx, tx, item)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Updated "+s.name, "id", id)
	return s.GetByID(ctx, id)
}

func (s *referenceService[M, R]) Delete(ctx context.Context, id uint) error {
	if err := s.store(s.repo).Delete(ctx, nil, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return s.notFound
		}
		return fmt.Errorf("failed to delete %s: %w", s.name, err)
	}
	s.logger.Info("Deleted "+s.name, "id", id)
	return nil
}

// ===== BRANDING =====

type brandingService struct {
	*referenceService[models.Branding, BrandingRequest]
}

func NewBrandingService(repo repositories.Repository, logger *slog.Logger, v *validator.BusinessValidator) BrandingService {
	return &brandingService{&referenceService[models.Branding, BrandingRequest]{
		repo:     repo,
		logger:   logger,
		name:     "branding",
		fields:   BrandingFields,
		notFound: ErrBrandingNotFound,
		store: func(r repositories.Repository) repositories.CRUDRepository[models.Branding] {
			return r.Branding()
		},
		id:       func(b *models.Branding) uint { return b.ID },
		validate: v.ValidateBranding,
		build: func(req *BrandingRequest) *models.Branding {
			return &models.Branding{InstitutionName: req.InstitutionName, LogoURL: req.LogoURL}
		},
		apply: func(b *models.Branding, req *BrandingRequest) {
			b.InstitutionName = req.InstitutionName
			b.LogoURL = req.LogoURL
		},
	}}
}

// List seeds the default row on an empty table before listing.
func (s *brandingService) List(ctx context.Context, opts repositories.ListOptions) ([]*models.Branding, error) {
	if _, err := s.EnsureDefault(ctx); err != nil {
		return nil, err
	}
	return s.referenceService.List(ctx, opts)
}

func (s *brandingService) EnsureDefault(ctx context.Context) (*models.Branding, error) {
	count, err := s.repo.Branding().Count(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to count branding: %w", err)
	}
	if count > 0 {
		return nil, nil
	}

	branding, err := s.repo.Branding().EnsureDefault(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure default branding: %w", err)
	}
	s.logger.Info("Seeded default branding", "id", branding.ID)
	return branding, nil
}

// ===== ACADEMIC DIRECTORY =====

type departmentService struct {
	*referenceService[models.Department, DepartmentRequest]
}

func NewDepartmentService(repo repositories.Repository, logger *slog.Logger, v *validator.BusinessValidator) DepartmentService {
	return &departmentService{&referenceService[models.Department, DepartmentRequest]{
		repo:     repo,
		logger:   logger,
		name:     "department",
		fields:   DepartmentFields,
		notFound: ErrDepartmentNotFound,
		store: func(r repositories.Repository) repositories.CRUDRepository[models.Department] {
			return r.Department()
		},
		id:       func(d *models.Department) uint { return d.ID },
		validate: func(req *DepartmentRequest) ValidationErrors { return v.Validate(req) },
		build: func(req *DepartmentRequest) *models.Department {
			return &models.Department{Name: req.Name, HeadOfDept: req.HeadOfDept}
		},
		apply: func(d *models.Department, req *DepartmentRequest) {
			d.Name = req.Name
			d.HeadOfDept = req.HeadOfDept
		},
	}}
}

type programmeService struct {
	*referenceService[models.Programme, ProgrammeRequest]
}

func NewProgrammeService(repo repositories.Repository, logger *slog.Logger, v *validator.BusinessValidator) ProgrammeService {
	return &programmeService{&referenceService[models.Programme, ProgrammeRequest]{
		repo:     repo,
		logger:   logger,
		name:     "programme",
		fields:   ProgrammeFields,
		notFound: ErrProgrammeNotFound,
		store: func(r repositories.Repository) repositories.CRUDRepository[models.Programme] {
			return r.Programme()
		},
		id:       func(p *models.Programme) uint { return p.ID },
		validate: func(req *ProgrammeRequest) ValidationErrors { return v.Validate(req) },
		build: func(req *ProgrammeRequest) *models.Programme {
			return &models.Programme{DeptID: req.DeptID, Name: req.Name, Code: req.Code}
		},
		apply: func(p *models.Programme, req *ProgrammeRequest) {
			p.DeptID = req.DeptID
			p.Name = req.Name
			p.Code = req.Code
		},
	}}
}

func (s *programmeService) ListByFilters(ctx context.Context, filters repositories.ProgrammeFilters) ([]*models.Programme, error) {
	programmes, err := s.repo.Programme().ListByFilters(ctx, nil, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list programmes: %w", err)
	}
	return programmes, nil
}

type sessionService struct {
	*referenceService[models.AcademicSession, SessionRequest]
}

func NewSessionService(repo repositories.Repository, logger *slog.Logger, v *validator.BusinessValidator) SessionService {
	return &sessionService{&referenceService[models.AcademicSession, SessionRequest]{
		repo:     repo,
		logger:   logger,
		name:     "session",
		fields:   SessionFields,
		notFound: ErrSessionNotFound,
		store: func(r repositories.Repository) repositories.CRUDRepository[models.AcademicSession] {
			return r.Session()
		},
		id:       func(s *models.AcademicSession) uint { return s.ID },
		validate: func(req *SessionRequest) ValidationErrors { return v.Validate(req) },
		build: func(req *SessionRequest) *models.AcademicSession {
			return &models.AcademicSession{Name: req.Name, IsActive: req.IsActive, IsArchived: req.IsArchived}
		},
		apply: func(s *models.AcademicSession, req *SessionRequest) {
			s.Name = req.Name
			s.IsActive = req.IsActive
			s.IsArchived = req.IsArchived
		},
		// an active session always archives the others
		afterSave: func(ctx context.Context, tx repositories.Repository, s *models.AcademicSession) error {
			if !s.IsActive {
				return nil
			}
			return tx.Session().Activate(ctx, nil, s.ID)
		},
	}}
}

func (s *sessionService) Activate(ctx context.Context, id uint) (*models.AcademicSession, error) {
	if err := s.repo.Session().Activate(ctx, nil, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to activate session: %w", err)
	}
	s.logger.Info("Activated session", "id", id)
	return s.GetByID(ctx, id)
}
