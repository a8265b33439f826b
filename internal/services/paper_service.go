package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/SAP-F-2025/assessment-paper-service/internal/events"
	"github.com/SAP-F-2025/assessment-paper-service/internal/models"
	"github.com/SAP-F-2025/assessment-paper-service/internal/repositories"
	"github.com/SAP-F-2025/assessment-paper-service/internal/validator"
	"gorm.io/datatypes"
)

type paperService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.BusinessValidator
	events    *eventEmitter
}

func NewPaperService(repo repositories.Repository, logger *slog.Logger, v *validator.BusinessValidator, emitter *eventEmitter) PaperService {
	return &paperService{
		repo:      repo,
		logger:    logger,
		validator: v,
		events:    emitter,
	}
}

// ===== CORE CRUD OPERATIONS =====

func (s *paperService) Create(ctx context.Context, req *PaperRequest, actorID *uint) (*PaperResponse, error) {
	if errs := s.validator.ValidatePaper(req); len(errs) > 0 {
		return nil, errs
	}

	paper := &models.AssessmentPaper{CreatedByID: actorID}
	applyPaperRequest(paper, req)
	if paper.Status == "" {
		paper.Status = models.PaperDraft
	}

	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		questionIDs, provided, err := s.resolveLinks(ctx, tx, req)
		if err != nil {
			return err
		}
		if err := tx.Paper().Create(ctx, nil, paper); err != nil {
			return err
		}
		if provided {
			return tx.Paper().ReplaceQuestions(ctx, nil, paper.ID, questionIDs)
		}
		return nil
	})
	if err != nil {
		return nil, passThrough(err, "failed to create paper")
	}

	s.events.emit(ctx, events.PaperCreated, paper.ID, actorID, string(paper.Status))
	s.logger.Info("Paper created", "paper_id", paper.ID, "status", paper.Status)
	return s.GetByID(ctx, paper.ID)
}

func (s *paperService) GetByID(ctx context.Context, id uint) (*PaperResponse, error) {
	paper, err := s.repo.Paper().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrPaperNotFound
		}
		return nil, fmt.Errorf("failed to get paper: %w", err)
	}

	questions, err := s.repo.Question().GetByPaper(ctx, nil, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get paper questions: %w", err)
	}
	return newPaperResponse(paper, questions), nil
}

// Update rewrites the stored paper. Links change only when the body carries
// questions or questionIds.
func (s *paperService) Update(ctx context.Context, id uint, body map[string]json.RawMessage, partial bool, actorID *uint) (*PaperResponse, error) {
	if !partial {
		if err := checkComplete(body, s.validator.ValidatePaper); err != nil {
			return nil, err
		}
	}

	var status models.PaperStatus
	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		paper, err := tx.Paper().GetByID(ctx, nil, id)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrPaperNotFound
			}
			return err
		}

		merged, err := mergeBody(paper, body, PaperFields, "questionIds", "questions")
		if err != nil {
			return err
		}
		req, err := decodeRequest[PaperRequest](merged)
		if err != nil {
			return err
		}
		if errs := s.validator.ValidatePaper(req); len(errs) > 0 {
			return errs
		}

		questionIDs, provided, err := s.resolveLinks(ctx, tx, req)
		if err != nil {
			return err
		}

		applyPaperRequest(paper, req)
		if paper.Status == "" {
			paper.Status = models.PaperDraft
		}
		if err := tx.Paper().Update(ctx, nil, paper); err != nil {
			return err
		}
		status = paper.Status
		if provided {
			return tx.Paper().ReplaceQuestions(ctx, nil, id, questionIDs)
		}
		return nil
	})
	if err != nil {
		return nil, passThrough(err, "failed to update paper", ErrPaperNotFound)
	}

	s.events.emit(ctx, events.PaperUpdated, id, actorID, string(status))
	return s.GetByID(ctx, id)
}

func (s *paperService) Delete(ctx context.Context, id uint, actorID *uint) error {
	if err := s.repo.Paper().Delete(ctx, nil, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrPaperNotFound
		}
		return fmt.Errorf("failed to delete paper: %w", err)
	}

	s.events.emit(ctx, events.PaperDeleted, id, actorID, "")
	s.logger.Info("Paper deleted", "paper_id", id)
	return nil
}

func (s *paperService) List(ctx context.Context, filters repositories.PaperFilters) ([]*PaperResponse, error) {
	papers, err := s.repo.Paper().List(ctx, nil, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list papers: %w", err)
	}

	ids := make([]uint, len(papers))
	for i, p := range papers {
		ids[i] = p.ID
	}
	byPaper, err := s.repo.Question().GetByPapers(ctx, nil, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load paper questions: %w", err)
	}

	responses := make([]*PaperResponse, len(papers))
	for i, p := range papers {
		responses[i] = newPaperResponse(p, byPaper[p.ID])
	}
	return responses, nil
}

// ===== HELPERS =====

// resolveLinks checks the course reference and the linked question ids of req.
func (s *paperService) resolveLinks(ctx context.Context, tx repositories.Repository, req *PaperRequest) ([]uint, bool, error) {
	if req.CourseID != 0 {
		exists, err := tx.Course().ExistsByID(ctx, nil, uint(req.CourseID))
		if err != nil {
			return nil, false, fmt.Errorf("failed to check course: %w", err)
		}
		if !exists {
			return nil, false, missingReference("courseId", uint(req.CourseID))
		}
	}

	ids, dropped, provided := req.LinkedQuestionIDs()
	if !provided {
		return nil, false, nil
	}
	if dropped > 0 {
		s.logger.Warn("Dropped paper question items without a usable id", "dropped", dropped)
	}
	if len(ids) == 0 {
		return ids, true, nil
	}

	existing, err := tx.Question().ExistingIDs(ctx, nil, ids)
	if err != nil {
		return nil, false, fmt.Errorf("failed to check questions: %w", err)
	}
	found := make(map[uint]struct{}, len(existing))
	for _, id := range existing {
		found[id] = struct{}{}
	}
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			return nil, false, missingReference("questionIds", id)
		}
	}
	return ids, true, nil
}

func newPaperResponse(paper *models.AssessmentPaper, questions []*models.Question) *PaperResponse {
	questions = nonNilSlice(questions)
	ids := make([]uint, len(questions))
	for i, q := range questions {
		ids[i] = q.ID
	}
	return &PaperResponse{
		AssessmentPaper: paper,
		QuestionIDs:     ids,
		Questions:       questions,
	}
}

func applyPaperRequest(p *models.AssessmentPaper, req *PaperRequest) {
	p.CourseID = req.CourseID.Ptr()
	p.Header = datatypes.NewJSONType(*req.Header)
	p.StudentInfo = datatypes.NewJSONType(*req.StudentInfo)
	p.Footer = datatypes.NewJSONType(*req.Footer)
	p.Instructions = nonNilSlice(req.Instructions)
	p.CLODefinitions = datatypes.NewJSONType(nonNilMap(req.CLODefinitions))
	p.MQFClusters = datatypes.NewJSONType(nonNilMap(req.MQFClusters))
	p.Matrix = nonNilSlice(req.Matrix)
	p.Status = req.Status
}
