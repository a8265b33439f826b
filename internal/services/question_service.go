package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SAP-F-2025/assessment-paper-service/internal/events"
	"github.com/SAP-F-2025/assessment-paper-service/internal/models"
	"github.com/SAP-F-2025/assessment-paper-service/internal/repositories"
	"github.com/SAP-F-2025/assessment-paper-service/internal/validator"
	"gorm.io/datatypes"
)

type questionService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.BusinessValidator
	events    *eventEmitter
}

func NewQuestionService(repo repositories.Repository, logger *slog.Logger, v *validator.BusinessValidator, emitter *eventEmitter) QuestionService {
	return &questionService{
		repo:      repo,
		logger:    logger,
		validator: v,
		events:    emitter,
	}
}

// ===== CORE CRUD OPERATIONS =====

func (s *questionService) Create(ctx context.Context, req *QuestionRequest, actorID *uint) (*models.Question, error) {
	s.logger.Info("Creating question", "type", req.Type, "course_id", uint(req.CourseID))

	if errs := s.validator.ValidateQuestion(req); len(errs) > 0 {
		return nil, errs
	}
	if err := s.checkCourse(ctx, s.repo, req.CourseID); err != nil {
		return nil, err
	}

	question := &models.Question{}
	applyQuestionRequest(question, req)

	if err := s.repo.Question().Create(ctx, nil, question); err != nil {
		return nil, fmt.Errorf("failed to create question: %w", err)
	}

	s.events.emit(ctx, events.QuestionCreated, question.ID, actorID, string(question.Type))
	s.logger.Info("Question created", "question_id", question.ID)
	return question, nil
}

func (s *questionService) GetByID(ctx context.Context, id uint) (*models.Question, error) {
	question, err := s.repo.Question().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("failed to get question: %w", err)
	}
	return question, nil
}

func (s *questionService) Update(ctx context.Context, id uint, body map[string]json.RawMessage, partial bool, actorID *uint) (*models.Question, error) {
	if !partial {
		if err := checkComplete(body, s.validator.ValidateQuestion); err != nil {
			return nil, err
		}
	}

	var updated *models.Question
	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		question, err := tx.Question().GetByID(ctx, nil, id)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrQuestionNotFound
			}
			return err
		}

		merged, err := mergeBody(question, body, QuestionFields)
		if err != nil {
			return err
		}
		req, err := decodeRequest[QuestionRequest](merged)
		if err != nil {
			return err
		}
		if errs := s.validator.ValidateQuestion(req); len(errs) > 0 {
			return errs
		}
		if err := s.checkCourse(ctx, tx, req.CourseID); err != nil {
			return err
		}

		applyQuestionRequest(question, req)
		if err := tx.Question().Update(ctx, nil, question); err != nil {
			return err
		}
		updated = question
		return nil
	})
	if err != nil {
		return nil, passThrough(err, "failed to update question", ErrQuestionNotFound)
	}

	s.events.emit(ctx, events.QuestionUpdated, id, actorID, string(updated.Type))
	return updated, nil
}

func (s *questionService) Delete(ctx context.Context, id uint, actorID *uint) error {
	if err := s.repo.Question().Delete(ctx, nil, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrQuestionNotFound
		}
		return fmt.Errorf("failed to delete question: %w", err)
	}

	s.events.emit(ctx, events.QuestionDeleted, id, actorID, "")
	s.logger.Info("Question deleted", "question_id", id)
	return nil
}

func (s *questionService) List(ctx context.Context, filters repositories.QuestionFilters) ([]*models.Question, error) {
	questions, err := s.repo.Question().List(ctx, nil, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	return questions, nil
}

// ===== HELPERS =====

// checkCourse rejects a courseId that does not reference a stored course.
func (s *questionService) checkCourse(ctx context.Context, repo repositories.Repository, courseID validator.ID) error {
	if courseID == 0 {
		return nil
	}
	exists, err := repo.Course().ExistsByID(ctx, nil, uint(courseID))
	if err != nil {
		return fmt.Errorf("failed to check course: %w", err)
	}
	if !exists {
		return missingReference("courseId", uint(courseID))
	}
	return nil
}

func missingReference(field string, id uint) ValidationErrors {
	return validator.Field(field, fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", id), id, "exists")
}

// passThrough returns validation errors and the given sentinels unchanged and
// wraps everything else.
func passThrough(err error, msg string, sentinels ...error) error {
	var verrs ValidationErrors
	if errors.As(err, &verrs) {
		return err
	}
	for _, sentinel := range sentinels {
		if errors.Is(err, sentinel) {
			return err
		}
	}
	return fmt.Errorf("%s: %w", msg, err)
}

func applyQuestionRequest(q *models.Question, req *QuestionRequest) {
	q.CourseID = req.CourseID.Ptr()
	q.SectionTitle = req.SectionTitle
	q.Number = req.Number
	q.Text = req.Text
	q.Answer = req.Answer
	q.Taxonomy = req.Taxonomy
	q.Topic = req.Topic

	q.Marks = 1
	if req.Marks != nil {
		q.Marks = *req.Marks
	}
	q.Type = req.Type
	if q.Type == "" {
		q.Type = models.QuestionMCQ
	}

	q.Options = nonNilSlice(req.Options)
	q.CLOKeys = nonNilSlice(req.CLOKeys)
	q.MQFKeys = nonNilSlice(req.MQFKeys)
	q.SubQuestions = nonNilSlice(req.SubQuestions)

	q.ImageURL = req.ImageURL
	q.FigureLabel = req.FigureLabel
	q.MediaType = req.MediaType
	q.AnswerImageURL = req.AnswerImageURL
	q.AnswerFigureLabel = req.AnswerFigureLabel
	q.TableData = datatypes.JSONType[models.TableData]{}
	if req.TableData != nil {
		q.TableData = datatypes.NewJSONType(*req.TableData)
	}

	q.Construct = req.Construct
	q.Domain = req.Domain
}
