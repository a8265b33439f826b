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

type courseService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.BusinessValidator
	events    *eventEmitter
}

func NewCourseService(repo repositories.Repository, logger *slog.Logger, v *validator.BusinessValidator, emitter *eventEmitter) CourseService {
	return &courseService{
		repo:      repo,
		logger:    logger,
		validator: v,
		events:    emitter,
	}
}

// ===== CORE CRUD OPERATIONS =====

func (s *courseService) Create(ctx context.Context, req *CourseRequest, actorID *uint) (*models.Course, error) {
	s.logger.Info("Creating course", "code", req.Code)

	if errs := s.validator.ValidateCourse(req); len(errs) > 0 {
		return nil, errs
	}
	if err := s.checkCodeAvailable(ctx, nil, req.Code, nil); err != nil {
		return nil, err
	}

	course := &models.Course{}
	applyCourseRequest(course, req)

	if err := s.repo.Course().Create(ctx, nil, course); err != nil {
		if repositories.IsDuplicateKeyError(err) {
			return nil, duplicateCourseCode(req.Code)
		}
		return nil, fmt.Errorf("failed to create course: %w", err)
	}

	s.events.emit(ctx, events.CourseCreated, course.ID, actorID, course.Code)
	s.logger.Info("Course created", "course_id", course.ID, "code", course.Code)
	return course, nil
}

func (s *courseService) GetByID(ctx context.Context, id uint) (*models.Course, error) {
	course, err := s.repo.Course().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}
	return course, nil
}

func (s *courseService) Update(ctx context.Context, id uint, body map[string]json.RawMessage, partial bool, actorID *uint) (*models.Course, error) {
	if !partial {
		if err := checkComplete(body, s.validator.ValidateCourse); err != nil {
			return nil, err
		}
	}

	var updated *models.Course
	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		course, err := tx.Course().GetByID(ctx, nil, id)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrCourseNotFound
			}
			return err
		}

		merged, err := mergeBody(course, body, CourseFields)
		if err != nil {
			return err
		}
		req, err := decodeRequest[CourseRequest](merged)
		if err != nil {
			return err
		}
		if errs := s.validator.ValidateCourse(req); len(errs) > 0 {
			return errs
		}
		if req.Code != course.Code {
			if err := s.checkCodeAvailable(ctx, tx, req.Code, &id); err != nil {
				return err
			}
		}

		applyCourseRequest(course, req)
		if err := tx.Course().Update(ctx, nil, course); err != nil {
			if repositories.IsDuplicateKeyError(err) {
				return duplicateCourseCode(req.Code)
			}
			return err
		}
		updated = course
		return nil
	})
	if err != nil {
		return nil, passThrough(err, "failed to update course", ErrCourseNotFound)
	}

	s.events.emit(ctx, events.CourseUpdated, id, actorID, updated.Code)
	return updated, nil
}

// Delete detaches the course from its questions and papers before removing it.
func (s *courseService) Delete(ctx context.Context, id uint, actorID *uint) error {
	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		exists, err := tx.Course().ExistsByID(ctx, nil, id)
		if err != nil {
			return err
		}
		if !exists {
			return ErrCourseNotFound
		}
		if err := tx.Question().ClearCourse(ctx, nil, id); err != nil {
			return err
		}
		if err := tx.Paper().ClearCourse(ctx, nil, id); err != nil {
			return err
		}
		return tx.Course().Delete(ctx, nil, id)
	})
	if err != nil {
		if errors.Is(err, ErrCourseNotFound) || repositories.IsNotFoundError(err) {
			return ErrCourseNotFound
		}
		return fmt.Errorf("failed to delete course: %w", err)
	}

	s.events.emit(ctx, events.CourseDeleted, id, actorID, "")
	s.logger.Info("Course deleted", "course_id", id)
	return nil
}

func (s *courseService) List(ctx context.Context, filters repositories.CourseFilters) ([]*models.Course, error) {
	courses, err := s.repo.Course().List(ctx, nil, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	return courses, nil
}

// ===== HELPERS =====

func (s *courseService) checkCodeAvailable(ctx context.Context, tx repositories.Repository, code string, excludeID *uint) error {
	repo := s.repo
	if tx != nil {
		repo = tx
	}
	exists, err := repo.Course().ExistsByCode(ctx, nil, code, excludeID)
	if err != nil {
		return fmt.Errorf("failed to check course code: %w", err)
	}
	if exists {
		return duplicateCourseCode(code)
	}
	return nil
}

func duplicateCourseCode(code string) ValidationErrors {
	return validator.Field("code", "course with this code already exists", code, "unique")
}

func applyCourseRequest(course *models.Course, req *CourseRequest) {
	course.Code = req.Code
	course.Name = req.Name
	course.DeptID = req.DeptID
	course.ProgrammeID = req.ProgrammeID
	course.CLOs = datatypes.NewJSONType(nonNilMap(req.CLOs))
	course.MQFs = datatypes.NewJSONType(nonNilMap(req.MQFs))
	course.MQFMappings = datatypes.NewJSONType(nonNilMap(req.MQFMappings))
	course.Topics = nonNilSlice(req.Topics)
	course.JSUTemplate = nonNilSlice(req.JSUTemplate)

	policies := []byte(req.AssessmentPolicies)
	if len(policies) == 0 || string(policies) == "null" {
		policies = []byte("[]")
	}
	course.AssessmentPolicies = datatypes.JSON(policies)
}
