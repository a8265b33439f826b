package services

import (
	"errors"

	"github.com/SAP-F-2025/assessment-paper-service/internal/validator"
)

type ValidationError = validator.ValidationError
type ValidationErrors = validator.ValidationErrors

var (
	ErrBrandingNotFound   = errors.New("branding not found")
	ErrCourseNotFound     = errors.New("course not found")
	ErrQuestionNotFound   = errors.New("question not found")
	ErrPaperNotFound      = errors.New("paper not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrDepartmentNotFound = errors.New("department not found")
	ErrProgrammeNotFound  = errors.New("programme not found")
	ErrSessionNotFound    = errors.New("session not found")
	ErrMediaNotFound      = errors.New("media not found")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrUnauthenticated    = errors.New("authentication credentials were not provided")
)

// NotFoundMessage is the response text for a not-found sentinel, or "" when
// err is not one.
func NotFoundMessage(err error) string {
	switch {
	case errors.Is(err, ErrBrandingNotFound):
		return "Branding not found"
	case errors.Is(err, ErrCourseNotFound):
		return "Course not found"
	case errors.Is(err, ErrQuestionNotFound):
		return "Question not found"
	case errors.Is(err, ErrPaperNotFound):
		return "Paper not found"
	case errors.Is(err, ErrUserNotFound):
		return "User not found"
	case errors.Is(err, ErrDepartmentNotFound):
		return "Department not found"
	case errors.Is(err, ErrProgrammeNotFound):
		return "Programme not found"
	case errors.Is(err, ErrSessionNotFound):
		return "Session not found"
	case errors.Is(err, ErrMediaNotFound):
		return "Media not found"
	}
	return ""
}
