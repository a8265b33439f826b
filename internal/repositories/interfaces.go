package repositories

import (
	"github.com/SAP-F-2025/assessment-paper-service/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

// ListOptions carries ordering and optional pagination. SortBy is a column name.
type ListOptions struct {
	SortBy    string `json:"sort_by"`
	SortOrder string `json:"sort_order"` // "asc", "desc"
	Limit     int    `json:"limit"`
	Offset    int    `json:"offset"`
}

type CourseFilters struct {
	DeptID      *string `json:"dept_id"`
	ProgrammeID *string `json:"programme_id"`
	ListOptions
}

type QuestionFilters struct {
	CourseID *uint                `json:"course_id"`
	Type     *models.QuestionType `json:"type"`
	Topic    *string              `json:"topic"`
	Taxonomy *string              `json:"taxonomy"`
	IDs      []uint               `json:"ids"`
	ListOptions
}

type PaperFilters struct {
	Status    *models.PaperStatus `json:"status"`
	CourseID  *uint               `json:"course_id"`
	CreatedBy *uint               `json:"created_by"`
	ListOptions
}

type ProgrammeFilters struct {
	DeptID *string `json:"dept_id"`
	ListOptions
}
