package services

import (
	"strings"

	"github.com/SAP-F-2025/assessment-paper-service/internal/repositories"
)

// FieldMapping ties an external (JSON) field name to its storage column.
type FieldMapping struct {
	External string
	Column   string
	Writable bool
	Sortable bool
}

type ResourceFields []FieldMapping

func (r ResourceFields) Lookup(external string) (FieldMapping, bool) {
	for _, f := range r {
		if f.External == external {
			return f, true
		}
	}
	return FieldMapping{}, false
}

func (r ResourceFields) IsWritable(external string) bool {
	f, ok := r.Lookup(external)
	return ok && f.Writable
}

// ListOptions turns a DRF-style ordering ("-createdAt") into repository
// options. Unknown or unsortable fields are ignored.
func (r ResourceFields) ListOptions(ordering string, limit, offset int) repositories.ListOptions {
	opts := repositories.ListOptions{Limit: limit, Offset: offset}

	ordering = strings.TrimSpace(strings.SplitN(ordering, ",", 2)[0])
	desc := strings.HasPrefix(ordering, "-")
	if f, ok := r.Lookup(strings.TrimPrefix(ordering, "-")); ok && f.Sortable {
		opts.SortBy = f.Column
		opts.SortOrder = "asc"
		if desc {
			opts.SortOrder = "desc"
		}
	}
	return opts
}

var BrandingFields = ResourceFields{
	{External: "id", Column: "id", Sortable: true},
	{External: "institutionName", Column: "institution_name", Writable: true},
	{External: "logoUrl", Column: "logo_url", Writable: true},
}

var CourseFields = ResourceFields{
	{External: "id", Column: "id", Sortable: true},
	{External: "code", Column: "code", Writable: true, Sortable: true},
	{External: "name", Column: "name", Writable: true, Sortable: true},
	{External: "deptId", Column: "dept_id", Writable: true, Sortable: true},
	{External: "programmeId", Column: "programme_id", Writable: true, Sortable: true},
	{External: "clos", Column: "clos", Writable: true},
	{External: "mqfs", Column: "mqfs", Writable: true},
	{External: "mqfMappings", Column: "mqf_mappings", Writable: true},
	{External: "topics", Column: "topics", Writable: true},
	{External: "assessmentPolicies", Column: "assessment_policies", Writable: true},
	{External: "jsuTemplate", Column: "jsu_template", Writable: true},
}

var QuestionFields = ResourceFields{
	{External: "id", Column: "id", Sortable: true},
	{External: "courseId", Column: "course_id", Writable: true, Sortable: true},
	{External: "sectionTitle", Column: "section_title", Writable: true, Sortable: true},
	{External: "number", Column: "number", Writable: true, Sortable: true},
	{External: "text", Column: "text", Writable: true},
	{External: "answer", Column: "answer", Writable: true},
	{External: "marks", Column: "marks", Writable: true, Sortable: true},
	{External: "taxonomy", Column: "taxonomy", Writable: true, Sortable: true},
	{External: "type", Column: "type", Writable: true, Sortable: true},
	{External: "topic", Column: "topic", Writable: true, Sortable: true},
	{External: "options", Column: "options", Writable: true},
	{External: "cloKeys", Column: "clo_keys", Writable: true},
	{External: "mqfKeys", Column: "mqf_keys", Writable: true},
	{External: "subQuestions", Column: "sub_questions", Writable: true},
	{External: "imageUrl", Column: "image_url", Writable: true},
	{External: "figureLabel", Column: "figure_label", Writable: true},
	{External: "mediaType", Column: "media_type", Writable: true},
	{External: "answerImageUrl", Column: "answer_image_url", Writable: true},
	{External: "answerFigureLabel", Column: "answer_figure_label", Writable: true},
	{External: "tableData", Column: "table_data", Writable: true},
	{External: "construct", Column: "construct", Writable: true},
	{External: "domain", Column: "domain", Writable: true},
}

// PaperFields lists questionIds and questions as writable link keys; they have
// no column of their own.
var PaperFields = ResourceFields{
	{External: "id", Column: "id", Sortable: true},
	{External: "courseId", Column: "course_id", Writable: true, Sortable: true},
	{External: "createdBy", Column: "created_by_id", Sortable: true},
	{External: "createdAt", Column: "created_at", Sortable: true},
	{External: "header", Column: "header", Writable: true},
	{External: "studentInfo", Column: "student_info", Writable: true},
	{External: "footer", Column: "footer", Writable: true},
	{External: "instructions", Column: "instructions", Writable: true},
	{External: "cloDefinitions", Column: "clo_definitions", Writable: true},
	{External: "mqfClusters", Column: "mqf_clusters", Writable: true},
	{External: "matrix", Column: "matrix", Writable: true},
	{External: "status", Column: "status", Writable: true, Sortable: true},
	{External: "questionIds", Writable: true},
	{External: "questions", Writable: true},
}

var DepartmentFields = ResourceFields{
	{External: "id", Column: "id", Sortable: true},
	{External: "name", Column: "name", Writable: true, Sortable: true},
	{External: "headOfDept", Column: "head_of_dept", Writable: true},
}

var ProgrammeFields = ResourceFields{
	{External: "id", Column: "id", Sortable: true},
	{External: "deptId", Column: "dept_id", Writable: true, Sortable: true},
	{External: "name", Column: "name", Writable: true, Sortable: true},
	{External: "code", Column: "code", Writable: true, Sortable: true},
}

var SessionFields = ResourceFields{
	{External: "id", Column: "id", Sortable: true},
	{External: "name", Column: "name", Writable: true, Sortable: true},
	{External: "isActive", Column: "is_active", Writable: true, Sortable: true},
	{External: "isArchived", Column: "is_archived", Writable: true},
}
