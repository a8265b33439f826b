package validator

import (
	"encoding/json"

	"github.com/SAP-F-2025/assessment-paper-service/internal/models"
)

// BrandingRequest is the write shape of an institutional branding row
type BrandingRequest struct {
	InstitutionName string  `json:"institutionName" validate:"required,max=255"`
	LogoURL         *string `json:"logoUrl"`
}

// CourseRequest carries the registry data verbatim; maps and lists are not
// cross-checked against each other.
type CourseRequest struct {
	Code        string `json:"code" validate:"required,max=20"`
	Name        string `json:"name" validate:"required,max=255"`
	DeptID      string `json:"deptId" validate:"max=100"`
	ProgrammeID string `json:"programmeId" validate:"max=100"`

	CLOs        map[string]string   `json:"clos"`
	MQFs        map[string]string   `json:"mqfs"`
	MQFMappings map[string][]string `json:"mqfMappings"`

	Topics             []string           `json:"topics"`
	AssessmentPolicies json.RawMessage    `json:"assessmentPolicies"`
	JSUTemplate        []models.MatrixRow `json:"jsuTemplate"`
}

type QuestionRequest struct {
	CourseID     ID                  `json:"courseId"`
	SectionTitle string              `json:"sectionTitle" validate:"max=255"`
	Number       string              `json:"number" validate:"max=10"`
	Text         string              `json:"text" validate:"required"`
	Answer       string              `json:"answer"`
	Marks        *int                `json:"marks"`
	Taxonomy     string              `json:"taxonomy" validate:"max=10"`
	Type         models.QuestionType `json:"type" validate:"omitempty,question_type"`
	Topic        string              `json:"topic" validate:"max=255"`

	Options      []string              `json:"options"`
	CLOKeys      []string              `json:"cloKeys"`
	MQFKeys      []string              `json:"mqfKeys"`
	SubQuestions []models.QuestionPart `json:"subQuestions"`

	ImageURL          *string           `json:"imageUrl"`
	FigureLabel       string            `json:"figureLabel" validate:"max=100"`
	MediaType         *models.MediaType `json:"mediaType" validate:"omitempty,media_type"`
	AnswerImageURL    *string           `json:"answerImageUrl"`
	AnswerFigureLabel string            `json:"answerFigureLabel" validate:"max=100"`
	TableData         *models.TableData `json:"tableData"`

	Construct string `json:"construct" validate:"max=50"`
	Domain    string `json:"domain" validate:"max=50"`
}

// PaperRequest is shared by create, PUT and merged PATCH bodies.
// QuestionIDs stays nil when the key is absent; Questions, when present,
// replaces QuestionIDs.
type PaperRequest struct {
	CourseID ID `json:"courseId"`

	Header         *models.HeaderData         `json:"header" validate:"required"`
	StudentInfo    *models.StudentSectionData `json:"studentInfo" validate:"required"`
	Footer         *models.FooterData         `json:"footer" validate:"required"`
	Instructions   []string                   `json:"instructions"`
	CLODefinitions map[string]string          `json:"cloDefinitions"`
	MQFClusters    map[string]string          `json:"mqfClusters"`
	Matrix         []models.MatrixRow         `json:"matrix"`

	Status models.PaperStatus `json:"status" validate:"omitempty,paper_status"`

	QuestionIDs []ID              `json:"questionIds"`
	Questions   []json.RawMessage `json:"questions"`
}

// LinkedQuestionIDs resolves the question ids the request asks for.
// provided is false when neither key was sent.
func (r *PaperRequest) LinkedQuestionIDs() (ids []uint, dropped int, provided bool) {
	if r.Questions != nil {
		ids, dropped = NestedQuestionIDs(r.Questions)
		return ids, dropped, true
	}
	if r.QuestionIDs == nil {
		return nil, 0, false
	}

	seen := make(map[uint]struct{}, len(r.QuestionIDs))
	ids = make([]uint, 0, len(r.QuestionIDs))
	for _, id := range r.QuestionIDs {
		if id == 0 {
			dropped++
			continue
		}
		if _, dup := seen[uint(id)]; dup {
			continue
		}
		seen[uint(id)] = struct{}{}
		ids = append(ids, uint(id))
	}
	return ids, dropped, true
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=150"`
	Password string `json:"password" validate:"required,min=6,max=128"`
	FullName string `json:"full_name" validate:"max=255"`
	Position string `json:"position" validate:"max=255"`
	DeptID   string `json:"deptId" validate:"max=100"`
}

type DepartmentRequest struct {
	Name       string `json:"name" validate:"required,max=255"`
	HeadOfDept string `json:"headOfDept" validate:"max=255"`
}

type ProgrammeRequest struct {
	DeptID string `json:"deptId" validate:"max=100"`
	Name   string `json:"name" validate:"required,max=255"`
	Code   string `json:"code" validate:"max=50"`
}

type SessionRequest struct {
	Name       string `json:"name" validate:"required,max=100"`
	IsActive   bool   `json:"isActive"`
	IsArchived bool   `json:"isArchived"`
}
