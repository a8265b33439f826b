package models

import (
	"time"

	"gorm.io/datatypes"
)

type PaperStatus string

const (
	PaperDraft    PaperStatus = "draft"
	PaperReviewed PaperStatus = "reviewed"
	PaperEndorsed PaperStatus = "endorsed"
)

func (s PaperStatus) IsValid() bool {
	switch s {
	case PaperDraft, PaperReviewed, PaperEndorsed:
		return true
	}
	return false
}

type AssessmentPaper struct {
	ID       uint    `json:"id" gorm:"primaryKey"`
	CourseID *uint   `json:"courseId" gorm:"index"`
	Course   *Course `json:"-" gorm:"foreignKey:CourseID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`

	CreatedByID *uint     `json:"createdBy" gorm:"column:created_by_id;index"`
	Creator     *User     `json:"-" gorm:"foreignKey:CreatedByID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
	CreatedAt   time.Time `json:"createdAt" gorm:"index"`
	UpdatedAt   time.Time `json:"-"`

	Header         datatypes.JSONType[HeaderData]         `json:"header"`
	StudentInfo    datatypes.JSONType[StudentSectionData] `json:"studentInfo" gorm:"column:student_info"`
	Footer         datatypes.JSONType[FooterData]         `json:"footer"`
	Instructions   datatypes.JSONSlice[string]            `json:"instructions"`
	CLODefinitions datatypes.JSONType[map[string]string]  `json:"cloDefinitions" gorm:"column:clo_definitions"`
	MQFClusters    datatypes.JSONType[map[string]string]  `json:"mqfClusters" gorm:"column:mqf_clusters"`
	Matrix         datatypes.JSONSlice[MatrixRow]         `json:"matrix"`

	Status PaperStatus `json:"status" gorm:"size:20;not null;default:draft;index"`
}

func (AssessmentPaper) TableName() string {
	return "assessment_papers"
}

// PaperQuestion links a paper to a bank question.
type PaperQuestion struct {
	PaperID    uint      `json:"paperId" gorm:"primaryKey"`
	QuestionID uint      `json:"questionId" gorm:"primaryKey;index"`
	CreatedAt  time.Time `json:"-"`
}

func (PaperQuestion) TableName() string {
	return "paper_questions"
}
