package models

import (
	"time"

	"gorm.io/datatypes"
)

type QuestionType string

const (
	QuestionMCQ          QuestionType = "mcq"
	QuestionShortAnswer  QuestionType = "short-answer"
	QuestionEssay        QuestionType = "essay"
	QuestionCalculation  QuestionType = "calculation"
	QuestionDiagramLabel QuestionType = "diagram-label"
	QuestionMeasurement  QuestionType = "measurement"
	QuestionStructure    QuestionType = "structure"
)

var QuestionTypes = []QuestionType{
	QuestionMCQ, QuestionShortAnswer, QuestionEssay, QuestionCalculation,
	QuestionDiagramLabel, QuestionMeasurement, QuestionStructure,
}

func (t QuestionType) IsValid() bool {
	for _, v := range QuestionTypes {
		if t == v {
			return true
		}
	}
	return false
}

type MediaType string

const (
	MediaFigure      MediaType = "figure"
	MediaTable       MediaType = "table"
	MediaTableFigure MediaType = "table-figure"
)

func (m MediaType) IsValid() bool {
	switch m {
	case "", MediaFigure, MediaTable, MediaTableFigure:
		return true
	}
	return false
}

type Question struct {
	ID       uint    `json:"id" gorm:"primaryKey"`
	CourseID *uint   `json:"courseId" gorm:"index"`
	Course   *Course `json:"-" gorm:"foreignKey:CourseID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`

	SectionTitle string       `json:"sectionTitle" gorm:"size:255"`
	Number       string       `json:"number" gorm:"size:10"`
	Text         string       `json:"text" gorm:"type:text;not null"`
	Answer       string       `json:"answer" gorm:"type:text"`
	Marks        int          `json:"marks" gorm:"not null"`
	Taxonomy     string       `json:"taxonomy" gorm:"size:10;index"`
	Type         QuestionType `json:"type" gorm:"size:20;not null;default:mcq;index"`
	Topic        string       `json:"topic" gorm:"size:255;index"`

	Options      datatypes.JSONSlice[string]       `json:"options"`
	CLOKeys      datatypes.JSONSlice[string]       `json:"cloKeys" gorm:"column:clo_keys"`
	MQFKeys      datatypes.JSONSlice[string]       `json:"mqfKeys" gorm:"column:mqf_keys"`
	SubQuestions datatypes.JSONSlice[QuestionPart] `json:"subQuestions"`

	// Media
	ImageURL          *string                       `json:"imageUrl" gorm:"type:text"`
	FigureLabel       string                        `json:"figureLabel" gorm:"size:100"`
	MediaType         *MediaType                    `json:"mediaType" gorm:"size:20"`
	AnswerImageURL    *string                       `json:"answerImageUrl" gorm:"type:text"`
	AnswerFigureLabel string                        `json:"answerFigureLabel" gorm:"size:100"`
	TableData         datatypes.JSONType[TableData] `json:"tableData"`

	Construct string `json:"construct" gorm:"size:50"`
	Domain    string `json:"domain" gorm:"size:50"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

func (Question) TableName() string {
	return "questions"
}
