package models

import (
	"time"

	"gorm.io/datatypes"
)

type Course struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Code        string `json:"code" gorm:"size:20;not null;uniqueIndex"`
	Name        string `json:"name" gorm:"size:255;not null"`
	DeptID      string `json:"deptId" gorm:"column:dept_id;size:100;index"`
	ProgrammeID string `json:"programmeId" gorm:"column:programme_id;size:100;index"`

	// Registry data, stored verbatim
	CLOs        datatypes.JSONType[map[string]string]   `json:"clos" gorm:"column:clos"`
	MQFs        datatypes.JSONType[map[string]string]   `json:"mqfs" gorm:"column:mqfs"`
	MQFMappings datatypes.JSONType[map[string][]string] `json:"mqfMappings" gorm:"column:mqf_mappings"`

	Topics             datatypes.JSONSlice[string]    `json:"topics"`
	AssessmentPolicies datatypes.JSON                 `json:"assessmentPolicies"`
	JSUTemplate        datatypes.JSONSlice[MatrixRow] `json:"jsuTemplate" gorm:"column:jsu_template"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

func (Course) TableName() string {
	return "courses"
}
