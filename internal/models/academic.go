package models

import "time"

type Department struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	Name       string    `json:"name" gorm:"size:255;not null"`
	HeadOfDept string    `json:"headOfDept" gorm:"column:head_of_dept;size:255"`
	CreatedAt  time.Time `json:"-"`
	UpdatedAt  time.Time `json:"-"`
}

type Programme struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	DeptID    string    `json:"deptId" gorm:"column:dept_id;size:100;index"`
	Name      string    `json:"name" gorm:"size:255;not null"`
	Code      string    `json:"code" gorm:"size:50"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// AcademicSession is a semester; at most one is active.
type AcademicSession struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	Name       string    `json:"name" gorm:"size:100;not null"`
	IsActive   bool      `json:"isActive" gorm:"column:is_active;not null;default:false;index"`
	IsArchived bool      `json:"isArchived" gorm:"column:is_archived;not null;default:false"`
	CreatedAt  time.Time `json:"-"`
	UpdatedAt  time.Time `json:"-"`
}

func (Department) TableName() string {
	return "departments"
}

func (Programme) TableName() string {
	return "programmes"
}

func (AcademicSession) TableName() string {
	return "academic_sessions"
}

// AllModels lists every table in migration order.
func AllModels() []interface{} {
	return []interface{}{
		&User{},
		&Profile{},
		&AuthToken{},
		&Branding{},
		&Department{},
		&Programme{},
		&AcademicSession{},
		&Course{},
		&Question{},
		&AssessmentPaper{},
		&PaperQuestion{},
	}
}
