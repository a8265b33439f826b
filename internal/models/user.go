package models

import (
	"time"
)

type UserRole string

const (
	RoleCreator  UserRole = "creator"
	RoleReviewer UserRole = "reviewer"
	RoleEndorser UserRole = "endorser"
	RoleAdmin    UserRole = "admin"
)

func (r UserRole) IsValid() bool {
	switch r {
	case RoleCreator, RoleReviewer, RoleEndorser, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"uniqueIndex;not null;size:150"`
	PasswordHash string    `json:"-" gorm:"not null;size:255"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"-"`

	Profile *Profile `json:"profile,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// Profile carries the role and display details of an account.
type Profile struct {
	ID       uint     `json:"id" gorm:"primaryKey"`
	UserID   uint     `json:"userId" gorm:"uniqueIndex;not null"`
	Role     UserRole `json:"role" gorm:"size:20;not null;default:creator"`
	FullName string   `json:"full_name" gorm:"size:255;not null"`
	Position string   `json:"position" gorm:"size:255"`
	DeptID   string   `json:"deptId" gorm:"column:dept_id;size:100"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// AuthToken is an opaque bearer token; one per user, no expiry.
type AuthToken struct {
	Key       string    `json:"-" gorm:"primaryKey;size:40"`
	UserID    uint      `json:"userId" gorm:"uniqueIndex;not null"`
	User      *User     `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `json:"createdAt"`
}

func (User) TableName() string {
	return "users"
}

func (Profile) TableName() string {
	return "profiles"
}

func (AuthToken) TableName() string {
	return "auth_tokens"
}
