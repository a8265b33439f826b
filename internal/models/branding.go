package models

import "time"

const (
	DefaultBrandingSlot    = "default"
	DefaultInstitutionName = "POLITEKNIK MALAYSIA KUCHING SARAWAK"
)

type Branding struct {
	ID              uint    `json:"id" gorm:"primaryKey"`
	Slot            *string `json:"-" gorm:"size:20;uniqueIndex"`
	InstitutionName string  `json:"institutionName" gorm:"column:institution_name;size:255;not null"`
	LogoURL         *string `json:"logoUrl" gorm:"column:logo_url;type:text"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

func (Branding) TableName() string {
	return "institutional_branding"
}

// NewDefaultBranding returns the seed row created when no branding exists.
func NewDefaultBranding() *Branding {
	slot := DefaultBrandingSlot
	return &Branding{
		Slot:            &slot,
		InstitutionName: DefaultInstitutionName,
	}
}
