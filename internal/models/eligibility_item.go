package models

import "gorm.io/gorm"

// EligibilityItem is one ordered criterion line attached to a scholarship.
// The whole set is replaced wholesale when a scholarship's eligibility is edited.
type EligibilityItem struct {
	gorm.Model

	ScholarshipID uint   `gorm:"not null;index"`
	Text          string `gorm:"not null"`
	SortOrder     int    `gorm:"not null"` // 1-based position within the list

	// Relationships
	Scholarship Scholarship `gorm:"foreignKey:ScholarshipID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
}
