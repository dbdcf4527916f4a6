package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	ScholarshipDraft         = "DRAFT"
	ScholarshipPendingReview = "PENDING_REVIEW"
	ScholarshipPublished     = "PUBLISHED"
	ScholarshipUnpublished   = "UNPUBLISHED"
	ScholarshipRestricted    = "RESTRICTED"
)

// ScholarshipStatuses lists every status an admin may assign.
var ScholarshipStatuses = []string{
	ScholarshipDraft,
	ScholarshipPendingReview,
	ScholarshipPublished,
	ScholarshipUnpublished,
	ScholarshipRestricted,
}

type Scholarship struct {
	gorm.Model

	DonorID                uint   `gorm:"not null;index"`
	Title                  string `gorm:"not null"`
	AmountGmd              int64  `gorm:"not null"` // smallest GMD unit, always positive
	Degree                 string `gorm:"not null"`
	Field                  string `gorm:"not null"`
	Description            string `gorm:"not null"`
	Deadline               *time.Time
	Status                 string `gorm:"not null;default:DRAFT;index"`
	Featured               bool   `gorm:"default:false"`
	IsExternal             bool   `gorm:"default:false"`
	ExternalApplicationURL string

	// Relationships
	Donor        User              `gorm:"foreignKey:DonorID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Eligibility  []EligibilityItem `gorm:"foreignKey:ScholarshipID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Applications []Application     `gorm:"foreignKey:ScholarshipID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Saves        []ScholarshipSave `gorm:"foreignKey:ScholarshipID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
