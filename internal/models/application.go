package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	ApplicationDraft       = "DRAFT"
	ApplicationSubmitted   = "SUBMITTED"
	ApplicationUnderReview = "UNDER_REVIEW"
	ApplicationAccepted    = "ACCEPTED"
	ApplicationRejected    = "REJECTED"
	ApplicationWithdrawn   = "WITHDRAWN"
)

// Application step bounds. Steps are personal, academic, documents, review.
const (
	ApplicationFirstStep = 1
	ApplicationLastStep  = 4
)

type Application struct {
	gorm.Model

	StudentID      uint           `gorm:"not null;uniqueIndex:idx_student_scholarship"`
	ScholarshipID  uint           `gorm:"not null;uniqueIndex:idx_student_scholarship"`
	Status         string         `gorm:"not null;default:DRAFT;index"`
	CurrentStep    int            `gorm:"not null;default:1"`
	StepData       datatypes.JSON `gorm:"type:jsonb"`
	SubmittedAt    *time.Time
	RejectionNote  string
	AcceptanceNote string

	// Relationships
	Student     User                  `gorm:"foreignKey:StudentID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Scholarship Scholarship           `gorm:"foreignKey:ScholarshipID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Documents   []ApplicationDocument `gorm:"foreignKey:ApplicationID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
