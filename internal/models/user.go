package models

import "gorm.io/gorm"

const (
	RoleStudent = "STUDENT"
	RoleDonor   = "DONOR"
	RoleAdmin   = "ADMIN"
)

type User struct {
	gorm.Model

	Name         string
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	Role         string `gorm:"not null;default:STUDENT"`

	// Relationships
	Scholarships []Scholarship     `gorm:"foreignKey:DonorID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Applications []Application     `gorm:"foreignKey:StudentID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Saves        []ScholarshipSave `gorm:"foreignKey:StudentID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
