package models

import "time"

// ScholarshipSave is a pure existence toggle: a row either exists or it does
// not, so there is no soft delete. Unsaving removes the row outright, which
// keeps the unique (student, scholarship) index free for the next save.
type ScholarshipSave struct {
	ID        uint `gorm:"primarykey"`
	CreatedAt time.Time

	StudentID     uint `gorm:"not null;uniqueIndex:idx_save_student_scholarship"`
	ScholarshipID uint `gorm:"not null;uniqueIndex:idx_save_student_scholarship"`

	// Relationships
	Student     User        `gorm:"foreignKey:StudentID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Scholarship Scholarship `gorm:"foreignKey:ScholarshipID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
