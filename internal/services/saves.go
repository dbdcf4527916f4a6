package services

import (
	"errors"
	"fmt"

	"github.com/bursary-dev/bursary/db"
	"github.com/bursary-dev/bursary/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SaveScholarship bookmarks a scholarship for a student. Saving an already-saved
// scholarship is a no-op.
func SaveScholarship(identity Identity, scholarshipID uint) error {
	if identity.Role != models.RoleStudent {
		return fmt.Errorf("only students can save scholarships: %w", ErrForbidden)
	}

	if err := db.DB.First(&models.Scholarship{}, scholarshipID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("scholarship not found: %w", ErrNotFound)
		}
		return err
	}

	save := models.ScholarshipSave{
		StudentID:     identity.ID,
		ScholarshipID: scholarshipID,
	}

	return db.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "student_id"}, {Name: "scholarship_id"}},
		DoNothing: true,
	}).Create(&save).Error
}

// UnsaveScholarship removes the bookmark; removing a missing one still succeeds.
func UnsaveScholarship(identity Identity, scholarshipID uint) error {
	if identity.Role != models.RoleStudent {
		return fmt.Errorf("only students can save scholarships: %w", ErrForbidden)
	}

	return db.DB.
		Where("student_id = ? AND scholarship_id = ?", identity.ID, scholarshipID).
		Delete(&models.ScholarshipSave{}).Error
}

// IsScholarshipSaved reports whether the student has bookmarked the scholarship.
func IsScholarshipSaved(identity Identity, scholarshipID uint) (bool, error) {
	var count int64

	err := db.DB.Model(&models.ScholarshipSave{}).
		Where("student_id = ? AND scholarship_id = ?", identity.ID, scholarshipID).
		Count(&count).Error

	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// ListSavedScholarships returns the student's bookmarked scholarships.
func ListSavedScholarships(identity Identity) ([]models.Scholarship, error) {
	var saves []models.ScholarshipSave

	err := db.DB.Preload("Scholarship").
		Where("student_id = ?", identity.ID).
		Order("created_at DESC").
		Find(&saves).Error

	if err != nil {
		return nil, err
	}

	scholarships := make([]models.Scholarship, 0, len(saves))
	for _, save := range saves {
		scholarships = append(scholarships, save.Scholarship)
	}

	return scholarships, nil
}
