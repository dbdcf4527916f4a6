package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bursary-dev/bursary/db"
	"github.com/bursary-dev/bursary/internal/models"
	"gorm.io/gorm"
)

const listScholarshipsLimit = 60

type CreateScholarshipInput struct {
	Title       string
	AmountGmd   int64
	Degree      string
	Field       string
	Description string
	Deadline    *time.Time
	Eligibility []string
	SaveAsDraft bool
}

type UpdateScholarshipInput struct {
	Title         *string
	AmountGmd     *int64
	Degree        *string
	Field         *string
	Description   *string
	Deadline      *time.Time
	ClearDeadline bool
	Eligibility   *[]string
}

func validateScholarshipFields(title string, amountGmd int64, degree, field, description string) error {
	if len(strings.TrimSpace(title)) < 3 {
		return fmt.Errorf("title must be at least 3 characters: %w", ErrInvalidInput)
	}

	if amountGmd < 1 {
		return fmt.Errorf("amount must be a positive integer: %w", ErrInvalidInput)
	}

	if len(strings.TrimSpace(degree)) < 2 {
		return fmt.Errorf("degree must be at least 2 characters: %w", ErrInvalidInput)
	}

	if len(strings.TrimSpace(field)) < 2 {
		return fmt.Errorf("field must be at least 2 characters: %w", ErrInvalidInput)
	}

	if len(strings.TrimSpace(description)) < 10 {
		return fmt.Errorf("description must be at least 10 characters: %w", ErrInvalidInput)
	}

	return nil
}

// eligibilityItems trims the given lines, drops empties and assigns 1-based order.
func eligibilityItems(scholarshipID uint, lines []string) []models.EligibilityItem {
	items := make([]models.EligibilityItem, 0, len(lines))

	for _, line := range lines {
		text := strings.TrimSpace(line)
		if text == "" {
			continue
		}

		items = append(items, models.EligibilityItem{
			ScholarshipID: scholarshipID,
			Text:          text,
			SortOrder:     len(items) + 1,
		})
	}

	return items
}

func CreateScholarship(identity Identity, in CreateScholarshipInput) (*models.Scholarship, error) {
	if identity.Role != models.RoleDonor && identity.Role != models.RoleAdmin {
		return nil, fmt.Errorf("only donors and admins can create scholarships: %w", ErrForbidden)
	}

	if err := validateScholarshipFields(in.Title, in.AmountGmd, in.Degree, in.Field, in.Description); err != nil {
		return nil, err
	}

	status := models.ScholarshipPendingReview
	if in.SaveAsDraft {
		status = models.ScholarshipDraft
	}

	scholarship := models.Scholarship{
		DonorID:     identity.ID,
		Title:       strings.TrimSpace(in.Title),
		AmountGmd:   in.AmountGmd,
		Degree:      strings.TrimSpace(in.Degree),
		Field:       strings.TrimSpace(in.Field),
		Description: in.Description,
		Deadline:    in.Deadline,
		Status:      status,
	}

	// Scholarship and its eligibility list are created all-or-nothing.
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&scholarship).Error; err != nil {
			return err
		}

		items := eligibilityItems(scholarship.ID, in.Eligibility)
		if len(items) == 0 {
			return nil
		}

		return tx.Create(&items).Error
	})

	if err != nil {
		return nil, err
	}

	return &scholarship, nil
}

func getScholarshipRow(id uint) (*models.Scholarship, error) {
	var scholarship models.Scholarship

	if err := db.DB.First(&scholarship, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("scholarship not found: %w", ErrNotFound)
		}
		return nil, err
	}

	return &scholarship, nil
}

func requireOwnerOrAdmin(identity Identity, scholarship *models.Scholarship) error {
	if identity.Role == models.RoleAdmin {
		return nil
	}

	if identity.Role == models.RoleDonor && scholarship.DonorID == identity.ID {
		return nil
	}

	return fmt.Errorf("not the scholarship owner: %w", ErrForbidden)
}

func UpdateScholarship(identity Identity, id uint, in UpdateScholarshipInput) error {
	scholarship, err := getScholarshipRow(id)

	if err != nil {
		return err
	}

	if err := requireOwnerOrAdmin(identity, scholarship); err != nil {
		return err
	}

	updates := make(map[string]interface{})

	if in.Title != nil {
		if len(strings.TrimSpace(*in.Title)) < 3 {
			return fmt.Errorf("title must be at least 3 characters: %w", ErrInvalidInput)
		}
		updates["title"] = strings.TrimSpace(*in.Title)
	}

	if in.AmountGmd != nil {
		if *in.AmountGmd < 1 {
			return fmt.Errorf("amount must be a positive integer: %w", ErrInvalidInput)
		}
		updates["amount_gmd"] = *in.AmountGmd
	}

	if in.Degree != nil {
		if len(strings.TrimSpace(*in.Degree)) < 2 {
			return fmt.Errorf("degree must be at least 2 characters: %w", ErrInvalidInput)
		}
		updates["degree"] = strings.TrimSpace(*in.Degree)
	}

	if in.Field != nil {
		if len(strings.TrimSpace(*in.Field)) < 2 {
			return fmt.Errorf("field must be at least 2 characters: %w", ErrInvalidInput)
		}
		updates["field"] = strings.TrimSpace(*in.Field)
	}

	if in.Description != nil {
		if len(strings.TrimSpace(*in.Description)) < 10 {
			return fmt.Errorf("description must be at least 10 characters: %w", ErrInvalidInput)
		}
		updates["description"] = *in.Description
	}

	if in.Deadline != nil {
		updates["deadline"] = in.Deadline
	} else if in.ClearDeadline {
		updates["deadline"] = nil
	}

	// Eligibility is replaced wholesale inside the same transaction so readers
	// never observe a partial list.
	return db.DB.Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(scholarship).Updates(updates).Error; err != nil {
				return err
			}
		}

		if in.Eligibility == nil {
			return nil
		}

		if err := tx.Where("scholarship_id = ?", scholarship.ID).Delete(&models.EligibilityItem{}).Error; err != nil {
			return err
		}

		items := eligibilityItems(scholarship.ID, *in.Eligibility)
		if len(items) == 0 {
			return nil
		}

		return tx.Create(&items).Error
	})
}

// DeleteScholarship removes the scholarship and everything hanging off it.
// Deleting an id that is already gone reports success.
func DeleteScholarship(identity Identity, id uint) error {
	scholarship, err := getScholarshipRow(id)

	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return err
	}

	if err := requireOwnerOrAdmin(identity, scholarship); err != nil {
		return err
	}

	return db.DB.Transaction(func(tx *gorm.DB) error {
		var applicationIDs []uint
		if err := tx.Model(&models.Application{}).Where("scholarship_id = ?", scholarship.ID).Pluck("id", &applicationIDs).Error; err != nil {
			return err
		}

		if len(applicationIDs) > 0 {
			if err := tx.Where("application_id IN ?", applicationIDs).Delete(&models.ApplicationDocument{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("scholarship_id = ?", scholarship.ID).Delete(&models.Application{}).Error; err != nil {
			return err
		}

		if err := tx.Where("scholarship_id = ?", scholarship.ID).Delete(&models.ScholarshipSave{}).Error; err != nil {
			return err
		}

		if err := tx.Where("scholarship_id = ?", scholarship.ID).Delete(&models.EligibilityItem{}).Error; err != nil {
			return err
		}

		return tx.Delete(scholarship).Error
	})
}

// SetScholarshipStatus is the admin override: any status may be assigned from any
// other, unlike donor-invoked transitions which are constrained.
func SetScholarshipStatus(identity Identity, id uint, status string) error {
	if identity.Role != models.RoleAdmin {
		return fmt.Errorf("only admins can set scholarship status: %w", ErrForbidden)
	}

	valid := false
	for _, s := range models.ScholarshipStatuses {
		if s == status {
			valid = true
			break
		}
	}

	if !valid {
		return fmt.Errorf("unknown status %q: %w", status, ErrInvalidInput)
	}

	scholarship, err := getScholarshipRow(id)

	if err != nil {
		return err
	}

	return db.DB.Model(scholarship).Update("status", status).Error
}

func SetScholarshipFeatured(identity Identity, id uint, featured bool) error {
	if identity.Role != models.RoleAdmin {
		return fmt.Errorf("only admins can feature scholarships: %w", ErrForbidden)
	}

	scholarship, err := getScholarshipRow(id)

	if err != nil {
		return err
	}

	return db.DB.Model(scholarship).Update("featured", featured).Error
}

// RequestPublish queues an owner's scholarship for admin review.
func RequestPublish(identity Identity, id uint) error {
	scholarship, err := getScholarshipRow(id)

	if err != nil {
		return err
	}

	if err := requireOwnerOrAdmin(identity, scholarship); err != nil {
		return err
	}

	switch scholarship.Status {
	case models.ScholarshipPublished:
		return fmt.Errorf("scholarship is already published: %w", ErrInvalidState)
	case models.ScholarshipPendingReview:
		return nil
	case models.ScholarshipRestricted:
		// A restriction is imposed by an admin; only an admin lifts it.
		return fmt.Errorf("scholarship is restricted: %w", ErrInvalidState)
	}

	return db.DB.Model(scholarship).Update("status", models.ScholarshipPendingReview).Error
}

func UnpublishScholarship(identity Identity, id uint) error {
	scholarship, err := getScholarshipRow(id)

	if err != nil {
		return err
	}

	if err := requireOwnerOrAdmin(identity, scholarship); err != nil {
		return err
	}

	return db.DB.Model(scholarship).Update("status", models.ScholarshipUnpublished).Error
}

// GetScholarship applies the visibility rule: a non-published scholarship exists
// only for its owner and admins. Everyone else gets not-found, never forbidden,
// so restricted listings do not leak.
func GetScholarship(identity *Identity, id uint) (*models.Scholarship, error) {
	var scholarship models.Scholarship

	err := db.DB.Preload("Donor").
		Preload("Eligibility", func(tx *gorm.DB) *gorm.DB { return tx.Order("sort_order ASC") }).
		First(&scholarship, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("scholarship not found: %w", ErrNotFound)
		}
		return nil, err
	}

	if scholarship.Status != models.ScholarshipPublished {
		if identity == nil || requireOwnerOrAdmin(*identity, &scholarship) != nil {
			return nil, fmt.Errorf("scholarship not found: %w", ErrNotFound)
		}
	}

	return &scholarship, nil
}

// ListScholarships returns published scholarships, newest-updated first, with an
// optional case-insensitive substring filter over title, degree and field.
func ListScholarships(query string) ([]models.Scholarship, error) {
	tx := db.DB.Preload("Donor").Where("status = ?", models.ScholarshipPublished)

	if q := strings.TrimSpace(query); q != "" {
		pattern := "%" + strings.ToLower(q) + "%"
		tx = tx.Where(
			"LOWER(title) LIKE ? OR LOWER(degree) LIKE ? OR LOWER(field) LIKE ?",
			pattern, pattern, pattern,
		)
	}

	var scholarships []models.Scholarship

	if err := tx.Order("updated_at DESC").Limit(listScholarshipsLimit).Find(&scholarships).Error; err != nil {
		return nil, err
	}

	return scholarships, nil
}

// ListDonorScholarships returns the donor's own scholarships regardless of status.
func ListDonorScholarships(identity Identity) ([]models.Scholarship, error) {
	var scholarships []models.Scholarship

	err := db.DB.Where("donor_id = ?", identity.ID).
		Order("updated_at DESC").
		Find(&scholarships).Error

	if err != nil {
		return nil, err
	}

	return scholarships, nil
}

// ListAllScholarships is the admin moderation queue: every scholarship, every status.
func ListAllScholarships(identity Identity) ([]models.Scholarship, error) {
	if identity.Role != models.RoleAdmin {
		return nil, fmt.Errorf("only admins can list all scholarships: %w", ErrForbidden)
	}

	var scholarships []models.Scholarship

	err := db.DB.Preload("Donor").Order("updated_at DESC").Find(&scholarships).Error

	if err != nil {
		return nil, err
	}

	return scholarships, nil
}

// ListApplicants returns a scholarship's submitted applications for its owner or
// an admin. Draft applications stay private to their students.
func ListApplicants(identity Identity, scholarshipID uint) ([]models.Application, error) {
	scholarship, err := getScholarshipRow(scholarshipID)

	if err != nil {
		return nil, err
	}

	if err := requireOwnerOrAdmin(identity, scholarship); err != nil {
		return nil, err
	}

	var applications []models.Application

	err = db.DB.Preload("Student").
		Where("scholarship_id = ? AND status <> ?", scholarship.ID, models.ApplicationDraft).
		Order("submitted_at DESC").
		Find(&applications).Error

	if err != nil {
		return nil, err
	}

	return applications, nil
}
