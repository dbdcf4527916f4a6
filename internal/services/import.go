package services

import (
	"errors"
	"fmt"

	"github.com/bursary-dev/bursary/db"
	"github.com/bursary-dev/bursary/internal/importer"
	"github.com/bursary-dev/bursary/internal/metrics"
	"github.com/bursary-dev/bursary/internal/models"
	"gorm.io/gorm"
)

const importBatchSize = 5

// Swappable in tests so imports do not hit the network.
var fetchCandidates = importer.FetchCandidates

// ImportExternalScholarships pulls a batch of scraped listings and stores the
// ones not seen before as published external scholarships. Duplicates are
// detected by exact title among previously imported rows.
func ImportExternalScholarships(identity Identity) (int, error) {
	if identity.Role != models.RoleAdmin {
		return 0, fmt.Errorf("only admins can import scholarships: %w", ErrForbidden)
	}

	// Imported listings need an owning row; they are assigned to an admin user.
	var admin models.User

	if err := db.DB.Where("role = ?", models.RoleAdmin).First(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, fmt.Errorf("no admin user to own imported scholarships: %w", ErrInvalidState)
		}
		return 0, err
	}

	candidates, err := fetchCandidates(importBatchSize)

	if err != nil {
		return 0, err
	}

	added := 0

	for _, candidate := range candidates {
		var count int64

		err := db.DB.Model(&models.Scholarship{}).
			Where("title = ? AND is_external = ?", candidate.Title, true).
			Count(&count).Error

		if err != nil {
			return added, err
		}

		if count > 0 {
			continue
		}

		deadline := candidate.Deadline
		scholarship := models.Scholarship{
			DonorID:                admin.ID,
			Title:                  candidate.Title,
			AmountGmd:              candidate.AmountGmd,
			Degree:                 candidate.Degree,
			Field:                  candidate.Field,
			Description:            candidate.Description,
			Deadline:               &deadline,
			Status:                 models.ScholarshipPublished,
			IsExternal:             true,
			ExternalApplicationURL: candidate.ExternalApplicationURL,
		}

		createErr := db.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&scholarship).Error; err != nil {
				return err
			}

			items := eligibilityItems(scholarship.ID, candidate.Eligibility)
			if len(items) == 0 {
				return nil
			}

			return tx.Create(&items).Error
		})

		if createErr != nil {
			return added, createErr
		}

		added++
		metrics.ScholarshipsImported.Inc()
	}

	return added, nil
}
