package services

import (
	"testing"

	"github.com/bursary-dev/bursary/db"
	"github.com/bursary-dev/bursary/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveScholarshipIsIdempotent(t *testing.T) {
	setupTestDB(t)
	donor := createUser(t, models.RoleDonor, "donor@example.com")
	student := createUser(t, models.RoleStudent, "student@example.com")
	scholarship := createScholarship(t, donor.ID, models.ScholarshipPublished)

	require.NoError(t, SaveScholarship(asIdentity(student), scholarship.ID))
	require.NoError(t, SaveScholarship(asIdentity(student), scholarship.ID))

	var count int64
	require.NoError(t, db.DB.Model(&models.ScholarshipSave{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	saved, err := IsScholarshipSaved(asIdentity(student), scholarship.ID)
	require.NoError(t, err)
	assert.True(t, saved)
}

func TestUnsaveScholarshipMissingIsFine(t *testing.T) {
	setupTestDB(t)
	donor := createUser(t, models.RoleDonor, "donor@example.com")
	student := createUser(t, models.RoleStudent, "student@example.com")
	scholarship := createScholarship(t, donor.ID, models.ScholarshipPublished)

	// Removing a bookmark that was never set still succeeds.
	require.NoError(t, UnsaveScholarship(asIdentity(student), scholarship.ID))

	require.NoError(t, SaveScholarship(asIdentity(student), scholarship.ID))
	require.NoError(t, UnsaveScholarship(asIdentity(student), scholarship.ID))
	require.NoError(t, UnsaveScholarship(asIdentity(student), scholarship.ID))

	saved, err := IsScholarshipSaved(asIdentity(student), scholarship.ID)
	require.NoError(t, err)
	assert.False(t, saved)
}

func TestSaveUnsaveSaveEndsSaved(t *testing.T) {
	setupTestDB(t)
	donor := createUser(t, models.RoleDonor, "donor@example.com")
	student := createUser(t, models.RoleStudent, "student@example.com")
	scholarship := createScholarship(t, donor.ID, models.ScholarshipPublished)

	// The full cycle must land back on saved: the unsave removes the row
	// outright, so the re-save is a fresh insert, not a conflict no-op.
	require.NoError(t, SaveScholarship(asIdentity(student), scholarship.ID))
	require.NoError(t, UnsaveScholarship(asIdentity(student), scholarship.ID))
	require.NoError(t, SaveScholarship(asIdentity(student), scholarship.ID))

	saved, err := IsScholarshipSaved(asIdentity(student), scholarship.ID)
	require.NoError(t, err)
	assert.True(t, saved)

	var count int64
	require.NoError(t, db.DB.Model(&models.ScholarshipSave{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	listed, err := ListSavedScholarships(asIdentity(student))
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, scholarship.ID, listed[0].ID)
}

func TestSaveScholarshipRequiresExistingScholarship(t *testing.T) {
	setupTestDB(t)
	student := createUser(t, models.RoleStudent, "student@example.com")

	err := SaveScholarship(asIdentity(student), 12345)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSaveScholarshipStudentOnly(t *testing.T) {
	setupTestDB(t)
	donor := createUser(t, models.RoleDonor, "donor@example.com")
	scholarship := createScholarship(t, donor.ID, models.ScholarshipPublished)

	err := SaveScholarship(asIdentity(donor), scholarship.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	err = UnsaveScholarship(asIdentity(donor), scholarship.ID)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestListSavedScholarships(t *testing.T) {
	setupTestDB(t)
	donor := createUser(t, models.RoleDonor, "donor@example.com")
	student := createUser(t, models.RoleStudent, "student@example.com")
	other := createUser(t, models.RoleStudent, "other@example.com")

	first := createScholarship(t, donor.ID, models.ScholarshipPublished)
	second := createScholarship(t, donor.ID, models.ScholarshipPublished)

	require.NoError(t, SaveScholarship(asIdentity(student), first.ID))
	require.NoError(t, SaveScholarship(asIdentity(student), second.ID))
	require.NoError(t, SaveScholarship(asIdentity(other), first.ID))

	saved, err := ListSavedScholarships(asIdentity(student))
	require.NoError(t, err)
	require.Len(t, saved, 2)

	ids := []uint{saved[0].ID, saved[1].ID}
	assert.Contains(t, ids, first.ID)
	assert.Contains(t, ids, second.ID)
}
