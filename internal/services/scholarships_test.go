package services

import (
	"testing"
	"time"

	"github.com/bursary-dev/bursary/db"
	"github.com/bursary-dev/bursary/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCreateInput() CreateScholarshipInput {
	return CreateScholarshipInput{
		Title:       "Gambia STEM Fund",
		AmountGmd:   250000,
		Degree:      "Bachelors",
		Field:       "Engineering",
		Description: "Tuition support for engineering undergraduates.",
	}
}

func listEligibility(t *testing.T, scholarshipID uint) []models.EligibilityItem {
	t.Helper()

	var items []models.EligibilityItem
	require.NoError(t, db.DB.
		Where("scholarship_id = ?", scholarshipID).
		Order("sort_order ASC").
		Find(&items).Error)

	return items
}

func TestCreateScholarshipDefaultsToPendingReview(t *testing.T) {
	setupTestDB(t)
	donor := createUser(t, models.RoleDonor, "donor@example.com")

	scholarship, err := CreateScholarship(asIdentity(donor), validCreateInput())
	require.NoError(t, err)
	assert.Equal(t, models.ScholarshipPendingReview, scholarship.Status)
	assert.Equal(t, donor.ID, scholarship.DonorID)

	in := validCreateInput()
	in.Title = "Draft Fund"
	in.SaveAsDraft = true

	draft, err := CreateScholarship(asIdentity(donor), in)
	require.NoError(t, err)
	assert.Equal(t, models.ScholarshipDraft, draft.Status)
}

func TestCreateScholarshipValidation(t *testing.T) {
	setupTestDB(t)
	donor := createUser(t, models.RoleDonor, "donor@example.com")
	student := createUser(t, models.RoleStudent, "student@example.com")

	_, err := CreateScholarship(asIdentity(student), validCreateInput())
	assert.ErrorIs(t, err, ErrForbidden)

	mutations := []func(*CreateScholarshipInput){
		func(in *CreateScholarshipInput) { in.Title = "ab" },
		func(in *CreateScholarshipInput) { in.AmountGmd = 0 },
		func(in *CreateScholarshipInput) { in.Degree = "B" },
		func(in *CreateScholarshipInput) { in.Field = "E" },
		func(in *CreateScholarshipInput) { in.Description = "too short" },
	}

	for _, mutate := range mutations {
		in := validCreateInput()
		mutate(&in)

		_, err := CreateScholarship(asIdentity(donor), in)
		assert.ErrorIs(t, err, ErrInvalidInput)
	}
}

func TestCreateScholarshipEligibilityOrdering(t *testing.T) {
	setupTestDB(t)
	donor := createUser(t, models.RoleDonor, "donor@example.com")

	in := validCreateInput()
	in.Eligibility = []string{"  Gambian citizen  ", "", "GPA above 3.0", "   "}

	scholarship, err := CreateScholarship(asIdentity(donor), in)
	require.NoError(t, err)

	items := listEligibility(t, scholarship.ID)
	require.Len(t, items, 2)
	assert.Equal(t, "Gambian citizen", items[0].Text)
	assert.Equal(t, 1, items[0].SortOrder)
	assert.Equal(t, "GPA above 3.0", items[1].Text)
	assert.Equal(t, 2, items[1].SortOrder)
}

func TestUpdateScholarshipReplacesEligibilityWholesale(t *testing.T) {
	setupTestDB(t)
	donor := createUser(t, models.RoleDonor, "donor@example.com")

	in := validCreateInput()
	in.Eligibility = []string{"old one", "old two", "old three"}

	scholarship, err := CreateScholarship(asIdentity(donor), in)
	require.NoError(t, err)

	replacement := []string{"new one", "new two", "new three", "new four", "new five"}
	require.NoError(t, UpdateScholarship(asIdentity(donor), scholarship.ID, UpdateScholarshipInput{
		Eligibility: &replacement,
	}))

	items := listEligibility(t, scholarship.ID)
	require.Len(t, items, 5)
	for i, item := range items {
		assert.Equal(t, replacement[i], item.Text)
		assert.Equal(t, i+1, item.SortOrder)
	}
}

func TestUpdateScholarshipOwnershipAndFields(t *testing.T) {
	setupTestDB(t)
	donor := createUser(t, models.RoleDonor, "donor@example.com")
	rival := createUser(t, models.RoleDonor, "rival@example.com")
	admin := createUser(t, models.RoleAdmin, "admin@example.com")
	scholarship := createScholarship(t, donor.ID, models.ScholarshipDraft)

	newTitle := "Renamed Award"
	err := UpdateScholarship(asIdentity(rival), scholarship.ID, UpdateScholarshipInput{Title: &newTitle})
	assert.ErrorIs(t, err, ErrForbidden)

	require.NoError(t, UpdateScholarship(asIdentity(admin), scholarship.ID, UpdateScholarshipInput{Title: &newTitle}))

	badTitle := "ab"
	err = UpdateScholarship(asIdentity(donor), scholarship.ID, UpdateScholarshipInput{Title: &badTitle})
	assert.ErrorIs(t, err, ErrInvalidInput)

	deadline := time.Date(2027, 6, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, UpdateScholarship(asIdentity(donor), scholarship.ID, UpdateScholarshipInput{Deadline: &deadline}))

	var reloaded models.Scholarship
	require.NoError(t, db.DB.First(&reloaded, scholarship.ID).Error)
	assert.Equal(t, "Renamed Award", reloaded.Title)
	require.NotNil(t, reloaded.Deadline)

	require.NoError(t, UpdateScholarship(asIdentity(donor), scholarship.ID, UpdateScholarshipInput{ClearDeadline: true}))
	reloaded = models.Scholarship{}
	require.NoError(t, db.DB.First(&reloaded, scholarship.ID).Error)
	assert.Nil(t, reloaded.Deadline)
}

func TestDeleteScholarshipCascadesAndIsIdempotent(t *testing.T) {
	setupTestDB(t)
	silenceMailer(t)
	donor := createUser(t, models.RoleDonor, "donor@example.com")
	student := createUser(t, models.RoleStudent, "student@example.com")
	scholarship := createScholarship(t, donor.ID, models.ScholarshipPublished)

	application, err := InitiateApplication(asIdentity(student), scholarship.ID)
	require.NoError(t, err)

	_, err = AttachDocument(asIdentity(student), application.ID, AttachDocumentInput{
		Filename: "cv.pdf",
		MimeType: "application/pdf",
		Content:  []byte("cv"),
	})
	require.NoError(t, err)

	require.NoError(t, SaveScholarship(asIdentity(student), scholarship.ID))

	require.NoError(t, DeleteScholarship(asIdentity(donor), scholarship.ID))

	for _, probe := range []struct {
		name  string
		model interface{}
	}{
		{"scholarships", &models.Scholarship{}},
		{"applications", &models.Application{}},
		{"documents", &models.ApplicationDocument{}},
		{"saves", &models.ScholarshipSave{}},
		{"eligibility", &models.EligibilityItem{}},
	} {
		var count int64
		require.NoError(t, db.DB.Model(probe.model).Count(&count).Error)
		assert.Zero(t, count, probe.name)
	}

	// Deleting again still succeeds.
	require.NoError(t, DeleteScholarship(asIdentity(donor), scholarship.ID))
}

func TestRequestPublishTransitions(t *testing.T) {
	setupTestDB(t)
	donor := createUser(t, models.RoleDonor, "donor@example.com")

	draft := createScholarship(t, donor.ID, models.ScholarshipDraft)
	require.NoError(t, RequestPublish(asIdentity(donor), draft.ID))

	var reloaded models.Scholarship
	require.NoError(t, db.DB.First(&reloaded, draft.ID).Error)
	assert.Equal(t, models.ScholarshipPendingReview, reloaded.Status)

	// Requesting again is a quiet no-op.
	require.NoError(t, RequestPublish(asIdentity(donor), draft.ID))

	require.NoError(t, db.DB.Model(&reloaded).Update("status", models.ScholarshipPublished).Error)
	err := RequestPublish(asIdentity(donor), draft.ID)
	assert.ErrorIs(t, err, ErrInvalidState)

	// An unpublished scholarship may be re-queued for review.
	unpublished := createScholarship(t, donor.ID, models.ScholarshipUnpublished)
	require.NoError(t, RequestPublish(asIdentity(donor), unpublished.ID))

	// A restriction is an admin lock; the donor cannot request their way out.
	restricted := createScholarship(t, donor.ID, models.ScholarshipRestricted)
	err = RequestPublish(asIdentity(donor), restricted.ID)
	assert.ErrorIs(t, err, ErrInvalidState)

	var still models.Scholarship
	require.NoError(t, db.DB.First(&still, restricted.ID).Error)
	assert.Equal(t, models.ScholarshipRestricted, still.Status)
}

func TestUnpublishScholarship(t *testing.T) {
	setupTestDB(t)
	donor := createUser(t, models.RoleDonor, "donor@example.com")
	scholarship := createScholarship(t, donor.ID, models.ScholarshipPublished)

	require.NoError(t, UnpublishScholarship(asIdentity(donor), scholarship.ID))

	var reloaded models.Scholarship
	require.NoError(t, db.DB.First(&reloaded, scholarship.ID).Error)
	assert.Equal(t, models.ScholarshipUnpublished, reloaded.Status)
}

func TestSetScholarshipStatus(t *testing.T) {
	setupTestDB(t)
	donor := createUser(t, models.RoleDonor, "donor@example.com")
	admin := createUser(t, models.RoleAdmin, "admin@example.com")
	scholarship := createScholarship(t, donor.ID, models.ScholarshipPendingReview)

	err := SetScholarshipStatus(asIdentity(donor), scholarship.ID, models.ScholarshipPublished)
	assert.ErrorIs(t, err, ErrForbidden)

	err = SetScholarshipStatus(asIdentity(admin), scholarship.ID, "APPROVED")
	assert.ErrorIs(t, err, ErrInvalidInput)

	require.NoError(t, SetScholarshipStatus(asIdentity(admin), scholarship.ID, models.ScholarshipPublished))

	listed, err := ListScholarships("")
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, scholarship.ID, listed[0].ID)

	// Admin may also move a published scholarship anywhere, including back down.
	require.NoError(t, SetScholarshipStatus(asIdentity(admin), scholarship.ID, models.ScholarshipRestricted))
}

func TestGetScholarshipVisibility(t *testing.T) {
	setupTestDB(t)
	donor := createUser(t, models.RoleDonor, "donor@example.com")
	student := createUser(t, models.RoleStudent, "student@example.com")
	admin := createUser(t, models.RoleAdmin, "admin@example.com")
	restricted := createScholarship(t, donor.ID, models.ScholarshipRestricted)

	// Hidden statuses read as not-found, never as forbidden.
	_, err := GetScholarship(nil, restricted.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	studentIdentity := asIdentity(student)
	_, err = GetScholarship(&studentIdentity, restricted.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	donorIdentity := asIdentity(donor)
	_, err = GetScholarship(&donorIdentity, restricted.ID)
	assert.NoError(t, err)

	adminIdentity := asIdentity(admin)
	_, err = GetScholarship(&adminIdentity, restricted.ID)
	assert.NoError(t, err)
}

func TestListScholarshipsFilter(t *testing.T) {
	setupTestDB(t)
	donor := createUser(t, models.RoleDonor, "donor@example.com")

	published := createScholarship(t, donor.ID, models.ScholarshipPublished)
	createScholarship(t, donor.ID, models.ScholarshipDraft)

	nursing := models.Scholarship{
		DonorID:     donor.ID,
		Title:       "Rural Nursing Grant",
		AmountGmd:   100000,
		Degree:      "Diploma",
		Field:       "Nursing",
		Description: "Support for rural nursing students.",
		Status:      models.ScholarshipPublished,
	}
	require.NoError(t, db.DB.Create(&nursing).Error)

	all, err := ListScholarships("")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	// Case-insensitive substring filter covers title, degree and field.
	matched, err := ListScholarships("NURS")
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, nursing.ID, matched[0].ID)

	matched, err = ListScholarships("computer")
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, published.ID, matched[0].ID)
}

func TestListDonorScholarshipsIncludesEveryStatus(t *testing.T) {
	setupTestDB(t)
	donor := createUser(t, models.RoleDonor, "donor@example.com")
	other := createUser(t, models.RoleDonor, "other@example.com")

	createScholarship(t, donor.ID, models.ScholarshipDraft)
	createScholarship(t, donor.ID, models.ScholarshipPublished)
	createScholarship(t, other.ID, models.ScholarshipPublished)

	mine, err := ListDonorScholarships(asIdentity(donor))
	require.NoError(t, err)
	assert.Len(t, mine, 2)
}

func TestListAllScholarshipsAdminOnly(t *testing.T) {
	setupTestDB(t)
	donor := createUser(t, models.RoleDonor, "donor@example.com")
	admin := createUser(t, models.RoleAdmin, "admin@example.com")

	createScholarship(t, donor.ID, models.ScholarshipDraft)
	createScholarship(t, donor.ID, models.ScholarshipPublished)

	_, err := ListAllScholarships(asIdentity(donor))
	assert.ErrorIs(t, err, ErrForbidden)

	all, err := ListAllScholarships(asIdentity(admin))
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestListApplicantsExcludesDrafts(t *testing.T) {
	setupTestDB(t)
	silenceMailer(t)
	donor := createUser(t, models.RoleDonor, "donor@example.com")
	scholarship := createScholarship(t, donor.ID, models.ScholarshipPublished)

	submitter := createUser(t, models.RoleStudent, "submitter@example.com")
	drafter := createUser(t, models.RoleStudent, "drafter@example.com")

	submitted := submittedApplication(t, submitter, scholarship)
	_, err := InitiateApplication(asIdentity(drafter), scholarship.ID)
	require.NoError(t, err)

	applicants, err := ListApplicants(asIdentity(donor), scholarship.ID)
	require.NoError(t, err)
	require.Len(t, applicants, 1)
	assert.Equal(t, submitted.ID, applicants[0].ID)
	assert.Equal(t, submitter.ID, applicants[0].Student.ID)

	rival := createUser(t, models.RoleDonor, "rival@example.com")
	_, err = ListApplicants(asIdentity(rival), scholarship.ID)
	assert.ErrorIs(t, err, ErrForbidden)
}
