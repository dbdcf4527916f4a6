package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/bursary-dev/bursary/db"
	"github.com/bursary-dev/bursary/internal/mailer"
	"github.com/bursary-dev/bursary/internal/metrics"
	"github.com/bursary-dev/bursary/internal/models"
	"github.com/bursary-dev/bursary/internal/types"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	DecisionAccept = "ACCEPT"
	DecisionReject = "REJECT"

	defaultMaxDocumentBytes = 1_500_000
)

// maxDocumentBytes is the attachment size cap, overridable via MAX_DOCUMENT_BYTES.
func maxDocumentBytes() int {
	if raw := os.Getenv("MAX_DOCUMENT_BYTES"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			return n
		}
	}
	return defaultMaxDocumentBytes
}

// decisionOverturnAllowed controls whether an already-decided application may be
// re-decided. Defaults to allowed; set DECISION_OVERTURN=deny to lock decisions in.
func decisionOverturnAllowed() bool {
	return os.Getenv("DECISION_OVERTURN") != "deny"
}

// InitiateApplication is the upsert behind the apply flow: the first visit creates
// a draft at step one, every later visit returns the existing row untouched.
func InitiateApplication(identity Identity, scholarshipID uint) (*models.Application, error) {
	if identity.Role != models.RoleStudent {
		return nil, fmt.Errorf("only students can apply: %w", ErrForbidden)
	}

	var scholarship models.Scholarship

	if err := db.DB.First(&scholarship, scholarshipID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("scholarship not available: %w", ErrNotFound)
		}
		return nil, err
	}

	if scholarship.Status != models.ScholarshipPublished || scholarship.IsExternal {
		return nil, fmt.Errorf("scholarship not available: %w", ErrNotFound)
	}

	application, err := findStudentApplication(identity.ID, scholarshipID)

	if err == nil {
		return application, nil
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	created := models.Application{
		StudentID:     identity.ID,
		ScholarshipID: scholarshipID,
		Status:        models.ApplicationDraft,
		CurrentStep:   models.ApplicationFirstStep,
		StepData:      datatypes.JSON([]byte("{}")),
	}

	if err := db.DB.Create(&created).Error; err != nil {
		// A concurrent first visit may have won the unique (student, scholarship)
		// race; the duplicate is benign and the existing row is the answer.
		if existing, findErr := findStudentApplication(identity.ID, scholarshipID); findErr == nil {
			return existing, nil
		}
		return nil, err
	}

	return &created, nil
}

func findStudentApplication(studentID, scholarshipID uint) (*models.Application, error) {
	var application models.Application

	err := db.DB.Preload("Documents").
		Where("student_id = ? AND scholarship_id = ?", studentID, scholarshipID).
		First(&application).Error

	if err != nil {
		return nil, err
	}

	return &application, nil
}

func getApplicationRow(id uint) (*models.Application, error) {
	var application models.Application

	if err := db.DB.First(&application, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("application not found: %w", ErrNotFound)
		}
		return nil, err
	}

	return &application, nil
}

func requireDraftOwnedBy(identity Identity, application *models.Application) error {
	if application.StudentID != identity.ID {
		return fmt.Errorf("not your application: %w", ErrForbidden)
	}

	if application.Status != models.ApplicationDraft {
		return fmt.Errorf("cannot edit submitted application: %w", ErrInvalidState)
	}

	return nil
}

func clampStep(step int) int {
	if step < models.ApplicationFirstStep {
		return models.ApplicationFirstStep
	}
	if step > models.ApplicationLastStep {
		return models.ApplicationLastStep
	}
	return step
}

// UpdateApplicationStep merges the patch into the stored step data. Each top-level
// key is replaced wholesale, so callers send the complete object for a key.
func UpdateApplicationStep(identity Identity, applicationID uint, step *int, patch map[string]json.RawMessage) (*models.Application, error) {
	application, err := getApplicationRow(applicationID)

	if err != nil {
		return nil, err
	}

	if err := requireDraftOwnedBy(identity, application); err != nil {
		return nil, err
	}

	if len(patch) > 0 {
		stepData := make(map[string]json.RawMessage)

		if len(application.StepData) > 0 {
			if err := json.Unmarshal(application.StepData, &stepData); err != nil {
				return nil, fmt.Errorf("stored step data is corrupt: %w", err)
			}
		}

		for key, value := range patch {
			stepData[key] = value
		}

		merged, err := json.Marshal(stepData)
		if err != nil {
			return nil, err
		}

		application.StepData = datatypes.JSON(merged)
	}

	if step != nil {
		application.CurrentStep = clampStep(*step)
	}

	if err := db.DB.Save(application).Error; err != nil {
		return nil, err
	}

	return application, nil
}

type AttachDocumentInput struct {
	Filename string
	MimeType string
	Kind     string
	Content  []byte
}

// AttachDocument appends an upload to a draft application. Documents are never
// replaced or de-duplicated by filename.
func AttachDocument(identity Identity, applicationID uint, in AttachDocumentInput) (*models.ApplicationDocument, error) {
	application, err := getApplicationRow(applicationID)

	if err != nil {
		return nil, err
	}

	if err := requireDraftOwnedBy(identity, application); err != nil {
		return nil, err
	}

	if strings.TrimSpace(in.Filename) == "" || strings.TrimSpace(in.MimeType) == "" {
		return nil, fmt.Errorf("filename and mimeType are required: %w", ErrInvalidInput)
	}

	if len(in.Content) == 0 {
		return nil, fmt.Errorf("document content is required: %w", ErrInvalidInput)
	}

	if len(in.Content) > maxDocumentBytes() {
		return nil, fmt.Errorf("document exceeds %d bytes: %w", maxDocumentBytes(), ErrPayloadTooLarge)
	}

	kind := in.Kind
	switch kind {
	case models.DocumentPDF, models.DocumentImage, models.DocumentOther:
	case "":
		kind = models.DocumentOther
	default:
		return nil, fmt.Errorf("unknown document kind %q: %w", in.Kind, ErrInvalidInput)
	}

	document := models.ApplicationDocument{
		ApplicationID: application.ID,
		Filename:      in.Filename,
		MimeType:      in.MimeType,
		Kind:          kind,
		Content:       in.Content,
	}

	if err := db.DB.Create(&document).Error; err != nil {
		return nil, err
	}

	return &document, nil
}

func decodeStepData(application *models.Application) (personal types.PersonalInfo, academic types.AcademicInfo) {
	if len(application.StepData) == 0 {
		return
	}

	var stepData map[string]json.RawMessage
	if err := json.Unmarshal(application.StepData, &stepData); err != nil {
		return
	}

	if raw, ok := stepData[types.StepKeyPersonal]; ok {
		_ = json.Unmarshal(raw, &personal)
	}
	if raw, ok := stepData[types.StepKeyAcademic]; ok {
		_ = json.Unmarshal(raw, &academic)
	}

	return
}

// SubmitApplication freezes the draft. Validation is presence-only: the four
// required fields must be non-empty, nothing else is checked.
func SubmitApplication(identity Identity, applicationID uint) error {
	application, err := getApplicationRow(applicationID)

	if err != nil {
		return err
	}

	if application.StudentID != identity.ID {
		return fmt.Errorf("not your application: %w", ErrForbidden)
	}

	if application.Status != models.ApplicationDraft {
		return fmt.Errorf("already submitted: %w", ErrInvalidState)
	}

	var scholarship models.Scholarship

	if err := db.DB.First(&scholarship, application.ScholarshipID).Error; err != nil {
		return err
	}

	if scholarship.Status != models.ScholarshipPublished {
		return fmt.Errorf("scholarship is no longer available: %w", ErrInvalidState)
	}

	personal, academic := decodeStepData(application)

	if strings.TrimSpace(personal.FullName) == "" || strings.TrimSpace(personal.Phone) == "" {
		return fmt.Errorf("missing personal info: %w", ErrInvalidInput)
	}

	if strings.TrimSpace(academic.Institution) == "" || strings.TrimSpace(academic.Level) == "" {
		return fmt.Errorf("missing academic info: %w", ErrInvalidInput)
	}

	now := time.Now()

	updates := map[string]interface{}{
		"status":       models.ApplicationSubmitted,
		"submitted_at": &now,
		"current_step": models.ApplicationLastStep,
	}

	if err := db.DB.Model(application).Updates(updates).Error; err != nil {
		return err
	}

	metrics.ApplicationsSubmitted.Inc()

	// Best-effort: the donor notification never affects submission success.
	var donor models.User
	if err := db.DB.First(&donor, scholarship.DonorID).Error; err != nil {
		log.Printf("Failed to load donor %d for submission notification: %v", scholarship.DonorID, err)
		return nil
	}

	if err := mailer.SendSubmissionEmail(donor.Email, personal.FullName, scholarship.Title, application.ID); err != nil {
		log.Printf("Failed to send submission notification: %v", err)
	}

	return nil
}

// DecideApplication records an accept/reject decision by an admin or the donor
// who owns the scholarship. The matching note is set and the other cleared.
func DecideApplication(identity Identity, applicationID uint, decision, note string) (*models.Application, error) {
	if identity.Role != models.RoleAdmin && identity.Role != models.RoleDonor {
		return nil, fmt.Errorf("only donors and admins can decide applications: %w", ErrForbidden)
	}

	if decision != DecisionAccept && decision != DecisionReject {
		return nil, fmt.Errorf("decision must be ACCEPT or REJECT: %w", ErrInvalidInput)
	}

	application, err := getApplicationRow(applicationID)

	if err != nil {
		return nil, err
	}

	var scholarship models.Scholarship

	if err := db.DB.First(&scholarship, application.ScholarshipID).Error; err != nil {
		return nil, err
	}

	if identity.Role == models.RoleDonor && scholarship.DonorID != identity.ID {
		return nil, fmt.Errorf("not your scholarship: %w", ErrForbidden)
	}

	decided := application.Status == models.ApplicationAccepted || application.Status == models.ApplicationRejected
	if decided && !decisionOverturnAllowed() {
		return nil, fmt.Errorf("application is already decided: %w", ErrInvalidState)
	}

	updates := map[string]interface{}{
		"status":          models.ApplicationRejected,
		"rejection_note":  note,
		"acceptance_note": "",
	}

	if decision == DecisionAccept {
		updates = map[string]interface{}{
			"status":          models.ApplicationAccepted,
			"acceptance_note": note,
			"rejection_note":  "",
		}
	}

	if err := db.DB.Model(application).Updates(updates).Error; err != nil {
		return nil, err
	}

	metrics.ApplicationsDecided.Inc()

	// Best-effort student notification; failures are logged and swallowed.
	var student models.User
	if err := db.DB.First(&student, application.StudentID).Error; err != nil {
		log.Printf("Failed to load student %d for decision notification: %v", application.StudentID, err)
		return application, nil
	}

	if decision == DecisionAccept {
		if err := mailer.SendAcceptanceEmail(student.Email, student.Name, scholarship.Title, note); err != nil {
			log.Printf("Failed to send acceptance notification: %v", err)
		}
	} else {
		if err := mailer.SendRejectionEmail(student.Email, student.Name, note); err != nil {
			log.Printf("Failed to send rejection notification: %v", err)
		}
	}

	return application, nil
}

// GetApplication returns the student's own application with document metadata.
func GetApplication(identity Identity, applicationID uint) (*models.Application, error) {
	var application models.Application

	err := db.DB.Preload("Documents").Preload("Scholarship").First(&application, applicationID).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("application not found: %w", ErrNotFound)
		}
		return nil, err
	}

	if application.StudentID != identity.ID {
		return nil, fmt.Errorf("not your application: %w", ErrForbidden)
	}

	return &application, nil
}

// ListStudentApplications returns the student's applications, newest first.
func ListStudentApplications(identity Identity) ([]models.Application, error) {
	var applications []models.Application

	err := db.DB.Preload("Scholarship").
		Where("student_id = ?", identity.ID).
		Order("updated_at DESC").
		Find(&applications).Error

	if err != nil {
		return nil, err
	}

	return applications, nil
}
