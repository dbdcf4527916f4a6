package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/bursary-dev/bursary/internal/models"
	"github.com/bursary-dev/bursary/internal/services"
	"github.com/bursary-dev/bursary/internal/utils"
	"github.com/gin-gonic/gin"
)

type UpsertApplicationRequest struct {
	ScholarshipID uint `json:"scholarshipId" binding:"required"`
}

type UpdateApplicationRequest struct {
	CurrentStep *int                       `json:"currentStep"`
	StepData    map[string]json.RawMessage `json:"stepData"`
}

type AttachDocumentRequest struct {
	Filename string `json:"filename" binding:"required"`
	MimeType string `json:"mimeType" binding:"required"`
	Kind     string `json:"kind"`
	Content  []byte `json:"content" binding:"required"`
}

type DecideApplicationRequest struct {
	Decision string `json:"decision" binding:"required"`
	Note     string `json:"note"`
}

type DocumentResponse struct {
	ID       uint   `json:"id"`
	Filename string `json:"filename"`
	MimeType string `json:"mimeType"`
	Kind     string `json:"kind"`
}

type ApplicationResponse struct {
	ID            uint               `json:"id"`
	ScholarshipID uint               `json:"scholarshipId"`
	Status        string             `json:"status"`
	CurrentStep   int                `json:"currentStep"`
	StepData      json.RawMessage    `json:"stepData"`
	SubmittedAt   *time.Time         `json:"submittedAt"`
	Documents     []DocumentResponse `json:"documents"`
}

func buildApplicationResponse(application models.Application) ApplicationResponse {
	stepData := json.RawMessage(application.StepData)
	if len(stepData) == 0 {
		stepData = json.RawMessage("{}")
	}

	response := ApplicationResponse{
		ID:            application.ID,
		ScholarshipID: application.ScholarshipID,
		Status:        application.Status,
		CurrentStep:   application.CurrentStep,
		StepData:      stepData,
		SubmittedAt:   application.SubmittedAt,
		Documents:     []DocumentResponse{},
	}

	for _, document := range application.Documents {
		response.Documents = append(response.Documents, DocumentResponse{
			ID:       document.ID,
			Filename: document.Filename,
			MimeType: document.MimeType,
			Kind:     document.Kind,
		})
	}

	return response
}

// UpsertApplication opens the apply flow: it creates a draft on first visit and
// returns the existing application unchanged on every visit after that.
func UpsertApplication(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req UpsertApplicationRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	application, err := services.InitiateApplication(identityOf(currentUser), req.ScholarshipID)

	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"application": buildApplicationResponse(*application)})
}

func GetApplication(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	applicationID, err := utils.GetIDParam(ctx, "application_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	application, err := services.GetApplication(identityOf(currentUser), applicationID)

	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"application": buildApplicationResponse(*application)})
}

func UpdateApplicationStep(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	applicationID, err := utils.GetIDParam(ctx, "application_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req UpdateApplicationRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	application, err := services.UpdateApplicationStep(identityOf(currentUser), applicationID, req.CurrentStep, req.StepData)

	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"application": gin.H{
			"id":          application.ID,
			"currentStep": application.CurrentStep,
			"stepData":    json.RawMessage(application.StepData),
		},
	})
}

func SubmitApplication(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	applicationID, err := utils.GetIDParam(ctx, "application_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := services.SubmitApplication(identityOf(currentUser), applicationID); err != nil {
		respondServiceError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"ok": true})
}

func AttachDocument(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	applicationID, err := utils.GetIDParam(ctx, "application_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req AttachDocumentRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	document, err := services.AttachDocument(identityOf(currentUser), applicationID, services.AttachDocumentInput{
		Filename: req.Filename,
		MimeType: req.MimeType,
		Kind:     req.Kind,
		Content:  req.Content,
	})

	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"document": DocumentResponse{
			ID:       document.ID,
			Filename: document.Filename,
			MimeType: document.MimeType,
			Kind:     document.Kind,
		},
	})
}

func DecideApplication(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	applicationID, err := utils.GetIDParam(ctx, "application_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req DecideApplicationRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	application, err := services.DecideApplication(identityOf(currentUser), applicationID, req.Decision, req.Note)

	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"application": gin.H{"id": application.ID, "status": application.Status},
	})
}

// ListMyApplications backs the student dashboard.
func ListMyApplications(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	applications, err := services.ListStudentApplications(identityOf(currentUser))

	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve applications"})
		return
	}

	type studentApplication struct {
		ID          uint       `json:"id"`
		Status      string     `json:"status"`
		CurrentStep int        `json:"currentStep"`
		SubmittedAt *time.Time `json:"submittedAt"`
		Scholarship gin.H      `json:"scholarship"`
	}

	response := make([]studentApplication, 0, len(applications))

	for _, application := range applications {
		response = append(response, studentApplication{
			ID:          application.ID,
			Status:      application.Status,
			CurrentStep: application.CurrentStep,
			SubmittedAt: application.SubmittedAt,
			Scholarship: gin.H{
				"id":        application.Scholarship.ID,
				"title":     application.Scholarship.Title,
				"amountGmd": application.Scholarship.AmountGmd,
				"status":    application.Scholarship.Status,
			},
		})
	}

	ctx.JSON(http.StatusOK, response)
}
