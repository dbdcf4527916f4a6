package handlers

import (
	"net/http"
	"time"

	"github.com/bursary-dev/bursary/db"
	"github.com/bursary-dev/bursary/internal/middleware"
	"github.com/bursary-dev/bursary/internal/models"
	"github.com/bursary-dev/bursary/internal/services"
	"github.com/bursary-dev/bursary/internal/utils"
	"github.com/gin-gonic/gin"
)

type CreateScholarshipRequest struct {
	Title       string     `json:"title" binding:"required"`
	AmountGmd   int64      `json:"amountGmd" binding:"required"`
	Degree      string     `json:"degree" binding:"required"`
	Field       string     `json:"field" binding:"required"`
	Description string     `json:"description" binding:"required"`
	Deadline    *time.Time `json:"deadline"`
	Eligibility []string   `json:"eligibility"`
	SaveAsDraft *bool      `json:"saveAsDraft"`
}

type UpdateScholarshipRequest struct {
	Title         *string    `json:"title"`
	AmountGmd     *int64     `json:"amountGmd"`
	Degree        *string    `json:"degree"`
	Field         *string    `json:"field"`
	Description   *string    `json:"description"`
	Deadline      *time.Time `json:"deadline"`
	ClearDeadline bool       `json:"clearDeadline"`
	Eligibility   *[]string  `json:"eligibility"`
}

type DonorSummary struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type ScholarshipResponse struct {
	ID                     uint          `json:"id"`
	Title                  string        `json:"title"`
	AmountGmd              int64         `json:"amountGmd"`
	Degree                 string        `json:"degree"`
	Field                  string        `json:"field"`
	Description            string        `json:"description"`
	Deadline               *time.Time    `json:"deadline"`
	Status                 string        `json:"status"`
	Featured               bool          `json:"featured"`
	IsExternal             bool          `json:"isExternal"`
	ExternalApplicationURL string        `json:"externalApplicationUrl,omitempty"`
	Donor                  *DonorSummary `json:"donor,omitempty"`
	Eligibility            []string      `json:"eligibility,omitempty"`
	UpdatedAt              time.Time     `json:"updatedAt"`
}

func identityOf(user middleware.AuthenticatedUser) services.Identity {
	return services.Identity{ID: user.ID, Role: user.Role}
}

func buildScholarshipResponse(scholarship models.Scholarship) ScholarshipResponse {
	response := ScholarshipResponse{
		ID:                     scholarship.ID,
		Title:                  scholarship.Title,
		AmountGmd:              scholarship.AmountGmd,
		Degree:                 scholarship.Degree,
		Field:                  scholarship.Field,
		Description:            scholarship.Description,
		Deadline:               scholarship.Deadline,
		Status:                 scholarship.Status,
		Featured:               scholarship.Featured,
		IsExternal:             scholarship.IsExternal,
		ExternalApplicationURL: scholarship.ExternalApplicationURL,
		UpdatedAt:              scholarship.UpdatedAt,
	}

	if scholarship.Donor.ID != 0 {
		response.Donor = &DonorSummary{Name: scholarship.Donor.Name, Email: scholarship.Donor.Email}
	}

	for _, item := range scholarship.Eligibility {
		response.Eligibility = append(response.Eligibility, item.Text)
	}

	return response
}

func CreateScholarship(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req CreateScholarshipRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	saveAsDraft := req.SaveAsDraft != nil && *req.SaveAsDraft

	scholarship, err := services.CreateScholarship(identityOf(currentUser), services.CreateScholarshipInput{
		Title:       req.Title,
		AmountGmd:   req.AmountGmd,
		Degree:      req.Degree,
		Field:       req.Field,
		Description: req.Description,
		Deadline:    req.Deadline,
		Eligibility: req.Eligibility,
		SaveAsDraft: saveAsDraft,
	})

	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"scholarship": gin.H{"id": scholarship.ID, "status": scholarship.Status},
	})
}

func UpdateScholarship(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	scholarshipID, err := utils.GetIDParam(ctx, "scholarship_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req UpdateScholarshipRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	err = services.UpdateScholarship(identityOf(currentUser), scholarshipID, services.UpdateScholarshipInput{
		Title:         req.Title,
		AmountGmd:     req.AmountGmd,
		Degree:        req.Degree,
		Field:         req.Field,
		Description:   req.Description,
		Deadline:      req.Deadline,
		ClearDeadline: req.ClearDeadline,
		Eligibility:   req.Eligibility,
	})

	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"ok": true})
}

func DeleteScholarship(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	scholarshipID, err := utils.GetIDParam(ctx, "scholarship_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := services.DeleteScholarship(identityOf(currentUser), scholarshipID); err != nil {
		respondServiceError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"ok": true})
}

func RequestPublishScholarship(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	scholarshipID, err := utils.GetIDParam(ctx, "scholarship_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := services.RequestPublish(identityOf(currentUser), scholarshipID); err != nil {
		respondServiceError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"ok": true})
}

func UnpublishScholarship(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	scholarshipID, err := utils.GetIDParam(ctx, "scholarship_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := services.UnpublishScholarship(identityOf(currentUser), scholarshipID); err != nil {
		respondServiceError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"ok": true})
}

func ListScholarships(ctx *gin.Context) {
	scholarships, err := services.ListScholarships(ctx.Query("q"))

	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve scholarships"})
		return
	}

	response := make([]ScholarshipResponse, 0, len(scholarships))
	for _, scholarship := range scholarships {
		response = append(response, buildScholarshipResponse(scholarship))
	}

	ctx.JSON(http.StatusOK, response)
}

// GetScholarship serves the public detail view. For students it also reports
// their existing application and whether they saved the scholarship.
func GetScholarship(ctx *gin.Context) {
	scholarshipID, err := utils.GetIDParam(ctx, "scholarship_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var identity *services.Identity

	currentUser := utils.GetOptionalUser(ctx)
	if currentUser != nil {
		resolved := identityOf(*currentUser)
		identity = &resolved
	}

	scholarship, err := services.GetScholarship(identity, scholarshipID)

	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	response := gin.H{"scholarship": buildScholarshipResponse(*scholarship)}

	if currentUser != nil && currentUser.Role == models.RoleStudent {
		saved, err := services.IsScholarshipSaved(*identity, scholarship.ID)
		if err == nil {
			response["saved"] = saved
		}

		var application models.Application
		err = db.DB.Select("id, status").
			Where("student_id = ? AND scholarship_id = ?", currentUser.ID, scholarship.ID).
			First(&application).Error
		if err == nil {
			response["application"] = gin.H{"id": application.ID, "status": application.Status}
		}
	}

	ctx.JSON(http.StatusOK, response)
}

type DonorScholarshipSummary struct {
	ScholarshipResponse
	ApplicantCount int64 `json:"applicantCount"`
}

// ListMyScholarships backs the donor dashboard: own rows plus applicant counts.
func ListMyScholarships(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	scholarships, err := services.ListDonorScholarships(identityOf(currentUser))

	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve scholarships"})
		return
	}

	response := make([]DonorScholarshipSummary, 0, len(scholarships))

	for _, scholarship := range scholarships {
		var count int64

		db.DB.Model(&models.Application{}).
			Where("scholarship_id = ? AND status <> ?", scholarship.ID, models.ApplicationDraft).
			Count(&count)

		response = append(response, DonorScholarshipSummary{
			ScholarshipResponse: buildScholarshipResponse(scholarship),
			ApplicantCount:      count,
		})
	}

	ctx.JSON(http.StatusOK, response)
}

type ApplicantResponse struct {
	ID          uint       `json:"id"`
	Status      string     `json:"status"`
	CurrentStep int        `json:"currentStep"`
	SubmittedAt *time.Time `json:"submittedAt"`
	Student     struct {
		ID    uint   `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	} `json:"student"`
}

func ListApplicants(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	scholarshipID, err := utils.GetIDParam(ctx, "scholarship_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	applications, err := services.ListApplicants(identityOf(currentUser), scholarshipID)

	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	response := make([]ApplicantResponse, 0, len(applications))

	for _, application := range applications {
		applicant := ApplicantResponse{
			ID:          application.ID,
			Status:      application.Status,
			CurrentStep: application.CurrentStep,
			SubmittedAt: application.SubmittedAt,
		}
		applicant.Student.ID = application.Student.ID
		applicant.Student.Name = application.Student.Name
		applicant.Student.Email = application.Student.Email

		response = append(response, applicant)
	}

	ctx.JSON(http.StatusOK, response)
}
