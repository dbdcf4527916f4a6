package handlers

import (
	"net/http"

	"github.com/bursary-dev/bursary/internal/services"
	"github.com/bursary-dev/bursary/internal/utils"
	"github.com/gin-gonic/gin"
)

type SetStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type SetFeaturedRequest struct {
	Featured *bool `json:"featured" binding:"required"`
}

func SetScholarshipStatus(ctx *gin.Context) {
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

	var req SetStatusRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if err := services.SetScholarshipStatus(identityOf(currentUser), scholarshipID, req.Status); err != nil {
		respondServiceError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"ok": true})
}

func SetScholarshipFeatured(ctx *gin.Context) {
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

	var req SetFeaturedRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if err := services.SetScholarshipFeatured(identityOf(currentUser), scholarshipID, *req.Featured); err != nil {
		respondServiceError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"ok": true})
}

// ImportScholarships triggers one scrape batch of external listings.
func ImportScholarships(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	added, err := services.ImportExternalScholarships(identityOf(currentUser))

	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"added": added})
}

// ListAllScholarships is the admin moderation queue.
func ListAllScholarships(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	scholarships, err := services.ListAllScholarships(identityOf(currentUser))

	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	response := make([]ScholarshipResponse, 0, len(scholarships))
	for _, scholarship := range scholarships {
		response = append(response, buildScholarshipResponse(scholarship))
	}

	ctx.JSON(http.StatusOK, response)
}
