package handlers

import (
	"net/http"

	"github.com/bursary-dev/bursary/internal/services"
	"github.com/bursary-dev/bursary/internal/utils"
	"github.com/gin-gonic/gin"
)

func SaveScholarship(ctx *gin.Context) {
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

	if err := services.SaveScholarship(identityOf(currentUser), scholarshipID); err != nil {
		respondServiceError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"ok": true})
}

func UnsaveScholarship(ctx *gin.Context) {
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

	if err := services.UnsaveScholarship(identityOf(currentUser), scholarshipID); err != nil {
		respondServiceError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"ok": true})
}

func ListSavedScholarships(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	scholarships, err := services.ListSavedScholarships(identityOf(currentUser))

	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve saved scholarships"})
		return
	}

	response := make([]ScholarshipResponse, 0, len(scholarships))
	for _, scholarship := range scholarships {
		response = append(response, buildScholarshipResponse(scholarship))
	}

	ctx.JSON(http.StatusOK, response)
}
