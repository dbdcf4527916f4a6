package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/bursary-dev/bursary/internal/services"
	"github.com/gin-gonic/gin"
)

var errorStatuses = []struct {
	sentinel error
	status   int
}{
	{services.ErrNotFound, http.StatusNotFound},
	{services.ErrForbidden, http.StatusForbidden},
	{services.ErrInvalidInput, http.StatusBadRequest},
	{services.ErrInvalidState, http.StatusBadRequest},
	{services.ErrPayloadTooLarge, http.StatusRequestEntityTooLarge},
	{services.ErrConflict, http.StatusConflict},
}

// respondServiceError translates an engine error into an HTTP response, keeping
// the specific reason and dropping the sentinel suffix.
func respondServiceError(ctx *gin.Context, err error) {
	for _, entry := range errorStatuses {
		if errors.Is(err, entry.sentinel) {
			message := strings.TrimSuffix(err.Error(), ": "+entry.sentinel.Error())
			ctx.JSON(entry.status, gin.H{"error": message})
			return
		}
	}

	log.Printf("Unexpected service error: %v", err)
	ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}
