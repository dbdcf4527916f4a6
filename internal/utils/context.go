package utils

import (
	"fmt"

	"github.com/bursary-dev/bursary/internal/middleware"
	"github.com/bursary-dev/bursary/internal/types"
	"github.com/gin-gonic/gin"
)

func GetCurrentUser(ctx *gin.Context) (middleware.AuthenticatedUser, error) {
	user, exists := ctx.Get(types.ContextUserKey)

	if !exists {
		return middleware.AuthenticatedUser{}, fmt.Errorf("User not authenticated")
	}

	authenticatedUser, ok := user.(middleware.AuthenticatedUser)

	if !ok {
		return middleware.AuthenticatedUser{}, fmt.Errorf("Invalid user type in context")
	}

	return authenticatedUser, nil
}

// GetOptionalUser returns the authenticated user when one was resolved, or nil.
func GetOptionalUser(ctx *gin.Context) *middleware.AuthenticatedUser {
	user, err := GetCurrentUser(ctx)

	if err != nil {
		return nil
	}

	return &user
}
