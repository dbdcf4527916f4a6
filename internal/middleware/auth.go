package middleware

import (
	"net/http"
	"strings"

	"github.com/bursary-dev/bursary/db"
	"github.com/bursary-dev/bursary/internal/auth"
	"github.com/bursary-dev/bursary/internal/models"
	"github.com/bursary-dev/bursary/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

type AuthenticatedUser struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// tokenFromRequest accepts either a Bearer header or the session cookie set at login.
func tokenFromRequest(ctx *gin.Context) string {
	authHeader := ctx.GetHeader("Authorization")

	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
		return ""
	}

	if cookie, err := ctx.Cookie("token"); err == nil {
		return cookie
	}

	return ""
}

func resolveUser(tokenString string) (AuthenticatedUser, bool) {
	token, err := auth.VerifyJWT(tokenString)

	if err != nil || !token.Valid {
		return AuthenticatedUser{}, false
	}

	claims, ok := token.Claims.(jwt.MapClaims)

	if !ok {
		return AuthenticatedUser{}, false
	}

	userIDFloat, ok := claims["user_id"].(float64)

	if !ok {
		return AuthenticatedUser{}, false
	}

	userID := uint(userIDFloat)

	var user models.User

	if err := db.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		return AuthenticatedUser{}, false
	}

	return AuthenticatedUser{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role,
	}, true
}

func AuthMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		tokenString := tokenFromRequest(ctx)

		if tokenString == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization token is required"})
			return
		}

		user, ok := resolveUser(tokenString)

		if !ok {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		ctx.Set(types.ContextUserKey, user)
		ctx.Next()
	}
}

// OptionalAuthMiddleware resolves an identity when a token is present but lets
// anonymous requests through. Used on public reads that adjust to the viewer.
func OptionalAuthMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if tokenString := tokenFromRequest(ctx); tokenString != "" {
			if user, ok := resolveUser(tokenString); ok {
				ctx.Set(types.ContextUserKey, user)
			}
		}
		ctx.Next()
	}
}

// RequireRoles aborts with 403 unless the authenticated user has one of the roles.
// Must run after AuthMiddleware.
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		value, exists := ctx.Get(types.ContextUserKey)

		if !exists {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization token is required"})
			return
		}

		user, ok := value.(AuthenticatedUser)

		if !ok {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization token is required"})
			return
		}

		for _, role := range roles {
			if user.Role == role {
				ctx.Next()
				return
			}
		}

		ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
	}
}
