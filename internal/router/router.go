package router

import (
	"time"

	"github.com/bursary-dev/bursary/internal/handlers"
	"github.com/bursary-dev/bursary/internal/middleware"
	"github.com/bursary-dev/bursary/internal/models"
	"github.com/bursary-dev/bursary/internal/types"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter() *gin.Engine {
	r := gin.Default()

	// Add CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     types.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)

		auth := api.Group("/auth")
		{
			auth.POST("/register", handlers.CreateUser)
			auth.POST("/login", handlers.LoginUser)
			auth.POST("/logout", handlers.LogoutUser)
			auth.GET("/me", middleware.AuthMiddleware(), handlers.Me)
		}

		scholarships := api.Group("/scholarships")
		{
			scholarships.GET("", handlers.ListScholarships)
			scholarships.GET("/:scholarship_id", middleware.OptionalAuthMiddleware(), handlers.GetScholarship)

			donor := scholarships.Group("", middleware.AuthMiddleware(), middleware.RequireRoles(models.RoleDonor, models.RoleAdmin))
			{
				donor.POST("", handlers.CreateScholarship)
				donor.PATCH("/:scholarship_id", handlers.UpdateScholarship)
				donor.DELETE("/:scholarship_id", handlers.DeleteScholarship)
				donor.POST("/:scholarship_id/request-publish", handlers.RequestPublishScholarship)
				donor.POST("/:scholarship_id/unpublish", handlers.UnpublishScholarship)
				donor.GET("/:scholarship_id/applications", handlers.ListApplicants)
			}

			student := scholarships.Group("", middleware.AuthMiddleware(), middleware.RequireRoles(models.RoleStudent))
			{
				student.POST("/:scholarship_id/save", handlers.SaveScholarship)
				student.DELETE("/:scholarship_id/save", handlers.UnsaveScholarship)
			}
		}

		applications := api.Group("/applications", middleware.AuthMiddleware())
		{
			student := applications.Group("", middleware.RequireRoles(models.RoleStudent))
			{
				student.POST("/upsert", handlers.UpsertApplication)
				student.GET("", handlers.ListMyApplications)
				student.GET("/:application_id", handlers.GetApplication)
				student.PATCH("/:application_id", handlers.UpdateApplicationStep)
				student.POST("/:application_id/submit", handlers.SubmitApplication)
				student.POST("/:application_id/documents", handlers.AttachDocument)
			}

			applications.POST("/:application_id/decision",
				middleware.RequireRoles(models.RoleDonor, models.RoleAdmin),
				handlers.DecideApplication)
		}

		me := api.Group("/me", middleware.AuthMiddleware())
		{
			me.GET("/scholarships", middleware.RequireRoles(models.RoleDonor, models.RoleAdmin), handlers.ListMyScholarships)
			me.GET("/saved", middleware.RequireRoles(models.RoleStudent), handlers.ListSavedScholarships)
		}

		admin := api.Group("/admin", middleware.AuthMiddleware(), middleware.RequireRoles(models.RoleAdmin))
		{
			admin.GET("/scholarships", handlers.ListAllScholarships)
			admin.PATCH("/scholarships/:scholarship_id/status", handlers.SetScholarshipStatus)
			admin.PATCH("/scholarships/:scholarship_id/feature", handlers.SetScholarshipFeatured)
			admin.POST("/scholarships/fetch", handlers.ImportScholarships)
		}
	}

	return r
}
