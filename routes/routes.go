package routes

import (
	"hackathon-management-api/controllers"
	"hackathon-management-api/middleware"
	"hackathon-management-api/models"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine) {
	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			// Authentication
			public.POST("/login", controllers.Login)
			public.POST("/signup", controllers.Signup)

			// Team registration goes to the staging queue, not straight to teams
			public.POST("/register-team", controllers.RegisterTeam)

			// Registration form data
			public.GET("/institutes", controllers.GetInstitutes)
			public.GET("/problem-statements", controllers.GetProblemStatements)

			// Certificate verification by serial
			public.GET("/certificates/verify/:serial", controllers.VerifyCertificate)

			// Health check
			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "Hackathon Management API is running",
				})
			})
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			// User profile
			protected.GET("/profile", controllers.GetProfile)
			protected.PUT("/change-password", controllers.ChangePassword)

			// Notifications (visibility resolved per caller)
			notifications := protected.Group("/notifications")
			{
				notifications.GET("", controllers.GetNotifications)
				notifications.GET("/counter", controllers.GetNotificationCounter)
				notifications.PUT("/:id/read", controllers.MarkNotificationRead)
				notifications.PUT("/read-all", controllers.MarkAllNotificationsRead)

				notifications.POST("", middleware.RequireRole(models.RoleAdmin), controllers.CreateNotification)
				notifications.DELETE("/:id", middleware.RequireRole(models.RoleAdmin), controllers.DeactivateNotification)
			}

			// Announcements
			announcements := protected.Group("/announcements")
			{
				announcements.GET("", controllers.GetAnnouncements)
				announcements.POST("", middleware.RequireRole(models.RoleAdmin), controllers.CreateAnnouncement)
				announcements.DELETE("/:id", middleware.RequireRole(models.RoleAdmin), controllers.DeactivateAnnouncement)
			}

			// Team views
			teams := protected.Group("/teams")
			{
				teams.GET("/my", middleware.RequireRole(models.RoleStudent), controllers.GetMyTeam)
				teams.GET("", middleware.RequireRole(models.RoleAdmin), controllers.GetTeams)
				teams.GET("/institute", middleware.RequireRole(models.RoleSpoc, models.RoleMentor), controllers.GetInstituteTeams)
				teams.PUT("/problem-statement", middleware.RequireRole(models.RoleStudent), controllers.SelectProblemStatement)
				teams.PUT("/:id/phases/:phase",
					middleware.RequireRole(models.RoleAdmin, models.RoleSpoc, models.RoleMentor),
					controllers.UpdatePhaseStatus)
				teams.GET("/:id/submissions", controllers.GetTeamSubmissions)
				teams.POST("/:id/certificates", middleware.RequireRole(models.RoleAdmin), controllers.GenerateTeamCertificates)
			}

			// Submissions
			submissions := protected.Group("/submissions")
			{
				submissions.POST("", middleware.RequireRole(models.RoleStudent), controllers.CreateSubmission)
				submissions.POST("/resubmit", middleware.RequireRole(models.RoleStudent), controllers.ResubmitSubmission)
				submissions.GET("", middleware.RequireRole(models.RoleAdmin, models.RoleJudge), controllers.GetAllSubmissions)
				submissions.POST("/:id/lock", middleware.RequireRole(models.RoleAdmin), controllers.LockSubmission)
				submissions.POST("/:id/score", middleware.RequireRole(models.RoleAdmin, models.RoleJudge), controllers.ScoreSubmission)
				submissions.DELETE("/:id", middleware.RequireRole(models.RoleAdmin), controllers.DeleteSubmission)
				submissions.GET("/settings", controllers.GetSubmissionSettings)
				submissions.PUT("/settings", middleware.RequireRole(models.RoleAdmin), controllers.UpdateSubmissionSettings)
			}

			// Certificates
			protected.GET("/certificates/my", controllers.GetMyCertificates)

			// Dashboards
			dashboard := protected.Group("/dashboard")
			{
				dashboard.GET("/admin", middleware.RequireRole(models.RoleAdmin), controllers.GetAdminDashboard)
				dashboard.GET("/spoc", middleware.RequireRole(models.RoleSpoc), controllers.GetSpocDashboard)
			}

			// Admin: governance workflow and account management
			admin := protected.Group("/admin")
			admin.Use(middleware.RequireRole(models.RoleAdmin))
			{
				admin.GET("/registrations", controllers.GetPendingRegistrations)
				admin.POST("/registrations/:id/approve", controllers.ApproveRegistration)
				admin.POST("/registrations/:id/reject", controllers.RejectRegistration)

				admin.POST("/users", controllers.CreateUser)
				admin.GET("/users", controllers.GetUsers)
				admin.DELETE("/users/:id", controllers.DeleteUser)
				admin.POST("/judges/:id/teams", controllers.AssignJudgeTeam)

				admin.PUT("/institutes", controllers.UpsertInstitute)
				admin.POST("/problem-statements", controllers.CreateProblemStatement)
				admin.PUT("/problem-statements/:id", controllers.UpdateProblemStatement)
			}
		}
	}
}
