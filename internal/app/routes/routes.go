package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/yigit/unitrack/internal/app/controllers"
	"github.com/yigit/unitrack/internal/middleware"
	"github.com/yigit/unitrack/internal/pkg/websocket"
)

// Controllers groups the handlers mounted by SetupRouter
type Controllers struct {
	Health   *controllers.HealthController
	Auth     *controllers.AuthController
	Course   *controllers.CourseController
	Area     *controllers.AreaController
	Profile  *controllers.ProfileController
	Progress *controllers.ProgressController
	Backup   *controllers.BackupController
	Advisor  *controllers.AdvisorController
	Weather  *controllers.WeatherController
	Feed     *websocket.Handler
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, c Controllers, authMiddleware *middleware.AuthMiddleware) {
	router.NoRoute(middleware.NoRoute())

	// API version group
	v1 := router.Group("/api/v1")

	// --- Public routes ---
	v1.GET("/health", c.Health.Health)
	v1.POST("/auth/token", c.Auth.IssueToken)
	v1.GET("/weather", c.Weather.Current)

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		courses := authenticated.Group("/courses")
		{
			courses.GET("", c.Course.ListCourses)
			courses.POST("", c.Course.CreateCourse)
			courses.POST("/import", c.Course.ImportCourses)
			courses.GET("/:id", c.Course.GetCourse)
			courses.PUT("/:id", c.Course.UpdateCourse)
			courses.DELETE("/:id", c.Course.DeleteCourse)
			courses.PATCH("/:id/status", c.Course.SetCourseStatus)
		}

		areas := authenticated.Group("/areas")
		{
			areas.GET("", c.Area.ListAreas)
			areas.POST("", c.Area.CreateArea)
			areas.PUT("", c.Area.ReplaceAreas)
			areas.GET("/progress", c.Area.AreaProgress)
			areas.PUT("/:id", c.Area.UpdateArea)
			areas.DELETE("/:id", c.Area.DeleteArea)
			areas.GET("/:id/progress", c.Area.AreaProgressByID)
		}

		profile := authenticated.Group("/profile")
		{
			profile.GET("", c.Profile.GetProfile)
			profile.PUT("", c.Profile.UpdateProfile)
			profile.POST("/picture", c.Profile.UploadPicture)
			profile.DELETE("/picture", c.Profile.DeletePicture)
			profile.POST("/logo", c.Profile.UploadLogo)
			profile.DELETE("/logo", c.Profile.DeleteLogo)
		}
		authenticated.GET("/view-mode", c.Profile.GetViewMode)
		authenticated.PUT("/view-mode", c.Profile.SetViewMode)
		authenticated.GET("/status", c.Profile.GetStatus)

		progress := authenticated.Group("/progress")
		{
			progress.GET("/overview", c.Progress.Overview)
			progress.GET("/thesis", c.Progress.Thesis)
			progress.GET("/semesters", c.Progress.Semesters)
			progress.GET("/semesters-available", c.Progress.AvailableSemesters)
			progress.GET("/exams", c.Progress.Exams)
			progress.GET("/report", c.Progress.Report)
		}

		authenticated.GET("/backup", c.Backup.Export)
		authenticated.POST("/backup/restore", c.Backup.Restore)
		authenticated.DELETE("/data", c.Backup.Reset)

		advisor := authenticated.Group("/advisor")
		{
			advisor.POST("/advice", c.Advisor.Advice)
			advisor.POST("/report-summary", c.Advisor.ReportSummary)
			advisor.POST("/transcript", c.Advisor.Transcript)
			advisor.POST("/curriculum", c.Advisor.Curriculum)
		}

		authenticated.GET("/ws", c.Feed.HandleConnection)
	}
}
