package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/esa-marseille/esa-manager/internal/app/controllers"
	"github.com/esa-marseille/esa-manager/internal/metrics"
	"github.com/esa-marseille/esa-manager/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	studentController *controllers.StudentController,
	volunteerController *controllers.VolunteerController,
	subjectController *controllers.SubjectController,
	pairingController *controllers.PairingController,
	mapController *controllers.MapController,
	exportController *controllers.ExportController,
	authMiddleware *middleware.AuthMiddleware,
) {
	// Operational endpoints outside the API group
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	// API version group
	v1 := router.Group("/api/v1")

	// --- Public routes ---
	v1.POST("/auth/login", authController.Login)

	maps := v1.Group("/map")
	{
		maps.GET("/pairings", mapController.GetMapPairings)
		maps.GET("/waiting", mapController.GetMapWaiting)
	}
	v1.GET("/stats", mapController.GetStats)

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		auth := authenticated.Group("/auth")
		{
			auth.POST("/password", authController.ChangePassword)
			auth.POST("/accounts", authMiddleware.AdminRequired(), authController.CreateAccount)
		}

		students := authenticated.Group("/students")
		{
			students.GET("", studentController.GetAllStudents)
			students.POST("", studentController.CreateStudent)
			students.GET("/:id", studentController.GetStudentByID)
			students.PUT("/:id", studentController.UpdateStudent)
			students.POST("/:id/archive", studentController.ArchiveStudent)
			students.POST("/:id/geocode", studentController.GeocodeStudent)
			students.DELETE("/:id", authMiddleware.AdminRequired(), studentController.DeleteStudent)
		}

		volunteers := authenticated.Group("/volunteers")
		{
			volunteers.GET("", volunteerController.GetAllVolunteers)
			volunteers.POST("", volunteerController.CreateVolunteer)
			volunteers.GET("/:id", volunteerController.GetVolunteerByID)
			volunteers.PUT("/:id", volunteerController.UpdateVolunteer)
			volunteers.POST("/:id/archive", volunteerController.ArchiveVolunteer)
			volunteers.POST("/:id/geocode", volunteerController.GeocodeVolunteer)
			volunteers.DELETE("/:id", authMiddleware.AdminRequired(), volunteerController.DeleteVolunteer)
		}

		subjects := authenticated.Group("/subjects")
		{
			subjects.GET("", subjectController.GetAllSubjects)
			subjects.POST("", subjectController.CreateSubject)
			subjects.PUT("/:id", subjectController.UpdateSubject)
			subjects.DELETE("/:id", authMiddleware.AdminRequired(), subjectController.DeleteSubject)
		}

		pairings := authenticated.Group("/pairings")
		{
			pairings.GET("", pairingController.GetAllPairings)
			pairings.POST("", pairingController.ActivatePairing)
			pairings.GET("/:id", pairingController.GetPairingByID)
			pairings.POST("/:id/deactivate", pairingController.EndPairing)
			pairings.DELETE("/:id", authMiddleware.AdminRequired(), pairingController.DeletePairing)
		}

		exports := authenticated.Group("/export")
		{
			exports.GET("/students", exportController.ExportStudents)
			exports.GET("/volunteers", exportController.ExportVolunteers)
		}
	}
}
