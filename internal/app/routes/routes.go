package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/yigit/kaddem/internal/app/controllers"
	"github.com/yigit/kaddem/internal/middleware"
	"github.com/yigit/kaddem/internal/pkg/websocket"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	dashboardController *controllers.DashboardController,
	studentController *controllers.StudentController,
	departmentController *controllers.DepartmentController,
	wsHandler *websocket.Handler,
	authMiddleware *middleware.AuthMiddleware,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// Liveness stays public so probes work without a token
	v1.GET("/health", dashboardController.Health)

	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())

	authenticated.POST("/refresh", dashboardController.Refresh)
	authenticated.GET("/ws", wsHandler.HandleConnection)

	dashboard := authenticated.Group("/dashboard")
	{
		dashboard.GET("/stats", dashboardController.GetStats)
		dashboard.GET("/histogram", dashboardController.GetHistogram)
		dashboard.GET("/recent-students", dashboardController.GetRecentStudents)
	}

	students := authenticated.Group("/students")
	{
		students.GET("", studentController.ListStudents)
		students.GET("/:id", studentController.GetStudent)
		students.POST("", studentController.CreateStudent)
		students.POST("/with-assignments", studentController.CreateStudentWithAssignments)
		students.PUT("/:id", studentController.UpdateStudent)
		students.DELETE("/:id", studentController.DeleteStudent)
		students.PUT("/:id/department/:departmentId", studentController.AssignDepartment)
	}

	departments := authenticated.Group("/departments")
	{
		departments.GET("", departmentController.GetAllDepartments)
		departments.GET("/:id/students", departmentController.GetDepartmentStudents)
	}

	authenticated.GET("/contracts", departmentController.GetAllContracts)
	authenticated.GET("/teams", departmentController.GetAllTeams)
	authenticated.GET("/universities", departmentController.GetAllUniversities)
}
