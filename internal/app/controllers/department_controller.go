package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/kaddem/internal/app/models/dto"
	"github.com/yigit/kaddem/internal/app/services"
	"github.com/yigit/kaddem/internal/middleware"
)

// DepartmentController handles department-related operations and the
// remaining read-only collections
type DepartmentController struct {
	dashboardService *services.DashboardService
}

// NewDepartmentController creates a new DepartmentController
func NewDepartmentController(dashboardService *services.DashboardService) *DepartmentController {
	return &DepartmentController{
		dashboardService: dashboardService,
	}
}

// GetAllDepartments retrieves all departments
// @Summary Get all departments
// @Tags departments
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.CollectionResponse[models.Department]} "Departments retrieved successfully"
// @Router /departments [get]
func (c *DepartmentController) GetAllDepartments(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(c.dashboardService.Departments(ctx.Request.Context())))
}

// GetDepartmentStudents selects a department and lists its students
// @Summary List department students
// @Tags departments
// @Produce json
// @Param id path int true "Department ID"
// @Success 200 {object} dto.APIResponse{data=dto.DepartmentStudentsResponse}
// @Failure 400 {object} dto.APIResponse "Invalid department ID"
// @Failure 502 {object} dto.APIResponse "Backend unavailable"
// @Router /departments/{id}/students [get]
func (c *DepartmentController) GetDepartmentStudents(ctx *gin.Context) {
	id, ok := middleware.ParamID(ctx, "id")
	if !ok {
		return
	}

	resp, err := c.dashboardService.StudentsByDepartment(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(resp))
}

// GetAllContracts retrieves all contracts
// @Summary Get all contracts
// @Tags contracts
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.CollectionResponse[models.Contract]}
// @Router /contracts [get]
func (c *DepartmentController) GetAllContracts(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(c.dashboardService.Contracts(ctx.Request.Context())))
}

// GetAllTeams retrieves all teams
// @Summary Get all teams
// @Tags teams
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.CollectionResponse[models.Team]}
// @Router /teams [get]
func (c *DepartmentController) GetAllTeams(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(c.dashboardService.Teams(ctx.Request.Context())))
}

// GetAllUniversities retrieves all universities
// @Summary Get all universities
// @Tags universities
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.CollectionResponse[models.University]}
// @Router /universities [get]
func (c *DepartmentController) GetAllUniversities(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(c.dashboardService.Universities(ctx.Request.Context())))
}
