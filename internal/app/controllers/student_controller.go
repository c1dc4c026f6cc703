package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/kaddem/internal/app/models/dto"
	"github.com/yigit/kaddem/internal/app/services"
	"github.com/yigit/kaddem/internal/middleware"
)

// StudentController handles student reads and mutations
type StudentController struct {
	dashboardService *services.DashboardService
}

// NewStudentController creates a new StudentController
func NewStudentController(dashboardService *services.DashboardService) *StudentController {
	return &StudentController{
		dashboardService: dashboardService,
	}
}

// ListStudents lists students as display rows
// @Summary List students
// @Description Lists students, optionally filtered by a case-insensitive search on first or last name
// @Tags students
// @Produce json
// @Param search query string false "Search text"
// @Success 200 {object} dto.APIResponse{data=dto.StudentListResponse}
// @Router /students [get]
func (c *StudentController) ListStudents(ctx *gin.Context) {
	resp := c.dashboardService.StudentRows(ctx.Request.Context(), ctx.Query("search"))
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(resp))
}

// GetStudent retrieves a student by ID
// @Summary Get student by ID
// @Tags students
// @Produce json
// @Param id path int true "Student ID"
// @Success 200 {object} dto.APIResponse{data=aggregator.DisplayRow}
// @Failure 400 {object} dto.APIResponse "Invalid student ID"
// @Failure 404 {object} dto.APIResponse "Student not found"
// @Failure 502 {object} dto.APIResponse "Backend unavailable"
// @Router /students/{id} [get]
func (c *StudentController) GetStudent(ctx *gin.Context) {
	id, ok := middleware.ParamID(ctx, "id")
	if !ok {
		return
	}

	row, err := c.dashboardService.Student(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(row))
}

// CreateStudent creates a student
// @Summary Create a student
// @Tags students
// @Accept json
// @Produce json
// @Param request body dto.StudentRequest true "Student information"
// @Success 201 {object} dto.APIResponse{data=aggregator.DisplayRow} "Student created"
// @Failure 400 {object} dto.APIResponse "Validation failed"
// @Failure 409 {object} dto.APIResponse "A create is already in progress"
// @Failure 502 {object} dto.APIResponse "Backend unavailable"
// @Router /students [post]
func (c *StudentController) CreateStudent(ctx *gin.Context) {
	var req dto.StudentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	row, err := c.dashboardService.CreateStudent(ctx.Request.Context(), req.Form())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(row))
}

// CreateStudentWithAssignments creates a student bound to a contract and a team
// @Summary Create a student with contract and team
// @Tags students
// @Accept json
// @Produce json
// @Param request body dto.CreateWithAssignmentsRequest true "Student and selections"
// @Success 201 {object} dto.APIResponse{data=aggregator.DisplayRow} "Student created"
// @Failure 400 {object} dto.APIResponse "Validation failed"
// @Failure 409 {object} dto.APIResponse "A create is already in progress"
// @Failure 502 {object} dto.APIResponse "Backend unavailable"
// @Router /students/with-assignments [post]
func (c *StudentController) CreateStudentWithAssignments(ctx *gin.Context) {
	var req dto.CreateWithAssignmentsRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	row, err := c.dashboardService.CreateStudentWithAssignments(ctx.Request.Context(), req.Form(), req.ContractID, req.TeamID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(row))
}

// UpdateStudent replaces a student
// @Summary Update a student
// @Tags students
// @Accept json
// @Produce json
// @Param id path int true "Student ID"
// @Param request body dto.StudentRequest true "Student information"
// @Success 200 {object} dto.APIResponse{data=aggregator.DisplayRow} "Student updated"
// @Failure 400 {object} dto.APIResponse "Validation failed"
// @Failure 404 {object} dto.APIResponse "Student not found"
// @Failure 409 {object} dto.APIResponse "An update of this student is already in progress"
// @Failure 502 {object} dto.APIResponse "Backend unavailable"
// @Router /students/{id} [put]
func (c *StudentController) UpdateStudent(ctx *gin.Context) {
	id, ok := middleware.ParamID(ctx, "id")
	if !ok {
		return
	}
	var req dto.StudentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	row, err := c.dashboardService.UpdateStudent(ctx.Request.Context(), id, req.Form())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(row))
}

// DeleteStudent removes a student
// @Summary Delete a student
// @Tags students
// @Produce json
// @Param id path int true "Student ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Student deleted"
// @Failure 404 {object} dto.APIResponse "Student not found"
// @Failure 409 {object} dto.APIResponse "A delete of this student is already in progress"
// @Failure 502 {object} dto.APIResponse "Backend unavailable"
// @Router /students/{id} [delete]
func (c *StudentController) DeleteStudent(ctx *gin.Context) {
	id, ok := middleware.ParamID(ctx, "id")
	if !ok {
		return
	}

	if err := c.dashboardService.DeleteStudent(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.SuccessResponse{Message: "Student deleted"}))
}

// AssignDepartment assigns a student to a department
// @Summary Assign a student to a department
// @Tags students
// @Produce json
// @Param id path int true "Student ID"
// @Param departmentId path int true "Department ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Student assigned"
// @Failure 400 {object} dto.APIResponse "Validation failed"
// @Failure 404 {object} dto.APIResponse "Student not found"
// @Failure 502 {object} dto.APIResponse "Backend unavailable"
// @Router /students/{id}/department/{departmentId} [put]
func (c *StudentController) AssignDepartment(ctx *gin.Context) {
	id, ok := middleware.ParamID(ctx, "id")
	if !ok {
		return
	}
	departmentID, ok := middleware.ParamID(ctx, "departmentId")
	if !ok {
		return
	}

	if err := c.dashboardService.AssignDepartment(ctx.Request.Context(), id, departmentID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.SuccessResponse{Message: "Student assigned to department"}))
}
