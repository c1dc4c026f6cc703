package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/kaddem/internal/app/models/dto"
	"github.com/yigit/kaddem/internal/app/services"
	"github.com/yigit/kaddem/internal/middleware"
)

// DashboardController serves the dashboard panels
type DashboardController struct {
	dashboardService *services.DashboardService
	backendURL       string
}

// NewDashboardController creates a new DashboardController
func NewDashboardController(dashboardService *services.DashboardService, backendURL string) *DashboardController {
	return &DashboardController{
		dashboardService: dashboardService,
		backendURL:       backendURL,
	}
}

// GetStats returns the count of every collection
// @Summary Dashboard counts
// @Description Returns one count per collection in fixed order; failed collections count as zero
// @Tags dashboard
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.StatsResponse} "Counts retrieved"
// @Router /dashboard/stats [get]
func (c *DashboardController) GetStats(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(c.dashboardService.Stats(ctx.Request.Context())))
}

// GetHistogram returns the students-by-option histogram
// @Summary Students by option
// @Description Counts students per option; all four options are always present
// @Tags dashboard
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.HistogramResponse} "Histogram retrieved"
// @Router /dashboard/histogram [get]
func (c *DashboardController) GetHistogram(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(c.dashboardService.Histogram(ctx.Request.Context())))
}

// GetRecentStudents returns the recent students panel
// @Summary Recent students
// @Tags dashboard
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.RecentStudentsResponse} "Recent students retrieved"
// @Router /dashboard/recent-students [get]
func (c *DashboardController) GetRecentStudents(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(c.dashboardService.RecentStudents(ctx.Request.Context())))
}

// Refresh reloads every collection from the backend
// @Summary Reload collections
// @Description Reloads all collections concurrently and reports each state
// @Tags dashboard
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.RefreshResponse} "Reload finished, possibly partially"
// @Failure 502 {object} dto.APIResponse "Every collection failed"
// @Router /refresh [post]
func (c *DashboardController) Refresh(ctx *gin.Context) {
	resp, err := c.dashboardService.Refresh(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(resp))
}

// Health answers liveness probes
// @Summary Health check
// @Tags system
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.HealthResponse}
// @Router /health [get]
func (c *DashboardController) Health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.HealthResponse{Status: "ok", Backend: c.backendURL}))
}
