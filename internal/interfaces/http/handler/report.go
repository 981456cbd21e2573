package handler

import (
	"time"

	reportapp "github.com/agrifarma/backend/internal/application/report"
	"github.com/gin-gonic/gin"
)

// ReportHandler serves summary pages and admin reports
type ReportHandler struct {
	BaseHandler
	reportService *reportapp.ReportService
	now           func() time.Time
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService *reportapp.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService, now: time.Now}
}

// Home godoc
// @Summary      Home page
// @Description  Latest approved posts and products with site counters
// @Tags         reports
// @Produce      json
// @Success      200 {object} dto.Response{data=reportapp.HomeStats}
// @Router       /home [get]
func (h *ReportHandler) Home(c *gin.Context) {
	stats, err := h.reportService.HomeStats(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stats)
}

// Dashboard godoc
// @Summary      User dashboard
// @Description  The caller's post, product and order counts with recent activity
// @Tags         reports
// @Produce      json
// @Success      200 {object} dto.Response{data=reportapp.UserDashboard}
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /dashboard [get]
func (h *ReportHandler) Dashboard(c *gin.Context) {
	dashboard, err := h.reportService.UserDashboard(c.Request.Context(), actor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dashboard)
}

// AdminStats godoc
// @Summary      Admin statistics
// @Description  Site-wide totals and approval queues
// @Tags         admin
// @Produce      json
// @Success      200 {object} dto.Response{data=report.AdminStats}
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/stats [get]
func (h *ReportHandler) AdminStats(c *gin.Context) {
	stats, err := h.reportService.AdminStats(c.Request.Context(), actor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stats)
}

// AdminDailyReport godoc
// @Summary      Daily report
// @Description  Activity of the current day in the configured timezone
// @Tags         admin
// @Produce      json
// @Success      200 {object} dto.Response{data=report.DailyReport}
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/reports/daily [get]
func (h *ReportHandler) AdminDailyReport(c *gin.Context) {
	daily, err := h.reportService.AdminDailyReport(c.Request.Context(), actor(c), h.now())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, daily)
}
