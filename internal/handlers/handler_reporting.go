package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/SscSPs/job_closing_service/internal/apperrors"
	"github.com/SscSPs/job_closing_service/internal/core/domain"
	portssvc "github.com/SscSPs/job_closing_service/internal/core/ports/services"
	"github.com/SscSPs/job_closing_service/internal/dto"
	"github.com/SscSPs/job_closing_service/internal/middleware"
	"github.com/gin-gonic/gin"
)

const reportDateLayout = "2006-01-02"

// reportingHandler handles HTTP requests related to closing reports
type reportingHandler struct {
	reportingService portssvc.ReportingService
}

// newReportingHandler creates a new reportingHandler
func newReportingHandler(rs portssvc.ReportingService) *reportingHandler {
	return &reportingHandler{
		reportingService: rs,
	}
}

// registerReportingRoutes registers routes related to closing reports
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingService) {
	h := newReportingHandler(reportingService)

	// Routes for reports are nested under a specific tenant
	reportingGroup := rg.Group("/reports")
	{
		reportingGroup.GET("/party-totals", h.getPartyTotals)
		reportingGroup.GET("/technician-totals", h.getTechnicianTotals)
		reportingGroup.GET("/closings", h.listClosings)
	}
}

// reportPeriod reads fromDate and toDate from the query string.
// fromDate defaults to the first day of the current month and toDate to today.
// The returned upper bound covers the whole toDate day.
func reportPeriod(c *gin.Context, logger *slog.Logger) (from, to time.Time, fromStr, toStr string, ok bool) {
	now := time.Now().UTC()
	firstDayOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	fromStr = c.DefaultQuery("fromDate", firstDayOfMonth.Format(reportDateLayout))
	from, err := time.Parse(reportDateLayout, fromStr)
	if err != nil {
		logger.Warn("Invalid from date format", slog.String("fromDate", fromStr), slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid fromDate format. Use YYYY-MM-DD"})
		return time.Time{}, time.Time{}, "", "", false
	}

	toStr = c.DefaultQuery("toDate", now.Format(reportDateLayout))
	toDay, err := time.Parse(reportDateLayout, toStr)
	if err != nil {
		logger.Warn("Invalid to date format", slog.String("toDate", toStr), slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid toDate format. Use YYYY-MM-DD"})
		return time.Time{}, time.Time{}, "", "", false
	}

	if from.After(toDay) {
		logger.Warn("Invalid date range", slog.String("fromDate", fromStr), slog.String("toDate", toStr))
		c.JSON(http.StatusBadRequest, gin.H{"error": "fromDate must be before or equal to toDate"})
		return time.Time{}, time.Time{}, "", "", false
	}

	return from, toDay.AddDate(0, 0, 1).Add(-time.Nanosecond), fromStr, toStr, true
}

// writeReportError maps reporting service errors onto HTTP statuses.
func writeReportError(c *gin.Context, logger *slog.Logger, err error, fallback string) {
	if errors.Is(err, apperrors.ErrForbidden) {
		logger.Warn("User forbidden to access report")
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to access this report"})
	} else if errors.Is(err, apperrors.ErrValidation) {
		logger.Warn("Invalid report request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	} else {
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

// getPartyTotals godoc
// @Summary Party totals report
// @Description Sums profits and balances of every party over the jobs closed in a period
// @Tags reports
// @Produce json
// @Param tenant_id path string true "Tenant ID"
// @Param fromDate query string false "Start date (YYYY-MM-DD)" default(first day of current month)
// @Param toDate query string false "End date (YYYY-MM-DD)" default(current date)
// @Success 200 {object} dto.PartyTotalsResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden (User not authorized)"
// @Failure 500 {object} map[string]string "Failed to generate report"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/reports/party-totals [get]
func (h *reportingHandler) getPartyTotals(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenant_id")
	if tenantID == "" {
		logger.Error("Tenant ID missing from path for getPartyTotals")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Tenant ID required in path"})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	from, to, fromStr, toStr, ok := reportPeriod(c, logger)
	if !ok {
		return
	}

	logger = logger.With(
		slog.String("tenant_id", tenantID),
		slog.String("fromDate", fromStr),
		slog.String("toDate", toStr),
	)
	logger.Info("Received request to generate party totals report")

	totals, err := h.reportingService.PartyTotals(c.Request.Context(), tenantID, from, to, userID)
	if err != nil {
		writeReportError(c, logger, err, "Failed to generate party totals report")
		return
	}

	logger.Info("Party totals report generated successfully", slog.Int("job_count", totals.JobCount))
	c.JSON(http.StatusOK, dto.PartyTotalsResponse{
		FromDate:    fromStr,
		ToDate:      toStr,
		PartyTotals: *totals,
	})
}

// getTechnicianTotals godoc
// @Summary Technician totals report
// @Description Sums profits and balances per technician over the jobs closed in a period
// @Tags reports
// @Produce json
// @Param tenant_id path string true "Tenant ID"
// @Param fromDate query string false "Start date (YYYY-MM-DD)" default(first day of current month)
// @Param toDate query string false "End date (YYYY-MM-DD)" default(current date)
// @Success 200 {object} dto.TechnicianTotalsResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden (User not authorized)"
// @Failure 500 {object} map[string]string "Failed to generate report"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/reports/technician-totals [get]
func (h *reportingHandler) getTechnicianTotals(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenant_id")
	if tenantID == "" {
		logger.Error("Tenant ID missing from path for getTechnicianTotals")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Tenant ID required in path"})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	from, to, fromStr, toStr, ok := reportPeriod(c, logger)
	if !ok {
		return
	}

	logger = logger.With(
		slog.String("tenant_id", tenantID),
		slog.String("fromDate", fromStr),
		slog.String("toDate", toStr),
	)

	rows, err := h.reportingService.TechnicianTotals(c.Request.Context(), tenantID, from, to, userID)
	if err != nil {
		writeReportError(c, logger, err, "Failed to generate technician totals report")
		return
	}

	if rows == nil {
		rows = []domain.TechnicianTotals{}
	}
	c.JSON(http.StatusOK, dto.TechnicianTotalsResponse{
		FromDate:    fromStr,
		ToDate:      toStr,
		Technicians: rows,
	})
}

// listClosings godoc
// @Summary List closings
// @Description Pages through the tenant's closing records, newest first
// @Tags reports
// @Produce json
// @Param tenant_id path string true "Tenant ID"
// @Param limit query int false "Page size" default(20)
// @Param nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListClosingsResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden (User not authorized)"
// @Failure 500 {object} map[string]string "Failed to list closings"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/reports/closings [get]
func (h *reportingHandler) listClosings(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID := c.Param("tenant_id")
	if tenantID == "" {
		logger.Error("Tenant ID missing from path for listClosings")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Tenant ID required in path"})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var params dto.ListClosingsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for listClosings", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.reportingService.ListClosings(c.Request.Context(), tenantID, userID, params)
	if err != nil {
		writeReportError(c, logger.With(slog.String("tenant_id", tenantID)), err, "Failed to list closings")
		return
	}

	c.JSON(http.StatusOK, resp)
}
