package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/job_closing_service/internal/apperrors"
	portssvc "github.com/SscSPs/job_closing_service/internal/core/ports/services"
	"github.com/SscSPs/job_closing_service/internal/dto"
	"github.com/SscSPs/job_closing_service/internal/middleware"
	"github.com/gin-gonic/gin"
)

// closingHandler handles HTTP requests for closing jobs
type closingHandler struct {
	closingService portssvc.ClosingSvcFacade
}

// newClosingHandler creates a new closingHandler
func newClosingHandler(cs portssvc.ClosingSvcFacade) *closingHandler {
	return &closingHandler{
		closingService: cs,
	}
}

// registerClosingRoutes registers the closing routes under a tenant
func registerClosingRoutes(rg *gin.RouterGroup, closingService portssvc.ClosingSvcFacade) {
	h := newClosingHandler(closingService)

	jobs := rg.Group("/jobs/:job_id")
	{
		jobs.POST("/closing/preview", h.previewClosing)
		jobs.POST("/closing", h.closeJob)
		jobs.GET("/closing", h.getClosing)
		jobs.POST("/reopen", h.reopenJob)
	}
	rg.POST("/closing/percentages", h.adjustPercentages)
}

// jobRequestContext pulls the path IDs and the authenticated user out of the request.
// It writes the error response itself and reports false when the request cannot proceed.
func jobRequestContext(c *gin.Context, logger *slog.Logger) (tenantID, jobID, userID string, ok bool) {
	tenantID = c.Param("tenant_id")
	jobID = c.Param("job_id")
	if tenantID == "" || jobID == "" {
		logger.Error("Tenant or job ID missing from path")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Tenant ID and job ID required in path"})
		return "", "", "", false
	}

	userID, found := middleware.GetUserIDFromContext(c)
	if !found {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", "", "", false
	}
	return tenantID, jobID, userID, true
}

// writeClosingError maps service errors onto HTTP statuses.
func writeClosingError(c *gin.Context, logger *slog.Logger, err error, fallback string) {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Closing input rejected", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrForbidden):
		logger.Warn("User forbidden to access job closing")
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to access this job"})
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Job or closing not found", slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrJobLocked):
		logger.Warn("Job already closed")
		c.JSON(http.StatusConflict, gin.H{"error": "Job is already closed"})
	case errors.Is(err, apperrors.ErrJobNotLocked):
		logger.Warn("Job is not closed")
		c.JSON(http.StatusConflict, gin.H{"error": "Job is not closed"})
	case errors.Is(err, apperrors.ErrReconciliation):
		logger.Error("Closing does not reconcile", slog.String("error", err.Error()))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

// previewClosing godoc
// @Summary Preview a job closing
// @Description Computes the profit split and balances for a job without saving anything
// @Tags closing
// @Accept json
// @Produce json
// @Param tenant_id path string true "Tenant ID"
// @Param job_id path string true "Job ID"
// @Param closing body dto.ClosingRequest true "Closing form"
// @Success 200 {object} dto.ClosingResultResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden (User not authorized)"
// @Failure 404 {object} map[string]string "Job not found"
// @Failure 422 {object} map[string]string "Closing does not reconcile"
// @Failure 500 {object} map[string]string "Failed to preview closing"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/jobs/{job_id}/closing/preview [post]
func (h *closingHandler) previewClosing(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, jobID, userID, ok := jobRequestContext(c, logger)
	if !ok {
		return
	}

	var req dto.ClosingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for previewClosing", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	logger = logger.With(
		slog.String("tenant_id", tenantID),
		slog.String("job_id", jobID),
	)

	result, err := h.closingService.PreviewClosing(c.Request.Context(), tenantID, jobID, req, userID)
	if err != nil {
		writeClosingError(c, logger, err, "Failed to preview closing")
		return
	}

	c.JSON(http.StatusOK, dto.ToClosingResultResponse(*result))
}

// closeJob godoc
// @Summary Close a job
// @Description Computes the closing, verifies that it reconciles, locks the job and stores the record
// @Tags closing
// @Accept json
// @Produce json
// @Param tenant_id path string true "Tenant ID"
// @Param job_id path string true "Job ID"
// @Param closing body dto.ClosingRequest true "Closing form"
// @Success 201 {object} dto.ClosingRecordResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden (User not authorized)"
// @Failure 404 {object} map[string]string "Job not found"
// @Failure 409 {object} map[string]string "Job already closed"
// @Failure 422 {object} map[string]string "Closing does not reconcile"
// @Failure 500 {object} map[string]string "Failed to close job"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/jobs/{job_id}/closing [post]
func (h *closingHandler) closeJob(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, jobID, userID, ok := jobRequestContext(c, logger)
	if !ok {
		return
	}

	var req dto.ClosingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for closeJob", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	logger = logger.With(
		slog.String("tenant_id", tenantID),
		slog.String("job_id", jobID),
	)
	logger.Info("Received request to close job", slog.Int("payment_count", len(req.Payments)))

	record, err := h.closingService.CloseJob(c.Request.Context(), tenantID, jobID, req, userID)
	if err != nil {
		writeClosingError(c, logger, err, "Failed to close job")
		return
	}

	logger.Info("Job closed successfully", slog.String("closing_id", record.ClosingID))
	c.JSON(http.StatusCreated, dto.ToClosingRecordResponse(record))
}

// getClosing godoc
// @Summary Get a job's closing
// @Description Returns the stored closing of a job as editable form state plus the confirmed result
// @Tags closing
// @Produce json
// @Param tenant_id path string true "Tenant ID"
// @Param job_id path string true "Job ID"
// @Success 200 {object} dto.GetClosingResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden (User not authorized)"
// @Failure 404 {object} map[string]string "Job or closing not found"
// @Failure 500 {object} map[string]string "Failed to get closing"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/jobs/{job_id}/closing [get]
func (h *closingHandler) getClosing(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, jobID, userID, ok := jobRequestContext(c, logger)
	if !ok {
		return
	}

	view, err := h.closingService.GetClosing(c.Request.Context(), tenantID, jobID, userID)
	if err != nil {
		writeClosingError(c, logger.With(slog.String("job_id", jobID)), err, "Failed to get closing")
		return
	}

	c.JSON(http.StatusOK, dto.ToGetClosingResponse(view))
}

// reopenJob godoc
// @Summary Reopen a closed job
// @Description Clears the job's lock so that it can be closed again
// @Tags closing
// @Param tenant_id path string true "Tenant ID"
// @Param job_id path string true "Job ID"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden (User not authorized)"
// @Failure 404 {object} map[string]string "Job not found"
// @Failure 409 {object} map[string]string "Job is not closed"
// @Failure 500 {object} map[string]string "Failed to reopen job"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/jobs/{job_id}/reopen [post]
func (h *closingHandler) reopenJob(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	tenantID, jobID, userID, ok := jobRequestContext(c, logger)
	if !ok {
		return
	}

	if err := h.closingService.ReopenJob(c.Request.Context(), tenantID, jobID, userID); err != nil {
		writeClosingError(c, logger.With(slog.String("job_id", jobID)), err, "Failed to reopen job")
		return
	}

	c.Status(http.StatusNoContent)
}

// adjustPercentages godoc
// @Summary Adjust commission percentages
// @Description Applies one edit of the commission form and re-balances the other fields
// @Tags closing
// @Accept json
// @Produce json
// @Param tenant_id path string true "Tenant ID"
// @Param edit body dto.AdjustPercentagesRequest true "Percentage edit"
// @Success 200 {object} dto.AdjustPercentagesResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /tenants/{tenant_id}/closing/percentages [post]
func (h *closingHandler) adjustPercentages(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	if _, ok := middleware.GetUserIDFromContext(c); !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.AdjustPercentagesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for adjustPercentages", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	split, advisory, err := h.closingService.AdjustPercentages(c.Request.Context(), req)
	if err != nil {
		writeClosingError(c, logger, err, "Failed to adjust percentages")
		return
	}

	c.JSON(http.StatusOK, dto.ToAdjustPercentagesResponse(*split, advisory))
}
