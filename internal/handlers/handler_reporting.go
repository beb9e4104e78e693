package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vbfontes/fin_crm_app/internal/apperrors"
	"github.com/vbfontes/fin_crm_app/internal/core/domain"
	portssvc "github.com/vbfontes/fin_crm_app/internal/core/ports/services"
	"github.com/vbfontes/fin_crm_app/internal/dto"
	"github.com/vbfontes/fin_crm_app/internal/middleware"
)

// reportingHandler handles HTTP requests related to financial reports
type reportingHandler struct {
	reportingService portssvc.ReportingSvcFacade
}

// newReportingHandler creates a new reportingHandler
func newReportingHandler(rs portssvc.ReportingSvcFacade) *reportingHandler {
	return &reportingHandler{
		reportingService: rs,
	}
}

// registerReportingRoutes registers routes related to financial reports
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingSvcFacade) {
	h := newReportingHandler(reportingService)

	// Routes for reports are nested under a specific organization
	reportingGroup := rg.Group("/reports")
	{
		reportingGroup.GET("/dre", h.getDreReport)
		reportingGroup.GET("/cash-flow", h.getCashFlowProjection)
	}
}

// parsePeriod reads the fromDate/toDate query parameters, defaulting to the
// current calendar month, and validates their ordering.
func parsePeriod(c *gin.Context) (from, to time.Time, fromStr, toStr string, err error) {
	now := time.Now()
	firstDayOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	fromStr = c.DefaultQuery("fromDate", firstDayOfMonth.Format("2006-01-02"))
	from, err = time.Parse("2006-01-02", fromStr)
	if err != nil {
		return from, to, fromStr, toStr, errors.New("invalid fromDate format, use YYYY-MM-DD")
	}

	toStr = c.DefaultQuery("toDate", now.Format("2006-01-02"))
	to, err = time.Parse("2006-01-02", toStr)
	if err != nil {
		return from, to, fromStr, toStr, errors.New("invalid toDate format, use YYYY-MM-DD")
	}

	if from.After(to) {
		return from, to, fromStr, toStr, errors.New("fromDate must be before or equal to toDate")
	}

	return from, to, fromStr, toStr, nil
}

// getDreReport godoc
// @Summary Generate DRE income statement
// @Description Generates the cascading income statement (DRE) for a period. All twelve statement lines are always present, each with its per-category breakdown and the derived subtotals.
// @Tags reports
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Param fromDate query string false "Start date (YYYY-MM-DD)" default(first day of current month)
// @Param toDate query string false "End date (YYYY-MM-DD)" default(current date)
// @Param regime query string false "Accounting regime: COMPETENCE (recognition date) or CASH (settlement date)" default(COMPETENCE)
// @Success 200 {object} dto.DreReportResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Forbidden (user not authorized)"
// @Failure 500 {object} ErrorResponse "Failed to generate report"
// @Security BearerAuth
// @Router /organizations/{organization_id}/reports/dre [get]
func (h *reportingHandler) getDreReport(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	organizationID := c.Param("organization_id")
	if organizationID == "" {
		logger.Error("Organization ID missing from path for getDreReport")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Organization ID required in path"})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	from, to, fromStr, toStr, err := parsePeriod(c)
	if err != nil {
		logger.Warn("Invalid report period", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	regime := domain.Regime(c.DefaultQuery("regime", string(domain.RegimeCompetence)))
	if !regime.IsValid() {
		logger.Warn("Invalid regime requested", slog.String("regime", string(regime)))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid regime. Use COMPETENCE or CASH"})
		return
	}

	logger = logger.With(
		slog.String("user_id", userID),
		slog.String("organization_id", organizationID),
		slog.String("fromDate", fromStr),
		slog.String("toDate", toStr),
		slog.String("regime", string(regime)),
	)
	logger.Info("Received request to generate DRE report")

	report, err := h.reportingService.DreReport(c.Request.Context(), organizationID, from, to, regime, userID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrForbidden):
			logger.Warn("User forbidden to access DRE report")
			c.JSON(http.StatusForbidden, ErrorResponse{Error: "You do not have permission to access this report"})
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Organization not found")
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Organization not found"})
		case errors.Is(err, apperrors.ErrInvalidPeriod):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid report period"})
		case errors.Is(err, apperrors.ErrUnknownCategory):
			logger.Error("Report aborted due to unclassifiable record", slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, ErrorResponse{Error: "A record references an unknown category; report aborted"})
		default:
			logger.Error("Failed to generate DRE report", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to generate DRE report"})
		}
		return
	}

	response := dto.ToDreReportResponse(report, fromStr, toStr, regime)

	logger.Info("DRE report generated successfully", slog.Int("group_count", len(report.Groups)))
	c.JSON(http.StatusOK, response)
}

// getCashFlowProjection godoc
// @Summary Generate cash flow projection
// @Description Buckets non-canceled records (pending and settled) by settlement date over the requested horizon and carries a running cumulative balance across buckets.
// @Tags reports
// @Produce json
// @Param organization_id path string true "Organization ID"
// @Param fromDate query string false "Start date (YYYY-MM-DD)" default(first day of current month)
// @Param toDate query string false "End date (YYYY-MM-DD)" default(current date)
// @Param granularity query string false "Bucket size: DAILY, WEEKLY or MONTHLY" default(MONTHLY)
// @Success 200 {object} dto.CashFlowResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Forbidden (user not authorized)"
// @Failure 500 {object} ErrorResponse "Failed to generate projection"
// @Security BearerAuth
// @Router /organizations/{organization_id}/reports/cash-flow [get]
func (h *reportingHandler) getCashFlowProjection(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	organizationID := c.Param("organization_id")
	if organizationID == "" {
		logger.Error("Organization ID missing from path for getCashFlowProjection")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Organization ID required in path"})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	from, to, fromStr, toStr, err := parsePeriod(c)
	if err != nil {
		logger.Warn("Invalid projection period", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	granularity := domain.Granularity(c.DefaultQuery("granularity", string(domain.GranularityMonthly)))
	if !granularity.IsValid() {
		logger.Warn("Invalid granularity requested", slog.String("granularity", string(granularity)))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid granularity. Use DAILY, WEEKLY or MONTHLY"})
		return
	}

	logger = logger.With(
		slog.String("user_id", userID),
		slog.String("organization_id", organizationID),
		slog.String("fromDate", fromStr),
		slog.String("toDate", toStr),
		slog.String("granularity", string(granularity)),
	)
	logger.Info("Received request to generate cash flow projection")

	periods, err := h.reportingService.CashFlowProjection(c.Request.Context(), organizationID, from, to, granularity, userID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrForbidden):
			logger.Warn("User forbidden to access cash flow projection")
			c.JSON(http.StatusForbidden, ErrorResponse{Error: "You do not have permission to access this report"})
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Organization not found")
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Organization not found"})
		case errors.Is(err, apperrors.ErrInvalidPeriod):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid projection period"})
		case errors.Is(err, apperrors.ErrInvalidGranularity):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid granularity. Use DAILY, WEEKLY or MONTHLY"})
		default:
			logger.Error("Failed to generate cash flow projection", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to generate cash flow projection"})
		}
		return
	}

	response := dto.ToCashFlowResponse(periods, fromStr, toStr, granularity)

	logger.Info("Cash flow projection generated successfully", slog.Int("period_count", len(periods)))
	c.JSON(http.StatusOK, response)
}
