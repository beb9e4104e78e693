package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vbfontes/fin_crm_app/internal/apperrors"
	portssvc "github.com/vbfontes/fin_crm_app/internal/core/ports/services"
	"github.com/vbfontes/fin_crm_app/internal/dto"
	"github.com/vbfontes/fin_crm_app/internal/middleware"
)

// recordHandler handles HTTP requests related to financial records.
type recordHandler struct {
	recordService portssvc.RecordSvcFacade
}

// newRecordHandler creates a new recordHandler.
func newRecordHandler(rs portssvc.RecordSvcFacade) *recordHandler {
	return &recordHandler{
		recordService: rs,
	}
}

// registerRecordRoutes registers record routes nested under a specific organization.
func registerRecordRoutes(rg *gin.RouterGroup, recordService portssvc.RecordSvcFacade) {
	h := newRecordHandler(recordService)

	records := rg.Group("/records")
	{
		records.POST("", h.createRecord)
		records.GET("", h.listRecords)
		records.GET("/:record_id", h.getRecord)
		records.PUT("/:record_id", h.updateRecord)
		records.POST("/:record_id/settle", h.settleRecord)
		records.POST("/:record_id/cancel", h.cancelRecord)
	}
}

// createRecord godoc
// @Summary Create a new financial record
// @Description Creates a receivable or payable. Amount must be a positive decimal string; the record starts PENDING.
// @Tags records
// @Accept  json
// @Produce  json
// @Param   organization_id path string true "Organization ID"
// @Param   record body dto.CreateRecordRequest true "Record details"
// @Success 201 {object} dto.RecordResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Failure 500 {object} ErrorResponse "Failed to create record"
// @Security BearerAuth
// @Router /organizations/{organization_id}/records [post]
func (h *recordHandler) createRecord(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	organizationID := c.Param("organization_id")

	var req dto.CreateRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createRecord", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: bindErrorMessage(err)})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("user_id", userID), slog.String("organization_id", organizationID))
	logger.Info("Received request to create record", slog.String("direction", req.Direction), slog.String("category_id", req.CategoryID))

	record, err := h.recordService.CreateRecord(c.Request.Context(), organizationID, req, userID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		case errors.Is(err, apperrors.ErrForbidden):
			c.JSON(http.StatusForbidden, ErrorResponse{Error: "Forbidden"})
		default:
			logger.Error("Failed to create record in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to create record"})
		}
		return
	}

	logger.Info("Record created successfully", slog.String("record_id", record.RecordID))
	c.JSON(http.StatusCreated, dto.ToRecordResponse(record))
}

// listRecords godoc
// @Summary List financial records
// @Description Retrieves a cursor-paginated list of the organization's records, newest settlement date first.
// @Tags records
// @Produce  json
// @Param   organization_id path string true "Organization ID"
// @Param   limit query int false "Limit number of results" default(20)
// @Param   nextToken query string false "Pagination token from a previous response"
// @Param   includeCanceled query bool false "Include canceled records" default(false)
// @Success 200 {object} dto.ListRecordsResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Failure 500 {object} ErrorResponse "Failed to list records"
// @Security BearerAuth
// @Router /organizations/{organization_id}/records [get]
func (h *recordHandler) listRecords(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	organizationID := c.Param("organization_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var params dto.ListRecordsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for listRecords", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.recordService.ListRecords(c.Request.Context(), organizationID, userID, params)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		case errors.Is(err, apperrors.ErrForbidden):
			c.JSON(http.StatusForbidden, ErrorResponse{Error: "Forbidden"})
		default:
			logger.Error("Failed to list records from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list records"})
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}

// getRecord godoc
// @Summary Get a record by ID
// @Description Retrieves details for a specific financial record.
// @Tags records
// @Produce  json
// @Param   organization_id path string true "Organization ID"
// @Param   record_id path string true "Record ID"
// @Success 200 {object} dto.RecordResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Failure 404 {object} ErrorResponse "Record not found"
// @Failure 500 {object} ErrorResponse "Failed to retrieve record"
// @Security BearerAuth
// @Router /organizations/{organization_id}/records/{record_id} [get]
func (h *recordHandler) getRecord(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	organizationID := c.Param("organization_id")
	recordID := c.Param("record_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	record, err := h.recordService.GetRecordByID(c.Request.Context(), organizationID, recordID, userID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Record not found"})
		case errors.Is(err, apperrors.ErrForbidden):
			c.JSON(http.StatusForbidden, ErrorResponse{Error: "Forbidden"})
		default:
			logger.Error("Failed to get record from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve record"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToRecordResponse(record))
}

// updateRecord godoc
// @Summary Update a pending record
// @Description Updates the details of a PENDING record. Settled or canceled records cannot be modified.
// @Tags records
// @Accept  json
// @Produce  json
// @Param   organization_id path string true "Organization ID"
// @Param   record_id path string true "Record ID"
// @Param   record body dto.UpdateRecordRequest true "Fields to update"
// @Success 200 {object} dto.RecordResponse
// @Failure 400 {object} ErrorResponse "Invalid input or record not pending"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Failure 404 {object} ErrorResponse "Record not found"
// @Failure 500 {object} ErrorResponse "Failed to update record"
// @Security BearerAuth
// @Router /organizations/{organization_id}/records/{record_id} [put]
func (h *recordHandler) updateRecord(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	organizationID := c.Param("organization_id")
	recordID := c.Param("record_id")

	var req dto.UpdateRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for updateRecord", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: bindErrorMessage(err)})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	record, err := h.recordService.UpdateRecord(c.Request.Context(), organizationID, recordID, req, userID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Record not found"})
		case errors.Is(err, apperrors.ErrForbidden):
			c.JSON(http.StatusForbidden, ErrorResponse{Error: "Forbidden"})
		default:
			logger.Error("Failed to update record in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to update record"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToRecordResponse(record))
}

// settleRecord godoc
// @Summary Settle a pending record
// @Description Marks a PENDING record as SETTLED on the given date (defaults to today).
// @Tags records
// @Accept  json
// @Produce  json
// @Param   organization_id path string true "Organization ID"
// @Param   record_id path string true "Record ID"
// @Param   settlement body dto.SettleRecordRequest false "Settlement date"
// @Success 200 {object} dto.RecordResponse
// @Failure 400 {object} ErrorResponse "Record not pending"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Failure 404 {object} ErrorResponse "Record not found"
// @Failure 500 {object} ErrorResponse "Failed to settle record"
// @Security BearerAuth
// @Router /organizations/{organization_id}/records/{record_id}/settle [post]
func (h *recordHandler) settleRecord(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	organizationID := c.Param("organization_id")
	recordID := c.Param("record_id")

	// Body is optional; an absent settlement date defaults to today.
	var req dto.SettleRecordRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			logger.Warn("Failed to bind JSON for settleRecord", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: bindErrorMessage(err)})
			return
		}
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	record, err := h.recordService.SettleRecord(c.Request.Context(), organizationID, recordID, req, userID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Record not found"})
		case errors.Is(err, apperrors.ErrForbidden):
			c.JSON(http.StatusForbidden, ErrorResponse{Error: "Forbidden"})
		default:
			logger.Error("Failed to settle record in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to settle record"})
		}
		return
	}

	logger.Info("Record settled successfully", slog.String("record_id", recordID))
	c.JSON(http.StatusOK, dto.ToRecordResponse(record))
}

// cancelRecord godoc
// @Summary Cancel a record
// @Description Marks a record as CANCELED, excluding it from every report and projection.
// @Tags records
// @Produce  json
// @Param   organization_id path string true "Organization ID"
// @Param   record_id path string true "Record ID"
// @Success 204 "No Content"
// @Failure 400 {object} ErrorResponse "Record already canceled"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Failure 404 {object} ErrorResponse "Record not found"
// @Failure 500 {object} ErrorResponse "Failed to cancel record"
// @Security BearerAuth
// @Router /organizations/{organization_id}/records/{record_id}/cancel [post]
func (h *recordHandler) cancelRecord(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	organizationID := c.Param("organization_id")
	recordID := c.Param("record_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	err := h.recordService.CancelRecord(c.Request.Context(), organizationID, recordID, userID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Record not found"})
		case errors.Is(err, apperrors.ErrForbidden):
			c.JSON(http.StatusForbidden, ErrorResponse{Error: "Forbidden"})
		default:
			logger.Error("Failed to cancel record in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to cancel record"})
		}
		return
	}

	logger.Info("Record canceled successfully", slog.String("record_id", recordID))
	c.Status(http.StatusNoContent)
}
