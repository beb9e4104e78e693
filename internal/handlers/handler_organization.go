package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/vbfontes/fin_crm_app/internal/apperrors"
	"github.com/vbfontes/fin_crm_app/internal/core/domain"
	portssvc "github.com/vbfontes/fin_crm_app/internal/core/ports/services"
	"github.com/vbfontes/fin_crm_app/internal/dto"
	"github.com/vbfontes/fin_crm_app/internal/middleware"
)

// organizationHandler handles HTTP requests related to organizations.
type organizationHandler struct {
	organizationService portssvc.OrganizationSvcFacade
}

// newOrganizationHandler creates a new organizationHandler.
func newOrganizationHandler(os portssvc.OrganizationSvcFacade) *organizationHandler {
	return &organizationHandler{
		organizationService: os,
	}
}

// registerOrganizationRoutes registers routes related to organizations and their
// members. Category, record and reporting routes are nested under a specific
// organization since those resources are tenant-scoped.
func registerOrganizationRoutes(
	rg *gin.RouterGroup,
	organizationService portssvc.OrganizationSvcFacade,
	categoryService portssvc.CategorySvcFacade,
	recordService portssvc.RecordSvcFacade,
	reportingService portssvc.ReportingSvcFacade,
) {
	h := newOrganizationHandler(organizationService)

	organizationsTopLevel := rg.Group("/organizations")
	{
		organizationsTopLevel.POST("", h.createOrganization)
		organizationsTopLevel.GET("", h.listUserOrganizations)
	}

	organizationSpecific := rg.Group("/organizations/:organization_id")
	{
		organizationSpecific.GET("", h.getOrganization)
		organizationSpecific.POST("/deactivate", h.deactivateOrganization)
		organizationSpecific.POST("/activate", h.activateOrganization)

		organizationUsers := organizationSpecific.Group("/users")
		{
			organizationUsers.GET("", h.listOrganizationUsers)
			organizationUsers.POST("", h.addUserToOrganization)
			organizationUsers.PUT("/:user_id/role", h.updateUserRole)
			organizationUsers.DELETE("/:user_id", h.removeUserFromOrganization)
		}

		registerCategoryRoutes(organizationSpecific, categoryService)
		registerRecordRoutes(organizationSpecific, recordService)
		registerReportingRoutes(organizationSpecific, reportingService)
	}
}

// createOrganization godoc
// @Summary Create a new organization
// @Description Creates a new organization and assigns the creator as admin.
// @Tags organizations
// @Accept  json
// @Produce  json
// @Param   organization body dto.CreateOrganizationRequest true "Organization details"
// @Success 201 {object} dto.OrganizationResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to create organization"
// @Security BearerAuth
// @Router /organizations [post]
func (h *organizationHandler) createOrganization(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createOrganization", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: bindErrorMessage(err)})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Creator user ID not found in context")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("creator_user_id", creatorUserID))
	logger.Info("Received request to create organization", slog.String("organization_name", req.Name))

	newOrg, err := h.organizationService.CreateOrganization(c.Request.Context(), req.Name, req.Description, creatorUserID)
	if err != nil {
		logger.Error("Failed to create organization in service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to create organization"})
		return
	}

	logger.Info("Organization created successfully", slog.String("organization_id", newOrg.OrganizationID))
	c.JSON(http.StatusCreated, dto.ToOrganizationResponse(newOrg))
}

// listUserOrganizations godoc
// @Summary List organizations for current user
// @Description Retrieves a list of organizations the authenticated user belongs to.
// @Tags organizations
// @Produce  json
// @Param   includeDisabled query bool false "Include deactivated organizations" default(false)
// @Success 200 {object} dto.ListOrganizationsResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse "Failed to list organizations"
// @Security BearerAuth
// @Router /organizations [get]
func (h *organizationHandler) listUserOrganizations(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	includeDisabled, _ := strconv.ParseBool(c.DefaultQuery("includeDisabled", "false"))

	logger = logger.With(slog.String("user_id", userID))
	logger.Info("Received request to list user's organizations")

	orgs, err := h.organizationService.ListUserOrganizations(c.Request.Context(), userID, includeDisabled)
	if err != nil {
		logger.Error("Failed to list organizations from service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list organizations"})
		return
	}

	logger.Info("Organizations listed successfully", slog.Int("count", len(orgs)))
	c.JSON(http.StatusOK, dto.ToListOrganizationsResponse(orgs))
}

// getOrganization godoc
// @Summary Get organization details
// @Description Retrieves details for a specific organization the user is a member of.
// @Tags organizations
// @Produce  json
// @Param   organization_id path string true "Organization ID"
// @Success 200 {object} dto.OrganizationResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Failure 404 {object} ErrorResponse "Organization not found"
// @Failure 500 {object} ErrorResponse "Failed to retrieve organization"
// @Security BearerAuth
// @Router /organizations/{organization_id} [get]
func (h *organizationHandler) getOrganization(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	organizationID := c.Param("organization_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.organizationService.AuthorizeUserAction(c.Request.Context(), userID, organizationID, domain.RoleReadOnly); err != nil {
		logger.Warn("User not authorized to view organization", slog.String("organization_id", organizationID))
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "Forbidden"})
		return
	}

	org, err := h.organizationService.FindOrganizationByID(c.Request.Context(), organizationID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Organization not found"})
		} else {
			logger.Error("Failed to get organization from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve organization"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToOrganizationResponse(org))
}

// deactivateOrganization godoc
// @Summary Deactivate an organization
// @Description Marks an organization as inactive (admin only). Data is preserved.
// @Tags organizations
// @Produce  json
// @Param   organization_id path string true "Organization ID"
// @Success 204 "No Content"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Forbidden (caller is not admin)"
// @Failure 404 {object} ErrorResponse "Organization not found"
// @Failure 500 {object} ErrorResponse "Failed to deactivate organization"
// @Security BearerAuth
// @Router /organizations/{organization_id}/deactivate [post]
func (h *organizationHandler) deactivateOrganization(c *gin.Context) {
	h.setOrganizationActive(c, false)
}

// activateOrganization godoc
// @Summary Activate an organization
// @Description Marks a previously deactivated organization as active (admin only).
// @Tags organizations
// @Produce  json
// @Param   organization_id path string true "Organization ID"
// @Success 204 "No Content"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Forbidden (caller is not admin)"
// @Failure 404 {object} ErrorResponse "Organization not found"
// @Failure 500 {object} ErrorResponse "Failed to activate organization"
// @Security BearerAuth
// @Router /organizations/{organization_id}/activate [post]
func (h *organizationHandler) activateOrganization(c *gin.Context) {
	h.setOrganizationActive(c, true)
}

func (h *organizationHandler) setOrganizationActive(c *gin.Context, active bool) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	organizationID := c.Param("organization_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var err error
	if active {
		err = h.organizationService.ActivateOrganization(c.Request.Context(), organizationID, userID)
	} else {
		err = h.organizationService.DeactivateOrganization(c.Request.Context(), organizationID, userID)
	}
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrForbidden):
			c.JSON(http.StatusForbidden, ErrorResponse{Error: "Forbidden"})
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Organization not found"})
		default:
			logger.Error("Failed to change organization active state", slog.String("error", err.Error()), slog.Bool("active", active))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to update organization"})
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// listOrganizationUsers godoc
// @Summary List members of an organization
// @Description Retrieves all users and their roles in an organization (members only).
// @Tags organizations
// @Produce  json
// @Param   organization_id path string true "Organization ID"
// @Success 200 {object} dto.ListOrganizationMembersResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Failure 500 {object} ErrorResponse "Failed to list members"
// @Security BearerAuth
// @Router /organizations/{organization_id}/users [get]
func (h *organizationHandler) listOrganizationUsers(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	organizationID := c.Param("organization_id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	members, err := h.organizationService.ListOrganizationUsers(c.Request.Context(), organizationID, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrForbidden) {
			c.JSON(http.StatusForbidden, ErrorResponse{Error: "Forbidden"})
		} else {
			logger.Error("Failed to list organization users", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list members"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToListOrganizationMembersResponse(members))
}

// addUserToOrganization godoc
// @Summary Add a user to an organization
// @Description Adds a specified user to an organization with a given role (requires admin permission).
// @Tags organizations
// @Accept  json
// @Produce  json
// @Param   organization_id path string true "Organization ID"
// @Param   user_details body dto.AddUserToOrganizationRequest true "User ID and Role"
// @Success 204 "No Content"
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Forbidden (caller is not admin)"
// @Failure 404 {object} ErrorResponse "Organization or user not found"
// @Failure 500 {object} ErrorResponse "Failed to add user"
// @Security BearerAuth
// @Router /organizations/{organization_id}/users [post]
func (h *organizationHandler) addUserToOrganization(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	organizationID := c.Param("organization_id")

	var req dto.AddUserToOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for addUserToOrganization", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: bindErrorMessage(err)})
		return
	}

	addingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Adding user ID not found in context")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	logger = logger.With(
		slog.String("adding_user_id", addingUserID),
		slog.String("organization_id", organizationID),
		slog.String("target_user_id", req.UserID),
	)
	logger.Info("Received request to add user to organization", slog.String("role", req.Role))

	err := h.organizationService.AddUserToOrganization(c.Request.Context(), addingUserID, req.UserID, organizationID, domain.UserOrganizationRole(req.Role))
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Organization or user not found"})
		case errors.Is(err, apperrors.ErrForbidden):
			c.JSON(http.StatusForbidden, ErrorResponse{Error: "Forbidden"})
		default:
			logger.Error("Failed to add user to organization in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to add user to organization"})
		}
		return
	}

	logger.Info("User added to organization successfully")
	c.Status(http.StatusNoContent)
}

// updateUserRole godoc
// @Summary Update a member's role
// @Description Changes the role of an organization member (requires admin permission).
// @Tags organizations
// @Accept  json
// @Produce  json
// @Param   organization_id path string true "Organization ID"
// @Param   user_id path string true "Target user ID"
// @Param   role body dto.UpdateUserRoleRequest true "New role"
// @Success 204 "No Content"
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Forbidden (caller is not admin)"
// @Failure 404 {object} ErrorResponse "Membership not found"
// @Failure 500 {object} ErrorResponse "Failed to update role"
// @Security BearerAuth
// @Router /organizations/{organization_id}/users/{user_id}/role [put]
func (h *organizationHandler) updateUserRole(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	organizationID := c.Param("organization_id")
	targetUserID := c.Param("user_id")

	var req dto.UpdateUserRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for updateUserRole", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: bindErrorMessage(err)})
		return
	}

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Requesting user ID not found in context")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	err := h.organizationService.UpdateUserOrganizationRole(c.Request.Context(), requestingUserID, targetUserID, organizationID, domain.UserOrganizationRole(req.Role))
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		case errors.Is(err, apperrors.ErrForbidden):
			c.JSON(http.StatusForbidden, ErrorResponse{Error: "Forbidden"})
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Membership not found"})
		default:
			logger.Error("Failed to update user role in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to update role"})
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// removeUserFromOrganization godoc
// @Summary Remove a user from an organization
// @Description Removes a member from an organization (requires admin permission).
// @Tags organizations
// @Produce  json
// @Param   organization_id path string true "Organization ID"
// @Param   user_id path string true "Target user ID"
// @Success 204 "No Content"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Forbidden (caller is not admin)"
// @Failure 404 {object} ErrorResponse "Membership not found"
// @Failure 500 {object} ErrorResponse "Failed to remove user"
// @Security BearerAuth
// @Router /organizations/{organization_id}/users/{user_id} [delete]
func (h *organizationHandler) removeUserFromOrganization(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	organizationID := c.Param("organization_id")
	targetUserID := c.Param("user_id")

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Requesting user ID not found in context")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	err := h.organizationService.RemoveUserFromOrganization(c.Request.Context(), requestingUserID, targetUserID, organizationID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		case errors.Is(err, apperrors.ErrForbidden):
			c.JSON(http.StatusForbidden, ErrorResponse{Error: "Forbidden"})
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Membership not found"})
		default:
			logger.Error("Failed to remove user from organization in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to remove user"})
		}
		return
	}

	c.Status(http.StatusNoContent)
}
