package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/vbfontes/fin_crm_app/internal/apperrors"
	"github.com/vbfontes/fin_crm_app/internal/core/domain"
	portsrepo "github.com/vbfontes/fin_crm_app/internal/core/ports/repositories"
	portssvc "github.com/vbfontes/fin_crm_app/internal/core/ports/services"
	"github.com/google/uuid"
)

// organizationService implements the OrganizationSvcFacade interface
type organizationService struct {
	BaseService
	organizationRepo portsrepo.OrganizationRepositoryFacade
}

// NewOrganizationService creates a new organization service with the provided dependencies
func NewOrganizationService(organizationRepo portsrepo.OrganizationRepositoryFacade) portssvc.OrganizationSvcFacade {
	return &organizationService{
		organizationRepo: organizationRepo,
	}
}

// Ensure organizationService implements the OrganizationSvcFacade interface
var _ portssvc.OrganizationSvcFacade = (*organizationService)(nil)

// FindOrganizationByID retrieves an organization by its ID
func (s *organizationService) FindOrganizationByID(ctx context.Context, organizationID string) (*domain.Organization, error) {
	organization, err := s.organizationRepo.FindOrganizationByID(ctx, organizationID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find organization by ID",
				slog.String("organization_id", organizationID))
		}
		return nil, err
	}

	s.LogDebug(ctx, "Organization retrieved successfully",
		slog.String("organization_id", organization.OrganizationID))
	return organization, nil
}

// ListUserOrganizations retrieves all organizations a user belongs to
func (s *organizationService) ListUserOrganizations(ctx context.Context, userID string, includeDisabled bool) ([]domain.Organization, error) {
	organizations, err := s.organizationRepo.ListOrganizationsByUserID(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list organizations for user",
			slog.String("user_id", userID))
		return nil, err
	}

	if !includeDisabled {
		active := organizations[:0]
		for _, org := range organizations {
			if org.IsActive {
				active = append(active, org)
			}
		}
		organizations = active
	}

	if organizations == nil {
		return []domain.Organization{}, nil
	}

	s.LogDebug(ctx, "Organizations listed successfully",
		slog.Int("count", len(organizations)),
		slog.String("user_id", userID))
	return organizations, nil
}

// ListOrganizationUsers retrieves all users and their roles for an organization
func (s *organizationService) ListOrganizationUsers(ctx context.Context, organizationID string, requestingUserID string) ([]domain.UserOrganization, error) {
	// Any member can see the member list
	if err := s.AuthorizeUserAction(ctx, requestingUserID, organizationID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	memberships, err := s.organizationRepo.ListOrganizationUsers(ctx, organizationID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list users for organization",
			slog.String("organization_id", organizationID))
		return nil, err
	}

	return memberships, nil
}

// CreateOrganization creates a new organization with the creator as admin
func (s *organizationService) CreateOrganization(ctx context.Context, name, description, creatorUserID string) (*domain.Organization, error) {
	now := time.Now()
	organizationID := uuid.NewString()

	organization := domain.Organization{
		OrganizationID: organizationID,
		Name:           name,
		Description:    description,
		IsActive:       true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.organizationRepo.SaveOrganization(ctx, organization); err != nil {
		s.LogError(ctx, err, "Failed to save organization",
			slog.String("organization_id", organization.OrganizationID))
		return nil, err
	}

	// Add creator as an admin to the new organization
	membershipErr := s.AddUserToOrganization(ctx, creatorUserID, creatorUserID, organizationID, domain.RoleAdmin)
	if membershipErr != nil {
		s.LogError(ctx, membershipErr, "Failed to add creator as admin to new organization",
			slog.String("organization_id", organization.OrganizationID),
			slog.String("user_id", creatorUserID))
		// The organization itself was created; surface only via log.
	}

	s.LogInfo(ctx, "Organization created successfully",
		slog.String("organization_id", organization.OrganizationID),
		slog.String("creator_id", creatorUserID))
	return &organization, nil
}

// DeactivateOrganization marks an organization as inactive
func (s *organizationService) DeactivateOrganization(ctx context.Context, organizationID string, requestingUserID string) error {
	return s.setOrganizationActive(ctx, organizationID, requestingUserID, false)
}

// ActivateOrganization marks an organization as active
func (s *organizationService) ActivateOrganization(ctx context.Context, organizationID string, requestingUserID string) error {
	return s.setOrganizationActive(ctx, organizationID, requestingUserID, true)
}

func (s *organizationService) setOrganizationActive(ctx context.Context, organizationID string, requestingUserID string, isActive bool) error {
	if err := s.AuthorizeUserAction(ctx, requestingUserID, organizationID, domain.RoleAdmin); err != nil {
		return err
	}

	organization, err := s.organizationRepo.FindOrganizationByID(ctx, organizationID)
	if err != nil {
		return err
	}

	organization.IsActive = isActive
	organization.LastUpdatedAt = time.Now()
	organization.LastUpdatedBy = requestingUserID

	if err := s.organizationRepo.UpdateOrganization(ctx, *organization); err != nil {
		s.LogError(ctx, err, "Failed to update organization status",
			slog.String("organization_id", organizationID),
			slog.Bool("is_active", isActive))
		return err
	}

	s.LogInfo(ctx, "Organization status updated",
		slog.String("organization_id", organizationID),
		slog.Bool("is_active", isActive))
	return nil
}

// AddUserToOrganization adds a user to an organization with a specific role
func (s *organizationService) AddUserToOrganization(ctx context.Context, addingUserID, targetUserID, organizationID string, role domain.UserOrganizationRole) error {
	// Self-assignment is permitted (e.g., creator adding self as admin)
	if addingUserID != targetUserID {
		err := s.AuthorizeUserAction(ctx, addingUserID, organizationID, domain.RoleAdmin)
		if err != nil {
			s.LogError(ctx, err, "User not authorized to add members to organization",
				slog.String("adding_user_id", addingUserID),
				slog.String("organization_id", organizationID))
			return err
		}
	}

	membership := domain.UserOrganization{
		UserID:         targetUserID,
		OrganizationID: organizationID,
		Role:           role,
		JoinedAt:       time.Now(),
	}

	err := s.organizationRepo.AddUserToOrganization(ctx, membership)
	if err != nil {
		s.LogError(ctx, err, "Failed to add user to organization",
			slog.String("target_user_id", targetUserID),
			slog.String("organization_id", organizationID))
		return err
	}

	s.LogInfo(ctx, "User added to organization successfully",
		slog.String("target_user_id", targetUserID),
		slog.String("organization_id", organizationID),
		slog.String("role", string(role)))
	return nil
}

// RemoveUserFromOrganization marks a user as removed in an organization
func (s *organizationService) RemoveUserFromOrganization(ctx context.Context, requestingUserID, targetUserID, organizationID string) error {
	return s.UpdateUserOrganizationRole(ctx, requestingUserID, targetUserID, organizationID, domain.RoleRemoved)
}

// UpdateUserOrganizationRole updates a user's role in an organization
func (s *organizationService) UpdateUserOrganizationRole(ctx context.Context, requestingUserID, targetUserID, organizationID string, newRole domain.UserOrganizationRole) error {
	if err := s.AuthorizeUserAction(ctx, requestingUserID, organizationID, domain.RoleAdmin); err != nil {
		s.LogError(ctx, err, "User not authorized to change roles in organization",
			slog.String("requesting_user_id", requestingUserID),
			slog.String("organization_id", organizationID))
		return err
	}

	if requestingUserID == targetUserID && newRole != domain.RoleAdmin {
		// An admin stepping down could leave the organization without admins.
		return apperrors.NewValidationFailedError("admins cannot demote themselves")
	}

	err := s.organizationRepo.UpdateUserOrganizationRole(ctx, targetUserID, organizationID, newRole)
	if err != nil {
		s.LogError(ctx, err, "Failed to update user role in organization",
			slog.String("target_user_id", targetUserID),
			slog.String("organization_id", organizationID))
		return err
	}

	s.LogInfo(ctx, "User role updated in organization",
		slog.String("target_user_id", targetUserID),
		slog.String("organization_id", organizationID),
		slog.String("new_role", string(newRole)))
	return nil
}

// AuthorizeUserAction checks if a user has required permissions for an organization
func (s *organizationService) AuthorizeUserAction(ctx context.Context, userID, organizationID string, requiredRole domain.UserOrganizationRole) error {
	membership, err := s.organizationRepo.FindUserOrganizationRole(ctx, userID, organizationID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.LogDebug(ctx, "User not a member of organization",
				slog.String("user_id", userID),
				slog.String("organization_id", organizationID))
			return apperrors.ErrForbidden
		}
		s.LogError(ctx, err, "Failed to find user organization role",
			slog.String("user_id", userID),
			slog.String("organization_id", organizationID))
		return err
	}

	if !hasRequiredRole(membership.Role, requiredRole) {
		s.LogDebug(ctx, "User does not have required role",
			slog.String("user_id", userID),
			slog.String("organization_id", organizationID),
			slog.String("user_role", string(membership.Role)),
			slog.String("required_role", string(requiredRole)))
		return apperrors.ErrForbidden
	}

	return nil
}

// hasRequiredRole checks if the user's role meets or exceeds the required role
func hasRequiredRole(userRole, requiredRole domain.UserOrganizationRole) bool {
	switch requiredRole {
	case domain.RoleReadOnly:
		return userRole == domain.RoleReadOnly || userRole == domain.RoleMember || userRole == domain.RoleAdmin
	case domain.RoleMember:
		return userRole == domain.RoleMember || userRole == domain.RoleAdmin
	case domain.RoleAdmin:
		return userRole == domain.RoleAdmin
	default:
		return false
	}
}
