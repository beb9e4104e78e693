package services

import (
	"context"

	"github.com/vbfontes/fin_crm_app/internal/core/domain"
)

// OrganizationReaderSvc defines read operations for organization data
type OrganizationReaderSvc interface {
	// FindOrganizationByID retrieves a specific organization by its ID.
	FindOrganizationByID(ctx context.Context, organizationID string) (*domain.Organization, error)

	// ListUserOrganizations retrieves organizations a user belongs to.
	// If includeDisabled is true, it includes inactive organizations.
	ListUserOrganizations(ctx context.Context, userID string, includeDisabled bool) ([]domain.Organization, error)

	// ListOrganizationUsers retrieves all users and their roles for a specific organization.
	// Only members of the organization can access this data.
	ListOrganizationUsers(ctx context.Context, organizationID string, requestingUserID string) ([]domain.UserOrganization, error)
}

// OrganizationWriterSvc defines write operations for organization data
type OrganizationWriterSvc interface {
	// CreateOrganization persists a new organization with the creator as admin.
	CreateOrganization(ctx context.Context, name, description, creatorUserID string) (*domain.Organization, error)

	// DeactivateOrganization marks an organization as inactive.
	DeactivateOrganization(ctx context.Context, organizationID string, requestingUserID string) error

	// ActivateOrganization marks an organization as active.
	ActivateOrganization(ctx context.Context, organizationID string, requestingUserID string) error
}

// OrganizationMembershipSvc defines operations for managing organization membership
type OrganizationMembershipSvc interface {
	// AddUserToOrganization adds a user to an organization with a specific role.
	AddUserToOrganization(ctx context.Context, addingUserID, targetUserID, organizationID string, role domain.UserOrganizationRole) error

	// RemoveUserFromOrganization removes a user from an organization.
	// Only organization admins can remove users.
	RemoveUserFromOrganization(ctx context.Context, requestingUserID, targetUserID, organizationID string) error

	// UpdateUserOrganizationRole updates a user's role in an organization.
	// Only organization admins can update user roles.
	UpdateUserOrganizationRole(ctx context.Context, requestingUserID, targetUserID, organizationID string, newRole domain.UserOrganizationRole) error
}

// OrganizationAuthorizerSvc defines operations for organization authorization
type OrganizationAuthorizerSvc interface {
	// AuthorizeUserAction checks if a user has required permissions for an organization.
	AuthorizeUserAction(ctx context.Context, userID, organizationID string, requiredRole domain.UserOrganizationRole) error
}

// OrganizationSvcFacade combines all organization-related service interfaces
// This is a facade for clients that need access to all operations
type OrganizationSvcFacade interface {
	OrganizationReaderSvc
	OrganizationWriterSvc
	OrganizationMembershipSvc
	OrganizationAuthorizerSvc
}
