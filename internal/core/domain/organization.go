package domain

import "time"

// Organization represents an isolated tenant containing categories, financial records, etc.
type Organization struct {
	OrganizationID string `json:"organizationID"` // Primary Key (e.g., UUID)
	Name           string `json:"name"`           // User-defined name for the organization
	Description    string `json:"description"`    // Optional description
	IsActive       bool   `json:"isActive"`       // Indicates whether the organization is active or disabled
	AuditFields           // Embed common audit fields
}

// UserOrganizationRole defines the possible roles a user can have within an organization.
type UserOrganizationRole string

const (
	RoleAdmin    UserOrganizationRole = "ADMIN"
	RoleMember   UserOrganizationRole = "MEMBER"
	RoleReadOnly UserOrganizationRole = "READONLY" // Users with read-only access to organization data
	RoleRemoved  UserOrganizationRole = "REMOVED"  // For users who have been removed from the organization
)

// UserOrganization represents the membership of a User in an Organization.
type UserOrganization struct {
	UserID         string               `json:"userID"`         // FK -> users.user_id
	UserName       string               `json:"userName"`       // Name of the user
	OrganizationID string               `json:"organizationID"` // FK -> organizations.organization_id
	Role           UserOrganizationRole `json:"role"`           // Role of the user in this specific organization
	JoinedAt       time.Time            `json:"joinedAt"`       // Timestamp when the user joined the organization
}
