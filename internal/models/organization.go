package models

import "time"

// Organization is the tenant boundary: every category and financial record
// belongs to exactly one organization.
type Organization struct {
	OrganizationID string `db:"organization_id"`
	Name           string `db:"name"`
	Description    string `db:"description"` // Nullable
	IsActive       bool   `db:"is_active"`
	AuditFields
}

// UserOrganizationRole defines a user's role within an organization.
type UserOrganizationRole string

const (
	RoleAdmin    UserOrganizationRole = "ADMIN"
	RoleMember   UserOrganizationRole = "MEMBER"
	RoleReadOnly UserOrganizationRole = "READONLY"
	RoleRemoved  UserOrganizationRole = "REMOVED"
)

// UserOrganization links a user to an organization with a role.
type UserOrganization struct {
	UserID         string               `db:"user_id"`
	OrganizationID string               `db:"organization_id"`
	Role           UserOrganizationRole `db:"role"`
	JoinedAt       time.Time            `db:"joined_at"`
	AuditFields
}
