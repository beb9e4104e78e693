package dto

import (
	"github.com/vbfontes/fin_crm_app/internal/core/domain"
)

// CreateOrganizationRequest defines the payload to create an organization.
type CreateOrganizationRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Description string `json:"description" binding:"omitempty,max=500"`
}

// AddUserToOrganizationRequest defines the payload to add a member.
type AddUserToOrganizationRequest struct {
	UserID string `json:"userID" binding:"required"`
	Role   string `json:"role" binding:"required,oneof=ADMIN MEMBER READONLY"`
}

// UpdateUserRoleRequest defines the payload to change a member's role.
type UpdateUserRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=ADMIN MEMBER READONLY"`
}

// OrganizationResponse is the API representation of an organization.
type OrganizationResponse struct {
	OrganizationID string `json:"organizationID"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	IsActive       bool   `json:"isActive"`
}

// OrganizationMemberResponse is the API representation of one membership row.
type OrganizationMemberResponse struct {
	UserID   string `json:"userID"`
	UserName string `json:"userName"`
	Role     string `json:"role"`
}

// ListOrganizationsResponse is the list of organizations visible to a user.
type ListOrganizationsResponse struct {
	Organizations []OrganizationResponse `json:"organizations"`
}

// ListOrganizationMembersResponse is the list of members of an organization.
type ListOrganizationMembersResponse struct {
	Members []OrganizationMemberResponse `json:"members"`
}

// ToOrganizationResponse converts a domain organization into its API representation.
func ToOrganizationResponse(org *domain.Organization) OrganizationResponse {
	return OrganizationResponse{
		OrganizationID: org.OrganizationID,
		Name:           org.Name,
		Description:    org.Description,
		IsActive:       org.IsActive,
	}
}

// ToListOrganizationsResponse converts domain organizations into the list response shape.
func ToListOrganizationsResponse(orgs []domain.Organization) ListOrganizationsResponse {
	resp := ListOrganizationsResponse{Organizations: make([]OrganizationResponse, 0, len(orgs))}
	for i := range orgs {
		resp.Organizations = append(resp.Organizations, ToOrganizationResponse(&orgs[i]))
	}
	return resp
}

// ToListOrganizationMembersResponse converts membership rows into the list response shape.
func ToListOrganizationMembersResponse(members []domain.UserOrganization) ListOrganizationMembersResponse {
	resp := ListOrganizationMembersResponse{Members: make([]OrganizationMemberResponse, 0, len(members))}
	for _, member := range members {
		resp.Members = append(resp.Members, OrganizationMemberResponse{
			UserID:   member.UserID,
			UserName: member.UserName,
			Role:     string(member.Role),
		})
	}
	return resp
}
