package dto

import "github.com/vbfontes/fin_crm_app/internal/core/domain"

// CreateUserRequest defines the payload to register a new user.
type CreateUserRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"required"`
}

// UpdateUserRequest defines the payload to update the authenticated user.
type UpdateUserRequest struct {
	Name *string `json:"name,omitempty"`
}

// ListUsersParams defines the query parameters for listing users.
type ListUsersParams struct {
	Limit  int `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
	Offset int `form:"offset,default=0" binding:"omitempty,min=0"`
}

// ListUsersResponse is the paginated list of users.
type ListUsersResponse struct {
	Users  []UserResponse `json:"users"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

// ToListUsersResponse converts domain users into the list response shape.
func ToListUsersResponse(users []domain.User, limit, offset int) ListUsersResponse {
	resp := ListUsersResponse{
		Users:  make([]UserResponse, 0, len(users)),
		Limit:  limit,
		Offset: offset,
	}
	for i := range users {
		resp.Users = append(resp.Users, ToUserResponse(&users[i]))
	}
	return resp
}
