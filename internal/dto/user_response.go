package dto

import (
	"time"

	"github.com/vbfontes/fin_crm_app/internal/core/domain"
)

// UserResponse is the API representation of a user.
type UserResponse struct {
	UserID       string    `json:"userID"`
	Username     string    `json:"username"`
	Name         string    `json:"name"`
	AuthProvider *string   `json:"authProvider,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ToUserResponse converts a domain user into its API representation.
func ToUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		UserID:       user.UserID,
		Username:     user.Username,
		Name:         user.Name,
		AuthProvider: user.AuthProvider,
		CreatedAt:    user.CreatedAt,
	}
}
