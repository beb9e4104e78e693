package dto

import (
	"time"

	"github.com/vbfontes/fin_crm_app/internal/core/domain"
)

// CreateAPITokenRequest defines the payload to create an API token.
type CreateAPITokenRequest struct {
	Name          string `json:"name" binding:"required,min=1,max=100"`
	ExpiresInDays *int   `json:"expiresInDays,omitempty" binding:"omitempty,min=1,max=365"`
}

// APITokenResponse is the API representation of a token, without the secret.
type APITokenResponse struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	LastUsedAt *time.Time `json:"lastUsedAt,omitempty"`
	ExpiresAt  *time.Time `json:"expiresAt,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// CreateAPITokenResponse carries the plaintext token alongside its metadata.
// The plaintext is returned exactly once; only its hash is stored.
type CreateAPITokenResponse struct {
	Token    string           `json:"token"`
	APIToken APITokenResponse `json:"apiToken"`
}

// ListAPITokensResponse is the list of a user's API tokens.
type ListAPITokensResponse struct {
	Tokens []APITokenResponse `json:"tokens"`
}

// ToAPITokenResponse converts a domain API token into its API representation.
func ToAPITokenResponse(token *domain.APIToken) APITokenResponse {
	return APITokenResponse{
		ID:         token.ID,
		Name:       token.Name,
		LastUsedAt: token.LastUsedAt,
		ExpiresAt:  token.ExpiresAt,
		CreatedAt:  token.CreatedAt,
	}
}

// ToListAPITokensResponse converts domain API tokens into the list response shape.
func ToListAPITokensResponse(tokens []domain.APIToken) ListAPITokensResponse {
	resp := ListAPITokensResponse{Tokens: make([]APITokenResponse, 0, len(tokens))}
	for i := range tokens {
		resp.Tokens = append(resp.Tokens, ToAPITokenResponse(&tokens[i]))
	}
	return resp
}
