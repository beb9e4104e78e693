package services

import (
	"context"
	"time"

	"github.com/vbfontes/fin_crm_app/internal/core/domain"
)

// APITokenSvc manages long-lived API tokens for programmatic access.
type APITokenSvc interface {
	// CreateToken generates a new API token for the user. The plaintext
	// token is returned exactly once; only its hash is stored.
	CreateToken(ctx context.Context, userID, name string, expiresIn *time.Duration) (string, *domain.APIToken, error)

	// ListTokens returns all active API tokens for a user.
	ListTokens(ctx context.Context, userID string) ([]domain.APIToken, error)

	// RevokeToken revokes one of the user's API tokens.
	RevokeToken(ctx context.Context, userID, tokenID string) error

	// RevokeAllTokens revokes every API token the user owns.
	RevokeAllTokens(ctx context.Context, userID string) error

	// ValidateToken resolves a presented token to its owner, refreshing the
	// token's last-used timestamp on success.
	ValidateToken(ctx context.Context, tokenString string) (*domain.User, error)
}
