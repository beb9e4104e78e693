package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/vbfontes/fin_crm_app/internal/apperrors"
	"github.com/vbfontes/fin_crm_app/internal/core/domain"
	portsrepo "github.com/vbfontes/fin_crm_app/internal/core/ports/repositories"
	"github.com/vbfontes/fin_crm_app/internal/models"
	"github.com/vbfontes/fin_crm_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxAPITokenRepository struct {
	BaseRepository
}

// newPgxAPITokenRepository creates a new instance of PgxAPITokenRepository
func newPgxAPITokenRepository(pool *pgxpool.Pool) portsrepo.APITokenRepository {
	return &PgxAPITokenRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.APITokenRepository = (*PgxAPITokenRepository)(nil)

const (
	selectAPITokenFields = `
		api_token_id, user_id, name, token_hash,
		last_used_at, expires_at, created_at, updated_at
	`

	insertAPITokenQuery = `
		INSERT INTO api_tokens (
			api_token_id, user_id, name, token_hash, expires_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	findAPITokenByIDQuery = `
		SELECT ` + selectAPITokenFields + `
		FROM api_tokens
		WHERE api_token_id = $1 AND deleted_at IS NULL
	`

	findAPITokensByUserIDQuery = `
		SELECT ` + selectAPITokenFields + `
		FROM api_tokens
		WHERE user_id = $1 AND deleted_at IS NULL
		ORDER BY created_at DESC
	`

	findAPITokenByHashQuery = `
		SELECT ` + selectAPITokenFields + `
		FROM api_tokens
		WHERE token_hash = $1 AND deleted_at IS NULL
	`

	updateAPITokenQuery = `
		UPDATE api_tokens
		SET last_used_at = COALESCE($2, last_used_at), updated_at = NOW()
		WHERE api_token_id = $1 AND deleted_at IS NULL
	`

	deleteAPITokenQuery = `
		UPDATE api_tokens
		SET deleted_at = NOW()
		WHERE api_token_id = $1 AND deleted_at IS NULL
	`

	deleteAPITokensByUserIDQuery = `
		UPDATE api_tokens
		SET deleted_at = NOW()
		WHERE user_id = $1 AND deleted_at IS NULL
	`

	deleteExpiredAPITokensQuery = `
		UPDATE api_tokens
		SET deleted_at = NOW()
		WHERE expires_at < $1 AND deleted_at IS NULL
	`
)

func scanAPIToken(row pgx.Row) (*models.APIToken, error) {
	var m models.APIToken
	err := row.Scan(
		&m.ID,
		&m.UserID,
		&m.Name,
		&m.TokenHash,
		&m.LastUsedAt,
		&m.ExpiresAt,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Create persists a new API token
func (r *PgxAPITokenRepository) Create(ctx context.Context, token *domain.APIToken) error {
	if token == nil {
		return errors.New("token cannot be nil")
	}

	m := mapping.ToModelAPIToken(*token)
	_, err := r.Pool.Exec(ctx, insertAPITokenQuery,
		m.ID,
		m.UserID,
		m.Name,
		m.TokenHash,
		m.ExpiresAt,
		m.CreatedAt,
		m.UpdatedAt,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to create API token", err)
	}
	return nil
}

// FindByID retrieves an API token by its ID
func (r *PgxAPITokenRepository) FindByID(ctx context.Context, id string) (*domain.APIToken, error) {
	m, err := scanAPIToken(r.Pool.QueryRow(ctx, findAPITokenByIDQuery, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find API token "+id, err)
	}
	token := mapping.ToDomainAPIToken(*m)
	return &token, nil
}

// FindByUserID retrieves all API tokens for a specific user
func (r *PgxAPITokenRepository) FindByUserID(ctx context.Context, userID string) ([]domain.APIToken, error) {
	rows, err := r.Pool.Query(ctx, findAPITokensByUserIDQuery, userID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query API tokens for user "+userID, err)
	}
	defer rows.Close()

	tokens := []domain.APIToken{}
	for rows.Next() {
		m, scanErr := scanAPIToken(rows)
		if scanErr != nil {
			return nil, apperrors.NewAppError(500, "failed to scan API token row", scanErr)
		}
		tokens = append(tokens, mapping.ToDomainAPIToken(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating API token rows", err)
	}

	return tokens, nil
}

// FindByTokenHash finds a token by its hash
func (r *PgxAPITokenRepository) FindByTokenHash(ctx context.Context, tokenHash string) (*domain.APIToken, error) {
	m, err := scanAPIToken(r.Pool.QueryRow(ctx, findAPITokenByHashQuery, tokenHash))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find API token by hash", err)
	}
	token := mapping.ToDomainAPIToken(*m)
	return &token, nil
}

// Update updates an existing API token (currently only last_used_at)
func (r *PgxAPITokenRepository) Update(ctx context.Context, token *domain.APIToken) error {
	if token == nil {
		return errors.New("token cannot be nil")
	}

	result, err := r.Pool.Exec(ctx, updateAPITokenQuery, token.ID, token.LastUsedAt)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update API token "+token.ID, err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// Delete soft deletes an API token by ID
func (r *PgxAPITokenRepository) Delete(ctx context.Context, id string) error {
	result, err := r.Pool.Exec(ctx, deleteAPITokenQuery, id)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete API token "+id, err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteByUserID soft deletes all API tokens for a specific user
func (r *PgxAPITokenRepository) DeleteByUserID(ctx context.Context, userID string) error {
	_, err := r.Pool.Exec(ctx, deleteAPITokensByUserIDQuery, userID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete API tokens for user "+userID, err)
	}
	return nil
}

// DeleteExpired soft deletes all API tokens that expired before the given time
func (r *PgxAPITokenRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	result, err := r.Pool.Exec(ctx, deleteExpiredAPITokensQuery, before)
	if err != nil {
		return 0, apperrors.NewAppError(500, "failed to delete expired API tokens", err)
	}
	return result.RowsAffected(), nil
}
