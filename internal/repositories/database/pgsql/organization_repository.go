package pgsql

import (
	"context"
	"errors"

	"github.com/vbfontes/fin_crm_app/internal/apperrors"
	"github.com/vbfontes/fin_crm_app/internal/core/domain"
	portsrepo "github.com/vbfontes/fin_crm_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxOrganizationRepository struct {
	BaseRepository
}

// newPgxOrganizationRepository creates a new repository for organization data.
func newPgxOrganizationRepository(pool *pgxpool.Pool) portsrepo.OrganizationRepositoryWithTx {
	return &PgxOrganizationRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxOrganizationRepository implements portsrepo.OrganizationRepositoryWithTx
var _ portsrepo.OrganizationRepositoryWithTx = (*PgxOrganizationRepository)(nil)

const organizationSelectQuery = `
SELECT
	o.organization_id, o.name, o.description, o.is_active,
	o.created_at, o.created_by, o.last_updated_at, o.last_updated_by
FROM organizations o
`

func (r *PgxOrganizationRepository) getOrganizations(ctx context.Context, filterQuery string, args ...any) ([]domain.Organization, error) {
	query := organizationSelectQuery + filterQuery
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query organizations", err)
	}
	defer rows.Close()

	organizations := []domain.Organization{}
	for rows.Next() {
		var o domain.Organization
		err := rows.Scan(
			&o.OrganizationID,
			&o.Name,
			&o.Description,
			&o.IsActive,
			&o.CreatedAt,
			&o.CreatedBy,
			&o.LastUpdatedAt,
			&o.LastUpdatedBy,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan organization row", err)
		}
		organizations = append(organizations, o)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating organization rows", err)
	}

	return organizations, nil
}

func (r *PgxOrganizationRepository) SaveOrganization(ctx context.Context, organization domain.Organization) error {
	query := `
		INSERT INTO organizations (
			organization_id, name, description, is_active,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.Pool.Exec(ctx, query,
		organization.OrganizationID,
		organization.Name,
		organization.Description,
		organization.IsActive,
		organization.CreatedAt,
		organization.CreatedBy,
		organization.LastUpdatedAt,
		organization.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return apperrors.NewConflictError("organization ID " + organization.OrganizationID + " already exists")
		}
		return apperrors.NewAppError(500, "failed to save organization "+organization.OrganizationID, err)
	}
	return nil
}

func (r *PgxOrganizationRepository) FindOrganizationByID(ctx context.Context, organizationID string) (*domain.Organization, error) {
	query := `WHERE o.organization_id = $1`
	organizations, err := r.getOrganizations(ctx, query, organizationID)
	if err != nil {
		return nil, err
	}
	if len(organizations) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &organizations[0], nil
}

func (r *PgxOrganizationRepository) ListOrganizationsByUserID(ctx context.Context, userID string) ([]domain.Organization, error) {
	query := `
		JOIN user_organizations uo ON o.organization_id = uo.organization_id
		WHERE uo.user_id = $1 AND uo.role != $2
		ORDER BY o.name;
	`
	return r.getOrganizations(ctx, query, userID, domain.RoleRemoved)
}

func (r *PgxOrganizationRepository) UpdateOrganization(ctx context.Context, organization domain.Organization) error {
	query := `
		UPDATE organizations
		SET name = $1, description = $2, is_active = $3, last_updated_at = $4, last_updated_by = $5
		WHERE organization_id = $6;
	`
	result, err := r.Pool.Exec(ctx, query,
		organization.Name,
		organization.Description,
		organization.IsActive,
		organization.LastUpdatedAt,
		organization.LastUpdatedBy,
		organization.OrganizationID,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update organization "+organization.OrganizationID, err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("organization " + organization.OrganizationID + " not found")
	}
	return nil
}

func (r *PgxOrganizationRepository) AddUserToOrganization(ctx context.Context, membership domain.UserOrganization) error {
	query := `
		INSERT INTO user_organizations (user_id, organization_id, role, joined_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, organization_id) DO UPDATE SET role = EXCLUDED.role;
	` // Upsert: add user or update their role if they already exist
	_, err := r.Pool.Exec(ctx, query,
		membership.UserID,
		membership.OrganizationID,
		membership.Role,
		membership.JoinedAt,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to add/update user "+membership.UserID+" in organization "+membership.OrganizationID, err)
	}
	return nil
}

func (r *PgxOrganizationRepository) FindUserOrganizationRole(ctx context.Context, userID, organizationID string) (*domain.UserOrganization, error) {
	query := `
		SELECT uo.user_id, u.name AS user_name, uo.organization_id, uo.role, uo.joined_at
		FROM user_organizations uo
		JOIN users u ON uo.user_id = u.user_id
		WHERE uo.user_id = $1 AND uo.organization_id = $2;
	`
	var uo domain.UserOrganization
	err := r.Pool.QueryRow(ctx, query, userID, organizationID).Scan(
		&uo.UserID,
		&uo.UserName,
		&uo.OrganizationID,
		&uo.Role,
		&uo.JoinedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("user has no role in organization")
		}
		return nil, apperrors.NewAppError(500, "failed to find user "+userID+" role in organization "+organizationID, err)
	}
	return &uo, nil
}

func (r *PgxOrganizationRepository) UpdateUserOrganizationRole(ctx context.Context, userID, organizationID string, role domain.UserOrganizationRole) error {
	query := `
		UPDATE user_organizations
		SET role = $3
		WHERE user_id = $1 AND organization_id = $2;
	`
	result, err := r.Pool.Exec(ctx, query, userID, organizationID, role)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update role for user "+userID+" in organization "+organizationID, err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("membership not found")
	}
	return nil
}

func (r *PgxOrganizationRepository) ListOrganizationUsers(ctx context.Context, organizationID string) ([]domain.UserOrganization, error) {
	query := `
		SELECT uo.user_id, u.name AS user_name, uo.organization_id, uo.role, uo.joined_at
		FROM user_organizations uo
		JOIN users u ON uo.user_id = u.user_id
		WHERE uo.organization_id = $1 AND uo.role != $2
		ORDER BY uo.joined_at DESC;
	`
	rows, err := r.Pool.Query(ctx, query, organizationID, domain.RoleRemoved)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query users for organization "+organizationID, err)
	}
	defer rows.Close()

	var memberships []domain.UserOrganization
	for rows.Next() {
		var uo domain.UserOrganization
		err := rows.Scan(
			&uo.UserID,
			&uo.UserName,
			&uo.OrganizationID,
			&uo.Role,
			&uo.JoinedAt,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan user organization row", err)
		}
		memberships = append(memberships, uo)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating user organization rows", err)
	}

	return memberships, nil
}
