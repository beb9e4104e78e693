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
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxCategoryRepository struct {
	BaseRepository
}

// newPgxCategoryRepository creates a new repository for category data.
func newPgxCategoryRepository(pool *pgxpool.Pool) portsrepo.CategoryRepositoryWithTx {
	return &PgxCategoryRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxCategoryRepository implements portsrepo.CategoryRepositoryWithTx
var _ portsrepo.CategoryRepositoryWithTx = (*PgxCategoryRepository)(nil)

const categorySelectColumns = `
	category_id, organization_id, name, dre_group, nature, parent_category_id, is_active,
	created_at, created_by, last_updated_at, last_updated_by
`

func scanCategory(row pgx.Row) (*models.Category, error) {
	var m models.Category
	err := row.Scan(
		&m.CategoryID,
		&m.OrganizationID,
		&m.Name,
		&m.DreGroup,
		&m.Nature,
		&m.ParentCategoryID,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *PgxCategoryRepository) SaveCategory(ctx context.Context, category domain.Category) error {
	m := mapping.ToModelCategory(category)
	query := `
		INSERT INTO categories (
			category_id, organization_id, name, dre_group, nature, parent_category_id, is_active,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.CategoryID,
		m.OrganizationID,
		m.Name,
		m.DreGroup,
		m.Nature,
		m.ParentCategoryID,
		m.IsActive,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == "23505" { // unique_violation
				return apperrors.NewConflictError("category ID " + category.CategoryID + " already exists")
			}
			if pgErr.Code == "23503" { // foreign_key_violation
				return apperrors.NewValidationFailedError("parent category or organization does not exist")
			}
		}
		return apperrors.NewAppError(500, "failed to save category "+category.CategoryID, err)
	}
	return nil
}

func (r *PgxCategoryRepository) FindCategoryByID(ctx context.Context, categoryID string) (*domain.Category, error) {
	query := `SELECT ` + categorySelectColumns + ` FROM categories WHERE category_id = $1;`
	m, err := scanCategory(r.Pool.QueryRow(ctx, query, categoryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find category "+categoryID, err)
	}
	category := mapping.ToDomainCategory(*m)
	return &category, nil
}

func (r *PgxCategoryRepository) FindCategoriesByIDs(ctx context.Context, categoryIDs []string) (map[string]domain.Category, error) {
	if len(categoryIDs) == 0 {
		return map[string]domain.Category{}, nil
	}

	query := `SELECT ` + categorySelectColumns + ` FROM categories WHERE category_id = ANY($1);`
	rows, err := r.Pool.Query(ctx, query, categoryIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query categories by IDs", err)
	}
	defer rows.Close()

	categories := make(map[string]domain.Category, len(categoryIDs))
	for rows.Next() {
		m, err := scanCategory(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan category row", err)
		}
		categories[m.CategoryID] = mapping.ToDomainCategory(*m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating category rows", err)
	}

	return categories, nil
}

func (r *PgxCategoryRepository) ListCategories(ctx context.Context, organizationID string, limit int, offset int) ([]domain.Category, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT ` + categorySelectColumns + `
		FROM categories
		WHERE organization_id = $1
		ORDER BY dre_group, name
		LIMIT $2 OFFSET $3;
	`
	rows, err := r.Pool.Query(ctx, query, organizationID, limit, offset)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query categories for organization "+organizationID, err)
	}
	defer rows.Close()

	modelCategories := []models.Category{}
	for rows.Next() {
		m, err := scanCategory(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan category row", err)
		}
		modelCategories = append(modelCategories, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating category rows", err)
	}

	return mapping.ToDomainCategorySlice(modelCategories), nil
}

func (r *PgxCategoryRepository) UpdateCategory(ctx context.Context, category domain.Category) error {
	m := mapping.ToModelCategory(category)
	query := `
		UPDATE categories
		SET name = $1, dre_group = $2, nature = $3, parent_category_id = $4,
			last_updated_at = $5, last_updated_by = $6
		WHERE category_id = $7;
	`
	result, err := r.Pool.Exec(ctx, query,
		m.Name,
		m.DreGroup,
		m.Nature,
		m.ParentCategoryID,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		m.CategoryID,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update category "+category.CategoryID, err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("category " + category.CategoryID + " not found")
	}
	return nil
}

func (r *PgxCategoryRepository) DeactivateCategory(ctx context.Context, categoryID string, userID string, now time.Time) error {
	query := `
		UPDATE categories
		SET is_active = false, last_updated_at = $1, last_updated_by = $2
		WHERE category_id = $3 AND is_active = true;
	`
	result, err := r.Pool.Exec(ctx, query, now, userID, categoryID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to deactivate category "+categoryID, err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("category " + categoryID + " not found or already inactive")
	}
	return nil
}
