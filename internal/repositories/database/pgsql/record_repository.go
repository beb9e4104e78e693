package pgsql

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/vbfontes/fin_crm_app/internal/apperrors"
	"github.com/vbfontes/fin_crm_app/internal/core/domain"
	portsrepo "github.com/vbfontes/fin_crm_app/internal/core/ports/repositories"
	"github.com/vbfontes/fin_crm_app/internal/models"
	"github.com/vbfontes/fin_crm_app/internal/utils/mapping"
	"github.com/vbfontes/fin_crm_app/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxRecordRepository struct {
	BaseRepository
}

// newPgxRecordRepository creates a new repository for financial record data.
func newPgxRecordRepository(pool *pgxpool.Pool) portsrepo.RecordRepositoryWithTx {
	return &PgxRecordRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxRecordRepository implements portsrepo.RecordRepositoryWithTx
var _ portsrepo.RecordRepositoryWithTx = (*PgxRecordRepository)(nil)

const recordSelectColumns = `
	record_id, organization_id, description, amount, nature, category_id,
	direction, status, recognition_date, settlement_date,
	created_at, created_by, last_updated_at, last_updated_by
`

func scanRecord(row pgx.Row) (*models.FinancialRecord, error) {
	var m models.FinancialRecord
	err := row.Scan(
		&m.RecordID,
		&m.OrganizationID,
		&m.Description,
		&m.Amount,
		&m.Nature,
		&m.CategoryID,
		&m.Direction,
		&m.Status,
		&m.RecognitionDate,
		&m.SettlementDate,
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

func (r *PgxRecordRepository) SaveRecord(ctx context.Context, record domain.FinancialRecord) error {
	m := mapping.ToModelRecord(record)
	query := `
		INSERT INTO financial_records (
			record_id, organization_id, description, amount, nature, category_id,
			direction, status, recognition_date, settlement_date,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.RecordID,
		m.OrganizationID,
		m.Description,
		m.Amount,
		m.Nature,
		m.CategoryID,
		m.Direction,
		m.Status,
		m.RecognitionDate,
		m.SettlementDate,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == "23505" { // unique_violation
				return apperrors.NewConflictError("record ID " + record.RecordID + " already exists")
			}
			if pgErr.Code == "23503" { // foreign_key_violation
				return apperrors.NewValidationFailedError("category or organization does not exist")
			}
		}
		return apperrors.NewAppError(500, "failed to insert record "+record.RecordID, err)
	}
	return nil
}

func (r *PgxRecordRepository) FindRecordByID(ctx context.Context, recordID string) (*domain.FinancialRecord, error) {
	query := `SELECT ` + recordSelectColumns + ` FROM financial_records WHERE record_id = $1;`
	m, err := scanRecord(r.Pool.QueryRow(ctx, query, recordID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find record "+recordID, err)
	}
	record := mapping.ToDomainRecord(*m)
	return &record, nil
}

// ListRecordsByOrganization retrieves a paginated list of records for a specific organization using token-based pagination.
// It returns the list of records, a token for the next page (if any), and an error.
// Ordering is by settlement_date DESC with created_at DESC as a stable tie-breaker.
func (r *PgxRecordRepository) ListRecordsByOrganization(ctx context.Context, organizationID string, limit int, nextToken *string, includeCanceled bool) ([]domain.FinancialRecord, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// Fetch one extra item to determine if there's a next page.
	fetchLimit := limit + 1

	baseQuery := `SELECT ` + recordSelectColumns + ` FROM financial_records`
	filterClause := `WHERE organization_id = $1`
	if !includeCanceled {
		filterClause += ` AND status != 'CANCELED'`
	}
	orderByClause := `ORDER BY settlement_date DESC, created_at DESC`

	args := []interface{}{organizationID}

	var query string
	if nextToken != nil && *nextToken != "" {
		lastDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		cursorClause := `AND (settlement_date, created_at) < ($2, $3)`
		args = append(args, lastDate, lastCreatedAt)
		query = baseQuery + " " + filterClause + " " + cursorClause + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
	} else {
		query = baseQuery + " " + filterClause + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
	}
	args = append(args, fetchLimit)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query records for organization "+organizationID, err)
	}
	defer rows.Close()

	modelRecords := make([]models.FinancialRecord, 0, fetchLimit)
	for rows.Next() {
		m, scanErr := scanRecord(rows)
		if scanErr != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan record row for organization "+organizationID, scanErr)
		}
		modelRecords = append(modelRecords, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating record rows for organization "+organizationID, err)
	}

	// Determine the next token. The token points to the last item included in
	// this response page; the next query starts after it.
	var nextTokenVal *string
	results := modelRecords
	if len(modelRecords) > limit {
		lastRecord := modelRecords[limit-1]
		newToken := pagination.EncodeToken(lastRecord.SettlementDate, lastRecord.CreatedAt)
		nextTokenVal = &newToken
		results = modelRecords[:limit]
	}

	return mapping.ToDomainRecordSlice(results), nextTokenVal, nil
}

func (r *PgxRecordRepository) UpdateRecord(ctx context.Context, record domain.FinancialRecord) error {
	m := mapping.ToModelRecord(record)
	query := `
		UPDATE financial_records
		SET description = $1, amount = $2, nature = $3, category_id = $4,
			direction = $5, recognition_date = $6, settlement_date = $7,
			last_updated_at = $8, last_updated_by = $9
		WHERE record_id = $10;
	`
	result, err := r.Pool.Exec(ctx, query,
		m.Description,
		m.Amount,
		m.Nature,
		m.CategoryID,
		m.Direction,
		m.RecognitionDate,
		m.SettlementDate,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		m.RecordID,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update record "+record.RecordID, err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("record " + record.RecordID + " not found")
	}
	return nil
}

func (r *PgxRecordRepository) UpdateRecordStatus(ctx context.Context, recordID string, status domain.RecordStatus, settlementDate *time.Time, updatedByUserID string, updatedAt time.Time) error {
	query := `
		UPDATE financial_records
		SET status = $1, settlement_date = COALESCE($2, settlement_date),
			last_updated_at = $3, last_updated_by = $4
		WHERE record_id = $5;
	`
	result, err := r.Pool.Exec(ctx, query, status, settlementDate, updatedAt, updatedByUserID, recordID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update status of record "+recordID, err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("record " + recordID + " not found")
	}
	return nil
}
