package pgsql

import (
	"context"
	"time"

	"github.com/vbfontes/fin_crm_app/internal/apperrors"
	"github.com/vbfontes/fin_crm_app/internal/core/domain"
	portsrepo "github.com/vbfontes/fin_crm_app/internal/core/ports/repositories"
	"github.com/vbfontes/fin_crm_app/internal/models"
	"github.com/vbfontes/fin_crm_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5/pgxpool"
)

type reportingRepository struct {
	BaseRepository
}

// newReportingRepository creates a repository that fetches report input data.
// It returns full rows; aggregation is done by the reporting calculator.
func newReportingRepository(pool *pgxpool.Pool) portsrepo.ReportingRepository {
	return &reportingRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.ReportingRepository = (*reportingRepository)(nil)

func (r *reportingRepository) queryRecords(ctx context.Context, query string, args ...any) ([]domain.FinancialRecord, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query report records", err)
	}
	defer rows.Close()

	modelRecords := []models.FinancialRecord{}
	for rows.Next() {
		m, scanErr := scanRecord(rows)
		if scanErr != nil {
			return nil, apperrors.NewAppError(500, "failed to scan report record row", scanErr)
		}
		modelRecords = append(modelRecords, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating report record rows", err)
	}

	return mapping.ToDomainRecordSlice(modelRecords), nil
}

// GetRecordsInWindow retrieves the non-canceled records of an organization whose
// report date under the given regime falls within [from, to].
func (r *reportingRepository) GetRecordsInWindow(ctx context.Context, organizationID string, from, to time.Time, regime domain.Regime) ([]domain.FinancialRecord, error) {
	dateColumn := "recognition_date"
	if regime == domain.RegimeCash {
		dateColumn = "settlement_date"
	}

	query := `
		SELECT ` + recordSelectColumns + `
		FROM financial_records
		WHERE organization_id = $1
		  AND status != 'CANCELED'
		  AND ` + dateColumn + ` >= $2
		  AND ` + dateColumn + ` <= $3
		ORDER BY ` + dateColumn + `, record_id;
	`
	return r.queryRecords(ctx, query, organizationID, from, to)
}

// GetRecordsBySettlementWindow retrieves the non-canceled records of an organization
// whose settlement date falls within [from, to].
func (r *reportingRepository) GetRecordsBySettlementWindow(ctx context.Context, organizationID string, from, to time.Time) ([]domain.FinancialRecord, error) {
	query := `
		SELECT ` + recordSelectColumns + `
		FROM financial_records
		WHERE organization_id = $1
		  AND status != 'CANCELED'
		  AND settlement_date >= $2
		  AND settlement_date <= $3
		ORDER BY settlement_date, record_id;
	`
	return r.queryRecords(ctx, query, organizationID, from, to)
}

// GetTaxonomy retrieves every category of the organization, active or not.
// Inactive categories stay in the taxonomy so historical records keep classifying.
func (r *reportingRepository) GetTaxonomy(ctx context.Context, organizationID string) (domain.Taxonomy, error) {
	query := `
		SELECT ` + categorySelectColumns + `
		FROM categories
		WHERE organization_id = $1;
	`
	rows, err := r.Pool.Query(ctx, query, organizationID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query taxonomy for organization "+organizationID, err)
	}
	defer rows.Close()

	categories := []domain.Category{}
	for rows.Next() {
		m, scanErr := scanCategory(rows)
		if scanErr != nil {
			return nil, apperrors.NewAppError(500, "failed to scan taxonomy category row", scanErr)
		}
		categories = append(categories, mapping.ToDomainCategory(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating taxonomy rows", err)
	}

	return domain.NewTaxonomy(categories), nil
}
