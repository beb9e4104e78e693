package repositories

import (
	"context"
	"time"

	"github.com/vbfontes/fin_crm_app/internal/core/domain"
)

// ReportingRepository defines operations for retrieving report input data.
// Both queries return full rows; aggregation happens in the reporting calculator,
// never in SQL, so that the engine stays independently testable.
type ReportingRepository interface {
	// GetRecordsInWindow retrieves the non-canceled financial records of an organization
	// whose report date under the given regime falls within [from, to].
	GetRecordsInWindow(ctx context.Context, organizationID string, from, to time.Time, regime domain.Regime) ([]domain.FinancialRecord, error)

	// GetRecordsBySettlementWindow retrieves the non-canceled financial records of an
	// organization whose settlement date falls within [from, to], for cash flow projection.
	GetRecordsBySettlementWindow(ctx context.Context, organizationID string, from, to time.Time) ([]domain.FinancialRecord, error)

	// GetTaxonomy retrieves every category of the organization, active or not,
	// indexed by category ID.
	GetTaxonomy(ctx context.Context, organizationID string) (domain.Taxonomy, error)
}
