package repositories

import (
	"context"
	"time"

	"github.com/vbfontes/fin_crm_app/internal/core/domain"
)

// RecordReader defines read operations for financial record data
type RecordReader interface {
	// FindRecordByID retrieves a specific financial record by its unique identifier.
	FindRecordByID(ctx context.Context, recordID string) (*domain.FinancialRecord, error)

	// ListRecordsByOrganization retrieves a paginated list of records for a given organization using token-based pagination.
	// It returns the records, a token for the next page, and an error.
	ListRecordsByOrganization(ctx context.Context, organizationID string, limit int, nextToken *string, includeCanceled bool) ([]domain.FinancialRecord, *string, error)
}

// RecordWriter defines write operations for financial record data
type RecordWriter interface {
	// SaveRecord persists a new financial record.
	SaveRecord(ctx context.Context, record domain.FinancialRecord) error

	// UpdateRecord updates non-status fields of a record (description, amount, dates, category).
	UpdateRecord(ctx context.Context, record domain.FinancialRecord) error

	// UpdateRecordStatus transitions a record's lifecycle status.
	UpdateRecordStatus(ctx context.Context, recordID string, status domain.RecordStatus, settlementDate *time.Time, updatedByUserID string, updatedAt time.Time) error
}

// RecordRepositoryFacade combines all record-related repository interfaces
// This is a facade for clients that need access to all operations
type RecordRepositoryFacade interface {
	RecordReader
	RecordWriter
}

// RecordRepositoryWithTx extends RecordRepositoryFacade with transaction capabilities
type RecordRepositoryWithTx interface {
	RecordRepositoryFacade
	TransactionManager
}
