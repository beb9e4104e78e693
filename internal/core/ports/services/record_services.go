package services

import (
	"context"

	"github.com/vbfontes/fin_crm_app/internal/core/domain"
	"github.com/vbfontes/fin_crm_app/internal/dto"
)

// RecordReaderSvc defines read operations for financial record data
type RecordReaderSvc interface {
	// GetRecordByID retrieves a specific record by its ID.
	GetRecordByID(ctx context.Context, organizationID string, recordID string, requestingUserID string) (*domain.FinancialRecord, error)

	// ListRecords retrieves a paginated list of records in an organization.
	ListRecords(ctx context.Context, organizationID string, userID string, params dto.ListRecordsParams) (*dto.ListRecordsResponse, error)
}

// RecordWriterSvc defines write operations for financial record data
type RecordWriterSvc interface {
	// CreateRecord persists a new financial record.
	CreateRecord(ctx context.Context, organizationID string, req dto.CreateRecordRequest, creatorUserID string) (*domain.FinancialRecord, error)

	// UpdateRecord updates record details (amount, dates, description, category).
	UpdateRecord(ctx context.Context, organizationID string, recordID string, req dto.UpdateRecordRequest, requestingUserID string) (*domain.FinancialRecord, error)

	// SettleRecord marks a pending record as settled on the given date.
	SettleRecord(ctx context.Context, organizationID string, recordID string, req dto.SettleRecordRequest, requestingUserID string) (*domain.FinancialRecord, error)

	// CancelRecord marks a record as canceled, excluding it from all reports.
	CancelRecord(ctx context.Context, organizationID string, recordID string, requestingUserID string) error
}

// RecordSvcFacade combines all record-related service interfaces
// This is a facade for clients that need access to all operations
type RecordSvcFacade interface {
	RecordReaderSvc
	RecordWriterSvc
}
