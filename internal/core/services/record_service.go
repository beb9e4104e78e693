package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/vbfontes/fin_crm_app/internal/apperrors"
	"github.com/vbfontes/fin_crm_app/internal/core/domain"
	portsrepo "github.com/vbfontes/fin_crm_app/internal/core/ports/repositories"
	portssvc "github.com/vbfontes/fin_crm_app/internal/core/ports/services"
	"github.com/vbfontes/fin_crm_app/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// recordService implements the RecordSvcFacade interface
type recordService struct {
	BaseService
	recordRepo   portsrepo.RecordRepositoryFacade
	categoryRepo portsrepo.CategoryReader
}

// RecordServiceOption is a functional option for configuring the record service
type RecordServiceOption func(*recordService)

// WithRecordOrganizationAuthorizer sets the organization authorizer for the record service.
func WithRecordOrganizationAuthorizer(authorizer portssvc.OrganizationAuthorizerSvc) RecordServiceOption {
	return func(s *recordService) {
		s.OrganizationAuthorizer = authorizer
	}
}

// NewRecordService creates a new record service with the provided options
func NewRecordService(recordRepo portsrepo.RecordRepositoryFacade, categoryRepo portsrepo.CategoryReader, options ...RecordServiceOption) portssvc.RecordSvcFacade {
	svc := &recordService{
		recordRepo:   recordRepo,
		categoryRepo: categoryRepo,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure recordService implements the RecordSvcFacade interface
var _ portssvc.RecordSvcFacade = (*recordService)(nil)

// resolveCategory validates that a category exists, belongs to the organization
// and is active, returning it for nature derivation.
func (s *recordService) resolveCategory(ctx context.Context, organizationID, categoryID string) (*domain.Category, error) {
	category, err := s.categoryRepo.FindCategoryByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: category %s not found", apperrors.ErrValidation, categoryID)
		}
		return nil, err
	}
	if category.OrganizationID != organizationID {
		return nil, fmt.Errorf("%w: category belongs to another organization", apperrors.ErrValidation)
	}
	if !category.IsActive {
		return nil, fmt.Errorf("%w: category %s is inactive", apperrors.ErrValidation, categoryID)
	}
	return category, nil
}

// GetRecordByID retrieves a record, verifying organization membership and ownership.
func (s *recordService) GetRecordByID(ctx context.Context, organizationID string, recordID string, requestingUserID string) (*domain.FinancialRecord, error) {
	if err := s.AuthorizeUser(ctx, requestingUserID, organizationID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	record, err := s.recordRepo.FindRecordByID(ctx, recordID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find record by ID",
				slog.String("record_id", recordID))
		}
		return nil, err
	}

	if record.OrganizationID != organizationID {
		return nil, apperrors.ErrNotFound
	}

	return record, nil
}

// ListRecords retrieves a paginated list of records in an organization.
func (s *recordService) ListRecords(ctx context.Context, organizationID string, userID string, params dto.ListRecordsParams) (*dto.ListRecordsResponse, error) {
	if err := s.AuthorizeUser(ctx, userID, organizationID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	records, nextToken, err := s.recordRepo.ListRecordsByOrganization(ctx, organizationID, params.Limit, params.NextToken, params.IncludeCanceled)
	if err != nil {
		s.LogError(ctx, err, "Failed to list records",
			slog.String("organization_id", organizationID))
		return nil, err
	}

	response := dto.ToListRecordsResponse(records, nextToken)
	return &response, nil
}

// CreateRecord persists a new pending financial record.
func (s *recordService) CreateRecord(ctx context.Context, organizationID string, req dto.CreateRecordRequest, creatorUserID string) (*domain.FinancialRecord, error) {
	if err := s.AuthorizeUser(ctx, creatorUserID, organizationID, domain.RoleMember); err != nil {
		return nil, err
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid amount %q", apperrors.ErrValidation, req.Amount)
	}
	if amount.IsNegative() || amount.IsZero() {
		// Amounts are stored as positive magnitudes; direction carries the sign.
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}

	direction := domain.Direction(req.Direction)
	if !direction.IsValid() {
		return nil, fmt.Errorf("%w: unknown direction %q", apperrors.ErrValidation, req.Direction)
	}

	category, err := s.resolveCategory(ctx, organizationID, req.CategoryID)
	if err != nil {
		return nil, err
	}

	settlementDate := req.SettlementDate
	if settlementDate.IsZero() {
		settlementDate = req.RecognitionDate
	}

	now := time.Now()
	record := domain.FinancialRecord{
		RecordID:        uuid.NewString(),
		OrganizationID:  organizationID,
		Description:     req.Description,
		Amount:          amount,
		Nature:          category.Nature,
		CategoryID:      category.CategoryID,
		Direction:       direction,
		Status:          domain.StatusPending,
		RecognitionDate: req.RecognitionDate,
		SettlementDate:  settlementDate,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.recordRepo.SaveRecord(ctx, record); err != nil {
		s.LogError(ctx, err, "Failed to save record",
			slog.String("organization_id", organizationID))
		return nil, err
	}

	s.LogInfo(ctx, "Record created successfully",
		slog.String("record_id", record.RecordID),
		slog.String("organization_id", organizationID),
		slog.String("direction", string(record.Direction)))
	return &record, nil
}

// UpdateRecord updates a pending record's details. Settled and canceled records
// are immutable apart from status transitions.
func (s *recordService) UpdateRecord(ctx context.Context, organizationID string, recordID string, req dto.UpdateRecordRequest, requestingUserID string) (*domain.FinancialRecord, error) {
	record, err := s.GetRecordByID(ctx, organizationID, recordID, requestingUserID)
	if err != nil {
		return nil, err
	}
	if err := s.AuthorizeUser(ctx, requestingUserID, organizationID, domain.RoleMember); err != nil {
		return nil, err
	}

	if record.Status != domain.StatusPending {
		return nil, fmt.Errorf("%w: only pending records can be updated", apperrors.ErrValidation)
	}

	if req.Description != nil {
		record.Description = *req.Description
	}
	if req.Amount != nil {
		amount, parseErr := decimal.NewFromString(*req.Amount)
		if parseErr != nil {
			return nil, fmt.Errorf("%w: invalid amount %q", apperrors.ErrValidation, *req.Amount)
		}
		if amount.IsNegative() || amount.IsZero() {
			return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
		}
		record.Amount = amount
	}
	if req.CategoryID != nil {
		category, resolveErr := s.resolveCategory(ctx, organizationID, *req.CategoryID)
		if resolveErr != nil {
			return nil, resolveErr
		}
		record.CategoryID = category.CategoryID
		record.Nature = category.Nature
	}
	if req.RecognitionDate != nil {
		record.RecognitionDate = *req.RecognitionDate
	}
	if req.SettlementDate != nil {
		record.SettlementDate = *req.SettlementDate
	}

	record.LastUpdatedAt = time.Now()
	record.LastUpdatedBy = requestingUserID

	if err := s.recordRepo.UpdateRecord(ctx, *record); err != nil {
		s.LogError(ctx, err, "Failed to update record",
			slog.String("record_id", recordID))
		return nil, err
	}

	s.LogInfo(ctx, "Record updated successfully",
		slog.String("record_id", recordID))
	return record, nil
}

// SettleRecord marks a pending record as settled on the given date.
func (s *recordService) SettleRecord(ctx context.Context, organizationID string, recordID string, req dto.SettleRecordRequest, requestingUserID string) (*domain.FinancialRecord, error) {
	record, err := s.GetRecordByID(ctx, organizationID, recordID, requestingUserID)
	if err != nil {
		return nil, err
	}
	if err := s.AuthorizeUser(ctx, requestingUserID, organizationID, domain.RoleMember); err != nil {
		return nil, err
	}

	if record.Status != domain.StatusPending {
		return nil, fmt.Errorf("%w: only pending records can be settled", apperrors.ErrValidation)
	}

	settlementDate := req.SettlementDate
	if settlementDate.IsZero() {
		settlementDate = time.Now()
	}

	now := time.Now()
	if err := s.recordRepo.UpdateRecordStatus(ctx, recordID, domain.StatusSettled, &settlementDate, requestingUserID, now); err != nil {
		s.LogError(ctx, err, "Failed to settle record",
			slog.String("record_id", recordID))
		return nil, err
	}

	record.Status = domain.StatusSettled
	record.SettlementDate = settlementDate
	record.LastUpdatedAt = now
	record.LastUpdatedBy = requestingUserID

	s.LogInfo(ctx, "Record settled",
		slog.String("record_id", recordID),
		slog.String("settlement_date", settlementDate.Format("2006-01-02")))
	return record, nil
}

// CancelRecord marks a record as canceled, excluding it from all reports.
func (s *recordService) CancelRecord(ctx context.Context, organizationID string, recordID string, requestingUserID string) error {
	record, err := s.GetRecordByID(ctx, organizationID, recordID, requestingUserID)
	if err != nil {
		return err
	}
	if err := s.AuthorizeUser(ctx, requestingUserID, organizationID, domain.RoleMember); err != nil {
		return err
	}

	if record.IsCanceled() {
		return fmt.Errorf("%w: record is already canceled", apperrors.ErrValidation)
	}

	if err := s.recordRepo.UpdateRecordStatus(ctx, recordID, domain.StatusCanceled, nil, requestingUserID, time.Now()); err != nil {
		s.LogError(ctx, err, "Failed to cancel record",
			slog.String("record_id", recordID))
		return err
	}

	s.LogInfo(ctx, "Record canceled",
		slog.String("record_id", recordID))
	return nil
}
