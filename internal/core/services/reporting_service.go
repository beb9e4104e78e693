package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/vbfontes/fin_crm_app/internal/core/domain"
	portsrepo "github.com/vbfontes/fin_crm_app/internal/core/ports/repositories"
	portssvc "github.com/vbfontes/fin_crm_app/internal/core/ports/services"
	"github.com/vbfontes/fin_crm_app/internal/utils/reporting"
)

// reportingService implements the ReportingSvcFacade interface
type reportingService struct {
	BaseService
	reportingRepo portsrepo.ReportingRepository
}

// ReportingServiceOption is a functional option for configuring the reporting service
type ReportingServiceOption func(*reportingService)

// WithReportingOrganizationAuthorizer sets the organization authorizer for the reporting service.
func WithReportingOrganizationAuthorizer(authorizer portssvc.OrganizationAuthorizerSvc) ReportingServiceOption {
	return func(s *reportingService) {
		s.OrganizationAuthorizer = authorizer
	}
}

// NewReportingService creates a new reporting service with the provided options
func NewReportingService(repo portsrepo.ReportingRepository, options ...ReportingServiceOption) portssvc.ReportingSvcFacade {
	svc := &reportingService{
		reportingRepo: repo,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure reportingService implements the ReportingSvcFacade interface
var _ portssvc.ReportingSvcFacade = (*reportingService)(nil)

// DreReport generates the income statement waterfall for a period under the given regime.
func (s *reportingService) DreReport(ctx context.Context, organizationID string, from, to time.Time, regime domain.Regime, userID string) (*domain.DreReport, error) {
	// ReadOnly is sufficient for viewing reports
	if err := s.AuthorizeUser(ctx, userID, organizationID, domain.RoleReadOnly); err != nil {
		s.LogError(ctx, err, "User not authorized to view DRE report",
			slog.String("user_id", userID),
			slog.String("organization_id", organizationID))
		return nil, err
	}

	records, err := s.reportingRepo.GetRecordsInWindow(ctx, organizationID, from, to, regime)
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve records for DRE report",
			slog.String("organization_id", organizationID),
			slog.String("from", from.Format(time.RFC3339)),
			slog.String("to", to.Format(time.RFC3339)))
		return nil, err
	}

	taxonomy, err := s.reportingRepo.GetTaxonomy(ctx, organizationID)
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve taxonomy for DRE report",
			slog.String("organization_id", organizationID))
		return nil, err
	}

	report, err := reporting.ComputeDre(records, taxonomy, from, to, regime)
	if err != nil {
		s.LogError(ctx, err, "Failed to compute DRE report",
			slog.String("organization_id", organizationID))
		return nil, err
	}

	s.LogInfo(ctx, "DRE report generated successfully",
		slog.String("organization_id", organizationID),
		slog.String("from", from.Format(time.RFC3339)),
		slog.String("to", to.Format(time.RFC3339)),
		slog.String("regime", string(regime)),
		slog.Int("record_count", len(records)))
	return report, nil
}

// CashFlowProjection generates the bucketed cash flow projection with running balance.
func (s *reportingService) CashFlowProjection(ctx context.Context, organizationID string, from, to time.Time, granularity domain.Granularity, userID string) ([]domain.CashFlowPeriod, error) {
	if err := s.AuthorizeUser(ctx, userID, organizationID, domain.RoleReadOnly); err != nil {
		s.LogError(ctx, err, "User not authorized to view cash flow projection",
			slog.String("user_id", userID),
			slog.String("organization_id", organizationID))
		return nil, err
	}

	records, err := s.reportingRepo.GetRecordsBySettlementWindow(ctx, organizationID, from, to)
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve records for cash flow projection",
			slog.String("organization_id", organizationID),
			slog.String("from", from.Format(time.RFC3339)),
			slog.String("to", to.Format(time.RFC3339)))
		return nil, err
	}

	periods, err := reporting.ComputeCashFlow(records, from, to, granularity)
	if err != nil {
		s.LogError(ctx, err, "Failed to compute cash flow projection",
			slog.String("organization_id", organizationID))
		return nil, err
	}

	s.LogInfo(ctx, "Cash flow projection generated successfully",
		slog.String("organization_id", organizationID),
		slog.String("from", from.Format(time.RFC3339)),
		slog.String("to", to.Format(time.RFC3339)),
		slog.String("granularity", string(granularity)),
		slog.Int("period_count", len(periods)))
	return periods, nil
}
