package services

import (
	"context"
	"time"

	"github.com/vbfontes/fin_crm_app/internal/core/domain"
)

// ReportingSvcFacade defines operations for generating financial reports
type ReportingSvcFacade interface {
	// DreReport generates the income statement waterfall for a period under the given regime.
	DreReport(ctx context.Context, organizationID string, from, to time.Time, regime domain.Regime, userID string) (*domain.DreReport, error)

	// CashFlowProjection generates the bucketed cash flow projection with running balance.
	CashFlowProjection(ctx context.Context, organizationID string, from, to time.Time, granularity domain.Granularity, userID string) ([]domain.CashFlowPeriod, error)
}
