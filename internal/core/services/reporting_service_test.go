package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/vbfontes/fin_crm_app/internal/apperrors"
	"github.com/vbfontes/fin_crm_app/internal/core/domain"
	portsrepo "github.com/vbfontes/fin_crm_app/internal/core/ports/repositories"
	portssvc "github.com/vbfontes/fin_crm_app/internal/core/ports/services"
	"github.com/vbfontes/fin_crm_app/internal/core/services"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock ReportingRepository ---
type MockReportingRepository struct {
	mock.Mock
}

// Ensure MockReportingRepository implements portsrepo.ReportingRepository
var _ portsrepo.ReportingRepository = (*MockReportingRepository)(nil)

func (m *MockReportingRepository) GetRecordsInWindow(ctx context.Context, organizationID string, from, to time.Time, regime domain.Regime) ([]domain.FinancialRecord, error) {
	args := m.Called(ctx, organizationID, from, to, regime)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FinancialRecord), args.Error(1)
}

func (m *MockReportingRepository) GetRecordsBySettlementWindow(ctx context.Context, organizationID string, from, to time.Time) ([]domain.FinancialRecord, error) {
	args := m.Called(ctx, organizationID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FinancialRecord), args.Error(1)
}

func (m *MockReportingRepository) GetTaxonomy(ctx context.Context, organizationID string) (domain.Taxonomy, error) {
	args := m.Called(ctx, organizationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.Taxonomy), args.Error(1)
}

// --- Mock OrganizationAuthorizer ---
type MockOrganizationAuthorizer struct {
	mock.Mock
}

var _ portssvc.OrganizationAuthorizerSvc = (*MockOrganizationAuthorizer)(nil)

func (m *MockOrganizationAuthorizer) AuthorizeUserAction(ctx context.Context, userID, organizationID string, requiredRole domain.UserOrganizationRole) error {
	args := m.Called(ctx, userID, organizationID, requiredRole)
	return args.Error(0)
}

// --- Test Suite Setup ---
type ReportingServiceTestSuite struct {
	suite.Suite
	mockRepo       *MockReportingRepository
	mockAuthorizer *MockOrganizationAuthorizer
	service        portssvc.ReportingSvcFacade
	organizationID string
	userID         string
	from           time.Time
	to             time.Time
	revenueCat     domain.Category
	deductionCat   domain.Category
	costCat        domain.Category
	finIncomeCat   domain.Category
	finExpenseCat  domain.Category
	taxonomy       domain.Taxonomy
}

func (suite *ReportingServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockReportingRepository)
	suite.mockAuthorizer = new(MockOrganizationAuthorizer)
	suite.service = services.NewReportingService(suite.mockRepo,
		services.WithReportingOrganizationAuthorizer(suite.mockAuthorizer))

	suite.organizationID = uuid.NewString()
	suite.userID = uuid.NewString()
	suite.from = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	suite.to = time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)

	suite.revenueCat = domain.Category{
		CategoryID:     uuid.NewString(),
		OrganizationID: suite.organizationID,
		Name:           "Consulting revenue",
		DreGroup:       domain.GroupGrossRevenue,
		Nature:         domain.NatureRevenue,
		IsActive:       true,
	}
	suite.deductionCat = domain.Category{
		CategoryID:     uuid.NewString(),
		OrganizationID: suite.organizationID,
		Name:           "Sales tax",
		DreGroup:       domain.GroupDeductions,
		Nature:         domain.NatureExpense,
		IsActive:       true,
	}
	suite.costCat = domain.Category{
		CategoryID:     uuid.NewString(),
		OrganizationID: suite.organizationID,
		Name:           "Cost of services",
		DreGroup:       domain.GroupCosts,
		Nature:         domain.NatureCost,
		IsActive:       true,
	}
	suite.finIncomeCat = domain.Category{
		CategoryID:     uuid.NewString(),
		OrganizationID: suite.organizationID,
		Name:           "Interest earned",
		DreGroup:       domain.GroupFinancialResult,
		Nature:         domain.NatureRevenue,
		IsActive:       true,
	}
	suite.finExpenseCat = domain.Category{
		CategoryID:     uuid.NewString(),
		OrganizationID: suite.organizationID,
		Name:           "Bank fees",
		DreGroup:       domain.GroupFinancialResult,
		Nature:         domain.NatureExpense,
		IsActive:       true,
	}
	suite.taxonomy = domain.NewTaxonomy([]domain.Category{
		suite.revenueCat, suite.deductionCat, suite.costCat, suite.finIncomeCat, suite.finExpenseCat,
	})
}

func (suite *ReportingServiceTestSuite) newRecord(categoryID string, amount int64, day int) domain.FinancialRecord {
	date := time.Date(2025, 1, day, 0, 0, 0, 0, time.UTC)
	return domain.FinancialRecord{
		RecordID:        uuid.NewString(),
		OrganizationID:  suite.organizationID,
		Amount:          decimal.NewFromInt(amount),
		CategoryID:      categoryID,
		Direction:       domain.DirectionReceivable,
		Status:          domain.StatusPending,
		RecognitionDate: date,
		SettlementDate:  date,
	}
}

// --- Test Cases ---

func (suite *ReportingServiceTestSuite) TestDreReport_Success() {
	ctx := context.Background()
	records := []domain.FinancialRecord{
		suite.newRecord(suite.revenueCat.CategoryID, 1000, 10),
		suite.newRecord(suite.deductionCat.CategoryID, 100, 12),
		suite.newRecord(suite.costCat.CategoryID, 300, 15),
		suite.newRecord(suite.finIncomeCat.CategoryID, 50, 20),
		suite.newRecord(suite.finExpenseCat.CategoryID, 80, 22),
	}

	suite.mockAuthorizer.On("AuthorizeUserAction", ctx, suite.userID, suite.organizationID, domain.RoleReadOnly).Return(nil).Once()
	suite.mockRepo.On("GetRecordsInWindow", ctx, suite.organizationID, suite.from, suite.to, domain.RegimeCompetence).Return(records, nil).Once()
	suite.mockRepo.On("GetTaxonomy", ctx, suite.organizationID).Return(suite.taxonomy, nil).Once()

	report, err := suite.service.DreReport(ctx, suite.organizationID, suite.from, suite.to, domain.RegimeCompetence, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(report)
	suite.Len(report.Groups, len(domain.DreGroupOrder))
	suite.True(report.NetRevenue.Equal(decimal.NewFromInt(900)), "net revenue: %s", report.NetRevenue)
	suite.True(report.GrossProfit.Equal(decimal.NewFromInt(600)), "gross profit: %s", report.GrossProfit)
	suite.True(report.Ebitda.Equal(decimal.NewFromInt(600)))
	suite.True(report.Ebit.Equal(decimal.NewFromInt(600)))
	suite.True(report.FinancialResultNet.Equal(decimal.NewFromInt(-30)), "financial result: %s", report.FinancialResultNet)
	suite.True(report.ProfitBeforeTax.Equal(decimal.NewFromInt(570)))
	suite.True(report.NetIncome.Equal(decimal.NewFromInt(570)))

	suite.mockAuthorizer.AssertExpectations(suite.T())
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *ReportingServiceTestSuite) TestDreReport_EmptyPeriod() {
	ctx := context.Background()

	suite.mockAuthorizer.On("AuthorizeUserAction", ctx, suite.userID, suite.organizationID, domain.RoleReadOnly).Return(nil).Once()
	suite.mockRepo.On("GetRecordsInWindow", ctx, suite.organizationID, suite.from, suite.to, domain.RegimeCash).Return([]domain.FinancialRecord{}, nil).Once()
	suite.mockRepo.On("GetTaxonomy", ctx, suite.organizationID).Return(suite.taxonomy, nil).Once()

	report, err := suite.service.DreReport(ctx, suite.organizationID, suite.from, suite.to, domain.RegimeCash, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(report)
	// Every group is present even with no activity
	suite.Len(report.Groups, len(domain.DreGroupOrder))
	for _, groupTotal := range report.Groups {
		suite.True(groupTotal.Total.IsZero())
		suite.Empty(groupTotal.Items)
	}
	suite.True(report.NetIncome.IsZero())
}

func (suite *ReportingServiceTestSuite) TestDreReport_AuthorizationFail() {
	ctx := context.Background()
	authErr := apperrors.ErrForbidden

	suite.mockAuthorizer.On("AuthorizeUserAction", ctx, suite.userID, suite.organizationID, domain.RoleReadOnly).Return(authErr).Once()

	_, err := suite.service.DreReport(ctx, suite.organizationID, suite.from, suite.to, domain.RegimeCompetence, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, authErr)
	suite.mockRepo.AssertNotCalled(suite.T(), "GetRecordsInWindow", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReportingServiceTestSuite) TestDreReport_UnknownCategoryAborts() {
	ctx := context.Background()
	orphan := suite.newRecord(uuid.NewString(), 500, 10) // category absent from taxonomy
	records := []domain.FinancialRecord{
		suite.newRecord(suite.revenueCat.CategoryID, 1000, 5),
		orphan,
	}

	suite.mockAuthorizer.On("AuthorizeUserAction", ctx, suite.userID, suite.organizationID, domain.RoleReadOnly).Return(nil).Once()
	suite.mockRepo.On("GetRecordsInWindow", ctx, suite.organizationID, suite.from, suite.to, domain.RegimeCompetence).Return(records, nil).Once()
	suite.mockRepo.On("GetTaxonomy", ctx, suite.organizationID).Return(suite.taxonomy, nil).Once()

	_, err := suite.service.DreReport(ctx, suite.organizationID, suite.from, suite.to, domain.RegimeCompetence, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrUnknownCategory)
	suite.Contains(err.Error(), orphan.CategoryID)
}

func (suite *ReportingServiceTestSuite) TestDreReport_InvertedPeriod() {
	ctx := context.Background()

	suite.mockAuthorizer.On("AuthorizeUserAction", ctx, suite.userID, suite.organizationID, domain.RoleReadOnly).Return(nil).Once()
	suite.mockRepo.On("GetRecordsInWindow", ctx, suite.organizationID, suite.to, suite.from, domain.RegimeCompetence).Return([]domain.FinancialRecord{}, nil).Once()
	suite.mockRepo.On("GetTaxonomy", ctx, suite.organizationID).Return(suite.taxonomy, nil).Once()

	_, err := suite.service.DreReport(ctx, suite.organizationID, suite.to, suite.from, domain.RegimeCompetence, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidPeriod)
}

func (suite *ReportingServiceTestSuite) TestDreReport_RepositoryError() {
	ctx := context.Background()
	repoErr := assert.AnError

	suite.mockAuthorizer.On("AuthorizeUserAction", ctx, suite.userID, suite.organizationID, domain.RoleReadOnly).Return(nil).Once()
	suite.mockRepo.On("GetRecordsInWindow", ctx, suite.organizationID, suite.from, suite.to, domain.RegimeCompetence).Return(nil, repoErr).Once()

	_, err := suite.service.DreReport(ctx, suite.organizationID, suite.from, suite.to, domain.RegimeCompetence, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, repoErr)
	suite.mockRepo.AssertNotCalled(suite.T(), "GetTaxonomy", mock.Anything, mock.Anything)
}

func (suite *ReportingServiceTestSuite) TestCashFlowProjection_Success() {
	ctx := context.Background()
	inflow := suite.newRecord(suite.revenueCat.CategoryID, 1000, 5)
	outflow := suite.newRecord(suite.costCat.CategoryID, 400, 10)
	outflow.Direction = domain.DirectionPayable
	laterInflow := suite.newRecord(suite.revenueCat.CategoryID, 200, 20)
	records := []domain.FinancialRecord{inflow, outflow, laterInflow}

	suite.mockAuthorizer.On("AuthorizeUserAction", ctx, suite.userID, suite.organizationID, domain.RoleReadOnly).Return(nil).Once()
	suite.mockRepo.On("GetRecordsBySettlementWindow", ctx, suite.organizationID, suite.from, suite.to).Return(records, nil).Once()

	periods, err := suite.service.CashFlowProjection(ctx, suite.organizationID, suite.from, suite.to, domain.GranularityMonthly, suite.userID)

	suite.Require().NoError(err)
	suite.Require().Len(periods, 1)
	suite.True(periods[0].ReceivablesTotal.Equal(decimal.NewFromInt(1200)))
	suite.True(periods[0].PayablesTotal.Equal(decimal.NewFromInt(400)))
	suite.True(periods[0].Net.Equal(decimal.NewFromInt(800)))
	suite.True(periods[0].CumulativeBalance.Equal(decimal.NewFromInt(800)))
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *ReportingServiceTestSuite) TestCashFlowProjection_RunningBalanceAcrossBuckets() {
	ctx := context.Background()
	to := time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC)
	january := suite.newRecord(suite.revenueCat.CategoryID, 500, 15)
	february := suite.newRecord(suite.costCat.CategoryID, 800, 10)
	february.Direction = domain.DirectionPayable
	february.SettlementDate = time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC)
	records := []domain.FinancialRecord{january, february}

	suite.mockAuthorizer.On("AuthorizeUserAction", ctx, suite.userID, suite.organizationID, domain.RoleReadOnly).Return(nil).Once()
	suite.mockRepo.On("GetRecordsBySettlementWindow", ctx, suite.organizationID, suite.from, to).Return(records, nil).Once()

	periods, err := suite.service.CashFlowProjection(ctx, suite.organizationID, suite.from, to, domain.GranularityMonthly, suite.userID)

	suite.Require().NoError(err)
	suite.Require().Len(periods, 2)
	suite.True(periods[0].Net.Equal(decimal.NewFromInt(500)))
	suite.True(periods[0].CumulativeBalance.Equal(decimal.NewFromInt(500)))
	suite.True(periods[1].Net.Equal(decimal.NewFromInt(-800)))
	// Cumulative balance goes negative and carries across buckets
	suite.True(periods[1].CumulativeBalance.Equal(decimal.NewFromInt(-300)))
}

func (suite *ReportingServiceTestSuite) TestCashFlowProjection_AuthorizationFail() {
	ctx := context.Background()
	authErr := apperrors.ErrForbidden

	suite.mockAuthorizer.On("AuthorizeUserAction", ctx, suite.userID, suite.organizationID, domain.RoleReadOnly).Return(authErr).Once()

	_, err := suite.service.CashFlowProjection(ctx, suite.organizationID, suite.from, suite.to, domain.GranularityMonthly, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, authErr)
	suite.mockRepo.AssertNotCalled(suite.T(), "GetRecordsBySettlementWindow", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReportingServiceTestSuite) TestCashFlowProjection_InvalidGranularity() {
	ctx := context.Background()

	suite.mockAuthorizer.On("AuthorizeUserAction", ctx, suite.userID, suite.organizationID, domain.RoleReadOnly).Return(nil).Once()
	suite.mockRepo.On("GetRecordsBySettlementWindow", ctx, suite.organizationID, suite.from, suite.to).Return([]domain.FinancialRecord{}, nil).Once()

	_, err := suite.service.CashFlowProjection(ctx, suite.organizationID, suite.from, suite.to, domain.Granularity("HOURLY"), suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidGranularity)
}

// --- Run Test Suite ---
func TestReportingService(t *testing.T) {
	suite.Run(t, new(ReportingServiceTestSuite))
}
