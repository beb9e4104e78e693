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
	"github.com/vbfontes/fin_crm_app/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock RecordRepository ---
type MockRecordRepository struct {
	mock.Mock
}

// Ensure MockRecordRepository implements portsrepo.RecordRepositoryFacade
var _ portsrepo.RecordRepositoryFacade = (*MockRecordRepository)(nil)

func (m *MockRecordRepository) FindRecordByID(ctx context.Context, recordID string) (*domain.FinancialRecord, error) {
	args := m.Called(ctx, recordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FinancialRecord), args.Error(1)
}

func (m *MockRecordRepository) ListRecordsByOrganization(ctx context.Context, organizationID string, limit int, nextToken *string, includeCanceled bool) ([]domain.FinancialRecord, *string, error) {
	args := m.Called(ctx, organizationID, limit, nextToken, includeCanceled)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.FinancialRecord), returnedNextToken, args.Error(2)
}

func (m *MockRecordRepository) SaveRecord(ctx context.Context, record domain.FinancialRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockRecordRepository) UpdateRecord(ctx context.Context, record domain.FinancialRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockRecordRepository) UpdateRecordStatus(ctx context.Context, recordID string, status domain.RecordStatus, settlementDate *time.Time, updatedByUserID string, updatedAt time.Time) error {
	args := m.Called(ctx, recordID, status, settlementDate, updatedByUserID, updatedAt)
	return args.Error(0)
}

// --- Mock CategoryReader ---
type MockCategoryReader struct {
	mock.Mock
}

var _ portsrepo.CategoryReader = (*MockCategoryReader)(nil)

func (m *MockCategoryReader) FindCategoryByID(ctx context.Context, categoryID string) (*domain.Category, error) {
	args := m.Called(ctx, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

func (m *MockCategoryReader) FindCategoriesByIDs(ctx context.Context, categoryIDs []string) (map[string]domain.Category, error) {
	args := m.Called(ctx, categoryIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Category), args.Error(1)
}

func (m *MockCategoryReader) ListCategories(ctx context.Context, organizationID string, limit int, offset int) ([]domain.Category, error) {
	args := m.Called(ctx, organizationID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Category), args.Error(1)
}

// --- Test Suite Setup ---
type RecordServiceTestSuite struct {
	suite.Suite
	mockRecordRepo *MockRecordRepository
	mockCategories *MockCategoryReader
	mockAuthorizer *MockOrganizationAuthorizer
	service        portssvc.RecordSvcFacade
	organizationID string
	userID         string
	category       domain.Category
}

func (suite *RecordServiceTestSuite) SetupTest() {
	suite.mockRecordRepo = new(MockRecordRepository)
	suite.mockCategories = new(MockCategoryReader)
	suite.mockAuthorizer = new(MockOrganizationAuthorizer)
	suite.service = services.NewRecordService(suite.mockRecordRepo, suite.mockCategories,
		services.WithRecordOrganizationAuthorizer(suite.mockAuthorizer))

	suite.organizationID = uuid.NewString()
	suite.userID = uuid.NewString()
	suite.category = domain.Category{
		CategoryID:     uuid.NewString(),
		OrganizationID: suite.organizationID,
		Name:           "Software subscriptions",
		DreGroup:       domain.GroupAdminExpenses,
		Nature:         domain.NatureExpense,
		IsActive:       true,
	}
}

func (suite *RecordServiceTestSuite) pendingRecord() *domain.FinancialRecord {
	date := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	return &domain.FinancialRecord{
		RecordID:        uuid.NewString(),
		OrganizationID:  suite.organizationID,
		Description:     "Monthly subscription",
		Amount:          decimal.NewFromInt(120),
		Nature:          suite.category.Nature,
		CategoryID:      suite.category.CategoryID,
		Direction:       domain.DirectionPayable,
		Status:          domain.StatusPending,
		RecognitionDate: date,
		SettlementDate:  date,
	}
}

// --- Test Cases ---

func (suite *RecordServiceTestSuite) TestCreateRecord_Success() {
	ctx := context.Background()
	req := dto.CreateRecordRequest{
		Description:     "Invoice #42",
		Amount:          "1500.50",
		CategoryID:      suite.category.CategoryID,
		Direction:       "PAYABLE",
		RecognitionDate: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	}

	suite.mockAuthorizer.On("AuthorizeUserAction", ctx, suite.userID, suite.organizationID, domain.RoleMember).Return(nil).Once()
	suite.mockCategories.On("FindCategoryByID", ctx, suite.category.CategoryID).Return(&suite.category, nil).Once()
	suite.mockRecordRepo.On("SaveRecord", ctx, mock.AnythingOfType("domain.FinancialRecord")).Return(nil).Once()

	record, err := suite.service.CreateRecord(ctx, suite.organizationID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(record)
	suite.NotEmpty(record.RecordID)
	suite.Equal(suite.organizationID, record.OrganizationID)
	suite.Equal(domain.StatusPending, record.Status)
	suite.Equal(suite.category.Nature, record.Nature)
	suite.True(record.Amount.Equal(decimal.RequireFromString("1500.50")))
	// Settlement date defaults to the recognition date when omitted
	suite.Equal(req.RecognitionDate, record.SettlementDate)
	suite.Equal(suite.userID, record.CreatedBy)

	suite.mockAuthorizer.AssertExpectations(suite.T())
	suite.mockCategories.AssertExpectations(suite.T())
	suite.mockRecordRepo.AssertExpectations(suite.T())
}

func (suite *RecordServiceTestSuite) TestCreateRecord_NonPositiveAmount() {
	ctx := context.Background()
	req := dto.CreateRecordRequest{
		Amount:          "0",
		CategoryID:      suite.category.CategoryID,
		Direction:       "RECEIVABLE",
		RecognitionDate: time.Now(),
	}

	suite.mockAuthorizer.On("AuthorizeUserAction", ctx, suite.userID, suite.organizationID, domain.RoleMember).Return(nil).Once()

	_, err := suite.service.CreateRecord(ctx, suite.organizationID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRecordRepo.AssertNotCalled(suite.T(), "SaveRecord", mock.Anything, mock.Anything)
}

func (suite *RecordServiceTestSuite) TestCreateRecord_UnparsableAmount() {
	ctx := context.Background()
	req := dto.CreateRecordRequest{
		Amount:          "abc",
		CategoryID:      suite.category.CategoryID,
		Direction:       "RECEIVABLE",
		RecognitionDate: time.Now(),
	}

	suite.mockAuthorizer.On("AuthorizeUserAction", ctx, suite.userID, suite.organizationID, domain.RoleMember).Return(nil).Once()

	_, err := suite.service.CreateRecord(ctx, suite.organizationID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *RecordServiceTestSuite) TestCreateRecord_InactiveCategory() {
	ctx := context.Background()
	inactive := suite.category
	inactive.IsActive = false
	req := dto.CreateRecordRequest{
		Amount:          "100",
		CategoryID:      inactive.CategoryID,
		Direction:       "PAYABLE",
		RecognitionDate: time.Now(),
	}

	suite.mockAuthorizer.On("AuthorizeUserAction", ctx, suite.userID, suite.organizationID, domain.RoleMember).Return(nil).Once()
	suite.mockCategories.On("FindCategoryByID", ctx, inactive.CategoryID).Return(&inactive, nil).Once()

	_, err := suite.service.CreateRecord(ctx, suite.organizationID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRecordRepo.AssertNotCalled(suite.T(), "SaveRecord", mock.Anything, mock.Anything)
}

func (suite *RecordServiceTestSuite) TestCreateRecord_CategoryFromOtherOrganization() {
	ctx := context.Background()
	foreign := suite.category
	foreign.OrganizationID = uuid.NewString()
	req := dto.CreateRecordRequest{
		Amount:          "100",
		CategoryID:      foreign.CategoryID,
		Direction:       "PAYABLE",
		RecognitionDate: time.Now(),
	}

	suite.mockAuthorizer.On("AuthorizeUserAction", ctx, suite.userID, suite.organizationID, domain.RoleMember).Return(nil).Once()
	suite.mockCategories.On("FindCategoryByID", ctx, foreign.CategoryID).Return(&foreign, nil).Once()

	_, err := suite.service.CreateRecord(ctx, suite.organizationID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *RecordServiceTestSuite) TestCreateRecord_AuthorizationFail() {
	ctx := context.Background()
	authErr := apperrors.ErrForbidden

	suite.mockAuthorizer.On("AuthorizeUserAction", ctx, suite.userID, suite.organizationID, domain.RoleMember).Return(authErr).Once()

	_, err := suite.service.CreateRecord(ctx, suite.organizationID, dto.CreateRecordRequest{}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, authErr)
}

func (suite *RecordServiceTestSuite) TestGetRecordByID_OtherOrganizationHidden() {
	ctx := context.Background()
	record := suite.pendingRecord()
	record.OrganizationID = uuid.NewString()

	suite.mockAuthorizer.On("AuthorizeUserAction", ctx, suite.userID, suite.organizationID, domain.RoleReadOnly).Return(nil).Once()
	suite.mockRecordRepo.On("FindRecordByID", ctx, record.RecordID).Return(record, nil).Once()

	_, err := suite.service.GetRecordByID(ctx, suite.organizationID, record.RecordID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *RecordServiceTestSuite) TestUpdateRecord_Success() {
	ctx := context.Background()
	record := suite.pendingRecord()
	newAmount := "999.99"
	newDescription := "Corrected invoice"
	req := dto.UpdateRecordRequest{
		Amount:      &newAmount,
		Description: &newDescription,
	}

	suite.mockAuthorizer.On("AuthorizeUserAction", ctx, suite.userID, suite.organizationID, domain.RoleReadOnly).Return(nil).Once()
	suite.mockAuthorizer.On("AuthorizeUserAction", ctx, suite.userID, suite.organizationID, domain.RoleMember).Return(nil).Once()
	suite.mockRecordRepo.On("FindRecordByID", ctx, record.RecordID).Return(record, nil).Once()
	suite.mockRecordRepo.On("UpdateRecord", ctx, mock.AnythingOfType("domain.FinancialRecord")).Return(nil).Once()

	updated, err := suite.service.UpdateRecord(ctx, suite.organizationID, record.RecordID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(updated)
	suite.True(updated.Amount.Equal(decimal.RequireFromString(newAmount)))
	suite.Equal(newDescription, updated.Description)
	suite.Equal(suite.userID, updated.LastUpdatedBy)
	suite.mockRecordRepo.AssertExpectations(suite.T())
}

func (suite *RecordServiceTestSuite) TestUpdateRecord_SettledIsImmutable() {
	ctx := context.Background()
	record := suite.pendingRecord()
	record.Status = domain.StatusSettled
	newAmount := "10"
	req := dto.UpdateRecordRequest{Amount: &newAmount}

	suite.mockAuthorizer.On("AuthorizeUserAction", ctx, suite.userID, suite.organizationID, domain.RoleReadOnly).Return(nil).Once()
	suite.mockAuthorizer.On("AuthorizeUserAction", ctx, suite.userID, suite.organizationID, domain.RoleMember).Return(nil).Once()
	suite.mockRecordRepo.On("FindRecordByID", ctx, record.RecordID).Return(record, nil).Once()

	_, err := suite.service.UpdateRecord(ctx, suite.organizationID, record.RecordID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRecordRepo.AssertNotCalled(suite.T(), "UpdateRecord", mock.Anything, mock.Anything)
}

func (suite *RecordServiceTestSuite) TestSettleRecord_Success() {
	ctx := context.Background()
	record := suite.pendingRecord()
	settlementDate := time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC)
	req := dto.SettleRecordRequest{SettlementDate: settlementDate}

	suite.mockAuthorizer.On("AuthorizeUserAction", ctx, suite.userID, suite.organizationID, domain.RoleReadOnly).Return(nil).Once()
	suite.mockAuthorizer.On("AuthorizeUserAction", ctx, suite.userID, suite.organizationID, domain.RoleMember).Return(nil).Once()
	suite.mockRecordRepo.On("FindRecordByID", ctx, record.RecordID).Return(record, nil).Once()
	suite.mockRecordRepo.On("UpdateRecordStatus", ctx, record.RecordID, domain.StatusSettled, &settlementDate, suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	settled, err := suite.service.SettleRecord(ctx, suite.organizationID, record.RecordID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(settled)
	suite.Equal(domain.StatusSettled, settled.Status)
	suite.Equal(settlementDate, settled.SettlementDate)
	suite.mockRecordRepo.AssertExpectations(suite.T())
}

func (suite *RecordServiceTestSuite) TestSettleRecord_AlreadySettled() {
	ctx := context.Background()
	record := suite.pendingRecord()
	record.Status = domain.StatusSettled

	suite.mockAuthorizer.On("AuthorizeUserAction", ctx, suite.userID, suite.organizationID, domain.RoleReadOnly).Return(nil).Once()
	suite.mockAuthorizer.On("AuthorizeUserAction", ctx, suite.userID, suite.organizationID, domain.RoleMember).Return(nil).Once()
	suite.mockRecordRepo.On("FindRecordByID", ctx, record.RecordID).Return(record, nil).Once()

	_, err := suite.service.SettleRecord(ctx, suite.organizationID, record.RecordID, dto.SettleRecordRequest{}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRecordRepo.AssertNotCalled(suite.T(), "UpdateRecordStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *RecordServiceTestSuite) TestCancelRecord_Success() {
	ctx := context.Background()
	record := suite.pendingRecord()

	suite.mockAuthorizer.On("AuthorizeUserAction", ctx, suite.userID, suite.organizationID, domain.RoleReadOnly).Return(nil).Once()
	suite.mockAuthorizer.On("AuthorizeUserAction", ctx, suite.userID, suite.organizationID, domain.RoleMember).Return(nil).Once()
	suite.mockRecordRepo.On("FindRecordByID", ctx, record.RecordID).Return(record, nil).Once()
	suite.mockRecordRepo.On("UpdateRecordStatus", ctx, record.RecordID, domain.StatusCanceled, (*time.Time)(nil), suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	err := suite.service.CancelRecord(ctx, suite.organizationID, record.RecordID, suite.userID)

	suite.Require().NoError(err)
	suite.mockRecordRepo.AssertExpectations(suite.T())
}

func (suite *RecordServiceTestSuite) TestCancelRecord_AlreadyCanceled() {
	ctx := context.Background()
	record := suite.pendingRecord()
	record.Status = domain.StatusCanceled

	suite.mockAuthorizer.On("AuthorizeUserAction", ctx, suite.userID, suite.organizationID, domain.RoleReadOnly).Return(nil).Once()
	suite.mockAuthorizer.On("AuthorizeUserAction", ctx, suite.userID, suite.organizationID, domain.RoleMember).Return(nil).Once()
	suite.mockRecordRepo.On("FindRecordByID", ctx, record.RecordID).Return(record, nil).Once()

	err := suite.service.CancelRecord(ctx, suite.organizationID, record.RecordID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *RecordServiceTestSuite) TestListRecords_PassesPaginationThrough() {
	ctx := context.Background()
	record := suite.pendingRecord()
	nextToken := "opaque-cursor"
	params := dto.ListRecordsParams{Limit: 10}

	suite.mockAuthorizer.On("AuthorizeUserAction", ctx, suite.userID, suite.organizationID, domain.RoleReadOnly).Return(nil).Once()
	suite.mockRecordRepo.On("ListRecordsByOrganization", ctx, suite.organizationID, 10, (*string)(nil), false).Return([]domain.FinancialRecord{*record}, nextToken, nil).Once()

	response, err := suite.service.ListRecords(ctx, suite.organizationID, suite.userID, params)

	suite.Require().NoError(err)
	suite.Require().NotNil(response)
	suite.Len(response.Records, 1)
	suite.Require().NotNil(response.NextToken)
	suite.Equal(nextToken, *response.NextToken)
}

func (suite *RecordServiceTestSuite) TestListRecords_RepositoryError() {
	ctx := context.Background()
	repoErr := assert.AnError

	suite.mockAuthorizer.On("AuthorizeUserAction", ctx, suite.userID, suite.organizationID, domain.RoleReadOnly).Return(nil).Once()
	suite.mockRecordRepo.On("ListRecordsByOrganization", ctx, suite.organizationID, 20, (*string)(nil), false).Return(nil, nil, repoErr).Once()

	_, err := suite.service.ListRecords(ctx, suite.organizationID, suite.userID, dto.ListRecordsParams{Limit: 20})

	suite.Require().Error(err)
	suite.ErrorIs(err, repoErr)
}

// --- Run Test Suite ---
func TestRecordService(t *testing.T) {
	suite.Run(t, new(RecordServiceTestSuite))
}
