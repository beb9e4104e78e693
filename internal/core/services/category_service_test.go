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
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock CategoryRepository ---
type MockCategoryRepository struct {
	mock.Mock
}

// Ensure MockCategoryRepository implements portsrepo.CategoryRepositoryFacade
var _ portsrepo.CategoryRepositoryFacade = (*MockCategoryRepository)(nil)

func (m *MockCategoryRepository) FindCategoryByID(ctx context.Context, categoryID string) (*domain.Category, error) {
	args := m.Called(ctx, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindCategoriesByIDs(ctx context.Context, categoryIDs []string) (map[string]domain.Category, error) {
	args := m.Called(ctx, categoryIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Category), args.Error(1)
}

func (m *MockCategoryRepository) ListCategories(ctx context.Context, organizationID string, limit int, offset int) ([]domain.Category, error) {
	args := m.Called(ctx, organizationID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Category), args.Error(1)
}

func (m *MockCategoryRepository) SaveCategory(ctx context.Context, category domain.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) UpdateCategory(ctx context.Context, category domain.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) DeactivateCategory(ctx context.Context, categoryID string, userID string, now time.Time) error {
	args := m.Called(ctx, categoryID, userID, now)
	return args.Error(0)
}

// --- Test Suite Setup ---
type CategoryServiceTestSuite struct {
	suite.Suite
	mockRepo       *MockCategoryRepository
	mockAuthorizer *MockOrganizationAuthorizer
	service        portssvc.CategorySvcFacade
	organizationID string
	userID         string
}

func (suite *CategoryServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockCategoryRepository)
	suite.mockAuthorizer = new(MockOrganizationAuthorizer)
	suite.service = services.NewCategoryService(suite.mockRepo,
		services.WithCategoryOrganizationAuthorizer(suite.mockAuthorizer))

	suite.organizationID = uuid.NewString()
	suite.userID = uuid.NewString()
}

// --- Test Cases ---

func (suite *CategoryServiceTestSuite) TestCreateCategory_Success() {
	ctx := context.Background()
	req := dto.CreateCategoryRequest{
		Name:     "Hosting",
		DreGroup: "ADMIN_EXPENSES",
		Nature:   "EXPENSE",
	}

	suite.mockAuthorizer.On("AuthorizeUserAction", ctx, suite.userID, suite.organizationID, domain.RoleMember).Return(nil).Once()
	suite.mockRepo.On("SaveCategory", ctx, mock.AnythingOfType("domain.Category")).Return(nil).Once()

	category, err := suite.service.CreateCategory(ctx, suite.organizationID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(category)
	suite.NotEmpty(category.CategoryID)
	suite.Equal(suite.organizationID, category.OrganizationID)
	suite.Equal(domain.GroupAdminExpenses, category.DreGroup)
	suite.Equal(domain.NatureExpense, category.Nature)
	suite.True(category.IsActive)
	suite.Equal(suite.userID, category.CreatedBy)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *CategoryServiceTestSuite) TestCreateCategory_UnknownDreGroup() {
	ctx := context.Background()
	req := dto.CreateCategoryRequest{
		Name:     "Misc",
		DreGroup: "SOMETHING_ELSE",
		Nature:   "EXPENSE",
	}

	suite.mockAuthorizer.On("AuthorizeUserAction", ctx, suite.userID, suite.organizationID, domain.RoleMember).Return(nil).Once()

	_, err := suite.service.CreateCategory(ctx, suite.organizationID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveCategory", mock.Anything, mock.Anything)
}

func (suite *CategoryServiceTestSuite) TestCreateCategory_ParentInOtherOrganization() {
	ctx := context.Background()
	parent := domain.Category{
		CategoryID:     uuid.NewString(),
		OrganizationID: uuid.NewString(),
		Name:           "Parent",
		DreGroup:       domain.GroupAdminExpenses,
		Nature:         domain.NatureExpense,
		IsActive:       true,
	}
	req := dto.CreateCategoryRequest{
		Name:             "Child",
		DreGroup:         "ADMIN_EXPENSES",
		Nature:           "EXPENSE",
		ParentCategoryID: parent.CategoryID,
	}

	suite.mockAuthorizer.On("AuthorizeUserAction", ctx, suite.userID, suite.organizationID, domain.RoleMember).Return(nil).Once()
	suite.mockRepo.On("FindCategoryByID", ctx, parent.CategoryID).Return(&parent, nil).Once()

	_, err := suite.service.CreateCategory(ctx, suite.organizationID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveCategory", mock.Anything, mock.Anything)
}

func (suite *CategoryServiceTestSuite) TestCreateCategory_MissingParent() {
	ctx := context.Background()
	parentID := uuid.NewString()
	req := dto.CreateCategoryRequest{
		Name:             "Child",
		DreGroup:         "COSTS",
		Nature:           "COST",
		ParentCategoryID: parentID,
	}

	suite.mockAuthorizer.On("AuthorizeUserAction", ctx, suite.userID, suite.organizationID, domain.RoleMember).Return(nil).Once()
	suite.mockRepo.On("FindCategoryByID", ctx, parentID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.CreateCategory(ctx, suite.organizationID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *CategoryServiceTestSuite) TestGetCategoryByID_OtherOrganizationHidden() {
	ctx := context.Background()
	category := domain.Category{
		CategoryID:     uuid.NewString(),
		OrganizationID: uuid.NewString(),
		Name:           "Foreign",
		DreGroup:       domain.GroupCosts,
		Nature:         domain.NatureCost,
		IsActive:       true,
	}

	suite.mockAuthorizer.On("AuthorizeUserAction", ctx, suite.userID, suite.organizationID, domain.RoleReadOnly).Return(nil).Once()
	suite.mockRepo.On("FindCategoryByID", ctx, category.CategoryID).Return(&category, nil).Once()

	_, err := suite.service.GetCategoryByID(ctx, suite.organizationID, category.CategoryID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *CategoryServiceTestSuite) TestUpdateCategory_Success() {
	ctx := context.Background()
	category := domain.Category{
		CategoryID:     uuid.NewString(),
		OrganizationID: suite.organizationID,
		Name:           "Payroll",
		DreGroup:       domain.GroupAdminExpenses,
		Nature:         domain.NatureExpense,
		IsActive:       true,
	}
	newName := "Salaries"
	newGroup := "PAYROLL_EXPENSES"
	req := dto.UpdateCategoryRequest{Name: &newName, DreGroup: &newGroup}

	suite.mockAuthorizer.On("AuthorizeUserAction", ctx, suite.userID, suite.organizationID, domain.RoleReadOnly).Return(nil).Once()
	suite.mockAuthorizer.On("AuthorizeUserAction", ctx, suite.userID, suite.organizationID, domain.RoleMember).Return(nil).Once()
	suite.mockRepo.On("FindCategoryByID", ctx, category.CategoryID).Return(&category, nil).Once()
	suite.mockRepo.On("UpdateCategory", ctx, mock.AnythingOfType("domain.Category")).Return(nil).Once()

	updated, err := suite.service.UpdateCategory(ctx, suite.organizationID, category.CategoryID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(updated)
	suite.Equal(newName, updated.Name)
	suite.Equal(domain.GroupPayrollExpenses, updated.DreGroup)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *CategoryServiceTestSuite) TestDeactivateCategory_Success() {
	ctx := context.Background()
	category := domain.Category{
		CategoryID:     uuid.NewString(),
		OrganizationID: suite.organizationID,
		Name:           "Legacy",
		DreGroup:       domain.GroupOtherExpenses,
		Nature:         domain.NatureExpense,
		IsActive:       true,
	}

	suite.mockAuthorizer.On("AuthorizeUserAction", ctx, suite.userID, suite.organizationID, domain.RoleReadOnly).Return(nil).Once()
	suite.mockAuthorizer.On("AuthorizeUserAction", ctx, suite.userID, suite.organizationID, domain.RoleMember).Return(nil).Once()
	suite.mockRepo.On("FindCategoryByID", ctx, category.CategoryID).Return(&category, nil).Once()
	suite.mockRepo.On("DeactivateCategory", ctx, category.CategoryID, suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	err := suite.service.DeactivateCategory(ctx, suite.organizationID, category.CategoryID, suite.userID)

	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *CategoryServiceTestSuite) TestListCategories_NilBecomesEmpty() {
	ctx := context.Background()

	suite.mockAuthorizer.On("AuthorizeUserAction", ctx, suite.userID, suite.organizationID, domain.RoleReadOnly).Return(nil).Once()
	suite.mockRepo.On("ListCategories", ctx, suite.organizationID, 100, 0).Return([]domain.Category(nil), nil).Once()

	categories, err := suite.service.ListCategories(ctx, suite.organizationID, suite.userID, 100, 0)

	suite.Require().NoError(err)
	suite.NotNil(categories)
	suite.Empty(categories)
}

// --- Run Test Suite ---
func TestCategoryService(t *testing.T) {
	suite.Run(t, new(CategoryServiceTestSuite))
}
