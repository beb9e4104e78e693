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
)

// categoryService implements the CategorySvcFacade interface
type categoryService struct {
	BaseService
	categoryRepo portsrepo.CategoryRepositoryFacade
}

// CategoryServiceOption is a functional option for configuring the category service
type CategoryServiceOption func(*categoryService)

// WithCategoryOrganizationAuthorizer sets the organization authorizer for the category service.
func WithCategoryOrganizationAuthorizer(authorizer portssvc.OrganizationAuthorizerSvc) CategoryServiceOption {
	return func(s *categoryService) {
		s.OrganizationAuthorizer = authorizer
	}
}

// NewCategoryService creates a new category service with the provided options
func NewCategoryService(categoryRepo portsrepo.CategoryRepositoryFacade, options ...CategoryServiceOption) portssvc.CategorySvcFacade {
	svc := &categoryService{
		categoryRepo: categoryRepo,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure categoryService implements the CategorySvcFacade interface
var _ portssvc.CategorySvcFacade = (*categoryService)(nil)

// GetCategoryByID retrieves a category, verifying organization membership and ownership.
func (s *categoryService) GetCategoryByID(ctx context.Context, organizationID string, categoryID string, userID string) (*domain.Category, error) {
	if err := s.AuthorizeUser(ctx, userID, organizationID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	category, err := s.categoryRepo.FindCategoryByID(ctx, categoryID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find category by ID",
				slog.String("category_id", categoryID))
		}
		return nil, err
	}

	if category.OrganizationID != organizationID {
		// Hide existence of categories in other organizations.
		return nil, apperrors.ErrNotFound
	}

	return category, nil
}

// ListCategories retrieves categories of an organization.
func (s *categoryService) ListCategories(ctx context.Context, organizationID string, userID string, limit int, offset int) ([]domain.Category, error) {
	if err := s.AuthorizeUser(ctx, userID, organizationID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	categories, err := s.categoryRepo.ListCategories(ctx, organizationID, limit, offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list categories",
			slog.String("organization_id", organizationID))
		return nil, err
	}

	if categories == nil {
		return []domain.Category{}, nil
	}
	return categories, nil
}

// CreateCategory persists a new category after validating its classification.
func (s *categoryService) CreateCategory(ctx context.Context, organizationID string, req dto.CreateCategoryRequest, userID string) (*domain.Category, error) {
	if err := s.AuthorizeUser(ctx, userID, organizationID, domain.RoleMember); err != nil {
		return nil, err
	}

	dreGroup := domain.DreGroup(req.DreGroup)
	if !dreGroup.IsValid() {
		return nil, fmt.Errorf("%w: unknown DRE group %q", apperrors.ErrValidation, req.DreGroup)
	}
	nature := domain.Nature(req.Nature)
	if !nature.IsValid() {
		return nil, fmt.Errorf("%w: unknown nature %q", apperrors.ErrValidation, req.Nature)
	}

	if req.ParentCategoryID != "" {
		parent, err := s.categoryRepo.FindCategoryByID(ctx, req.ParentCategoryID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: parent category %s not found", apperrors.ErrValidation, req.ParentCategoryID)
			}
			return nil, err
		}
		if parent.OrganizationID != organizationID {
			return nil, fmt.Errorf("%w: parent category belongs to another organization", apperrors.ErrValidation)
		}
	}

	now := time.Now()
	category := domain.Category{
		CategoryID:       uuid.NewString(),
		OrganizationID:   organizationID,
		Name:             req.Name,
		DreGroup:         dreGroup,
		Nature:           nature,
		ParentCategoryID: req.ParentCategoryID,
		IsActive:         true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.categoryRepo.SaveCategory(ctx, category); err != nil {
		s.LogError(ctx, err, "Failed to save category",
			slog.String("organization_id", organizationID),
			slog.String("category_name", req.Name))
		return nil, err
	}

	s.LogInfo(ctx, "Category created successfully",
		slog.String("category_id", category.CategoryID),
		slog.String("organization_id", organizationID),
		slog.String("dre_group", string(category.DreGroup)))
	return &category, nil
}

// UpdateCategory updates a category's name and classification.
func (s *categoryService) UpdateCategory(ctx context.Context, organizationID string, categoryID string, req dto.UpdateCategoryRequest, userID string) (*domain.Category, error) {
	category, err := s.GetCategoryByID(ctx, organizationID, categoryID, userID)
	if err != nil {
		return nil, err
	}
	if err := s.AuthorizeUser(ctx, userID, organizationID, domain.RoleMember); err != nil {
		return nil, err
	}

	if req.Name != nil {
		category.Name = *req.Name
	}
	if req.DreGroup != nil {
		dreGroup := domain.DreGroup(*req.DreGroup)
		if !dreGroup.IsValid() {
			return nil, fmt.Errorf("%w: unknown DRE group %q", apperrors.ErrValidation, *req.DreGroup)
		}
		category.DreGroup = dreGroup
	}
	if req.Nature != nil {
		nature := domain.Nature(*req.Nature)
		if !nature.IsValid() {
			return nil, fmt.Errorf("%w: unknown nature %q", apperrors.ErrValidation, *req.Nature)
		}
		category.Nature = nature
	}

	category.LastUpdatedAt = time.Now()
	category.LastUpdatedBy = userID

	if err := s.categoryRepo.UpdateCategory(ctx, *category); err != nil {
		s.LogError(ctx, err, "Failed to update category",
			slog.String("category_id", categoryID))
		return nil, err
	}

	s.LogInfo(ctx, "Category updated successfully",
		slog.String("category_id", categoryID))
	return category, nil
}

// DeactivateCategory marks a category as inactive. Existing records keep their
// classification; only new records are blocked from using it.
func (s *categoryService) DeactivateCategory(ctx context.Context, organizationID string, categoryID string, userID string) error {
	if _, err := s.GetCategoryByID(ctx, organizationID, categoryID, userID); err != nil {
		return err
	}
	if err := s.AuthorizeUser(ctx, userID, organizationID, domain.RoleMember); err != nil {
		return err
	}

	if err := s.categoryRepo.DeactivateCategory(ctx, categoryID, userID, time.Now()); err != nil {
		s.LogError(ctx, err, "Failed to deactivate category",
			slog.String("category_id", categoryID))
		return err
	}

	s.LogInfo(ctx, "Category deactivated",
		slog.String("category_id", categoryID))
	return nil
}
