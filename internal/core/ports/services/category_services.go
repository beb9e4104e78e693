package services

import (
	"context"

	"github.com/vbfontes/fin_crm_app/internal/core/domain"
	"github.com/vbfontes/fin_crm_app/internal/dto"
)

// CategoryReaderSvc defines read operations for category data
type CategoryReaderSvc interface {
	// GetCategoryByID retrieves a specific category by its unique identifier.
	GetCategoryByID(ctx context.Context, organizationID string, categoryID string, userID string) (*domain.Category, error)

	// ListCategories retrieves a paginated list of categories for a given organization.
	ListCategories(ctx context.Context, organizationID string, userID string, limit int, offset int) ([]domain.Category, error)
}

// CategoryWriterSvc defines write operations for category data
type CategoryWriterSvc interface {
	// CreateCategory persists a new category.
	CreateCategory(ctx context.Context, organizationID string, req dto.CreateCategoryRequest, userID string) (*domain.Category, error)

	// UpdateCategory updates an existing category's details.
	UpdateCategory(ctx context.Context, organizationID string, categoryID string, req dto.UpdateCategoryRequest, userID string) (*domain.Category, error)

	// DeactivateCategory marks a category as inactive. Historical records keep
	// referencing it; deactivation only blocks new records.
	DeactivateCategory(ctx context.Context, organizationID string, categoryID string, userID string) error
}

// CategorySvcFacade combines all category-related service interfaces
// This is a facade for clients that need access to all operations
type CategorySvcFacade interface {
	CategoryReaderSvc
	CategoryWriterSvc
}
