package dto

import (
	"github.com/vbfontes/fin_crm_app/internal/core/domain"
)

// CreateCategoryRequest defines the payload to create a financial category.
// DreGroup must be one of the twelve fixed statement lines; the mapping from
// category to statement line is configuration supplied here, never inferred.
type CreateCategoryRequest struct {
	Name             string `json:"name" binding:"required,min=1,max=100"`
	DreGroup         string `json:"dreGroup" binding:"required,oneof=GROSS_REVENUE DEDUCTIONS COSTS ADMIN_EXPENSES COMMERCIAL_EXPENSES PAYROLL_EXPENSES OTHER_OPERATING_EXPENSES DEPRECIATION_AMORTIZATION FINANCIAL_RESULT INCOME_TAX OTHER_REVENUE OTHER_EXPENSES"`
	Nature           string `json:"nature" binding:"required,oneof=REVENUE EXPENSE COST"`
	ParentCategoryID string `json:"parentCategoryID" binding:"omitempty,uuid"`
}

// UpdateCategoryRequest defines the payload to update a category. Only the
// provided fields are changed.
type UpdateCategoryRequest struct {
	Name     *string `json:"name,omitempty" binding:"omitempty,min=1,max=100"`
	DreGroup *string `json:"dreGroup,omitempty" binding:"omitempty,oneof=GROSS_REVENUE DEDUCTIONS COSTS ADMIN_EXPENSES COMMERCIAL_EXPENSES PAYROLL_EXPENSES OTHER_OPERATING_EXPENSES DEPRECIATION_AMORTIZATION FINANCIAL_RESULT INCOME_TAX OTHER_REVENUE OTHER_EXPENSES"`
	Nature   *string `json:"nature,omitempty" binding:"omitempty,oneof=REVENUE EXPENSE COST"`
}

// ListCategoriesParams defines the query parameters for listing categories.
type ListCategoriesParams struct {
	Limit  int `form:"limit,default=100" binding:"omitempty,min=1,max=500"`
	Offset int `form:"offset,default=0" binding:"omitempty,min=0"`
}

// CategoryResponse is the API representation of a category.
type CategoryResponse struct {
	CategoryID       string `json:"categoryID"`
	OrganizationID   string `json:"organizationID"`
	Name             string `json:"name"`
	DreGroup         string `json:"dreGroup"`
	Nature           string `json:"nature"`
	ParentCategoryID string `json:"parentCategoryID,omitempty"`
	IsActive         bool   `json:"isActive"`
}

// ListCategoriesResponse is the paginated list of categories.
type ListCategoriesResponse struct {
	Categories []CategoryResponse `json:"categories"`
	Limit      int                `json:"limit"`
	Offset     int                `json:"offset"`
}

// ToCategoryResponse converts a domain category into its API representation.
func ToCategoryResponse(category *domain.Category) CategoryResponse {
	return CategoryResponse{
		CategoryID:       category.CategoryID,
		OrganizationID:   category.OrganizationID,
		Name:             category.Name,
		DreGroup:         string(category.DreGroup),
		Nature:           string(category.Nature),
		ParentCategoryID: category.ParentCategoryID,
		IsActive:         category.IsActive,
	}
}

// ToListCategoriesResponse converts domain categories into the list response shape.
func ToListCategoriesResponse(categories []domain.Category, limit, offset int) ListCategoriesResponse {
	resp := ListCategoriesResponse{
		Categories: make([]CategoryResponse, 0, len(categories)),
		Limit:      limit,
		Offset:     offset,
	}
	for i := range categories {
		resp.Categories = append(resp.Categories, ToCategoryResponse(&categories[i]))
	}
	return resp
}
