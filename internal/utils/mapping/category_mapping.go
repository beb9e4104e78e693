package mapping

import (
	"database/sql"

	"github.com/vbfontes/fin_crm_app/internal/core/domain"
	"github.com/vbfontes/fin_crm_app/internal/models"
)

// ToModelCategory converts a domain Category to a model Category. An empty
// parent ID marks a root category and is stored as NULL, keeping the
// self-referencing FK satisfied.
func ToModelCategory(d domain.Category) models.Category {
	return models.Category{
		CategoryID:     d.CategoryID,
		OrganizationID: d.OrganizationID,
		Name:           d.Name,
		DreGroup:       string(d.DreGroup),
		Nature:         models.Nature(d.Nature),
		ParentCategoryID: sql.NullString{
			String: d.ParentCategoryID,
			Valid:  d.ParentCategoryID != "",
		},
		IsActive:    d.IsActive,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainCategory converts a model Category to a domain Category
func ToDomainCategory(m models.Category) domain.Category {
	return domain.Category{
		CategoryID:       m.CategoryID,
		OrganizationID:   m.OrganizationID,
		Name:             m.Name,
		DreGroup:         domain.DreGroup(m.DreGroup),
		Nature:           domain.Nature(m.Nature),
		ParentCategoryID: m.ParentCategoryID.String,
		IsActive:         m.IsActive,
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainCategorySlice converts a slice of model Categories to domain Categories
func ToDomainCategorySlice(ms []models.Category) []domain.Category {
	ds := make([]domain.Category, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainCategory(m)
	}
	return ds
}
