package models

import "database/sql"

// Nature classifies how a category's amounts behave economically.
type Nature string

const (
	Revenue Nature = "REVENUE"
	Expense Nature = "EXPENSE"
	Cost    Nature = "COST"
)

// Category represents a financial category row. Every category maps to exactly
// one DRE group; the group value set is enforced at the domain layer.
type Category struct {
	CategoryID       string `db:"category_id"`
	OrganizationID   string `db:"organization_id"`
	Name             string `db:"name"`
	DreGroup         string `db:"dre_group"`
	Nature           Nature `db:"nature"`
	ParentCategoryID sql.NullString `db:"parent_category_id"` // NULL for root categories
	IsActive         bool   `db:"is_active"`
	AuditFields
}
