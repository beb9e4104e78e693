package domain

// Nature classifies how a category's amounts behave economically.
type Nature string

const (
	NatureRevenue Nature = "REVENUE"
	NatureExpense Nature = "EXPENSE"
	NatureCost    Nature = "COST"
)

// IsValid reports whether the nature is one of the supported values.
func (n Nature) IsValid() bool {
	switch n {
	case NatureRevenue, NatureExpense, NatureCost:
		return true
	}
	return false
}

// DreGroup identifies one of the twelve fixed statement lines of the DRE
// (demonstrativo de resultado do exercício). The set is closed: a category must
// map to exactly one of these groups.
type DreGroup string

const (
	GroupGrossRevenue             DreGroup = "GROSS_REVENUE"
	GroupDeductions               DreGroup = "DEDUCTIONS"
	GroupCosts                    DreGroup = "COSTS"
	GroupAdminExpenses            DreGroup = "ADMIN_EXPENSES"
	GroupCommercialExpenses       DreGroup = "COMMERCIAL_EXPENSES"
	GroupPayrollExpenses          DreGroup = "PAYROLL_EXPENSES"
	GroupOtherOperatingExpenses   DreGroup = "OTHER_OPERATING_EXPENSES"
	GroupDepreciationAmortization DreGroup = "DEPRECIATION_AMORTIZATION"
	GroupFinancialResult          DreGroup = "FINANCIAL_RESULT"
	GroupIncomeTax                DreGroup = "INCOME_TAX"
	GroupOtherRevenue             DreGroup = "OTHER_REVENUE"
	GroupOtherExpenses            DreGroup = "OTHER_EXPENSES"
)

// DreGroupOrder lists every DRE group in presentation order, which is also the
// dependency order of the cascading subtotal formulas. Reports always contain
// exactly these groups, in this order.
var DreGroupOrder = []DreGroup{
	GroupGrossRevenue,
	GroupDeductions,
	GroupCosts,
	GroupAdminExpenses,
	GroupCommercialExpenses,
	GroupPayrollExpenses,
	GroupOtherOperatingExpenses,
	GroupDepreciationAmortization,
	GroupFinancialResult,
	GroupIncomeTax,
	GroupOtherRevenue,
	GroupOtherExpenses,
}

// IsValid reports whether the group belongs to the closed DRE group set.
func (g DreGroup) IsValid() bool {
	for _, known := range DreGroupOrder {
		if g == known {
			return true
		}
	}
	return false
}

// Category represents a financial category within the core domain. Every category
// maps to exactly one DRE group; the mapping is configuration, never inferred from data.
type Category struct {
	CategoryID       string   `json:"categoryID"`       // Primary Key (e.g., UUID)
	OrganizationID   string   `json:"organizationID"`   // FK -> organizations.organization_id (NON-NULL)
	Name             string   `json:"name"`             // User-defined name
	DreGroup         DreGroup `json:"dreGroup"`         // Statement line this category rolls into
	Nature           Nature   `json:"nature"`           // REVENUE, EXPENSE or COST
	ParentCategoryID string   `json:"parentCategoryID"` // Nullable FK -> categories.category_id (Self-referencing)
	IsActive         bool     `json:"isActive"`         // Soft delete or status flag
	AuditFields               // Embed CreatedAt, CreatedBy, etc.
}

// Taxonomy is the closed category_id -> classification mapping consumed by the
// reporting engine. It is built once per report request and read-only thereafter.
type Taxonomy map[string]Category

// NewTaxonomy builds a taxonomy index from a list of categories.
func NewTaxonomy(categories []Category) Taxonomy {
	taxonomy := make(Taxonomy, len(categories))
	for _, category := range categories {
		taxonomy[category.CategoryID] = category
	}
	return taxonomy
}

// Classify returns the classification for a category ID. The second return value
// is false when the category is absent from the taxonomy; callers must treat that
// as an error, not default the category into a group.
func (t Taxonomy) Classify(categoryID string) (Category, bool) {
	category, ok := t[categoryID]
	return category, ok
}
