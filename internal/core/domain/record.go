package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direction indicates whether a financial record brings money in or out.
type Direction string

const (
	DirectionReceivable Direction = "RECEIVABLE"
	DirectionPayable    Direction = "PAYABLE"
)

// IsValid reports whether the direction is one of the supported values.
func (d Direction) IsValid() bool {
	return d == DirectionReceivable || d == DirectionPayable
}

// RecordStatus indicates the lifecycle state of a financial record.
type RecordStatus string

const (
	StatusPending  RecordStatus = "PENDING"
	StatusSettled  RecordStatus = "SETTLED"
	StatusCanceled RecordStatus = "CANCELED"
)

// Regime selects which date places a record inside a reporting interval.
type Regime string

const (
	// RegimeCompetence reports by recognition date (when the economic event occurred).
	RegimeCompetence Regime = "COMPETENCE"
	// RegimeCash reports by settlement date (when money actually moved).
	RegimeCash Regime = "CASH"
)

// IsValid reports whether the regime is one of the supported values.
func (r Regime) IsValid() bool {
	return r == RegimeCompetence || r == RegimeCash
}

// Granularity is the bucket size used to partition a cash flow horizon.
type Granularity string

const (
	GranularityDaily   Granularity = "DAILY"
	GranularityWeekly  Granularity = "WEEKLY"
	GranularityMonthly Granularity = "MONTHLY"
)

// IsValid reports whether the granularity is one of the supported values.
func (g Granularity) IsValid() bool {
	switch g {
	case GranularityDaily, GranularityWeekly, GranularityMonthly:
		return true
	}
	return false
}

// FinancialRecord represents a single categorized receivable or payable.
// Amounts are stored as positive magnitudes; sign policy (which groups subtract)
// belongs to the DRE calculator, keeping records regime-agnostic.
type FinancialRecord struct {
	RecordID        string          `json:"recordID"`        // Primary Key (e.g., UUID)
	OrganizationID  string          `json:"organizationID"`  // FK -> organizations.organization_id (NON-NULL)
	Description     string          `json:"description"`     // Nullable user description
	Amount          decimal.Decimal `json:"amount"`          // Positive magnitude; precise decimal type
	Nature          Nature          `json:"nature"`          // Matches the record's category nature
	CategoryID      string          `json:"categoryID"`      // FK -> categories.category_id (Not Null)
	Direction       Direction       `json:"direction"`       // RECEIVABLE or PAYABLE
	Status          RecordStatus    `json:"status"`          // Default: PENDING
	RecognitionDate time.Time       `json:"recognitionDate"` // Competence date of the economic event
	SettlementDate  time.Time       `json:"settlementDate"`  // Due/settlement date of the cash movement
	AuditFields
}

// ReportDate returns the date that places this record inside a reporting
// interval under the given regime.
func (r FinancialRecord) ReportDate(regime Regime) time.Time {
	if regime == RegimeCash {
		return r.SettlementDate
	}
	return r.RecognitionDate
}

// IsCanceled reports whether the record is excluded from all reports.
func (r FinancialRecord) IsCanceled() bool {
	return r.Status == StatusCanceled
}
