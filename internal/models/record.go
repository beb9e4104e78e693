package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direction indicates whether a financial record brings money in or out.
type Direction string

const (
	Receivable Direction = "RECEIVABLE"
	Payable    Direction = "PAYABLE"
)

// RecordStatus indicates the lifecycle state of a financial record.
type RecordStatus string

const (
	Pending  RecordStatus = "PENDING"
	Settled  RecordStatus = "SETTLED"
	Canceled RecordStatus = "CANCELED"
)

// FinancialRecord represents a single categorized receivable or payable.
// Note: Amount is a positive magnitude; sign policy lives in the reporting layer.
type FinancialRecord struct {
	RecordID        string          `db:"record_id"`
	OrganizationID  string          `db:"organization_id"`
	Description     string          `db:"description"`
	Amount          decimal.Decimal `db:"amount"`
	Nature          Nature          `db:"nature"`
	CategoryID      string          `db:"category_id"`
	Direction       Direction       `db:"direction"`
	Status          RecordStatus    `db:"status"` // Default: PENDING
	RecognitionDate time.Time       `db:"recognition_date"`
	SettlementDate  time.Time       `db:"settlement_date"`
	AuditFields
}
