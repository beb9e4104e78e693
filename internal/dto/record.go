package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vbfontes/fin_crm_app/internal/core/domain"
)

// CreateRecordRequest defines the payload to create a financial record. Amount
// is a positive decimal string; whether it adds or subtracts in reports is
// decided by the record's category, never by a sign here.
type CreateRecordRequest struct {
	Description     string    `json:"description" binding:"omitempty,max=500"`
	Amount          string    `json:"amount" binding:"required"`
	CategoryID      string    `json:"categoryID" binding:"required,uuid"`
	Direction       string    `json:"direction" binding:"required,oneof=RECEIVABLE PAYABLE"`
	RecognitionDate time.Time `json:"recognitionDate" binding:"required" time_format:"2006-01-02"`
	SettlementDate  time.Time `json:"settlementDate" time_format:"2006-01-02"`
}

// UpdateRecordRequest defines the payload to update a pending record. Only the
// provided fields are changed.
type UpdateRecordRequest struct {
	Description     *string    `json:"description,omitempty" binding:"omitempty,max=500"`
	Amount          *string    `json:"amount,omitempty"`
	CategoryID      *string    `json:"categoryID,omitempty" binding:"omitempty,uuid"`
	RecognitionDate *time.Time `json:"recognitionDate,omitempty" time_format:"2006-01-02"`
	SettlementDate  *time.Time `json:"settlementDate,omitempty" time_format:"2006-01-02"`
}

// SettleRecordRequest defines the payload to settle a pending record. When
// SettlementDate is omitted the current time is used.
type SettleRecordRequest struct {
	SettlementDate time.Time `json:"settlementDate" time_format:"2006-01-02"`
}

// ListRecordsParams defines the query parameters for listing financial records.
type ListRecordsParams struct {
	Limit           int     `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
	NextToken       *string `form:"nextToken" binding:"omitempty"`
	IncludeCanceled bool    `form:"includeCanceled,default=false"`
}

// RecordResponse is the API representation of a financial record.
type RecordResponse struct {
	RecordID        string          `json:"recordID"`
	OrganizationID  string          `json:"organizationID"`
	Description     string          `json:"description"`
	Amount          decimal.Decimal `json:"amount"`
	Nature          string          `json:"nature"`
	CategoryID      string          `json:"categoryID"`
	Direction       string          `json:"direction"`
	Status          string          `json:"status"`
	RecognitionDate string          `json:"recognitionDate"`
	SettlementDate  string          `json:"settlementDate"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// ListRecordsResponse is the cursor-paginated list of financial records.
type ListRecordsResponse struct {
	Records   []RecordResponse `json:"records"`
	NextToken *string          `json:"nextToken,omitempty"`
}

// ToRecordResponse converts a domain record into its API representation.
func ToRecordResponse(record *domain.FinancialRecord) RecordResponse {
	return RecordResponse{
		RecordID:        record.RecordID,
		OrganizationID:  record.OrganizationID,
		Description:     record.Description,
		Amount:          record.Amount,
		Nature:          string(record.Nature),
		CategoryID:      record.CategoryID,
		Direction:       string(record.Direction),
		Status:          string(record.Status),
		RecognitionDate: record.RecognitionDate.Format("2006-01-02"),
		SettlementDate:  record.SettlementDate.Format("2006-01-02"),
		CreatedAt:       record.CreatedAt,
	}
}

// ToListRecordsResponse converts domain records and a pagination token into the
// list response shape.
func ToListRecordsResponse(records []domain.FinancialRecord, nextToken *string) ListRecordsResponse {
	resp := ListRecordsResponse{
		Records:   make([]RecordResponse, 0, len(records)),
		NextToken: nextToken,
	}
	for i := range records {
		resp.Records = append(resp.Records, ToRecordResponse(&records[i]))
	}
	return resp
}
