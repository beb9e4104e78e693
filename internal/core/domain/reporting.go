package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DreLineItem is the sum of all in-scope record amounts for one category within
// the requested period and regime.
type DreLineItem struct {
	DreGroup     DreGroup        `json:"dreGroup"`
	CategoryID   string          `json:"categoryID"`
	CategoryName string          `json:"categoryName"`
	TotalAmount  decimal.Decimal `json:"totalAmount"`
}

// DreGroupTotal groups line items under one DRE statement line.
type DreGroupTotal struct {
	Group DreGroup        `json:"group"`
	Items []DreLineItem   `json:"items"`
	Total decimal.Decimal `json:"total"`
}

// DreReport is the full cascading income statement. Groups always contains the
// twelve fixed groups in presentation order, each present even when empty. It is
// a pure value object; nothing mutates it after construction.
type DreReport struct {
	Groups []DreGroupTotal `json:"groups"`

	NetRevenue         decimal.Decimal `json:"netRevenue"`         // receita líquida
	GrossProfit        decimal.Decimal `json:"grossProfit"`        // lucro bruto
	Ebitda             decimal.Decimal `json:"ebitda"`
	Ebit               decimal.Decimal `json:"ebit"`
	FinancialResultNet decimal.Decimal `json:"financialResultNet"` // resultado financeiro líquido
	ProfitBeforeTax    decimal.Decimal `json:"profitBeforeTax"`    // lucro antes do IR
	NetIncome          decimal.Decimal `json:"netIncome"`          // lucro líquido
}

// GroupTotal returns the totals for one DRE group. A zero-valued DreGroupTotal is
// returned for a group outside the closed set, which cannot happen for reports
// built by the engine.
func (r *DreReport) GroupTotal(group DreGroup) DreGroupTotal {
	for _, groupTotal := range r.Groups {
		if groupTotal.Group == group {
			return groupTotal
		}
	}
	return DreGroupTotal{Group: group, Items: []DreLineItem{}, Total: decimal.Zero}
}

// CashFlowPeriod is one time bucket of a cash flow projection, ordered
// chronologically. CumulativeBalance is a running prefix sum of Net across the
// whole projected horizon, seeded at zero.
type CashFlowPeriod struct {
	PeriodStart       time.Time       `json:"periodStart"`
	ReceivablesTotal  decimal.Decimal `json:"receivablesTotal"`
	PayablesTotal     decimal.Decimal `json:"payablesTotal"`
	Net               decimal.Decimal `json:"net"`
	CumulativeBalance decimal.Decimal `json:"cumulativeBalance"`
}
