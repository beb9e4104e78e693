package dto

import (
	"github.com/shopspring/decimal"

	"github.com/vbfontes/fin_crm_app/internal/core/domain"
)

// DreLineItemResponse is one category line inside a DRE group.
type DreLineItemResponse struct {
	CategoryID   string          `json:"categoryID"`
	CategoryName string          `json:"categoryName"`
	TotalAmount  decimal.Decimal `json:"totalAmount"`
}

// DreGroupResponse is one of the twelve fixed statement lines with its
// category breakdown.
type DreGroupResponse struct {
	Group string                `json:"group"`
	Items []DreLineItemResponse `json:"items"`
	Total decimal.Decimal       `json:"total"`
}

// DreReportResponse is the full cascading income statement for a period.
type DreReportResponse struct {
	FromDate string `json:"fromDate"`
	ToDate   string `json:"toDate"`
	Regime   string `json:"regime"`

	Groups []DreGroupResponse `json:"groups"`

	NetRevenue         decimal.Decimal `json:"netRevenue"`
	GrossProfit        decimal.Decimal `json:"grossProfit"`
	Ebitda             decimal.Decimal `json:"ebitda"`
	Ebit               decimal.Decimal `json:"ebit"`
	FinancialResultNet decimal.Decimal `json:"financialResultNet"`
	ProfitBeforeTax    decimal.Decimal `json:"profitBeforeTax"`
	NetIncome          decimal.Decimal `json:"netIncome"`
}

// CashFlowPeriodResponse is one time bucket of a cash flow projection.
type CashFlowPeriodResponse struct {
	PeriodStart       string          `json:"periodStart"`
	ReceivablesTotal  decimal.Decimal `json:"receivablesTotal"`
	PayablesTotal     decimal.Decimal `json:"payablesTotal"`
	Net               decimal.Decimal `json:"net"`
	CumulativeBalance decimal.Decimal `json:"cumulativeBalance"`
}

// CashFlowResponse is the ordered sequence of cash flow buckets for a horizon.
type CashFlowResponse struct {
	FromDate    string                   `json:"fromDate"`
	ToDate      string                   `json:"toDate"`
	Granularity string                   `json:"granularity"`
	Periods     []CashFlowPeriodResponse `json:"periods"`
}

// ToDreReportResponse converts a domain DRE report into its API representation.
func ToDreReportResponse(report *domain.DreReport, fromDate, toDate string, regime domain.Regime) DreReportResponse {
	groups := make([]DreGroupResponse, 0, len(report.Groups))
	for _, groupTotal := range report.Groups {
		items := make([]DreLineItemResponse, 0, len(groupTotal.Items))
		for _, item := range groupTotal.Items {
			items = append(items, DreLineItemResponse{
				CategoryID:   item.CategoryID,
				CategoryName: item.CategoryName,
				TotalAmount:  item.TotalAmount,
			})
		}
		groups = append(groups, DreGroupResponse{
			Group: string(groupTotal.Group),
			Items: items,
			Total: groupTotal.Total,
		})
	}
	return DreReportResponse{
		FromDate:           fromDate,
		ToDate:             toDate,
		Regime:             string(regime),
		Groups:             groups,
		NetRevenue:         report.NetRevenue,
		GrossProfit:        report.GrossProfit,
		Ebitda:             report.Ebitda,
		Ebit:               report.Ebit,
		FinancialResultNet: report.FinancialResultNet,
		ProfitBeforeTax:    report.ProfitBeforeTax,
		NetIncome:          report.NetIncome,
	}
}

// ToCashFlowResponse converts domain cash flow periods into the API representation.
func ToCashFlowResponse(periods []domain.CashFlowPeriod, fromDate, toDate string, granularity domain.Granularity) CashFlowResponse {
	resp := CashFlowResponse{
		FromDate:    fromDate,
		ToDate:      toDate,
		Granularity: string(granularity),
		Periods:     make([]CashFlowPeriodResponse, 0, len(periods)),
	}
	for _, period := range periods {
		resp.Periods = append(resp.Periods, CashFlowPeriodResponse{
			PeriodStart:       period.PeriodStart.Format("2006-01-02"),
			ReceivablesTotal:  period.ReceivablesTotal,
			PayablesTotal:     period.PayablesTotal,
			Net:               period.Net,
			CumulativeBalance: period.CumulativeBalance,
		})
	}
	return resp
}
