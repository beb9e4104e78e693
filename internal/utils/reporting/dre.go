// Package reporting implements the pure financial reporting computations: the
// DRE waterfall calculator and the cash flow projector. Both are deterministic,
// stateless batch transformations over already-persisted, already-categorized
// records; they perform no I/O and read no ambient state.
package reporting

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vbfontes/fin_crm_app/internal/apperrors"
	"github.com/vbfontes/fin_crm_app/internal/core/domain"
)

const dateFormat = "2006-01-02"

// ComputeDre aggregates categorized financial records into the cascading DRE
// income statement for the inclusive [start, end] interval under the given regime.
// Canceled records never contribute. A record referencing a category absent from
// the taxonomy aborts the whole report with apperrors.ErrUnknownCategory: silently
// misclassifying it would corrupt every downstream subtotal.
func ComputeDre(records []domain.FinancialRecord, taxonomy domain.Taxonomy, start, end time.Time, regime domain.Regime) (*domain.DreReport, error) {
	if start.After(end) {
		return nil, fmt.Errorf("%w: start %s is after end %s", apperrors.ErrInvalidPeriod, start.Format(dateFormat), end.Format(dateFormat))
	}
	if !regime.IsValid() {
		return nil, fmt.Errorf("%w: unsupported regime %q", apperrors.ErrValidation, regime)
	}

	lineItems, err := aggregateLineItems(records, taxonomy, start, end, regime)
	if err != nil {
		return nil, err
	}

	return buildWaterfall(lineItems, taxonomy), nil
}

// aggregateLineItems filters records to the requested period, classifies each via
// the taxonomy and accumulates amounts per category. Categories with no activity
// in the period produce no line item. Amounts are summed in their stored sign
// convention; sign policy belongs to the waterfall, not the aggregator.
func aggregateLineItems(records []domain.FinancialRecord, taxonomy domain.Taxonomy, start, end time.Time, regime domain.Regime) ([]domain.DreLineItem, error) {
	startDay := dayOf(start)
	endDay := dayOf(end)

	totals := make(map[string]decimal.Decimal)
	for _, record := range records {
		if record.IsCanceled() {
			continue
		}
		reportDay := dayOf(record.ReportDate(regime))
		if reportDay.Before(startDay) || reportDay.After(endDay) {
			continue
		}
		if _, ok := taxonomy.Classify(record.CategoryID); !ok {
			return nil, fmt.Errorf("%w: record %s references category %s", apperrors.ErrUnknownCategory, record.RecordID, record.CategoryID)
		}
		totals[record.CategoryID] = totals[record.CategoryID].Add(record.Amount)
	}

	lineItems := make([]domain.DreLineItem, 0, len(totals))
	for categoryID, total := range totals {
		category, _ := taxonomy.Classify(categoryID)
		lineItems = append(lineItems, domain.DreLineItem{
			DreGroup:     category.DreGroup,
			CategoryID:   categoryID,
			CategoryName: category.Name,
			TotalAmount:  total,
		})
	}

	// Deterministic output regardless of input order.
	sort.Slice(lineItems, func(i, j int) bool {
		return lineItems[i].CategoryID < lineItems[j].CategoryID
	})

	return lineItems, nil
}

// buildWaterfall buckets line items into the twelve fixed groups and derives the
// cascading subtotals. All groups appear in the report even when empty; a group
// total is always computable, so there is no error path once line items are valid.
//
// Amounts are stored as positive magnitudes, so expense and cost groups are
// subtracted explicitly here:
//
//	receita líquida  = gross_revenue − deductions
//	lucro bruto      = receita líquida − costs
//	ebitda           = lucro bruto − (admin + commercial + payroll + other_operating)
//	ebit             = ebitda − depreciation_amortization
//	lucro antes IR   = ebit + resultado financeiro líquido
//	lucro líquido    = lucro antes IR − income_tax
//
// other_revenue and other_expenses are carried as informational lines only; they
// fold into no subtotal.
func buildWaterfall(lineItems []domain.DreLineItem, taxonomy domain.Taxonomy) *domain.DreReport {
	groupTotals := make(map[domain.DreGroup]*domain.DreGroupTotal, len(domain.DreGroupOrder))
	for _, group := range domain.DreGroupOrder {
		groupTotals[group] = &domain.DreGroupTotal{Group: group, Items: []domain.DreLineItem{}, Total: decimal.Zero}
	}

	for _, item := range lineItems {
		groupTotal := groupTotals[item.DreGroup]
		groupTotal.Items = append(groupTotal.Items, item)
		groupTotal.Total = groupTotal.Total.Add(item.TotalAmount)
	}

	report := &domain.DreReport{Groups: make([]domain.DreGroupTotal, 0, len(domain.DreGroupOrder))}
	for _, group := range domain.DreGroupOrder {
		report.Groups = append(report.Groups, *groupTotals[group])
	}

	operatingExpenses := groupTotals[domain.GroupAdminExpenses].Total.
		Add(groupTotals[domain.GroupCommercialExpenses].Total).
		Add(groupTotals[domain.GroupPayrollExpenses].Total).
		Add(groupTotals[domain.GroupOtherOperatingExpenses].Total)

	report.NetRevenue = groupTotals[domain.GroupGrossRevenue].Total.Sub(groupTotals[domain.GroupDeductions].Total)
	report.GrossProfit = report.NetRevenue.Sub(groupTotals[domain.GroupCosts].Total)
	report.Ebitda = report.GrossProfit.Sub(operatingExpenses)
	report.Ebit = report.Ebitda.Sub(groupTotals[domain.GroupDepreciationAmortization].Total)
	report.FinancialResultNet = netFinancialResult(groupTotals[domain.GroupFinancialResult].Items, taxonomy)
	report.ProfitBeforeTax = report.Ebit.Add(report.FinancialResultNet)
	report.NetIncome = report.ProfitBeforeTax.Sub(groupTotals[domain.GroupIncomeTax].Total)

	return report
}

// netFinancialResult nets the financial_result group by category nature:
// revenue-nature items add (financial income), everything else subtracts
// (financial expenses). Stored signs alone are not trusted here, since the group
// mixes both natures under the positive-magnitude convention.
func netFinancialResult(items []domain.DreLineItem, taxonomy domain.Taxonomy) decimal.Decimal {
	net := decimal.Zero
	for _, item := range items {
		category, ok := taxonomy.Classify(item.CategoryID)
		if ok && category.Nature == domain.NatureRevenue {
			net = net.Add(item.TotalAmount)
		} else {
			net = net.Sub(item.TotalAmount)
		}
	}
	return net
}

// dayOf truncates a timestamp to day precision in UTC. Report intervals are
// date-based; time-of-day must never decide which side of a boundary a record
// falls on.
func dayOf(t time.Time) time.Time {
	year, month, day := t.UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
