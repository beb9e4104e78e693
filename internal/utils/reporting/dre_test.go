package reporting_test

import (
	"math/rand"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbfontes/fin_crm_app/internal/apperrors"
	"github.com/vbfontes/fin_crm_app/internal/core/domain"
	"github.com/vbfontes/fin_crm_app/internal/utils/reporting"
)

var (
	periodStart = time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	periodEnd   = time.Date(2025, time.March, 31, 0, 0, 0, 0, time.UTC)
	midPeriod   = time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC)
)

func testCategory(id string, group domain.DreGroup, nature domain.Nature) domain.Category {
	return domain.Category{
		CategoryID:     id,
		OrganizationID: "org-1",
		Name:           id,
		DreGroup:       group,
		Nature:         nature,
		IsActive:       true,
	}
}

func testTaxonomy() domain.Taxonomy {
	return domain.NewTaxonomy([]domain.Category{
		testCategory("sales", domain.GroupGrossRevenue, domain.NatureRevenue),
		testCategory("taxes-on-sales", domain.GroupDeductions, domain.NatureExpense),
		testCategory("raw-material", domain.GroupCosts, domain.NatureCost),
		testCategory("office", domain.GroupAdminExpenses, domain.NatureExpense),
		testCategory("marketing", domain.GroupCommercialExpenses, domain.NatureExpense),
		testCategory("salaries", domain.GroupPayrollExpenses, domain.NatureExpense),
		testCategory("misc-ops", domain.GroupOtherOperatingExpenses, domain.NatureExpense),
		testCategory("depreciation", domain.GroupDepreciationAmortization, domain.NatureExpense),
		testCategory("interest-income", domain.GroupFinancialResult, domain.NatureRevenue),
		testCategory("interest-expense", domain.GroupFinancialResult, domain.NatureExpense),
		testCategory("irpj", domain.GroupIncomeTax, domain.NatureExpense),
		testCategory("asset-sale", domain.GroupOtherRevenue, domain.NatureRevenue),
		testCategory("lawsuit", domain.GroupOtherExpenses, domain.NatureExpense),
	})
}

func testRecord(categoryID string, amount int64, day time.Time) domain.FinancialRecord {
	return domain.FinancialRecord{
		RecordID:        categoryID + "-" + day.Format("2006-01-02"),
		OrganizationID:  "org-1",
		Amount:          decimal.NewFromInt(amount),
		CategoryID:      categoryID,
		Direction:       domain.DirectionReceivable,
		Status:          domain.StatusPending,
		RecognitionDate: day,
		SettlementDate:  day,
	}
}

func TestComputeDre_ExampleScenario(t *testing.T) {
	records := []domain.FinancialRecord{
		testRecord("sales", 1000, midPeriod),
		testRecord("office", 150, midPeriod),
	}

	report, err := reporting.ComputeDre(records, testTaxonomy(), periodStart, periodEnd, domain.RegimeCompetence)
	require.NoError(t, err)

	assert.True(t, report.GroupTotal(domain.GroupGrossRevenue).Total.Equal(decimal.NewFromInt(1000)))
	assert.True(t, report.GroupTotal(domain.GroupAdminExpenses).Total.Equal(decimal.NewFromInt(150)))
	assert.True(t, report.NetRevenue.Equal(decimal.NewFromInt(1000)))
	assert.True(t, report.GrossProfit.Equal(decimal.NewFromInt(1000)))
	assert.True(t, report.Ebitda.Equal(decimal.NewFromInt(850)))
	assert.True(t, report.NetIncome.Equal(decimal.NewFromInt(850)))
}

func TestComputeDre_AllGroupsPresentWhenEmpty(t *testing.T) {
	report, err := reporting.ComputeDre(nil, testTaxonomy(), periodStart, periodEnd, domain.RegimeCompetence)
	require.NoError(t, err)

	require.Len(t, report.Groups, len(domain.DreGroupOrder))
	for i, group := range domain.DreGroupOrder {
		assert.Equal(t, group, report.Groups[i].Group)
		assert.True(t, report.Groups[i].Total.IsZero())
		assert.Empty(t, report.Groups[i].Items)
	}
	assert.True(t, report.NetIncome.IsZero())
}

func TestComputeDre_GroupAdditivity(t *testing.T) {
	taxonomy := testTaxonomy()
	taxonomy["stationery"] = testCategory("stationery", domain.GroupAdminExpenses, domain.NatureExpense)

	records := []domain.FinancialRecord{
		testRecord("office", 150, midPeriod),
		testRecord("office", 50, periodStart),
		testRecord("stationery", 25, periodEnd),
	}

	report, err := reporting.ComputeDre(records, taxonomy, periodStart, periodEnd, domain.RegimeCompetence)
	require.NoError(t, err)

	admin := report.GroupTotal(domain.GroupAdminExpenses)
	require.Len(t, admin.Items, 2)

	itemSum := decimal.Zero
	for _, item := range admin.Items {
		itemSum = itemSum.Add(item.TotalAmount)
	}
	assert.True(t, admin.Total.Equal(itemSum))
	assert.True(t, admin.Total.Equal(decimal.NewFromInt(225)))
}

func TestComputeDre_CascadeConsistency(t *testing.T) {
	records := []domain.FinancialRecord{
		testRecord("sales", 10000, midPeriod),
		testRecord("taxes-on-sales", 1200, midPeriod),
		testRecord("raw-material", 2500, midPeriod),
		testRecord("office", 300, midPeriod),
		testRecord("marketing", 400, midPeriod),
		testRecord("salaries", 2000, midPeriod),
		testRecord("misc-ops", 100, midPeriod),
		testRecord("depreciation", 500, midPeriod),
		testRecord("interest-income", 250, midPeriod),
		testRecord("interest-expense", 150, midPeriod),
		testRecord("irpj", 700, midPeriod),
		testRecord("asset-sale", 999, midPeriod),
		testRecord("lawsuit", 888, midPeriod),
	}

	report, err := reporting.ComputeDre(records, testTaxonomy(), periodStart, periodEnd, domain.RegimeCompetence)
	require.NoError(t, err)

	assert.True(t, report.NetRevenue.Equal(decimal.NewFromInt(8800)))
	assert.True(t, report.GrossProfit.Equal(decimal.NewFromInt(6300)))
	assert.True(t, report.Ebitda.Equal(decimal.NewFromInt(3500)))
	assert.True(t, report.Ebit.Equal(decimal.NewFromInt(3000)))
	assert.True(t, report.FinancialResultNet.Equal(decimal.NewFromInt(100)))
	assert.True(t, report.ProfitBeforeTax.Equal(decimal.NewFromInt(3100)))
	assert.True(t, report.NetIncome.Equal(decimal.NewFromInt(2400)))

	// End-to-end chain: the composed formula must agree with the step-by-step one.
	composed := report.GroupTotal(domain.GroupGrossRevenue).Total.
		Sub(report.GroupTotal(domain.GroupDeductions).Total).
		Sub(report.GroupTotal(domain.GroupCosts).Total).
		Sub(report.GroupTotal(domain.GroupAdminExpenses).Total).
		Sub(report.GroupTotal(domain.GroupCommercialExpenses).Total).
		Sub(report.GroupTotal(domain.GroupPayrollExpenses).Total).
		Sub(report.GroupTotal(domain.GroupOtherOperatingExpenses).Total).
		Sub(report.GroupTotal(domain.GroupDepreciationAmortization).Total).
		Add(report.FinancialResultNet).
		Sub(report.GroupTotal(domain.GroupIncomeTax).Total)
	assert.True(t, report.NetIncome.Equal(composed))
}

func TestComputeDre_OtherGroupsAreInformationalOnly(t *testing.T) {
	base := []domain.FinancialRecord{testRecord("sales", 1000, midPeriod)}
	withOthers := append(base,
		testRecord("asset-sale", 500, midPeriod),
		testRecord("lawsuit", 300, midPeriod),
	)

	baseline, err := reporting.ComputeDre(base, testTaxonomy(), periodStart, periodEnd, domain.RegimeCompetence)
	require.NoError(t, err)
	report, err := reporting.ComputeDre(withOthers, testTaxonomy(), periodStart, periodEnd, domain.RegimeCompetence)
	require.NoError(t, err)

	assert.True(t, report.GroupTotal(domain.GroupOtherRevenue).Total.Equal(decimal.NewFromInt(500)))
	assert.True(t, report.GroupTotal(domain.GroupOtherExpenses).Total.Equal(decimal.NewFromInt(300)))
	assert.True(t, report.NetIncome.Equal(baseline.NetIncome))
}

func TestComputeDre_FinancialResultNetsByNature(t *testing.T) {
	records := []domain.FinancialRecord{
		testRecord("interest-income", 300, midPeriod),
		testRecord("interest-expense", 120, midPeriod),
	}

	report, err := reporting.ComputeDre(records, testTaxonomy(), periodStart, periodEnd, domain.RegimeCompetence)
	require.NoError(t, err)

	// The group total is a plain sum; the net separates income from expense.
	assert.True(t, report.GroupTotal(domain.GroupFinancialResult).Total.Equal(decimal.NewFromInt(420)))
	assert.True(t, report.FinancialResultNet.Equal(decimal.NewFromInt(180)))
	assert.True(t, report.ProfitBeforeTax.Equal(decimal.NewFromInt(180)))
}

func TestComputeDre_UnknownCategoryAborts(t *testing.T) {
	records := []domain.FinancialRecord{testRecord("not-in-taxonomy", 10, midPeriod)}

	report, err := reporting.ComputeDre(records, testTaxonomy(), periodStart, periodEnd, domain.RegimeCompetence)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUnknownCategory)
	assert.Nil(t, report)
}

func TestComputeDre_InvalidPeriod(t *testing.T) {
	_, err := reporting.ComputeDre(nil, testTaxonomy(), periodEnd, periodStart, domain.RegimeCompetence)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidPeriod)
}

func TestComputeDre_CanceledRecordsExcluded(t *testing.T) {
	canceled := testRecord("sales", 1000, midPeriod)
	canceled.Status = domain.StatusCanceled
	records := []domain.FinancialRecord{canceled, testRecord("sales", 400, midPeriod)}

	report, err := reporting.ComputeDre(records, testTaxonomy(), periodStart, periodEnd, domain.RegimeCompetence)
	require.NoError(t, err)

	assert.True(t, report.GroupTotal(domain.GroupGrossRevenue).Total.Equal(decimal.NewFromInt(400)))
}

func TestComputeDre_RegimeSelectsDateField(t *testing.T) {
	record := testRecord("sales", 1000, midPeriod)
	record.RecognitionDate = midPeriod
	record.SettlementDate = periodEnd.AddDate(0, 1, 0) // settles outside the period

	competence, err := reporting.ComputeDre([]domain.FinancialRecord{record}, testTaxonomy(), periodStart, periodEnd, domain.RegimeCompetence)
	require.NoError(t, err)
	cash, err := reporting.ComputeDre([]domain.FinancialRecord{record}, testTaxonomy(), periodStart, periodEnd, domain.RegimeCash)
	require.NoError(t, err)

	assert.True(t, competence.GroupTotal(domain.GroupGrossRevenue).Total.Equal(decimal.NewFromInt(1000)))
	assert.True(t, cash.GroupTotal(domain.GroupGrossRevenue).Total.IsZero())
}

func TestComputeDre_PeriodBoundariesInclusive(t *testing.T) {
	records := []domain.FinancialRecord{
		testRecord("sales", 100, periodStart),
		testRecord("sales", 200, periodEnd),
		testRecord("sales", 400, periodStart.AddDate(0, 0, -1)),
		testRecord("sales", 800, periodEnd.AddDate(0, 0, 1)),
	}

	report, err := reporting.ComputeDre(records, testTaxonomy(), periodStart, periodEnd, domain.RegimeCompetence)
	require.NoError(t, err)

	assert.True(t, report.GroupTotal(domain.GroupGrossRevenue).Total.Equal(decimal.NewFromInt(300)))
}

func TestComputeDre_InactivePeriodCategoriesProduceNoItems(t *testing.T) {
	records := []domain.FinancialRecord{testRecord("sales", 100, midPeriod)}

	report, err := reporting.ComputeDre(records, testTaxonomy(), periodStart, periodEnd, domain.RegimeCompetence)
	require.NoError(t, err)

	// "office" exists in the taxonomy but had no activity: absent, not present with 0.
	assert.Empty(t, report.GroupTotal(domain.GroupAdminExpenses).Items)
	require.Len(t, report.GroupTotal(domain.GroupGrossRevenue).Items, 1)
}

func TestComputeDre_OrderIndependence(t *testing.T) {
	records := []domain.FinancialRecord{
		testRecord("sales", 10000, midPeriod),
		testRecord("taxes-on-sales", 1200, periodStart),
		testRecord("raw-material", 2500, periodEnd),
		testRecord("office", 300, midPeriod),
		testRecord("interest-income", 250, midPeriod),
		testRecord("interest-expense", 150, midPeriod),
	}

	expected, err := reporting.ComputeDre(records, testTaxonomy(), periodStart, periodEnd, domain.RegimeCompetence)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 10; i++ {
		shuffled := make([]domain.FinancialRecord, len(records))
		copy(shuffled, records)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })

		report, err := reporting.ComputeDre(shuffled, testTaxonomy(), periodStart, periodEnd, domain.RegimeCompetence)
		require.NoError(t, err)
		assert.Equal(t, expected, report)
	}
}

func TestComputeDre_Idempotence(t *testing.T) {
	records := []domain.FinancialRecord{
		testRecord("sales", 10000, midPeriod),
		testRecord("office", 300, midPeriod),
	}

	first, err := reporting.ComputeDre(records, testTaxonomy(), periodStart, periodEnd, domain.RegimeCompetence)
	require.NoError(t, err)
	second, err := reporting.ComputeDre(records, testTaxonomy(), periodStart, periodEnd, domain.RegimeCompetence)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
