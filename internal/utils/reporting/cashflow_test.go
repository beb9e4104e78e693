package reporting_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbfontes/fin_crm_app/internal/apperrors"
	"github.com/vbfontes/fin_crm_app/internal/core/domain"
	"github.com/vbfontes/fin_crm_app/internal/utils/reporting"
)

func cashRecord(direction domain.Direction, amount int64, due time.Time) domain.FinancialRecord {
	return domain.FinancialRecord{
		RecordID:        string(direction) + "-" + due.Format("2006-01-02"),
		OrganizationID:  "org-1",
		Amount:          decimal.NewFromInt(amount),
		CategoryID:      "any",
		Direction:       direction,
		Status:          domain.StatusPending,
		RecognitionDate: due,
		SettlementDate:  due,
	}
}

func TestComputeCashFlow_ExampleScenario(t *testing.T) {
	start := time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 4) // 5-day horizon

	records := []domain.FinancialRecord{
		cashRecord(domain.DirectionPayable, 200, start),                  // day 1
		cashRecord(domain.DirectionPayable, 200, start.AddDate(0, 0, 2)), // day 3
	}

	periods, err := reporting.ComputeCashFlow(records, start, end, domain.GranularityDaily)
	require.NoError(t, err)
	require.Len(t, periods, 5)

	expectedNet := []int64{-200, 0, -200, 0, 0}
	expectedCum := []int64{-200, -200, -400, -400, -400}
	for i := range periods {
		assert.True(t, periods[i].Net.Equal(decimal.NewFromInt(expectedNet[i])), "net of period %d", i)
		assert.True(t, periods[i].CumulativeBalance.Equal(decimal.NewFromInt(expectedCum[i])), "cumulative balance of period %d", i)
	}
}

func TestComputeCashFlow_ContiguousAscendingBuckets(t *testing.T) {
	start := time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, time.April, 30, 0, 0, 0, 0, time.UTC)

	periods, err := reporting.ComputeCashFlow(nil, start, end, domain.GranularityDaily)
	require.NoError(t, err)
	require.Len(t, periods, 30)

	for i := 1; i < len(periods); i++ {
		assert.Equal(t, periods[i-1].PeriodStart.AddDate(0, 0, 1), periods[i].PeriodStart)
	}
}

func TestComputeCashFlow_RunningBalanceRecurrence(t *testing.T) {
	start := time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 9)

	records := []domain.FinancialRecord{
		cashRecord(domain.DirectionReceivable, 1500, start),
		cashRecord(domain.DirectionPayable, 700, start.AddDate(0, 0, 1)),
		cashRecord(domain.DirectionReceivable, 50, start.AddDate(0, 0, 4)),
		cashRecord(domain.DirectionPayable, 325, start.AddDate(0, 0, 4)),
		cashRecord(domain.DirectionPayable, 80, start.AddDate(0, 0, 9)),
	}

	periods, err := reporting.ComputeCashFlow(records, start, end, domain.GranularityDaily)
	require.NoError(t, err)

	previous := decimal.Zero
	for i, period := range periods {
		assert.True(t, period.Net.Equal(period.ReceivablesTotal.Sub(period.PayablesTotal)), "net of period %d", i)
		assert.True(t, period.CumulativeBalance.Equal(previous.Add(period.Net)), "cumulative balance of period %d", i)
		previous = period.CumulativeBalance
	}
}

func TestComputeCashFlow_EmptyBucketsCarryBalanceForward(t *testing.T) {
	start := time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 6)

	records := []domain.FinancialRecord{cashRecord(domain.DirectionReceivable, 900, start)}

	periods, err := reporting.ComputeCashFlow(records, start, end, domain.GranularityDaily)
	require.NoError(t, err)
	require.Len(t, periods, 7)

	for i := 1; i < len(periods); i++ {
		assert.True(t, periods[i].Net.IsZero())
		assert.True(t, periods[i].CumulativeBalance.Equal(decimal.NewFromInt(900)))
	}
}

func TestComputeCashFlow_NoHorizonLeakage(t *testing.T) {
	start := time.Date(2025, time.April, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, time.April, 20, 0, 0, 0, 0, time.UTC)

	records := []domain.FinancialRecord{
		cashRecord(domain.DirectionReceivable, 100, start.AddDate(0, 0, -1)), // before horizon
		cashRecord(domain.DirectionPayable, 100, end.AddDate(0, 0, 1)),       // after horizon
		cashRecord(domain.DirectionReceivable, 40, start),
	}

	periods, err := reporting.ComputeCashFlow(records, start, end, domain.GranularityDaily)
	require.NoError(t, err)

	assert.True(t, periods[0].ReceivablesTotal.Equal(decimal.NewFromInt(40)))
	assert.True(t, periods[len(periods)-1].CumulativeBalance.Equal(decimal.NewFromInt(40)))
}

func TestComputeCashFlow_CanceledRecordsExcluded(t *testing.T) {
	start := time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 2)

	canceled := cashRecord(domain.DirectionPayable, 500, start)
	canceled.Status = domain.StatusCanceled

	periods, err := reporting.ComputeCashFlow([]domain.FinancialRecord{canceled}, start, end, domain.GranularityDaily)
	require.NoError(t, err)

	for _, period := range periods {
		assert.True(t, period.PayablesTotal.IsZero())
		assert.True(t, period.CumulativeBalance.IsZero())
	}
}

func TestComputeCashFlow_WeeklyBuckets(t *testing.T) {
	start := time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 9) // 10 days -> two weekly buckets

	records := []domain.FinancialRecord{
		cashRecord(domain.DirectionReceivable, 100, start.AddDate(0, 0, 6)), // last day of week 1
		cashRecord(domain.DirectionReceivable, 200, start.AddDate(0, 0, 7)), // first day of week 2
	}

	periods, err := reporting.ComputeCashFlow(records, start, end, domain.GranularityWeekly)
	require.NoError(t, err)
	require.Len(t, periods, 2)

	assert.Equal(t, start, periods[0].PeriodStart)
	assert.Equal(t, start.AddDate(0, 0, 7), periods[1].PeriodStart)
	assert.True(t, periods[0].ReceivablesTotal.Equal(decimal.NewFromInt(100)))
	assert.True(t, periods[1].ReceivablesTotal.Equal(decimal.NewFromInt(200)))
}

func TestComputeCashFlow_MonthlyBucketsAlignToCalendarMonths(t *testing.T) {
	start := time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)

	records := []domain.FinancialRecord{
		cashRecord(domain.DirectionReceivable, 10, time.Date(2025, time.January, 31, 0, 0, 0, 0, time.UTC)),
		cashRecord(domain.DirectionReceivable, 20, time.Date(2025, time.February, 5, 0, 0, 0, 0, time.UTC)),
		cashRecord(domain.DirectionPayable, 5, time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)),
	}

	periods, err := reporting.ComputeCashFlow(records, start, end, domain.GranularityMonthly)
	require.NoError(t, err)
	require.Len(t, periods, 3)

	assert.Equal(t, start, periods[0].PeriodStart)
	assert.Equal(t, time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC), periods[1].PeriodStart)
	assert.Equal(t, time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC), periods[2].PeriodStart)

	assert.True(t, periods[0].ReceivablesTotal.Equal(decimal.NewFromInt(10)))
	assert.True(t, periods[1].ReceivablesTotal.Equal(decimal.NewFromInt(20)))
	assert.True(t, periods[2].PayablesTotal.Equal(decimal.NewFromInt(5)))
	assert.True(t, periods[2].CumulativeBalance.Equal(decimal.NewFromInt(25)))
}

func TestComputeCashFlow_InvalidPeriod(t *testing.T) {
	start := time.Date(2025, time.April, 10, 0, 0, 0, 0, time.UTC)

	_, err := reporting.ComputeCashFlow(nil, start, start.AddDate(0, 0, -1), domain.GranularityDaily)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidPeriod)
}

func TestComputeCashFlow_InvalidGranularity(t *testing.T) {
	start := time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)

	_, err := reporting.ComputeCashFlow(nil, start, start.AddDate(0, 0, 5), domain.Granularity("HOURLY"))
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidGranularity)
}

func TestComputeCashFlow_SingleDayHorizon(t *testing.T) {
	day := time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)

	periods, err := reporting.ComputeCashFlow(
		[]domain.FinancialRecord{cashRecord(domain.DirectionReceivable, 77, day)},
		day, day, domain.GranularityMonthly,
	)
	require.NoError(t, err)
	require.Len(t, periods, 1)
	assert.True(t, periods[0].CumulativeBalance.Equal(decimal.NewFromInt(77)))
}
