package reporting

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vbfontes/fin_crm_app/internal/apperrors"
	"github.com/vbfontes/fin_crm_app/internal/core/domain"
)

// ComputeCashFlow buckets records into contiguous time periods across the
// inclusive [start, end] horizon and projects per-period money in, money out,
// net and a running cumulative balance seeded at zero. Buckets with no activity
// still appear with all-zero totals and the balance carried forward; records
// dated outside the horizon are excluded entirely.
func ComputeCashFlow(records []domain.FinancialRecord, start, end time.Time, granularity domain.Granularity) ([]domain.CashFlowPeriod, error) {
	if start.After(end) {
		return nil, fmt.Errorf("%w: start %s is after end %s", apperrors.ErrInvalidPeriod, start.Format(dateFormat), end.Format(dateFormat))
	}
	if !granularity.IsValid() {
		return nil, fmt.Errorf("%w: %q", apperrors.ErrInvalidGranularity, granularity)
	}

	startDay := dayOf(start)
	endDay := dayOf(end)
	bucketStarts := periodStarts(startDay, endDay, granularity)

	periods := make([]domain.CashFlowPeriod, len(bucketStarts))
	for i, periodStart := range bucketStarts {
		periods[i] = domain.CashFlowPeriod{
			PeriodStart:       periodStart,
			ReceivablesTotal:  decimal.Zero,
			PayablesTotal:     decimal.Zero,
			Net:               decimal.Zero,
			CumulativeBalance: decimal.Zero,
		}
	}

	for _, record := range records {
		if record.IsCanceled() {
			continue
		}
		dueDay := dayOf(record.SettlementDate)
		if dueDay.Before(startDay) || dueDay.After(endDay) {
			continue
		}
		bucket := &periods[bucketIndex(bucketStarts, dueDay)]
		if record.Direction == domain.DirectionReceivable {
			bucket.ReceivablesTotal = bucket.ReceivablesTotal.Add(record.Amount)
		} else {
			bucket.PayablesTotal = bucket.PayablesTotal.Add(record.Amount)
		}
	}

	running := decimal.Zero
	for i := range periods {
		periods[i].Net = periods[i].ReceivablesTotal.Sub(periods[i].PayablesTotal)
		running = running.Add(periods[i].Net)
		periods[i].CumulativeBalance = running
	}

	return periods, nil
}

// periodStarts partitions the horizon into ascending, non-overlapping bucket
// boundaries. Daily and weekly buckets step from the horizon start; monthly
// buckets align to calendar months after the (possibly partial) first bucket.
func periodStarts(startDay, endDay time.Time, granularity domain.Granularity) []time.Time {
	var starts []time.Time
	for cursor := startDay; !cursor.After(endDay); cursor = nextPeriodStart(cursor, granularity) {
		starts = append(starts, cursor)
	}
	return starts
}

func nextPeriodStart(cursor time.Time, granularity domain.Granularity) time.Time {
	switch granularity {
	case domain.GranularityDaily:
		return cursor.AddDate(0, 0, 1)
	case domain.GranularityWeekly:
		return cursor.AddDate(0, 0, 7)
	default:
		// First day of the month after cursor. Built from explicit components so
		// a cursor on day 29..31 cannot skip a short month through AddDate
		// normalization.
		return time.Date(cursor.Year(), cursor.Month()+1, 1, 0, 0, 0, 0, time.UTC)
	}
}

// bucketIndex returns the index of the bucket whose range contains day: the last
// bucket whose start is not after it. Callers guarantee day is inside the horizon.
func bucketIndex(bucketStarts []time.Time, day time.Time) int {
	return sort.Search(len(bucketStarts), func(i int) bool {
		return bucketStarts[i].After(day)
	}) - 1
}
