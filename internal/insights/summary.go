package insights

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/affilidash-backend/internal/aggregate"
	"github.com/angelmondragon/affilidash-backend/internal/event"
	"github.com/angelmondragon/affilidash-backend/pkg/enums"
)

// Summary is the analytics rollup for one reporting range. The totals cover
// the full history regardless of range; only the growth figure is windowed.
// That split matches the dashboard's historical behavior and is deliberate.
type Summary struct {
	Range             enums.TimeRange `json:"timeRange"`
	TotalRevenue      decimal.Decimal `json:"totalRevenue"`
	TotalCommissions  int64           `json:"totalCommissions"`
	AverageCommission decimal.Decimal `json:"averageCommission"`
	ConversionRate    float64         `json:"conversionRate"`
	RevenueGrowth     *float64        `json:"revenueGrowth"`
}

type windowTotals struct {
	revenue     decimal.Decimal
	commissions int64
}

// Summarize folds the event history into a summary for the requested range.
// Totals and the average commission always read the full history; the range
// only moves the growth comparison, where the previous window ends one
// millisecond before the current one starts. The open-ended "all" range has
// nothing to compare against, so its previous window is empty.
func Summarize(events []event.Event, totals aggregate.Totals, rng enums.TimeRange, now time.Time) Summary {
	lifetime := foldWindow(events, time.Time{}, time.Time{})

	var current, previous windowTotals
	if rng == enums.TimeRangeAll {
		current = lifetime
		previous = windowTotals{revenue: decimal.Zero}
	} else {
		span := rng.Duration()
		currentStart := now.Add(-span)
		previousStart := currentStart.Add(-span)
		previousEnd := currentStart.Add(-time.Millisecond)
		current = foldWindow(events, currentStart, now)
		previous = foldWindow(events, previousStart, previousEnd)
	}

	avg := decimal.Zero
	if lifetime.commissions > 0 {
		avg = lifetime.revenue.DivRound(decimal.NewFromInt(lifetime.commissions), 2)
	}

	// The conversion rate also reads lifetime totals, never the window.
	rate := 0.0
	if totals.Clicks > 0 {
		rate = round2(float64(totals.Commissions) / float64(totals.Clicks) * 100)
	}

	return Summary{
		Range:             rng,
		TotalRevenue:      lifetime.revenue,
		TotalCommissions:  lifetime.commissions,
		AverageCommission: avg,
		ConversionRate:    rate,
		RevenueGrowth:     Growth(current.revenue, previous.revenue),
	}
}

// foldWindow sums monetary events inside [start, end]; a zero bound leaves
// that side open.
func foldWindow(events []event.Event, start, end time.Time) windowTotals {
	out := windowTotals{revenue: decimal.Zero}
	for _, ev := range events {
		if !ev.Kind.IsMonetary() {
			continue
		}
		if !start.IsZero() && ev.Timestamp.Before(start) {
			continue
		}
		if !end.IsZero() && ev.Timestamp.After(end) {
			continue
		}
		value := ev.MonetaryValue()
		if !value.IsPositive() {
			continue
		}
		out.revenue = out.revenue.Add(value)
		out.commissions++
	}
	return out
}
