package insights

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/affilidash-backend/internal/aggregate"
	"github.com/angelmondragon/affilidash-backend/internal/event"
	"github.com/angelmondragon/affilidash-backend/pkg/enums"
)

func monetary(kind enums.EventKind, amount float64, ts time.Time) event.Event {
	return event.Event{
		Kind:      kind,
		Network:   "shareasale",
		Amount:    decimal.NewFromFloat(amount),
		Timestamp: ts,
	}
}

func TestSummarizeLifetimeTotalsWithWindowedGrowth(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	events := []event.Event{
		monetary(enums.EventKindCommission, 100, now.Add(-24*time.Hour)),
		monetary(enums.EventKindCommission, 50, now.Add(-2*24*time.Hour)),
		// previous window
		monetary(enums.EventKindCommission, 100, now.Add(-10*24*time.Hour)),
		// outside both windows; still part of the lifetime totals
		monetary(enums.EventKindCommission, 999, now.Add(-20*24*time.Hour)),
		// non-monetary noise
		{Kind: enums.EventKindClick, Network: "shareasale", Clicks: 10, Timestamp: now},
	}

	sum := Summarize(events, aggregate.Totals{Clicks: 200, Commissions: 5}, enums.TimeRange7D, now)

	if !sum.TotalRevenue.Equal(decimal.NewFromInt(1249)) {
		t.Fatalf("totals must cover the full history, got %s", sum.TotalRevenue)
	}
	if sum.TotalCommissions != 4 {
		t.Fatalf("unexpected lifetime commissions %d", sum.TotalCommissions)
	}
	if !sum.AverageCommission.Equal(decimal.NewFromFloat(312.25)) {
		t.Fatalf("unexpected average commission %s", sum.AverageCommission)
	}
	if sum.ConversionRate != 2.5 {
		t.Fatalf("conversion rate should come from lifetime totals, got %v", sum.ConversionRate)
	}
	if sum.RevenueGrowth == nil || *sum.RevenueGrowth != 50 {
		t.Fatalf("expected 50%% growth vs previous window, got %v", sum.RevenueGrowth)
	}
}

func TestSummarizeTotalsCoverEventsOutsideTheWindow(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	events := []event.Event{
		monetary(enums.EventKindCommission, 500, now.Add(-100*24*time.Hour)),
	}

	sum := Summarize(events, aggregate.Totals{}, enums.TimeRange7D, now)
	if !sum.TotalRevenue.Equal(decimal.NewFromInt(500)) {
		t.Fatalf("an old commission must still appear in the totals, got %s", sum.TotalRevenue)
	}
	if sum.RevenueGrowth == nil || *sum.RevenueGrowth != 0 {
		t.Fatalf("both growth windows are empty, expected flat zero, got %v", sum.RevenueGrowth)
	}
}

func TestSummarizeAllRange(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	events := []event.Event{
		monetary(enums.EventKindCommission, 100, now.Add(-time.Hour)),
		monetary(enums.EventKindCommission, 200, now.Add(-300*24*time.Hour)),
	}

	sum := Summarize(events, aggregate.Totals{}, enums.TimeRangeAll, now)
	if !sum.TotalRevenue.Equal(decimal.NewFromInt(300)) {
		t.Fatalf("unexpected all-range revenue %s", sum.TotalRevenue)
	}
	// no previous window exists for the open-ended range
	if sum.RevenueGrowth != nil {
		t.Fatalf("expected nil growth for the open-ended range, got %v", *sum.RevenueGrowth)
	}
}

func TestSummarizeGrowthNAWhenPreviousWindowEmpty(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	events := []event.Event{
		monetary(enums.EventKindCommission, 40, now.Add(-time.Hour)),
	}

	sum := Summarize(events, aggregate.Totals{}, enums.TimeRange7D, now)
	if sum.RevenueGrowth != nil {
		t.Fatalf("expected nil growth with empty previous window, got %v", *sum.RevenueGrowth)
	}
}

func TestSummarizeEmptyHistory(t *testing.T) {
	now := time.Now().UTC()
	sum := Summarize(nil, aggregate.Totals{}, enums.TimeRange30D, now)

	if !sum.TotalRevenue.Equal(decimal.Zero) || sum.TotalCommissions != 0 {
		t.Fatalf("expected zero summary, got %+v", sum)
	}
	if sum.RevenueGrowth == nil || *sum.RevenueGrowth != 0 {
		t.Fatalf("expected flat growth for empty history, got %v", sum.RevenueGrowth)
	}
	if !sum.AverageCommission.Equal(decimal.Zero) {
		t.Fatalf("average commission should be zero, got %s", sum.AverageCommission)
	}
}

func TestSummarizeUsesCommissionAmountForConversions(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	commission := decimal.NewFromFloat(12.5)
	events := []event.Event{
		{
			Kind:             enums.EventKindConversion,
			Network:          "clickbank",
			Amount:           decimal.NewFromInt(500),
			CommissionAmount: &commission,
			Timestamp:        now.Add(-time.Hour),
		},
	}

	sum := Summarize(events, aggregate.Totals{}, enums.TimeRange7D, now)
	if !sum.TotalRevenue.Equal(commission) {
		t.Fatalf("conversion revenue should use commissionAmount, got %s", sum.TotalRevenue)
	}
}
