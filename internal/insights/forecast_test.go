package insights

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/affilidash-backend/internal/aggregate"
	"github.com/angelmondragon/affilidash-backend/internal/event"
	"github.com/angelmondragon/affilidash-backend/pkg/enums"
)

func TestComputeForecastEmptyHistoryFallsBack(t *testing.T) {
	now := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	forecast := ComputeForecast(nil, nil, now)

	if len(forecast.ForecastData) != 6 {
		t.Fatalf("expected 6 projected months, got %d", len(forecast.ForecastData))
	}
	first := forecast.ForecastData[0]
	if first.Month != "September 2026" {
		t.Fatalf("projection should start next month, got %q", first.Month)
	}
	if first.Predicted != 1000 {
		t.Fatalf("empty history should project the fallback revenue, got %d", first.Predicted)
	}
	if first.Confidence != 70 {
		t.Fatalf("no data means minimum confidence, got %d", first.Confidence)
	}
	if len(forecast.Scenarios) != 3 {
		t.Fatalf("expected 3 scenarios, got %d", len(forecast.Scenarios))
	}
	if forecast.PositiveIndicators[0] != "No significant revenue drivers yet" {
		t.Fatalf("unexpected indicator %q", forecast.PositiveIndicators[0])
	}
	if forecast.RiskFactors[0] != "Insufficient data to identify risks" {
		t.Fatalf("unexpected risk factor %q", forecast.RiskFactors[0])
	}
}

func TestComputeForecastCompoundsGrowth(t *testing.T) {
	now := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	events := []event.Event{
		monetary(enums.EventKindCommission, 100, time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)),
		monetary(enums.EventKindCommission, 200, time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC)),
		monetary(enums.EventKindCommission, 400, time.Date(2026, 7, 10, 0, 0, 0, 0, time.UTC)),
	}

	forecast := ComputeForecast(events, nil, now)

	// average monthly revenue 233.33, growth rate 100%
	first := forecast.ForecastData[0]
	if first.Predicted != 467 {
		t.Fatalf("unexpected first projection %d", first.Predicted)
	}
	second := forecast.ForecastData[1]
	if second.Predicted != 934 {
		t.Fatalf("projection should compound on the previous month, got %d", second.Predicted)
	}
	// high volatility docks confidence to the floor
	if first.Confidence != 70 {
		t.Fatalf("unexpected confidence %d", first.Confidence)
	}
}

func TestComputeForecastScenarioTotals(t *testing.T) {
	now := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	events := []event.Event{
		monetary(enums.EventKindCommission, 300, time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC)),
		monetary(enums.EventKindCommission, 300, time.Date(2026, 7, 10, 0, 0, 0, 0, time.UTC)),
	}

	forecast := ComputeForecast(events, nil, now)

	for _, sc := range forecast.Scenarios {
		// zero growth: every quarter projects base revenue x3
		if sc.Q1 != 900 || sc.Q4 != 900 {
			t.Fatalf("scenario %s expected flat 900 quarters, got q1=%d q4=%d", sc.Name, sc.Q1, sc.Q4)
		}
		if sc.Total != 3600 {
			t.Fatalf("scenario %s unexpected total %d", sc.Name, sc.Total)
		}
	}
	if forecast.Scenarios[0].Probability != 85 || forecast.Scenarios[2].Probability != 35 {
		t.Fatalf("unexpected scenario probabilities")
	}
}

func TestComputeForecastIndicators(t *testing.T) {
	now := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	campaigns := []aggregate.CampaignState{
		{Name: "Prime Deals", Revenue: decimal.NewFromInt(12500)},
		{Name: "Holiday Discounts", Revenue: decimal.NewFromInt(900)},
		{Name: "Electronics Blast", Revenue: decimal.NewFromInt(500)},
		{Name: "Back-to-School", Revenue: decimal.NewFromInt(50), ConversionRate: 1.2},
		{Name: "Fashion Flash Sale", Revenue: decimal.Zero},
	}

	forecast := ComputeForecast(nil, campaigns, now)

	if len(forecast.PositiveIndicators) != 3 {
		t.Fatalf("expected top-3 indicators, got %d", len(forecast.PositiveIndicators))
	}
	if forecast.PositiveIndicators[0] != "Prime Deals contributing $12,500 in revenue" {
		t.Fatalf("unexpected indicator %q", forecast.PositiveIndicators[0])
	}
	if len(forecast.RiskFactors) != 2 {
		t.Fatalf("expected bottom-2 risk factors, got %d", len(forecast.RiskFactors))
	}
	if !strings.Contains(forecast.RiskFactors[0], "Back-to-School") {
		t.Fatalf("unexpected risk factor %q", forecast.RiskFactors[0])
	}
}
