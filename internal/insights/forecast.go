package insights

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/affilidash-backend/internal/aggregate"
	"github.com/angelmondragon/affilidash-backend/internal/event"
)

// ForecastMonth is one projected month of revenue.
type ForecastMonth struct {
	Month      string   `json:"month"`
	Predicted  int64    `json:"predicted"`
	Confidence int      `json:"confidence"`
	Actual     *float64 `json:"actual"`
}

// Scenario is a quarterly projection under one growth assumption.
type Scenario struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Q1          int64  `json:"q1"`
	Q2          int64  `json:"q2"`
	Q3          int64  `json:"q3"`
	Q4          int64  `json:"q4"`
	Total       int64  `json:"total"`
	Probability int    `json:"probability"`
}

// Forecast bundles the six-month projection, the what-if scenarios and the
// headline indicators shown on the analytics page.
type Forecast struct {
	ForecastData       []ForecastMonth `json:"forecastData"`
	Scenarios          []Scenario      `json:"scenarios"`
	PositiveIndicators []string        `json:"positiveIndicators"`
	RiskFactors        []string        `json:"riskFactors"`
}

const fallbackMonthlyRevenue = 1000.0

// ComputeForecast buckets earnings by calendar month, derives the average
// month-over-month growth rate and compounds it six months forward.
// Confidence starts from how many months of data exist and is docked by
// revenue volatility (stddev relative to the mean), floored at 70.
func ComputeForecast(events []event.Event, campaigns []aggregate.CampaignState, now time.Time) Forecast {
	monthly := map[string]float64{}
	for _, ev := range events {
		if !ev.Kind.IsMonetary() || ev.Timestamp.IsZero() {
			continue
		}
		key := ev.Timestamp.Format("2006-01")
		monthly[key] += ev.MonetaryValue().InexactFloat64()
	}

	months := make([]string, 0, len(monthly))
	for key := range monthly {
		months = append(months, key)
	}
	sort.Strings(months)

	revenues := make([]float64, 0, len(months))
	total := 0.0
	for _, key := range months {
		revenues = append(revenues, monthly[key])
		total += monthly[key]
	}

	averageMonthly := 0.0
	if len(revenues) > 0 {
		averageMonthly = total / float64(len(revenues))
	}

	growthSum, growthCount := 0.0, 0
	for i := 1; i < len(months); i++ {
		prev := monthly[months[i-1]]
		curr := monthly[months[i]]
		if prev > 0 {
			growthSum += (curr - prev) / prev * 100
			growthCount++
		}
	}
	growthRate := 0.0
	if growthCount > 0 {
		growthRate = growthSum / float64(growthCount)
	}

	confidence := confidenceScore(revenues, averageMonthly)

	startDate := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, 1, 0)
	lastRevenue := averageMonthly
	if lastRevenue <= 0 {
		lastRevenue = fallbackMonthlyRevenue
	}

	forecastData := make([]ForecastMonth, 0, 6)
	for i := 0; i < 6; i++ {
		date := startDate.AddDate(0, i, 0)
		predicted := int64(math.Round(lastRevenue * (1 + growthRate/100)))
		forecastData = append(forecastData, ForecastMonth{
			Month:      date.Format("January 2006"),
			Predicted:  predicted,
			Confidence: confidence,
		})
		lastRevenue = float64(predicted)
	}

	baseRevenue := averageMonthly
	if baseRevenue <= 0 {
		baseRevenue = fallbackMonthlyRevenue
	}

	scenarios := []Scenario{
		buildScenario("Conservative", "Based on current performance with minimal growth",
			baseRevenue, math.Max(0, growthRate*0.5), 85),
		buildScenario("Optimistic", "Assuming successful implementation of optimization suggestions",
			baseRevenue, growthRate, 65),
		buildScenario("Aggressive", "With new market expansion and increased ad spend",
			baseRevenue, growthRate*2, 35),
	}

	ranked := make([]aggregate.CampaignState, len(campaigns))
	copy(ranked, campaigns)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Revenue.GreaterThan(ranked[j].Revenue)
	})

	return Forecast{
		ForecastData:       forecastData,
		Scenarios:          scenarios,
		PositiveIndicators: positiveIndicators(ranked),
		RiskFactors:        riskFactors(ranked),
	}
}

func confidenceScore(revenues []float64, mean float64) int {
	base := 70
	switch {
	case len(revenues) >= 3:
		base = 90
	case len(revenues) >= 1:
		base = 80
	}

	adjustment := 0.0
	if mean > 0 {
		variance := 0.0
		for _, r := range revenues {
			variance += math.Pow(r-mean, 2)
		}
		variance /= float64(len(revenues))
		adjustment = math.Min(20, math.Sqrt(variance)/mean*100)
	}

	confidence := int(math.Round(float64(base) - adjustment))
	if confidence < 70 {
		confidence = 70
	}
	return confidence
}

func buildScenario(name, description string, baseRevenue, growthRate float64, probability int) Scenario {
	quarters := make([]int64, 4)
	var total int64
	for i := 0; i < 4; i++ {
		monthlyProjection := baseRevenue * math.Pow(1+growthRate/100, float64(i))
		quarters[i] = int64(math.Round(monthlyProjection * 3))
		total += quarters[i]
	}
	return Scenario{
		Name:        name,
		Description: description,
		Q1:          quarters[0],
		Q2:          quarters[1],
		Q3:          quarters[2],
		Q4:          quarters[3],
		Total:       total,
		Probability: probability,
	}
}

func positiveIndicators(ranked []aggregate.CampaignState) []string {
	out := []string{}
	for i, camp := range ranked {
		if i >= 3 {
			break
		}
		out = append(out, fmt.Sprintf("%s contributing $%s in revenue", camp.Name, formatThousands(camp.Revenue)))
	}
	if len(out) == 0 {
		return []string{"No significant revenue drivers yet"}
	}
	return out
}

func riskFactors(ranked []aggregate.CampaignState) []string {
	if len(ranked) <= 2 {
		return []string{"Insufficient data to identify risks"}
	}
	out := []string{}
	for _, camp := range ranked[len(ranked)-2:] {
		out = append(out, fmt.Sprintf("Low performance in %s (%.1f%% conversion rate)", camp.Name, camp.ConversionRate))
	}
	return out
}

func formatThousands(v decimal.Decimal) string {
	n := v.Round(0).IntPart()
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	s := fmt.Sprintf("%d", n)
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	return sign + s
}
