package insights

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/affilidash-backend/internal/aggregate"
)

// CampaignRank is one leaderboard row: current folded state plus growth
// against the baseline persisted at snapshot load.
type CampaignRank struct {
	Name           string          `json:"name"`
	Revenue        decimal.Decimal `json:"revenue"`
	Commissions    int64           `json:"commissions"`
	Conversions    int64           `json:"conversions"`
	Clicks         int64           `json:"clicks"`
	ConversionRate float64         `json:"conversionRate"`
	Growth         *float64        `json:"growth"`
}

// Leaderboard ranks campaigns by revenue, descending. Growth is nil ("N/A")
// for campaigns that had no baseline revenue but earn now.
func Leaderboard(campaigns []aggregate.CampaignState, baseline map[string]decimal.Decimal) []CampaignRank {
	ranks := make([]CampaignRank, 0, len(campaigns))
	for _, camp := range campaigns {
		base := decimal.Zero
		if v, ok := baseline[camp.Name]; ok {
			base = v
		}
		ranks = append(ranks, CampaignRank{
			Name:           camp.Name,
			Revenue:        camp.Revenue,
			Commissions:    camp.Commissions,
			Conversions:    camp.Conversions,
			Clicks:         camp.Clicks,
			ConversionRate: camp.ConversionRate,
			Growth:         Growth(camp.Revenue, base),
		})
	}
	sort.SliceStable(ranks, func(i, j int) bool {
		return ranks[i].Revenue.GreaterThan(ranks[j].Revenue)
	})
	return ranks
}
