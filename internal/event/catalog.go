package event

// NetworkInfo is the static identity of an affiliate network.
type NetworkInfo struct {
	ID   string
	Name string
}

// KnownNetworks seeds the aggregation state so the dashboard always shows the
// four first-party integrations, active traffic or not.
var KnownNetworks = []NetworkInfo{
	{ID: "amazon-associates", Name: "Amazon Associates"},
	{ID: "shareasale", Name: "ShareASale"},
	{ID: "cj-affiliate", Name: "CJ Affiliate"},
	{ID: "clickbank", Name: "ClickBank"},
}

// TrackedCampaigns is the campaign allow-list. Commission and conversion
// events outside this list never reach campaign aggregates.
var TrackedCampaigns = []string{
	"Holiday Discounts",
	"Electronics Blast",
	"Fashion Flash Sale",
	"Back-to-School",
	"Prime Deals",
}

var trackedCampaignSet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(TrackedCampaigns))
	for _, campaign := range TrackedCampaigns {
		set[campaign] = struct{}{}
	}
	return set
}()

// IsTrackedCampaign reports whether the campaign is on the allow-list.
func IsTrackedCampaign(campaign string) bool {
	_, ok := trackedCampaignSet[campaign]
	return ok
}
